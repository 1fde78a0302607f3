package operations

import (
	"context"

	"github.com/jhoicas/stockops-api/internal/application/printing"
)

// PrintPDFGenerator puerto de render del registro de impresión a PDF.
type PrintPDFGenerator interface {
	GenerateOperationPDF(ctx context.Context, data printing.Data) ([]byte, error)
}
