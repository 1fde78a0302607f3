// Package pdf implementa la representación imprimible de una operación de
// stock (despachos, requisiciones, recepciones y transferencias).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Organización + Ubicación  │  N° Operación + Fecha   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TÍTULO DEL DOCUMENTO (con la operación padre si existe)     │
//	│  FUENTE / DESTINO / RESPONSABLE / AUTORIZÓ                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Ítem | Lote | Vence | Pedido | Entregado | Costo     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  OBSERVACIONES                                               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockops-api/internal/application/printing"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPrintGenerator genera el PDF de una operación usando Maroto v2.
type MarotoPrintGenerator struct{}

// NewMarotoPrintGenerator construye el generador.
func NewMarotoPrintGenerator() *MarotoPrintGenerator { return &MarotoPrintGenerator{} }

// GenerateOperationPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPrintGenerator) GenerateOperationPDF(
	_ context.Context,
	data printing.Data,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(data.DocumentTitle, true).
		WithAuthor(data.Organization, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableRows(data.Rows) {
		m.AddRows(r)
	}

	if data.Remarks != "" {
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
		m.AddRows(remarksRow(data.Remarks))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: organización + ubicación (izq) y título + número + fecha (der).
func headerRow(data printing.Data) core.Row {
	fecha := data.OperationDate.Format("02/01/2006")
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(data.Organization, "—"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(data.Location, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(data.DocumentTitle, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(data.OperationNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// partiesRow: fuente, destino, responsable y quien autorizó.
func partiesRow(data printing.Data) core.Row {
	return row.New(14).Add(
		col.New(6).Add(
			text.New("FUENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(data.SourceName, "—"), props.Text{Size: 9, Top: 6}),
		),
		col.New(6).Add(
			text.New("DESTINO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(data.DestinationName, "—"), props.Text{Size: 9, Top: 6}),
			text.New(fmt.Sprintf("Responsable: %s   |   Autorizó: %s",
				nonEmpty(data.ResponsibleBy, "—"),
				nonEmpty(data.AuthorizedBy, "—"),
			), props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de renglones.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Ítem", 4, align.Left),
		h("Lote", 2, align.Center),
		h("Pedido", 2, align.Right),
		h("Entregado", 2, align.Right),
		h("Costo total", 2, align.Right),
	)
}

// tableRows: una fila por renglón del documento.
func tableRows(rows []printing.Row) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		entregado := r.QuantityIssued
		if entregado == nil {
			entregado = r.Quantity
		}
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(
				r.StockItemName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				nonEmpty(r.BatchNo, "—"),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				formatQty(r.QuantityRequested),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				formatQty(entregado),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				formatQty(r.TotalCost),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// remarksRow: observaciones de la cabecera.
func remarksRow(remarks string) core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New("Observaciones: "+remarks, props.Text{Size: 8, Color: colorGray, Top: 2}),
	))
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func formatQty(d *decimal.Decimal) string {
	if d == nil {
		return "—"
	}
	return d.StringFixed(2)
}
