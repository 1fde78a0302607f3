package workflow

import (
	"context"

	"github.com/jhoicas/stockops-api/internal/domain/entity"
)

// OperationGateway puerto de persistencia de operaciones contra la API
// upstream. Las implementaciones deben honrar la cancelación del contexto
// como punto de anclaje de aborto; no hay timeout propio en este nivel.
type OperationGateway interface {
	// GetStockOperation lee la operación completa (incluye renglones).
	GetStockOperation(ctx context.Context, uuid string) (*entity.StockOperation, error)
	// SaveStockOperation crea (uuid vacío) o actualiza la operación y
	// devuelve la representación persistida.
	SaveStockOperation(ctx context.Context, op entity.StockOperation) (*entity.StockOperation, error)
	// DeleteStockOperationItem elimina un renglón individual.
	DeleteStockOperationItem(ctx context.Context, uuid string) error
}

// ReferenceGateway puerto de solo lectura para datos de referencia y
// colaterales de impresión.
type ReferenceGateway interface {
	GetOperationTypes(ctx context.Context) ([]entity.OperationType, error)
	GetParties(ctx context.Context) ([]entity.Party, error)
	// GetStockOperationLinks lista los enlaces que referencian el uuid
	// como padre o como hijo.
	GetStockOperationLinks(ctx context.Context, operationUUID string) ([]entity.StockOperationLink, error)
	GetItemCosts(ctx context.Context, operationUUID string) ([]entity.StockOperationItemCost, error)
	GetInventory(ctx context.Context, partyUUID string, stockItemUUIDs []string) ([]entity.StockItemInventory, error)
}
