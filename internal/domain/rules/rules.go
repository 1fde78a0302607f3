// Package rules es el módulo autoritativo de reglas por tipo de operación.
// Toda decisión condicionada al tipo (campos obligatorios, manejo de lotes,
// precios, despacho, impresión) se resuelve aquí y solo aquí.
package rules

import "github.com/jhoicas/stockops-api/internal/domain/entity"

// RuleSet el paquete fijo de flags que gobierna una operación según su tipo.
type RuleSet struct {
	// RequiresBatchUUID el renglón selecciona un lote ya rastreado.
	RequiresBatchUUID bool
	// RequiresActualBatchInfo el renglón captura lote y vencimiento a texto
	// libre (mercancía que entra por primera vez).
	RequiresActualBatchInfo bool
	// QuantityOptional la cantidad puede omitirse (solo requisiciones).
	QuantityOptional bool
	// CanCapturePurchasePrice el renglón puede registrar precio de compra.
	CanCapturePurchasePrice bool
	// RequiresStockAdjustmentReason la cabecera exige motivo de ajuste.
	RequiresStockAdjustmentReason bool
	// NegativeQuantityAllowed se aceptan cantidades negativas.
	NegativeQuantityAllowed bool
	// RequiresDispatchAcknowledgement la operación pasa por DISPATCHED
	// antes de COMPLETED.
	RequiresDispatchAcknowledgement bool
	// CanBeRelatedToRequisition puede derivarse de una requisición.
	CanBeRelatedToRequisition bool
	// AllowPrinting la operación es imprimible.
	AllowPrinting bool
}

// For devuelve el RuleSet del tipo dado. Función pura, total y determinista:
// un tipo desconocido recibe las reglas base (selección de lote requerida,
// ninguna capacidad elevada), nunca un error.
func For(kind entity.OperationKind) RuleSet {
	switch kind {
	case entity.KindReceipt:
		return RuleSet{
			RequiresActualBatchInfo: true,
			CanCapturePurchasePrice: true,
			AllowPrinting:           true,
		}
	case entity.KindOpeningStock:
		return RuleSet{
			RequiresActualBatchInfo: true,
			CanCapturePurchasePrice: true,
		}
	case entity.KindRequisition:
		return RuleSet{
			QuantityOptional: true,
			AllowPrinting:    true,
		}
	case entity.KindStockIssue:
		return RuleSet{
			RequiresBatchUUID:               true,
			RequiresDispatchAcknowledgement: true,
			CanBeRelatedToRequisition:       true,
			AllowPrinting:                   true,
		}
	case entity.KindReturn:
		return RuleSet{
			RequiresBatchUUID:               true,
			RequiresDispatchAcknowledgement: true,
		}
	case entity.KindTransferOut:
		return RuleSet{
			RequiresBatchUUID: true,
			AllowPrinting:     true,
		}
	case entity.KindAdjustment:
		return RuleSet{
			RequiresBatchUUID:             true,
			RequiresStockAdjustmentReason: true,
			NegativeQuantityAllowed:       true,
		}
	case entity.KindStockTake:
		return RuleSet{
			RequiresBatchUUID:             true,
			RequiresStockAdjustmentReason: true,
		}
	case entity.KindDisposed:
		return RuleSet{
			RequiresBatchUUID:             true,
			RequiresStockAdjustmentReason: true,
		}
	default:
		// Tipo no reconocido: regla base sin capacidades elevadas.
		return RuleSet{RequiresBatchUUID: true}
	}
}
