// Package validation construye los contratos de validación estructural de la
// cabecera y de los renglones a partir del RuleSet del tipo de operación.
// La construcción es pura y barata: los llamadores la rederivan cada vez que
// cambia el tipo de operación.
package validation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/rules"
)

// FieldError violación de esquema sobre un campo concreto. Bloquea la
// transición correspondiente y se serializa campo a campo en la respuesta.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors lista de violaciones por campo. Implementa error.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return strings.Join(msgs, "; ")
}

// ForField devuelve los mensajes asociados a un campo.
func (e Errors) ForField(field string) []string {
	var msgs []string
	for _, fe := range e {
		if fe.Field == field {
			msgs = append(msgs, fe.Message)
		}
	}
	return msgs
}

// OrNil devuelve nil cuando no hay violaciones, para usarse como error.
func (e Errors) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// ── Cabecera ──────────────────────────────────────────────────────────────────

// HeaderSchema contrato de validación de la cabecera, derivado del tipo
// de operación y su RuleSet.
type HeaderSchema struct {
	RequireSource      bool
	RequireDestination bool
	RequireReason      bool
}

// HeaderSchemaFor construye el esquema de cabecera. El responsable es
// siempre obligatorio (con la vía de escape del centinela "Other").
func HeaderSchemaFor(t entity.OperationType, rs rules.RuleSet) HeaderSchema {
	return HeaderSchema{
		RequireSource:      t.HasSource,
		RequireDestination: t.HasDestination,
		RequireReason:      rs.RequiresStockAdjustmentReason,
	}
}

// Validate valida la cabecera de la operación contra el esquema.
func (s HeaderSchema) Validate(op entity.StockOperation) Errors {
	var errs Errors
	if op.OperationDate.IsZero() {
		errs = append(errs, FieldError{Field: "operationDate", Message: "la fecha de operación es obligatoria"})
	}
	if s.RequireSource && op.SourceUUID == "" {
		errs = append(errs, FieldError{Field: "sourceUuid", Message: "la fuente es obligatoria"})
	}
	if s.RequireDestination && op.DestinationUUID == "" {
		errs = append(errs, FieldError{Field: "destinationUuid", Message: "el destino es obligatorio"})
	}
	if s.RequireReason && op.ReasonUUID == "" {
		errs = append(errs, FieldError{Field: "reasonUuid", Message: "el motivo de ajuste es obligatorio"})
	}
	switch {
	case op.ResponsiblePersonUUID == "":
		errs = append(errs, FieldError{Field: "responsiblePersonUuid", Message: "el responsable es obligatorio"})
	case op.ResponsiblePersonUUID == entity.ResponsiblePersonOtherUUID && strings.TrimSpace(op.ResponsiblePersonOther) == "":
		// El centinela "Other" desbloquea el texto libre, que pasa a ser obligatorio.
		errs = append(errs, FieldError{Field: "responsiblePersonOther", Message: "indique el nombre del responsable"})
	}
	return errs
}

// ── Renglones ─────────────────────────────────────────────────────────────────

// LineSchema contrato de validación de un renglón.
type LineSchema struct {
	RequireQuantity      bool
	AllowNegative        bool
	RequireActualBatch   bool
	RequireStockBatch    bool
	IncludePurchasePrice bool
}

// LineSchemaFor construye el esquema de renglón a partir del RuleSet.
// stockBatchUuid solo aplica cuando se exige lote rastreado y no hay
// captura de lote real.
func LineSchemaFor(rs rules.RuleSet) LineSchema {
	return LineSchema{
		RequireQuantity:      !rs.QuantityOptional,
		AllowNegative:        rs.NegativeQuantityAllowed,
		RequireActualBatch:   rs.RequiresActualBatchInfo,
		RequireStockBatch:    rs.RequiresBatchUUID && !rs.RequiresActualBatchInfo,
		IncludePurchasePrice: rs.CanCapturePurchasePrice,
	}
}

// ValidateItem valida un renglón; idx posiciona los mensajes por campo.
func (s LineSchema) ValidateItem(item entity.StockOperationItem, idx int) Errors {
	var errs Errors
	field := func(name string) string { return fmt.Sprintf("item[%d].%s", idx, name) }

	if item.StockItemUUID == "" {
		errs = append(errs, FieldError{Field: field("stockItemUuid"), Message: "el ítem es obligatorio"})
	}
	if item.StockItemPackagingUOMUUID == "" {
		errs = append(errs, FieldError{Field: field("stockItemPackagingUOMUuid"), Message: "la unidad de empaque es obligatoria"})
	}

	switch {
	case item.Quantity == nil:
		if s.RequireQuantity {
			errs = append(errs, FieldError{Field: field("quantity"), Message: "la cantidad es obligatoria"})
		}
	case item.Quantity.IsZero():
		errs = append(errs, FieldError{Field: field("quantity"), Message: "la cantidad no puede ser cero"})
	case item.Quantity.IsNegative() && !s.AllowNegative:
		errs = append(errs, FieldError{Field: field("quantity"), Message: "la cantidad debe ser mayor que cero"})
	}

	if s.RequireActualBatch {
		if strings.TrimSpace(item.BatchNo) == "" {
			errs = append(errs, FieldError{Field: field("batchNo"), Message: "el lote es obligatorio"})
		}
		if item.Expiration == nil {
			errs = append(errs, FieldError{Field: field("expiration"), Message: "el vencimiento es obligatorio"})
		}
	}
	if s.RequireStockBatch && item.StockBatchUUID == "" {
		errs = append(errs, FieldError{Field: field("stockBatchUuid"), Message: "seleccione un lote"})
	}
	if s.IncludePurchasePrice && item.PurchasePrice != nil && !item.PurchasePrice.GreaterThan(decimal.Zero) {
		errs = append(errs, FieldError{Field: field("purchasePrice"), Message: "el precio de compra debe ser mayor que cero"})
	}
	return errs
}

// ValidateItems valida la lista completa. Se exige al menos un renglón
// para poder guardar la operación.
func (s LineSchema) ValidateItems(items []entity.StockOperationItem) Errors {
	if len(items) == 0 {
		return Errors{{Field: "items", Message: "agregue al menos un ítem"}}
	}
	var errs Errors
	for i, item := range items {
		errs = append(errs, s.ValidateItem(item, i)...)
	}
	return errs
}
