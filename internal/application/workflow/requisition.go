package workflow

import (
	"github.com/jhoicas/stockops-api/internal/domain"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
)

// IssueFromRequisition deriva el borrador de un Stock-Issue a partir de
// una requisición. La mercancía fluye en sentido contrario a la solicitud,
// así que fuente y destino se invierten: el destino de la requisición pasa
// a ser la fuente del despacho. El tipo queda forzado al Stock-Issue dado,
// por encima de cualquier valor ambiente, y el borrador queda enlazado a
// la requisición vía requisitionStockOperationUuid.
func IssueFromRequisition(req entity.StockOperation, issueType entity.OperationType) (Draft, error) {
	if req.OperationType != entity.KindRequisition {
		return Draft{}, domain.ErrNotRequisition
	}
	if issueType.Kind != entity.KindStockIssue {
		return Draft{}, domain.ErrInvalidInput
	}

	d := NewDraft(issueType)
	op := &d.Operation
	op.SourceUUID = req.DestinationUUID
	op.SourceName = req.DestinationName
	op.DestinationUUID = req.SourceUUID
	op.DestinationName = req.SourceName
	op.ResponsiblePersonUUID = req.ResponsiblePersonUUID
	op.ResponsiblePersonName = req.ResponsiblePersonName
	op.ResponsiblePersonOther = req.ResponsiblePersonOther
	op.Remarks = req.Remarks
	op.RequisitionStockOperationUUID = req.UUID

	// Los renglones solicitados se copian como renglones nuevos del
	// despacho: la cantidad pedida queda en quantityRequested y se
	// precarga como cantidad a despachar, editable por el usuario.
	op.Items = make([]entity.StockOperationItem, 0, len(req.Items))
	for _, it := range req.Items {
		id := entity.NewItemUUID()
		issued := it
		issued.ID = id
		issued.UUID = id
		issued.QuantityRequested = it.Quantity
		issued.QuantityRequestedPackagingUOMUUID = it.StockItemPackagingUOMUUID
		issued.QuantityRequestedPackagingUOMName = it.StockItemPackagingUOMName
		op.Items = append(op.Items, issued)
	}
	return d, nil
}
