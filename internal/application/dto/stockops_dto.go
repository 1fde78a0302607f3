package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockops-api/internal/application/printing"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/rules"
)

// OperationTypeResponse un tipo de operación de referencia.
type OperationTypeResponse struct {
	UUID            string              `json:"uuid"`
	Name            string              `json:"name"`
	OperationType   string              `json:"operationType"`
	HasSource       bool                `json:"hasSource"`
	HasDestination  bool                `json:"hasDestination"`
	SourceType      string              `json:"sourceType,omitempty"`
	DestinationType string              `json:"destinationType,omitempty"`
	Rules           RuleSetResponse     `json:"rules"`
	Scopes          []LocationScopeItem `json:"locationScopes,omitempty"`
}

// RuleSetResponse banderas de comportamiento del tipo, para que la UI
// derive campos y acciones sin duplicar la tabla.
type RuleSetResponse struct {
	RequiresBatchUUID               bool `json:"requiresBatchUuid"`
	RequiresActualBatchInfo         bool `json:"requiresActualBatchInfo"`
	QuantityOptional                bool `json:"quantityOptional"`
	CanCapturePurchasePrice         bool `json:"canCapturePurchasePrice"`
	RequiresStockAdjustmentReason   bool `json:"requiresStockAdjustmentReason"`
	NegativeQuantityAllowed         bool `json:"negativeQuantityAllowed"`
	RequiresDispatchAcknowledgement bool `json:"requiresDispatchAcknowledgement"`
	CanBeRelatedToRequisition       bool `json:"canBeRelatedToRequisition"`
	AllowPrinting                   bool `json:"allowPrinting"`
}

// LocationScopeItem alcance de etiquetas de ubicación del tipo.
type LocationScopeItem struct {
	LocationTag   string `json:"locationTag"`
	IsSource      bool   `json:"isSource"`
	IsDestination bool   `json:"isDestination"`
}

// RuleSetFromEntity arma la respuesta de las banderas de un tipo.
func RuleSetFromEntity(rs rules.RuleSet) RuleSetResponse {
	return RuleSetResponse{
		RequiresBatchUUID:               rs.RequiresBatchUUID,
		RequiresActualBatchInfo:         rs.RequiresActualBatchInfo,
		QuantityOptional:                rs.QuantityOptional,
		CanCapturePurchasePrice:         rs.CanCapturePurchasePrice,
		RequiresStockAdjustmentReason:   rs.RequiresStockAdjustmentReason,
		NegativeQuantityAllowed:         rs.NegativeQuantityAllowed,
		RequiresDispatchAcknowledgement: rs.RequiresDispatchAcknowledgement,
		CanBeRelatedToRequisition:       rs.CanBeRelatedToRequisition,
		AllowPrinting:                   rs.AllowPrinting,
	}
}

// OperationTypeFromEntity arma la respuesta de un tipo de operación.
func OperationTypeFromEntity(t entity.OperationType) OperationTypeResponse {
	out := OperationTypeResponse{
		UUID:            t.UUID,
		Name:            t.Name,
		OperationType:   t.Kind.Token(),
		HasSource:       t.HasSource,
		HasDestination:  t.HasDestination,
		SourceType:      string(t.SourceType),
		DestinationType: string(t.DestinationType),
		Rules:           RuleSetFromEntity(rules.For(t.Kind)),
	}
	for _, s := range t.Scopes {
		out.Scopes = append(out.Scopes, LocationScopeItem{
			LocationTag:   s.LocationTag,
			IsSource:      s.IsSource,
			IsDestination: s.IsDestination,
		})
	}
	return out
}

// PartyResponse un party elegible.
type PartyResponse struct {
	UUID            string `json:"uuid"`
	Name            string `json:"name"`
	LocationUUID    string `json:"locationUuid,omitempty"`
	StockSourceUUID string `json:"stockSourceUuid,omitempty"`
}

// EligiblePartiesResponse parties elegibles más el auto-bloqueo resuelto.
type EligiblePartiesResponse struct {
	Results []PartyResponse `json:"results"`
	// LockedPartyUuid preselección de bodega principal; vacío si no aplica.
	LockedPartyUUID string `json:"lockedPartyUuid,omitempty"`
	Locked          bool   `json:"locked"`
}

// PartyFromEntity arma la respuesta de un party.
func PartyFromEntity(p entity.Party) PartyResponse {
	return PartyResponse{
		UUID:            p.UUID,
		Name:            p.Name,
		LocationUUID:    p.LocationUUID,
		StockSourceUUID: p.StockSourceUUID,
	}
}

// ── Operación ─────────────────────────────────────────────────────────────────

// StockOperationItemDTO un renglón, en ambas direcciones.
type StockOperationItemDTO struct {
	ID                        string           `json:"id,omitempty"`
	UUID                      string           `json:"uuid,omitempty"`
	StockItemUUID             string           `json:"stockItemUuid"`
	StockItemName             string           `json:"stockItemName,omitempty"`
	StockItemPackagingUOMUUID string           `json:"stockItemPackagingUOMUuid"`
	StockItemPackagingUOMName string           `json:"stockItemPackagingUOMName,omitempty"`
	BatchNo                   string           `json:"batchNo,omitempty"`
	StockBatchUUID            string           `json:"stockBatchUuid,omitempty"`
	Expiration                *time.Time       `json:"expiration,omitempty"`
	Quantity                  *decimal.Decimal `json:"quantity,omitempty"`
	PurchasePrice             *decimal.Decimal `json:"purchasePrice,omitempty"`
	QuantityRequested         *decimal.Decimal `json:"quantityRequested,omitempty"`
	QuantityReceived          *decimal.Decimal `json:"quantityReceived,omitempty"`
}

// StockOperationRequest cabecera y renglones del borrador recibido.
type StockOperationRequest struct {
	UUID                   string                  `json:"uuid,omitempty"`
	OperationTypeUUID      string                  `json:"operationTypeUuid"`
	SourceUUID             string                  `json:"sourceUuid,omitempty"`
	DestinationUUID        string                  `json:"destinationUuid,omitempty"`
	ResponsiblePersonUUID  string                  `json:"responsiblePersonUuid,omitempty"`
	ResponsiblePersonOther string                  `json:"responsiblePersonOther,omitempty"`
	OperationDate          time.Time               `json:"operationDate"`
	Remarks                string                  `json:"remarks,omitempty"`
	ReasonUUID             string                  `json:"reasonUuid,omitempty"`
	ApprovalRequired       *bool                   `json:"approvalRequired,omitempty"`
	RequisitionUUID        string                  `json:"requisitionStockOperationUuid,omitempty"`
	Items                  []StockOperationItemDTO `json:"stockOperationItems"`
}

// ToEntity convierte el borrador recibido al agregado de dominio.
func (r StockOperationRequest) ToEntity() entity.StockOperation {
	op := entity.StockOperation{
		UUID:                          r.UUID,
		OperationTypeUUID:             r.OperationTypeUUID,
		SourceUUID:                    r.SourceUUID,
		DestinationUUID:               r.DestinationUUID,
		ResponsiblePersonUUID:         r.ResponsiblePersonUUID,
		ResponsiblePersonOther:        r.ResponsiblePersonOther,
		OperationDate:                 r.OperationDate,
		Remarks:                       r.Remarks,
		ReasonUUID:                    r.ReasonUUID,
		ApprovalRequired:              r.ApprovalRequired,
		RequisitionStockOperationUUID: r.RequisitionUUID,
	}
	for _, it := range r.Items {
		op.Items = append(op.Items, entity.StockOperationItem{
			ID:                        it.ID,
			UUID:                      it.UUID,
			StockItemUUID:             it.StockItemUUID,
			StockItemName:             it.StockItemName,
			StockItemPackagingUOMUUID: it.StockItemPackagingUOMUUID,
			StockItemPackagingUOMName: it.StockItemPackagingUOMName,
			BatchNo:                   it.BatchNo,
			StockBatchUUID:            it.StockBatchUUID,
			Expiration:                it.Expiration,
			Quantity:                  it.Quantity,
			PurchasePrice:             it.PurchasePrice,
			QuantityRequested:         it.QuantityRequested,
			QuantityReceived:          it.QuantityReceived,
		})
	}
	return op
}

// StockOperationResponse representación persistida devuelta al cliente.
type StockOperationResponse struct {
	UUID                   string                  `json:"uuid"`
	OperationNumber        string                  `json:"operationNumber,omitempty"`
	OperationTypeUUID      string                  `json:"operationTypeUuid"`
	OperationType          string                  `json:"operationType"`
	Status                 string                  `json:"status"`
	SourceUUID             string                  `json:"sourceUuid,omitempty"`
	SourceName             string                  `json:"sourceName,omitempty"`
	DestinationUUID        string                  `json:"destinationUuid,omitempty"`
	DestinationName        string                  `json:"destinationName,omitempty"`
	ResponsiblePersonUUID  string                  `json:"responsiblePersonUuid,omitempty"`
	ResponsiblePersonName  string                  `json:"responsiblePersonName,omitempty"`
	ResponsiblePersonOther string                  `json:"responsiblePersonOther,omitempty"`
	OperationDate          time.Time               `json:"operationDate"`
	Remarks                string                  `json:"remarks,omitempty"`
	ReasonUUID             string                  `json:"reasonUuid,omitempty"`
	ApprovalRequired       *bool                   `json:"approvalRequired,omitempty"`
	RequisitionUUID        string                  `json:"requisitionStockOperationUuid,omitempty"`
	Permission             PermissionResponse      `json:"permission"`
	Items                  []StockOperationItemDTO `json:"stockOperationItems"`
}

// PermissionResponse capacidades del usuario sobre la operación.
type PermissionResponse struct {
	CanEdit                       bool `json:"canEdit"`
	CanApprove                    bool `json:"canApprove"`
	CanReceiveItems               bool `json:"canReceiveItems"`
	IsRequisitionAndCanIssueStock bool `json:"isRequisitionAndCanIssueStock"`
	CanUpdateBatchInformation     bool `json:"canUpdateBatchInformation"`
	CanDisplayReceivedItems       bool `json:"canDisplayReceivedItems"`
}

// StockOperationFromEntity arma la respuesta de una operación.
func StockOperationFromEntity(op entity.StockOperation) StockOperationResponse {
	out := StockOperationResponse{
		UUID:                   op.UUID,
		OperationNumber:        op.OperationNumber,
		OperationTypeUUID:      op.OperationTypeUUID,
		OperationType:          op.OperationType.Token(),
		Status:                 string(op.Status),
		SourceUUID:             op.SourceUUID,
		SourceName:             op.SourceName,
		DestinationUUID:        op.DestinationUUID,
		DestinationName:        op.DestinationName,
		ResponsiblePersonUUID:  op.ResponsiblePersonUUID,
		ResponsiblePersonName:  op.ResponsiblePersonName,
		ResponsiblePersonOther: op.ResponsiblePersonOther,
		OperationDate:          op.OperationDate,
		Remarks:                op.Remarks,
		ReasonUUID:             op.ReasonUUID,
		ApprovalRequired:       op.ApprovalRequired,
		RequisitionUUID:        op.RequisitionStockOperationUUID,
		Permission: PermissionResponse{
			CanEdit:                       op.Permission.CanEdit,
			CanApprove:                    op.Permission.CanApprove,
			CanReceiveItems:               op.Permission.CanReceiveItems,
			IsRequisitionAndCanIssueStock: op.Permission.IsRequisitionAndCanIssueStock,
			CanUpdateBatchInformation:     op.Permission.CanUpdateBatchInformation,
			CanDisplayReceivedItems:       op.Permission.CanDisplayReceivedItems,
		},
	}
	for _, it := range op.Items {
		out.Items = append(out.Items, StockOperationItemDTO{
			ID:                        it.ID,
			UUID:                      it.UUID,
			StockItemUUID:             it.StockItemUUID,
			StockItemName:             it.StockItemName,
			StockItemPackagingUOMUUID: it.StockItemPackagingUOMUUID,
			StockItemPackagingUOMName: it.StockItemPackagingUOMName,
			BatchNo:                   it.BatchNo,
			StockBatchUUID:            it.StockBatchUUID,
			Expiration:                it.Expiration,
			Quantity:                  it.Quantity,
			PurchasePrice:             it.PurchasePrice,
			QuantityRequested:         it.QuantityRequested,
			QuantityReceived:          it.QuantityReceived,
		})
	}
	return out
}

// OperationLinkResponse un enlace padre/hijo de la operación.
type OperationLinkResponse struct {
	UUID                  string `json:"uuid"`
	ParentUUID            string `json:"parentUuid"`
	ParentOperationNumber string `json:"parentOperationNumber,omitempty"`
	ParentOperationType   string `json:"parentOperationType,omitempty"`
	ParentStatus          string `json:"parentStatus,omitempty"`
	ChildUUID             string `json:"childUuid"`
	ChildOperationNumber  string `json:"childOperationNumber,omitempty"`
	ChildOperationType    string `json:"childOperationType,omitempty"`
	ChildStatus           string `json:"childStatus,omitempty"`
}

// OperationLinkFromEntity arma la respuesta de un enlace.
func OperationLinkFromEntity(l entity.StockOperationLink) OperationLinkResponse {
	return OperationLinkResponse{
		UUID:                  l.UUID,
		ParentUUID:            l.ParentUUID,
		ParentOperationNumber: l.ParentOperationNumber,
		ParentOperationType:   l.ParentOperationType,
		ParentStatus:          string(l.ParentStatus),
		ChildUUID:             l.ChildUUID,
		ChildOperationNumber:  l.ChildOperationNumber,
		ChildOperationType:    l.ChildOperationType,
		ChildStatus:           string(l.ChildStatus),
	}
}

// OperationDetailResponse operación más enlaces y reglas del tipo.
type OperationDetailResponse struct {
	Operation StockOperationResponse  `json:"operation"`
	Links     []OperationLinkResponse `json:"links,omitempty"`
	Rules     RuleSetResponse         `json:"rules"`
}

// ── Envío ─────────────────────────────────────────────────────────────────────

// SubmitOperationRequest borrador más la acción de envío a ejecutar.
type SubmitOperationRequest struct {
	Action    string                `json:"action"` // save | submit | dispatch | complete
	Operation StockOperationRequest `json:"operation"`
}

// DeleteFailureItem fallo individual del delete-diff de renglones.
type DeleteFailureItem struct {
	ItemUUID string `json:"itemUuid"`
	Message  string `json:"message"`
}

// SubmitOperationResponse resultado de la acción de envío.
type SubmitOperationResponse struct {
	Operation      *StockOperationResponse `json:"operation,omitempty"`
	DeleteFailures []DeleteFailureItem     `json:"deleteFailures,omitempty"`
	Stale          bool                    `json:"stale,omitempty"`
}

// ValidateDraftResponse violaciones de esquema y acciones habilitadas.
type ValidateDraftResponse struct {
	Valid            bool             `json:"valid"`
	FieldErrors      []FieldErrorItem `json:"fieldErrors,omitempty"`
	AvailableActions []string         `json:"availableActions"`
}

// FieldErrorItem violación de esquema sobre un campo.
type FieldErrorItem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ── Impresión ─────────────────────────────────────────────────────────────────

// PrintRowResponse un renglón del registro de impresión.
type PrintRowResponse struct {
	StockItemName     string           `json:"stockItemName"`
	BatchNo           string           `json:"batchNo,omitempty"`
	Expiration        *time.Time       `json:"expiration,omitempty"`
	Quantity          *decimal.Decimal `json:"quantity,omitempty"`
	QuantityRequested *decimal.Decimal `json:"quantityRequested,omitempty"`
	QuantityIssued    *decimal.Decimal `json:"quantityIssued,omitempty"`
	UOMName           string           `json:"uomName,omitempty"`
	UnitCost          *decimal.Decimal `json:"unitCost,omitempty"`
	TotalCost         *decimal.Decimal `json:"totalCost,omitempty"`
	BalanceOnHand     *decimal.Decimal `json:"balanceOnHand,omitempty"`
	BalanceOnHandUOM  string           `json:"balanceOnHandUom,omitempty"`
}

// PrintRecordResponse registro plano de impresión de la operación.
type PrintRecordResponse struct {
	Organization    string             `json:"organization,omitempty"`
	Location        string             `json:"location,omitempty"`
	DocumentTitle   string             `json:"documentTitle"`
	OperationNumber string             `json:"operationNumber,omitempty"`
	OperationDate   time.Time          `json:"operationDate"`
	ResponsibleBy   string             `json:"responsibleBy,omitempty"`
	AuthorizedBy    string             `json:"authorizedBy,omitempty"`
	Remarks         string             `json:"remarks,omitempty"`
	SourceName      string             `json:"sourceName,omitempty"`
	DestinationName string             `json:"destinationName,omitempty"`
	Rows            []PrintRowResponse `json:"rows"`
}

// PrintRecordFromData arma la respuesta del registro de impresión.
func PrintRecordFromData(d printing.Data) PrintRecordResponse {
	out := PrintRecordResponse{
		Organization:    d.Organization,
		Location:        d.Location,
		DocumentTitle:   d.DocumentTitle,
		OperationNumber: d.OperationNumber,
		OperationDate:   d.OperationDate,
		ResponsibleBy:   d.ResponsibleBy,
		AuthorizedBy:    d.AuthorizedBy,
		Remarks:         d.Remarks,
		SourceName:      d.SourceName,
		DestinationName: d.DestinationName,
	}
	for _, r := range d.Rows {
		out.Rows = append(out.Rows, PrintRowResponse{
			StockItemName:     r.StockItemName,
			BatchNo:           r.BatchNo,
			Expiration:        r.Expiration,
			Quantity:          r.Quantity,
			QuantityRequested: r.QuantityRequested,
			QuantityIssued:    r.QuantityIssued,
			UOMName:           r.UOMName,
			UnitCost:          r.UnitCost,
			TotalCost:         r.TotalCost,
			BalanceOnHand:     r.BalanceOnHand,
			BalanceOnHandUOM:  r.BalanceOnHandUOM,
		})
	}
	return out
}

// ValidationErrorResponse error 400 con el detalle por campo.
type ValidationErrorResponse struct {
	Code        string           `json:"code"`
	Message     string           `json:"message"`
	FieldErrors []FieldErrorItem `json:"fieldErrors"`
}
