package rest

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockops-api/internal/domain/entity"
)

// resultsPage sobre de lista de la API upstream.
type resultsPage[T any] struct {
	Results []T `json:"results"`
}

// ── Tipos de operación ────────────────────────────────────────────────────────

type locationScopeDTO struct {
	LocationTag   string `json:"locationTag"`
	IsSource      bool   `json:"isSource"`
	IsDestination bool   `json:"isDestination"`
}

type operationTypeDTO struct {
	UUID                     string             `json:"uuid"`
	Name                     string             `json:"name"`
	OperationType            string             `json:"operationType"`
	HasSource                bool               `json:"hasSource"`
	HasDestination           bool               `json:"hasDestination"`
	HasRecipient             bool               `json:"hasRecipient"`
	SourceType               string             `json:"sourceType"`
	DestinationType          string             `json:"destinationType"`
	AllowExpiredBatchNumbers bool               `json:"allowExpiredBatchNumbers"`
	LocationScopes           []locationScopeDTO `json:"stockOperationTypeLocationScopes"`
}

func (d operationTypeDTO) toEntity() entity.OperationType {
	t := entity.OperationType{
		UUID:                     d.UUID,
		Name:                     d.Name,
		Kind:                     entity.ParseOperationKind(d.OperationType),
		HasSource:                d.HasSource,
		HasDestination:           d.HasDestination,
		HasRecipient:             d.HasRecipient,
		SourceType:               entity.LocationType(d.SourceType),
		DestinationType:          entity.LocationType(d.DestinationType),
		AllowExpiredBatchNumbers: d.AllowExpiredBatchNumbers,
	}
	for _, s := range d.LocationScopes {
		t.Scopes = append(t.Scopes, entity.LocationScope{
			LocationTag:   s.LocationTag,
			IsSource:      s.IsSource,
			IsDestination: s.IsDestination,
		})
	}
	return t
}

// ── Parties ───────────────────────────────────────────────────────────────────

type partyDTO struct {
	UUID            string   `json:"uuid"`
	Name            string   `json:"name"`
	LocationUUID    string   `json:"locationUuid"`
	StockSourceUUID string   `json:"stockSourceUuid"`
	Tags            []string `json:"tags"`
}

func (d partyDTO) toEntity() entity.Party {
	return entity.Party{
		UUID:            d.UUID,
		Name:            d.Name,
		LocationUUID:    d.LocationUUID,
		StockSourceUUID: d.StockSourceUUID,
		Tags:            d.Tags,
	}
}

// ── Operaciones ───────────────────────────────────────────────────────────────

type stockOperationItemDTO struct {
	ID   string `json:"id,omitempty"`
	UUID string `json:"uuid,omitempty"`

	StockItemUUID string `json:"stockItemUuid"`
	StockItemName string `json:"stockItemName,omitempty"`

	StockItemPackagingUOMUUID string `json:"stockItemPackagingUOMUuid"`
	StockItemPackagingUOMName string `json:"stockItemPackagingUOMName,omitempty"`

	BatchNo        string     `json:"batchNo,omitempty"`
	StockBatchUUID string     `json:"stockBatchUuid,omitempty"`
	Expiration     *time.Time `json:"expiration,omitempty"`

	Quantity      *decimal.Decimal `json:"quantity,omitempty"`
	PurchasePrice *decimal.Decimal `json:"purchasePrice,omitempty"`

	QuantityRequested                 *decimal.Decimal `json:"quantityRequested,omitempty"`
	QuantityRequestedPackagingUOMUUID string           `json:"quantityRequestedPackagingUOMUuid,omitempty"`
	QuantityRequestedPackagingUOMName string           `json:"quantityRequestedPackagingUOMName,omitempty"`
	QuantityReceived                  *decimal.Decimal `json:"quantityReceived,omitempty"`
	QuantityReceivedPackagingUOMUUID  string           `json:"quantityReceivedPackagingUOMUuid,omitempty"`
	QuantityReceivedPackagingUOMName  string           `json:"quantityReceivedPackagingUOMName,omitempty"`
}

type permissionDTO struct {
	CanEdit                       bool `json:"canEdit"`
	CanApprove                    bool `json:"canApprove"`
	CanReceiveItems               bool `json:"canReceiveItems"`
	IsRequisitionAndCanIssueStock bool `json:"isRequisitionAndCanIssueStock"`
	CanUpdateBatchInformation     bool `json:"canUpdateBatchInformation"`
	CanDisplayReceivedItems       bool `json:"canDisplayReceivedItems"`
}

type stockOperationDTO struct {
	UUID            string `json:"uuid,omitempty"`
	OperationNumber string `json:"operationNumber,omitempty"`

	OperationTypeUUID string `json:"operationTypeUuid"`
	OperationType     string `json:"operationType,omitempty"`

	Status string `json:"status,omitempty"`

	SourceUUID      string `json:"sourceUuid,omitempty"`
	SourceName      string `json:"sourceName,omitempty"`
	DestinationUUID string `json:"destinationUuid,omitempty"`
	DestinationName string `json:"destinationName,omitempty"`

	ResponsiblePersonUUID  string `json:"responsiblePersonUuid,omitempty"`
	ResponsiblePersonName  string `json:"responsiblePersonName,omitempty"`
	ResponsiblePersonOther string `json:"responsiblePersonOther,omitempty"`

	OperationDate time.Time `json:"operationDate"`
	Remarks       string    `json:"remarks,omitempty"`

	ReasonUUID string `json:"reasonUuid,omitempty"`
	ReasonName string `json:"reasonName,omitempty"`

	ApprovalRequired *bool `json:"approvalRequired,omitempty"`

	RequisitionStockOperationUUID string `json:"requisitionStockOperationUuid,omitempty"`

	Permission *permissionDTO `json:"permission,omitempty"`

	CreatedByName    string     `json:"createdByName,omitempty"`
	SubmittedByName  string     `json:"submittedByName,omitempty"`
	DispatchedByName string     `json:"dispatchedByName,omitempty"`
	CompletedByName  string     `json:"completedByName,omitempty"`
	DispatchedDate   *time.Time `json:"dispatchedDate,omitempty"`
	CompletedDate    *time.Time `json:"completedDate,omitempty"`

	AtLocationUUID string `json:"atLocationUuid,omitempty"`
	AtLocationName string `json:"atLocationName,omitempty"`

	StockOperationItems []stockOperationItemDTO `json:"stockOperationItems"`
}

func itemToDTO(it entity.StockOperationItem) stockOperationItemDTO {
	return stockOperationItemDTO{
		ID:                                it.ID,
		UUID:                              it.UUID,
		StockItemUUID:                     it.StockItemUUID,
		StockItemName:                     it.StockItemName,
		StockItemPackagingUOMUUID:         it.StockItemPackagingUOMUUID,
		StockItemPackagingUOMName:         it.StockItemPackagingUOMName,
		BatchNo:                           it.BatchNo,
		StockBatchUUID:                    it.StockBatchUUID,
		Expiration:                        it.Expiration,
		Quantity:                          it.Quantity,
		PurchasePrice:                     it.PurchasePrice,
		QuantityRequested:                 it.QuantityRequested,
		QuantityRequestedPackagingUOMUUID: it.QuantityRequestedPackagingUOMUUID,
		QuantityRequestedPackagingUOMName: it.QuantityRequestedPackagingUOMName,
		QuantityReceived:                  it.QuantityReceived,
		QuantityReceivedPackagingUOMUUID:  it.QuantityReceivedPackagingUOMUUID,
		QuantityReceivedPackagingUOMName:  it.QuantityReceivedPackagingUOMName,
	}
}

func (d stockOperationItemDTO) toEntity() entity.StockOperationItem {
	return entity.StockOperationItem{
		ID:                                d.ID,
		UUID:                              d.UUID,
		StockItemUUID:                     d.StockItemUUID,
		StockItemName:                     d.StockItemName,
		StockItemPackagingUOMUUID:         d.StockItemPackagingUOMUUID,
		StockItemPackagingUOMName:         d.StockItemPackagingUOMName,
		BatchNo:                           d.BatchNo,
		StockBatchUUID:                    d.StockBatchUUID,
		Expiration:                        d.Expiration,
		Quantity:                          d.Quantity,
		PurchasePrice:                     d.PurchasePrice,
		QuantityRequested:                 d.QuantityRequested,
		QuantityRequestedPackagingUOMUUID: d.QuantityRequestedPackagingUOMUUID,
		QuantityRequestedPackagingUOMName: d.QuantityRequestedPackagingUOMName,
		QuantityReceived:                  d.QuantityReceived,
		QuantityReceivedPackagingUOMUUID:  d.QuantityReceivedPackagingUOMUUID,
		QuantityReceivedPackagingUOMName:  d.QuantityReceivedPackagingUOMName,
	}
}

func operationToDTO(op entity.StockOperation) stockOperationDTO {
	d := stockOperationDTO{
		UUID:                          op.UUID,
		OperationNumber:               op.OperationNumber,
		OperationTypeUUID:             op.OperationTypeUUID,
		OperationType:                 op.OperationType.Token(),
		Status:                        string(op.Status),
		SourceUUID:                    op.SourceUUID,
		SourceName:                    op.SourceName,
		DestinationUUID:               op.DestinationUUID,
		DestinationName:               op.DestinationName,
		ResponsiblePersonUUID:         op.ResponsiblePersonUUID,
		ResponsiblePersonName:         op.ResponsiblePersonName,
		ResponsiblePersonOther:        op.ResponsiblePersonOther,
		OperationDate:                 op.OperationDate,
		Remarks:                       op.Remarks,
		ReasonUUID:                    op.ReasonUUID,
		ReasonName:                    op.ReasonName,
		ApprovalRequired:              op.ApprovalRequired,
		RequisitionStockOperationUUID: op.RequisitionStockOperationUUID,
		CreatedByName:                 op.CreatedByName,
		SubmittedByName:               op.SubmittedByName,
		DispatchedByName:              op.DispatchedByName,
		CompletedByName:               op.CompletedByName,
		DispatchedDate:                op.DispatchedDate,
		CompletedDate:                 op.CompletedDate,
		AtLocationUUID:                op.AtLocationUUID,
		AtLocationName:                op.AtLocationName,
		StockOperationItems:           make([]stockOperationItemDTO, 0, len(op.Items)),
	}
	for _, it := range op.Items {
		d.StockOperationItems = append(d.StockOperationItems, itemToDTO(it))
	}
	return d
}

func (d stockOperationDTO) toEntity() entity.StockOperation {
	op := entity.StockOperation{
		UUID:                          d.UUID,
		OperationNumber:               d.OperationNumber,
		OperationTypeUUID:             d.OperationTypeUUID,
		OperationType:                 entity.ParseOperationKind(d.OperationType),
		Status:                        entity.Status(d.Status),
		SourceUUID:                    d.SourceUUID,
		SourceName:                    d.SourceName,
		DestinationUUID:               d.DestinationUUID,
		DestinationName:               d.DestinationName,
		ResponsiblePersonUUID:         d.ResponsiblePersonUUID,
		ResponsiblePersonName:         d.ResponsiblePersonName,
		ResponsiblePersonOther:        d.ResponsiblePersonOther,
		OperationDate:                 d.OperationDate,
		Remarks:                       d.Remarks,
		ReasonUUID:                    d.ReasonUUID,
		ReasonName:                    d.ReasonName,
		ApprovalRequired:              d.ApprovalRequired,
		RequisitionStockOperationUUID: d.RequisitionStockOperationUUID,
		CreatedByName:                 d.CreatedByName,
		SubmittedByName:               d.SubmittedByName,
		DispatchedByName:              d.DispatchedByName,
		CompletedByName:               d.CompletedByName,
		DispatchedDate:                d.DispatchedDate,
		CompletedDate:                 d.CompletedDate,
		AtLocationUUID:                d.AtLocationUUID,
		AtLocationName:                d.AtLocationName,
	}
	if d.Permission != nil {
		op.Permission = entity.StockOperationPermission{
			CanEdit:                       d.Permission.CanEdit,
			CanApprove:                    d.Permission.CanApprove,
			CanReceiveItems:               d.Permission.CanReceiveItems,
			IsRequisitionAndCanIssueStock: d.Permission.IsRequisitionAndCanIssueStock,
			CanUpdateBatchInformation:     d.Permission.CanUpdateBatchInformation,
			CanDisplayReceivedItems:       d.Permission.CanDisplayReceivedItems,
		}
	}
	for _, it := range d.StockOperationItems {
		op.Items = append(op.Items, it.toEntity())
	}
	return op
}

// ── Enlaces, costos y existencias ─────────────────────────────────────────────

type stockOperationLinkDTO struct {
	UUID                  string `json:"uuid"`
	ParentUUID            string `json:"parentUuid"`
	ParentOperationNumber string `json:"parentOperationNumber"`
	ParentOperationType   string `json:"parentOperationType"`
	ParentStatus          string `json:"parentStatus"`
	ParentVoided          bool   `json:"parentVoided"`
	ChildUUID             string `json:"childUuid"`
	ChildOperationNumber  string `json:"childOperationNumber"`
	ChildOperationType    string `json:"childOperationType"`
	ChildStatus           string `json:"childStatus"`
	ChildVoided           bool   `json:"childVoided"`
}

func (d stockOperationLinkDTO) toEntity() entity.StockOperationLink {
	return entity.StockOperationLink{
		UUID:                  d.UUID,
		ParentUUID:            d.ParentUUID,
		ParentOperationNumber: d.ParentOperationNumber,
		ParentOperationType:   d.ParentOperationType,
		ParentStatus:          entity.Status(d.ParentStatus),
		ParentVoided:          d.ParentVoided,
		ChildUUID:             d.ChildUUID,
		ChildOperationNumber:  d.ChildOperationNumber,
		ChildOperationType:    d.ChildOperationType,
		ChildStatus:           entity.Status(d.ChildStatus),
		ChildVoided:           d.ChildVoided,
	}
}

type itemCostDTO struct {
	UUID            string          `json:"uuid"`
	StockItemUUID   string          `json:"stockItemUuid"`
	UnitCost        decimal.Decimal `json:"unitCost"`
	UnitCostUOMUUID string          `json:"unitCostUOMUuid"`
	UnitCostUOMName string          `json:"unitCostUOMName"`
	TotalCost       decimal.Decimal `json:"totalCost"`
}

func (d itemCostDTO) toEntity() entity.StockOperationItemCost {
	return entity.StockOperationItemCost{
		UUID:            d.UUID,
		StockItemUUID:   d.StockItemUUID,
		UnitCost:        d.UnitCost,
		UnitCostUOMUUID: d.UnitCostUOMUUID,
		UnitCostUOMName: d.UnitCostUOMName,
		TotalCost:       d.TotalCost,
	}
}

type inventoryDTO struct {
	StockItemUUID string          `json:"stockItemUuid"`
	PartyUUID     string          `json:"partyUuid"`
	Quantity      decimal.Decimal `json:"quantity"`
	QuantityUOM   string          `json:"quantityUoM"`
}

func (d inventoryDTO) toEntity() entity.StockItemInventory {
	return entity.StockItemInventory{
		StockItemUUID: d.StockItemUUID,
		PartyUUID:     d.PartyUUID,
		Quantity:      d.Quantity,
		QuantityUOM:   d.QuantityUOM,
	}
}
