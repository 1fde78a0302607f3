package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status estados del ciclo de vida de una operación de stock.
// Es el conjunto fijo en mayúsculas intercambiado con la API.
type Status string

const (
	StatusNew        Status = "NEW"
	StatusSubmitted  Status = "SUBMITTED"
	StatusDispatched Status = "DISPATCHED"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
	StatusRejected   Status = "REJECTED"
	StatusReturned   Status = "RETURNED"
)

// IsMutable indica si la operación sigue editable campo a campo.
// Invariante: solo NEW es mutable; el resto solo cambia mediante
// acciones explícitas de transición.
func (s Status) IsMutable() bool { return s == StatusNew }

// ResponsiblePersonOtherUUID uuid centinela del responsable "Otro":
// desbloquea el campo de texto libre alternativo, que pasa a ser obligatorio.
const ResponsiblePersonOtherUUID = "Other"

// NewItemPrefix prefijo centinela de los renglones aún no persistidos.
// La capa de persistencia debe retirarlo antes del insert para evitar
// colisiones de claves foráneas.
const NewItemPrefix = "new-item-"

// NewItemUUID genera un identificador sintético para un renglón nuevo.
func NewItemUUID() string { return NewItemPrefix + uuid.New().String() }

// IsNewItemUUID indica si el identificador porta el centinela de renglón nuevo.
func IsNewItemUUID(id string) bool { return strings.HasPrefix(id, NewItemPrefix) }

// StockOperationPermission capacidades del usuario actual sobre la operación,
// calculadas por el servidor y consumidas tal cual por la UI.
type StockOperationPermission struct {
	CanEdit                       bool
	CanApprove                    bool
	CanReceiveItems               bool
	IsRequisitionAndCanIssueStock bool
	CanUpdateBatchInformation     bool
	CanDisplayReceivedItems       bool
}

// StockOperation el agregado central: cabecera, estado y renglones.
type StockOperation struct {
	UUID            string
	OperationNumber string

	OperationTypeUUID string
	OperationType     OperationKind

	Status Status

	SourceUUID      string
	SourceName      string
	DestinationUUID string
	DestinationName string

	ResponsiblePersonUUID  string
	ResponsiblePersonName  string
	ResponsiblePersonOther string

	OperationDate time.Time
	Remarks       string

	// ReasonUUID motivo de ajuste; obligatorio solo para los tipos
	// que lo exigen (Adjustment, Stock-Take, Disposed).
	ReasonUUID string
	ReasonName string

	// ApprovalRequired tri-estado: nil hasta que el usuario decide en
	// el paso de envío.
	ApprovalRequired *bool

	// RequisitionStockOperationUUID enlaza un Stock-Issue con la
	// requisición que lo originó.
	RequisitionStockOperationUUID string

	Permission StockOperationPermission

	// Atribución de las transiciones, para impresión y auditoría.
	CreatedByName    string
	SubmittedByName  string
	DispatchedByName string
	CompletedByName  string
	DispatchedDate   *time.Time
	CompletedDate    *time.Time

	AtLocationUUID string
	AtLocationName string

	Items []StockOperationItem
}

// ItemByUUID busca un renglón por uuid; nil si no existe.
func (o StockOperation) ItemByUUID(id string) *StockOperationItem {
	for i := range o.Items {
		if o.Items[i].UUID == id {
			return &o.Items[i]
		}
	}
	return nil
}

// StockOperationItem un renglón de la operación. Qué campos son
// obligatorios/visibles lo determina por completo el tipo de la
// operación padre (ver rules.RulesFor).
type StockOperationItem struct {
	ID   string
	UUID string

	StockItemUUID string
	StockItemName string

	StockItemPackagingUOMUUID string
	StockItemPackagingUOMName string

	// BatchNo y Expiration: captura libre del lote real (Receipt,
	// Opening-Stock). StockBatchUUID: selección de un lote ya rastreado
	// (el resto de tipos con lote).
	BatchNo        string
	StockBatchUUID string
	Expiration     *time.Time

	Quantity      *decimal.Decimal
	PurchasePrice *decimal.Decimal

	QuantityRequested                 *decimal.Decimal
	QuantityRequestedPackagingUOMUUID string
	QuantityRequestedPackagingUOMName string
	QuantityReceived                  *decimal.Decimal
	QuantityReceivedPackagingUOMUUID  string
	QuantityReceivedPackagingUOMName  string
}

// StockOperationLink arista dirigida entre una operación padre y una
// derivada (p.ej. un Stock-Issue derivado de una Requisition). Solo lectura.
type StockOperationLink struct {
	UUID                  string
	ParentUUID            string
	ParentOperationNumber string
	ParentOperationType   string
	ParentStatus          Status
	ParentVoided          bool
	ChildUUID             string
	ChildOperationNumber  string
	ChildOperationType    string
	ChildStatus           Status
	ChildVoided           bool
}

// StockOperationItemCost costo unitario/total de un renglón, calculado
// por el servidor; solo lo consume el armado de impresión.
type StockOperationItemCost struct {
	UUID            string
	StockItemUUID   string
	UnitCost        decimal.Decimal
	UnitCostUOMUUID string
	UnitCostUOMName string
	TotalCost       decimal.Decimal
}

// StockItemInventory existencia actual de un ítem en un party,
// consumida solo por el armado de impresión.
type StockItemInventory struct {
	StockItemUUID string
	PartyUUID     string
	Quantity      decimal.Decimal
	QuantityUOM   string
}
