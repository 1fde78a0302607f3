package entity

// OperationKind es el enum cerrado de tipos de operación de stock.
// Sustituye el despacho por comparación de strings dispersas: cada regla
// se resuelve con un único switch exhaustivo sobre este tipo.
type OperationKind int

const (
	// KindUnknown cubre tokens no reconocidos de la API. No es un error:
	// el llamador recibe las reglas base sin ninguna capacidad elevada.
	KindUnknown OperationKind = iota
	KindTransferOut
	KindDisposed
	KindStockIssue
	KindStockTake
	KindRequisition
	KindOpeningStock
	KindReceipt
	KindReturn
	KindAdjustment
)

// Tokens en minúscula intercambiados con la API de persistencia.
const (
	TokenTransferOut  = "transferout"
	TokenDisposed     = "disposed"
	TokenStockIssue   = "stockissue"
	TokenStockTake    = "stocktake"
	TokenRequisition  = "requisition"
	TokenOpeningStock = "initial"
	TokenReceipt      = "receipt"
	TokenReturn       = "return"
	TokenAdjustment   = "adjustment"
)

// ParseOperationKind convierte el token de la API al enum cerrado.
// Un token desconocido devuelve KindUnknown, nunca un error.
func ParseOperationKind(token string) OperationKind {
	switch token {
	case TokenTransferOut:
		return KindTransferOut
	case TokenDisposed:
		return KindDisposed
	case TokenStockIssue:
		return KindStockIssue
	case TokenStockTake:
		return KindStockTake
	case TokenRequisition:
		return KindRequisition
	case TokenOpeningStock:
		return KindOpeningStock
	case TokenReceipt:
		return KindReceipt
	case TokenReturn:
		return KindReturn
	case TokenAdjustment:
		return KindAdjustment
	default:
		return KindUnknown
	}
}

// Token devuelve el token de la API para el enum ("" para KindUnknown).
func (k OperationKind) Token() string {
	switch k {
	case KindTransferOut:
		return TokenTransferOut
	case KindDisposed:
		return TokenDisposed
	case KindStockIssue:
		return TokenStockIssue
	case KindStockTake:
		return TokenStockTake
	case KindRequisition:
		return TokenRequisition
	case KindOpeningStock:
		return TokenOpeningStock
	case KindReceipt:
		return TokenReceipt
	case KindReturn:
		return TokenReturn
	case KindAdjustment:
		return TokenAdjustment
	default:
		return ""
	}
}

// DisplayName nombre legible del tipo, para títulos de documentos.
func (k OperationKind) DisplayName() string {
	switch k {
	case KindTransferOut:
		return "Transfer Out"
	case KindDisposed:
		return "Disposed"
	case KindStockIssue:
		return "Stock Issue"
	case KindStockTake:
		return "Stock Take"
	case KindRequisition:
		return "Requisition"
	case KindOpeningStock:
		return "Opening Stock"
	case KindReceipt:
		return "Receipt"
	case KindReturn:
		return "Return"
	case KindAdjustment:
		return "Adjustment"
	default:
		return "Stock Operation"
	}
}

// LocationType discrimina si la fuente/destino de un tipo de operación
// es una ubicación interna o una fuente de stock externa.
type LocationType string

const (
	LocationTypeLocation LocationType = "Location"
	LocationTypeOther    LocationType = "Other"
)

// LocationScope restringe qué ubicaciones etiquetadas pueden actuar
// como fuente o destino para un tipo de operación.
type LocationScope struct {
	LocationTag   string
	IsSource      bool
	IsDestination bool
}

// OperationType datos de referencia inmutables de un tipo de operación.
// Se cargan una vez por sesión desde la API; el cliente nunca los muta.
type OperationType struct {
	UUID                     string
	Name                     string
	Kind                     OperationKind
	HasSource                bool
	HasDestination           bool
	HasRecipient             bool
	SourceType               LocationType
	DestinationType          LocationType
	AllowExpiredBatchNumbers bool
	Scopes                   []LocationScope
}

// SourceTags devuelve el conjunto (con orden estable) de etiquetas de
// ubicación habilitadas como fuente.
func (t OperationType) SourceTags() []string {
	return t.scopeTags(func(s LocationScope) bool { return s.IsSource })
}

// DestinationTags devuelve las etiquetas habilitadas como destino.
func (t OperationType) DestinationTags() []string {
	return t.scopeTags(func(s LocationScope) bool { return s.IsDestination })
}

func (t OperationType) scopeTags(match func(LocationScope) bool) []string {
	var tags []string
	seen := map[string]bool{}
	for _, s := range t.Scopes {
		if !match(s) || seen[s.LocationTag] {
			continue
		}
		seen[s.LocationTag] = true
		tags = append(tags, s.LocationTag)
	}
	return tags
}
