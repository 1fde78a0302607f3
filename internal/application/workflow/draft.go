package workflow

import (
	"time"

	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/rules"
)

// Step paso del asistente de captura.
type Step int

const (
	StepDetails Step = iota
	StepItems
	StepSubmission
)

func (s Step) String() string {
	switch s {
	case StepDetails:
		return "details"
	case StepItems:
		return "items"
	case StepSubmission:
		return "submission"
	default:
		return "unknown"
	}
}

// Draft valor inmutable del borrador de una operación. Las transiciones
// nunca mutan el borrador recibido: Reduce devuelve siempre una copia,
// de modo que la tabla de transiciones es testeable por sí sola y un
// fallo de persistencia deja el borrador intacto para reintentar.
type Draft struct {
	Step  Step
	Type  entity.OperationType
	Rules rules.RuleSet

	Operation entity.StockOperation

	// Persisted instantánea de la última versión guardada; nil al crear.
	// Es la base del delete-diff de renglones al reguardar.
	Persisted *entity.StockOperation
}

// NewDraft construye el borrador de una operación nueva del tipo dado.
func NewDraft(t entity.OperationType) Draft {
	return Draft{
		Step:  StepDetails,
		Type:  t,
		Rules: rules.For(t.Kind),
		Operation: entity.StockOperation{
			OperationTypeUUID: t.UUID,
			OperationType:     t.Kind,
			Status:            entity.StatusNew,
		},
	}
}

// DraftFromExisting construye el borrador para editar una operación ya
// persistida. Solo las operaciones en NEW son editables campo a campo.
func DraftFromExisting(op entity.StockOperation, t entity.OperationType) Draft {
	snapshot := cloneOperation(op)
	return Draft{
		Step:      StepDetails,
		Type:      t,
		Rules:     rules.For(t.Kind),
		Operation: cloneOperation(op),
		Persisted: &snapshot,
	}
}

// IsNew indica si el borrador aún no existe en la persistencia.
func (d Draft) IsNew() bool { return d.Persisted == nil }

// ── Acciones del reducer ──────────────────────────────────────────────────────

// Action transición pura sobre el borrador, despachada por tipo.
type Action interface{ isAction() }

// SetHeader reemplaza los valores de cabecera del borrador.
type SetHeader struct {
	SourceUUID             string
	SourceName             string
	DestinationUUID        string
	DestinationName        string
	ResponsiblePersonUUID  string
	ResponsiblePersonOther string
	OperationDate          time.Time
	Remarks                string
	ReasonUUID             string
}

// UpsertItem agrega o reemplaza (por uuid) un renglón.
type UpsertItem struct {
	Item entity.StockOperationItem
}

// RemoveItem quita un renglón del borrador. Si el renglón ya estaba
// persistido, el delete explícito ocurre recién al guardar (delete-diff).
type RemoveItem struct {
	UUID string
}

// SetApprovalRequired registra la decisión del tri-estado en el paso de
// envío. Hasta que no se despacha esta acción no hay acción de envío
// habilitada distinta de Guardar.
type SetApprovalRequired struct {
	Required bool
}

// GoToStep retrocede (o avanza sin validar) el paso del asistente.
// Los avances validados los hacen las transiciones del Machine.
type GoToStep struct {
	Step Step
}

func (SetHeader) isAction()           {}
func (UpsertItem) isAction()          {}
func (RemoveItem) isAction()          {}
func (SetApprovalRequired) isAction() {}
func (GoToStep) isAction()            {}

// Reduce aplica una acción y devuelve el borrador resultante. Pura:
// no toca el borrador de entrada ni comparte el slice de renglones.
func Reduce(d Draft, action Action) Draft {
	next := d
	next.Operation = cloneOperation(d.Operation)

	switch a := action.(type) {
	case SetHeader:
		op := &next.Operation
		op.SourceUUID = a.SourceUUID
		op.SourceName = a.SourceName
		op.DestinationUUID = a.DestinationUUID
		op.DestinationName = a.DestinationName
		op.ResponsiblePersonUUID = a.ResponsiblePersonUUID
		op.ResponsiblePersonOther = a.ResponsiblePersonOther
		op.OperationDate = a.OperationDate
		op.Remarks = a.Remarks
		op.ReasonUUID = a.ReasonUUID
	case UpsertItem:
		item := a.Item
		if item.UUID == "" {
			item.UUID = entity.NewItemUUID()
			item.ID = item.UUID
		}
		replaced := false
		for i := range next.Operation.Items {
			if next.Operation.Items[i].UUID == item.UUID {
				next.Operation.Items[i] = item
				replaced = true
				break
			}
		}
		if !replaced {
			next.Operation.Items = append(next.Operation.Items, item)
		}
	case RemoveItem:
		items := next.Operation.Items[:0]
		for _, it := range next.Operation.Items {
			if it.UUID != a.UUID {
				items = append(items, it)
			}
		}
		next.Operation.Items = items
	case SetApprovalRequired:
		required := a.Required
		next.Operation.ApprovalRequired = &required
	case GoToStep:
		next.Step = a.Step
	}
	return next
}

// cloneOperation copia la operación con su propio slice de renglones.
func cloneOperation(op entity.StockOperation) entity.StockOperation {
	out := op
	if op.Items != nil {
		out.Items = make([]entity.StockOperationItem, len(op.Items))
		copy(out.Items, op.Items)
	}
	if op.ApprovalRequired != nil {
		v := *op.ApprovalRequired
		out.ApprovalRequired = &v
	}
	return out
}
