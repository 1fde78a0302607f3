// Package workflow implementa la máquina de estados del ciclo de vida de
// una operación de stock: Detalles → Ítems → Envío, y las transiciones
// terminales NEW → SUBMITTED/DISPATCHED/COMPLETED. El borrador es un valor
// inmutable y las transiciones exponen un único handle explícito (Machine)
// que los llamadores reciben por composición, nunca por contexto ambiente.
package workflow

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jhoicas/stockops-api/internal/domain"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/validation"
	"github.com/jhoicas/stockops-api/pkg/logger"
)

// SubmitAction acción disponible en el paso de envío.
type SubmitAction string

const (
	// ActionSave checkpoint idempotente: persiste el borrador en NEW sin
	// disparar transición de estado.
	ActionSave SubmitAction = "save"
	// ActionComplete persiste con status COMPLETED.
	ActionComplete SubmitAction = "complete"
	// ActionDispatch persiste con status DISPATCHED (tipos con acuse de
	// despacho).
	ActionDispatch SubmitAction = "dispatch"
	// ActionSubmitForReview persiste con status SUBMITTED.
	ActionSubmitForReview SubmitAction = "submit"
)

// DeleteOutcome resultado individual de la eliminación de un renglón
// durante el delete-diff. Err nil significa eliminado.
type DeleteOutcome struct {
	ItemUUID string
	Err      error
}

// SaveResult resultado de una acción de envío.
type SaveResult struct {
	// Operation representación persistida devuelta por la pasarela.
	Operation *entity.StockOperation
	// DeleteOutcomes un resultado por renglón eliminado; los fallos no
	// bloquean el guardado del padre y se reportan uno a uno.
	DeleteOutcomes []DeleteOutcome
	// Stale el contexto fue cancelado durante la llamada: el llamador
	// no debe aplicar el resultado sobre estado ya descartado.
	Stale bool
}

// Machine transiciones con efectos (validación + persistencia) sobre un
// borrador. Una instancia por operación en edición.
type Machine struct {
	gw  OperationGateway
	log *logger.Logger

	// saving garantiza a-lo-sumo-un-guardado-concurrente por instancia,
	// el equivalente a deshabilitar el botón mientras la promesa anterior
	// sigue pendiente. No hay lock del lado del servidor.
	saving atomic.Bool
}

// NewMachine construye la máquina para un borrador.
func NewMachine(gw OperationGateway, log *logger.Logger) *Machine {
	if log == nil {
		log = logger.New(logger.Config{Env: "production", Level: "error"})
	}
	return &Machine{gw: gw, log: log}
}

// ── Transiciones del asistente ────────────────────────────────────────────────

// NextFromDetails valida la cabecera y avanza a Ítems. Al editar una
// operación existente la cabecera se persiste como guardado de borrador;
// al crear, los valores se retienen solo en memoria.
func (m *Machine) NextFromDetails(ctx context.Context, d Draft) (Draft, error) {
	if d.Step != StepDetails {
		return d, domain.ErrConflict
	}
	if d.Persisted != nil && !d.Persisted.Status.IsMutable() {
		return d, domain.ErrNotEditable
	}
	schema := validation.HeaderSchemaFor(d.Type, d.Rules)
	if errs := schema.Validate(d.Operation); len(errs) > 0 {
		return d, errs
	}
	if !d.IsNew() {
		saved, err := m.gw.SaveStockOperation(ctx, PrepareForSubmission(d.Operation))
		if err != nil {
			// El borrador en memoria queda intacto para reintentar.
			return d, err
		}
		if saved != nil {
			snapshot := cloneOperation(*saved)
			d.Persisted = &snapshot
		}
	}
	return Reduce(d, GoToStep{Step: StepItems}), nil
}

// NextFromItems valida los renglones contra el esquema del tipo y avanza
// al paso de envío. No persiste.
func (m *Machine) NextFromItems(d Draft) (Draft, error) {
	if d.Step != StepItems {
		return d, domain.ErrConflict
	}
	schema := validation.LineSchemaFor(d.Rules)
	if errs := schema.ValidateItems(d.Operation.Items); len(errs) > 0 {
		return d, errs
	}
	return Reduce(d, GoToStep{Step: StepSubmission}), nil
}

// AvailableActions acciones habilitadas en el paso de envío según el
// tri-estado de aprobación y las reglas del tipo. Guardar está siempre
// disponible; el resto exige la decisión tomada.
func AvailableActions(d Draft) []SubmitAction {
	actions := []SubmitAction{ActionSave}
	if d.Operation.ApprovalRequired == nil {
		return actions
	}
	if *d.Operation.ApprovalRequired {
		return append(actions, ActionSubmitForReview)
	}
	if d.Rules.RequiresDispatchAcknowledgement {
		return append(actions, ActionDispatch)
	}
	return append(actions, ActionComplete)
}

// ── Acciones de envío ─────────────────────────────────────────────────────────

// Save checkpoint idempotente del borrador con status NEW.
func (m *Machine) Save(ctx context.Context, d Draft) (SaveResult, error) {
	return m.persist(ctx, d, ActionSave, entity.StatusNew)
}

// Complete persiste con COMPLETED. Exige decisión approvalRequired=false
// y un tipo sin acuse de despacho.
func (m *Machine) Complete(ctx context.Context, d Draft) (SaveResult, error) {
	return m.persist(ctx, d, ActionComplete, entity.StatusCompleted)
}

// Dispatch persiste con DISPATCHED. Exige approvalRequired=false y un
// tipo con acuse de despacho.
func (m *Machine) Dispatch(ctx context.Context, d Draft) (SaveResult, error) {
	return m.persist(ctx, d, ActionDispatch, entity.StatusDispatched)
}

// SubmitForReview persiste con SUBMITTED. Exige approvalRequired=true.
func (m *Machine) SubmitForReview(ctx context.Context, d Draft) (SaveResult, error) {
	return m.persist(ctx, d, ActionSubmitForReview, entity.StatusSubmitted)
}

// Run ejecuta la acción de envío indicada por nombre.
func (m *Machine) Run(ctx context.Context, d Draft, action SubmitAction) (SaveResult, error) {
	switch action {
	case ActionSave:
		return m.Save(ctx, d)
	case ActionComplete:
		return m.Complete(ctx, d)
	case ActionDispatch:
		return m.Dispatch(ctx, d)
	case ActionSubmitForReview:
		return m.SubmitForReview(ctx, d)
	default:
		return SaveResult{}, domain.ErrInvalidInput
	}
}

func (m *Machine) persist(ctx context.Context, d Draft, action SubmitAction, target entity.Status) (SaveResult, error) {
	if err := m.checkAction(d, action); err != nil {
		return SaveResult{}, err
	}
	if !m.saving.CompareAndSwap(false, true) {
		return SaveResult{}, domain.ErrSaveInFlight
	}
	defer m.saving.Store(false)

	if action != ActionSave {
		// Las acciones de transición exigen borrador completo y válido.
		header := validation.HeaderSchemaFor(d.Type, d.Rules)
		lines := validation.LineSchemaFor(d.Rules)
		var errs validation.Errors
		errs = append(errs, header.Validate(d.Operation)...)
		errs = append(errs, lines.ValidateItems(d.Operation.Items)...)
		if len(errs) > 0 {
			return SaveResult{}, errs
		}
	}

	// Delete-diff primero: renglones presentes en la última versión
	// persistida y ausentes del borrador actual. Los fallos se reportan
	// renglón a renglón y no impiden el guardado del padre.
	outcomes := m.deleteRemoved(ctx, RemovedItemUUIDs(d.Persisted, d.Operation.Items))
	for _, o := range outcomes {
		if o.Err != nil {
			m.log.Warn().Str("item", o.ItemUUID).Err(o.Err).Msg("no se pudo eliminar el renglón")
		}
	}

	payload := PrepareForSubmission(d.Operation)
	payload.Status = target

	saved, err := m.gw.SaveStockOperation(ctx, payload)
	if err != nil {
		m.log.Error().Str("action", string(action)).Err(err).Msg("guardar operación de stock")
		return SaveResult{DeleteOutcomes: outcomes}, err
	}

	result := SaveResult{Operation: saved, DeleteOutcomes: outcomes}
	if ctx.Err() != nil {
		// Respuesta tardía tras cancelación: no debe aplicarse sobre
		// estado ya descartado.
		result.Stale = true
	}
	m.log.Info().
		Str("action", string(action)).
		Str("status", string(target)).
		Int("items", len(payload.Items)).
		Msg("operación de stock persistida")
	return result, nil
}

// checkAction valida la acción contra la decisión de aprobación y las
// reglas del tipo.
func (m *Machine) checkAction(d Draft, action SubmitAction) error {
	if action == ActionSave {
		return nil
	}
	approval := d.Operation.ApprovalRequired
	if approval == nil {
		return domain.ErrApprovalUndecided
	}
	switch action {
	case ActionSubmitForReview:
		if !*approval {
			return domain.ErrActionNotAllowed
		}
	case ActionDispatch:
		if *approval || !d.Rules.RequiresDispatchAcknowledgement {
			return domain.ErrActionNotAllowed
		}
	case ActionComplete:
		if *approval || d.Rules.RequiresDispatchAcknowledgement {
			return domain.ErrActionNotAllowed
		}
	}
	return nil
}

// deleteRemoved lanza las eliminaciones en paralelo y espera a que todas
// terminen (join all-settled): cada resultado se reporta por separado y
// un fallo no revierte a los demás.
func (m *Machine) deleteRemoved(ctx context.Context, uuids []string) []DeleteOutcome {
	if len(uuids) == 0 {
		return nil
	}
	outcomes := make([]DeleteOutcome, len(uuids))
	var wg sync.WaitGroup
	for i, id := range uuids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			outcomes[i] = DeleteOutcome{ItemUUID: id, Err: m.gw.DeleteStockOperationItem(ctx, id)}
		}(i, id)
	}
	wg.Wait()
	return outcomes
}

// RemovedItemUUIDs renglones presentes en la versión persistida y ausentes
// de la lista actual. Los renglones nunca persistidos (centinela new-item)
// no cuentan: para la API todavía no existen.
func RemovedItemUUIDs(persisted *entity.StockOperation, current []entity.StockOperationItem) []string {
	if persisted == nil {
		return nil
	}
	present := make(map[string]bool, len(current))
	for _, it := range current {
		present[it.UUID] = true
	}
	var removed []string
	for _, it := range persisted.Items {
		if entity.IsNewItemUUID(it.UUID) || present[it.UUID] {
			continue
		}
		removed = append(removed, it.UUID)
	}
	return removed
}

// PrepareForSubmission copia la operación limpiando id y uuid de los
// renglones con centinela new-item, para que la persistencia los trate
// como insert y no como update.
func PrepareForSubmission(op entity.StockOperation) entity.StockOperation {
	out := cloneOperation(op)
	for i := range out.Items {
		if entity.IsNewItemUUID(out.Items[i].UUID) {
			out.Items[i].ID = ""
			out.Items[i].UUID = ""
		}
	}
	return out
}
