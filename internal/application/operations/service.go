// Package operations orquesta los casos de uso de operaciones de stock
// expuestos por la API: referencia de tipos y parties, ejecución de
// acciones de envío, derivación de despachos desde requisiciones y el
// armado del registro de impresión.
package operations

import (
	"context"
	"sync"

	"github.com/jhoicas/stockops-api/internal/application/printing"
	"github.com/jhoicas/stockops-api/internal/application/workflow"
	"github.com/jhoicas/stockops-api/internal/domain"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/party"
	"github.com/jhoicas/stockops-api/internal/domain/rules"
	"github.com/jhoicas/stockops-api/internal/domain/validation"
	"github.com/jhoicas/stockops-api/pkg/logger"
)

// Service casos de uso de operaciones de stock. Mantiene una máquina de
// workflow por operación en edición para que el guardado concurrente de
// la misma operación sea rechazado, no encolado.
type Service struct {
	ops  workflow.OperationGateway
	refs workflow.ReferenceGateway
	log  *logger.Logger

	// Organization nombre de la organización para encabezados de impresión.
	organization string

	mu       sync.Mutex
	machines map[string]*workflow.Machine
}

// NewService construye el servicio.
func NewService(ops workflow.OperationGateway, refs workflow.ReferenceGateway, organization string, log *logger.Logger) *Service {
	if log == nil {
		log = logger.New(logger.Config{Env: "production", Level: "error"})
	}
	return &Service{
		ops:          ops,
		refs:         refs,
		log:          log,
		organization: organization,
		machines:     make(map[string]*workflow.Machine),
	}
}

// machineFor devuelve la máquina asociada a la operación. Las operaciones
// sin uuid (creación) reciben una máquina efímera: todavía no hay nada
// persistido contra lo que chocar.
func (s *Service) machineFor(opUUID string) *workflow.Machine {
	if opUUID == "" {
		return workflow.NewMachine(s.ops, s.log)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.machines[opUUID]
	if !ok {
		m = workflow.NewMachine(s.ops, s.log)
		s.machines[opUUID] = m
	}
	return m
}

// ── Referencia ────────────────────────────────────────────────────────────────

// ListOperationTypes lista los tipos de operación disponibles.
func (s *Service) ListOperationTypes(ctx context.Context) ([]entity.OperationType, error) {
	return s.refs.GetOperationTypes(ctx)
}

// typeByUUID busca el tipo por uuid en la referencia cargada.
func (s *Service) typeByUUID(ctx context.Context, uuid string) (entity.OperationType, error) {
	types, err := s.refs.GetOperationTypes(ctx)
	if err != nil {
		return entity.OperationType{}, err
	}
	for _, t := range types {
		if t.UUID == uuid {
			return t, nil
		}
	}
	return entity.OperationType{}, domain.ErrNotFound
}

// PartiesResult parties elegibles para un lado de la operación, con el
// auto-bloqueo resuelto.
type PartiesResult struct {
	Parties []entity.Party
	Lock    party.AutoLock
}

// EligibleParties resuelve los parties elegibles como fuente o destino del
// tipo dado, filtra por nombre y evalúa el auto-bloqueo de bodega principal.
func (s *Service) EligibleParties(ctx context.Context, typeUUID string, role party.Role, query string, editing bool) (PartiesResult, error) {
	t, err := s.typeByUUID(ctx, typeUUID)
	if err != nil {
		return PartiesResult{}, err
	}
	universe, err := s.refs.GetParties(ctx)
	if err != nil {
		return PartiesResult{}, err
	}
	var filtered []entity.Party
	if role == party.RoleSource {
		filtered = party.EligibleSources(t, universe)
	} else {
		filtered = party.EligibleDestinations(t, universe)
	}
	lock := party.ResolveAutoLock(t, filtered, role, editing)
	return PartiesResult{
		Parties: party.FilterByName(filtered, query),
		Lock:    lock,
	}, nil
}

// ── Lectura ───────────────────────────────────────────────────────────────────

// OperationDetail operación completa más sus enlaces padre/hijo.
type OperationDetail struct {
	Operation *entity.StockOperation
	// Links puede venir vacío aunque existan enlaces: un fallo al listarlos
	// degrada a lista vacía en lugar de tumbar la lectura principal.
	Links []entity.StockOperationLink
	Rules rules.RuleSet
}

// GetOperation lee la operación y sus enlaces. Los enlaces degradan con
// un warning; la operación en sí propaga el error.
func (s *Service) GetOperation(ctx context.Context, uuid string) (OperationDetail, error) {
	op, err := s.ops.GetStockOperation(ctx, uuid)
	if err != nil {
		return OperationDetail{}, err
	}
	links, err := s.refs.GetStockOperationLinks(ctx, uuid)
	if err != nil {
		s.log.Warn().Str("operation", uuid).Err(err).Msg("no se pudieron listar los enlaces")
		links = nil
	}
	return OperationDetail{
		Operation: op,
		Links:     links,
		Rules:     rules.For(op.OperationType),
	}, nil
}

// ── Envío ─────────────────────────────────────────────────────────────────────

// SubmissionInput borrador completo recibido del cliente más la acción a
// ejecutar.
type SubmissionInput struct {
	OperationTypeUUID string
	Action            workflow.SubmitAction
	Operation         entity.StockOperation
}

// ValidateDraft corre los esquemas de cabecera y renglones del tipo sin
// persistir, y devuelve las acciones habilitadas según el tri-estado.
func (s *Service) ValidateDraft(ctx context.Context, in SubmissionInput) ([]validation.FieldError, []workflow.SubmitAction, error) {
	d, err := s.buildDraft(ctx, in)
	if err != nil {
		return nil, nil, err
	}
	header := validation.HeaderSchemaFor(d.Type, d.Rules)
	lines := validation.LineSchemaFor(d.Rules)
	var errs validation.Errors
	errs = append(errs, header.Validate(d.Operation)...)
	errs = append(errs, lines.ValidateItems(d.Operation.Items)...)
	return errs, workflow.AvailableActions(d), nil
}

// RunSubmission ejecuta la acción de envío sobre el borrador recibido.
func (s *Service) RunSubmission(ctx context.Context, in SubmissionInput) (workflow.SaveResult, error) {
	d, err := s.buildDraft(ctx, in)
	if err != nil {
		return workflow.SaveResult{}, err
	}
	m := s.machineFor(in.Operation.UUID)
	result, err := m.Run(ctx, d, in.Action)
	if err == nil && in.Action != workflow.ActionSave && in.Operation.UUID != "" {
		// La operación dejó NEW: ya no es editable y su máquina no se
		// vuelve a usar.
		s.mu.Lock()
		delete(s.machines, in.Operation.UUID)
		s.mu.Unlock()
	}
	return result, err
}

// buildDraft arma el borrador desde la entrada: resuelve el tipo y, al
// editar, recupera la última versión persistida para el delete-diff y el
// chequeo de mutabilidad.
func (s *Service) buildDraft(ctx context.Context, in SubmissionInput) (workflow.Draft, error) {
	t, err := s.typeByUUID(ctx, in.OperationTypeUUID)
	if err != nil {
		return workflow.Draft{}, err
	}
	if in.Operation.UUID == "" {
		d := workflow.NewDraft(t)
		d.Operation = in.Operation
		d.Operation.OperationTypeUUID = t.UUID
		d.Operation.OperationType = t.Kind
		d.Operation.Status = entity.StatusNew
		d.Step = workflow.StepSubmission
		return d, nil
	}
	persisted, err := s.ops.GetStockOperation(ctx, in.Operation.UUID)
	if err != nil {
		return workflow.Draft{}, err
	}
	if !persisted.Status.IsMutable() {
		return workflow.Draft{}, domain.ErrNotEditable
	}
	d := workflow.DraftFromExisting(*persisted, t)
	d.Operation = in.Operation
	d.Operation.OperationTypeUUID = t.UUID
	d.Operation.OperationType = t.Kind
	d.Operation.Status = persisted.Status
	d.Step = workflow.StepSubmission
	return d, nil
}

// ── Derivación desde requisición ──────────────────────────────────────────────

// DeriveIssue arma el borrador de un Stock-Issue a partir de la
// requisición dada, con fuente y destino invertidos.
func (s *Service) DeriveIssue(ctx context.Context, requisitionUUID string) (workflow.Draft, error) {
	req, err := s.ops.GetStockOperation(ctx, requisitionUUID)
	if err != nil {
		return workflow.Draft{}, err
	}
	types, err := s.refs.GetOperationTypes(ctx)
	if err != nil {
		return workflow.Draft{}, err
	}
	var issueType *entity.OperationType
	for i := range types {
		if types[i].Kind == entity.KindStockIssue {
			issueType = &types[i]
			break
		}
	}
	if issueType == nil {
		return workflow.Draft{}, domain.ErrNotFound
	}
	return workflow.IssueFromRequisition(*req, *issueType)
}

// ── Impresión ─────────────────────────────────────────────────────────────────

// PrintRecord arma el registro de impresión de la operación. Solo los
// tipos con impresión habilitada imprimen; los colaterales (padre, costos,
// existencias) degradan a ausentes sin fallar.
func (s *Service) PrintRecord(ctx context.Context, uuid string) (printing.Data, error) {
	op, err := s.ops.GetStockOperation(ctx, uuid)
	if err != nil {
		return printing.Data{}, err
	}
	rs := rules.For(op.OperationType)
	if !rs.AllowPrinting {
		return printing.Data{}, domain.ErrPrintingNotAllowed
	}

	in := printing.Input{Operation: *op, Organization: s.organization}

	if links, err := s.refs.GetStockOperationLinks(ctx, uuid); err != nil {
		s.log.Warn().Str("operation", uuid).Err(err).Msg("impresión sin enlaces")
	} else {
		for _, l := range links {
			if l.ChildUUID != uuid || l.ParentVoided {
				continue
			}
			parent, err := s.ops.GetStockOperation(ctx, l.ParentUUID)
			if err != nil {
				s.log.Warn().Str("parent", l.ParentUUID).Err(err).Msg("impresión sin operación padre")
				break
			}
			in.Parent = parent
			break
		}
	}

	if costs, err := s.refs.GetItemCosts(ctx, uuid); err != nil {
		s.log.Warn().Str("operation", uuid).Err(err).Msg("impresión sin costos")
	} else {
		in.Costs = costs
	}

	if op.SourceUUID != "" && len(op.Items) > 0 {
		stockItemUUIDs := make([]string, 0, len(op.Items))
		for _, it := range op.Items {
			stockItemUUIDs = append(stockItemUUIDs, it.StockItemUUID)
		}
		if inv, err := s.refs.GetInventory(ctx, op.SourceUUID, stockItemUUIDs); err != nil {
			s.log.Warn().Str("operation", uuid).Err(err).Msg("impresión sin existencias")
		} else {
			in.Inventory = inv
		}
	}

	return printing.Build(in), nil
}
