package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockops-api/internal/application/dto"
	"github.com/jhoicas/stockops-api/internal/application/operations"
	"github.com/jhoicas/stockops-api/internal/application/workflow"
	"github.com/jhoicas/stockops-api/internal/domain"
	"github.com/jhoicas/stockops-api/internal/domain/party"
	"github.com/jhoicas/stockops-api/internal/domain/validation"
)

// StockOperationHandler maneja las peticiones HTTP de operaciones de stock (protegido).
type StockOperationHandler struct {
	svc *operations.Service
	pdf operations.PrintPDFGenerator
}

// NewStockOperationHandler construye el handler.
func NewStockOperationHandler(svc *operations.Service, pdf operations.PrintPDFGenerator) *StockOperationHandler {
	return &StockOperationHandler{svc: svc, pdf: pdf}
}

// ListTypes godoc
// @Summary      Listar tipos de operación de stock
// @Tags         stock-operations
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.OperationTypeResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/stock-operation-types [get]
func (h *StockOperationHandler) ListTypes(c *fiber.Ctx) error {
	types, err := h.svc.ListOperationTypes(c.Context())
	if err != nil {
		return h.mapError(c, err)
	}
	out := make([]dto.OperationTypeResponse, 0, len(types))
	for _, t := range types {
		out = append(out, dto.OperationTypeFromEntity(t))
	}
	return c.JSON(out)
}

// EligibleParties godoc
// @Summary      Parties elegibles como fuente o destino de un tipo
// @Description  Filtra el universo de parties al lado pedido del tipo, aplica la
//
//	búsqueda por nombre (insensible a acentos) y resuelve el
//	auto-bloqueo de bodega principal para operaciones nuevas.
//
// @Tags         stock-operations
// @Security     Bearer
// @Produce      json
// @Param        uuid     path   string  true   "UUID del tipo de operación"
// @Param        role     query  string  true   "source | destination"
// @Param        q        query  string  false  "Búsqueda por nombre"
// @Param        editing  query  bool    false  "true al editar una operación existente"
// @Success      200  {object}  dto.EligiblePartiesResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-operation-types/{uuid}/parties [get]
func (h *StockOperationHandler) EligibleParties(c *fiber.Ctx) error {
	var role party.Role
	switch c.Query("role") {
	case "source":
		role = party.RoleSource
	case "destination":
		role = party.RoleDestination
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ROLE", Message: "role debe ser source o destination"})
	}
	result, err := h.svc.EligibleParties(c.Context(), c.Params("uuid"), role, c.Query("q"), c.QueryBool("editing"))
	if err != nil {
		return h.mapError(c, err)
	}
	out := dto.EligiblePartiesResponse{
		Results: make([]dto.PartyResponse, 0, len(result.Parties)),
		Locked:  result.Lock.Locked,
	}
	for _, p := range result.Parties {
		out.Results = append(out.Results, dto.PartyFromEntity(p))
	}
	if result.Lock.Party != nil {
		out.LockedPartyUUID = result.Lock.Party.UUID
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Leer una operación de stock con sus enlaces
// @Tags         stock-operations
// @Security     Bearer
// @Produce      json
// @Param        uuid  path  string  true  "UUID de la operación"
// @Success      200  {object}  dto.OperationDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-operations/{uuid} [get]
func (h *StockOperationHandler) Get(c *fiber.Ctx) error {
	detail, err := h.svc.GetOperation(c.Context(), c.Params("uuid"))
	if err != nil {
		return h.mapError(c, err)
	}
	out := dto.OperationDetailResponse{
		Operation: dto.StockOperationFromEntity(*detail.Operation),
		Rules:     dto.RuleSetFromEntity(detail.Rules),
	}
	for _, l := range detail.Links {
		out.Links = append(out.Links, dto.OperationLinkFromEntity(l))
	}
	return c.JSON(out)
}

// Validate godoc
// @Summary      Validar un borrador sin persistir
// @Description  Corre los esquemas de cabecera y renglones del tipo y devuelve
//
//	las acciones de envío habilitadas según la decisión de aprobación.
//
// @Tags         stock-operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockOperationRequest  true  "Borrador"
// @Success      200  {object}  dto.ValidateDraftResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-operations/validate [post]
func (h *StockOperationHandler) Validate(c *fiber.Ctx) error {
	var in dto.StockOperationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	fieldErrs, actions, err := h.svc.ValidateDraft(c.Context(), operations.SubmissionInput{
		OperationTypeUUID: in.OperationTypeUUID,
		Operation:         in.ToEntity(),
	})
	if err != nil {
		return h.mapError(c, err)
	}
	out := dto.ValidateDraftResponse{
		Valid:            len(fieldErrs) == 0,
		AvailableActions: make([]string, 0, len(actions)),
	}
	for _, fe := range fieldErrs {
		out.FieldErrors = append(out.FieldErrors, dto.FieldErrorItem{Field: fe.Field, Message: fe.Message})
	}
	for _, a := range actions {
		out.AvailableActions = append(out.AvailableActions, string(a))
	}
	return c.JSON(out)
}

// Submit godoc
// @Summary      Ejecutar una acción de envío sobre el borrador
// @Description  save persiste como checkpoint en NEW; submit, dispatch y complete
//
//	exigen borrador válido, la decisión de aprobación tomada y la
//	acción habilitada por las reglas del tipo. Los renglones retirados
//	desde el último guardado se eliminan uno a uno y sus fallos se
//	reportan sin bloquear el guardado del padre.
//
// @Tags         stock-operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitOperationRequest  true  "Borrador y acción"
// @Success      200  {object}  dto.SubmitOperationResponse
// @Failure      400  {object}  dto.ValidationErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/stock-operations/submit [post]
func (h *StockOperationHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitOperationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.svc.RunSubmission(c.Context(), operations.SubmissionInput{
		OperationTypeUUID: in.Operation.OperationTypeUUID,
		Action:            workflow.SubmitAction(in.Action),
		Operation:         in.Operation.ToEntity(),
	})
	if err != nil {
		return h.mapError(c, err)
	}
	out := dto.SubmitOperationResponse{Stale: result.Stale}
	if result.Operation != nil {
		resp := dto.StockOperationFromEntity(*result.Operation)
		out.Operation = &resp
	}
	for _, o := range result.DeleteOutcomes {
		if o.Err != nil {
			out.DeleteFailures = append(out.DeleteFailures, dto.DeleteFailureItem{
				ItemUUID: o.ItemUUID,
				Message:  o.Err.Error(),
			})
		}
	}
	return c.JSON(out)
}

// DeriveIssue godoc
// @Summary      Derivar un despacho desde una requisición
// @Description  Arma el borrador de un Stock Issue con fuente y destino
//
//	invertidos y las cantidades solicitadas precargadas. No persiste.
//
// @Tags         stock-operations
// @Security     Bearer
// @Produce      json
// @Param        uuid  path  string  true  "UUID de la requisición"
// @Success      200  {object}  dto.StockOperationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/stock-operations/{uuid}/issue [post]
func (h *StockOperationHandler) DeriveIssue(c *fiber.Ctx) error {
	d, err := h.svc.DeriveIssue(c.Context(), c.Params("uuid"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(dto.StockOperationFromEntity(d.Operation))
}

// PrintRecord godoc
// @Summary      Registro de impresión de la operación
// @Tags         stock-operations
// @Security     Bearer
// @Produce      json
// @Param        uuid  path  string  true  "UUID de la operación"
// @Success      200  {object}  dto.PrintRecordResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/stock-operations/{uuid}/print [get]
func (h *StockOperationHandler) PrintRecord(c *fiber.Ctx) error {
	data, err := h.svc.PrintRecord(c.Context(), c.Params("uuid"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(dto.PrintRecordFromData(data))
}

// PrintPDF godoc
// @Summary      Descargar el PDF de la operación
// @Tags         stock-operations
// @Security     Bearer
// @Produce      application/pdf
// @Param        uuid  path  string  true  "UUID de la operación"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/stock-operations/{uuid}/print.pdf [get]
func (h *StockOperationHandler) PrintPDF(c *fiber.Ctx) error {
	data, err := h.svc.PrintRecord(c.Context(), c.Params("uuid"))
	if err != nil {
		return h.mapError(c, err)
	}
	bytes, err := h.pdf.GenerateOperationPDF(c.Context(), data)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF_GENERATION", Message: err.Error()})
	}
	filename := data.OperationNumber
	if filename == "" {
		filename = c.Params("uuid")
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s.pdf"`, filename))
	return c.Send(bytes)
}

// mapError traduce los errores de dominio a códigos HTTP. Las violaciones
// de esquema viajan campo a campo en un 400.
func (h *StockOperationHandler) mapError(c *fiber.Ctx, err error) error {
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		out := dto.ValidationErrorResponse{
			Code:    "VALIDATION",
			Message: "el borrador tiene campos inválidos",
		}
		for _, fe := range fieldErrs {
			out.FieldErrors = append(out.FieldErrors, dto.FieldErrorItem{Field: fe.Field, Message: fe.Message})
		}
		return c.Status(fiber.StatusBadRequest).JSON(out)
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "operación o tipo no encontrado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INPUT", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotEditable):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_EDITABLE", Message: "la operación ya no es editable"})
	case errors.Is(err, domain.ErrSaveInFlight):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SAVE_IN_FLIGHT", Message: "hay un guardado en curso para esta operación"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "estado inconsistente para la transición"})
	case errors.Is(err, domain.ErrApprovalUndecided):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "APPROVAL_UNDECIDED", Message: "decida si la operación requiere aprobación"})
	case errors.Is(err, domain.ErrActionNotAllowed):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "ACTION_NOT_ALLOWED", Message: "la acción no está habilitada para este borrador"})
	case errors.Is(err, domain.ErrNotRequisition):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "NOT_REQUISITION", Message: "la operación no es una requisición"})
	case errors.Is(err, domain.ErrPrintingNotAllowed):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "PRINTING_NOT_ALLOWED", Message: "el tipo de operación no admite impresión"})
	default:
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "UPSTREAM", Message: err.Error()})
	}
}
