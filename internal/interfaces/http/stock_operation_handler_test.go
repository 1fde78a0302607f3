package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockops-api/internal/application/dto"
	"github.com/jhoicas/stockops-api/internal/application/operations"
	"github.com/jhoicas/stockops-api/internal/application/printing"
	"github.com/jhoicas/stockops-api/internal/domain"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
	apphttp "github.com/jhoicas/stockops-api/internal/interfaces/http"
	"github.com/jhoicas/stockops-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes del backend y del generador de PDF
// ──────────────────────────────────────────────────────────────────────────────

type stubBackend struct {
	operations map[string]entity.StockOperation
	types      []entity.OperationType
	parties    []entity.Party
}

func newStubBackend() *stubBackend {
	return &stubBackend{operations: make(map[string]entity.StockOperation)}
}

func (s *stubBackend) GetStockOperation(_ context.Context, uuid string) (*entity.StockOperation, error) {
	op, ok := s.operations[uuid]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &op, nil
}

func (s *stubBackend) SaveStockOperation(_ context.Context, op entity.StockOperation) (*entity.StockOperation, error) {
	saved := op
	if saved.UUID == "" {
		saved.UUID = "op-persistida"
	}
	s.operations[saved.UUID] = saved
	return &saved, nil
}

func (s *stubBackend) DeleteStockOperationItem(_ context.Context, _ string) error { return nil }

func (s *stubBackend) GetOperationTypes(_ context.Context) ([]entity.OperationType, error) {
	return s.types, nil
}

func (s *stubBackend) GetParties(_ context.Context) ([]entity.Party, error) {
	return s.parties, nil
}

func (s *stubBackend) GetStockOperationLinks(_ context.Context, _ string) ([]entity.StockOperationLink, error) {
	return nil, nil
}

func (s *stubBackend) GetItemCosts(_ context.Context, _ string) ([]entity.StockOperationItemCost, error) {
	return nil, nil
}

func (s *stubBackend) GetInventory(_ context.Context, _ string, _ []string) ([]entity.StockItemInventory, error) {
	return nil, nil
}

type stubPDF struct{}

func (stubPDF) GenerateOperationPDF(_ context.Context, _ printing.Data) ([]byte, error) {
	return []byte("%PDF-stub"), nil
}

// buildAPI arma la aplicación completa sobre el backend falso.
func buildAPI(backend *stubBackend) *fiber.App {
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	svc := operations.NewService(backend, backend, "Hospital Central", log)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Operations: svc,
		PDF:        stubPDF{},
		JWTSecret:  testJWTSecret,
	})
	return app
}

func apiRequest(t *testing.T, app *fiber.App, method, path, role string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, role))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func tipoIssueConAlcance() entity.OperationType {
	return entity.OperationType{
		UUID:            "type-stockissue",
		Name:            "Stock Issue",
		Kind:            entity.KindStockIssue,
		HasSource:       true,
		HasDestination:  true,
		SourceType:      entity.LocationTypeLocation,
		DestinationType: entity.LocationTypeLocation,
		Scopes: []entity.LocationScope{
			{LocationTag: "Main Store", IsSource: true},
		},
	}
}

func borradorValido() dto.StockOperationRequest {
	q := decimal.NewFromInt(5)
	return dto.StockOperationRequest{
		OperationTypeUUID:     "type-stockissue",
		SourceUUID:            "loc-main",
		DestinationUUID:       "loc-farmacia",
		ResponsiblePersonUUID: "person-1",
		OperationDate:         time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		Items: []dto.StockOperationItemDTO{
			{
				StockItemUUID:             "item-1",
				StockItemPackagingUOMUUID: "uom-1",
				StockBatchUUID:            "batch-1",
				Quantity:                  &q,
			},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestListTypes_DevuelveReglasPorTipo(t *testing.T) {
	backend := newStubBackend()
	backend.types = []entity.OperationType{tipoIssueConAlcance()}
	app := buildAPI(backend)

	resp := apiRequest(t, app, http.MethodGet, "/api/stock-operation-types/", "consulta", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out []dto.OperationTypeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out, 1)
	assert.Equal(t, "stockissue", out[0].OperationType)
	assert.True(t, out[0].Rules.RequiresDispatchAcknowledgement)
	assert.True(t, out[0].Rules.AllowPrinting)
}

func TestEligibleParties_DevuelveBloqueo(t *testing.T) {
	backend := newStubBackend()
	backend.types = []entity.OperationType{tipoIssueConAlcance()}
	backend.parties = []entity.Party{
		{UUID: "p-main", Name: "Bodega Principal", LocationUUID: "loc-main", Tags: []string{"Main Store"}},
	}
	app := buildAPI(backend)

	resp := apiRequest(t, app, http.MethodGet,
		"/api/stock-operation-types/type-stockissue/parties?role=source", "consulta", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.EligiblePartiesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Results, 1)
	assert.True(t, out.Locked)
	assert.Equal(t, "p-main", out.LockedPartyUUID)
}

func TestEligibleParties_RolInvalido400(t *testing.T) {
	app := buildAPI(newStubBackend())
	resp := apiRequest(t, app, http.MethodGet,
		"/api/stock-operation-types/type-x/parties?role=sideways", "consulta", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSubmit_GuardaYDevuelveOperacion(t *testing.T) {
	backend := newStubBackend()
	backend.types = []entity.OperationType{tipoIssueConAlcance()}
	app := buildAPI(backend)

	resp := apiRequest(t, app, http.MethodPost, "/api/stock-operations/submit", "almacenista",
		dto.SubmitOperationRequest{Action: "save", Operation: borradorValido()})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.SubmitOperationResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotNil(t, out.Operation)
	assert.Equal(t, "op-persistida", out.Operation.UUID)
	assert.Equal(t, string(entity.StatusNew), out.Operation.Status)
}

func TestSubmit_BorradorInvalidoDevuelveErroresPorCampo(t *testing.T) {
	backend := newStubBackend()
	backend.types = []entity.OperationType{tipoIssueConAlcance()}
	app := buildAPI(backend)

	borrador := borradorValido()
	borrador.DestinationUUID = ""
	borrador.Items[0].StockBatchUUID = ""
	aprobado := false
	borrador.ApprovalRequired = &aprobado

	resp := apiRequest(t, app, http.MethodPost, "/api/stock-operations/submit", "almacenista",
		dto.SubmitOperationRequest{Action: "dispatch", Operation: borrador})
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out dto.ValidationErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "VALIDATION", out.Code)

	fields := make([]string, 0, len(out.FieldErrors))
	for _, fe := range out.FieldErrors {
		fields = append(fields, fe.Field)
	}
	assert.Contains(t, fields, "destinationUuid")
	assert.Contains(t, fields, "item[0].stockBatchUuid")
}

func TestSubmit_SinDecisionDeAprobacion422(t *testing.T) {
	backend := newStubBackend()
	backend.types = []entity.OperationType{tipoIssueConAlcance()}
	app := buildAPI(backend)

	resp := apiRequest(t, app, http.MethodPost, "/api/stock-operations/submit", "almacenista",
		dto.SubmitOperationRequest{Action: "dispatch", Operation: borradorValido()})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestSubmit_RolConsultaBloqueado403(t *testing.T) {
	app := buildAPI(newStubBackend())
	resp := apiRequest(t, app, http.MethodPost, "/api/stock-operations/submit", "consulta",
		dto.SubmitOperationRequest{Action: "save", Operation: borradorValido()})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestGet_OperacionInexistente404(t *testing.T) {
	app := buildAPI(newStubBackend())
	resp := apiRequest(t, app, http.MethodGet, "/api/stock-operations/no-existe", "consulta", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPrintPDF_DescargaConContentType(t *testing.T) {
	backend := newStubBackend()
	op := entity.StockOperation{
		UUID:            "op-1",
		OperationNumber: "SI-0001",
		OperationType:   entity.KindStockIssue,
		Status:          entity.StatusCompleted,
		OperationDate:   time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
	}
	backend.operations["op-1"] = op
	app := buildAPI(backend)

	resp := apiRequest(t, app, http.MethodGet, "/api/stock-operations/op-1/print.pdf", "consulta", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "SI-0001.pdf")
}

func TestPrintPDF_TipoSinImpresion422(t *testing.T) {
	backend := newStubBackend()
	backend.operations["op-st"] = entity.StockOperation{
		UUID:          "op-st",
		OperationType: entity.KindStockTake,
		Status:        entity.StatusCompleted,
	}
	app := buildAPI(backend)

	resp := apiRequest(t, app, http.MethodGet, "/api/stock-operations/op-st/print.pdf", "consulta", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestDeriveIssue_DevuelveBorradorInvertido(t *testing.T) {
	backend := newStubBackend()
	backend.types = []entity.OperationType{
		{
			UUID: "type-req", Name: "Requisition", Kind: entity.KindRequisition,
			HasSource: true, HasDestination: true,
			SourceType: entity.LocationTypeLocation, DestinationType: entity.LocationTypeLocation,
		},
		tipoIssueConAlcance(),
	}
	q := decimal.NewFromInt(7)
	backend.operations["req-1"] = entity.StockOperation{
		UUID:            "req-1",
		OperationType:   entity.KindRequisition,
		Status:          entity.StatusCompleted,
		SourceUUID:      "loc-farmacia",
		DestinationUUID: "loc-main",
		Items: []entity.StockOperationItem{
			{UUID: "line-1", StockItemUUID: "item-1", StockItemPackagingUOMUUID: "uom-1", Quantity: &q},
		},
	}
	app := buildAPI(backend)

	resp := apiRequest(t, app, http.MethodPost, "/api/stock-operations/req-1/issue", "almacenista", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.StockOperationResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "stockissue", out.OperationType)
	assert.Equal(t, "loc-main", out.SourceUUID)
	assert.Equal(t, "loc-farmacia", out.DestinationUUID)
	assert.Equal(t, "req-1", out.RequisitionUUID)
	require.Len(t, out.Items, 1)
	require.NotNil(t, out.Items[0].QuantityRequested)
	assert.True(t, out.Items[0].QuantityRequested.Equal(q))
}
