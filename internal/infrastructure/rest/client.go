// Package rest implementa la pasarela de persistencia contra la API REST
// upstream de inventario. Toda la persistencia de este servicio pasa por
// aquí: no hay base de datos propia. El cliente honra la cancelación del
// contexto en cada llamada y no reintenta: el reintento es manual, lo
// dispara el usuario repitiendo la acción.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jhoicas/stockops-api/internal/domain"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/pkg/logger"
)

// Config opciones del cliente upstream.
type Config struct {
	BaseURL string
	// Username/Password autenticación básica contra la API; vacíos si el
	// upstream no la exige.
	Username string
	Password string
	// Timeout del transporte; cero usa el default de resty (sin timeout).
	Timeout time.Duration
}

// Client pasarela REST. Implementa workflow.OperationGateway y
// workflow.ReferenceGateway.
type Client struct {
	http *resty.Client
	log  *logger.Logger
}

// NewClient construye la pasarela.
func NewClient(cfg Config, log *logger.Logger) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")
	if cfg.Timeout > 0 {
		rc.SetTimeout(cfg.Timeout)
	}
	if cfg.Username != "" {
		rc.SetBasicAuth(cfg.Username, cfg.Password)
	}
	return &Client{http: rc, log: log}
}

// ── Datos de referencia ───────────────────────────────────────────────────────

// GetOperationTypes lista los tipos de operación. Se cargan una vez por
// sesión; este nivel no cachea.
func (c *Client) GetOperationTypes(ctx context.Context) ([]entity.OperationType, error) {
	var page resultsPage[operationTypeDTO]
	resp, err := c.http.R().SetContext(ctx).
		SetQueryParam("v", "default").
		SetResult(&page).
		Get("/stockoperationtype")
	if err := c.check(resp, err, "listar tipos de operación"); err != nil {
		return nil, err
	}
	out := make([]entity.OperationType, 0, len(page.Results))
	for _, d := range page.Results {
		out = append(out, d.toEntity())
	}
	return out, nil
}

// GetParties lista el universo de parties sin filtrar.
func (c *Client) GetParties(ctx context.Context) ([]entity.Party, error) {
	var page resultsPage[partyDTO]
	resp, err := c.http.R().SetContext(ctx).
		SetQueryParam("v", "default").
		SetResult(&page).
		Get("/party")
	if err := c.check(resp, err, "listar parties"); err != nil {
		return nil, err
	}
	out := make([]entity.Party, 0, len(page.Results))
	for _, d := range page.Results {
		out = append(out, d.toEntity())
	}
	return out, nil
}

// GetStockOperationLinks lista los enlaces donde el uuid figura como padre
// o como hijo.
func (c *Client) GetStockOperationLinks(ctx context.Context, operationUUID string) ([]entity.StockOperationLink, error) {
	var page resultsPage[stockOperationLinkDTO]
	resp, err := c.http.R().SetContext(ctx).
		SetQueryParam("q", operationUUID).
		SetResult(&page).
		Get("/stockoperationlink")
	if err := c.check(resp, err, "listar enlaces de operación"); err != nil {
		return nil, err
	}
	out := make([]entity.StockOperationLink, 0, len(page.Results))
	for _, d := range page.Results {
		out = append(out, d.toEntity())
	}
	return out, nil
}

// GetItemCosts costos unitarios/totales por renglón de la operación.
func (c *Client) GetItemCosts(ctx context.Context, operationUUID string) ([]entity.StockOperationItemCost, error) {
	var page resultsPage[itemCostDTO]
	resp, err := c.http.R().SetContext(ctx).
		SetQueryParam("stockOperationUuid", operationUUID).
		SetQueryParam("v", "default").
		SetResult(&page).
		Get("/stockoperationitemcost")
	if err := c.check(resp, err, "consultar costos de renglones"); err != nil {
		return nil, err
	}
	out := make([]entity.StockOperationItemCost, 0, len(page.Results))
	for _, d := range page.Results {
		out = append(out, d.toEntity())
	}
	return out, nil
}

// GetInventory existencias actuales de los ítems dados en un party.
func (c *Client) GetInventory(ctx context.Context, partyUUID string, stockItemUUIDs []string) ([]entity.StockItemInventory, error) {
	ids := append([]string(nil), stockItemUUIDs...)
	sort.Strings(ids)
	var page resultsPage[inventoryDTO]
	resp, err := c.http.R().SetContext(ctx).
		SetQueryParam("partyUuid", partyUUID).
		SetQueryParam("stockItemUuids", strings.Join(ids, ",")).
		SetResult(&page).
		Get("/stockiteminventory")
	if err := c.check(resp, err, "consultar existencias"); err != nil {
		return nil, err
	}
	out := make([]entity.StockItemInventory, 0, len(page.Results))
	for _, d := range page.Results {
		out = append(out, d.toEntity())
	}
	return out, nil
}

// ── Operaciones ───────────────────────────────────────────────────────────────

// GetStockOperation lee la representación completa (incluye renglones).
func (c *Client) GetStockOperation(ctx context.Context, uuid string) (*entity.StockOperation, error) {
	var dto stockOperationDTO
	resp, err := c.http.R().SetContext(ctx).
		SetQueryParam("v", "full").
		SetResult(&dto).
		Get("/stockoperation/" + uuid)
	if err := c.check(resp, err, "leer operación de stock"); err != nil {
		return nil, err
	}
	op := dto.toEntity()
	return &op, nil
}

// SaveStockOperation crea (uuid vacío) o actualiza la operación.
func (c *Client) SaveStockOperation(ctx context.Context, op entity.StockOperation) (*entity.StockOperation, error) {
	path := "/stockoperation"
	if op.UUID != "" {
		path += "/" + op.UUID
	}
	var dto stockOperationDTO
	resp, err := c.http.R().SetContext(ctx).
		SetBody(operationToDTO(op)).
		SetResult(&dto).
		Post(path)
	if err := c.check(resp, err, "guardar operación de stock"); err != nil {
		return nil, err
	}
	saved := dto.toEntity()
	return &saved, nil
}

// DeleteStockOperationItem elimina un renglón individual.
func (c *Client) DeleteStockOperationItem(ctx context.Context, uuid string) error {
	resp, err := c.http.R().SetContext(ctx).Delete("/stockoperationitem/" + uuid)
	return c.check(resp, err, "eliminar renglón")
}

// ── Manejo de errores ─────────────────────────────────────────────────────────

// apiErrorBody estructura de error del upstream: mensaje general más
// errores anidados por campo y globales.
type apiErrorBody struct {
	Error struct {
		Message     string `json:"message"`
		Detail      string `json:"detail"`
		FieldErrors map[string][]struct {
			Message string `json:"message"`
		} `json:"fieldErrors"`
		GlobalErrors []struct {
			Message string `json:"message"`
		} `json:"globalErrors"`
	} `json:"error"`
}

// check normaliza el resultado de una llamada: error de transporte tal
// cual, 404 como domain.ErrNotFound y el resto de no-2xx con el detalle
// del servidor concatenado desde las estructuras anidadas.
func (c *Client) check(resp *resty.Response, err error, op string) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if resp.IsSuccess() {
		return nil
	}
	if resp.StatusCode() == 404 {
		return domain.ErrNotFound
	}
	msg := upstreamDetail(resp.Body())
	c.log.Warn().Int("status", resp.StatusCode()).Str("detail", msg).Msg(op)
	if msg == "" {
		return fmt.Errorf("%s: upstream respondió %d", op, resp.StatusCode())
	}
	return fmt.Errorf("%s: %s", op, msg)
}

// upstreamDetail concatena mensaje, errores por campo y errores globales
// en un único detalle legible para el usuario.
func upstreamDetail(body []byte) string {
	var eb apiErrorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	var parts []string
	if eb.Error.Message != "" {
		parts = append(parts, eb.Error.Message)
	} else if eb.Error.Detail != "" {
		parts = append(parts, eb.Error.Detail)
	}
	fields := make([]string, 0, len(eb.Error.FieldErrors))
	for f := range eb.Error.FieldErrors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		for _, fe := range eb.Error.FieldErrors[f] {
			parts = append(parts, f+": "+fe.Message)
		}
	}
	for _, ge := range eb.Error.GlobalErrors {
		parts = append(parts, ge.Message)
	}
	return strings.Join(parts, "; ")
}
