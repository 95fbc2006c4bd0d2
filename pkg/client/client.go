// Package client es el cliente HTTP tipado de la API de inventario.
// Solo reintenta peticiones GET; las mutaciones se envían una única vez.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/VriVa/odoo-spit-hack/internal/application/dto"
	"github.com/VriVa/odoo-spit-hack/internal/domain"
)

const (
	defaultTimeout = 15 * time.Second
	defaultRetries = 2
	defaultBackoff = 200 * time.Millisecond
)

// APIError error devuelto por la API con su cuerpo {code, message}.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api: %s: %s", e.Code, e.Message)
}

// Is permite errors.Is(err, domain.ErrInsufficientStock) y similares sobre errores remotos.
func (e *APIError) Is(target error) bool {
	switch target {
	case domain.ErrValidation:
		return e.Code == "VALIDATION"
	case domain.ErrNotFound:
		return e.Code == "NOT_FOUND" || (e.Code == "" && e.StatusCode == http.StatusNotFound)
	case domain.ErrInsufficientStock:
		return e.Code == "INSUFFICIENT_STOCK"
	case domain.ErrAlreadyProcessed:
		return e.Code == "ALREADY_PROCESSED"
	case domain.ErrDuplicate:
		return e.Code == "DUPLICATE"
	case domain.ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	}
	return false
}

// Client cliente de la API. Seguro para uso concurrente.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	retries    int
	backoff    time.Duration
}

// Option configura el cliente.
type Option func(*Client)

// WithHTTPClient reemplaza el *http.Client por defecto.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken envía Authorization: Bearer <token> en cada petición.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithRetries fija cuántas veces se reintenta un GET fallido y la espera base entre intentos.
func WithRetries(n int, backoff time.Duration) Option {
	return func(c *Client) {
		c.retries = n
		c.backoff = backoff
	}
}

// New construye el cliente para baseURL (ej. http://localhost:8080).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		retries:    defaultRetries,
		backoff:    defaultBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ── Productos ────────────────────────────────────────────────────────────────

// ListProducts devuelve el catálogo con su stock.
func (c *Client) ListProducts(ctx context.Context) (*dto.ProductStockListing, error) {
	var out dto.ProductStockListing
	if err := c.get(ctx, "/products/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProduct obtiene un producto por ID.
func (c *Client) GetProduct(ctx context.Context, id string) (*dto.ProductResponse, error) {
	var out dto.ProductResponse
	if err := c.get(ctx, "/products/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProduct crea un producto, opcionalmente con stock inicial.
func (c *Client) CreateProduct(ctx context.Context, in dto.CreateProductRequest) (*dto.CreateProductResponse, error) {
	var out dto.CreateProductResponse
	if err := c.send(ctx, http.MethodPost, "/products/", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCost cambia el costo unitario.
func (c *Client) UpdateCost(ctx context.Context, id string, cost decimal.Decimal) (*dto.ProductResponse, error) {
	var out dto.ProductResponse
	body := dto.UpdateCostRequest{UnitCost: cost}
	if err := c.send(ctx, http.MethodPut, "/products/"+url.PathEscape(id)+"/cost", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Bodegas ──────────────────────────────────────────────────────────────────

// ListWarehouses lista las bodegas.
func (c *Client) ListWarehouses(ctx context.Context) ([]dto.WarehouseResponse, error) {
	var out []dto.WarehouseResponse
	if err := c.get(ctx, "/warehouses/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetWarehouse obtiene una bodega por ID.
func (c *Client) GetWarehouse(ctx context.Context, id string) (*dto.WarehouseResponse, error) {
	var out dto.WarehouseResponse
	if err := c.get(ctx, "/warehouses/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateWarehouse crea una bodega.
func (c *Client) CreateWarehouse(ctx context.Context, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	var out dto.WarehouseResponse
	if err := c.send(ctx, http.MethodPost, "/warehouses/", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Transacciones ────────────────────────────────────────────────────────────

// CreateReceipt registra una recepción.
func (c *Client) CreateReceipt(ctx context.Context, in dto.CreateReceiptRequest) (*dto.TransactionResponse, error) {
	return c.transaction(ctx, http.MethodPost, "/products/create_receipt", nil, in)
}

// CreateDelivery registra una entrega.
func (c *Client) CreateDelivery(ctx context.Context, in dto.CreateDeliveryRequest) (*dto.TransactionResponse, error) {
	return c.transaction(ctx, http.MethodPost, "/products/create_delivery_order", nil, in)
}

// CreateTransfer registra un traslado interno.
func (c *Client) CreateTransfer(ctx context.Context, in dto.CreateTransferRequest) (*dto.TransactionResponse, error) {
	return c.transaction(ctx, http.MethodPost, "/products/create_internal_transfer", nil, in)
}

// AdjustStock registra un conteo físico. El producto va en el cuerpo y el resto en la query.
func (c *Client) AdjustStock(ctx context.Context, product dto.ProductRef, q dto.AdjustStockQuery) (*dto.TransactionResponse, error) {
	params := url.Values{}
	params.Set("warehouse_id", q.WarehouseID)
	if q.CountedQty != nil {
		params.Set("counted_qty", q.CountedQty.String())
	}
	if q.UserID != "" {
		params.Set("user_id", q.UserID)
	}
	if q.Draft {
		params.Set("draft", "true")
	}
	return c.transaction(ctx, http.MethodPost, "/products/adjust_stock", params, product)
}

// ValidateTransaction aplica la transacción sobre el stock.
func (c *Client) ValidateTransaction(ctx context.Context, id string) (*dto.TransactionResponse, error) {
	return c.transaction(ctx, http.MethodPost, "/products/validate_transaction/"+url.PathEscape(id), nil, nil)
}

// ConfirmTransaction saca la transacción de borrador.
func (c *Client) ConfirmTransaction(ctx context.Context, id string) (*dto.TransactionResponse, error) {
	return c.transaction(ctx, http.MethodPost, "/products/confirm_transaction/"+url.PathEscape(id), nil, nil)
}

// CancelTransaction cancela una transacción no terminada.
func (c *Client) CancelTransaction(ctx context.Context, id string) (*dto.TransactionResponse, error) {
	return c.transaction(ctx, http.MethodPost, "/products/cancel_transaction/"+url.PathEscape(id), nil, nil)
}

// UpdateTransaction edita campos de una transacción pendiente.
func (c *Client) UpdateTransaction(ctx context.Context, id string, in dto.UpdateTransactionRequest) (*dto.TransactionResponse, error) {
	return c.transaction(ctx, http.MethodPut, "/products/transactions/"+url.PathEscape(id), nil, in)
}

// GetTransaction obtiene una transacción por ID.
func (c *Client) GetTransaction(ctx context.Context, id string) (*dto.TransactionResponse, error) {
	var out dto.TransactionResponse
	if err := c.get(ctx, "/products/transactions/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TransactionSlip descarga el PDF de la transacción.
func (c *Client) TransactionSlip(ctx context.Context, id string) ([]byte, error) {
	var out []byte
	if err := c.get(ctx, "/products/transactions/"+url.PathEscape(id)+"/slip", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListReceipts lista recepciones; warehouseID vacío no filtra.
func (c *Client) ListReceipts(ctx context.Context, warehouseID string) ([]dto.TransactionResponse, error) {
	return c.transactions(ctx, "/products/all-receipts", optional("warehouse_id", warehouseID))
}

// ListDeliveries lista entregas; warehouseID vacío no filtra.
func (c *Client) ListDeliveries(ctx context.Context, warehouseID string) ([]dto.TransactionResponse, error) {
	return c.transactions(ctx, "/products/all-deliveries", optional("warehouse_id", warehouseID))
}

// DashboardTransactions filtra transacciones por tipo, estado, bodega y categoría.
func (c *Client) DashboardTransactions(ctx context.Context, f dto.TransactionFilterQuery) ([]dto.TransactionResponse, error) {
	params := url.Values{}
	setIf(params, "txn_type", f.TxnType)
	setIf(params, "status", f.Status)
	setIf(params, "warehouse_id", f.WarehouseID)
	setIf(params, "category", f.Category)
	return c.transactions(ctx, "/dashboard/transactions", params)
}

// KPIs obtiene los indicadores del tablero.
func (c *Client) KPIs(ctx context.Context) (*dto.DashboardKPIsDTO, error) {
	var out dto.DashboardKPIsDTO
	if err := c.get(ctx, "/dashboard/kpis", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Auditoría ────────────────────────────────────────────────────────────────

// Ledger lista movimientos del libro mayor, más recientes primero.
func (c *Client) Ledger(ctx context.Context, q dto.LedgerQuery) ([]dto.LedgerEntryResponse, error) {
	params := url.Values{}
	setIf(params, "product_id", q.ProductID)
	setIf(params, "warehouse_id", q.WarehouseID)
	setIf(params, "transaction_id", q.TransactionID)
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}
	var out []dto.LedgerEntryResponse
	if err := c.get(ctx, "/products/ledger", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Balance saldo del libro mayor para el par a la fecha asOf (zero = ahora).
func (c *Client) Balance(ctx context.Context, productID, warehouseID string, asOf time.Time) (*dto.BalanceResponse, error) {
	params := url.Values{}
	params.Set("product_id", productID)
	params.Set("warehouse_id", warehouseID)
	if !asOf.IsZero() {
		params.Set("as_of", asOf.UTC().Format(time.RFC3339))
	}
	var out dto.BalanceResponse
	if err := c.get(ctx, "/products/balance", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Reconcile compara el libro mayor contra el stock.
func (c *Client) Reconcile(ctx context.Context) (*dto.ReconcileResponse, error) {
	var out dto.ReconcileResponse
	if err := c.get(ctx, "/products/reconcile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── transporte ───────────────────────────────────────────────────────────────

func (c *Client) transaction(ctx context.Context, method, path string, params url.Values, body any) (*dto.TransactionResponse, error) {
	var out dto.TransactionResponse
	if err := c.send(ctx, method, path, params, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) transactions(ctx context.Context, path string, params url.Values) ([]dto.TransactionResponse, error) {
	var out []dto.TransactionResponse
	if err := c.get(ctx, path, params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// get reintenta ante errores de red y respuestas 5xx.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	var err error
	for attempt := 0; ; attempt++ {
		var retryable bool
		retryable, err = c.do(ctx, http.MethodGet, path, params, nil, out)
		if err == nil || !retryable || attempt >= c.retries {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.backoff * time.Duration(attempt+1)):
		}
	}
}

// send ejecuta una mutación sin reintentos.
func (c *Client) send(ctx context.Context, method, path string, params url.Values, body, out any) error {
	_, err := c.do(ctx, method, path, params, body, out)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out any) (retryable bool, err error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return false, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return true, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return true, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var er dto.ErrorResponse
		if json.Unmarshal(data, &er) == nil && (er.Code != "" || er.Message != "") {
			apiErr.Code, apiErr.Message = er.Code, er.Message
		} else {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return resp.StatusCode >= 500, apiErr
	}

	switch v := out.(type) {
	case nil:
		return false, nil
	case *[]byte:
		*v = data
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return false, nil
}

func optional(key, value string) url.Values {
	params := url.Values{}
	setIf(params, key, value)
	return params
}

func setIf(params url.Values, key, value string) {
	if value != "" {
		params.Set(key, value)
	}
}

