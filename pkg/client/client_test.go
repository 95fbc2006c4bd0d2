package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VriVa/odoo-spit-hack/internal/application/dto"
	"github.com/VriVa/odoo-spit-hack/internal/domain"
	"github.com/VriVa/odoo-spit-hack/pkg/client"
)

const (
	productID   = "3f1e2d4c-5b6a-4789-9abc-def012345678"
	warehouseID = "7a8b9c0d-1e2f-4a3b-8c4d-5e6f7a8b9c0d"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListProducts_ReintentaGET(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/", r.URL.Path)
		if calls.Add(1) == 1 {
			writeJSON(w, http.StatusServiceUnavailable, dto.ErrorResponse{Code: "INTERNAL", Message: "db caída"})
			return
		}
		writeJSON(w, http.StatusOK, dto.ProductStockListing{
			Products: []dto.ProductResponse{{ID: productID, SKU: "SKU-1", UnitCost: decimal.NewFromInt(3)}},
		})
	}))
	defer srv.Close()

	c := client.New(srv.URL, client.WithRetries(2, time.Millisecond))
	out, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	require.Len(t, out.Products, 1)
	assert.Equal(t, "SKU-1", out.Products[0].SKU)
	assert.Empty(t, out.Stock)
}

func TestGET_AgotaReintentos(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "boom"})
	}))
	defer srv.Close()

	c := client.New(srv.URL, client.WithRetries(2, time.Millisecond))
	_, err := c.ListWarehouses(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "INTERNAL", apiErr.Code)
}

func TestMutaciones_NoSeReintentan(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "boom"})
	}))
	defer srv.Close()

	c := client.New(srv.URL, client.WithRetries(3, time.Millisecond))
	_, err := c.ValidateTransaction(context.Background(), "abc")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestErroresTipados(t *testing.T) {
	tests := []struct {
		status int
		code   string
		target error
	}{
		{http.StatusConflict, "INSUFFICIENT_STOCK", domain.ErrInsufficientStock},
		{http.StatusConflict, "ALREADY_PROCESSED", domain.ErrAlreadyProcessed},
		{http.StatusConflict, "DUPLICATE", domain.ErrDuplicate},
		{http.StatusNotFound, "NOT_FOUND", domain.ErrNotFound},
		{http.StatusBadRequest, "VALIDATION", domain.ErrValidation},
		{http.StatusForbidden, "FORBIDDEN", domain.ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, dto.ErrorResponse{Code: tt.code, Message: "detalle"})
			}))
			defer srv.Close()

			_, err := client.New(srv.URL).CreateDelivery(context.Background(), dto.CreateDeliveryRequest{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target))
			assert.Contains(t, err.Error(), "detalle")
		})
	}
}

func TestAdjustStock_QueryYCuerpo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/products/adjust_stock", r.URL.Path)
		assert.Equal(t, warehouseID, r.URL.Query().Get("warehouse_id"))
		assert.Equal(t, "117", r.URL.Query().Get("counted_qty"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var ref dto.ProductRef
		require.NoError(t, json.NewDecoder(r.Body).Decode(&ref))
		assert.Equal(t, productID, ref.ID)

		writeJSON(w, http.StatusOK, dto.TransactionResponse{
			ID: "t1", Type: "internal_adjustment", Status: "done", ReferenceNumber: "WH/ADJ/00001",
		})
	}))
	defer srv.Close()

	counted := decimal.NewFromInt(117)
	c := client.New(srv.URL, client.WithToken("tok"))
	out, err := c.AdjustStock(context.Background(),
		dto.ProductRef{ID: productID},
		dto.AdjustStockQuery{WarehouseID: warehouseID, CountedQty: &counted},
	)
	require.NoError(t, err)
	assert.Equal(t, "done", out.Status)
	assert.Equal(t, "WH/ADJ/00001", out.ReferenceNumber)
}

func TestCreateReceipt_EnviaDecimales(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in dto.CreateReceiptRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		require.NotNil(t, in.Quantity)
		assert.Equal(t, "12.5", in.Quantity.String())
		writeJSON(w, http.StatusCreated, dto.TransactionResponse{ID: "t1", Quantity: *in.Quantity})
	}))
	defer srv.Close()

	qty := decimal.RequireFromString("12.5")
	out, err := client.New(srv.URL).CreateReceipt(context.Background(), dto.CreateReceiptRequest{
		ProductID: productID, ToWarehouseID: warehouseID, Quantity: &qty,
	})
	require.NoError(t, err)
	assert.True(t, qty.Equal(out.Quantity))
}

func TestDashboardTransactions_SoloFiltrosInformados(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "receipt", q.Get("txn_type"))
		assert.False(t, q.Has("status"))
		assert.False(t, q.Has("warehouse_id"))
		assert.Equal(t, "Ferretería", q.Get("category"))
		writeJSON(w, http.StatusOK, []dto.TransactionResponse{{ID: "a"}, {ID: "b"}})
	}))
	defer srv.Close()

	out, err := client.New(srv.URL).DashboardTransactions(context.Background(),
		dto.TransactionFilterQuery{TxnType: "receipt", Category: "Ferretería"})
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestTransactionSlip_DevuelveBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/transactions/t1/slip", r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = io.WriteString(w, "%PDF-1.3 fake")
	}))
	defer srv.Close()

	b, err := client.New(srv.URL).TransactionSlip(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3 fake", string(b))
}

func TestGET_RespetaCancelacion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := client.New(srv.URL, client.WithRetries(10, time.Second))
	_, err := c.KPIs(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
