package usecase_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VriVa/odoo-spit-hack/internal/application/dto"
	"github.com/VriVa/odoo-spit-hack/internal/application/inventory"
	"github.com/VriVa/odoo-spit-hack/internal/application/usecase"
	"github.com/VriVa/odoo-spit-hack/internal/domain"
	"github.com/VriVa/odoo-spit-hack/internal/domain/repository"
	"github.com/VriVa/odoo-spit-hack/internal/infrastructure/memory"
)

func setup(t *testing.T) (*memory.Store, *usecase.ProductUseCase, *usecase.WarehouseUseCase) {
	t.Helper()
	store := memory.NewStore()
	engine := inventory.NewEngine(store, store.Transactions(), nil, zerolog.Nop())
	return store,
		usecase.NewProductUseCase(store.Products(), store.Stock(), engine, nil),
		usecase.NewWarehouseUseCase(store.Warehouses())
}

func TestWarehouseCreate_ShortCodeUnico(t *testing.T) {
	_, _, whUC := setup(t)
	ctx := context.Background()

	wh, err := whUC.Create(ctx, dto.CreateWarehouseRequest{Name: "Principal", ShortCode: "wh1"})
	require.NoError(t, err)
	assert.Equal(t, "WH1", wh.ShortCode)

	_, err = whUC.Create(ctx, dto.CreateWarehouseRequest{Name: "Otra", ShortCode: "WH1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := whUC.GetByID(ctx, wh.ID)
	require.NoError(t, err)
	assert.Equal(t, "Principal", got.Name)

	list, err := whUC.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestProductCreate_ConStockInicialPasaPorElLibroMayor(t *testing.T) {
	store, productUC, whUC := setup(t)
	ctx := context.Background()
	wh, err := whUC.Create(ctx, dto.CreateWarehouseRequest{Name: "Principal", ShortCode: "WH1"})
	require.NoError(t, err)

	res, err := productUC.Create(ctx, dto.CreateProductRequest{
		SKU: "REC-001", Name: "Tornillo", Category: "Ferretería", UnitCost: decimal.NewFromInt(3),
		WarehouseID: wh.ID, Quantity: decimal.NewFromInt(120),
	})
	require.NoError(t, err)
	require.NotNil(t, res.Stock)
	assert.True(t, res.Stock.OnHand.Equal(decimal.NewFromInt(120)))
	assert.True(t, res.Stock.FreeToUse.Equal(decimal.NewFromInt(120)))

	entries, err := store.Ledger().List(ctx, repository.LedgerFilter{ProductID: res.Product.ID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].QuantityChange.Equal(decimal.NewFromInt(120)))

	receipts, err := store.Transactions().List(ctx, repository.TransactionFilter{Type: "receipt", Status: "done"})
	require.NoError(t, err)
	assert.Len(t, receipts, 1)
}

func TestProductCreate_Validaciones(t *testing.T) {
	_, productUC, _ := setup(t)
	ctx := context.Background()

	_, err := productUC.Create(ctx, dto.CreateProductRequest{SKU: "A-1", Name: "Uno"})
	require.NoError(t, err)

	_, err = productUC.Create(ctx, dto.CreateProductRequest{SKU: "A-1", Name: "Repetido"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = productUC.Create(ctx, dto.CreateProductRequest{SKU: "A-2", Name: "Sin bodega", Quantity: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = productUC.Create(ctx, dto.CreateProductRequest{SKU: "A-3", Name: "Costo negativo", UnitCost: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProductCreate_StockInicialFallidoNoGuardaElProducto(t *testing.T) {
	store, productUC, whUC := setup(t)
	ctx := context.Background()

	req := dto.CreateProductRequest{
		SKU: "X-1", Name: "Bisagra", WarehouseID: "7d3f1c2e-5b6a-4c8d-9e0f-112233445566", Quantity: decimal.NewFromInt(10),
	}
	_, err := productUC.Create(ctx, req)
	require.ErrorIs(t, err, domain.ErrValidation)

	got, err := store.Products().GetBySKU(ctx, "X-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	wh, err := whUC.Create(ctx, dto.CreateWarehouseRequest{Name: "Principal", ShortCode: "WH1"})
	require.NoError(t, err)
	req.WarehouseID = wh.ID
	res, err := productUC.Create(ctx, req)
	require.NoError(t, err, "el reintento no choca con un sku huérfano")
	require.NotNil(t, res.Stock)
	assert.True(t, res.Stock.OnHand.Equal(decimal.NewFromInt(10)))
}

func TestProductUpdateCost(t *testing.T) {
	_, productUC, _ := setup(t)
	ctx := context.Background()
	created, err := productUC.Create(ctx, dto.CreateProductRequest{SKU: "B-1", Name: "Tuerca", UnitCost: decimal.NewFromInt(1)})
	require.NoError(t, err)

	updated, err := productUC.UpdateCost(ctx, created.Product.ID, decimal.RequireFromString("1.75"))
	require.NoError(t, err)
	assert.Equal(t, "1.75", updated.UnitCost.String())

	got, err := productUC.GetByID(ctx, created.Product.ID)
	require.NoError(t, err)
	assert.Equal(t, "1.75", got.UnitCost.String())

	_, err = productUC.UpdateCost(ctx, "00000000-0000-0000-0000-000000000009", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
