package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VriVa/odoo-spit-hack/internal/application/inventory"
	"github.com/VriVa/odoo-spit-hack/internal/domain"
	"github.com/VriVa/odoo-spit-hack/internal/domain/entity"
	"github.com/VriVa/odoo-spit-hack/internal/domain/repository"
	"github.com/VriVa/odoo-spit-hack/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store   *memory.Store
	engine  *inventory.Engine
	queries *inventory.QueryService
	product *entity.Product
	wh1     *entity.Warehouse
	wh2     *entity.Warehouse
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decp(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Now().UTC()

	product := &entity.Product{
		ID: uuid.New().String(), SKU: "REC-001", Name: "Tornillo", Category: "Ferretería",
		UOM: "pcs", UnitCost: dec(2), CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, store.Products().Create(ctx, product))
	wh1 := &entity.Warehouse{ID: uuid.New().String(), Name: "Principal", ShortCode: "WH1", CreatedAt: now, UpdatedAt: now}
	wh2 := &entity.Warehouse{ID: uuid.New().String(), Name: "Secundaria", ShortCode: "WH2", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.Warehouses().Create(ctx, wh1))
	require.NoError(t, store.Warehouses().Create(ctx, wh2))

	return &fixture{
		store:  store,
		engine: inventory.NewEngine(store, store.Transactions(), nil, zerolog.Nop()),
		queries: inventory.NewQueryService(
			store.Products(), store.Warehouses(), store.Stock(), store.Transactions(), store.Ledger(),
			nil, nil, inventory.DefaultLowStockThreshold,
		),
		product: product,
		wh1:     wh1,
		wh2:     wh2,
	}
}

// receive crea y valida una recepción de qty en la bodega.
func (f *fixture) receive(t *testing.T, wh *entity.Warehouse, qty int64) *entity.Transaction {
	t.Helper()
	txn, err := f.engine.CreateAndValidate(context.Background(), inventory.CreateTransactionInput{
		Type: entity.TxnTypeReceipt, ProductID: f.product.ID, Quantity: decp(qty), ToWarehouseID: wh.ID,
	})
	require.NoError(t, err)
	require.Equal(t, entity.TxnStatusDone, txn.Status)
	return txn
}

func (f *fixture) stockOf(t *testing.T, wh *entity.Warehouse) *entity.StockRecord {
	t.Helper()
	s, err := f.store.Stock().Get(context.Background(), f.product.ID, wh.ID)
	require.NoError(t, err)
	return s
}

func (f *fixture) ledgerFor(t *testing.T, txnID string) []*entity.LedgerEntry {
	t.Helper()
	entries, err := f.store.Ledger().List(context.Background(), repository.LedgerFilter{TransactionID: txnID})
	require.NoError(t, err)
	return entries
}

// assertConsistent verifica que cada saldo coincida con la suma del libro mayor.
func (f *fixture) assertConsistent(t *testing.T) {
	t.Helper()
	res, err := f.queries.Reconcile(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Consistent, "libro mayor y saldos deben coincidir: %+v", res.Divergences)
	stock, err := f.store.Stock().List(context.Background())
	require.NoError(t, err)
	for _, s := range stock {
		assert.True(t, s.Valid(), "saldo inválido %+v", s)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_EstadoSegunCompletitud(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ready, err := f.engine.Create(ctx, inventory.CreateTransactionInput{
		Type: entity.TxnTypeReceipt, ProductID: f.product.ID, Quantity: decp(5), ToWarehouseID: f.wh1.ID, Supplier: "ACME",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TxnStatusReady, ready.Status)
	assert.Equal(t, "WH1/IN/00001", ready.ReferenceNumber)

	waiting, err := f.engine.Create(ctx, inventory.CreateTransactionInput{
		Type: entity.TxnTypeReceipt, ProductID: f.product.ID, ToWarehouseID: f.wh1.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TxnStatusWaiting, waiting.Status, "sin cantidad queda en waiting")
	assert.Equal(t, "WH1/IN/00002", waiting.ReferenceNumber)

	draft, err := f.engine.Create(ctx, inventory.CreateTransactionInput{
		Type: entity.TxnTypeDelivery, ProductID: f.product.ID, Quantity: decp(1), FromWarehouseID: f.wh2.ID, Draft: true,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TxnStatusDraft, draft.Status)
	assert.Equal(t, "WH2/OUT/00001", draft.ReferenceNumber)

	noWh, err := f.engine.Create(ctx, inventory.CreateTransactionInput{
		Type: entity.TxnTypeInternalTransfer, ProductID: f.product.ID, Quantity: decp(1),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TxnStatusWaiting, noWh.Status)
	assert.Equal(t, "WH/INT/00001", noWh.ReferenceNumber, "sin bodega se usa el prefijo genérico")
}

func TestCreate_RechazaEntradasInvalidas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   inventory.CreateTransactionInput
	}{
		{"tipo desconocido", inventory.CreateTransactionInput{Type: "scrap", ProductID: f.product.ID}},
		{"cantidad cero", inventory.CreateTransactionInput{Type: entity.TxnTypeReceipt, ProductID: f.product.ID, Quantity: decp(0), ToWarehouseID: f.wh1.ID}},
		{"cantidad negativa", inventory.CreateTransactionInput{Type: entity.TxnTypeDelivery, ProductID: f.product.ID, Quantity: decp(-3), FromWarehouseID: f.wh1.ID}},
		{"producto inexistente", inventory.CreateTransactionInput{Type: entity.TxnTypeReceipt, ProductID: uuid.New().String(), Quantity: decp(1), ToWarehouseID: f.wh1.ID}},
		{"bodega inexistente", inventory.CreateTransactionInput{Type: entity.TxnTypeReceipt, ProductID: f.product.ID, Quantity: decp(1), ToWarehouseID: uuid.New().String()}},
		{"id mal formado", inventory.CreateTransactionInput{Type: entity.TxnTypeReceipt, ProductID: "abc", Quantity: decp(1), ToWarehouseID: f.wh1.ID}},
		{"recepción con origen", inventory.CreateTransactionInput{Type: entity.TxnTypeReceipt, ProductID: f.product.ID, Quantity: decp(1), FromWarehouseID: f.wh1.ID, ToWarehouseID: f.wh2.ID}},
		{"entrega con destino", inventory.CreateTransactionInput{Type: entity.TxnTypeDelivery, ProductID: f.product.ID, Quantity: decp(1), FromWarehouseID: f.wh1.ID, ToWarehouseID: f.wh2.ID}},
		{"traslado a la misma bodega", inventory.CreateTransactionInput{Type: entity.TxnTypeInternalTransfer, ProductID: f.product.ID, Quantity: decp(1), FromWarehouseID: f.wh1.ID, ToWarehouseID: f.wh1.ID}},
		{"conteo negativo", inventory.CreateTransactionInput{Type: entity.TxnTypeInternalAdjustment, ProductID: f.product.ID, CountedQty: decp(-1), FromWarehouseID: f.wh1.ID}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.engine.Create(ctx, tc.in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	txns, err := f.store.Transactions().List(ctx, repository.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, txns, "ninguna transacción inválida debe persistirse")
}

// En un ajuste la cantidad con signo sale del conteo; la que llegue en la entrada se ignora.
func TestCreate_AjusteIgnoraCantidadConSigno(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.receive(t, f.wh1, 10)

	txn, err := f.engine.Create(ctx, inventory.CreateTransactionInput{
		Type: entity.TxnTypeInternalAdjustment, ProductID: f.product.ID, Quantity: decp(-3),
		CountedQty: decp(7), FromWarehouseID: f.wh1.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TxnStatusReady, txn.Status)

	_, err = f.engine.Update(ctx, txn.ID, inventory.UpdateTransactionInput{Quantity: decp(0)})
	require.NoError(t, err)

	done, err := f.engine.Validate(ctx, txn.ID)
	require.NoError(t, err)
	assert.True(t, done.Quantity.Equal(dec(-3)), "delta = %s", done.Quantity)
	assert.True(t, f.stockOf(t, f.wh1).OnHand.Equal(dec(7)))
	f.assertConsistent(t)
}

func TestCreateProductWithStock_AltaYRecepcionJuntas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()
	product := &entity.Product{ID: uuid.New().String(), SKU: "NEW-1", Name: "Arandela", UOM: "pcs", CreatedAt: now, UpdatedAt: now}

	txn, err := f.engine.CreateProductWithStock(ctx, product, inventory.CreateTransactionInput{
		Quantity: decp(40), ToWarehouseID: f.wh2.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TxnStatusDone, txn.Status)
	assert.Equal(t, entity.TxnTypeReceipt, txn.Type)
	assert.Equal(t, "WH2/IN/00001", txn.ReferenceNumber)

	s, err := f.store.Stock().Get(ctx, product.ID, f.wh2.ID)
	require.NoError(t, err)
	assert.True(t, s.OnHand.Equal(dec(40)))
	assert.Len(t, f.ledgerFor(t, txn.ID), 1)
	f.assertConsistent(t)
}

func TestCreateProductWithStock_FalloNoDejaNada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()
	newProduct := func() *entity.Product {
		return &entity.Product{ID: uuid.New().String(), SKU: "NEW-2", Name: "Clavo", UOM: "pcs", CreatedAt: now, UpdatedAt: now}
	}

	_, err := f.engine.CreateProductWithStock(ctx, newProduct(), inventory.CreateTransactionInput{
		Quantity: decp(5), ToWarehouseID: uuid.New().String(),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := f.store.Products().GetBySKU(ctx, "NEW-2")
	require.NoError(t, err)
	assert.Nil(t, got, "el producto no debe quedar guardado")
	txns, err := f.store.Transactions().List(ctx, repository.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, txns)

	_, err = f.engine.CreateProductWithStock(ctx, newProduct(), inventory.CreateTransactionInput{
		Quantity: decp(5), ToWarehouseID: f.wh1.ID,
	})
	require.NoError(t, err, "reintentar con una bodega válida funciona")
}

// ──────────────────────────────────────────────────────────────────────────────
// Validate
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_RecepcionSumaOnHandYFreeToUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Saldo (100, 90) con su fila de libro mayor.
	require.NoError(t, f.store.Stock().Upsert(ctx, &entity.StockRecord{
		ProductID: f.product.ID, WarehouseID: f.wh1.ID, OnHand: dec(100), FreeToUse: dec(90),
	}))
	require.NoError(t, f.store.Ledger().Append(ctx, &entity.LedgerEntry{
		ID: uuid.New().String(), TransactionID: uuid.New().String(), ProductID: f.product.ID,
		WarehouseID: f.wh1.ID, QuantityChange: dec(100), CreatedAt: time.Now().UTC(),
	}))

	txn := f.receive(t, f.wh1, 20)

	s := f.stockOf(t, f.wh1)
	assert.True(t, s.OnHand.Equal(dec(120)), "on_hand = %s", s.OnHand)
	assert.True(t, s.FreeToUse.Equal(dec(110)), "free_to_use = %s", s.FreeToUse)
	assert.NotNil(t, txn.CompletionDate)

	entries := f.ledgerFor(t, txn.ID)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].QuantityChange.Equal(dec(20)))
	f.assertConsistent(t)
}

func TestValidate_EntregaSinStockNoMuta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.receive(t, f.wh1, 50)

	txn, err := f.engine.Create(ctx, inventory.CreateTransactionInput{
		Type: entity.TxnTypeDelivery, ProductID: f.product.ID, Quantity: decp(60), FromWarehouseID: f.wh1.ID,
	})
	require.NoError(t, err)

	_, err = f.engine.Validate(ctx, txn.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	s := f.stockOf(t, f.wh1)
	assert.True(t, s.OnHand.Equal(dec(50)))
	assert.True(t, s.FreeToUse.Equal(dec(50)))

	got, err := f.engine.GetTransaction(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TxnStatusReady, got.Status, "la entrega sigue lista tras el fallo")
	assert.Nil(t, got.CompletionDate)
	assert.Empty(t, f.ledgerFor(t, txn.ID))
	f.assertConsistent(t)
}

func TestValidate_EntregaDescuentaStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.receive(t, f.wh1, 50)

	txn, err := f.engine.CreateAndValidate(ctx, inventory.CreateTransactionInput{
		Type: entity.TxnTypeDelivery, ProductID: f.product.ID, Quantity: decp(50), FromWarehouseID: f.wh1.ID,
		DeliveryAddress: "Calle 1",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TxnStatusDone, txn.Status)

	s := f.stockOf(t, f.wh1)
	assert.True(t, s.OnHand.IsZero())
	assert.True(t, s.FreeToUse.IsZero())
	entries := f.ledgerFor(t, txn.ID)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].QuantityChange.Equal(dec(-50)))
	f.assertConsistent(t)
}

func TestValidate_DobleValidacionEsRechazada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	txn := f.receive(t, f.wh1, 10)

	_, err := f.engine.Validate(ctx, txn.ID)
	require.ErrorIs(t, err, domain.ErrAlreadyProcessed)

	assert.True(t, f.stockOf(t, f.wh1).OnHand.Equal(dec(10)), "el segundo intento no debe mutar el stock")
	assert.Len(t, f.ledgerFor(t, txn.ID), 1)
}

func TestValidate_TrasladoMueveStockEntreBodegas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.receive(t, f.wh1, 50)
	f.receive(t, f.wh2, 10)

	txn, err := f.engine.CreateAndValidate(ctx, inventory.CreateTransactionInput{
		Type: entity.TxnTypeInternalTransfer, ProductID: f.product.ID, Quantity: decp(30),
		FromWarehouseID: f.wh1.ID, ToWarehouseID: f.wh2.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TxnStatusDone, txn.Status)

	assert.True(t, f.stockOf(t, f.wh1).OnHand.Equal(dec(20)))
	assert.True(t, f.stockOf(t, f.wh2).OnHand.Equal(dec(40)))

	entries := f.ledgerFor(t, txn.ID)
	require.Len(t, entries, 2)
	changes := map[string]decimal.Decimal{}
	for _, e := range entries {
		assert.Equal(t, txn.ID, e.TransactionID)
		changes[e.WarehouseID] = e.QuantityChange
	}
	assert.True(t, changes[f.wh1.ID].Equal(dec(-30)))
	assert.True(t, changes[f.wh2.ID].Equal(dec(30)))
	f.assertConsistent(t)
}

func TestValidate_TrasladoSinStockNoMutaNingunaBodega(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.receive(t, f.wh1, 5)

	txn, err := f.engine.Create(ctx, inventory.CreateTransactionInput{
		Type: entity.TxnTypeInternalTransfer, ProductID: f.product.ID, Quantity: decp(30),
		FromWarehouseID: f.wh1.ID, ToWarehouseID: f.wh2.ID,
	})
	require.NoError(t, err)

	_, err = f.engine.Validate(ctx, txn.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.stockOf(t, f.wh1).OnHand.Equal(dec(5)))
	assert.True(t, f.stockOf(t, f.wh2).OnHand.IsZero())
	assert.Empty(t, f.ledgerFor(t, txn.ID))
}

func TestValidate_AjusteFijaOnHandAlConteo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.receive(t, f.wh1, 120)

	txn, err := f.engine.CreateAndValidate(ctx, inventory.CreateTransactionInput{
		Type: entity.TxnTypeInternalAdjustment, ProductID: f.product.ID, CountedQty: decp(117), FromWarehouseID: f.wh1.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TxnStatusDone, txn.Status)
	assert.Equal(t, "WH1/ADJ/00001", txn.ReferenceNumber)
	assert.True(t, txn.Quantity.Equal(dec(-3)), "delta = %s", txn.Quantity)
	require.NotNil(t, txn.SystemQty)
	assert.True(t, txn.SystemQty.Equal(dec(120)))

	s := f.stockOf(t, f.wh1)
	assert.True(t, s.OnHand.Equal(dec(117)))
	assert.True(t, s.FreeToUse.Equal(dec(117)))

	entries := f.ledgerFor(t, txn.ID)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].QuantityChange.Equal(dec(-3)))
	f.assertConsistent(t)
}

func TestValidate_AjusteSinRegistroPrevioPartiendoDeCero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	txn, err := f.engine.CreateAndValidate(ctx, inventory.CreateTransactionInput{
		Type: entity.TxnTypeInternalAdjustment, ProductID: f.product.ID, CountedQty: decp(8), FromWarehouseID: f.wh2.ID,
	})
	require.NoError(t, err)
	assert.True(t, txn.Quantity.Equal(dec(8)))
	assert.True(t, f.stockOf(t, f.wh2).OnHand.Equal(dec(8)))
	f.assertConsistent(t)
}

func TestValidate_TransaccionNoListaEsRechazada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	txn, err := f.engine.Create(ctx, inventory.CreateTransactionInput{
		Type: entity.TxnTypeReceipt, ProductID: f.product.ID, ToWarehouseID: f.wh1.ID,
	})
	require.NoError(t, err)
	require.Equal(t, entity.TxnStatusWaiting, txn.Status)

	_, err = f.engine.Validate(ctx, txn.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestValidate_IdDesconocido(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Validate(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.engine.Validate(context.Background(), "no-es-uuid")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// Varias entregas concurrentes sobre el mismo saldo: solo pasan las que caben y nunca queda negativo.
func TestValidate_EntregasConcurrentesNoSobregiran(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.receive(t, f.wh1, 100)

	const n = 10
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		txn, err := f.engine.Create(ctx, inventory.CreateTransactionInput{
			Type: entity.TxnTypeDelivery, ProductID: f.product.ID, Quantity: decp(15), FromWarehouseID: f.wh1.ID,
		})
		require.NoError(t, err)
		ids = append(ids, txn.ID)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, fail int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := f.engine.Validate(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				fail++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 6, ok)
	assert.Equal(t, 4, fail)
	s := f.stockOf(t, f.wh1)
	assert.True(t, s.OnHand.Equal(dec(10)), "on_hand = %s", s.OnHand)
	f.assertConsistent(t)
}

// La misma transacción validada en paralelo se aplica exactamente una vez.
func TestValidate_ConcurrenteMismaTransaccionUnaSolaVez(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	txn, err := f.engine.Create(ctx, inventory.CreateTransactionInput{
		Type: entity.TxnTypeReceipt, ProductID: f.product.ID, Quantity: decp(7), ToWarehouseID: f.wh1.ID,
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.engine.Validate(ctx, txn.ID)
		}(i)
	}
	wg.Wait()

	success := 0
	for _, err := range errs {
		if err == nil {
			success++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
	}
	assert.Equal(t, 1, success)
	assert.True(t, f.stockOf(t, f.wh1).OnHand.Equal(dec(7)))
	assert.Len(t, f.ledgerFor(t, txn.ID), 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancel / Confirm / Update
// ──────────────────────────────────────────────────────────────────────────────

func TestCancel_DesdeEstadosNoTerminales(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, draft := range []bool{true, false} {
		txn, err := f.engine.Create(ctx, inventory.CreateTransactionInput{
			Type: entity.TxnTypeReceipt, ProductID: f.product.ID, Quantity: decp(3), ToWarehouseID: f.wh1.ID, Draft: draft,
		})
		require.NoError(t, err)

		canceled, err := f.engine.Cancel(ctx, txn.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.TxnStatusCanceled, canceled.Status)

		_, err = f.engine.Cancel(ctx, txn.ID)
		assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
		_, err = f.engine.Validate(ctx, txn.ID)
		assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
	}
	assert.True(t, f.stockOf(t, f.wh1).OnHand.IsZero(), "cancelar no toca stock")
}

func TestCancel_TransaccionDoneEsRechazada(t *testing.T) {
	f := newFixture(t)
	txn := f.receive(t, f.wh1, 4)

	_, err := f.engine.Cancel(context.Background(), txn.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
}

func TestConfirm_DraftPasaAReadyOWaiting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	full, err := f.engine.Create(ctx, inventory.CreateTransactionInput{
		Type: entity.TxnTypeReceipt, ProductID: f.product.ID, Quantity: decp(3), ToWarehouseID: f.wh1.ID, Draft: true,
	})
	require.NoError(t, err)
	confirmed, err := f.engine.Confirm(ctx, full.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TxnStatusReady, confirmed.Status)

	partial, err := f.engine.Create(ctx, inventory.CreateTransactionInput{
		Type: entity.TxnTypeReceipt, ProductID: f.product.ID, Draft: true,
	})
	require.NoError(t, err)
	confirmed, err = f.engine.Confirm(ctx, partial.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TxnStatusWaiting, confirmed.Status)

	_, err = f.engine.Confirm(ctx, partial.ID)
	assert.ErrorIs(t, err, domain.ErrValidation, "waiting incompleta no puede confirmarse")
}

func TestUpdate_CompletarPromueveAReady(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	txn, err := f.engine.Create(ctx, inventory.CreateTransactionInput{
		Type: entity.TxnTypeDelivery, ProductID: f.product.ID,
	})
	require.NoError(t, err)
	require.Equal(t, entity.TxnStatusWaiting, txn.Status)

	wh := f.wh2.ID
	addr := "Bodega cliente"
	updated, err := f.engine.Update(ctx, txn.ID, inventory.UpdateTransactionInput{
		Quantity: decp(2), FromWarehouseID: &wh, DeliveryAddress: &addr,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TxnStatusReady, updated.Status)
	assert.Equal(t, addr, updated.DeliveryAddress)
	assert.Equal(t, txn.ReferenceNumber, updated.ReferenceNumber, "la referencia no cambia al editar")

	empty := ""
	updated, err = f.engine.Update(ctx, txn.ID, inventory.UpdateTransactionInput{FromWarehouseID: &empty})
	require.NoError(t, err)
	assert.Equal(t, entity.TxnStatusWaiting, updated.Status, "sin bodega vuelve a waiting")
}

func TestUpdate_RechazaCambiosInvalidosYTerminales(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	txn, err := f.engine.Create(ctx, inventory.CreateTransactionInput{
		Type: entity.TxnTypeReceipt, ProductID: f.product.ID, Quantity: decp(1), ToWarehouseID: f.wh1.ID,
	})
	require.NoError(t, err)

	bogus := uuid.New().String()
	_, err = f.engine.Update(ctx, txn.ID, inventory.UpdateTransactionInput{ToWarehouseID: &bogus})
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := f.engine.GetTransaction(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, f.wh1.ID, got.ToWarehouseID, "un cambio rechazado no se persiste")

	_, err = f.engine.Validate(ctx, txn.ID)
	require.NoError(t, err)
	_, err = f.engine.Update(ctx, txn.ID, inventory.UpdateTransactionInput{Quantity: decp(9)})
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
}
