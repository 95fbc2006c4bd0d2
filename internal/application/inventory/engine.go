package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/VriVa/odoo-spit-hack/internal/domain"
	"github.com/VriVa/odoo-spit-hack/internal/domain/entity"
	domaininv "github.com/VriVa/odoo-spit-hack/internal/domain/inventory"
	"github.com/VriVa/odoo-spit-hack/internal/domain/repository"
)

// Engine motor de transacciones de inventario: crea, edita, confirma, valida y cancela.
// Validate es el único punto donde cambian stock y libro mayor; todo ocurre dentro de TxRunner.Run
// con bloqueo de filas (SELECT FOR UPDATE) y Commit/Rollback.
type Engine struct {
	txRunner TxRunner
	txnRepo  repository.TransactionRepository
	cache    CatalogCache
	log      zerolog.Logger
	now      func() time.Time
}

// NewEngine construye el motor. cache puede ser nil.
func NewEngine(txRunner TxRunner, txnRepo repository.TransactionRepository, cache CatalogCache, log zerolog.Logger) *Engine {
	if cache == nil {
		cache = NopCatalogCache{}
	}
	return &Engine{
		txRunner: txRunner,
		txnRepo:  txnRepo,
		cache:    cache,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateTransactionInput entrada para crear una transacción.
// Quantity nil significa "aún sin cantidad" (la transacción queda en waiting).
type CreateTransactionInput struct {
	Type            string
	ProductID       string
	Quantity        *decimal.Decimal
	CountedQty      *decimal.Decimal // solo ajustes
	FromWarehouseID string
	ToWarehouseID   string
	Supplier        string
	DeliveryAddress string
	Contact         string
	ScheduledDate   *time.Time
	CreatedBy       string
	Draft           bool
}

// UpdateTransactionInput cambios parciales; nil = sin cambio, "" en una bodega la limpia.
type UpdateTransactionInput struct {
	ProductID       *string
	Quantity        *decimal.Decimal
	CountedQty      *decimal.Decimal
	FromWarehouseID *string
	ToWarehouseID   *string
	Supplier        *string
	DeliveryAddress *string
	Contact         *string
	ScheduledDate   *time.Time
}

// Create valida campos según el tipo, genera la referencia y persiste la transacción
// en draft (si se pide), ready (si está completa) o waiting.
func (e *Engine) Create(ctx context.Context, in CreateTransactionInput) (*entity.Transaction, error) {
	txn, err := e.newTransaction(in)
	if err != nil {
		return nil, err
	}
	err = e.txRunner.Run(ctx, func(repos Repos) error {
		return insertTransaction(ctx, repos, txn, in.Draft)
	})
	if err != nil {
		return nil, err
	}
	e.log.Debug().Str("reference", txn.ReferenceNumber).Str("type", txn.Type).Str("status", txn.Status).Msg("transacción creada")
	return txn, nil
}

// CreateProductWithStock da de alta el producto y registra su stock inicial como una recepción
// validada, todo en la misma tx: si la recepción falla el producto tampoco queda guardado.
func (e *Engine) CreateProductWithStock(ctx context.Context, product *entity.Product, in CreateTransactionInput) (*entity.Transaction, error) {
	in.Type = entity.TxnTypeReceipt
	in.ProductID = product.ID
	in.Draft = false
	txn, err := e.newTransaction(in)
	if err != nil {
		return nil, err
	}
	now := e.now()
	err = e.txRunner.Run(ctx, func(repos Repos) error {
		if err := repos.Products.Create(ctx, product); err != nil {
			return err
		}
		if err := insertTransaction(ctx, repos, txn, false); err != nil {
			return err
		}
		if txn.Status != entity.TxnStatusReady {
			return fmt.Errorf("%w: el stock inicial requiere bodega y cantidad", domain.ErrValidation)
		}
		return e.apply(ctx, repos, txn, now)
	})
	if err != nil {
		return nil, err
	}
	e.cache.Invalidate(ctx)
	e.log.Info().Str("sku", product.SKU).Str("reference", txn.ReferenceNumber).Str("quantity", txn.Quantity.String()).Msg("producto creado con stock inicial")
	return txn, nil
}

// newTransaction arma la transacción sin persistirla. En un ajuste Quantity se ignora:
// el delta con signo se calcula al validar a partir de la cantidad contada.
func (e *Engine) newTransaction(in CreateTransactionInput) (*entity.Transaction, error) {
	if !entity.IsValidTxnType(in.Type) {
		return nil, fmt.Errorf("%w: tipo de transacción %q", domain.ErrValidation, in.Type)
	}
	adjustment := in.Type == entity.TxnTypeInternalAdjustment
	if in.Quantity != nil && !adjustment && !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrValidation)
	}
	now := e.now()
	txn := &entity.Transaction{
		ID:              uuid.New().String(),
		Type:            in.Type,
		ProductID:       in.ProductID,
		Quantity:        decimal.Zero,
		CountedQty:      in.CountedQty,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Supplier:        in.Supplier,
		DeliveryAddress: in.DeliveryAddress,
		Contact:         in.Contact,
		ScheduledDate:   in.ScheduledDate,
		CreatedBy:       in.CreatedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.Quantity != nil && !adjustment {
		txn.Quantity = *in.Quantity
	}
	return txn, nil
}

// insertTransaction valida la transacción contra los repositorios de la tx, fija su estado,
// genera la referencia y la guarda.
func insertTransaction(ctx context.Context, repos Repos, txn *entity.Transaction, draft bool) error {
	refWh, err := checkTransaction(ctx, repos, txn)
	if err != nil {
		return err
	}
	switch {
	case draft:
		txn.Status = entity.TxnStatusDraft
	case txn.IsComplete():
		txn.Status = entity.TxnStatusReady
	default:
		txn.Status = entity.TxnStatusWaiting
	}

	shortCode := ""
	if refWh != nil {
		shortCode = refWh.ShortCode
	}
	key := domaininv.SequenceKey(shortCode, txn.Type)
	seq, err := repos.Transactions.NextSequence(ctx, key)
	if err != nil {
		return err
	}
	txn.ReferenceNumber = domaininv.FormatReference(key, seq)
	return repos.Transactions.Create(ctx, txn)
}

// Update aplica cambios a una transacción no terminal. waiting pasa a ready si queda completa
// y ready vuelve a waiting si deja de estarlo; draft se mantiene hasta Confirm.
func (e *Engine) Update(ctx context.Context, id string, in UpdateTransactionInput) (*entity.Transaction, error) {
	var out *entity.Transaction
	err := e.txRunner.Run(ctx, func(repos Repos) error {
		txn, err := lockTransaction(ctx, repos, id)
		if err != nil {
			return err
		}
		if txn.IsTerminal() {
			return fmt.Errorf("%w: %s está %s", domain.ErrAlreadyProcessed, txn.ReferenceNumber, txn.Status)
		}
		if in.Quantity != nil && txn.Type != entity.TxnTypeInternalAdjustment && !in.Quantity.IsPositive() {
			return fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrValidation)
		}
		if in.ProductID != nil {
			txn.ProductID = *in.ProductID
		}
		if in.Quantity != nil && txn.Type != entity.TxnTypeInternalAdjustment {
			txn.Quantity = *in.Quantity
		}
		if in.CountedQty != nil {
			txn.CountedQty = in.CountedQty
		}
		if in.FromWarehouseID != nil {
			txn.FromWarehouseID = *in.FromWarehouseID
		}
		if in.ToWarehouseID != nil {
			txn.ToWarehouseID = *in.ToWarehouseID
		}
		if in.Supplier != nil {
			txn.Supplier = *in.Supplier
		}
		if in.DeliveryAddress != nil {
			txn.DeliveryAddress = *in.DeliveryAddress
		}
		if in.Contact != nil {
			txn.Contact = *in.Contact
		}
		if in.ScheduledDate != nil {
			txn.ScheduledDate = in.ScheduledDate
		}
		if _, err := checkTransaction(ctx, repos, txn); err != nil {
			return err
		}
		switch {
		case txn.Status == entity.TxnStatusWaiting && txn.IsComplete():
			txn.Status = entity.TxnStatusReady
		case txn.Status == entity.TxnStatusReady && !txn.IsComplete():
			txn.Status = entity.TxnStatusWaiting
		}
		txn.UpdatedAt = e.now()
		if err := repos.Transactions.Update(ctx, txn); err != nil {
			return err
		}
		out = txn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Confirm saca una transacción de draft: ready si está completa, waiting si no.
// Sobre waiting exige que esté completa; sobre ready no hace nada.
func (e *Engine) Confirm(ctx context.Context, id string) (*entity.Transaction, error) {
	var out *entity.Transaction
	err := e.txRunner.Run(ctx, func(repos Repos) error {
		txn, err := lockTransaction(ctx, repos, id)
		if err != nil {
			return err
		}
		switch txn.Status {
		case entity.TxnStatusDone, entity.TxnStatusCanceled:
			return fmt.Errorf("%w: %s está %s", domain.ErrAlreadyProcessed, txn.ReferenceNumber, txn.Status)
		case entity.TxnStatusReady:
			out = txn
			return nil
		case entity.TxnStatusDraft:
			txn.Status = entity.TxnStatusWaiting
			if txn.IsComplete() {
				txn.Status = entity.TxnStatusReady
			}
		case entity.TxnStatusWaiting:
			if !txn.IsComplete() {
				return fmt.Errorf("%w: faltan producto, bodega o cantidad", domain.ErrValidation)
			}
			txn.Status = entity.TxnStatusReady
		}
		txn.UpdatedAt = e.now()
		if err := repos.Transactions.Update(ctx, txn); err != nil {
			return err
		}
		out = txn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Validate pasa una transacción de ready a done aplicando su efecto sobre stock y libro mayor.
// Si falla (p. ej. stock insuficiente) no queda ninguna escritura y el estado no cambia.
// Validar una transacción done o canceled devuelve ErrAlreadyProcessed.
func (e *Engine) Validate(ctx context.Context, id string) (*entity.Transaction, error) {
	var out *entity.Transaction
	err := e.txRunner.Run(ctx, func(repos Repos) error {
		// Bloquea primero la transacción: dos validaciones concurrentes se serializan aquí.
		txn, err := lockTransaction(ctx, repos, id)
		if err != nil {
			return err
		}
		if err := e.apply(ctx, repos, txn, e.now()); err != nil {
			return err
		}
		out = txn
		return nil
	})
	if err != nil {
		e.log.Warn().Err(err).Str("transaction_id", id).Msg("validación rechazada")
		return nil, err
	}
	e.cache.Invalidate(ctx)
	e.log.Info().
		Str("reference", out.ReferenceNumber).
		Str("type", out.Type).
		Str("quantity", out.Quantity.String()).
		Msg("transacción validada")
	return out, nil
}

// Cancel pasa a canceled una transacción en draft, waiting o ready. No toca stock.
func (e *Engine) Cancel(ctx context.Context, id string) (*entity.Transaction, error) {
	var out *entity.Transaction
	err := e.txRunner.Run(ctx, func(repos Repos) error {
		txn, err := lockTransaction(ctx, repos, id)
		if err != nil {
			return err
		}
		if txn.IsTerminal() {
			return fmt.Errorf("%w: %s está %s", domain.ErrAlreadyProcessed, txn.ReferenceNumber, txn.Status)
		}
		txn.Status = entity.TxnStatusCanceled
		txn.UpdatedAt = e.now()
		if err := repos.Transactions.Update(ctx, txn); err != nil {
			return err
		}
		out = txn
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info().Str("reference", out.ReferenceNumber).Msg("transacción cancelada")
	return out, nil
}

// CreateAndValidate crea la transacción y, si queda ready, la valida de inmediato.
// Si la validación falla, la transacción queda creada en ready y se devuelve el error.
func (e *Engine) CreateAndValidate(ctx context.Context, in CreateTransactionInput) (*entity.Transaction, error) {
	txn, err := e.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	if txn.Status != entity.TxnStatusReady {
		return txn, nil
	}
	return e.Validate(ctx, txn.ID)
}

// GetTransaction obtiene una transacción por ID.
func (e *Engine) GetTransaction(ctx context.Context, id string) (*entity.Transaction, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: id de transacción %q", domain.ErrValidation, id)
	}
	txn, err := e.txnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, domain.ErrNotFound
	}
	return txn, nil
}

// ── efectos sobre stock ──────────────────────────────────────────────────────

// apply lleva una transacción ready a done dentro de la tx: mueve stock, agrega el libro mayor
// y guarda el nuevo estado.
func (e *Engine) apply(ctx context.Context, repos Repos, txn *entity.Transaction, now time.Time) error {
	if txn.IsTerminal() {
		return fmt.Errorf("%w: %s está %s", domain.ErrAlreadyProcessed, txn.ReferenceNumber, txn.Status)
	}
	if txn.Status != entity.TxnStatusReady {
		return fmt.Errorf("%w: %s no está lista (estado %s)", domain.ErrValidation, txn.ReferenceNumber, txn.Status)
	}
	var err error
	switch txn.Type {
	case entity.TxnTypeReceipt:
		err = e.applyReceipt(ctx, repos, txn, now)
	case entity.TxnTypeDelivery:
		err = e.applyDelivery(ctx, repos, txn, now)
	case entity.TxnTypeInternalTransfer:
		err = e.applyTransfer(ctx, repos, txn, now)
	case entity.TxnTypeInternalAdjustment:
		err = e.applyAdjustment(ctx, repos, txn, now)
	default:
		err = fmt.Errorf("%w: tipo de transacción %q", domain.ErrValidation, txn.Type)
	}
	if err != nil {
		return err
	}
	txn.Status = entity.TxnStatusDone
	txn.CompletionDate = &now
	txn.UpdatedAt = now
	return repos.Transactions.Update(ctx, txn)
}

func (e *Engine) applyReceipt(ctx context.Context, repos Repos, txn *entity.Transaction, now time.Time) error {
	stock, err := repos.Stock.GetForUpdate(ctx, txn.ProductID, txn.ToWarehouseID)
	if err != nil {
		return err
	}
	domaininv.ApplyReceipt(stock, txn.Quantity)
	return writeStock(ctx, repos, txn, stock, txn.Quantity, now)
}

func (e *Engine) applyDelivery(ctx context.Context, repos Repos, txn *entity.Transaction, now time.Time) error {
	stock, err := repos.Stock.GetForUpdate(ctx, txn.ProductID, txn.FromWarehouseID)
	if err != nil {
		return err
	}
	if err := domaininv.ApplyDelivery(stock, txn.Quantity); err != nil {
		return err
	}
	return writeStock(ctx, repos, txn, stock, txn.Quantity.Neg(), now)
}

// applyTransfer: salida en origen y entrada en destino en la misma tx.
// Las dos filas se bloquean en orden ascendente de bodega para evitar deadlocks.
func (e *Engine) applyTransfer(ctx context.Context, repos Repos, txn *entity.Transaction, now time.Time) error {
	ids := []string{txn.FromWarehouseID, txn.ToWarehouseID}
	sort.Strings(ids)
	locked := make(map[string]*entity.StockRecord, 2)
	for _, whID := range ids {
		stock, err := repos.Stock.GetForUpdate(ctx, txn.ProductID, whID)
		if err != nil {
			return err
		}
		locked[whID] = stock
	}
	origin, dest := locked[txn.FromWarehouseID], locked[txn.ToWarehouseID]
	if err := domaininv.ApplyDelivery(origin, txn.Quantity); err != nil {
		return err
	}
	domaininv.ApplyReceipt(dest, txn.Quantity)
	if err := writeStock(ctx, repos, txn, origin, txn.Quantity.Neg(), now); err != nil {
		return err
	}
	return writeStock(ctx, repos, txn, dest, txn.Quantity, now)
}

// applyAdjustment: on_hand = contado; el delta (contado - sistema) queda en Quantity y en el libro mayor.
func (e *Engine) applyAdjustment(ctx context.Context, repos Repos, txn *entity.Transaction, now time.Time) error {
	if txn.CountedQty == nil {
		return fmt.Errorf("%w: falta la cantidad contada", domain.ErrValidation)
	}
	stock, err := repos.Stock.GetForUpdate(ctx, txn.ProductID, txn.FromWarehouseID)
	if err != nil {
		return err
	}
	delta, system := domaininv.ApplyAdjustment(stock, *txn.CountedQty)
	txn.Quantity = delta
	txn.SystemQty = &system
	return writeStock(ctx, repos, txn, stock, delta, now)
}

// writeStock persiste el saldo y agrega su fila al libro mayor.
func writeStock(ctx context.Context, repos Repos, txn *entity.Transaction, stock *entity.StockRecord, change decimal.Decimal, now time.Time) error {
	if !stock.Valid() {
		return fmt.Errorf("%w: saldo inválido en bodega %s", domain.ErrInsufficientStock, stock.WarehouseID)
	}
	stock.UpdatedAt = now
	if err := repos.Stock.Upsert(ctx, stock); err != nil {
		return err
	}
	return repos.Ledger.Append(ctx, &entity.LedgerEntry{
		ID:             uuid.New().String(),
		TransactionID:  txn.ID,
		ProductID:      txn.ProductID,
		WarehouseID:    stock.WarehouseID,
		QuantityChange: change,
		CreatedAt:      now,
	})
}

// ── validaciones ─────────────────────────────────────────────────────────────

func lockTransaction(ctx context.Context, repos Repos, id string) (*entity.Transaction, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: id de transacción %q", domain.ErrValidation, id)
	}
	txn, err := repos.Transactions.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, domain.ErrNotFound
	}
	return txn, nil
}

// checkTransaction valida la forma de la transacción según su tipo y que producto y bodegas existan.
// Devuelve la bodega cuyo código prefija la referencia (nil si aún no hay).
func checkTransaction(ctx context.Context, repos Repos, txn *entity.Transaction) (*entity.Warehouse, error) {
	switch txn.Type {
	case entity.TxnTypeReceipt:
		if txn.FromWarehouseID != "" {
			return nil, fmt.Errorf("%w: una recepción no tiene bodega de origen", domain.ErrValidation)
		}
	case entity.TxnTypeDelivery:
		if txn.ToWarehouseID != "" {
			return nil, fmt.Errorf("%w: una entrega no tiene bodega de destino", domain.ErrValidation)
		}
	case entity.TxnTypeInternalTransfer:
		if txn.FromWarehouseID != "" && txn.FromWarehouseID == txn.ToWarehouseID {
			return nil, fmt.Errorf("%w: origen y destino deben ser distintos", domain.ErrValidation)
		}
	case entity.TxnTypeInternalAdjustment:
		if txn.ToWarehouseID != "" {
			return nil, fmt.Errorf("%w: un ajuste solo usa from_warehouse_id", domain.ErrValidation)
		}
		if txn.CountedQty != nil && txn.CountedQty.IsNegative() {
			return nil, fmt.Errorf("%w: la cantidad contada no puede ser negativa", domain.ErrValidation)
		}
	}
	if txn.Type != entity.TxnTypeInternalAdjustment && txn.Quantity.IsNegative() {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrValidation)
	}

	if txn.ProductID != "" {
		if _, err := uuid.Parse(txn.ProductID); err != nil {
			return nil, fmt.Errorf("%w: product_id %q", domain.ErrValidation, txn.ProductID)
		}
		p, err := repos.Products.GetByID(ctx, txn.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: el producto %s no existe", domain.ErrValidation, txn.ProductID)
		}
	}

	var refWh *entity.Warehouse
	for _, whID := range txn.WarehouseIDs() {
		if _, err := uuid.Parse(whID); err != nil {
			return nil, fmt.Errorf("%w: warehouse_id %q", domain.ErrValidation, whID)
		}
		w, err := repos.Warehouses.GetByID(ctx, whID)
		if err != nil {
			return nil, err
		}
		if w == nil {
			return nil, fmt.Errorf("%w: la bodega %s no existe", domain.ErrValidation, whID)
		}
		if whID == txn.ReferenceWarehouseID() {
			refWh = w
		}
	}
	return refWh, nil
}
