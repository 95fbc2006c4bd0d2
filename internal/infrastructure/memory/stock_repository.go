package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/VriVa/odoo-spit-hack/internal/domain"
	"github.com/VriVa/odoo-spit-hack/internal/domain/entity"
	"github.com/VriVa/odoo-spit-hack/internal/domain/repository"
)

var (
	_ repository.StockRepository  = (*StockRepo)(nil)
	_ repository.LedgerRepository = (*LedgerRepo)(nil)
)

// StockRepo saldos en memoria.
type StockRepo struct{ v *view }

// Get devuelve un registro en cero si no existe.
func (r *StockRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.StockRecord, error) {
	var out *entity.StockRecord
	err := r.v.do(ctx, func(st *state) error {
		key := repository.StockKey{ProductID: productID, WarehouseID: warehouseID}
		if rec, ok := st.stock[key]; ok {
			out = &rec
			return nil
		}
		out = entity.NewStockRecord(productID, warehouseID)
		return nil
	})
	return out, err
}

// GetForUpdate igual que Get: dentro de Run el mutex del Store ya da exclusión.
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockRecord, error) {
	return r.Get(ctx, productID, warehouseID)
}

// Upsert rechaza saldos negativos o free_to_use > on_hand.
func (r *StockRepo) Upsert(ctx context.Context, stock *entity.StockRecord) error {
	if !stock.Valid() {
		return fmt.Errorf("%w: saldo inválido (on_hand %s, free_to_use %s)", domain.ErrInsufficientStock, stock.OnHand, stock.FreeToUse)
	}
	return r.v.do(ctx, func(st *state) error {
		rec := *stock
		if rec.UpdatedAt.IsZero() {
			rec.UpdatedAt = time.Now().UTC()
		}
		st.stock[repository.StockKey{ProductID: rec.ProductID, WarehouseID: rec.WarehouseID}] = rec
		return nil
	})
}

// List ordena por producto y bodega.
func (r *StockRepo) List(ctx context.Context) ([]*entity.StockRecord, error) {
	var out []*entity.StockRecord
	err := r.v.do(ctx, func(st *state) error {
		out = make([]*entity.StockRecord, 0, len(st.stock))
		for _, rec := range st.stock {
			rec := rec
			out = append(out, &rec)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].WarehouseID < out[j].WarehouseID
	})
	return out, err
}

// CountLowStock cuenta registros con free_to_use <= threshold.
func (r *StockRepo) CountLowStock(ctx context.Context, threshold decimal.Decimal) (int, error) {
	n := 0
	err := r.v.do(ctx, func(st *state) error {
		for _, rec := range st.stock {
			if rec.FreeToUse.LessThanOrEqual(threshold) {
				n++
			}
		}
		return nil
	})
	return n, err
}

// LedgerRepo libro mayor en memoria. No expone ninguna operación de modificación o borrado.
type LedgerRepo struct{ v *view }

// Append agrega una fila al final.
func (r *LedgerRepo) Append(ctx context.Context, entry *entity.LedgerEntry) error {
	return r.v.do(ctx, func(st *state) error {
		st.ledger = append(st.ledger, *entry)
		return nil
	})
}

// List filtra y devuelve las filas más recientes primero.
func (r *LedgerRepo) List(ctx context.Context, filter repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	err := r.v.do(ctx, func(st *state) error {
		for i := len(st.ledger) - 1; i >= 0; i-- {
			e := st.ledger[i]
			if filter.ProductID != "" && e.ProductID != filter.ProductID {
				continue
			}
			if filter.WarehouseID != "" && e.WarehouseID != filter.WarehouseID {
				continue
			}
			if filter.TransactionID != "" && e.TransactionID != filter.TransactionID {
				continue
			}
			out = append(out, &e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Orden estable por fecha descendente; ante empate se conserva el orden inverso de inserción.
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return []*entity.LedgerEntry{}, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// BalanceAsOf suma quantity_change de las filas con created_at <= asOf.
func (r *LedgerRepo) BalanceAsOf(ctx context.Context, productID, warehouseID string, asOf time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	err := r.v.do(ctx, func(st *state) error {
		for _, e := range st.ledger {
			if e.ProductID == productID && e.WarehouseID == warehouseID && !e.CreatedAt.After(asOf) {
				sum = sum.Add(e.QuantityChange)
			}
		}
		return nil
	})
	return sum, err
}

// Totals suma por par producto/bodega.
func (r *LedgerRepo) Totals(ctx context.Context) (map[repository.StockKey]decimal.Decimal, error) {
	out := make(map[repository.StockKey]decimal.Decimal)
	err := r.v.do(ctx, func(st *state) error {
		for _, e := range st.ledger {
			key := repository.StockKey{ProductID: e.ProductID, WarehouseID: e.WarehouseID}
			out[key] = out[key].Add(e.QuantityChange)
		}
		return nil
	})
	return out, err
}
