package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/VriVa/odoo-spit-hack/internal/domain/entity"
	"github.com/VriVa/odoo-spit-hack/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

const ledgerColumns = `id, transaction_id, product_id, warehouse_id, quantity_change, created_at`

// LedgerRepo implementación del libro mayor sobre PostgreSQL. La tabla rechaza UPDATE/DELETE por trigger.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Append inserta una fila del libro mayor.
func (r *LedgerRepo) Append(ctx context.Context, e *entity.LedgerEntry) error {
	query := `INSERT INTO stock_ledger (` + ledgerColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, query, e.ID, e.TransactionID, e.ProductID, e.WarehouseID, e.QuantityChange, e.CreatedAt); err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// List devuelve el historial filtrado, más reciente primero, con paginación.
func (r *LedgerRepo) List(ctx context.Context, filter repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	var w whereBuilder
	if filter.ProductID != "" {
		w.add("product_id = ?", filter.ProductID)
	}
	if filter.WarehouseID != "" {
		w.add("warehouse_id = ?", filter.WarehouseID)
	}
	if filter.TransactionID != "" {
		w.add("transaction_id = ?", filter.TransactionID)
	}
	query := `SELECT ` + ledgerColumns + ` FROM stock_ledger` + w.sql() + ` ORDER BY created_at DESC, id DESC`
	args := w.args
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}
	defer rows.Close()
	var list []*entity.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// BalanceAsOf suma quantity_change hasta asOf inclusive.
func (r *LedgerRepo) BalanceAsOf(ctx context.Context, productID, warehouseID string, asOf time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity_change), 0)
		FROM stock_ledger
		WHERE product_id = $1 AND warehouse_id = $2 AND created_at <= $3`,
		productID, warehouseID, asOf,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ledger balance: %w", err)
	}
	return total, nil
}

// Totals agrupa la suma del libro mayor por producto y bodega.
func (r *LedgerRepo) Totals(ctx context.Context) (map[repository.StockKey]decimal.Decimal, error) {
	rows, err := r.q.Query(ctx, `
		SELECT product_id, warehouse_id, SUM(quantity_change)
		FROM stock_ledger
		GROUP BY product_id, warehouse_id`)
	if err != nil {
		return nil, fmt.Errorf("ledger totals: %w", err)
	}
	defer rows.Close()
	totals := make(map[repository.StockKey]decimal.Decimal)
	for rows.Next() {
		var (
			key   repository.StockKey
			total decimal.Decimal
		)
		if err := rows.Scan(&key.ProductID, &key.WarehouseID, &total); err != nil {
			return nil, fmt.Errorf("scan ledger total: %w", err)
		}
		totals[key] = total
	}
	return totals, rows.Err()
}

func scanLedgerEntry(row pgx.Row) (*entity.LedgerEntry, error) {
	var e entity.LedgerEntry
	if err := row.Scan(&e.ID, &e.TransactionID, &e.ProductID, &e.WarehouseID, &e.QuantityChange, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}
