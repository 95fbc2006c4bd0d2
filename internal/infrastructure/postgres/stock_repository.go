package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/VriVa/odoo-spit-hack/internal/domain"
	"github.com/VriVa/odoo-spit-hack/internal/domain/entity"
	"github.com/VriVa/odoo-spit-hack/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

const stockColumns = `product_id, warehouse_id, on_hand, free_to_use, updated_at`

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el saldo de un producto en una bodega; registro en cero si no existe.
func (r *StockRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.StockRecord, error) {
	query := `SELECT ` + stockColumns + ` FROM stock WHERE product_id = $1 AND warehouse_id = $2`
	s, err := scanStock(r.q.QueryRow(ctx, query, productID, warehouseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.NewStockRecord(productID, warehouseID), nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return s, nil
}

// GetForUpdate bloquea la fila (SELECT FOR UPDATE). Si no existe, primero inserta una fila en cero
// para que también las primeras recepciones sobre el par se serialicen.
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockRecord, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock (product_id, warehouse_id, on_hand, free_to_use, updated_at)
		VALUES ($1, $2, 0, 0, now())
		ON CONFLICT (product_id, warehouse_id) DO NOTHING`,
		productID, warehouseID,
	)
	if err != nil {
		return nil, fmt.Errorf("ensure stock row: %w", err)
	}
	query := `SELECT ` + stockColumns + ` FROM stock WHERE product_id = $1 AND warehouse_id = $2 FOR UPDATE`
	s, err := scanStock(r.q.QueryRow(ctx, query, productID, warehouseID))
	if err != nil {
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return s, nil
}

// Upsert inserta o actualiza el saldo. Los CHECK de la tabla rechazan saldos negativos.
func (r *StockRepo) Upsert(ctx context.Context, stock *entity.StockRecord) error {
	query := `
		INSERT INTO stock (product_id, warehouse_id, on_hand, free_to_use, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET on_hand = EXCLUDED.on_hand, free_to_use = EXCLUDED.free_to_use, updated_at = now()`
	_, err := r.q.Exec(ctx, query, stock.ProductID, stock.WarehouseID, stock.OnHand, stock.FreeToUse)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: saldo inválido en bodega %s", domain.ErrInsufficientStock, stock.WarehouseID)
		}
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// List lista todos los saldos.
func (r *StockRepo) List(ctx context.Context) ([]*entity.StockRecord, error) {
	rows, err := r.q.Query(ctx, `SELECT `+stockColumns+` FROM stock ORDER BY product_id, warehouse_id`)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockRecord
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// CountLowStock cuenta saldos con free_to_use <= threshold.
func (r *StockRepo) CountLowStock(ctx context.Context, threshold decimal.Decimal) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM stock WHERE free_to_use <= $1`, threshold).Scan(&n); err != nil {
		return 0, fmt.Errorf("count low stock: %w", err)
	}
	return n, nil
}

func scanStock(row pgx.Row) (*entity.StockRecord, error) {
	var s entity.StockRecord
	if err := row.Scan(&s.ProductID, &s.WarehouseID, &s.OnHand, &s.FreeToUse, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
