package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/VriVa/odoo-spit-hack/internal/domain/entity"
)

// LedgerFilter filtros opcionales para el historial de movimientos.
type LedgerFilter struct {
	ProductID     string
	WarehouseID   string
	TransactionID string
	Limit         int
	Offset        int
}

// StockKey identifica un par producto/bodega.
type StockKey struct {
	ProductID   string
	WarehouseID string
}

// LedgerRepository define el puerto del libro mayor de stock (solo inserción).
type LedgerRepository interface {
	Append(ctx context.Context, entry *entity.LedgerEntry) error
	List(ctx context.Context, filter LedgerFilter) ([]*entity.LedgerEntry, error)
	// BalanceAsOf suma quantity_change de las filas con created_at <= asOf.
	BalanceAsOf(ctx context.Context, productID, warehouseID string, asOf time.Time) (decimal.Decimal, error)
	// Totals devuelve la suma de quantity_change por par producto/bodega.
	Totals(ctx context.Context) (map[StockKey]decimal.Decimal, error)
}
