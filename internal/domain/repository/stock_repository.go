package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/VriVa/odoo-spit-hack/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar stock por bodega+producto.
// Get y GetForUpdate devuelven un registro en cero si no existe.
type StockRepository interface {
	Get(ctx context.Context, productID, warehouseID string) (*entity.StockRecord, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockRecord, error)
	Upsert(ctx context.Context, stock *entity.StockRecord) error
	List(ctx context.Context) ([]*entity.StockRecord, error)
	CountLowStock(ctx context.Context, threshold decimal.Decimal) (int, error)
}
