package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario (multi-bodega).
// El stock se maneja por bodega en StockRecord; UnitCost solo cambia por actualización explícita.
type Product struct {
	ID        string
	SKU       string // código único
	Name      string
	Category  string
	UOM       string // unidad de medida (kg, pcs, ...)
	UnitCost  decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
