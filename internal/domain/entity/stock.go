package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockRecord es el saldo materializado de un producto en una bodega.
// Debe coincidir con la suma del libro mayor; 0 <= FreeToUse <= OnHand en reposo.
type StockRecord struct {
	ProductID   string
	WarehouseID string
	OnHand      decimal.Decimal
	FreeToUse   decimal.Decimal
	UpdatedAt   time.Time
}

// NewStockRecord devuelve un registro en cero para el par producto/bodega.
func NewStockRecord(productID, warehouseID string) *StockRecord {
	return &StockRecord{
		ProductID:   productID,
		WarehouseID: warehouseID,
		OnHand:      decimal.Zero,
		FreeToUse:   decimal.Zero,
	}
}

// Valid indica si el registro cumple 0 <= FreeToUse <= OnHand.
func (s *StockRecord) Valid() bool {
	return !s.FreeToUse.IsNegative() && !s.OnHand.IsNegative() && s.FreeToUse.LessThanOrEqual(s.OnHand)
}
