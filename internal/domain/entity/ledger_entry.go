package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry es una fila inmutable del libro mayor de stock.
// QuantityChange es positivo para entradas y negativo para salidas.
type LedgerEntry struct {
	ID             string
	TransactionID  string
	ProductID      string
	WarehouseID    string
	QuantityChange decimal.Decimal
	CreatedAt      time.Time
}
