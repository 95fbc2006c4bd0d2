package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Warehouse representa una bodega donde se almacena inventario.
type Warehouse struct {
	ID        string
	Name      string
	ShortCode string // prefijo de las referencias (WH1/IN/00001)
	Address   string
	Capacity  *decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
