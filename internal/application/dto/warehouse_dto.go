package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateWarehouseRequest entrada para crear una bodega.
type CreateWarehouseRequest struct {
	Name      string           `json:"name" validate:"required,min=1,max=200"`
	ShortCode string           `json:"short_code" validate:"required,alphanum,max=10"`
	Address   string           `json:"address"`
	Capacity  *decimal.Decimal `json:"capacity"`
}

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	ShortCode string           `json:"short_code"`
	Address   string           `json:"address"`
	Capacity  *decimal.Decimal `json:"capacity"`
	CreatedAt time.Time        `json:"created_at"`
}
