package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// Si WarehouseID viene informado, Quantity se registra como stock inicial (recepción validada).
type CreateProductRequest struct {
	SKU         string          `json:"sku" validate:"required,min=1,max=100"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Category    string          `json:"category" validate:"max=100"`
	UOM         string          `json:"uom" validate:"max=20"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	WarehouseID string          `json:"warehouse_id" query:"warehouse_id" validate:"omitempty,uuid"`
	Quantity    decimal.Decimal `json:"quantity" query:"quantity"`
	UserID      string          `json:"user_id" query:"user_id"`
}

// UpdateCostRequest entrada para actualizar el costo unitario.
type UpdateCostRequest struct {
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID        string          `json:"id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	UOM       string          `json:"uom"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// StockResponse saldo de un producto en una bodega.
type StockResponse struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	OnHand      decimal.Decimal `json:"on_hand"`
	FreeToUse   decimal.Decimal `json:"free_to_use"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductStockListing respuesta de GET /products/: se serializa como [productos, stock].
type ProductStockListing struct {
	Products []ProductResponse
	Stock    []StockResponse
}

// MarshalJSON serializa el listado como arreglo de dos elementos, como lo consume el cliente web.
func (l ProductStockListing) MarshalJSON() ([]byte, error) {
	products := l.Products
	if products == nil {
		products = []ProductResponse{}
	}
	stock := l.Stock
	if stock == nil {
		stock = []StockResponse{}
	}
	return marshalPair(products, stock)
}

// UnmarshalJSON lee el arreglo [productos, stock].
func (l *ProductStockListing) UnmarshalJSON(data []byte) error {
	return unmarshalPair(data, &l.Products, &l.Stock)
}

// CreateProductResponse producto creado más su stock inicial (si aplica).
type CreateProductResponse struct {
	Product ProductResponse `json:"product"`
	Stock   *StockResponse  `json:"stock,omitempty"`
}
