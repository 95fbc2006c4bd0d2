package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateReceiptRequest parámetros de POST /products/create_receipt (query o JSON).
type CreateReceiptRequest struct {
	ProductID     string           `json:"product_id" query:"product_id" validate:"omitempty,uuid"`
	Supplier      string           `json:"supplier" query:"supplier" validate:"max=200"`
	Quantity      *decimal.Decimal `json:"quantity" query:"quantity"`
	ToWarehouseID string           `json:"to_warehouse_id" query:"to_warehouse_id" validate:"omitempty,uuid"`
	ScheduledDate string           `json:"scheduled_date" query:"scheduled_date"`
	Contact       string           `json:"contact" query:"contact" validate:"max=200"`
	UserID        string           `json:"user_id" query:"user_id"`
	Draft         bool             `json:"draft" query:"draft"`
}

// CreateDeliveryRequest parámetros de POST /products/create_delivery_order.
type CreateDeliveryRequest struct {
	ProductID       string           `json:"product_id" query:"product_id" validate:"omitempty,uuid"`
	Quantity        *decimal.Decimal `json:"quantity" query:"quantity"`
	FromWarehouseID string           `json:"from_warehouse_id" query:"from_warehouse_id" validate:"omitempty,uuid"`
	ScheduledDate   string           `json:"scheduled_date" query:"scheduled_date"`
	DeliveryAddress string           `json:"delivery_address" query:"delivery_address" validate:"max=500"`
	Contact         string           `json:"contact" query:"contact" validate:"max=200"`
	UserID          string           `json:"user_id" query:"user_id"`
	Draft           bool             `json:"draft" query:"draft"`
}

// CreateTransferRequest parámetros de POST /products/create_internal_transfer.
type CreateTransferRequest struct {
	ProductID       string           `json:"product_id" query:"product_id" validate:"omitempty,uuid"`
	Quantity        *decimal.Decimal `json:"quantity" query:"quantity"`
	FromWarehouseID string           `json:"from_warehouse_id" query:"from_warehouse_id" validate:"omitempty,uuid"`
	ToWarehouseID   string           `json:"to_warehouse_id" query:"to_warehouse_id" validate:"omitempty,uuid"`
	ScheduledDate   string           `json:"scheduled_date" query:"scheduled_date"`
	UserID          string           `json:"user_id" query:"user_id"`
	Draft           bool             `json:"draft" query:"draft"`
}

// ProductRef cuerpo JSON de POST /products/adjust_stock (solo se usa el id).
type ProductRef struct {
	ID  string `json:"id" validate:"required,uuid"`
	SKU string `json:"sku"`
}

// AdjustStockQuery parámetros de query de POST /products/adjust_stock.
// Sin draft, el ajuste se valida en la misma llamada.
type AdjustStockQuery struct {
	WarehouseID string           `query:"warehouse_id" validate:"required,uuid"`
	CountedQty  *decimal.Decimal `query:"counted_qty"`
	UserID      string           `query:"user_id"`
	Draft       bool             `query:"draft"`
}

// UpdateTransactionRequest cambios permitidos sobre una transacción no terminal.
type UpdateTransactionRequest struct {
	ProductID       *string          `json:"product_id" validate:"omitempty,uuid"`
	Quantity        *decimal.Decimal `json:"quantity"`
	CountedQty      *decimal.Decimal `json:"counted_qty"`
	FromWarehouseID *string          `json:"from_warehouse_id" validate:"omitempty,uuid"`
	ToWarehouseID   *string          `json:"to_warehouse_id" validate:"omitempty,uuid"`
	Supplier        *string          `json:"supplier" validate:"omitempty,max=200"`
	DeliveryAddress *string          `json:"delivery_address" validate:"omitempty,max=500"`
	Contact         *string          `json:"contact" validate:"omitempty,max=200"`
	ScheduledDate   *string          `json:"scheduled_date"`
}

// TransactionResponse salida de una transacción.
type TransactionResponse struct {
	ID              string           `json:"id"`
	Type            string           `json:"type"`
	Status          string           `json:"status"`
	ProductID       string           `json:"product_id"`
	Quantity        decimal.Decimal  `json:"quantity"`
	CountedQty      *decimal.Decimal `json:"counted_qty,omitempty"`
	SystemQty       *decimal.Decimal `json:"system_qty,omitempty"`
	FromWarehouseID *string          `json:"from_warehouse_id"`
	ToWarehouseID   *string          `json:"to_warehouse_id"`
	Supplier        string           `json:"supplier,omitempty"`
	DeliveryAddress string           `json:"delivery_address,omitempty"`
	Contact         string           `json:"contact,omitempty"`
	ScheduledDate   *time.Time       `json:"scheduled_date"`
	CompletionDate  *time.Time       `json:"completion_date"`
	ReferenceNumber string           `json:"reference_number"`
	CreatedBy       string           `json:"created_by,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// LedgerEntryResponse fila del historial de movimientos.
type LedgerEntryResponse struct {
	ID             string          `json:"id"`
	TransactionID  string          `json:"transaction_id"`
	ProductID      string          `json:"product_id"`
	WarehouseID    string          `json:"warehouse_id"`
	QuantityChange decimal.Decimal `json:"quantity_change"`
	CreatedAt      time.Time       `json:"created_at"`
}

// LedgerQuery filtros de GET /products/ledger.
type LedgerQuery struct {
	ProductID     string `query:"product_id" validate:"omitempty,uuid"`
	WarehouseID   string `query:"warehouse_id" validate:"omitempty,uuid"`
	TransactionID string `query:"transaction_id" validate:"omitempty,uuid"`
	Limit         int    `query:"limit" validate:"omitempty,min=1,max=500"`
	Offset        int    `query:"offset" validate:"omitempty,min=0"`
}

// BalanceResponse saldo histórico de GET /products/balance.
type BalanceResponse struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	AsOf        time.Time       `json:"as_of"`
	Balance     decimal.Decimal `json:"balance"`
}

// ReconcileDivergence par producto/bodega cuyo saldo no coincide con el libro mayor.
type ReconcileDivergence struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	OnHand      decimal.Decimal `json:"on_hand"`
	LedgerSum   decimal.Decimal `json:"ledger_sum"`
}

// ReconcileResponse resultado de GET /products/reconcile.
type ReconcileResponse struct {
	Checked     int                   `json:"checked"`
	Consistent  bool                  `json:"consistent"`
	Divergences []ReconcileDivergence `json:"divergences"`
}
