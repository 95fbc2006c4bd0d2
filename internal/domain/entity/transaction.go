package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción de inventario.
const (
	TxnTypeReceipt            = "receipt"             // entrada desde proveedor
	TxnTypeDelivery           = "delivery"            // salida a cliente
	TxnTypeInternalTransfer   = "internal_transfer"   // traslado entre bodegas
	TxnTypeInternalAdjustment = "internal_adjustment" // conteo físico
)

// Estados del ciclo de vida. done y canceled son terminales.
const (
	TxnStatusDraft    = "draft"
	TxnStatusWaiting  = "waiting"
	TxnStatusReady    = "ready"
	TxnStatusDone     = "done"
	TxnStatusCanceled = "canceled"
)

// Transaction representa una operación de inventario (recepción, entrega, traslado o ajuste).
// Para ajustes, CountedQty es la cantidad contada y Quantity el delta (contado - sistema).
type Transaction struct {
	ID              string
	Type            string
	Status          string
	ProductID       string
	Quantity        decimal.Decimal
	CountedQty      *decimal.Decimal
	SystemQty       *decimal.Decimal
	FromWarehouseID string
	ToWarehouseID   string
	Supplier        string
	DeliveryAddress string
	Contact         string
	ScheduledDate   *time.Time
	CompletionDate  *time.Time
	ReferenceNumber string
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsValidTxnType indica si t es un tipo de transacción conocido.
func IsValidTxnType(t string) bool {
	switch t {
	case TxnTypeReceipt, TxnTypeDelivery, TxnTypeInternalTransfer, TxnTypeInternalAdjustment:
		return true
	}
	return false
}

// IsValidTxnStatus indica si s es un estado conocido.
func IsValidTxnStatus(s string) bool {
	switch s {
	case TxnStatusDraft, TxnStatusWaiting, TxnStatusReady, TxnStatusDone, TxnStatusCanceled:
		return true
	}
	return false
}

// IsTerminal indica si la transacción ya no admite cambios.
func (t *Transaction) IsTerminal() bool {
	return t.Status == TxnStatusDone || t.Status == TxnStatusCanceled
}

// IsComplete indica si producto, bodega(s) y cantidad están presentes según el tipo.
func (t *Transaction) IsComplete() bool {
	if t.ProductID == "" {
		return false
	}
	switch t.Type {
	case TxnTypeReceipt:
		return t.ToWarehouseID != "" && t.Quantity.IsPositive()
	case TxnTypeDelivery:
		return t.FromWarehouseID != "" && t.Quantity.IsPositive()
	case TxnTypeInternalTransfer:
		return t.FromWarehouseID != "" && t.ToWarehouseID != "" && t.Quantity.IsPositive()
	case TxnTypeInternalAdjustment:
		return t.FromWarehouseID != "" && t.CountedQty != nil
	}
	return false
}

// WarehouseIDs devuelve las bodegas que toca la transacción.
func (t *Transaction) WarehouseIDs() []string {
	var ids []string
	if t.FromWarehouseID != "" {
		ids = append(ids, t.FromWarehouseID)
	}
	if t.ToWarehouseID != "" {
		ids = append(ids, t.ToWarehouseID)
	}
	return ids
}

// ReferenceWarehouseID es la bodega cuyo código prefija la referencia.
func (t *Transaction) ReferenceWarehouseID() string {
	if t.Type == TxnTypeReceipt {
		return t.ToWarehouseID
	}
	return t.FromWarehouseID
}
