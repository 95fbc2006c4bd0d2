// Package inventory contiene la aritmética de stock (servicios de dominio puros).
// No toca persistencia: recibe un StockRecord ya bloqueado y lo muta en memoria.
package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/VriVa/odoo-spit-hack/internal/domain"
	"github.com/VriVa/odoo-spit-hack/internal/domain/entity"
)

// ApplyReceipt suma qty a OnHand y FreeToUse.
func ApplyReceipt(stock *entity.StockRecord, qty decimal.Decimal) {
	stock.OnHand = stock.OnHand.Add(qty)
	stock.FreeToUse = stock.FreeToUse.Add(qty)
}

// ApplyDelivery resta qty de OnHand y FreeToUse.
// Falla con ErrInsufficientStock si FreeToUse < qty; en ese caso stock no cambia.
func ApplyDelivery(stock *entity.StockRecord, qty decimal.Decimal) error {
	if stock.FreeToUse.LessThan(qty) {
		return fmt.Errorf("%w: disponible %s, solicitado %s", domain.ErrInsufficientStock, stock.FreeToUse, qty)
	}
	stock.OnHand = stock.OnHand.Sub(qty)
	stock.FreeToUse = stock.FreeToUse.Sub(qty)
	return nil
}

// ApplyAdjustment fija OnHand = counted y devuelve (delta, system) con delta = counted - system.
// FreeToUse se mueve por el mismo delta, acotado a [0, OnHand].
func ApplyAdjustment(stock *entity.StockRecord, counted decimal.Decimal) (delta, system decimal.Decimal) {
	system = stock.OnHand
	delta = counted.Sub(system)
	stock.OnHand = counted
	free := stock.FreeToUse.Add(delta)
	if free.IsNegative() {
		free = decimal.Zero
	}
	if free.GreaterThan(counted) {
		free = counted
	}
	stock.FreeToUse = free
	return delta, system
}
