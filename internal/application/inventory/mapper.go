package inventory

import (
	"github.com/VriVa/odoo-spit-hack/internal/application/dto"
	"github.com/VriVa/odoo-spit-hack/internal/domain/entity"
)

// ToTransactionResponse convierte la entidad al DTO de salida.
func ToTransactionResponse(t *entity.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:              t.ID,
		Type:            t.Type,
		Status:          t.Status,
		ProductID:       t.ProductID,
		Quantity:        t.Quantity,
		CountedQty:      t.CountedQty,
		SystemQty:       t.SystemQty,
		FromWarehouseID: nullable(t.FromWarehouseID),
		ToWarehouseID:   nullable(t.ToWarehouseID),
		Supplier:        t.Supplier,
		DeliveryAddress: t.DeliveryAddress,
		Contact:         t.Contact,
		ScheduledDate:   t.ScheduledDate,
		CompletionDate:  t.CompletionDate,
		ReferenceNumber: t.ReferenceNumber,
		CreatedBy:       t.CreatedBy,
		CreatedAt:       t.CreatedAt,
	}
}

// ToTransactionResponses convierte una lista; nunca devuelve nil.
func ToTransactionResponses(list []*entity.Transaction) []dto.TransactionResponse {
	out := make([]dto.TransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, ToTransactionResponse(t))
	}
	return out
}

// ToProductResponse convierte un producto al DTO de salida.
func ToProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:        p.ID,
		SKU:       p.SKU,
		Name:      p.Name,
		Category:  p.Category,
		UOM:       p.UOM,
		UnitCost:  p.UnitCost,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ToStockResponse convierte un saldo al DTO de salida.
func ToStockResponse(s *entity.StockRecord) dto.StockResponse {
	return dto.StockResponse{
		ProductID:   s.ProductID,
		WarehouseID: s.WarehouseID,
		OnHand:      s.OnHand,
		FreeToUse:   s.FreeToUse,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toLedgerEntryResponse(e *entity.LedgerEntry) dto.LedgerEntryResponse {
	return dto.LedgerEntryResponse{
		ID:             e.ID,
		TransactionID:  e.TransactionID,
		ProductID:      e.ProductID,
		WarehouseID:    e.WarehouseID,
		QuantityChange: e.QuantityChange,
		CreatedAt:      e.CreatedAt,
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
