package dto

// DashboardKPIsDTO respuesta de GET /dashboard/kpis.
type DashboardKPIsDTO struct {
	TotalProducts     int `json:"total_products"`
	LowStockItems     int `json:"low_stock_items"`    // registros con free_to_use <= umbral
	PendingReceipts   int `json:"pending_receipts"`   // waiting o ready
	PendingDeliveries int `json:"pending_deliveries"` // waiting o ready
	InternalTransfers int `json:"internal_transfers"` // traslados pendientes
}

// TransactionFilterQuery filtros de GET /dashboard/transactions.
type TransactionFilterQuery struct {
	TxnType     string `query:"txn_type" validate:"omitempty,oneof=receipt delivery internal_transfer internal_adjustment"`
	Status      string `query:"status" validate:"omitempty,oneof=draft waiting ready done canceled"`
	WarehouseID string `query:"warehouse_id" validate:"omitempty,uuid"`
	Category    string `query:"category"`
}
