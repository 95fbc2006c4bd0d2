package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/VriVa/odoo-spit-hack/internal/application/dto"
	"github.com/VriVa/odoo-spit-hack/internal/domain"
	"github.com/VriVa/odoo-spit-hack/internal/domain/entity"
	"github.com/VriVa/odoo-spit-hack/internal/domain/repository"
)

// DefaultLowStockThreshold umbral de free_to_use para contar un saldo como stock bajo.
var DefaultLowStockThreshold = decimal.NewFromInt(5)

const defaultLedgerLimit = 100

// QueryService consultas de solo lectura: catálogo con stock, listados, libro mayor, auditoría y KPIs.
type QueryService struct {
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	stockRepo     repository.StockRepository
	txnRepo       repository.TransactionRepository
	ledgerRepo    repository.LedgerRepository
	cache         CatalogCache
	slips         SlipGenerator
	lowStock      decimal.Decimal
}

// NewQueryService construye el servicio. cache y slips pueden ser nil.
func NewQueryService(
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	stockRepo repository.StockRepository,
	txnRepo repository.TransactionRepository,
	ledgerRepo repository.LedgerRepository,
	cache CatalogCache,
	slips SlipGenerator,
	lowStockThreshold decimal.Decimal,
) *QueryService {
	if cache == nil {
		cache = NopCatalogCache{}
	}
	return &QueryService{
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		stockRepo:     stockRepo,
		txnRepo:       txnRepo,
		ledgerRepo:    ledgerRepo,
		cache:         cache,
		slips:         slips,
		lowStock:      lowStockThreshold,
	}
}

// ListProductsWithStock devuelve [productos, saldos]; usa la cache de catálogo si está disponible.
func (s *QueryService) ListProductsWithStock(ctx context.Context) (*dto.ProductStockListing, error) {
	cached, gen, ok := s.cache.GetListing(ctx)
	if ok {
		return cached, nil
	}
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	stock, err := s.stockRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	listing := &dto.ProductStockListing{
		Products: make([]dto.ProductResponse, 0, len(products)),
		Stock:    make([]dto.StockResponse, 0, len(stock)),
	}
	for _, p := range products {
		listing.Products = append(listing.Products, ToProductResponse(p))
	}
	for _, r := range stock {
		listing.Stock = append(listing.Stock, ToStockResponse(r))
	}
	s.cache.SetListing(ctx, gen, listing)
	return listing, nil
}

// ListTransactions filtra por tipo, estado, bodega (origen o destino) y categoría de producto.
func (s *QueryService) ListTransactions(ctx context.Context, filter repository.TransactionFilter) ([]*entity.Transaction, error) {
	if filter.Type != "" && !entity.IsValidTxnType(filter.Type) {
		return nil, fmt.Errorf("%w: txn_type %q", domain.ErrValidation, filter.Type)
	}
	if filter.Status != "" && !entity.IsValidTxnStatus(filter.Status) {
		return nil, fmt.Errorf("%w: status %q", domain.ErrValidation, filter.Status)
	}
	for _, id := range []string{filter.WarehouseID, filter.FromWarehouseID, filter.ToWarehouseID} {
		if id == "" {
			continue
		}
		if _, err := uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("%w: warehouse_id %q", domain.ErrValidation, id)
		}
	}
	filter.Category = strings.TrimSpace(filter.Category)
	return s.txnRepo.List(ctx, filter)
}

// ListReceipts recepciones con destino en la bodega dada (todas si warehouseID es vacío).
func (s *QueryService) ListReceipts(ctx context.Context, warehouseID string) ([]*entity.Transaction, error) {
	return s.ListTransactions(ctx, repository.TransactionFilter{
		Type:          entity.TxnTypeReceipt,
		ToWarehouseID: warehouseID,
	})
}

// ListDeliveries entregas con origen en la bodega dada (todas si warehouseID es vacío).
func (s *QueryService) ListDeliveries(ctx context.Context, warehouseID string) ([]*entity.Transaction, error) {
	return s.ListTransactions(ctx, repository.TransactionFilter{
		Type:            entity.TxnTypeDelivery,
		FromWarehouseID: warehouseID,
	})
}

// LedgerHistory historial de movimientos, más reciente primero.
func (s *QueryService) LedgerHistory(ctx context.Context, filter repository.LedgerFilter) ([]dto.LedgerEntryResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultLedgerLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	entries, err := s.ledgerRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toLedgerEntryResponse(e))
	}
	return out, nil
}

// BalanceAsOf saldo on_hand reconstruido del libro mayor a la fecha dada.
func (s *QueryService) BalanceAsOf(ctx context.Context, productID, warehouseID string, asOf time.Time) (*dto.BalanceResponse, error) {
	if _, err := uuid.Parse(productID); err != nil {
		return nil, fmt.Errorf("%w: product_id %q", domain.ErrValidation, productID)
	}
	if _, err := uuid.Parse(warehouseID); err != nil {
		return nil, fmt.Errorf("%w: warehouse_id %q", domain.ErrValidation, warehouseID)
	}
	balance, err := s.ledgerRepo.BalanceAsOf(ctx, productID, warehouseID, asOf)
	if err != nil {
		return nil, err
	}
	return &dto.BalanceResponse{
		ProductID:   productID,
		WarehouseID: warehouseID,
		AsOf:        asOf,
		Balance:     balance,
	}, nil
}

// Reconcile compara cada saldo materializado con la suma del libro mayor.
// Reporta también pares con movimientos en el libro pero sin registro de stock.
func (s *QueryService) Reconcile(ctx context.Context) (*dto.ReconcileResponse, error) {
	totals, err := s.ledgerRepo.Totals(ctx)
	if err != nil {
		return nil, err
	}
	stock, err := s.stockRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	res := &dto.ReconcileResponse{Divergences: []dto.ReconcileDivergence{}}
	seen := make(map[repository.StockKey]bool, len(stock))
	for _, r := range stock {
		key := repository.StockKey{ProductID: r.ProductID, WarehouseID: r.WarehouseID}
		seen[key] = true
		res.Checked++
		sum := totals[key]
		if !sum.Equal(r.OnHand) {
			res.Divergences = append(res.Divergences, dto.ReconcileDivergence{
				ProductID: r.ProductID, WarehouseID: r.WarehouseID, OnHand: r.OnHand, LedgerSum: sum,
			})
		}
	}
	for key, sum := range totals {
		if seen[key] {
			continue
		}
		res.Checked++
		if !sum.IsZero() {
			res.Divergences = append(res.Divergences, dto.ReconcileDivergence{
				ProductID: key.ProductID, WarehouseID: key.WarehouseID, OnHand: decimal.Zero, LedgerSum: sum,
			})
		}
	}
	sort.Slice(res.Divergences, func(i, j int) bool {
		a, b := res.Divergences[i], res.Divergences[j]
		if a.ProductID != b.ProductID {
			return a.ProductID < b.ProductID
		}
		return a.WarehouseID < b.WarehouseID
	})
	res.Consistent = len(res.Divergences) == 0
	return res, nil
}

// KPIs indicadores del dashboard.
func (s *QueryService) KPIs(ctx context.Context) (*dto.DashboardKPIsDTO, error) {
	total, err := s.productRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	low, err := s.stockRepo.CountLowStock(ctx, s.lowStock)
	if err != nil {
		return nil, err
	}
	pending := func(txnType string) (int, error) {
		n := 0
		for _, status := range []string{entity.TxnStatusWaiting, entity.TxnStatusReady} {
			list, err := s.txnRepo.List(ctx, repository.TransactionFilter{Type: txnType, Status: status})
			if err != nil {
				return 0, err
			}
			n += len(list)
		}
		return n, nil
	}
	kpis := &dto.DashboardKPIsDTO{TotalProducts: total, LowStockItems: low}
	if kpis.PendingReceipts, err = pending(entity.TxnTypeReceipt); err != nil {
		return nil, err
	}
	if kpis.PendingDeliveries, err = pending(entity.TxnTypeDelivery); err != nil {
		return nil, err
	}
	if kpis.InternalTransfers, err = pending(entity.TxnTypeInternalTransfer); err != nil {
		return nil, err
	}
	return kpis, nil
}

// TransactionSlip genera el comprobante PDF de la transacción y su nombre de archivo.
func (s *QueryService) TransactionSlip(ctx context.Context, id string) ([]byte, string, error) {
	if s.slips == nil {
		return nil, "", fmt.Errorf("generador de comprobantes no configurado")
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, "", fmt.Errorf("%w: id de transacción %q", domain.ErrValidation, id)
	}
	txn, err := s.txnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if txn == nil {
		return nil, "", domain.ErrNotFound
	}
	data := SlipData{Transaction: txn}
	if txn.ProductID != "" {
		if data.Product, err = s.productRepo.GetByID(ctx, txn.ProductID); err != nil {
			return nil, "", err
		}
	}
	if txn.FromWarehouseID != "" {
		if data.FromWarehouse, err = s.warehouseRepo.GetByID(ctx, txn.FromWarehouseID); err != nil {
			return nil, "", err
		}
	}
	if txn.ToWarehouseID != "" {
		if data.ToWarehouse, err = s.warehouseRepo.GetByID(ctx, txn.ToWarehouseID); err != nil {
			return nil, "", err
		}
	}
	pdf, err := s.slips.GenerateSlip(ctx, data)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: %w", err)
	}
	filename := strings.ReplaceAll(txn.ReferenceNumber, "/", "-") + ".pdf"
	return pdf, filename, nil
}
