package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/VriVa/odoo-spit-hack/internal/application/dto"
	"github.com/VriVa/odoo-spit-hack/internal/application/inventory"
	"github.com/VriVa/odoo-spit-hack/internal/domain"
	"github.com/VriVa/odoo-spit-hack/internal/domain/entity"
	"github.com/VriVa/odoo-spit-hack/internal/domain/repository"
)

// ProductUseCase alta de productos y cambio explícito de costo. El stock se maneja vía transacciones.
type ProductUseCase struct {
	repo      repository.ProductRepository
	stockRepo repository.StockRepository
	engine    *inventory.Engine
	cache     inventory.CatalogCache
}

// NewProductUseCase construye el caso de uso. cache puede ser nil.
func NewProductUseCase(
	repo repository.ProductRepository,
	stockRepo repository.StockRepository,
	engine *inventory.Engine,
	cache inventory.CatalogCache,
) *ProductUseCase {
	if cache == nil {
		cache = inventory.NopCatalogCache{}
	}
	return &ProductUseCase{repo: repo, stockRepo: stockRepo, engine: engine, cache: cache}
}

// Create crea un producto. Si llega warehouse_id con cantidad > 0, el stock inicial se registra
// como una recepción validada en la misma tx que el alta; si falla no queda nada guardado.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.CreateProductResponse, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	if in.SKU == "" || strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: sku y name son obligatorios", domain.ErrValidation)
	}
	if in.UnitCost.IsNegative() || in.Quantity.IsNegative() {
		return nil, fmt.Errorf("%w: costo y cantidad no pueden ser negativos", domain.ErrValidation)
	}
	if in.Quantity.IsPositive() && in.WarehouseID == "" {
		return nil, fmt.Errorf("%w: el stock inicial requiere warehouse_id", domain.ErrValidation)
	}
	existing, err := uc.repo.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: sku %s", domain.ErrDuplicate, in.SKU)
	}
	if in.UOM == "" {
		in.UOM = "pcs"
	}
	now := time.Now().UTC()
	product := &entity.Product{
		ID:        uuid.New().String(),
		SKU:       in.SKU,
		Name:      strings.TrimSpace(in.Name),
		Category:  strings.TrimSpace(in.Category),
		UOM:       in.UOM,
		UnitCost:  in.UnitCost,
		CreatedAt: now,
		UpdatedAt: now,
	}
	out := &dto.CreateProductResponse{Product: inventory.ToProductResponse(product)}
	if in.WarehouseID == "" || !in.Quantity.IsPositive() {
		if err := uc.repo.Create(ctx, product); err != nil {
			return nil, err
		}
		uc.cache.Invalidate(ctx)
		return out, nil
	}
	qty := in.Quantity
	if _, err := uc.engine.CreateProductWithStock(ctx, product, inventory.CreateTransactionInput{
		Quantity:      &qty,
		ToWarehouseID: in.WarehouseID,
		Supplier:      "stock inicial",
		CreatedBy:     in.UserID,
	}); err != nil {
		return nil, fmt.Errorf("stock inicial de %s: %w", product.SKU, err)
	}
	stock, err := uc.stockRepo.Get(ctx, product.ID, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	s := inventory.ToStockResponse(stock)
	out.Stock = &s
	return out, nil
}

// UpdateCost cambia el costo unitario; es la única vía para modificarlo.
func (uc *ProductUseCase) UpdateCost(ctx context.Context, id string, cost decimal.Decimal) (*dto.ProductResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: id de producto %q", domain.ErrValidation, id)
	}
	if cost.IsNegative() {
		return nil, fmt.Errorf("%w: el costo no puede ser negativo", domain.ErrValidation)
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.repo.UpdateCost(ctx, id, cost); err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx)
	product.UnitCost = cost
	product.UpdatedAt = time.Now().UTC()
	res := inventory.ToProductResponse(product)
	return &res, nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: id de producto %q", domain.ErrValidation, id)
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	res := inventory.ToProductResponse(product)
	return &res, nil
}
