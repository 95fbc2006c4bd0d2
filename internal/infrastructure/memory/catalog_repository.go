package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/VriVa/odoo-spit-hack/internal/domain"
	"github.com/VriVa/odoo-spit-hack/internal/domain/entity"
	"github.com/VriVa/odoo-spit-hack/internal/domain/repository"
)

var (
	_ repository.ProductRepository   = (*ProductRepo)(nil)
	_ repository.WarehouseRepository = (*WarehouseRepo)(nil)
)

// ProductRepo productos en memoria.
type ProductRepo struct{ v *view }

// Create persiste un producto; SKU duplicado devuelve ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.skus[product.SKU]; ok {
			return domain.ErrDuplicate
		}
		if _, ok := st.products[product.ID]; ok {
			return domain.ErrDuplicate
		}
		st.products[product.ID] = *product
		st.skus[product.SKU] = product.ID
		return nil
	})
}

// GetByID devuelve nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.do(ctx, func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

// GetBySKU devuelve nil si no existe.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.do(ctx, func(st *state) error {
		if id, ok := st.skus[sku]; ok {
			p := st.products[id]
			out = &p
		}
		return nil
	})
	return out, err
}

// UpdateCost cambia solo el costo unitario.
func (r *ProductRepo) UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error {
	return r.v.do(ctx, func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return domain.ErrNotFound
		}
		p.UnitCost = cost
		p.UpdatedAt = time.Now().UTC()
		st.products[productID] = p
		return nil
	})
}

// List ordena por SKU.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.v.do(ctx, func(st *state) error {
		out = make([]*entity.Product, 0, len(st.products))
		for _, p := range st.products {
			p := p
			out = append(out, &p)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, err
}

// Count total de productos.
func (r *ProductRepo) Count(ctx context.Context) (int, error) {
	n := 0
	err := r.v.do(ctx, func(st *state) error {
		n = len(st.products)
		return nil
	})
	return n, err
}

// WarehouseRepo bodegas en memoria.
type WarehouseRepo struct{ v *view }

// Create persiste una bodega; short_code duplicado (sin distinguir mayúsculas) devuelve ErrDuplicate.
func (r *WarehouseRepo) Create(ctx context.Context, warehouse *entity.Warehouse) error {
	return r.v.do(ctx, func(st *state) error {
		code := strings.ToUpper(warehouse.ShortCode)
		if _, ok := st.codes[code]; ok {
			return domain.ErrDuplicate
		}
		st.warehouses[warehouse.ID] = *warehouse
		st.codes[code] = warehouse.ID
		return nil
	})
}

// GetByID devuelve nil si no existe.
func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.v.do(ctx, func(st *state) error {
		if w, ok := st.warehouses[id]; ok {
			out = &w
		}
		return nil
	})
	return out, err
}

// List ordena por short_code.
func (r *WarehouseRepo) List(ctx context.Context) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	err := r.v.do(ctx, func(st *state) error {
		out = make([]*entity.Warehouse, 0, len(st.warehouses))
		for _, w := range st.warehouses {
			w := w
			out = append(out, &w)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ShortCode < out[j].ShortCode })
	return out, err
}
