package inventory

import (
	"context"

	"github.com/VriVa/odoo-spit-hack/internal/application/dto"
	"github.com/VriVa/odoo-spit-hack/internal/domain/entity"
	"github.com/VriVa/odoo-spit-hack/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción de BD.
type Repos struct {
	Transactions repository.TransactionRepository
	Stock        repository.StockRepository
	Ledger       repository.LedgerRepository
	Products     repository.ProductRepository
	Warehouses   repository.WarehouseRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y no queda ninguna escritura parcial.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}

// CatalogCache cache de lectura para GET /products/. Un fallo de cache nunca falla la petición.
// GetListing devuelve también la generación vigente; SetListing guarda el listado bajo esa
// generación, así un listado leído antes de un Invalidate nunca vuelve a servirse.
// Una generación negativa significa cache no disponible y SetListing no hace nada.
type CatalogCache interface {
	GetListing(ctx context.Context) (listing *dto.ProductStockListing, gen int64, ok bool)
	SetListing(ctx context.Context, gen int64, listing *dto.ProductStockListing)
	Invalidate(ctx context.Context)
}

// NopCatalogCache no guarda nada; se usa cuando no hay Redis configurado.
type NopCatalogCache struct{}

func (NopCatalogCache) GetListing(context.Context) (*dto.ProductStockListing, int64, bool) {
	return nil, -1, false
}
func (NopCatalogCache) SetListing(context.Context, int64, *dto.ProductStockListing) {}
func (NopCatalogCache) Invalidate(context.Context)                                {}

// SlipData datos de una transacción para imprimir su comprobante.
type SlipData struct {
	Transaction   *entity.Transaction
	Product       *entity.Product
	FromWarehouse *entity.Warehouse
	ToWarehouse   *entity.Warehouse
}

// SlipGenerator genera el comprobante PDF de una transacción.
type SlipGenerator interface {
	GenerateSlip(ctx context.Context, data SlipData) ([]byte, error)
}
