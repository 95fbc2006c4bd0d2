package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/VriVa/odoo-spit-hack/internal/application/dto"
	"github.com/VriVa/odoo-spit-hack/internal/application/inventory"
)

const (
	// CatalogKey prefijo del listado de productos con stock; la clave real lleva la generación.
	CatalogKey = "catalog:products"
	// CatalogGenKey contador de generación; Invalidate lo incrementa.
	CatalogGenKey = "catalog:products:gen"
)

// ListingKey clave del listado para una generación.
func ListingKey(gen int64) string {
	return CatalogKey + ":" + strconv.FormatInt(gen, 10)
}

var _ inventory.CatalogCache = (*RedisCatalogCache)(nil)

// RedisCatalogCache guarda el listado GET /products/ en Redis con TTL.
// Los errores de Redis se registran y se tratan como miss.
type RedisCatalogCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewRedisCatalogCache construye el cache del catálogo.
func NewRedisCatalogCache(client *redis.Client, ttl time.Duration, log zerolog.Logger) *RedisCatalogCache {
	return &RedisCatalogCache{client: client, ttl: ttl, log: log}
}

// GetListing lee la generación vigente y el listado guardado bajo ella.
func (c *RedisCatalogCache) GetListing(ctx context.Context) (*dto.ProductStockListing, int64, bool) {
	gen, err := c.client.Get(ctx, CatalogGenKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.log.Warn().Err(err).Msg("cache de catálogo no disponible")
		return nil, -1, false
	}
	data, err := c.client.Get(ctx, ListingKey(gen)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Msg("cache de catálogo no disponible")
			return nil, -1, false
		}
		return nil, gen, false
	}
	var listing dto.ProductStockListing
	if err := json.Unmarshal(data, &listing); err != nil {
		c.log.Warn().Err(err).Msg("cache de catálogo corrupto")
		return nil, gen, false
	}
	return &listing, gen, true
}

// SetListing guarda el listado bajo la generación leída antes de consultar los repositorios.
// Si hubo un Invalidate entretanto, la clave queda huérfana y expira por TTL.
func (c *RedisCatalogCache) SetListing(ctx context.Context, gen int64, listing *dto.ProductStockListing) {
	if gen < 0 {
		return
	}
	data, err := json.Marshal(listing)
	if err != nil {
		c.log.Warn().Err(err).Msg("serializar catálogo")
		return
	}
	if err := c.client.Set(ctx, ListingKey(gen), data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Msg("guardar catálogo en cache")
	}
}

// Invalidate avanza la generación; se llama tras cada cambio de stock o producto.
func (c *RedisCatalogCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, CatalogGenKey).Err(); err != nil {
		c.log.Warn().Err(err).Msg("invalidar cache de catálogo")
	}
}
