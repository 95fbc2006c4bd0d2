package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/VriVa/odoo-spit-hack/internal/application/inventory"
	"github.com/VriVa/odoo-spit-hack/internal/application/usecase"
	"github.com/VriVa/odoo-spit-hack/internal/domain/repository"
	"github.com/VriVa/odoo-spit-hack/internal/infrastructure/cache"
	"github.com/VriVa/odoo-spit-hack/internal/infrastructure/memory"
	infrapdf "github.com/VriVa/odoo-spit-hack/internal/infrastructure/pdf"
	"github.com/VriVa/odoo-spit-hack/internal/infrastructure/postgres"
	httpRouter "github.com/VriVa/odoo-spit-hack/internal/interfaces/http"
	"github.com/VriVa/odoo-spit-hack/pkg/config"
	"github.com/VriVa/odoo-spit-hack/pkg/logger"
)

// storage agrupa los repositorios del backend elegido.
type storage struct {
	txRunner     inventory.TxRunner
	products     repository.ProductRepository
	warehouses   repository.WarehouseRepository
	stock        repository.StockRepository
	transactions repository.TransactionRepository
	ledger       repository.LedgerRepository
	close        func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		App:     cfg.App.Name,
		Storage: cfg.Storage.Driver,
	})
	log.Info().Str("env", cfg.App.Env).Msg("iniciando aplicación")

	lowStock, err := decimal.NewFromString(cfg.Inventory.LowStockThreshold)
	if err != nil {
		log.Fatal().Err(err).Msg("LOW_STOCK_THRESHOLD inválido")
	}

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	// Cache de catálogo: opcional, sin Redis se usa la cache nula.
	var catalogCache inventory.CatalogCache = inventory.NopCatalogCache{}
	if cfg.Redis.URL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis.URL, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			log.Warn().Err(err).Msg("Redis no disponible, cache de catálogo desactivada")
		} else {
			defer client.Close()
			catalogCache = cache.NewRedisCatalogCache(client, cfg.Redis.TTL, log)
		}
	}

	engine := inventory.NewEngine(store.txRunner, store.transactions, catalogCache, log)
	queries := inventory.NewQueryService(
		store.products, store.warehouses, store.stock, store.transactions, store.ledger,
		catalogCache, infrapdf.NewMarotoSlipGenerator(), lowStock,
	)
	productUC := usecase.NewProductUseCase(store.products, store.stock, engine, catalogCache)
	warehouseUC := usecase.NewWarehouseUseCase(store.warehouses)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.HTTP.CORSOrigins}))
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.DocsPath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.DocsPath,
			Path:     "docs",
			Title:    "Stock Ledger API",
		}))
	} else {
		log.Warn().Str("path", cfg.HTTP.DocsPath).Msg("swagger.json no encontrado, /docs desactivado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Storage.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Engine:      engine,
		Queries:     queries,
		ProductUC:   productUC,
		WarehouseUC: warehouseUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openStorage abre PostgreSQL (aplicando migraciones si corresponde) o el almacenamiento en memoria.
func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		store := memory.NewStore()
		return &storage{
			txRunner:     store,
			products:     store.Products(),
			warehouses:   store.Warehouses(),
			stock:        store.Stock(),
			transactions: store.Transactions(),
			ledger:       store.Ledger(),
			close:        func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, log); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return &storage{
		txRunner:     postgres.NewTxRunner(pool),
		products:     postgres.NewProductRepository(pool),
		warehouses:   postgres.NewWarehouseRepository(pool),
		stock:        postgres.NewStockRepository(pool),
		transactions: postgres.NewTransactionRepository(pool),
		ledger:       postgres.NewLedgerRepository(pool),
		close:        pool.Close,
	}, nil
}
