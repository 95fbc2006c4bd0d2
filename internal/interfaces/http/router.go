package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/VriVa/odoo-spit-hack/internal/application/inventory"
	"github.com/VriVa/odoo-spit-hack/internal/application/usecase"
	"github.com/VriVa/odoo-spit-hack/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Engine      *inventory.Engine
	Queries     *inventory.QueryService
	ProductUC   *usecase.ProductUseCase
	WarehouseUC *usecase.WarehouseUseCase
	// JWTSecret vacío desactiva la autenticación (todas las rutas quedan abiertas).
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	var auth []fiber.Handler
	managerOnly := func(c *fiber.Ctx) error { return c.Next() }
	if deps.JWTSecret != "" {
		auth = append(auth, AuthMiddleware(deps.JWTSecret))
		managerOnly = RequireRole(jwt.RoleInventoryManager)
	}

	txnHandler := NewTransactionHandler(deps.Engine, deps.Queries)
	productHandler := NewProductHandler(deps.ProductUC, deps.Queries)
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	dashboardHandler := NewDashboardHandler(deps.Queries)

	// Products: catálogo y operaciones de inventario.
	// Las rutas fijas van antes de /:id.
	products := app.Group("/products", auth...)
	products.Get("/", productHandler.List)
	products.Post("/", managerOnly, productHandler.Create)
	products.Post("/create_receipt", txnHandler.CreateReceipt)
	products.Post("/create_delivery_order", txnHandler.CreateDelivery)
	products.Post("/create_internal_transfer", txnHandler.CreateTransfer)
	products.Post("/adjust_stock", managerOnly, txnHandler.AdjustStock)
	products.Post("/validate_transaction/:id", txnHandler.Validate)
	products.Post("/confirm_transaction/:id", txnHandler.Confirm)
	products.Post("/cancel_transaction/:id", txnHandler.Cancel)
	products.Get("/transactions/:id/slip", txnHandler.Slip)
	products.Get("/transactions/:id", txnHandler.Get)
	products.Put("/transactions/:id", txnHandler.Update)
	products.Get("/all-receipts", txnHandler.ListReceipts)
	products.Get("/all-deliveries", txnHandler.ListDeliveries)
	products.Get("/ledger", txnHandler.Ledger)
	products.Get("/balance", txnHandler.Balance)
	products.Get("/reconcile", managerOnly, txnHandler.Reconcile)
	products.Put("/:id/cost", managerOnly, productHandler.UpdateCost)
	products.Get("/:id", productHandler.GetByID)

	// Warehouses
	warehouses := app.Group("/warehouses", auth...)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Post("/", managerOnly, warehouseHandler.Create)
	warehouses.Get("/:id", warehouseHandler.GetByID)

	// Dashboard
	dashboard := app.Group("/dashboard", auth...)
	dashboard.Get("/transactions", dashboardHandler.Transactions)
	dashboard.Get("/kpis", dashboardHandler.KPIs)
}
