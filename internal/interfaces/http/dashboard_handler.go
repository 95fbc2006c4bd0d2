package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/VriVa/odoo-spit-hack/internal/application/dto"
	"github.com/VriVa/odoo-spit-hack/internal/application/inventory"
	"github.com/VriVa/odoo-spit-hack/internal/domain/repository"
)

// DashboardHandler maneja los endpoints del tablero.
type DashboardHandler struct {
	queries *inventory.QueryService
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(queries *inventory.QueryService) *DashboardHandler {
	return &DashboardHandler{queries: queries}
}

// Transactions godoc
// @Summary      Transacciones filtradas
// @Tags         dashboard
// @Produce      json
// @Param        txn_type      query  string  false  "receipt | delivery | internal_transfer | internal_adjustment"
// @Param        status        query  string  false  "draft | waiting | ready | done | canceled"
// @Param        warehouse_id  query  string  false  "Bodega origen o destino"
// @Param        category      query  string  false  "Categoría del producto"
// @Success      200  {array}   dto.TransactionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /dashboard/transactions [get]
func (h *DashboardHandler) Transactions(c *fiber.Ctx) error {
	var q dto.TransactionFilterQuery
	if err := c.QueryParser(&q); err != nil {
		return writeError(c, bindErr(err))
	}
	if err := validateStruct(&q); err != nil {
		return writeError(c, err)
	}
	list, err := h.queries.ListTransactions(c.Context(), repository.TransactionFilter{
		Type:        q.TxnType,
		Status:      q.Status,
		WarehouseID: q.WarehouseID,
		Category:    q.Category,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(inventory.ToTransactionResponses(list))
}

// KPIs devuelve los indicadores del tablero: productos, stock bajo y operaciones pendientes.
// GET /dashboard/kpis
func (h *DashboardHandler) KPIs(c *fiber.Ctx) error {
	out, err := h.queries.KPIs(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
