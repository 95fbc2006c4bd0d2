package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/VriVa/odoo-spit-hack/internal/application/dto"
	"github.com/VriVa/odoo-spit-hack/internal/application/inventory"
	"github.com/VriVa/odoo-spit-hack/internal/application/usecase"
)

// ProductHandler maneja el catálogo de productos y su stock.
type ProductHandler struct {
	uc      *usecase.ProductUseCase
	queries *inventory.QueryService
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, queries *inventory.QueryService) *ProductHandler {
	return &ProductHandler{uc: uc, queries: queries}
}

// Create godoc
// @Summary      Crear producto
// @Description  Con warehouse_id y quantity registra el stock inicial como recepción validada.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.CreateProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /products/ [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := bindRequest(c, &in); err != nil {
		return writeError(c, err)
	}
	in.UserID = actor(c, in.UserID)
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar productos con stock
// @Description  Responde [productos, registros de stock].
// @Tags         products
// @Produce      json
// @Success      200  {array}  object
// @Router       /products/ [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	out, err := h.queries.ListProductsWithStock(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateCost godoc
// @Summary      Actualizar costo unitario
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del producto"
// @Param        body  body  dto.UpdateCostRequest  true  "Nuevo costo"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /products/{id}/cost [put]
func (h *ProductHandler) UpdateCost(c *fiber.Ctx) error {
	var in dto.UpdateCostRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UpdateCost(c.Context(), c.Params("id"), in.UnitCost)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
