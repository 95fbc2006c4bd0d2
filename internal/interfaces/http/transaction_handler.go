package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/VriVa/odoo-spit-hack/internal/application/dto"
	"github.com/VriVa/odoo-spit-hack/internal/application/inventory"
	"github.com/VriVa/odoo-spit-hack/internal/domain/entity"
	"github.com/VriVa/odoo-spit-hack/internal/domain/repository"
)

// TransactionHandler maneja recepciones, entregas, traslados, ajustes y su ciclo de vida.
type TransactionHandler struct {
	engine  *inventory.Engine
	queries *inventory.QueryService
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(engine *inventory.Engine, queries *inventory.QueryService) *TransactionHandler {
	return &TransactionHandler{engine: engine, queries: queries}
}

// CreateReceipt godoc
// @Summary      Crear recepción
// @Tags         transactions
// @Produce      json
// @Param        product_id       query  string  false  "ID del producto"
// @Param        quantity         query  number  false  "Cantidad (> 0)"
// @Param        to_warehouse_id  query  string  false  "Bodega destino"
// @Success      201  {object}  dto.TransactionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /products/create_receipt [post]
func (h *TransactionHandler) CreateReceipt(c *fiber.Ctx) error {
	var in dto.CreateReceiptRequest
	if err := bindRequest(c, &in); err != nil {
		return writeError(c, err)
	}
	scheduled, err := parseDate("scheduled_date", in.ScheduledDate)
	if err != nil {
		return writeError(c, err)
	}
	return h.create(c, inventory.CreateTransactionInput{
		Type:          entity.TxnTypeReceipt,
		ProductID:     in.ProductID,
		Quantity:      in.Quantity,
		ToWarehouseID: in.ToWarehouseID,
		Supplier:      in.Supplier,
		Contact:       in.Contact,
		ScheduledDate: scheduled,
		CreatedBy:     actor(c, in.UserID),
		Draft:         in.Draft,
	})
}

// CreateDelivery godoc
// @Summary      Crear orden de entrega
// @Tags         transactions
// @Produce      json
// @Param        product_id         query  string  false  "ID del producto"
// @Param        quantity           query  number  false  "Cantidad (> 0)"
// @Param        from_warehouse_id  query  string  false  "Bodega origen"
// @Success      201  {object}  dto.TransactionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /products/create_delivery_order [post]
func (h *TransactionHandler) CreateDelivery(c *fiber.Ctx) error {
	var in dto.CreateDeliveryRequest
	if err := bindRequest(c, &in); err != nil {
		return writeError(c, err)
	}
	scheduled, err := parseDate("scheduled_date", in.ScheduledDate)
	if err != nil {
		return writeError(c, err)
	}
	return h.create(c, inventory.CreateTransactionInput{
		Type:            entity.TxnTypeDelivery,
		ProductID:       in.ProductID,
		Quantity:        in.Quantity,
		FromWarehouseID: in.FromWarehouseID,
		DeliveryAddress: in.DeliveryAddress,
		Contact:         in.Contact,
		ScheduledDate:   scheduled,
		CreatedBy:       actor(c, in.UserID),
		Draft:           in.Draft,
	})
}

// CreateTransfer godoc
// @Summary      Crear traslado interno
// @Tags         transactions
// @Produce      json
// @Success      201  {object}  dto.TransactionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /products/create_internal_transfer [post]
func (h *TransactionHandler) CreateTransfer(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := bindRequest(c, &in); err != nil {
		return writeError(c, err)
	}
	scheduled, err := parseDate("scheduled_date", in.ScheduledDate)
	if err != nil {
		return writeError(c, err)
	}
	return h.create(c, inventory.CreateTransactionInput{
		Type:            entity.TxnTypeInternalTransfer,
		ProductID:       in.ProductID,
		Quantity:        in.Quantity,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		ScheduledDate:   scheduled,
		CreatedBy:       actor(c, in.UserID),
		Draft:           in.Draft,
	})
}

func (h *TransactionHandler) create(c *fiber.Ctx, in inventory.CreateTransactionInput) error {
	txn, err := h.engine.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToTransactionResponse(txn))
}

// AdjustStock godoc
// @Summary      Ajustar stock por conteo físico
// @Description  Crea un ajuste y lo valida en la misma llamada salvo draft=true.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        body          body   dto.ProductRef  true   "Producto"
// @Param        warehouse_id  query  string          true   "Bodega"
// @Param        counted_qty   query  number          true   "Cantidad contada (>= 0)"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /products/adjust_stock [post]
func (h *TransactionHandler) AdjustStock(c *fiber.Ctx) error {
	var product dto.ProductRef
	if err := bindBody(c, &product); err != nil {
		return writeError(c, err)
	}
	var q dto.AdjustStockQuery
	if err := c.QueryParser(&q); err != nil {
		return writeError(c, bindErr(err))
	}
	if err := validateStruct(&q); err != nil {
		return writeError(c, err)
	}
	in := inventory.CreateTransactionInput{
		Type:            entity.TxnTypeInternalAdjustment,
		ProductID:       product.ID,
		CountedQty:      q.CountedQty,
		FromWarehouseID: q.WarehouseID,
		CreatedBy:       actor(c, q.UserID),
		Draft:           q.Draft,
	}
	if q.Draft {
		return h.create(c, in)
	}
	txn, err := h.engine.CreateAndValidate(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(inventory.ToTransactionResponse(txn))
}

// Validate godoc
// @Summary      Validar transacción
// @Description  Aplica el efecto en stock y libro mayor; solo desde ready.
// @Tags         transactions
// @Produce      json
// @Param        id   path  string  true  "ID de la transacción"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /products/validate_transaction/{id} [post]
func (h *TransactionHandler) Validate(c *fiber.Ctx) error {
	return h.transition(c, h.engine.Validate)
}

// Confirm pasa un draft a waiting/ready.
func (h *TransactionHandler) Confirm(c *fiber.Ctx) error {
	return h.transition(c, h.engine.Confirm)
}

// Cancel cancela una transacción no terminal.
func (h *TransactionHandler) Cancel(c *fiber.Ctx) error {
	return h.transition(c, h.engine.Cancel)
}

// Get devuelve una transacción por ID.
func (h *TransactionHandler) Get(c *fiber.Ctx) error {
	return h.transition(c, h.engine.GetTransaction)
}

func (h *TransactionHandler) transition(c *fiber.Ctx, op func(ctx context.Context, id string) (*entity.Transaction, error)) error {
	txn, err := op(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(inventory.ToTransactionResponse(txn))
}

// Update godoc
// @Summary      Editar transacción
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID de la transacción"
// @Param        body  body  dto.UpdateTransactionRequest  true  "Campos a cambiar"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /products/transactions/{id} [put]
func (h *TransactionHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateTransactionRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	upd := inventory.UpdateTransactionInput{
		ProductID:       in.ProductID,
		Quantity:        in.Quantity,
		CountedQty:      in.CountedQty,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Supplier:        in.Supplier,
		DeliveryAddress: in.DeliveryAddress,
		Contact:         in.Contact,
	}
	if in.ScheduledDate != nil {
		scheduled, err := parseDate("scheduled_date", *in.ScheduledDate)
		if err != nil {
			return writeError(c, err)
		}
		upd.ScheduledDate = scheduled
	}
	txn, err := h.engine.Update(c.Context(), c.Params("id"), upd)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(inventory.ToTransactionResponse(txn))
}

// Slip godoc
// @Summary      Comprobante PDF de la transacción
// @Tags         transactions
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la transacción"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /products/transactions/{id}/slip [get]
func (h *TransactionHandler) Slip(c *fiber.Ctx) error {
	pdf, filename, err := h.queries.TransactionSlip(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdf)
}

// ListReceipts recepciones por bodega destino.
func (h *TransactionHandler) ListReceipts(c *fiber.Ctx) error {
	list, err := h.queries.ListReceipts(c.Context(), c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(inventory.ToTransactionResponses(list))
}

// ListDeliveries entregas por bodega origen.
func (h *TransactionHandler) ListDeliveries(c *fiber.Ctx) error {
	list, err := h.queries.ListDeliveries(c.Context(), c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(inventory.ToTransactionResponses(list))
}

// Ledger godoc
// @Summary      Historial de movimientos
// @Tags         ledger
// @Produce      json
// @Param        product_id      query  string  false  "Producto"
// @Param        warehouse_id    query  string  false  "Bodega"
// @Param        transaction_id  query  string  false  "Transacción"
// @Param        limit           query  int     false  "Límite (1-500)"  default(100)
// @Param        offset          query  int     false  "Offset"
// @Success      200  {array}   dto.LedgerEntryResponse
// @Router       /products/ledger [get]
func (h *TransactionHandler) Ledger(c *fiber.Ctx) error {
	var q dto.LedgerQuery
	if err := c.QueryParser(&q); err != nil {
		return writeError(c, bindErr(err))
	}
	if err := validateStruct(&q); err != nil {
		return writeError(c, err)
	}
	out, err := h.queries.LedgerHistory(c.Context(), repository.LedgerFilter{
		ProductID:     q.ProductID,
		WarehouseID:   q.WarehouseID,
		TransactionID: q.TransactionID,
		Limit:         q.Limit,
		Offset:        q.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Balance saldo reconstruido del libro mayor a la fecha as_of (por defecto ahora).
func (h *TransactionHandler) Balance(c *fiber.Ctx) error {
	asOf := time.Now().UTC()
	if t, err := parseDate("as_of", c.Query("as_of")); err != nil {
		return writeError(c, err)
	} else if t != nil {
		asOf = *t
	}
	out, err := h.queries.BalanceAsOf(c.Context(), c.Query("product_id"), c.Query("warehouse_id"), asOf)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reconcile compara saldos materializados contra el libro mayor.
func (h *TransactionHandler) Reconcile(c *fiber.Ctx) error {
	out, err := h.queries.Reconcile(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
