package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cafe-pos/internal/application/cart"
	"github.com/jhoicas/cafe-pos/internal/application/catalog"
	"github.com/jhoicas/cafe-pos/internal/application/dto"
	"github.com/jhoicas/cafe-pos/internal/domain/entity"
	"github.com/jhoicas/cafe-pos/pkg/logger"
)

// CartHandler expone el carrito de la caja.
type CartHandler struct {
	cart    *cart.Cart
	catalog *catalog.Snapshot
	log     *logger.Logger
}

// NewCartHandler construye el handler del carrito.
func NewCartHandler(c *cart.Cart, snap *catalog.Snapshot, log *logger.Logger) *CartHandler {
	return &CartHandler{cart: c, catalog: snap, log: log}
}

// Get godoc
// @Summary      Contenido del carrito
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.CartResponse
// @Router       /api/cart [get]
func (h *CartHandler) Get(c *fiber.Ctx) error {
	return c.JSON(toCartResponse(h.cart))
}

// Clear godoc
// @Summary      Vaciar el carrito
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.CartMutationResponse
// @Router       /api/cart [delete]
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	return c.JSON(toMutationResponse(h.cart, h.cart.Clear(c.UserContext())))
}

// AddLine godoc
// @Summary      Agregar una unidad de una configuración (receta + porción + adicionales)
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.AddLineRequest  true  "configuración"
// @Success      200   {object}  dto.CartMutationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.RejectionResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/cart/lines [post]
func (h *CartHandler) AddLine(c *fiber.Ctx) error {
	var in dto.AddLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.RecipeID == "" || in.ServingID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "recipe_id y serving_id son requeridos"})
	}
	addons := make([]entity.Addon, 0, len(in.Addons))
	for _, a := range in.Addons {
		addons = append(addons, entity.Addon{StockEntryID: a.StockEntryID, Quantity: a.Quantity, Unit: a.Unit})
	}
	sel, err := h.catalog.Selection(in.RecipeID, in.ServingID, addons)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.cart.Add(c.UserContext(), sel)
	return h.respond(c, out, err)
}

// Increment godoc
// @Summary      Sumar una unidad a la línea
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la línea (escapado)"
// @Success      200  {object}  dto.CartMutationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.RejectionResponse
// @Router       /api/cart/lines/{id}/increment [post]
func (h *CartHandler) Increment(c *fiber.Ctx) error {
	out, err := h.cart.Increment(c.UserContext(), lineIDParam(c))
	return h.respond(c, out, err)
}

// Decrement godoc
// @Summary      Restar una unidad a la línea (en 0 se elimina)
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la línea (escapado)"
// @Success      200  {object}  dto.CartMutationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cart/lines/{id}/decrement [post]
func (h *CartHandler) Decrement(c *fiber.Ctx) error {
	out, err := h.cart.Decrement(c.UserContext(), lineIDParam(c))
	return h.respond(c, out, err)
}

// SetQuantity godoc
// @Summary      Fijar la cantidad de la línea; por encima del máximo se rechaza sin cambios
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                  true  "ID de la línea (escapado)"
// @Param        body  body  dto.SetQuantityRequest  true  "cantidad"
// @Success      200   {object}  dto.CartMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.RejectionResponse
// @Router       /api/cart/lines/{id} [put]
func (h *CartHandler) SetQuantity(c *fiber.Ctx) error {
	var in dto.SetQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Quantity == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity es requerido"})
	}
	out, err := h.cart.SetQuantity(c.UserContext(), lineIDParam(c), *in.Quantity)
	return h.respond(c, out, err)
}

// RemoveLine godoc
// @Summary      Eliminar la línea
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la línea (escapado)"
// @Success      200  {object}  dto.CartMutationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cart/lines/{id} [delete]
func (h *CartHandler) RemoveLine(c *fiber.Ctx) error {
	out, err := h.cart.Remove(c.UserContext(), lineIDParam(c))
	return h.respond(c, out, err)
}

// Availability godoc
// @Summary      Máximo de unidades para la línea y cuántas más se pueden agregar
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la línea (escapado)"
// @Success      200  {object}  dto.AvailabilityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/cart/lines/{id}/availability [get]
func (h *CartHandler) Availability(c *fiber.Ctx) error {
	id := lineIDParam(c)
	la, err := h.cart.AvailabilityForLine(id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := dto.AvailabilityResponse{LineID: id, Quantity: la.Quantity, Unlimited: la.Ceiling.IsUnlimited(), Bottleneck: la.Ceiling.Bottleneck}
	if !out.Unlimited {
		out.MaxQuantity = la.Ceiling.Units
		out.Additional = la.Additional()
	}
	return c.JSON(out)
}

func (h *CartHandler) respond(c *fiber.Ctx, out cart.Outcome, err error) error {
	if err != nil {
		return writeError(c, h.log, err)
	}
	if out.Rejected() {
		return writeRejection(c, out.Rejection)
	}
	return c.JSON(toMutationResponse(h.cart, out))
}
