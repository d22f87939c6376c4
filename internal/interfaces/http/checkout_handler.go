package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cafe-pos/internal/application/checkout"
	"github.com/jhoicas/cafe-pos/internal/application/dto"
	"github.com/jhoicas/cafe-pos/pkg/logger"
)

// CheckoutHandler cierre de la venta.
type CheckoutHandler struct {
	uc  *checkout.SubmitOrderUseCase
	log *logger.Logger
}

func NewCheckoutHandler(uc *checkout.SubmitOrderUseCase, log *logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{uc: uc, log: log}
}

// Submit godoc
// @Summary      Envía la orden con el contenido del carrito y lo vacía
// @Description  Con Accept: application/pdf responde el comprobante en PDF.
// @Tags         checkout
// @Accept       json
// @Produce      json,application/pdf
// @Security     BearerAuth
// @Param        body  body  dto.SubmitOrderRequest  true  "tipo de orden, descuento, nota"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/checkout [post]
func (h *CheckoutHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	order, err := h.uc.Submit(c.UserContext(), GetOperatorID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}

	if strings.Contains(c.Get(fiber.HeaderAccept), "application/pdf") {
		pdf, err := h.uc.Receipt(order)
		if err != nil {
			// La orden ya quedó registrada: se responde JSON en vez de fallar.
			h.log.Warn().Err(err).Str("order_id", order.ID).Msg("no se pudo generar el comprobante")
			return c.Status(fiber.StatusCreated).JSON(toOrderResponse(order))
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, `inline; filename="orden-`+order.ID+`.pdf"`)
		return c.Status(fiber.StatusCreated).Send(pdf)
	}
	return c.Status(fiber.StatusCreated).JSON(toOrderResponse(order))
}
