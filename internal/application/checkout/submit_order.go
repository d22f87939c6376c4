// Package checkout empaqueta el carrito como orden y la entrega al endpoint de creación de órdenes.
package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-pos/internal/application/dto"
	"github.com/jhoicas/cafe-pos/internal/domain"
	"github.com/jhoicas/cafe-pos/internal/domain/entity"
	"github.com/jhoicas/cafe-pos/internal/domain/inventory"
	"github.com/jhoicas/cafe-pos/pkg/logger"
)

var hundred = decimal.NewFromInt(100)

// SubmitOrderUseCase convierte el carrito en una orden, la envía y vacía el carrito.
type SubmitOrderUseCase struct {
	cart      Cart
	stock     inventory.Stock
	submitter OrderSubmitter
	receipts  ReceiptGenerator
	log       *logger.Logger
	now       func() time.Time
}

// NewSubmitOrderUseCase construye el caso de uso. receipts puede ser nil.
func NewSubmitOrderUseCase(c Cart, stock inventory.Stock, submitter OrderSubmitter, receipts ReceiptGenerator, log *logger.Logger) *SubmitOrderUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SubmitOrderUseCase{
		cart:      c,
		stock:     stock,
		submitter: submitter,
		receipts:  receipts,
		log:       log,
		now:       time.Now,
	}
}

// Submit valida la solicitud, arma la orden desde el carrito y la entrega al OrderSubmitter.
// Si el envío falla el carrito no cambia.
func (uc *SubmitOrderUseCase) Submit(ctx context.Context, operatorID string, in dto.SubmitOrderRequest) (*entity.Order, error) {
	orderType := strings.TrimSpace(in.OrderType)
	if !entity.ValidOrderType(orderType) {
		return nil, fmt.Errorf("%w: tipo de orden %q", domain.ErrInvalidInput, in.OrderType)
	}
	if in.DiscountPct.IsNegative() || in.DiscountPct.GreaterThan(hundred) {
		return nil, fmt.Errorf("%w: el descuento debe estar entre 0 y 100", domain.ErrInvalidInput)
	}

	var order *entity.Order
	out, err := uc.cart.Drain(ctx, func(lines []entity.CartLine, consumption []entity.StockConsumption) error {
		order = uc.buildOrder(operatorID, orderType, in, lines, consumption)
		return uc.submitter.Submit(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	if out.PersistErr != nil {
		uc.log.Warn().Err(out.PersistErr).Str("order_id", order.ID).Msg("orden enviada pero el carrito vacío no se pudo persistir")
	}
	uc.log.Info().
		Str("order_id", order.ID).
		Str("operator_id", operatorID).
		Int("lines", len(order.Lines)).
		Str("total", order.Total.StringFixed(2)).
		Msg("orden enviada")
	return order, nil
}

// Receipt genera el comprobante de una orden ya enviada.
func (uc *SubmitOrderUseCase) Receipt(order *entity.Order) ([]byte, error) {
	if uc.receipts == nil {
		return nil, fmt.Errorf("%w: generador de comprobantes no configurado", domain.ErrInvalidInput)
	}
	return uc.receipts.GenerateReceipt(order)
}

func (uc *SubmitOrderUseCase) buildOrder(operatorID, orderType string, in dto.SubmitOrderRequest, lines []entity.CartLine, consumption []entity.StockConsumption) *entity.Order {
	order := &entity.Order{
		ID:          uuid.New().String(),
		OperatorID:  operatorID,
		Type:        orderType,
		Note:        strings.TrimSpace(in.Note),
		Lines:       make([]entity.OrderLine, 0, len(lines)),
		Consumption: consumption,
		Subtotal:    decimal.Zero,
		DiscountPct: in.DiscountPct,
		CreatedAt:   uc.now(),
	}
	for _, l := range lines {
		ol := entity.OrderLine{
			LineID:      l.ID,
			RecipeID:    l.Recipe.ID,
			RecipeName:  l.Recipe.Name,
			ServingID:   l.Serving.ID,
			ServingName: l.Serving.Name,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice(),
			Total:       l.Total(),
			Addons:      l.Addons,
		}
		order.Lines = append(order.Lines, ol)
		order.Subtotal = order.Subtotal.Add(ol.Total)
	}
	discount := order.Subtotal.Mul(in.DiscountPct).Div(hundred)
	order.Total = order.Subtotal.Sub(discount).Round(2)
	order.Cost = inventory.CostOf(consumption, uc.stock).Round(2)
	return order
}
