package checkout

import (
	"context"

	"github.com/jhoicas/cafe-pos/internal/application/cart"
	"github.com/jhoicas/cafe-pos/internal/domain/entity"
)

// OrderSubmitter entrega la orden finalizada a la capa de persistencia de órdenes
// (transacción PostgreSQL o publicación en el broker).
type OrderSubmitter interface {
	Submit(ctx context.Context, order *entity.Order) error
}

// ReceiptGenerator genera el comprobante imprimible de una orden.
type ReceiptGenerator interface {
	GenerateReceipt(order *entity.Order) ([]byte, error)
}

// Cart capacidad del carrito que usa el checkout.
type Cart interface {
	Drain(ctx context.Context, fn func(lines []entity.CartLine, consumption []entity.StockConsumption) error) (cart.Outcome, error)
}

var _ Cart = (*cart.Cart)(nil)
