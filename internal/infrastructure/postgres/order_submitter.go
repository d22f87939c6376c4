package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/cafe-pos/internal/application/checkout"
	"github.com/jhoicas/cafe-pos/internal/domain"
	"github.com/jhoicas/cafe-pos/internal/domain/entity"
	"github.com/jhoicas/cafe-pos/internal/domain/repository"
	"github.com/jhoicas/cafe-pos/internal/domain/units"
	"github.com/jhoicas/cafe-pos/pkg/logger"
)

var _ checkout.OrderSubmitter = (*OrderSubmitter)(nil)

var _ Runner = (*TxRunner)(nil)

// Runner abre una transacción con los repos de órdenes, stock y movimientos.
type Runner interface {
	Run(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// OrderSubmitter registra la orden, descuenta el consumo y deja un movimiento SALE por
// insumo, todo en una sola transacción.
// El stock de la base es la fuente de verdad: si otra caja vendió primero la orden se
// rechaza con ErrInsufficientStock y no queda nada escrito.
type OrderSubmitter struct {
	tx  Runner
	log *logger.Logger
}

func NewOrderSubmitter(tx Runner, log *logger.Logger) *OrderSubmitter {
	if log == nil {
		log = logger.Nop()
	}
	return &OrderSubmitter{tx: tx, log: log}
}

func (s *OrderSubmitter) Submit(ctx context.Context, o *entity.Order) error {
	return s.tx.Run(ctx, func(orders repository.OrderRepository, stock repository.StockRepository, movements repository.StockMovementRepository) error {
		if err := orders.Create(ctx, o); err != nil {
			return err
		}
		// El consumo llega ordenado por insumo, así dos cajas bloquean filas en el mismo orden.
		for _, c := range o.Consumption {
			entry, err := stock.GetForUpdate(ctx, c.StockEntryID)
			if err != nil {
				return err
			}
			qty := c.Quantity
			if c.Unit != "" && c.Unit != entry.Unit {
				qty, err = units.Convert(entry.Category, c.Unit, entry.Unit, c.Quantity)
				if err != nil {
					return err
				}
			}
			if entry.OnHand().LessThan(qty) {
				s.log.Warn().
					Str("order_id", o.ID).
					Str("stock_entry_id", entry.ID).
					Str("on_hand", entry.OnHand().String()).
					Str("required", qty.String()).
					Msg("stock insuficiente al registrar la orden")
				return fmt.Errorf("%w: %s", domain.ErrInsufficientStock, entry.ID)
			}
			if err := stock.Decrement(ctx, entry.ID, qty); err != nil {
				return err
			}
			err = movements.Create(ctx, &entity.StockMovement{
				OrderID:      o.ID,
				StockEntryID: entry.ID,
				Type:         entity.MovementTypeSale,
				Quantity:     qty.Neg(),
				Unit:         entry.Unit,
				UnitCost:     entry.AverageUnitCost,
				TotalCost:    qty.Mul(entry.AverageUnitCost).Round(2),
				CreatedAt:    o.CreatedAt,
				CreatedBy:    o.OperatorID,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}
