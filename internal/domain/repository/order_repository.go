package repository

import (
	"context"

	"github.com/jhoicas/cafe-pos/internal/domain/entity"
)

// OrderRepository persistencia de órdenes (cabecera + líneas).
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
}
