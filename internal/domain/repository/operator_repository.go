package repository

import (
	"context"

	"github.com/jhoicas/cafe-pos/internal/domain/entity"
)

// OperatorRepository define el puerto de persistencia para los operadores de caja (DIP).
type OperatorRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.Operator, error)
	FindByID(ctx context.Context, id string) (*entity.Operator, error)
}
