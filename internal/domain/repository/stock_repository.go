package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-pos/internal/domain/entity"
)

// StockRepository puerto para consultar y descontar insumos.
// Decrement y GetForUpdate se usan dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	List(ctx context.Context) ([]entity.StockEntry, error)
	// GetForUpdate bloquea la fila del insumo (SELECT FOR UPDATE). Devuelve ErrNotFound si no existe.
	GetForUpdate(ctx context.Context, id string) (*entity.StockEntry, error)
	Decrement(ctx context.Context, id string, qty decimal.Decimal) error
}
