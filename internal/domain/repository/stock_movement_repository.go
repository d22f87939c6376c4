package repository

import (
	"context"
	"time"

	"github.com/jhoicas/cafe-pos/internal/domain/entity"
)

// StockMovementRepository puerto del libro de movimientos de insumos.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// ListByStockEntry movimientos más recientes primero; from y to son opcionales.
	ListByStockEntry(ctx context.Context, stockEntryID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
}
