package cart

import (
	"context"

	"github.com/jhoicas/cafe-pos/internal/domain/entity"
)

// Store capacidad de persistencia del carrito bajo una clave fija.
// Save es write-through y de mejor esfuerzo: no hay garantía transaccional.
type Store interface {
	Load(ctx context.Context) ([]entity.CartLine, error)
	Save(ctx context.Context, lines []entity.CartLine) error
}
