package repository

import (
	"context"

	"github.com/jhoicas/cafe-pos/internal/domain/entity"
)

// RecipeRepository puerto de lectura de recetas con sus porciones e ingredientes.
type RecipeRepository interface {
	List(ctx context.Context) ([]entity.Recipe, error)
}
