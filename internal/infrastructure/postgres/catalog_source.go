package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/cafe-pos/internal/application/catalog"
	"github.com/jhoicas/cafe-pos/internal/domain/entity"
)

var _ catalog.Source = (*CatalogSource)(nil)

// CatalogSource fuente del catálogo en PostgreSQL (insumos + recetas).
type CatalogSource struct {
	stock   *StockRepo
	recipes *RecipeRepo
}

// NewCatalogSource construye la fuente sobre el pool; LoadUseCase consulta ambas tablas en paralelo.
func NewCatalogSource(pool *pgxpool.Pool) *CatalogSource {
	return &CatalogSource{stock: NewStockRepository(pool), recipes: NewRecipeRepository(pool)}
}

func (s *CatalogSource) ListStockEntries(ctx context.Context) ([]entity.StockEntry, error) {
	return s.stock.List(ctx)
}

func (s *CatalogSource) ListRecipes(ctx context.Context) ([]entity.Recipe, error) {
	return s.recipes.List(ctx)
}
