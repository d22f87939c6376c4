package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-pos/internal/domain/entity"
	"github.com/jhoicas/cafe-pos/internal/domain/repository"
)

var _ repository.RecipeRepository = (*RecipeRepo)(nil)

// RecipeRepo lee recetas con porciones e ingredientes en una sola consulta.
type RecipeRepo struct {
	q Querier
}

func NewRecipeRepository(q Querier) *RecipeRepo {
	return &RecipeRepo{q: q}
}

// List arma las recetas respetando el orden de porciones (position) y de ingredientes.
func (r *RecipeRepo) List(ctx context.Context) ([]entity.Recipe, error) {
	query := `
		SELECT r.id, r.name, COALESCE(r.description, ''),
		       s.id, s.name, s.price,
		       i.stock_entry_id, i.quantity, i.unit
		FROM recipes r
		LEFT JOIN servings s ON s.recipe_id = r.id
		LEFT JOIN serving_ingredients i ON i.serving_id = s.id
		WHERE r.active
		ORDER BY r.name, r.id, s.position, s.id, i.position`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var (
		out       []entity.Recipe
		recipeIdx = map[string]int{}
	)
	for rows.Next() {
		var (
			rec                    entity.Recipe
			servingID, servingName *string
			price                  decimal.NullDecimal
			stockEntryID, unit     *string
			quantity               decimal.NullDecimal
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Description,
			&servingID, &servingName, &price,
			&stockEntryID, &quantity, &unit); err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}

		ri, ok := recipeIdx[rec.ID]
		if !ok {
			out = append(out, rec)
			ri = len(out) - 1
			recipeIdx[rec.ID] = ri
		}
		if servingID == nil {
			continue
		}
		recipe := &out[ri]
		si := len(recipe.Servings) - 1
		if si < 0 || recipe.Servings[si].ID != *servingID {
			recipe.Servings = append(recipe.Servings, entity.Serving{ID: *servingID, Name: deref(servingName), Price: price.Decimal})
			si = len(recipe.Servings) - 1
		}
		if stockEntryID == nil {
			continue
		}
		recipe.Servings[si].Ingredients = append(recipe.Servings[si].Ingredients, entity.RecipeIngredient{
			StockEntryID: *stockEntryID,
			Quantity:     quantity.Decimal,
			Unit:         deref(unit),
		})
	}
	return out, rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
