package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cafe-pos/internal/application/cart"
	"github.com/jhoicas/cafe-pos/internal/application/catalog"
	"github.com/jhoicas/cafe-pos/internal/application/dto"
	"github.com/jhoicas/cafe-pos/internal/domain"
	"github.com/jhoicas/cafe-pos/internal/domain/entity"
	"github.com/jhoicas/cafe-pos/internal/domain/recipe"
	"github.com/jhoicas/cafe-pos/pkg/logger"
)

// RecipeHandler vista previa de ediciones de recetas (no persiste).
type RecipeHandler struct {
	catalog *catalog.Snapshot
	cart    *cart.Cart
	log     *logger.Logger
}

func NewRecipeHandler(snap *catalog.Snapshot, c *cart.Cart, log *logger.Logger) *RecipeHandler {
	return &RecipeHandler{catalog: snap, cart: c, log: log}
}

// Preview godoc
// @Summary      Aplica ediciones tipadas a una receta y la valida contra el inventario
// @Tags         recipes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                    true  "ID de la receta"
// @Param        body  body  dto.RecipePreviewRequest  true  "ediciones"
// @Success      200   {object}  dto.RecipePreviewResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/recipes/{id}/preview [post]
func (h *RecipeHandler) Preview(c *fiber.Ctx) error {
	var in dto.RecipePreviewRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	r, ok := h.catalog.Recipe(c.Params("id"))
	if !ok {
		return writeError(c, h.log, fmt.Errorf("%w: receta %s", domain.ErrNotFound, c.Params("id")))
	}
	edits := make([]recipe.Edit, 0, len(in.Edits))
	for i, e := range in.Edits {
		edit, err := toEdit(e)
		if err != nil {
			return writeError(c, h.log, fmt.Errorf("edición %d: %w", i, err))
		}
		edits = append(edits, edit)
	}
	edited, err := recipe.Apply(r, edits...)
	if err != nil {
		return writeError(c, h.log, err)
	}
	issues := recipe.Validate(edited, h.cart.Stock())
	return c.JSON(dto.RecipePreviewResponse{
		Recipe: toRecipeResponse(edited),
		Issues: toIssueResponses(issues),
		Valid:  !recipe.HasErrors(issues),
	})
}

func toEdit(e dto.RecipeEditRequest) (recipe.Edit, error) {
	switch e.Op {
	case "set_recipe_name":
		return recipe.SetRecipeName{Name: e.Value}, nil
	case "set_recipe_description":
		return recipe.SetRecipeDescription{Description: e.Value}, nil
	case "add_serving":
		return recipe.AddServing{Serving: entity.Serving{Name: e.Value, Price: e.Price}}, nil
	case "remove_serving":
		return recipe.RemoveServing{Index: e.ServingIndex}, nil
	case "set_serving_name":
		return recipe.SetServingName{Index: e.ServingIndex, Name: e.Value}, nil
	case "set_serving_price":
		return recipe.SetServingPrice{Index: e.ServingIndex, Price: e.Price}, nil
	case "add_ingredient":
		return recipe.AddIngredient{ServingIndex: e.ServingIndex, Ingredient: entity.RecipeIngredient{
			StockEntryID: e.StockEntryID, Quantity: e.Quantity, Unit: e.Unit,
		}}, nil
	case "remove_ingredient":
		return recipe.RemoveIngredient{ServingIndex: e.ServingIndex, Index: e.IngredientIndex}, nil
	case "set_ingredient_stock_entry":
		return recipe.SetIngredientStockEntry{ServingIndex: e.ServingIndex, Index: e.IngredientIndex, StockEntryID: e.StockEntryID}, nil
	case "set_ingredient_quantity":
		return recipe.SetIngredientQuantity{ServingIndex: e.ServingIndex, Index: e.IngredientIndex, Quantity: e.Quantity}, nil
	case "set_ingredient_unit":
		return recipe.SetIngredientUnit{ServingIndex: e.ServingIndex, Index: e.IngredientIndex, Unit: e.Unit}, nil
	}
	return nil, fmt.Errorf("%w: operación desconocida %q", domain.ErrInvalidInput, e.Op)
}
