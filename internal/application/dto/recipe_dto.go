package dto

import "github.com/shopspring/decimal"

// RecipeEditRequest una edición tipada. Op define qué campos aplican:
//
//	set_recipe_name, set_recipe_description            → value
//	add_serving                                        → value (nombre), price
//	remove_serving                                     → serving_index
//	set_serving_name / set_serving_price               → serving_index, value / price
//	add_ingredient                                     → serving_index, stock_entry_id, quantity, unit
//	remove_ingredient                                  → serving_index, ingredient_index
//	set_ingredient_stock_entry / _quantity / _unit     → serving_index, ingredient_index, stock_entry_id / quantity / unit
type RecipeEditRequest struct {
	Op              string          `json:"op"`
	ServingIndex    int             `json:"serving_index"`
	IngredientIndex int             `json:"ingredient_index"`
	Value           string          `json:"value,omitempty"`
	Price           decimal.Decimal `json:"price"`
	StockEntryID    string          `json:"stock_entry_id,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit,omitempty"`
}

// RecipePreviewRequest body para POST /api/recipes/:id/preview.
type RecipePreviewRequest struct {
	Edits []RecipeEditRequest `json:"edits"`
}

type RecipeIssueResponse struct {
	Severity        string `json:"severity"`
	Code            string `json:"code"`
	ServingID       string `json:"serving_id,omitempty"`
	ServingIndex    int    `json:"serving_index"`
	IngredientIndex int    `json:"ingredient_index"`
	Message         string `json:"message"`
}

// RecipePreviewResponse receta resultante (sin persistir) y hallazgos de validación.
type RecipePreviewResponse struct {
	Recipe RecipeResponse        `json:"recipe"`
	Issues []RecipeIssueResponse `json:"issues"`
	Valid  bool                  `json:"valid"`
}
