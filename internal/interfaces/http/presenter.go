package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cafe-pos/internal/application/cart"
	"github.com/jhoicas/cafe-pos/internal/application/dto"
	"github.com/jhoicas/cafe-pos/internal/domain/entity"
	"github.com/jhoicas/cafe-pos/internal/domain/recipe"
)

// lineIDParam el ID de línea incluye "/" y llega escapado (%2F) en la ruta.
func lineIDParam(c *fiber.Ctx) string {
	raw := c.Params("id")
	id, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return id
}

func toCartLineResponse(l entity.CartLine) dto.CartLineResponse {
	out := dto.CartLineResponse{
		ID:          l.ID,
		RecipeID:    l.Recipe.ID,
		RecipeName:  l.Recipe.Name,
		ServingID:   l.Serving.ID,
		ServingName: l.Serving.Name,
		Quantity:    l.Quantity,
		UnitPrice:   l.UnitPrice(),
		Total:       l.Total(),
	}
	for _, a := range l.Addons {
		out.Addons = append(out.Addons, dto.AddonResponse{
			StockEntryID: a.StockEntryID,
			Quantity:     a.Quantity,
			Unit:         a.Unit,
			Category:     string(a.Category),
			UnitPrice:    a.UnitPrice,
		})
	}
	return out
}

// toCartResponse incluye el máximo de cada línea; se omite si es ilimitado o no se pudo calcular.
func toCartResponse(c *cart.Cart) dto.CartResponse {
	lines := c.Lines()
	out := dto.CartResponse{Lines: make([]dto.CartLineResponse, 0, len(lines)), Subtotal: c.Subtotal()}
	for _, l := range lines {
		lr := toCartLineResponse(l)
		if la, err := c.AvailabilityForLine(l.ID); err == nil && !la.Ceiling.IsUnlimited() {
			ceiling := la.Ceiling.Units
			lr.MaxQuantity = &ceiling
		}
		out.Lines = append(out.Lines, lr)
	}
	return out
}

func toMutationResponse(c *cart.Cart, out cart.Outcome) dto.CartMutationResponse {
	resp := dto.CartMutationResponse{Removed: out.Removed, Cart: toCartResponse(c)}
	if out.Line != nil {
		lr := toCartLineResponse(*out.Line)
		resp.Line = &lr
	}
	if out.PersistErr != nil {
		resp.PersistWarning = "el carrito no se pudo guardar, el cambio solo está en memoria"
	}
	return resp
}

func toRecipeResponse(r entity.Recipe) dto.RecipeResponse {
	out := dto.RecipeResponse{ID: r.ID, Name: r.Name, Description: r.Description, Servings: make([]dto.ServingResponse, 0, len(r.Servings))}
	for _, s := range r.Servings {
		sr := dto.ServingResponse{ID: s.ID, Name: s.Name, Price: s.Price, Ingredients: make([]dto.IngredientResponse, 0, len(s.Ingredients))}
		for _, ing := range s.Ingredients {
			sr.Ingredients = append(sr.Ingredients, dto.IngredientResponse{StockEntryID: ing.StockEntryID, Quantity: ing.Quantity, Unit: ing.Unit})
		}
		out.Servings = append(out.Servings, sr)
	}
	return out
}

func toIssueResponses(issues []recipe.Issue) []dto.RecipeIssueResponse {
	out := make([]dto.RecipeIssueResponse, 0, len(issues))
	for _, is := range issues {
		out = append(out, dto.RecipeIssueResponse{
			Severity:        string(is.Severity),
			Code:            is.Code,
			ServingID:       is.ServingID,
			ServingIndex:    is.ServingIndex,
			IngredientIndex: is.IngredientIndex,
			Message:         is.Message,
		})
	}
	return out
}

func toOrderResponse(o *entity.Order) dto.OrderResponse {
	out := dto.OrderResponse{
		ID:          o.ID,
		OrderType:   o.Type,
		Note:        o.Note,
		Lines:       make([]dto.OrderLineResponse, 0, len(o.Lines)),
		Consumption: make([]dto.StockConsumptionResponse, 0, len(o.Consumption)),
		Subtotal:    o.Subtotal,
		DiscountPct: o.DiscountPct,
		Total:       o.Total,
		CreatedAt:   o.CreatedAt,
	}
	for _, l := range o.Lines {
		out.Lines = append(out.Lines, dto.OrderLineResponse{
			LineID:      l.LineID,
			RecipeName:  l.RecipeName,
			ServingName: l.ServingName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Total:       l.Total,
		})
	}
	for _, c := range o.Consumption {
		out.Consumption = append(out.Consumption, dto.StockConsumptionResponse{StockEntryID: c.StockEntryID, Quantity: c.Quantity, Unit: c.Unit})
	}
	return out
}
