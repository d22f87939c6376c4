package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cafe-pos/internal/application/cart"
	"github.com/jhoicas/cafe-pos/internal/application/catalog"
	"github.com/jhoicas/cafe-pos/internal/application/dto"
	"github.com/jhoicas/cafe-pos/internal/domain/inventory"
	"github.com/jhoicas/cafe-pos/pkg/logger"
)

// CatalogHandler menú con disponibilidad en vivo e inventario de la sesión.
type CatalogHandler struct {
	catalog *catalog.Snapshot
	cart    *cart.Cart
	log     *logger.Logger
}

func NewCatalogHandler(snap *catalog.Snapshot, c *cart.Cart, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: snap, cart: c, log: log}
}

// ListRecipes godoc
// @Summary      Recetas con unidades vendibles por porción (descontando el carrito)
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.RecipeResponse
// @Router       /api/catalog/recipes [get]
func (h *CatalogHandler) ListRecipes(c *fiber.Ctx) error {
	stock := h.cart.Stock()
	recipes := h.catalog.Recipes()
	out := make([]dto.RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		rr := toRecipeResponse(r)
		for i, s := range r.Servings {
			sr := &rr.Servings[i]
			if cost, err := inventory.ServingCost(s.Requirements(), stock); err == nil {
				sr.Cost = &cost
			}
			sel, err := h.catalog.Selection(r.ID, s.ID, nil)
			if err != nil {
				sr.Error = err.Error()
				continue
			}
			res, err := h.cart.AvailabilityFor(sel)
			if err != nil {
				// Integridad de datos: la porción se muestra pero no se puede vender.
				sr.Error = err.Error()
				continue
			}
			if res.IsUnlimited() {
				sr.Unlimited = true
				continue
			}
			units := res.Units
			sr.Available = &units
			sr.Bottleneck = res.Bottleneck
		}
		out = append(out, rr)
	}
	return c.JSON(out)
}

// ListStock godoc
// @Summary      Inventario de la sesión (snapshot menos lo ya vendido)
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.StockEntryResponse
// @Router       /api/catalog/stock [get]
func (h *CatalogHandler) ListStock(c *fiber.Ctx) error {
	stock := h.cart.Stock()
	entries := h.catalog.StockEntries()
	out := make([]dto.StockEntryResponse, 0, len(entries))
	for _, e := range entries {
		if cur, ok := stock[e.ID]; ok {
			e = cur
		}
		out = append(out, dto.StockEntryResponse{
			ID:              e.ID,
			Name:            e.Name,
			Category:        string(e.Category),
			Unit:            e.Unit,
			Quantity:        e.Quantity,
			Perishable:      e.Perishable,
			AverageUnitCost: e.AverageUnitCost,
			AddonPrice:      e.AddonPrice,
		})
	}
	return c.JSON(out)
}
