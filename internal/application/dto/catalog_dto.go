package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type StockEntryResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	Unit            string          `json:"unit"`
	Quantity        decimal.Decimal `json:"quantity"`
	Perishable      bool            `json:"perishable"`
	AverageUnitCost decimal.Decimal `json:"average_unit_cost"`
	AddonPrice      decimal.Decimal `json:"addon_price"`
}

type IngredientResponse struct {
	StockEntryID string          `json:"stock_entry_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
}

// ServingResponse porción con disponibilidad en vivo (descontando lo que ya está en el carrito).
type ServingResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Price       decimal.Decimal      `json:"price"`
	Cost        *decimal.Decimal     `json:"cost,omitempty"` // costo de ingredientes al costo promedio
	Available   *int                 `json:"available,omitempty"`
	Unlimited   bool                 `json:"unlimited"`
	Bottleneck  string               `json:"bottleneck,omitempty"`
	Error       string               `json:"error,omitempty"` // falla de integridad de datos
	Ingredients []IngredientResponse `json:"ingredients"`
}

type RecipeResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Servings    []ServingResponse `json:"servings"`
}

// StockMovementResponse entrada del libro de movimientos de un insumo.
type StockMovementResponse struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id,omitempty"`
	Type      string          `json:"type"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	TotalCost decimal.Decimal `json:"total_cost"`
	CreatedAt time.Time       `json:"created_at"`
	CreatedBy string          `json:"created_by,omitempty"`
}
