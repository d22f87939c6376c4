package dto

import "github.com/shopspring/decimal"

// AddonRequest insumo extra pedido para una línea. El precio lo resuelve el servidor.
type AddonRequest struct {
	StockEntryID string          `json:"stock_entry_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
}

// AddLineRequest body para POST /api/cart/lines.
type AddLineRequest struct {
	RecipeID  string         `json:"recipe_id"`
	ServingID string         `json:"serving_id"`
	Addons    []AddonRequest `json:"addons,omitempty"`
}

// SetQuantityRequest body para PUT /api/cart/lines/:id.
type SetQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

type AddonResponse struct {
	StockEntryID string          `json:"stock_entry_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	Category     string          `json:"category"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

// CartLineResponse línea del carrito con su máximo permitido.
type CartLineResponse struct {
	ID          string          `json:"id"`
	RecipeID    string          `json:"recipe_id"`
	RecipeName  string          `json:"recipe_name"`
	ServingID   string          `json:"serving_id"`
	ServingName string          `json:"serving_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
	Addons      []AddonResponse `json:"addons,omitempty"`
	MaxQuantity *int            `json:"max_quantity,omitempty"` // nil = sin cota
}

// CartResponse contenido del carrito.
type CartResponse struct {
	Lines    []CartLineResponse `json:"lines"`
	Subtotal decimal.Decimal    `json:"subtotal"`
}

// CartMutationResponse resultado de una mutación aceptada.
type CartMutationResponse struct {
	Line           *CartLineResponse `json:"line,omitempty"`
	Removed        bool              `json:"removed"`
	Cart           CartResponse      `json:"cart"`
	PersistWarning string            `json:"persist_warning,omitempty"`
}

// AvailabilityResponse respuesta de GET /api/cart/lines/:id/availability.
type AvailabilityResponse struct {
	LineID      string `json:"line_id"`
	Quantity    int    `json:"quantity"`
	MaxQuantity int    `json:"max_quantity"`
	Additional  int    `json:"additional"`
	Unlimited   bool   `json:"unlimited"`
	Bottleneck  string `json:"bottleneck,omitempty"`
}
