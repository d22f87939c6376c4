package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubmitOrderRequest body para POST /api/checkout.
type SubmitOrderRequest struct {
	OrderType   string          `json:"order_type"` // dine_in, take_away, delivery
	DiscountPct decimal.Decimal `json:"discount_pct"`
	Note        string          `json:"note,omitempty"`
}

type OrderLineResponse struct {
	LineID      string          `json:"line_id"`
	RecipeName  string          `json:"recipe_name"`
	ServingName string          `json:"serving_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

type StockConsumptionResponse struct {
	StockEntryID string          `json:"stock_entry_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
}

// OrderResponse orden enviada.
type OrderResponse struct {
	ID          string                     `json:"id"`
	OrderType   string                     `json:"order_type"`
	Note        string                     `json:"note,omitempty"`
	Lines       []OrderLineResponse        `json:"lines"`
	Consumption []StockConsumptionResponse `json:"consumption"`
	Subtotal    decimal.Decimal            `json:"subtotal"`
	DiscountPct decimal.Decimal            `json:"discount_pct"`
	Total       decimal.Decimal            `json:"total"`
	CreatedAt   time.Time                  `json:"created_at"`
}
