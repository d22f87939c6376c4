package broker

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-pos/internal/domain/entity"
)

// OrderMessage cuerpo JSON publicado por cada orden finalizada.
type OrderMessage struct {
	OrderID     string               `json:"order_id"`
	OperatorID  string               `json:"operator_id,omitempty"`
	OrderType   string               `json:"order_type"`
	Note        string               `json:"note,omitempty"`
	Subtotal    decimal.Decimal      `json:"subtotal"`
	DiscountPct decimal.Decimal      `json:"discount_pct"`
	Total       decimal.Decimal      `json:"total"`
	Cost        decimal.Decimal      `json:"cost"`
	Lines       []OrderLineMessage   `json:"lines"`
	Consumption []ConsumptionMessage `json:"consumption"`
	CreatedAt   time.Time            `json:"created_at"`
}

type OrderLineMessage struct {
	LineID    string          `json:"line_id"`
	RecipeID  string          `json:"recipe_id"`
	ServingID string          `json:"serving_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
	Addons    []AddonMessage  `json:"addons,omitempty"`
}

type AddonMessage struct {
	StockEntryID string          `json:"stock_entry_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
}

type ConsumptionMessage struct {
	StockEntryID string          `json:"stock_entry_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
}

// NewOrderMessage convierte la orden de dominio al formato publicado.
func NewOrderMessage(o *entity.Order) OrderMessage {
	msg := OrderMessage{
		OrderID:     o.ID,
		OperatorID:  o.OperatorID,
		OrderType:   o.Type,
		Note:        o.Note,
		Subtotal:    o.Subtotal,
		DiscountPct: o.DiscountPct,
		Total:       o.Total,
		Cost:        o.Cost,
		Lines:       make([]OrderLineMessage, 0, len(o.Lines)),
		Consumption: make([]ConsumptionMessage, 0, len(o.Consumption)),
		CreatedAt:   o.CreatedAt,
	}
	for _, l := range o.Lines {
		name := l.RecipeName
		if l.ServingName != "" {
			name += " " + l.ServingName
		}
		lm := OrderLineMessage{
			LineID:    l.LineID,
			RecipeID:  l.RecipeID,
			ServingID: l.ServingID,
			Name:      name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Total:     l.Total,
		}
		for _, a := range l.Addons {
			lm.Addons = append(lm.Addons, AddonMessage{StockEntryID: a.StockEntryID, Quantity: a.Quantity, Unit: a.Unit})
		}
		msg.Lines = append(msg.Lines, lm)
	}
	for _, c := range o.Consumption {
		msg.Consumption = append(msg.Consumption, ConsumptionMessage{StockEntryID: c.StockEntryID, Quantity: c.Quantity, Unit: c.Unit})
	}
	return msg
}
