package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de orden aceptados en caja.
const (
	OrderTypeDineIn   = "dine_in"
	OrderTypeTakeAway = "take_away"
	OrderTypeDelivery = "delivery"
)

// ValidOrderType indica si t es un tipo de orden soportado.
func ValidOrderType(t string) bool {
	switch t {
	case OrderTypeDineIn, OrderTypeTakeAway, OrderTypeDelivery:
		return true
	}
	return false
}

// Order orden finalizada que se envía al endpoint de creación de órdenes.
type Order struct {
	ID          string
	OperatorID  string
	Type        string
	Note        string
	Lines       []OrderLine
	Consumption []StockConsumption // consumo total por insumo en su unidad almacenada
	Subtotal    decimal.Decimal
	DiscountPct decimal.Decimal // 0..100
	Total       decimal.Decimal
	Cost        decimal.Decimal // costo de ingredientes al costo promedio
	CreatedAt   time.Time
}

// OrderLine línea de la orden (copia de la línea del carrito).
type OrderLine struct {
	LineID      string
	RecipeID    string
	RecipeName  string
	ServingID   string
	ServingName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
	Addons      []Addon
}

// StockConsumption cantidad de un insumo descontada por la orden.
type StockConsumption struct {
	StockEntryID string
	Quantity     decimal.Decimal
	Unit         string
}
