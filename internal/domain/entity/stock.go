package entity

import "github.com/shopspring/decimal"

// Category categoría de medida de un insumo. Cada categoría tiene su propia unidad base.
type Category string

const (
	CategoryLiquid Category = "liquid" // base: ml
	CategoryPowder Category = "powder" // base: g
	CategoryItem   Category = "item"   // base: pcs
)

// Valid indica si la categoría es una de las soportadas.
func (c Category) Valid() bool {
	switch c {
	case CategoryLiquid, CategoryPowder, CategoryItem:
		return true
	}
	return false
}

// StockEntry representa un insumo del inventario de la cafetería.
// Quantity siempre se expresa en Unit (la unidad almacenada del insumo) y nunca es negativa.
type StockEntry struct {
	ID              string
	Name            string
	Category        Category
	Unit            string
	Quantity        decimal.Decimal
	Perishable      bool
	AverageUnitCost decimal.Decimal // costo promedio ponderado por unidad almacenada
	AddonPrice      decimal.Decimal // precio de venta como adicional por unidad almacenada; cero = sin cargo
}

// OnHand devuelve la cantidad disponible, nunca negativa.
func (s StockEntry) OnHand() decimal.Decimal {
	if s.Quantity.IsNegative() {
		return decimal.Zero
	}
	return s.Quantity
}
