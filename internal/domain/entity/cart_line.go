package entity

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Addon insumo extra agregado a una línea del carrito al momento de ordenar.
// Se consume igual que un RecipeIngredient pero solo aplica a esa línea.
type Addon struct {
	StockEntryID string
	Quantity     decimal.Decimal
	Unit         string
	Category     Category
	UnitPrice    decimal.Decimal // precio por unidad de Unit, lo fija el catálogo al agregarlo
}

// Requirement consumo del addon por unidad vendida de la línea.
func (a Addon) Requirement() Requirement {
	return Requirement{
		StockEntryID: a.StockEntryID,
		Quantity:     a.Quantity,
		Unit:         a.Unit,
		Category:     a.Category,
	}
}

// Price precio del addon por unidad vendida de la línea.
func (a Addon) Price() decimal.Decimal {
	return a.UnitPrice.Mul(a.Quantity)
}

// Selection configuración elegida en el POS: receta + porción + addons.
type Selection struct {
	Recipe  Recipe
	Serving Serving
	Addons  []Addon
}

// Key identidad compuesta de la configuración.
func (s Selection) Key() string {
	return LineKey(s.Recipe.ID, s.Serving.ID, s.Addons)
}

// Requirements consumo por unidad vendida (porción + addons).
func (s Selection) Requirements() []Requirement {
	return requirementsOf(s.Serving, s.Addons)
}

// CartLine una configuración reservada en el carrito con su cantidad.
// Recipe y Serving son snapshots inmutables tomados al crear la línea.
type CartLine struct {
	ID       string
	Quantity int
	Recipe   Recipe // sin porciones, ver Recipe.Header
	Serving  Serving
	Addons   []Addon
}

// Requirements consumo por unidad vendida de la línea.
func (l CartLine) Requirements() []Requirement {
	return requirementsOf(l.Serving, l.Addons)
}

// UnitPrice precio de una unidad: porción + addons.
func (l CartLine) UnitPrice() decimal.Decimal {
	price := l.Serving.Price
	for _, a := range l.Addons {
		price = price.Add(a.Price())
	}
	return price
}

// Total total simple de la línea (precio unitario * cantidad).
func (l CartLine) Total() decimal.Decimal {
	return l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Clone copia profunda de la línea.
func (l CartLine) Clone() CartLine {
	out := l
	out.Recipe = l.Recipe.Clone()
	out.Serving = l.Serving.Clone()
	if l.Addons != nil {
		out.Addons = append([]Addon(nil), l.Addons...)
	}
	return out
}

// keyEscaper escapa los separadores de LineKey dentro de cada componente para que
// IDs con '/', '+' o ':' no colisionen con otra configuración.
var keyEscaper = strings.NewReplacer("%", "%25", "/", "%2F", "+", "%2B", ":", "%3A")

// LineKey deriva la identidad de una línea a partir de receta, porción y addons.
// Los addons se ordenan por insumo, unidad y cantidad para que dos selecciones
// con la misma configuración se fusionen en una sola línea. El precio no forma parte
// de la clave: al fusionar se conserva el precio cacheado cuando se creó la línea.
func LineKey(recipeID, servingID string, addons []Addon) string {
	parts := make([]string, 0, len(addons))
	for _, a := range addons {
		unit := strings.ToLower(strings.TrimSpace(a.Unit))
		parts = append(parts, keyEscaper.Replace(a.StockEntryID)+":"+a.Quantity.String()+":"+keyEscaper.Replace(unit))
	}
	sort.Strings(parts)

	var b strings.Builder
	b.WriteString(keyEscaper.Replace(recipeID))
	b.WriteString("/")
	b.WriteString(keyEscaper.Replace(servingID))
	for _, p := range parts {
		b.WriteString("+")
		b.WriteString(p)
	}
	return b.String()
}

func requirementsOf(s Serving, addons []Addon) []Requirement {
	reqs := s.Requirements()
	for _, a := range addons {
		reqs = append(reqs, a.Requirement())
	}
	return reqs
}
