package entity

import "github.com/shopspring/decimal"

// Recipe producto del menú compuesto por una o más porciones (Serving).
type Recipe struct {
	ID          string
	Name        string
	Description string
	Servings    []Serving
}

// Serving variante vendible de una receta con su precio e ingredientes.
// Solo lectura para el motor; se edita únicamente desde la gestión de recetas.
type Serving struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	Ingredients []RecipeIngredient
}

// RecipeIngredient cantidad de un insumo requerida por porción.
// Unit puede diferir de la unidad almacenada del insumo pero debe ser de la misma categoría.
type RecipeIngredient struct {
	StockEntryID string
	Quantity     decimal.Decimal
	Unit         string
}

// Requirement consumo de un insumo por cada unidad vendida.
// Category vacío significa "la categoría del insumo referenciado".
type Requirement struct {
	StockEntryID string
	Quantity     decimal.Decimal
	Unit         string
	Category     Category
}

// Serving busca una porción por ID.
func (r Recipe) Serving(id string) (Serving, bool) {
	for _, s := range r.Servings {
		if s.ID == id {
			return s, true
		}
	}
	return Serving{}, false
}

// Clone copia profunda de la receta.
func (r Recipe) Clone() Recipe {
	out := r
	if r.Servings != nil {
		out.Servings = make([]Serving, len(r.Servings))
		for i, s := range r.Servings {
			out.Servings[i] = s.Clone()
		}
	}
	return out
}

// Header copia de la receta sin porciones (snapshot que guarda el carrito).
func (r Recipe) Header() Recipe {
	return Recipe{ID: r.ID, Name: r.Name, Description: r.Description}
}

// Clone copia profunda de la porción.
func (s Serving) Clone() Serving {
	out := s
	if s.Ingredients != nil {
		out.Ingredients = append([]RecipeIngredient(nil), s.Ingredients...)
	}
	return out
}

// Requirements consumo por unidad vendida según la receta.
func (s Serving) Requirements() []Requirement {
	reqs := make([]Requirement, 0, len(s.Ingredients))
	for _, ing := range s.Ingredients {
		reqs = append(reqs, Requirement{
			StockEntryID: ing.StockEntryID,
			Quantity:     ing.Quantity,
			Unit:         ing.Unit,
		})
	}
	return reqs
}
