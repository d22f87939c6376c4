// Package units convierte cantidades entre unidades de una misma categoría de medida
// pasando siempre por la unidad base de la categoría (ml, g, pcs).
package units

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-pos/internal/domain"
	"github.com/jhoicas/cafe-pos/internal/domain/entity"
)

// Orden fijo de búsqueda entre categorías (determinismo en los mensajes de error).
var categories = []entity.Category{entity.CategoryLiquid, entity.CategoryPowder, entity.CategoryItem}

var baseUnits = map[entity.Category]string{
	entity.CategoryLiquid: "ml",
	entity.CategoryPowder: "g",
	entity.CategoryItem:   "pcs",
}

// Multiplicadores constantes: cantidad * multiplicador = cantidad en unidad base.
var tables = map[entity.Category]map[string]decimal.Decimal{
	entity.CategoryLiquid: {
		"ml":   decimal.NewFromInt(1),
		"cl":   decimal.NewFromInt(10),
		"dl":   decimal.NewFromInt(100),
		"l":    decimal.NewFromInt(1000),
		"tsp":  decimal.RequireFromString("4.92892159375"),
		"tbsp": decimal.RequireFromString("14.78676478125"),
		"floz": decimal.RequireFromString("29.5735295625"),
		"cup":  decimal.RequireFromString("236.5882365"),
	},
	entity.CategoryPowder: {
		"mg": decimal.RequireFromString("0.001"),
		"g":  decimal.NewFromInt(1),
		"kg": decimal.NewFromInt(1000),
		"oz": decimal.RequireFromString("28.349523125"),
		"lb": decimal.RequireFromString("453.59237"),
	},
	entity.CategoryItem: {
		"pcs":   decimal.NewFromInt(1),
		"pair":  decimal.NewFromInt(2),
		"dozen": decimal.NewFromInt(12),
	},
}

// Normalize normaliza el nombre de una unidad (minúsculas, sin espacios).
func Normalize(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}

// BaseUnit devuelve la unidad base de la categoría.
func BaseUnit(c entity.Category) (string, error) {
	base, ok := baseUnits[c]
	if !ok {
		return "", fmt.Errorf("%w: categoría %q", domain.ErrInvalidInput, c)
	}
	return base, nil
}

// Units lista las unidades soportadas por la categoría, ordenadas.
func Units(c entity.Category) []string {
	table := tables[c]
	out := make([]string, 0, len(table))
	for u := range table {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// Supports indica si la unidad pertenece a la tabla de la categoría.
func Supports(c entity.Category, unit string) bool {
	_, err := multiplier(c, unit)
	return err == nil
}

// CategoryOf devuelve la categoría a la que pertenece una unidad.
func CategoryOf(unit string) (entity.Category, bool) {
	u := Normalize(unit)
	for _, c := range categories {
		if _, ok := tables[c][u]; ok {
			return c, true
		}
	}
	return "", false
}

// ToBase convierte qty expresada en unit a la unidad base de la categoría.
func ToBase(c entity.Category, unit string, qty decimal.Decimal) (decimal.Decimal, error) {
	m, err := multiplier(c, unit)
	if err != nil {
		return decimal.Zero, err
	}
	return qty.Mul(m), nil
}

// FromBase convierte qty expresada en la unidad base a unit.
func FromBase(c entity.Category, unit string, qty decimal.Decimal) (decimal.Decimal, error) {
	m, err := multiplier(c, unit)
	if err != nil {
		return decimal.Zero, err
	}
	return qty.Div(m), nil
}

// Convert convierte qty de from a to dentro de la categoría c.
// Convertir a la misma unidad devuelve qty sin tocarla.
func Convert(c entity.Category, from, to string, qty decimal.Decimal) (decimal.Decimal, error) {
	if _, err := multiplier(c, from); err != nil {
		return decimal.Zero, err
	}
	if _, err := multiplier(c, to); err != nil {
		return decimal.Zero, err
	}
	if Normalize(from) == Normalize(to) {
		return qty, nil
	}
	base, err := ToBase(c, from, qty)
	if err != nil {
		return decimal.Zero, err
	}
	return FromBase(c, to, base)
}

func multiplier(c entity.Category, unit string) (decimal.Decimal, error) {
	table, ok := tables[c]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: categoría %q", domain.ErrInvalidInput, c)
	}
	u := Normalize(unit)
	if m, ok := table[u]; ok {
		return m, nil
	}
	if other, ok := CategoryOf(u); ok {
		return decimal.Zero, &domain.CategoryMismatchError{Unit: u, Expected: string(c), Actual: string(other)}
	}
	return decimal.Zero, &domain.UnknownUnitError{Category: string(c), Unit: u}
}
