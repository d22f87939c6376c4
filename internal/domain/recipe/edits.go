// Package recipe agrupa las ediciones tipadas de recetas y su validación contra el inventario.
package recipe

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-pos/internal/domain"
	"github.com/jhoicas/cafe-pos/internal/domain/entity"
	"github.com/jhoicas/cafe-pos/internal/domain/units"
)

// Edit operación de edición sobre una receta. El conjunto es cerrado: solo los
// tipos de este paquete la implementan.
type Edit interface {
	apply(r *entity.Recipe) error
}

type SetRecipeName struct{ Name string }

type SetRecipeDescription struct{ Description string }

// AddServing agrega una porción al final. Si Serving.ID está vacío se genera uno.
type AddServing struct{ Serving entity.Serving }

type RemoveServing struct{ Index int }

type SetServingName struct {
	Index int
	Name  string
}

type SetServingPrice struct {
	Index int
	Price decimal.Decimal
}

type AddIngredient struct {
	ServingIndex int
	Ingredient   entity.RecipeIngredient
}

type RemoveIngredient struct {
	ServingIndex int
	Index        int
}

type SetIngredientStockEntry struct {
	ServingIndex int
	Index        int
	StockEntryID string
}

type SetIngredientQuantity struct {
	ServingIndex int
	Index        int
	Quantity     decimal.Decimal
}

type SetIngredientUnit struct {
	ServingIndex int
	Index        int
	Unit         string
}

// Apply aplica las ediciones en orden sobre una copia profunda de r.
// Si alguna falla, devuelve el error y r queda intacta.
func Apply(r entity.Recipe, edits ...Edit) (entity.Recipe, error) {
	out := r.Clone()
	for i, e := range edits {
		if e == nil {
			return r, fmt.Errorf("%w: edición %d vacía", domain.ErrInvalidInput, i)
		}
		if err := e.apply(&out); err != nil {
			return r, fmt.Errorf("edición %d (%T): %w", i, e, err)
		}
	}
	return out, nil
}

func (e SetRecipeName) apply(r *entity.Recipe) error {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return fmt.Errorf("%w: nombre de receta vacío", domain.ErrInvalidInput)
	}
	r.Name = name
	return nil
}

func (e SetRecipeDescription) apply(r *entity.Recipe) error {
	r.Description = strings.TrimSpace(e.Description)
	return nil
}

func (e AddServing) apply(r *entity.Recipe) error {
	s := e.Serving.Clone()
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return fmt.Errorf("%w: nombre de porción vacío", domain.ErrInvalidInput)
	}
	if s.Price.IsNegative() {
		return fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if _, exists := r.Serving(s.ID); exists {
		return fmt.Errorf("%w: porción %s duplicada", domain.ErrConflict, s.ID)
	}
	for i := range s.Ingredients {
		ing, err := cleanIngredient(s.Ingredients[i])
		if err != nil {
			return err
		}
		s.Ingredients[i] = ing
	}
	r.Servings = append(r.Servings, s)
	return nil
}

func (e RemoveServing) apply(r *entity.Recipe) error {
	if err := checkIndex("porción", e.Index, len(r.Servings)); err != nil {
		return err
	}
	r.Servings = append(r.Servings[:e.Index], r.Servings[e.Index+1:]...)
	return nil
}

func (e SetServingName) apply(r *entity.Recipe) error {
	s, err := serving(r, e.Index)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return fmt.Errorf("%w: nombre de porción vacío", domain.ErrInvalidInput)
	}
	s.Name = name
	return nil
}

func (e SetServingPrice) apply(r *entity.Recipe) error {
	s, err := serving(r, e.Index)
	if err != nil {
		return err
	}
	if e.Price.IsNegative() {
		return fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
	}
	s.Price = e.Price
	return nil
}

func (e AddIngredient) apply(r *entity.Recipe) error {
	s, err := serving(r, e.ServingIndex)
	if err != nil {
		return err
	}
	ing, err := cleanIngredient(e.Ingredient)
	if err != nil {
		return err
	}
	s.Ingredients = append(s.Ingredients, ing)
	return nil
}

func (e RemoveIngredient) apply(r *entity.Recipe) error {
	s, err := serving(r, e.ServingIndex)
	if err != nil {
		return err
	}
	if err := checkIndex("ingrediente", e.Index, len(s.Ingredients)); err != nil {
		return err
	}
	s.Ingredients = append(s.Ingredients[:e.Index], s.Ingredients[e.Index+1:]...)
	return nil
}

func (e SetIngredientStockEntry) apply(r *entity.Recipe) error {
	ing, err := ingredient(r, e.ServingIndex, e.Index)
	if err != nil {
		return err
	}
	id := strings.TrimSpace(e.StockEntryID)
	if id == "" {
		return fmt.Errorf("%w: insumo vacío", domain.ErrInvalidInput)
	}
	ing.StockEntryID = id
	return nil
}

func (e SetIngredientQuantity) apply(r *entity.Recipe) error {
	ing, err := ingredient(r, e.ServingIndex, e.Index)
	if err != nil {
		return err
	}
	if e.Quantity.IsNegative() {
		return fmt.Errorf("%w: cantidad negativa", domain.ErrInvalidInput)
	}
	ing.Quantity = e.Quantity
	return nil
}

func (e SetIngredientUnit) apply(r *entity.Recipe) error {
	ing, err := ingredient(r, e.ServingIndex, e.Index)
	if err != nil {
		return err
	}
	u := units.Normalize(e.Unit)
	if u == "" {
		return fmt.Errorf("%w: unidad vacía", domain.ErrInvalidInput)
	}
	ing.Unit = u
	return nil
}

func serving(r *entity.Recipe, idx int) (*entity.Serving, error) {
	if err := checkIndex("porción", idx, len(r.Servings)); err != nil {
		return nil, err
	}
	return &r.Servings[idx], nil
}

func ingredient(r *entity.Recipe, servingIdx, idx int) (*entity.RecipeIngredient, error) {
	s, err := serving(r, servingIdx)
	if err != nil {
		return nil, err
	}
	if err := checkIndex("ingrediente", idx, len(s.Ingredients)); err != nil {
		return nil, err
	}
	return &s.Ingredients[idx], nil
}

func checkIndex(what string, idx, n int) error {
	if idx < 0 || idx >= n {
		return fmt.Errorf("%w: índice de %s %d fuera de rango [0,%d)", domain.ErrInvalidInput, what, idx, n)
	}
	return nil
}

func cleanIngredient(ing entity.RecipeIngredient) (entity.RecipeIngredient, error) {
	ing.StockEntryID = strings.TrimSpace(ing.StockEntryID)
	ing.Unit = units.Normalize(ing.Unit)
	if ing.StockEntryID == "" || ing.Unit == "" {
		return ing, fmt.Errorf("%w: ingrediente sin insumo o unidad", domain.ErrInvalidInput)
	}
	if ing.Quantity.IsNegative() {
		return ing, fmt.Errorf("%w: cantidad negativa", domain.ErrInvalidInput)
	}
	return ing, nil
}
