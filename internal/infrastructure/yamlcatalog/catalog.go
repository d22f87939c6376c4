// Package yamlcatalog lee el catálogo de la caja (insumos, recetas y operadores) desde un
// archivo YAML. Sirve para cajas sin base de datos y para demos.
package yamlcatalog

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/cafe-pos/internal/application/catalog"
	"github.com/jhoicas/cafe-pos/internal/domain"
	"github.com/jhoicas/cafe-pos/internal/domain/entity"
	"github.com/jhoicas/cafe-pos/internal/domain/repository"
	"github.com/jhoicas/cafe-pos/internal/domain/units"
)

var (
	_ catalog.Source                = (*Catalog)(nil)
	_ repository.OperatorRepository = (*Catalog)(nil)
)

type document struct {
	Stock     []stockDoc    `yaml:"stock"`
	Recipes   []recipeDoc   `yaml:"recipes"`
	Operators []operatorDoc `yaml:"operators"`
}

type stockDoc struct {
	ID              string `yaml:"id"`
	Name            string `yaml:"name"`
	Category        string `yaml:"category"`
	Unit            string `yaml:"unit"`
	Quantity        string `yaml:"quantity"`
	Perishable      bool   `yaml:"perishable"`
	AverageUnitCost string `yaml:"average_unit_cost"`
	AddonPrice      string `yaml:"addon_price"`
}

type recipeDoc struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Servings    []servingDoc `yaml:"servings"`
}

type servingDoc struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Price       string          `yaml:"price"`
	Ingredients []ingredientDoc `yaml:"ingredients"`
}

type ingredientDoc struct {
	StockEntryID string `yaml:"stock_entry_id"`
	Quantity     string `yaml:"quantity"`
	Unit         string `yaml:"unit"`
}

type operatorDoc struct {
	ID           string `yaml:"id"`
	Email        string `yaml:"email"`
	Name         string `yaml:"name"`
	Role         string `yaml:"role"`
	PasswordHash string `yaml:"password_hash"`
	Status       string `yaml:"status"`
}

// Catalog catálogo ya validado en memoria.
type Catalog struct {
	entries   []entity.StockEntry
	recipes   []entity.Recipe
	operators []entity.Operator
}

// Load lee y valida el archivo.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("leer catálogo: %w", err)
	}
	return Parse(data)
}

// Parse valida un documento YAML. Los errores de formato o de unidades no soportadas
// se devuelven con ErrInvalidInput; la integridad de recetas contra insumos se revisa al cargar el snapshot.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: yaml: %v", domain.ErrInvalidInput, err)
	}

	c := &Catalog{}
	seen := make(map[string]bool, len(doc.Stock))
	for i, s := range doc.Stock {
		e, err := s.toEntity()
		if err != nil {
			return nil, fmt.Errorf("stock[%d] %s: %w", i, s.ID, err)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("%w: insumo %s duplicado", domain.ErrInvalidInput, e.ID)
		}
		seen[e.ID] = true
		c.entries = append(c.entries, e)
	}
	for i, r := range doc.Recipes {
		rec, err := r.toEntity()
		if err != nil {
			return nil, fmt.Errorf("recipes[%d] %s: %w", i, r.ID, err)
		}
		c.recipes = append(c.recipes, rec)
	}
	for _, o := range doc.Operators {
		status := o.Status
		if status == "" {
			status = "active"
		}
		c.operators = append(c.operators, entity.Operator{
			ID:           o.ID,
			Email:        strings.ToLower(strings.TrimSpace(o.Email)),
			Name:         o.Name,
			Role:         o.Role,
			PasswordHash: o.PasswordHash,
			Status:       status,
		})
	}
	return c, nil
}

func (c *Catalog) ListStockEntries(context.Context) ([]entity.StockEntry, error) {
	return append([]entity.StockEntry(nil), c.entries...), nil
}

func (c *Catalog) ListRecipes(context.Context) ([]entity.Recipe, error) {
	out := make([]entity.Recipe, len(c.recipes))
	for i, r := range c.recipes {
		out[i] = r.Clone()
	}
	return out, nil
}

// Operators operadores declarados en el archivo.
func (c *Catalog) Operators() []entity.Operator {
	return append([]entity.Operator(nil), c.operators...)
}

// FindByEmail devuelve nil si no existe.
func (c *Catalog) FindByEmail(_ context.Context, email string) (*entity.Operator, error) {
	for _, o := range c.operators {
		if o.Email == email {
			op := o
			return &op, nil
		}
	}
	return nil, nil
}

func (c *Catalog) FindByID(_ context.Context, id string) (*entity.Operator, error) {
	for _, o := range c.operators {
		if o.ID == id {
			op := o
			return &op, nil
		}
	}
	return nil, nil
}

func (s stockDoc) toEntity() (entity.StockEntry, error) {
	cat := entity.Category(strings.ToLower(strings.TrimSpace(s.Category)))
	if s.ID == "" || !cat.Valid() {
		return entity.StockEntry{}, fmt.Errorf("%w: id o categoría inválidos", domain.ErrInvalidInput)
	}
	unit := units.Normalize(s.Unit)
	if !units.Supports(cat, unit) {
		return entity.StockEntry{}, &domain.UnknownUnitError{Category: string(cat), Unit: unit}
	}
	qty, err := parseDecimal(s.Quantity)
	if err != nil {
		return entity.StockEntry{}, err
	}
	if qty.IsNegative() {
		return entity.StockEntry{}, fmt.Errorf("%w: cantidad negativa", domain.ErrInvalidInput)
	}
	cost, err := parseDecimal(s.AverageUnitCost)
	if err != nil {
		return entity.StockEntry{}, err
	}
	addon, err := parseDecimal(s.AddonPrice)
	if err != nil {
		return entity.StockEntry{}, err
	}
	if addon.IsNegative() {
		return entity.StockEntry{}, fmt.Errorf("%w: precio de adicional negativo", domain.ErrInvalidInput)
	}
	return entity.StockEntry{
		ID:              s.ID,
		Name:            s.Name,
		Category:        cat,
		Unit:            unit,
		Quantity:        qty,
		Perishable:      s.Perishable,
		AverageUnitCost: cost,
		AddonPrice:      addon,
	}, nil
}

func (r recipeDoc) toEntity() (entity.Recipe, error) {
	if r.ID == "" {
		return entity.Recipe{}, fmt.Errorf("%w: receta sin id", domain.ErrInvalidInput)
	}
	rec := entity.Recipe{ID: r.ID, Name: r.Name, Description: r.Description}
	for _, s := range r.Servings {
		price, err := parseDecimal(s.Price)
		if err != nil {
			return entity.Recipe{}, err
		}
		sv := entity.Serving{ID: s.ID, Name: s.Name, Price: price}
		for _, ing := range s.Ingredients {
			q, err := parseDecimal(ing.Quantity)
			if err != nil {
				return entity.Recipe{}, err
			}
			sv.Ingredients = append(sv.Ingredients, entity.RecipeIngredient{
				StockEntryID: ing.StockEntryID,
				Quantity:     q,
				Unit:         units.Normalize(ing.Unit),
			})
		}
		rec.Servings = append(rec.Servings, sv)
	}
	return rec, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: número %q", domain.ErrInvalidInput, s)
	}
	return d, nil
}
