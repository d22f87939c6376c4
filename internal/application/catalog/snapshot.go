package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-pos/internal/domain"
	"github.com/jhoicas/cafe-pos/internal/domain/entity"
	"github.com/jhoicas/cafe-pos/internal/domain/inventory"
	"github.com/jhoicas/cafe-pos/internal/domain/units"
)

// Snapshot catálogo inmutable de una sesión de caja: insumos y recetas leídos al arrancar.
// Todos los accesores devuelven copias.
type Snapshot struct {
	stock   inventory.Stock
	recipes []entity.Recipe
	index   map[string]int
}

// NewSnapshot construye el snapshot. Las recetas conservan el orden recibido.
func NewSnapshot(entries []entity.StockEntry, recipes []entity.Recipe) *Snapshot {
	s := &Snapshot{
		stock:   inventory.NewStock(entries),
		recipes: make([]entity.Recipe, len(recipes)),
		index:   make(map[string]int, len(recipes)),
	}
	for i, r := range recipes {
		s.recipes[i] = r.Clone()
		s.index[r.ID] = i
	}
	return s
}

// Stock copia del índice de insumos.
func (s *Snapshot) Stock() inventory.Stock {
	out := make(inventory.Stock, len(s.stock))
	for id, e := range s.stock {
		out[id] = e
	}
	return out
}

// StockEntries insumos ordenados por ID.
func (s *Snapshot) StockEntries() []entity.StockEntry {
	out := make([]entity.StockEntry, 0, len(s.stock))
	for _, e := range s.stock {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Snapshot) Recipes() []entity.Recipe {
	out := make([]entity.Recipe, len(s.recipes))
	for i, r := range s.recipes {
		out[i] = r.Clone()
	}
	return out
}

func (s *Snapshot) Recipe(id string) (entity.Recipe, bool) {
	i, ok := s.index[id]
	if !ok {
		return entity.Recipe{}, false
	}
	return s.recipes[i].Clone(), true
}

// Selection resuelve receta, porción y addons a una configuración del carrito.
// La categoría de cada addon se toma del insumo referenciado cuando viene vacía.
// El precio del addon siempre sale del catálogo (AddonPrice del insumo, expresado
// por unidad del addon); cualquier precio que traiga el llamador se descarta.
func (s *Snapshot) Selection(recipeID, servingID string, addons []entity.Addon) (entity.Selection, error) {
	r, ok := s.Recipe(recipeID)
	if !ok {
		return entity.Selection{}, fmt.Errorf("%w: receta %s", domain.ErrNotFound, recipeID)
	}
	sv, ok := r.Serving(servingID)
	if !ok {
		return entity.Selection{}, fmt.Errorf("%w: porción %s de la receta %s", domain.ErrNotFound, servingID, recipeID)
	}

	resolved := make([]entity.Addon, 0, len(addons))
	for _, a := range addons {
		a.StockEntryID = strings.TrimSpace(a.StockEntryID)
		entry, ok := s.stock[a.StockEntryID]
		if !ok {
			return entity.Selection{}, &domain.MissingStockEntryError{StockEntryID: a.StockEntryID, ServingID: servingID}
		}
		if a.Category == "" {
			a.Category = entry.Category
		}
		price, err := addonUnitPrice(entry, a.Unit)
		if err != nil {
			return entity.Selection{}, err
		}
		a.UnitPrice = price
		resolved = append(resolved, a)
	}
	return entity.Selection{Recipe: r, Serving: sv, Addons: resolved}, nil
}

// addonUnitPrice convierte el precio por unidad almacenada a precio por unidad del addon.
func addonUnitPrice(entry entity.StockEntry, unit string) (decimal.Decimal, error) {
	stored, err := units.Convert(entry.Category, unit, entry.Unit, decimal.NewFromInt(1))
	if err != nil {
		return decimal.Zero, err
	}
	return entry.AddonPrice.Mul(stored), nil
}
