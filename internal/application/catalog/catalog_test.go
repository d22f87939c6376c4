package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cafe-pos/internal/application/catalog"
	"github.com/jhoicas/cafe-pos/internal/domain"
	"github.com/jhoicas/cafe-pos/internal/domain/entity"
)

type fakeSource struct {
	entries    []entity.StockEntry
	recipes    []entity.Recipe
	recipesErr error
}

func (f fakeSource) ListStockEntries(context.Context) ([]entity.StockEntry, error) {
	return f.entries, nil
}

func (f fakeSource) ListRecipes(context.Context) ([]entity.Recipe, error) {
	return f.recipes, f.recipesErr
}

func source() fakeSource {
	return fakeSource{
		entries: []entity.StockEntry{
			{ID: "milk", Category: entity.CategoryLiquid, Unit: "ml", Quantity: decimal.NewFromInt(1000)},
			{ID: "cups", Category: entity.CategoryItem, Unit: "pcs", Quantity: decimal.NewFromInt(10)},
			{ID: "syrup", Category: entity.CategoryLiquid, Unit: "l", Quantity: decimal.NewFromInt(1), AddonPrice: decimal.NewFromInt(5000)},
		},
		recipes: []entity.Recipe{
			{ID: "latte", Name: "Latte", Servings: []entity.Serving{
				{ID: "latte-12", Name: "12 oz", Price: decimal.NewFromInt(9000), Ingredients: []entity.RecipeIngredient{
					{StockEntryID: "milk", Quantity: decimal.NewFromInt(200), Unit: "ml"},
				}},
			}},
		},
	}
}

func TestLoad_ArmaSnapshot(t *testing.T) {
	snap, err := catalog.NewLoadUseCase(source(), nil).Load(context.Background())
	require.NoError(t, err)

	entries := snap.StockEntries()
	require.Len(t, entries, 3)
	assert.Equal(t, "cups", entries[0].ID)

	r, ok := snap.Recipe("latte")
	require.True(t, ok)
	assert.Equal(t, "Latte", r.Name)

	_, ok = snap.Recipe("mocha")
	assert.False(t, ok)
}

func TestLoad_ErrorDeFuenteSePropaga(t *testing.T) {
	src := source()
	src.recipesErr = errors.New("timeout")
	_, err := catalog.NewLoadUseCase(src, nil).Load(context.Background())
	assert.Error(t, err)
}

func TestSnapshot_CopiasAisladas(t *testing.T) {
	snap := catalog.NewSnapshot(source().entries, source().recipes)

	r, _ := snap.Recipe("latte")
	r.Servings[0].Ingredients[0].Quantity = decimal.NewFromInt(1)

	again, _ := snap.Recipe("latte")
	assert.True(t, again.Servings[0].Ingredients[0].Quantity.Equal(decimal.NewFromInt(200)))

	stock := snap.Stock()
	delete(stock, "milk")
	_, ok := snap.Stock()["milk"]
	assert.True(t, ok)
}

func TestSnapshot_SelectionResuelveCategoriaDelAddon(t *testing.T) {
	snap := catalog.NewSnapshot(source().entries, source().recipes)

	sel, err := snap.Selection("latte", "latte-12", []entity.Addon{
		{StockEntryID: "cups", Quantity: decimal.NewFromInt(1), Unit: "pcs"},
	})
	require.NoError(t, err)
	assert.Equal(t, "latte-12", sel.Serving.ID)
	require.Len(t, sel.Addons, 1)
	assert.Equal(t, entity.CategoryItem, sel.Addons[0].Category)

	_, err = snap.Selection("latte", "latte-20", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = snap.Selection("latte", "latte-12", []entity.Addon{{StockEntryID: "sugar", Quantity: decimal.NewFromInt(1), Unit: "g"}})
	assert.ErrorIs(t, err, domain.ErrMissingStockEntry)
}

func TestSnapshot_SelectionPrecioDelAddonLoFijaElCatalogo(t *testing.T) {
	snap := catalog.NewSnapshot(source().entries, source().recipes)

	// 5000 por litro → 5 por ml; el precio enviado por el llamador se ignora
	sel, err := snap.Selection("latte", "latte-12", []entity.Addon{
		{StockEntryID: "syrup", Quantity: decimal.NewFromInt(10), Unit: "ml", UnitPrice: decimal.NewFromInt(1)},
	})
	require.NoError(t, err)
	require.Len(t, sel.Addons, 1)
	assert.True(t, sel.Addons[0].UnitPrice.Equal(decimal.NewFromInt(5)), "fue %s", sel.Addons[0].UnitPrice)
	assert.True(t, sel.Addons[0].Price().Equal(decimal.NewFromInt(50)))

	// insumo sin precio de adicional: sin cargo
	sel, err = snap.Selection("latte", "latte-12", []entity.Addon{
		{StockEntryID: "cups", Quantity: decimal.NewFromInt(1), Unit: "pcs", UnitPrice: decimal.NewFromInt(900)},
	})
	require.NoError(t, err)
	assert.True(t, sel.Addons[0].UnitPrice.IsZero())

	_, err = snap.Selection("latte", "latte-12", []entity.Addon{
		{StockEntryID: "syrup", Quantity: decimal.NewFromInt(10), Unit: "g"},
	})
	assert.ErrorIs(t, err, domain.ErrCategoryMismatch)
}
