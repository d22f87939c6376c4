package yamlcatalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cafe-pos/internal/application/catalog"
	"github.com/jhoicas/cafe-pos/internal/domain"
	"github.com/jhoicas/cafe-pos/internal/domain/entity"
	"github.com/jhoicas/cafe-pos/internal/infrastructure/yamlcatalog"
)

const sample = `
stock:
  - id: milk
    name: Leche entera
    category: liquid
    unit: L
    quantity: 12.5
    perishable: true
    average_unit_cost: "4200"
  - id: coffee
    name: Café en grano
    category: powder
    unit: kg
    quantity: 3
recipes:
  - id: latte
    name: Latte
    servings:
      - id: latte-12
        name: 12 oz
        price: 9000
        ingredients:
          - {stock_entry_id: milk, quantity: 250, unit: ml}
          - {stock_entry_id: coffee, quantity: 18, unit: g}
operators:
  - id: op-1
    email: Caja@Cafe.co
    name: Caja 1
    role: cajero
    password_hash: "$2a$10$abc"
`

func TestParse_DocumentoCompleto(t *testing.T) {
	c, err := yamlcatalog.Parse([]byte(sample))
	require.NoError(t, err)

	entries, err := c.ListStockEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "l", entries[0].Unit)
	assert.True(t, entries[0].Quantity.Equal(decimal.RequireFromString("12.5")))
	assert.True(t, entries[0].Perishable)

	recipes, err := c.ListRecipes(context.Background())
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	require.Len(t, recipes[0].Servings[0].Ingredients, 2)
	assert.True(t, recipes[0].Servings[0].Price.Equal(decimal.NewFromInt(9000)))

	op, err := c.FindByEmail(context.Background(), "caja@cafe.co")
	require.NoError(t, err)
	require.NotNil(t, op)
	assert.Equal(t, "active", op.Status)
	assert.Equal(t, entity.RoleCashier, op.Role)
}

func TestLoad_ArchivoYSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	c, err := yamlcatalog.Load(path)
	require.NoError(t, err)

	snap, err := catalog.NewLoadUseCase(c, nil).Load(context.Background())
	require.NoError(t, err)
	_, ok := snap.Recipe("latte")
	assert.True(t, ok)
}

func TestParse_UnidadNoSoportada(t *testing.T) {
	_, err := yamlcatalog.Parse([]byte(`
stock:
  - {id: milk, category: liquid, unit: kg, quantity: 1}
`))
	assert.ErrorIs(t, err, domain.ErrUnknownUnit)
}

func TestParse_Invalidos(t *testing.T) {
	cases := map[string]string{
		"categoría":         "stock:\n  - {id: x, category: gas, unit: ml}\n",
		"cantidad negativa": "stock:\n  - {id: x, category: item, unit: pcs, quantity: -1}\n",
		"duplicado":         "stock:\n  - {id: x, category: item, unit: pcs}\n  - {id: x, category: item, unit: pcs}\n",
		"precio":            "recipes:\n  - id: r\n    servings:\n      - {id: s, price: gratis}\n",
		"yaml":              "stock: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := yamlcatalog.Parse([]byte(doc))
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}
