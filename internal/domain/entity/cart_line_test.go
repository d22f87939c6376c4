package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/cafe-pos/internal/domain/entity"
)

func addon(id string, qty int64, unit string) entity.Addon {
	return entity.Addon{StockEntryID: id, Quantity: decimal.NewFromInt(qty), Unit: unit}
}

func TestLineKey_OrdenDeAddonsNoImporta(t *testing.T) {
	a := entity.LineKey("coffee", "latte", []entity.Addon{addon("syrup", 5, "ml"), addon("milk", 50, "ml")})
	b := entity.LineKey("coffee", "latte", []entity.Addon{addon("milk", 50, "ml"), addon("syrup", 5, "ML ")})
	assert.Equal(t, a, b)
}

func TestLineKey_SeparadoresEnIDsNoColisionan(t *testing.T) {
	assert.NotEqual(t,
		entity.LineKey("a/b", "c", nil),
		entity.LineKey("a", "b/c", nil))

	// un solo addon cuyo ID imita la serialización de dos addons
	single := entity.LineKey("coffee", "latte", []entity.Addon{addon("milk:5:ml+syrup", 5, "ml")})
	pair := entity.LineKey("coffee", "latte", []entity.Addon{addon("milk", 5, "ml"), addon("syrup", 5, "ml")})
	assert.NotEqual(t, single, pair)
}

func TestLineKey_IDsSinSeparadoresQuedanLegibles(t *testing.T) {
	assert.Equal(t, "coffee/latte+syrup:5:ml", entity.LineKey("coffee", "latte", []entity.Addon{addon("syrup", 5, "ml")}))
	assert.Equal(t, "a%2Fb/c%25", entity.LineKey("a/b", "c%", nil))
}
