package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cafe-pos/internal/domain/entity"
)

func TestGenerateReceipt_ProducePDF(t *testing.T) {
	g := NewReceiptGenerator("Café Central")
	order := &entity.Order{
		ID:          "4b1c2f0e-0000-4000-8000-000000000001",
		Type:        entity.OrderTypeTakeAway,
		Note:        "sin azúcar",
		Subtotal:    decimal.NewFromInt(27600),
		DiscountPct: decimal.NewFromInt(10),
		Total:       decimal.NewFromInt(24840),
		CreatedAt:   time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		Lines: []entity.OrderLine{
			{RecipeName: "Latte", ServingName: "12 oz", Quantity: 2, Total: decimal.NewFromInt(18000)},
			{RecipeName: "Latte", ServingName: "12 oz", Quantity: 1, Total: decimal.NewFromInt(9600), Addons: []entity.Addon{
				{StockEntryID: "syrup", Quantity: decimal.NewFromInt(15), Unit: "ml"},
			}},
		},
	}

	doc, err := g.GenerateReceipt(order)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestGenerateReceipt_OrdenNula(t *testing.T) {
	_, err := NewReceiptGenerator("").GenerateReceipt(nil)
	assert.Error(t, err)
}

func TestMoney_SeparadorDeMiles(t *testing.T) {
	g := NewReceiptGenerator("")
	assert.Equal(t, "$24.840", g.money(decimal.NewFromInt(24840)))
	assert.Equal(t, "$1.000.000", g.money(decimal.RequireFromString("999999.6")))
	assert.Equal(t, "$500", g.money(decimal.NewFromInt(500)))
}
