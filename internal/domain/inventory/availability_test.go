package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cafe-pos/internal/domain"
	"github.com/jhoicas/cafe-pos/internal/domain/entity"
	"github.com/jhoicas/cafe-pos/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures
// ──────────────────────────────────────────────────────────────────────────────

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testStock() inventory.Stock {
	return inventory.NewStock([]entity.StockEntry{
		{ID: "milk", Name: "Leche", Category: entity.CategoryLiquid, Unit: "ml", Quantity: d("1000"), Perishable: true, AverageUnitCost: d("0.004")},
		{ID: "coffee", Name: "Café", Category: entity.CategoryPowder, Unit: "kg", Quantity: d("0.5"), AverageUnitCost: d("60")},
		{ID: "cups", Name: "Vasos", Category: entity.CategoryItem, Unit: "pcs", Quantity: d("3")},
	})
}

func latte() []entity.Requirement {
	return []entity.Requirement{
		{StockEntryID: "milk", Quantity: d("200"), Unit: "ml"},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestAvailable_LatteConLecheDeUnLitro(t *testing.T) {
	res, err := inventory.Available("latte", latte(), testStock(), nil)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Units)
	assert.Equal(t, "milk", res.Bottleneck)
}

func TestAvailable_DescuentaReservasDeOtrasLineas(t *testing.T) {
	others := []inventory.Reservation{
		{LineID: "flat-white", Quantity: 2, Requirements: []entity.Requirement{
			{StockEntryID: "milk", Quantity: d("0.15"), Unit: "l"},
		}},
	}
	// 1000 - 2*150 = 700 ml → floor(700/200) = 3
	res, err := inventory.Available("latte", latte(), testStock(), others)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Units)
}

func TestAvailable_CuelloDeBotellaEsElMinimo(t *testing.T) {
	reqs := []entity.Requirement{
		{StockEntryID: "milk", Quantity: d("100"), Unit: "ml"},  // 10
		{StockEntryID: "coffee", Quantity: d("18"), Unit: "g"}, // floor(500/18) = 27
		{StockEntryID: "cups", Quantity: d("1"), Unit: "pcs"},   // 3
	}
	res, err := inventory.Available("cappuccino", reqs, testStock(), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Units)
	assert.Equal(t, "cups", res.Bottleneck)
}

func TestAvailable_SinIngredientesEsIlimitado(t *testing.T) {
	res, err := inventory.Available("agua", nil, testStock(), nil)
	require.NoError(t, err)
	assert.True(t, res.IsUnlimited())
	assert.Equal(t, inventory.Unlimited, res.Units)
	assert.Empty(t, res.Bottleneck)
}

func TestAvailable_RequerimientoCeroNoAcota(t *testing.T) {
	reqs := []entity.Requirement{
		{StockEntryID: "milk", Quantity: decimal.Zero, Unit: "ml"},
		{StockEntryID: "cups", Quantity: d("1"), Unit: "pcs"},
	}
	res, err := inventory.Available("x", reqs, testStock(), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Units)

	res, err = inventory.Available("x", reqs[:1], testStock(), nil)
	require.NoError(t, err)
	assert.True(t, res.IsUnlimited())
}

func TestAvailable_InsumoInexistenteEsErrorDeIntegridad(t *testing.T) {
	reqs := []entity.Requirement{{StockEntryID: "oat-milk", Quantity: d("200"), Unit: "ml"}}
	res, err := inventory.Available("oat-latte", reqs, testStock(), nil)
	require.Error(t, err)
	assert.Equal(t, 0, res.Units)

	var missing *domain.MissingStockEntryError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "oat-milk", missing.StockEntryID)
	assert.Equal(t, "oat-latte", missing.ServingID)
	assert.NotErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestAvailable_StockAgotadoNoEsError(t *testing.T) {
	stock := testStock()
	milk := stock["milk"]
	milk.Quantity = d("150")
	stock["milk"] = milk

	res, err := inventory.Available("latte", latte(), stock, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Units)
	assert.Equal(t, "milk", res.Bottleneck)
}

func TestAvailable_ReservasExcedidasSeRecortanACero(t *testing.T) {
	others := []inventory.Reservation{
		{Quantity: 10, Requirements: latte()},
	}
	res, err := inventory.Available("latte", latte(), testStock(), others)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Units)
}

func TestAvailable_AddonYRecetaSobreElMismoInsumoSeSuman(t *testing.T) {
	reqs := append(latte(), entity.Requirement{
		StockEntryID: "milk", Quantity: d("50"), Unit: "ml", Category: entity.CategoryLiquid,
	})
	// 1000 / 250 = 4
	res, err := inventory.Available("latte", reqs, testStock(), nil)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Units)
}

func TestAvailable_AddonDeOtraCategoriaFalla(t *testing.T) {
	reqs := []entity.Requirement{
		{StockEntryID: "milk", Quantity: d("5"), Unit: "g", Category: entity.CategoryPowder},
	}
	_, err := inventory.Available("latte", reqs, testStock(), nil)
	assert.ErrorIs(t, err, domain.ErrCategoryMismatch)
}

func TestAvailable_UnidadDeOtraCategoriaFalla(t *testing.T) {
	reqs := []entity.Requirement{{StockEntryID: "milk", Quantity: d("5"), Unit: "g"}}
	_, err := inventory.Available("latte", reqs, testStock(), nil)
	assert.ErrorIs(t, err, domain.ErrCategoryMismatch)
}

func TestAvailable_CantidadNegativaEsEntradaInvalida(t *testing.T) {
	reqs := []entity.Requirement{{StockEntryID: "milk", Quantity: d("-1"), Unit: "ml"}}
	_, err := inventory.Available("latte", reqs, testStock(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAvailable_EsIdempotente(t *testing.T) {
	stock := testStock()
	others := []inventory.Reservation{{Quantity: 1, Requirements: latte()}}
	first, err := inventory.Available("latte", latte(), stock, others)
	require.NoError(t, err)
	second, err := inventory.Available("latte", latte(), stock, others)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAvailable_MonotonaRespectoDeLasReservas(t *testing.T) {
	stock := testStock()
	var others []inventory.Reservation
	prev := inventory.Unlimited
	for i := 0; i < 6; i++ {
		res, err := inventory.Available("latte", latte(), stock, others)
		require.NoError(t, err)
		assert.LessOrEqual(t, res.Units, prev, "agregar reservas nunca aumenta la disponibilidad")
		prev = res.Units
		others = append(others, inventory.Reservation{Quantity: 1, Requirements: latte()})
	}
	for len(others) > 0 {
		others = others[:len(others)-1]
		res, err := inventory.Available("latte", latte(), stock, others)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.Units, prev, "quitar reservas nunca reduce la disponibilidad")
		prev = res.Units
	}
}

func TestConsumption_SumaPorInsumoEnUnidadAlmacenada(t *testing.T) {
	reservations := []inventory.Reservation{
		{Quantity: 2, Requirements: []entity.Requirement{
			{StockEntryID: "milk", Quantity: d("200"), Unit: "ml"},
			{StockEntryID: "coffee", Quantity: d("18"), Unit: "g"},
		}},
		{Quantity: 1, Requirements: []entity.Requirement{
			{StockEntryID: "milk", Quantity: d("0.1"), Unit: "l"},
		}},
	}
	got, err := inventory.Consumption(reservations, testStock())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "coffee", got[0].StockEntryID)
	assert.Equal(t, "kg", got[0].Unit)
	assert.True(t, got[0].Quantity.Equal(d("0.036")), "fue %s", got[0].Quantity)

	assert.Equal(t, "milk", got[1].StockEntryID)
	assert.True(t, got[1].Quantity.Equal(d("500")), "fue %s", got[1].Quantity)
}

func TestVerify_DetectaSobreReserva(t *testing.T) {
	ok := []inventory.Reservation{{Quantity: 5, Requirements: latte()}}
	require.NoError(t, inventory.Verify(ok, testStock()))

	over := []inventory.Reservation{{Quantity: 6, Requirements: latte()}}
	assert.ErrorIs(t, inventory.Verify(over, testStock()), domain.ErrInsufficientStock)
}

// Stock almacenado en tazas y receta en ml: 2 cup = 473.176473 ml = 3 × 157.725491 ml.
// La cota y la verificación no deben perder la tercera porción por redondeo.
func TestAvailable_StockEnUnidadNoBaseSinPerdidaPorRedondeo(t *testing.T) {
	stock := inventory.NewStock([]entity.StockEntry{
		{ID: "milk", Name: "Leche", Category: entity.CategoryLiquid, Unit: "cup", Quantity: d("2")},
	})
	reqs := []entity.Requirement{{StockEntryID: "milk", Quantity: d("157.725491"), Unit: "ml"}}

	res, err := inventory.Available("cortado", reqs, stock, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Units)
	assert.Equal(t, "milk", res.Bottleneck)

	three := []inventory.Reservation{{Quantity: 3, Requirements: reqs}}
	require.NoError(t, inventory.Verify(three, stock))

	got, err := inventory.Consumption(three, stock)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "cup", got[0].Unit)
	assert.True(t, got[0].Quantity.Equal(d("2")), "fue %s", got[0].Quantity)

	four := []inventory.Reservation{{Quantity: 4, Requirements: reqs}}
	assert.ErrorIs(t, inventory.Verify(four, stock), domain.ErrInsufficientStock)
}

func TestServingCost_CostoPromedioPorIngrediente(t *testing.T) {
	reqs := []entity.Requirement{
		{StockEntryID: "milk", Quantity: d("200"), Unit: "ml"},  // 200 * 0.004 = 0.8
		{StockEntryID: "coffee", Quantity: d("18"), Unit: "g"}, // 0.018 * 60 = 1.08
	}
	cost, err := inventory.ServingCost(reqs, testStock())
	require.NoError(t, err)
	assert.True(t, cost.Equal(d("1.88")), "fue %s", cost)
}

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	got := inventory.CostCalculator(d("10"), d("2"), d("10"), d("4"))
	assert.True(t, got.Equal(d("3")))
	assert.True(t, inventory.CostCalculator(decimal.Zero, decimal.Zero, decimal.Zero, d("4")).IsZero())
}
