package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-pos/internal/domain/entity"
)

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func CostCalculator(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum)
}

// CostOf costo de ingredientes de un consumo al costo promedio de cada insumo.
// Insumos fuera del snapshot no suman costo.
func CostOf(consumption []entity.StockConsumption, stock Stock) decimal.Decimal {
	total := decimal.Zero
	for _, c := range consumption {
		entry, ok := stock[c.StockEntryID]
		if !ok {
			continue
		}
		total = total.Add(c.Quantity.Mul(entry.AverageUnitCost))
	}
	return total
}

// ServingCost costo de ingredientes de una unidad vendida.
func ServingCost(reqs []entity.Requirement, stock Stock) (decimal.Decimal, error) {
	consumption, err := Consumption([]Reservation{{Quantity: 1, Requirements: reqs}}, stock)
	if err != nil {
		return decimal.Zero, err
	}
	return CostOf(consumption, stock), nil
}
