package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de insumos.
const (
	MovementTypeSale       = "SALE"       // salida por venta
	MovementTypeAdjustment = "ADJUSTMENT" // ajuste manual
)

// StockMovement registro del libro de movimientos de un insumo. Quantity está en la
// unidad del insumo y es negativa en las salidas.
type StockMovement struct {
	ID           string
	OrderID      string
	StockEntryID string
	Type         string
	Quantity     decimal.Decimal
	Unit         string
	UnitCost     decimal.Decimal
	TotalCost    decimal.Decimal
	CreatedAt    time.Time
	CreatedBy    string
}
