package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrLineNotFound      = errors.New("línea de carrito no encontrada")
	ErrEmptyCart         = errors.New("el carrito está vacío")
	ErrCorruptCart       = errors.New("carrito persistido ilegible")

	// Motor de disponibilidad.
	ErrUnknownUnit          = errors.New("unidad desconocida")
	ErrCategoryMismatch     = errors.New("unidad de otra categoría de medida")
	ErrMissingStockEntry    = errors.New("insumo inexistente en el inventario")
	ErrAvailabilityExceeded = errors.New("cantidad supera la disponibilidad")
)

// UnknownUnitError la unidad no existe en ninguna tabla de conversión.
type UnknownUnitError struct {
	Category string
	Unit     string
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("unidad desconocida %q (categoría %s)", e.Unit, e.Category)
}

func (e *UnknownUnitError) Unwrap() error { return ErrUnknownUnit }

// CategoryMismatchError la unidad pertenece a otra categoría de medida.
// Nunca se convierte en silencio entre categorías.
type CategoryMismatchError struct {
	Unit     string
	Expected string
	Actual   string
}

func (e *CategoryMismatchError) Error() string {
	return fmt.Sprintf("la unidad %q es de categoría %s, se esperaba %s", e.Unit, e.Actual, e.Expected)
}

func (e *CategoryMismatchError) Unwrap() error { return ErrCategoryMismatch }

// MissingStockEntryError una receta o un addon referencia un insumo que no está en el snapshot.
// Es un error de integridad de datos, no de agotamiento de stock.
type MissingStockEntryError struct {
	StockEntryID string
	ServingID    string
}

func (e *MissingStockEntryError) Error() string {
	if e.ServingID == "" {
		return fmt.Sprintf("insumo %q no existe en el inventario", e.StockEntryID)
	}
	return fmt.Sprintf("la porción %q referencia el insumo inexistente %q", e.ServingID, e.StockEntryID)
}

func (e *MissingStockEntryError) Unwrap() error { return ErrMissingStockEntry }

// AvailabilityExceededError rechazo de política del carrito. Se entrega como valor
// en el resultado de la operación, no como error de retorno.
type AvailabilityExceededError struct {
	LineID     string
	Requested  int
	Allowed    int
	Bottleneck string // insumo que limita, vacío si no aplica
}

func (e *AvailabilityExceededError) Error() string {
	return fmt.Sprintf("línea %s: se solicitaron %d unidades, máximo permitido %d", e.LineID, e.Requested, e.Allowed)
}

func (e *AvailabilityExceededError) Unwrap() error { return ErrAvailabilityExceeded }
