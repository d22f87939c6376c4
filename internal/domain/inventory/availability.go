package inventory

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-pos/internal/domain"
	"github.com/jhoicas/cafe-pos/internal/domain/entity"
	"github.com/jhoicas/cafe-pos/internal/domain/units"
)

// Unlimited centinela de disponibilidad sin cota (porción sin ingredientes o con
// requerimientos en cero). No se usa como límite de pantalla.
const Unlimited = math.MaxInt32

// Stock snapshot de insumos indexado por ID.
type Stock map[string]entity.StockEntry

// NewStock indexa un listado de insumos por ID.
func NewStock(entries []entity.StockEntry) Stock {
	s := make(Stock, len(entries))
	for _, e := range entries {
		s[e.ID] = e
	}
	return s
}

// Reservation cantidad ya reservada por otra línea del carrito.
type Reservation struct {
	LineID       string
	Quantity     int
	Requirements []entity.Requirement // consumo por unidad
}

// Result respuesta del calculador: unidades adicionales vendibles y el insumo cuello de botella.
type Result struct {
	Units      int
	Bottleneck string
}

// IsUnlimited indica si ningún ingrediente impone cota.
func (r Result) IsUnlimited() bool { return r.Units >= Unlimited }

// Available calcula cuántas unidades de una porción se pueden vender con el stock
// del snapshot, descontando lo reservado por las otras líneas (others nunca debe
// incluir la línea consultada).
//
// Las cotas se calculan en la unidad base de cada categoría: pasar a base es una
// multiplicación exacta, mientras que volver a la unidad almacenada redondea.
//
// Un insumo inexistente devuelve 0 junto a MissingStockEntryError (integridad de datos).
// Es una función pura: mismas entradas, mismo resultado.
func Available(servingID string, reqs []entity.Requirement, stock Stock, others []Reservation) (Result, error) {
	needs, order, err := perServing(servingID, reqs, stock)
	if err != nil {
		return Result{}, err
	}

	committed, err := committedBy(others, stock, needs)
	if err != nil {
		return Result{}, err
	}

	res := Result{Units: Unlimited}
	for _, id := range order {
		need := needs[id]
		// Requerimiento cero: el ingrediente no acota (política para datos degenerados).
		if need.IsZero() {
			continue
		}
		onHand, err := onHandBase(stock[id])
		if err != nil {
			return Result{}, err
		}
		remaining := onHand.Sub(committed[id])
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		q, _ := remaining.QuoRem(need, 0)
		bound := toBound(q)
		if bound < res.Units {
			res.Units = bound
			res.Bottleneck = id
		}
	}
	return res, nil
}

// Consumption consumo total por insumo de un conjunto de reservas, en la unidad almacenada
// de cada insumo. Se acumula en unidad base y se convierte una sola vez al final.
// El resultado se ordena por ID de insumo.
func Consumption(reservations []Reservation, stock Stock) ([]entity.StockConsumption, error) {
	totals, err := baseTotals(reservations, stock)
	if err != nil {
		return nil, err
	}
	out := make([]entity.StockConsumption, 0, len(totals))
	for id, base := range totals {
		entry := stock[id]
		q, err := units.FromBase(entry.Category, entry.Unit, base)
		if err != nil {
			return nil, err
		}
		out = append(out, entity.StockConsumption{StockEntryID: id, Quantity: q, Unit: entry.Unit})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StockEntryID < out[j].StockEntryID })
	return out, nil
}

// Verify comprueba que ninguna reserva deje un insumo con stock efectivo negativo.
// La comparación se hace en unidad base.
func Verify(reservations []Reservation, stock Stock) error {
	totals, err := baseTotals(reservations, stock)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		entry := stock[id]
		onHand, err := onHandBase(entry)
		if err != nil {
			return err
		}
		if totals[id].GreaterThan(onHand) {
			required, _ := units.FromBase(entry.Category, entry.Unit, totals[id])
			return fmt.Errorf("%w: %s requiere %s %s, hay %s",
				domain.ErrInsufficientStock, id, required.String(), entry.Unit, entry.OnHand().String())
		}
	}
	return nil
}

// baseTotals suma el consumo de las reservas por insumo, en unidad base.
func baseTotals(reservations []Reservation, stock Stock) (map[string]decimal.Decimal, error) {
	totals := make(map[string]decimal.Decimal)
	for _, r := range reservations {
		if r.Quantity <= 0 {
			continue
		}
		qty := decimal.NewFromInt(int64(r.Quantity))
		for _, req := range r.Requirements {
			entry, ok := stock[req.StockEntryID]
			if !ok {
				return nil, &domain.MissingStockEntryError{StockEntryID: req.StockEntryID}
			}
			perUnit, err := toBaseUnit(req, entry)
			if err != nil {
				return nil, err
			}
			totals[entry.ID] = totals[entry.ID].Add(perUnit.Mul(qty))
		}
	}
	return totals, nil
}

// perServing agrupa los requerimientos por insumo (receta + addons sobre el mismo
// insumo se suman) en unidad base. order conserva el orden de aparición.
func perServing(servingID string, reqs []entity.Requirement, stock Stock) (map[string]decimal.Decimal, []string, error) {
	needs := make(map[string]decimal.Decimal, len(reqs))
	order := make([]string, 0, len(reqs))
	for _, req := range reqs {
		entry, ok := stock[req.StockEntryID]
		if !ok {
			return nil, nil, &domain.MissingStockEntryError{StockEntryID: req.StockEntryID, ServingID: servingID}
		}
		q, err := toBaseUnit(req, entry)
		if err != nil {
			return nil, nil, err
		}
		if _, seen := needs[entry.ID]; !seen {
			order = append(order, entry.ID)
		}
		needs[entry.ID] = needs[entry.ID].Add(q)
	}
	return needs, order, nil
}

func committedBy(others []Reservation, stock Stock, needs map[string]decimal.Decimal) (map[string]decimal.Decimal, error) {
	committed := make(map[string]decimal.Decimal, len(needs))
	for _, r := range others {
		if r.Quantity <= 0 {
			continue
		}
		qty := decimal.NewFromInt(int64(r.Quantity))
		for _, req := range r.Requirements {
			if _, relevant := needs[req.StockEntryID]; !relevant {
				continue
			}
			q, err := toBaseUnit(req, stock[req.StockEntryID])
			if err != nil {
				return nil, err
			}
			committed[req.StockEntryID] = committed[req.StockEntryID].Add(q.Mul(qty))
		}
	}
	return committed, nil
}

// toBaseUnit lleva un requerimiento a la unidad base de la categoría del insumo.
func toBaseUnit(req entity.Requirement, entry entity.StockEntry) (decimal.Decimal, error) {
	if req.Quantity.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: cantidad negativa para el insumo %s", domain.ErrInvalidInput, req.StockEntryID)
	}
	if req.Category != "" && req.Category != entry.Category {
		return decimal.Zero, &domain.CategoryMismatchError{
			Unit:     units.Normalize(req.Unit),
			Expected: string(entry.Category),
			Actual:   string(req.Category),
		}
	}
	return units.ToBase(entry.Category, req.Unit, req.Quantity)
}

func onHandBase(entry entity.StockEntry) (decimal.Decimal, error) {
	return units.ToBase(entry.Category, entry.Unit, entry.OnHand())
}

func toBound(q decimal.Decimal) int {
	if q.GreaterThanOrEqual(decimal.NewFromInt(Unlimited)) {
		return Unlimited
	}
	return int(q.IntPart())
}
