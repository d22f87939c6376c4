// Package cart implementa el carrito de la caja: líneas reservadas cuya cantidad nunca
// supera la disponibilidad calculada sobre el snapshot de inventario.
package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-pos/internal/domain"
	"github.com/jhoicas/cafe-pos/internal/domain/entity"
	"github.com/jhoicas/cafe-pos/internal/domain/inventory"
	"github.com/jhoicas/cafe-pos/pkg/logger"
)

// Outcome resultado de una mutación. Un rechazo por disponibilidad viaja en Rejection
// (no como error); PersistErr indica que el cambio quedó solo en memoria.
type Outcome struct {
	Line       *entity.CartLine // estado de la línea tras la operación; nil si no existe
	Removed    bool
	Rejection  *domain.AvailabilityExceededError
	PersistErr error
}

// Rejected indica si la operación fue rechazada por disponibilidad.
func (o Outcome) Rejected() bool { return o.Rejection != nil }

// RestoreReport resumen de la carga inicial desde el Store.
type RestoreReport struct {
	Loaded  int
	Dropped int
	Corrupt bool
}

// Cart carrito de una sesión de caja. Es el único dueño de sus líneas; todas las
// operaciones se serializan con un mutex (un solo escritor a la vez).
type Cart struct {
	mu    sync.Mutex
	stock inventory.Stock
	store Store
	log   *logger.Logger
	lines []entity.CartLine // orden de inserción
}

// NewCart construye el carrito sobre un snapshot inmutable de inventario.
// store puede ser nil (sin persistencia).
func NewCart(stock inventory.Stock, store Store, log *logger.Logger) *Cart {
	if log == nil {
		log = logger.Nop()
	}
	return &Cart{stock: stock, store: store, log: log}
}

// Restore carga las líneas persistidas descartando las inválidas. Un documento ilegible
// deja el carrito vacío y se informa como advertencia, nunca impide el arranque.
func (c *Cart) Restore(ctx context.Context) (RestoreReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.store == nil {
		return RestoreReport{}, nil
	}
	loaded, err := c.store.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrCorruptCart) {
			c.log.Warn().Err(err).Msg("carrito persistido ilegible, se inicia vacío")
			c.lines = nil
			return RestoreReport{Corrupt: true}, nil
		}
		return RestoreReport{}, fmt.Errorf("cargar carrito: %w", err)
	}

	kept, dropped := Sanitize(loaded)
	c.lines = kept
	if dropped > 0 {
		c.log.Warn().Int("dropped", dropped).Msg("se descartaron líneas inválidas del carrito persistido")
	}
	if err := inventory.Verify(c.reservations(""), c.stock); err != nil {
		c.log.Warn().Err(err).Msg("el carrito restaurado excede el inventario actual")
	}
	return RestoreReport{Loaded: len(kept), Dropped: dropped}, nil
}

// Add agrega una unidad de la configuración. Si la línea ya existe incrementa;
// si no, la crea con cantidad 1. Ambos casos exigen disponibilidad > 0.
func (c *Cart) Add(ctx context.Context, sel entity.Selection) (Outcome, error) {
	if err := validateSelection(sel); err != nil {
		return Outcome{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	line := newLine(sel)
	if idx := c.indexOf(line.ID); idx >= 0 {
		return c.incrementAt(ctx, idx)
	}

	ceiling, err := c.ceiling(line)
	if err != nil {
		return Outcome{}, err
	}
	if ceiling.Units < 1 {
		return c.reject(line, 1, ceiling, false), nil
	}
	line.Quantity = 1
	c.lines = append(c.lines, line)
	return c.commit(ctx, Outcome{Line: ptr(line)}), nil
}

// Increment suma una unidad a una línea existente con el mismo control que Add.
func (c *Cart) Increment(ctx context.Context, id string) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return Outcome{}, lineNotFound(id)
	}
	return c.incrementAt(ctx, idx)
}

// Decrement resta una unidad; en cantidad 0 la línea desaparece. No consulta disponibilidad.
func (c *Cart) Decrement(ctx context.Context, id string) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return Outcome{}, lineNotFound(id)
	}
	if c.lines[idx].Quantity <= 1 {
		c.removeAt(idx)
		return c.commit(ctx, Outcome{Removed: true}), nil
	}
	c.lines[idx].Quantity--
	return c.commit(ctx, Outcome{Line: ptr(c.lines[idx])}), nil
}

// SetQuantity fija la cantidad de una línea. n = 0 la elimina; n por encima del
// máximo permitido se rechaza y la línea no cambia.
func (c *Cart) SetQuantity(ctx context.Context, id string, n int) (Outcome, error) {
	if n < 0 {
		return Outcome{}, fmt.Errorf("%w: cantidad negativa %d", domain.ErrInvalidInput, n)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return Outcome{}, lineNotFound(id)
	}
	line := c.lines[idx]
	switch {
	case n == 0:
		c.removeAt(idx)
		return c.commit(ctx, Outcome{Removed: true}), nil
	case n == line.Quantity:
		return Outcome{Line: ptr(line)}, nil
	case n < line.Quantity:
		c.lines[idx].Quantity = n
		return c.commit(ctx, Outcome{Line: ptr(c.lines[idx])}), nil
	}

	ceiling, err := c.ceiling(line)
	if err != nil {
		return Outcome{}, err
	}
	if n > ceiling.Units {
		return c.reject(line, n, ceiling, true), nil
	}
	c.lines[idx].Quantity = n
	return c.commit(ctx, Outcome{Line: ptr(c.lines[idx])}), nil
}

// Remove elimina la línea sin condiciones.
func (c *Cart) Remove(ctx context.Context, id string) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return Outcome{}, lineNotFound(id)
	}
	c.removeAt(idx)
	return c.commit(ctx, Outcome{Removed: true}), nil
}

// Clear vacía el carrito.
func (c *Cart) Clear(ctx context.Context) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = nil
	return c.commit(ctx, Outcome{Removed: true})
}

// AvailabilityFor unidades adicionales vendibles de la configuración: excluye la reserva
// de su propia línea y descuenta la cantidad que esa línea ya tiene.
func (c *Cart) AvailabilityFor(sel entity.Selection) (inventory.Result, error) {
	if err := validateSelection(sel); err != nil {
		return inventory.Result{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	line := newLine(sel)
	if idx := c.indexOf(line.ID); idx >= 0 {
		line = c.lines[idx]
	}
	ceiling, err := c.ceiling(line)
	if err != nil {
		return inventory.Result{}, err
	}
	if ceiling.IsUnlimited() {
		return ceiling, nil
	}
	ceiling.Units -= line.Quantity
	if ceiling.Units < 0 {
		ceiling.Units = 0
	}
	return ceiling, nil
}

// LineAvailability máximo de una línea y su cantidad, leídos del mismo estado del carrito.
type LineAvailability struct {
	Ceiling  inventory.Result
	Quantity int
}

// Additional unidades que todavía se pueden sumar a la línea.
func (a LineAvailability) Additional() int {
	if a.Ceiling.IsUnlimited() {
		return inventory.Unlimited
	}
	if n := a.Ceiling.Units - a.Quantity; n > 0 {
		return n
	}
	return 0
}

// AvailabilityForLine cantidad máxima que puede tener la línea (disponibilidad sin su
// propia reserva) junto a su cantidad actual. Siempre alcanza para reconfirmar la
// cantidad actual si el stock es consistente.
func (c *Cart) AvailabilityForLine(id string) (LineAvailability, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return LineAvailability{}, lineNotFound(id)
	}
	ceiling, err := c.ceiling(c.lines[idx])
	if err != nil {
		return LineAvailability{}, err
	}
	return LineAvailability{Ceiling: ceiling, Quantity: c.lines[idx].Quantity}, nil
}

// CanIncrementBy indica si la línea admite delta unidades más.
func (c *Cart) CanIncrementBy(id string, delta int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return false
	}
	target := c.lines[idx].Quantity + delta
	if delta <= 0 {
		return target >= 0
	}
	ceiling, err := c.ceiling(c.lines[idx])
	if err != nil {
		return false
	}
	return target <= ceiling.Units
}

// Stock copia del inventario local de la sesión (snapshot menos lo ya vendido).
func (c *Cart) Stock() inventory.Stock {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(inventory.Stock, len(c.stock))
	for id, e := range c.stock {
		out[id] = e
	}
	return out
}

// Lines copia de las líneas en orden de inserción.
func (c *Cart) Lines() []entity.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cloneLines()
}

// Line busca una línea por ID.
func (c *Cart) Line(id string) (entity.CartLine, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if idx := c.indexOf(id); idx >= 0 {
		return c.lines[idx].Clone(), true
	}
	return entity.CartLine{}, false
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Subtotal suma de los totales simples de cada línea.
func (c *Cart) Subtotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Total())
	}
	return total
}

// Verify comprueba que ningún insumo quede comprometido por encima de su existencia.
func (c *Cart) Verify() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return inventory.Verify(c.reservations(""), c.stock)
}

// Drain entrega a fn las líneas y el consumo total por insumo bajo el candado del carrito.
// Si fn termina sin error el carrito queda vacío y el consumo se descuenta del snapshot
// local; si falla, el carrito no cambia.
func (c *Cart) Drain(ctx context.Context, fn func(lines []entity.CartLine, consumption []entity.StockConsumption) error) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.lines) == 0 {
		return Outcome{}, domain.ErrEmptyCart
	}
	reservations := c.reservations("")
	if err := inventory.Verify(reservations, c.stock); err != nil {
		return Outcome{}, err
	}
	consumption, err := inventory.Consumption(reservations, c.stock)
	if err != nil {
		return Outcome{}, err
	}
	if err := fn(c.cloneLines(), consumption); err != nil {
		return Outcome{}, err
	}
	c.stock = deduct(c.stock, consumption)
	c.lines = nil
	return c.commit(ctx, Outcome{Removed: true}), nil
}

// deduct copia del snapshot con el consumo de una orden ya entregada descontado.
func deduct(stock inventory.Stock, consumption []entity.StockConsumption) inventory.Stock {
	out := make(inventory.Stock, len(stock))
	for id, e := range stock {
		out[id] = e
	}
	for _, c := range consumption {
		e := out[c.StockEntryID]
		e.Quantity = e.OnHand().Sub(c.Quantity)
		out[c.StockEntryID] = e
	}
	return out
}

// Sanitize descarta líneas sin IDs, con cantidad < 1, addons inválidos, identidad que no
// coincide con su configuración o duplicadas (se conserva la primera).
func Sanitize(lines []entity.CartLine) ([]entity.CartLine, int) {
	kept := make([]entity.CartLine, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, l := range lines {
		switch {
		case l.ID == "" || l.Recipe.ID == "" || l.Serving.ID == "":
		case l.Quantity < 1:
		case !validAddons(l.Addons):
		case l.ID != entity.LineKey(l.Recipe.ID, l.Serving.ID, l.Addons):
		case seen[l.ID]:
		default:
			seen[l.ID] = true
			kept = append(kept, l.Clone())
		}
	}
	return kept, len(lines) - len(kept)
}

// ── internos (requieren el candado tomado) ────────────────────────────────────

func (c *Cart) incrementAt(ctx context.Context, idx int) (Outcome, error) {
	line := c.lines[idx]
	ceiling, err := c.ceiling(line)
	if err != nil {
		return Outcome{}, err
	}
	if line.Quantity+1 > ceiling.Units {
		return c.reject(line, line.Quantity+1, ceiling, true), nil
	}
	c.lines[idx].Quantity++
	return c.commit(ctx, Outcome{Line: ptr(c.lines[idx])}), nil
}

// ceiling disponibilidad de la línea sin contar su propia reserva.
func (c *Cart) ceiling(line entity.CartLine) (inventory.Result, error) {
	res, err := inventory.Available(line.Serving.ID, line.Requirements(), c.stock, c.reservations(line.ID))
	if err != nil {
		c.log.Error().Err(err).Str("line_id", line.ID).Msg("no se pudo calcular la disponibilidad")
		return inventory.Result{}, err
	}
	return res, nil
}

// reservations reservas de todas las líneas excepto exclude.
func (c *Cart) reservations(exclude string) []inventory.Reservation {
	out := make([]inventory.Reservation, 0, len(c.lines))
	for _, l := range c.lines {
		if l.ID == exclude {
			continue
		}
		out = append(out, inventory.Reservation{LineID: l.ID, Quantity: l.Quantity, Requirements: l.Requirements()})
	}
	return out
}

func (c *Cart) reject(line entity.CartLine, requested int, ceiling inventory.Result, present bool) Outcome {
	rej := &domain.AvailabilityExceededError{
		LineID:     line.ID,
		Requested:  requested,
		Allowed:    ceiling.Units,
		Bottleneck: ceiling.Bottleneck,
	}
	c.log.Debug().
		Str("line_id", line.ID).
		Int("requested", requested).
		Int("allowed", ceiling.Units).
		Str("bottleneck", ceiling.Bottleneck).
		Msg("cantidad rechazada por disponibilidad")
	out := Outcome{Rejection: rej}
	if present {
		out.Line = ptr(line)
	}
	return out
}

// commit persiste la lista completa. Un fallo no revierte la mutación en memoria.
func (c *Cart) commit(ctx context.Context, out Outcome) Outcome {
	if c.store == nil {
		return out
	}
	if err := c.store.Save(ctx, c.cloneLines()); err != nil {
		c.log.Warn().Err(err).Int("lines", len(c.lines)).Msg("no se pudo persistir el carrito, el cambio queda solo en memoria")
		out.PersistErr = err
	}
	return out
}

func (c *Cart) indexOf(id string) int {
	for i, l := range c.lines {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(idx int) {
	c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
}

func (c *Cart) cloneLines() []entity.CartLine {
	out := make([]entity.CartLine, len(c.lines))
	for i, l := range c.lines {
		out[i] = l.Clone()
	}
	return out
}

func newLine(sel entity.Selection) entity.CartLine {
	addons := make([]entity.Addon, len(sel.Addons))
	for i, a := range sel.Addons {
		a.StockEntryID = strings.TrimSpace(a.StockEntryID)
		a.Unit = strings.ToLower(strings.TrimSpace(a.Unit))
		addons[i] = a
	}
	if len(addons) == 0 {
		addons = nil
	}
	return entity.CartLine{
		ID:      entity.LineKey(sel.Recipe.ID, sel.Serving.ID, addons),
		Recipe:  sel.Recipe.Header(),
		Serving: sel.Serving.Clone(),
		Addons:  addons,
	}
}

func validateSelection(sel entity.Selection) error {
	if sel.Recipe.ID == "" || sel.Serving.ID == "" {
		return fmt.Errorf("%w: receta y porción son obligatorias", domain.ErrInvalidInput)
	}
	if !validAddons(sel.Addons) {
		return fmt.Errorf("%w: addon inválido", domain.ErrInvalidInput)
	}
	return nil
}

func validAddons(addons []entity.Addon) bool {
	for _, a := range addons {
		if strings.TrimSpace(a.StockEntryID) == "" || strings.TrimSpace(a.Unit) == "" {
			return false
		}
		if !a.Quantity.IsPositive() || a.UnitPrice.IsNegative() {
			return false
		}
		if a.Category != "" && !a.Category.Valid() {
			return false
		}
	}
	return true
}

func lineNotFound(id string) error {
	return fmt.Errorf("%w: %s", domain.ErrLineNotFound, id)
}

func ptr(l entity.CartLine) *entity.CartLine {
	cp := l.Clone()
	return &cp
}
