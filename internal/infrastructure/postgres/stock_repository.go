package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-pos/internal/domain"
	"github.com/jhoicas/cafe-pos/internal/domain/entity"
	"github.com/jhoicas/cafe-pos/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `id, name, category, unit, quantity, perishable, average_unit_cost, addon_price`

// List devuelve todos los insumos activos.
func (r *StockRepo) List(ctx context.Context) ([]entity.StockEntry, error) {
	rows, err := r.q.Query(ctx, `SELECT `+stockColumns+` FROM stock_entries WHERE active ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list stock entries: %w", err)
	}
	defer rows.Close()

	var out []entity.StockEntry
	for rows.Next() {
		e, err := scanStockEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock entry: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// GetForUpdate obtiene el insumo y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockEntry, error) {
	row := r.q.QueryRow(ctx, `SELECT `+stockColumns+` FROM stock_entries WHERE id = $1 FOR UPDATE`, id)
	e, err := scanStockEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: stock entry %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get stock entry for update: %w", err)
	}
	return e, nil
}

// Decrement descuenta qty (en la unidad almacenada). La restricción quantity >= 0 de la
// tabla rechaza cualquier descuento que deje el insumo en negativo.
func (r *StockRepo) Decrement(ctx context.Context, id string, qty decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE stock_entries SET quantity = quantity - $2, updated_at = now()
		WHERE id = $1 AND quantity >= $2`, id, qty)
	if err != nil {
		return fmt.Errorf("decrement stock entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrInsufficientStock, id)
	}
	return nil
}

func scanStockEntry(row pgx.Row) (*entity.StockEntry, error) {
	var (
		e        entity.StockEntry
		category string
	)
	if err := row.Scan(&e.ID, &e.Name, &category, &e.Unit, &e.Quantity, &e.Perishable, &e.AverageUnitCost, &e.AddonPrice); err != nil {
		return nil, err
	}
	e.Category = entity.Category(category)
	return &e, nil
}
