package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-pos/internal/domain"
	"github.com/jhoicas/cafe-pos/internal/domain/entity"
	"github.com/jhoicas/cafe-pos/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// addonJSON forma de los adicionales dentro de la columna JSONB order_lines.addons.
type addonJSON struct {
	StockEntryID string          `json:"stock_entry_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	Category     string          `json:"category"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

// Create persiste cabecera, líneas y consumo de la orden.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO orders (id, operator_id, order_type, note, subtotal, discount_pct, total, cost, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		o.ID, nullIfEmpty(o.OperatorID), o.Type, o.Note, o.Subtotal, o.DiscountPct, o.Total, o.Cost, o.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: order %s already exists", domain.ErrConflict, o.ID)
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for i, l := range o.Lines {
		addons := make([]addonJSON, 0, len(l.Addons))
		for _, a := range l.Addons {
			addons = append(addons, addonJSON{
				StockEntryID: a.StockEntryID,
				Quantity:     a.Quantity,
				Unit:         a.Unit,
				Category:     string(a.Category),
				UnitPrice:    a.UnitPrice,
			})
		}
		raw, err := json.Marshal(addons)
		if err != nil {
			return fmt.Errorf("marshal addons: %w", err)
		}
		_, err = r.q.Exec(ctx, `
			INSERT INTO order_lines (order_id, position, line_id, recipe_id, recipe_name, serving_id, serving_name, quantity, unit_price, total, addons)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			o.ID, i, l.LineID, l.RecipeID, l.RecipeName, l.ServingID, l.ServingName, l.Quantity, l.UnitPrice, l.Total, raw,
		)
		if err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
	}

	for _, c := range o.Consumption {
		_, err := r.q.Exec(ctx, `
			INSERT INTO order_consumption (order_id, stock_entry_id, quantity, unit)
			VALUES ($1, $2, $3, $4)`,
			o.ID, c.StockEntryID, c.Quantity, c.Unit,
		)
		if err != nil {
			return fmt.Errorf("insert order consumption: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la orden completa. Devuelve nil, nil si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var (
		o          entity.Order
		operatorID *string
	)
	err := r.q.QueryRow(ctx, `
		SELECT id, operator_id, order_type, note, subtotal, discount_pct, total, cost, created_at
		FROM orders WHERE id = $1`, id).Scan(
		&o.ID, &operatorID, &o.Type, &o.Note, &o.Subtotal, &o.DiscountPct, &o.Total, &o.Cost, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	o.OperatorID = deref(operatorID)

	rows, err := r.q.Query(ctx, `
		SELECT line_id, recipe_id, recipe_name, serving_id, serving_name, quantity, unit_price, total, addons
		FROM order_lines WHERE order_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			l   entity.OrderLine
			raw []byte
		)
		if err := rows.Scan(&l.LineID, &l.RecipeID, &l.RecipeName, &l.ServingID, &l.ServingName, &l.Quantity, &l.UnitPrice, &l.Total, &raw); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		var addons []addonJSON
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &addons); err != nil {
				return nil, fmt.Errorf("unmarshal addons: %w", err)
			}
		}
		for _, a := range addons {
			l.Addons = append(l.Addons, entity.Addon{
				StockEntryID: a.StockEntryID,
				Quantity:     a.Quantity,
				Unit:         a.Unit,
				Category:     entity.Category(a.Category),
				UnitPrice:    a.UnitPrice,
			})
		}
		o.Lines = append(o.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	crows, err := r.q.Query(ctx, `
		SELECT stock_entry_id, quantity, unit FROM order_consumption
		WHERE order_id = $1 ORDER BY stock_entry_id`, id)
	if err != nil {
		return nil, fmt.Errorf("list order consumption: %w", err)
	}
	defer crows.Close()
	for crows.Next() {
		var c entity.StockConsumption
		if err := crows.Scan(&c.StockEntryID, &c.Quantity, &c.Unit); err != nil {
			return nil, fmt.Errorf("scan order consumption: %w", err)
		}
		o.Consumption = append(o.Consumption, c)
	}
	return &o, crows.Err()
}
