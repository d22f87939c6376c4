package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/cafe-pos/internal/domain/entity"
	"github.com/jhoicas/cafe-pos/internal/domain/repository"
)

var _ repository.OperatorRepository = (*OperatorRepo)(nil)

// OperatorRepo implementación del puerto OperatorRepository sobre PostgreSQL.
type OperatorRepo struct {
	pool *pgxpool.Pool
}

// NewOperatorRepository construye el adaptador de persistencia para operadores.
func NewOperatorRepository(pool *pgxpool.Pool) *OperatorRepo {
	return &OperatorRepo{pool: pool}
}

const operatorColumns = `id, email, password_hash, name, role, status, created_at, updated_at`

// FindByID obtiene un operador por ID. Devuelve nil, nil si no existe.
func (r *OperatorRepo) FindByID(ctx context.Context, id string) (*entity.Operator, error) {
	o, err := scanOperator(r.pool.QueryRow(ctx, `SELECT `+operatorColumns+` FROM operators WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get operator by id: %w", err)
	}
	return o, nil
}

// FindByEmail obtiene un operador por email. Devuelve nil, nil si no existe.
func (r *OperatorRepo) FindByEmail(ctx context.Context, email string) (*entity.Operator, error) {
	o, err := scanOperator(r.pool.QueryRow(ctx, `SELECT `+operatorColumns+` FROM operators WHERE lower(email) = lower($1) LIMIT 1`, email))
	if err != nil {
		return nil, fmt.Errorf("get operator by email: %w", err)
	}
	return o, nil
}

func scanOperator(row pgx.Row) (*entity.Operator, error) {
	var o entity.Operator
	err := row.Scan(&o.ID, &o.Email, &o.PasswordHash, &o.Name, &o.Role, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}
