package entity

import "time"

// Roles válidos para Operator.
const (
	RoleAdmin   = "admin"
	RoleCashier = "cajero"
)

// Operator usuario que opera la caja (POS).
type Operator struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, cajero
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
