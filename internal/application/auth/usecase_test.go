package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/cafe-pos/internal/application/auth"
	"github.com/jhoicas/cafe-pos/internal/application/dto"
	"github.com/jhoicas/cafe-pos/internal/domain"
	"github.com/jhoicas/cafe-pos/internal/domain/entity"
	pkgjwt "github.com/jhoicas/cafe-pos/pkg/jwt"
)

type memOperators map[string]*entity.Operator

func (m memOperators) FindByEmail(_ context.Context, email string) (*entity.Operator, error) {
	return m[email], nil
}

func (m memOperators) FindByID(_ context.Context, id string) (*entity.Operator, error) {
	for _, op := range m {
		if op.ID == id {
			return op, nil
		}
	}
	return nil, nil
}

const secret = "test-secret"

func newUseCase(t *testing.T, status string) *auth.AuthUseCase {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("cafe1234"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := memOperators{"caja@cafe.co": {
		ID: "op-1", Email: "caja@cafe.co", PasswordHash: string(hash), Name: "Caja 1",
		Role: entity.RoleCashier, Status: status,
	}}
	return auth.NewAuthUseCase(repo, auth.JWTConfig{Secret: secret, ExpMinutes: 10, Issuer: "cafe-pos-test"})
}

func TestLogin_CredencialesValidas(t *testing.T) {
	resp, err := newUseCase(t, "active").Login(context.Background(), dto.LoginRequest{Email: " Caja@Cafe.co ", Password: "cafe1234"})
	require.NoError(t, err)
	assert.Equal(t, "op-1", resp.Operator.ID)

	id, role, err := pkgjwt.Parse(secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "op-1", id)
	assert.Equal(t, entity.RoleCashier, role)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	_, err := newUseCase(t, "active").Login(context.Background(), dto.LoginRequest{Email: "caja@cafe.co", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_OperadorInexistente(t *testing.T) {
	_, err := newUseCase(t, "active").Login(context.Background(), dto.LoginRequest{Email: "nadie@cafe.co", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_OperadorInactivo(t *testing.T) {
	_, err := newUseCase(t, "inactive").Login(context.Background(), dto.LoginRequest{Email: "caja@cafe.co", Password: "cafe1234"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
