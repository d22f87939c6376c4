package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/cafe-pos/pkg/jwt"
)

func TestGenerateYParse_IdaYVuelta(t *testing.T) {
	tok, err := pkgjwt.Generate("s3cret", "op-1", "cajero", "cafe-pos-test", 5)
	require.NoError(t, err)

	id, role, err := pkgjwt.Parse("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, "op-1", id)
	assert.Equal(t, "cajero", role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := pkgjwt.Generate("s3cret", "op-1", "cajero", "cafe-pos-test", 5)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse("otro", tok)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate("s3cret", "op-1", "cajero", "cafe-pos-test", -1)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse("s3cret", tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "op-1", "admin", "x", 5)
	assert.Error(t, err)
}
