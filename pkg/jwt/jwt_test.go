package jwt_test

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/mfg-console/pkg/jwt"
)

const (
	secret = "test-secret-key-for-unit-tests"
	userID = "00000000-0000-0000-0000-000000000007"
)

func TestGenerateYParse_ConservaOperadorYRol(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, userID, "produccion", "mfg-console-test", 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	gotUser, gotRole, err := pkgjwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, userID, gotUser)
	assert.Equal(t, "produccion", gotRole)
}

func TestParse_Rechazos(t *testing.T) {
	valid, err := pkgjwt.Generate(secret, userID, "almacen", "mfg-console-test", 60)
	require.NoError(t, err)
	expired, err := pkgjwt.Generate(secret, userID, "almacen", "mfg-console-test", -1)
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{"expirado", secret, expired},
		{"secret incorrecto", "otro-secret-completamente-distinto", valid},
		{"mal formado", secret, "token.invalido.aqui"},
		{"secret vacío", "", valid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := pkgjwt.Parse(tt.secret, tt.token)
			assert.Error(t, err)
		})
	}
}

func TestGenerate_SinSecret(t *testing.T) {
	_, err := pkgjwt.Generate("", userID, "admin", "", 60)
	assert.ErrorIs(t, err, pkgjwt.ErrEmptySecret)
}

func sign(t *testing.T, method gojwt.SigningMethod, key any, claims pkgjwt.Claims) string {
	t.Helper()
	tok, err := gojwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return tok
}

func TestRoles(t *testing.T) {
	for _, r := range []string{pkgjwt.RoleAdmin, pkgjwt.RoleAlmacen, pkgjwt.RoleProduccion} {
		assert.True(t, pkgjwt.ValidRole(r), r)
	}
	assert.False(t, pkgjwt.ValidRole("Admin"))
	assert.False(t, pkgjwt.ValidRole(""))

	_, err := pkgjwt.Generate(secret, userID, "contabilidad", "", 60)
	assert.ErrorIs(t, err, pkgjwt.ErrUnknownRole)
}

func TestParse_RolDesconocidoInvalidaElToken(t *testing.T) {
	exp := gojwt.NewNumericDate(time.Now().Add(time.Hour))
	tok := sign(t, gojwt.SigningMethodHS256, []byte(secret), pkgjwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{ExpiresAt: exp},
		UserID:           userID,
		Role:             "contabilidad",
	})
	_, _, err := pkgjwt.Parse(secret, tok)
	assert.ErrorIs(t, err, pkgjwt.ErrUnknownRole)

	// Sin rol sigue siendo un token válido; la autorización lo rechaza después.
	tok = sign(t, gojwt.SigningMethodHS256, []byte(secret), pkgjwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{ExpiresAt: exp},
		UserID:           userID,
	})
	gotUser, gotRole, err := pkgjwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, userID, gotUser)
	assert.Empty(t, gotRole)
}

func TestParse_ExigeHS256YVencimiento(t *testing.T) {
	tok := sign(t, gojwt.SigningMethodHS512, []byte(secret), pkgjwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           userID,
		Role:             pkgjwt.RoleAdmin,
	})
	_, _, err := pkgjwt.Parse(secret, tok)
	assert.Error(t, err)

	tok = sign(t, gojwt.SigningMethodHS256, []byte(secret), pkgjwt.Claims{UserID: userID, Role: pkgjwt.RoleAdmin})
	_, _, err = pkgjwt.Parse(secret, tok)
	assert.Error(t, err, "un token sin exp no se acepta")
}
