package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles de operador que acepta la consola.
const (
	RoleAdmin      = "admin"
	RoleAlmacen    = "almacen"
	RoleProduccion = "produccion"
)

var (
	ErrEmptySecret = errors.New("jwt: secret vacío")
	ErrUnknownRole = errors.New("jwt: rol desconocido")
)

// ValidRole indica si role es uno de los roles de operador.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleAlmacen, RoleProduccion:
		return true
	}
	return false
}

// Claims operador y rol además de los claims estándar. La sesión se administra fuera de este
// servicio; el token solo identifica al actor de cada movimiento.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Role   string `json:"role,omitempty"`
}

// checkRole acepta un rol vacío: el middleware lo responde como MISSING_ROLE.
func checkRole(role string) error {
	if role != "" && !ValidRole(role) {
		return fmt.Errorf("%w %q", ErrUnknownRole, role)
	}
	return nil
}

// Generate firma un token HS256 para el operador.
func Generate(secret, userID, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	if err := checkRole(role); err != nil {
		return "", err
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID: userID,
		Role:   role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse verifica firma y vencimiento y devuelve operador y rol. Un rol fuera del conjunto
// conocido invalida el token.
func Parse(secret, tokenString string) (userID, role string, err error) {
	if secret == "" {
		return "", "", ErrEmptySecret
	}
	claims := &Claims{}
	_, err = jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", "", err
	}
	if err := checkRole(claims.Role); err != nil {
		return "", "", err
	}
	return claims.UserID, claims.Role, nil
}
