package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Tipos de token emitidos por el proveedor local.
const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

// audienceAuthenticated es la audiencia que usa el BaaS para sesiones de usuario.
const audienceAuthenticated = "authenticated"

// Claims incluye los claims estándar JWT más los campos que firma el BaaS (email, role).
// El rol de negocio (ADMIN/MANAGER/STAFF) no viaja en el token: se resuelve en el perfil.
type Claims struct {
	jwt.RegisteredClaims
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	TokenType string `json:"token_type,omitempty"`
}

// UserID es el subject del token.
func (c *Claims) UserID() string { return c.Subject }

// IsRefresh indica si el token solo sirve para renovar la sesión.
func (c *Claims) IsRefresh() bool { return c.TokenType == TokenRefresh }

// Generate genera un token HS256 con el mismo formato que los access tokens del BaaS.
func Generate(secret, userID, email, tokenType, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", errors.New("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			Audience:  jwt.ClaimStrings{audienceAuthenticated},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		Email:     email,
		Role:      audienceAuthenticated,
		TokenType: tokenType,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma y expiración y devuelve los claims.
// Retorna error si el token es inválido, expirado, tiene firma incorrecta o no trae subject.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, errors.New("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("claims inválidos")
	}
	if claims.Subject == "" {
		return nil, errors.New("token sin subject")
	}
	return claims, nil
}
