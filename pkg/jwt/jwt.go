package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims token de servicio que este front-end presenta ante la API de facturas.
type Claims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope"` // "invoices:read invoices:write"
}

// ServiceScope alcance solicitado por el front-end.
const ServiceScope = "invoices:read invoices:write"

// Generate genera un token HS256 de corta duración para llamadas servicio a servicio.
func Generate(secret, issuer, subject string, expMinutes int, now time.Time) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	if expMinutes <= 0 {
		expMinutes = 5
	}
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		Scope: ServiceScope,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve sus claims.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
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
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}

// TokenSource genera tokens bajo demanda para el cliente HTTP.
type TokenSource struct {
	Secret     string
	Issuer     string
	Subject    string
	ExpMinutes int
	Now        func() time.Time
}

// Token devuelve un token nuevo; vacío si no hay secret configurado.
func (s TokenSource) Token() (string, error) {
	if s.Secret == "" {
		return "", nil
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return Generate(s.Secret, s.Issuer, s.Subject, s.ExpMinutes, now())
}
