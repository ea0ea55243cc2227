package tokens

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims carries {email, sub, role} plus the registered expiry.
type AccessClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func AccessClaimsFromToken(raw string, secret []byte) (*AccessClaims, error) {
	claims := &AccessClaims{}
	t, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signature method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !t.Valid {
		return nil, fmt.Errorf("invalid access token")
	}
	return claims, nil
}
