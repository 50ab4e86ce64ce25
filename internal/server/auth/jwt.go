// Package auth issues and verifies the HS256 access tokens that carry a
// caller's principal.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/workcredits/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the registered claims plus the principal the token was issued to.
type Claims struct {
	jwt.RegisteredClaims
	Principal string `json:"principal"`
}

func GenerateToken(principal string, secretKey []byte, validityDuration time.Duration) (string, error) {
	if strings.TrimSpace(principal) == "" {
		return "", common.ErrInvalidPrincipal
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		Principal: principal,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

// GetPrincipalFromToken verifies tokenString and returns its principal.
// Expired tokens yield common.ErrTokenExpired, anything else that fails
// verification yields common.ErrInvalidToken.
func GetPrincipalFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || strings.TrimSpace(claims.Principal) == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Principal, nil
}
