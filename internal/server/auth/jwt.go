// Package auth issues and verifies mechanic session tokens and hashes PINs.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/dvi/internal/common"
)

// Claims carries the standard registered claims plus the mechanic id.
type Claims struct {
	jwt.RegisteredClaims
	MechanicID int64 `json:"mid"`
}

func GenerateToken(mechanicID int64, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		MechanicID: mechanicID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetMechanicIDFromToken validates tokenString and returns its mechanic id.
// Expired tokens yield common.ErrTokenExpired, anything else invalid
// common.ErrInvalidToken.
func GetMechanicIDFromToken(tokenString string, secretKey []byte) (int64, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, common.ErrTokenExpired
		}
		return 0, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.MechanicID <= 0 {
		return 0, common.ErrInvalidToken
	}

	return claims.MechanicID, nil
}
