package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the portal session. BackendToken holds the sealed backend bearer
// token and is never exposed in clear.
type Claims struct {
	UserID       int64  `json:"uid"`
	Role         Role   `json:"role"`
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	BackendToken string `json:"bt"`
	jwt.RegisteredClaims
}

func (c *Claims) Principal() *Principal {
	return &Principal{UserID: c.UserID, Role: c.Role, Name: c.Name, Email: c.Email}
}

func GenerateToken(secret string, claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID <= 0 || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
