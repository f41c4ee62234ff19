package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// devSecret signs tokens when JWT_SECRET is unset, which config only allows
// in development.
const devSecret = "dentalcare-dev-secret"

var ErrInvalidToken = errors.New("invalid token")

// Claims carries the authenticated user id and role.
type Claims struct {
	UserID uint64 `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 access tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if secret == "" {
		secret = devSecret
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// GenerateToken returns a signed token for the user.
func (t *TokenIssuer) GenerateToken(userID uint64, role string) (string, error) {
	now := t.now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			Issuer:    ServiceName,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// ValidateToken verifies the signature and expiry of encodedToken.
func (t *TokenIssuer) ValidateToken(encodedToken string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(encodedToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
