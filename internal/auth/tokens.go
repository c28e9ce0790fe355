// Package auth owns token issuing/verification and the request auth gate.
package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/example/todo-backend/internal/domain"
)

// Identity is what a verified token proves about the caller.
type Identity struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

type Claims struct {
	jwt.RegisteredClaims
	Email    string `json:"email"`
	Username string `json:"username"`
}

type TokenService struct {
	Secret    []byte
	AccessTTL time.Duration
}

// Sign issues an HS256 token for the user. A zero now means time.Now.
func (s TokenService) Sign(u domain.User, now time.Time) (string, error) {
	if len(s.Secret) == 0 {
		return "", errors.New("missing jwt secret")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	ttl := s.AccessTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:    u.Email,
		Username: u.Username,
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.Secret)
}

// Parse verifies the signature and expiry and returns the caller identity.
func (s TokenService) Parse(tokenString string) (Identity, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return s.Secret, nil
	})
	if err != nil {
		return Identity{}, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return Identity{}, errors.New("invalid token")
	}
	return Identity{ID: claims.Subject, Email: claims.Email, Username: claims.Username}, nil
}
