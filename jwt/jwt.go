package jwt

import (
	"context"
	"errors"
	"fmt"
	"github.com/golang-jwt/jwt/v5"
	"time"
)

var ErrTokenRevoked = errors.New("token has been revoked")

// TokenStore tells whether an issued token is still live (not logged out).
type TokenStore interface {
	Active(ctx context.Context, token string) (bool, error)
}

type Manager struct {
	secret []byte
	ttl    time.Duration
	store  TokenStore
}

func NewManager(secret string, ttl time.Duration, store TokenStore) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, store: store}
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// GenerateToken signs a token for the user and returns it with its expiry.
func (m *Manager) GenerateToken(userID uint, role string) (string, time.Time, error) {
	expTime := time.Now().Add(m.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userID": userID,
		"role":   role,
		"exp":    expTime.Unix(),
	})

	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expTime, nil
}

// VerifyToken checks signature, expiry and revocation and returns the
// user id and role carried by the token.
func (m *Manager) VerifyToken(ctx context.Context, tokenString string) (uint, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, "", jwt.ErrTokenSignatureInvalid
	}
	rawID, ok := claims["userID"].(float64)
	if !ok {
		return 0, "", fmt.Errorf("%w: missing userID", jwt.ErrTokenInvalidClaims)
	}
	role, _ := claims["role"].(string)

	// logout deletes the stored token
	active, err := m.store.Active(ctx, tokenString)
	if err != nil {
		return 0, "", err
	}
	if !active {
		return 0, "", ErrTokenRevoked
	}

	return uint(rawID), role, nil
}
