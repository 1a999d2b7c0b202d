package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"doctrack/backend/internal/apperr"
	"doctrack/backend/internal/models"
	"doctrack/backend/internal/session"
)

// Claims identify the user and the server-side session of a token.
type Claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs tokens and tracks their sessions. A token is only valid while
// its session exists.
type Issuer struct {
	key      []byte
	ttl      time.Duration
	sessions session.Store
	now      func() time.Time
}

func NewIssuer(key string, ttl time.Duration, sessions session.Store) (*Issuer, error) {
	if key == "" {
		return nil, fmt.Errorf("JWT_KEY environment variable not set")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{key: []byte(key), ttl: ttl, sessions: sessions, now: time.Now}, nil
}

// Issue creates a session for u and returns its signed token.
func (i *Issuer) Issue(ctx context.Context, u *models.User) (string, error) {
	sid := uuid.NewString()
	now := i.now()
	claims := Claims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.Hex(),
			ID:        sid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return "", err
	}
	if err := i.sessions.Create(ctx, sid, claims.Subject, i.ttl); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, expiry and the backing session.
func (i *Issuer) Verify(ctx context.Context, token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return i.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Unauthorized("Token expired")
		}
		return nil, apperr.Unauthorized("Invalid auth token")
	}
	if claims.ID == "" || claims.Subject == "" {
		return nil, apperr.Unauthorized("Invalid auth token")
	}

	userID, err := i.sessions.Lookup(ctx, claims.ID)
	if errors.Is(err, session.ErrNotFound) {
		return nil, apperr.Unauthorized("Session expired")
	}
	if err != nil {
		log.Printf("[Auth] Session lookup failed: %v", err)
		return nil, apperr.Persistence("verify session", err)
	}
	if userID != claims.Subject {
		return nil, apperr.Unauthorized("Invalid auth token")
	}
	return claims, nil
}

// Revoke ends the session behind claims.
func (i *Issuer) Revoke(ctx context.Context, claims *Claims) error {
	return i.sessions.Delete(ctx, claims.ID)
}
