package auth

import (
	"context"

	"doctrack/backend/internal/models"
)

// A private key for context access
type contextKey string

const principalContextKey = contextKey("principal")

// Principal is the authenticated caller of a request.
type Principal struct {
	User   *models.User
	Claims *Claims
}

func NewContext(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// ForContext finds the principal from the context.
func ForContext(ctx context.Context) *Principal {
	raw, _ := ctx.Value(principalContextKey).(*Principal)
	return raw
}
