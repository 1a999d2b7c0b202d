package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"doctrack/backend/internal/apperr"
	"doctrack/backend/internal/models"
	"doctrack/backend/internal/session"
)

func newIssuer(t *testing.T) *Issuer {
	t.Helper()
	i, err := NewIssuer("test-key", time.Hour, session.NewMemoryStore())
	require.NoError(t, err)
	return i
}

func testUser() *models.User {
	return &models.User{ID: primitive.NewObjectID(), Username: "jane", Role: models.RoleStaff}
}

func TestIssueAndVerify(t *testing.T) {
	ctx := context.Background()
	i := newIssuer(t)
	u := testUser()

	token, err := i.Issue(ctx, u)
	require.NoError(t, err)

	claims, err := i.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.Hex(), claims.Subject)
	assert.Equal(t, models.RoleStaff, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestVerify_RevokedSession(t *testing.T) {
	ctx := context.Background()
	i := newIssuer(t)

	token, err := i.Issue(ctx, testUser())
	require.NoError(t, err)
	claims, err := i.Verify(ctx, token)
	require.NoError(t, err)

	require.NoError(t, i.Revoke(ctx, claims))
	_, err = i.Verify(ctx, token)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestVerify_Expired(t *testing.T) {
	ctx := context.Background()
	i := newIssuer(t)
	issued := time.Now().Add(-2 * time.Hour)
	i.now = func() time.Time { return issued }

	token, err := i.Issue(ctx, testUser())
	require.NoError(t, err)

	i.now = time.Now
	_, err = i.Verify(ctx, token)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "Token expired", e.Message)
}

func TestVerify_WrongKey(t *testing.T) {
	ctx := context.Background()
	other, err := NewIssuer("other-key", time.Hour, session.NewMemoryStore())
	require.NoError(t, err)
	token, err := other.Issue(ctx, testUser())
	require.NoError(t, err)

	_, err = newIssuer(t).Verify(ctx, token)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestNewIssuer_RequiresKey(t *testing.T) {
	_, err := NewIssuer("", time.Hour, session.NewMemoryStore())
	assert.Error(t, err)
}
