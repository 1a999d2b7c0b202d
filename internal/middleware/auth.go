package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"doctrack/backend/internal/apperr"
	"doctrack/backend/internal/auth"
	"doctrack/backend/internal/models"
	"doctrack/backend/internal/permissions"
)

// UserLoader loads the account behind a verified token.
type UserLoader interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// AuthMiddleware verifies bearer tokens and loads the caller's current
// account, so permission changes apply without logging in again.
func AuthMiddleware(issuer *auth.Issuer, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.Request.Header.Get("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		claims, err := issuer.Verify(c.Request.Context(), tokenString)
		if err != nil {
			apperr.Respond(c, err)
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.Subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid auth token"})
			return
		}
		user, err := users.Get(c.Request.Context(), userID)
		if err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
				return
			}
			apperr.Respond(c, err)
			return
		}

		ctx := auth.NewContext(c.Request.Context(), &auth.Principal{User: user, Claims: claims})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// CurrentUser returns the authenticated user of the request, or nil.
func CurrentUser(c *gin.Context) *models.User {
	p := auth.ForContext(c.Request.Context())
	if p == nil {
		return nil
	}
	return p.User
}

// RequireRole allows only callers holding one of roles.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		for _, r := range roles {
			if user.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	}
}

// RequirePermission allows callers whose individual flag or designation
// default grants p.
func RequirePermission(p models.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if !permissions.HasPermission(user, p) {
			log.Printf("[Permissions] %s denied %s on %s", user.Username, p, c.FullPath())
			apperr.Respond(c, apperr.PermissionDenied(string(p)))
			return
		}
		c.Next()
	}
}
