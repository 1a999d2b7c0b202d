package auth

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"doctrack/backend/internal/apperr"
	"doctrack/backend/internal/permissions"
	"doctrack/backend/internal/services"
)

type Handler struct {
	users  *services.UserService
	issuer *Issuer
}

func NewHandler(users *services.UserService, issuer *Issuer) *Handler {
	return &Handler{users: users, issuer: issuer}
}

type LoginPayload struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var payload LoginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		apperr.Respond(c, apperr.Validation("Username and password are required.", "username", "password"))
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	token, err := h.issuer.Issue(c.Request.Context(), user)
	if err != nil {
		log.Printf("[Auth] Failed to issue token for %s: %v", user.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "role": user.Role, "username": user.Username})
}

func (h *Handler) Logout(c *gin.Context) {
	p := ForContext(c.Request.Context())
	if p == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if err := h.issuer.Revoke(c.Request.Context(), p.Claims); err != nil {
		apperr.Respond(c, apperr.Persistence("end session", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Register creates a Staff account. Only admins reach it.
func (h *Handler) Register(c *gin.Context) {
	var payload services.Registration
	if err := c.ShouldBindJSON(&payload); err != nil {
		apperr.Respond(c, apperr.Validation("Invalid request payload"))
		return
	}

	user, err := h.users.RegisterStaff(c.Request.Context(), payload)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Staff registered successfully", "user": user})
}

// UserPermissions returns the caller's own flags and what they resolve to.
func (h *Handler) UserPermissions(c *gin.Context) {
	p := ForContext(c.Request.Context())
	if p == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"permissions": p.User.Permissions,
		"effective":   permissions.Effective(p.User),
		"designation": p.User.Designation,
		"role":        p.User.Role,
	})
}
