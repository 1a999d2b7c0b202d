package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"doctrack/backend/internal/apperr"
	"doctrack/backend/internal/middleware"
	"doctrack/backend/internal/models"
)

func (h *Handler) ListUsers(c *gin.Context) {
	ctx, cancel := withTimeout(c, requestTimeout)
	defer cancel()

	users, err := h.users.List(ctx)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) UserDesignation(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"designation": user.Designation})
}

// CheckPermission reports whether the caller holds ?permission=.
func (h *Handler) CheckPermission(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	p := models.Permission(c.Query("permission"))

	ctx, cancel := withTimeout(c, requestTimeout)
	defer cancel()
	ok, err := h.users.Check(ctx, user.ID, p)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"permission": p, "hasPermission": ok})
}

func (h *Handler) UpdateUserPermissions(c *gin.Context) {
	var set models.PermissionSet
	if err := c.ShouldBindJSON(&set); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	ctx, cancel := withTimeout(c, requestTimeout)
	defer cancel()
	user, err := h.users.UpdatePermissions(ctx, c.Param("userId"), set)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Individual permissions updated", "user": user})
}

func (h *Handler) UpdateDesignationPermissions(c *gin.Context) {
	var set models.PermissionSet
	if err := c.ShouldBindJSON(&set); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	ctx, cancel := withTimeout(c, requestTimeout)
	defer cancel()
	n, err := h.users.UpdateDesignationPermissions(ctx, models.Designation(c.Param("designation")), set)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Designation permissions updated", "usersUpdated": n})
}
