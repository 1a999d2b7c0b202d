package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"doctrack/backend/internal/services"
)

const (
	requestTimeout = 10 * time.Second
	uploadTimeout  = 5 * time.Minute
)

// Handler serves the document, reminder, user and file endpoints.
type Handler struct {
	docs        *services.DocumentService
	reminders   *services.ReminderService
	users       *services.UserService
	maxUploadMB int64
}

func New(docs *services.DocumentService, reminders *services.ReminderService, users *services.UserService, maxUploadMB int64) *Handler {
	if maxUploadMB <= 0 {
		maxUploadMB = 50
	}
	return &Handler{docs: docs, reminders: reminders, users: users, maxUploadMB: maxUploadMB}
}

func withTimeout(c *gin.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), d)
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
