package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"doctrack/backend/internal/apperr"
	"doctrack/backend/internal/services"
)

func (h *Handler) CreateReminder(c *gin.Context) {
	var payload services.NewReminder
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	ctx, cancel := withTimeout(c, requestTimeout)
	defer cancel()
	r, err := h.reminders.Create(ctx, payload)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h *Handler) UpcomingReminders(c *gin.Context) {
	ctx, cancel := withTimeout(c, requestTimeout)
	defer cancel()

	out, err := h.reminders.Upcoming(ctx)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) CompleteReminder(c *gin.Context) {
	ctx, cancel := withTimeout(c, requestTimeout)
	defer cancel()

	r, err := h.reminders.MarkComplete(ctx, c.Param("id"))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *Handler) SyncReminders(c *gin.Context) {
	var payload services.ReminderUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	ctx, cancel := withTimeout(c, requestTimeout)
	defer cancel()
	res, err := h.reminders.SyncForDocument(ctx, c.Param("documentId"), payload)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Reminders updated successfully",
		"documentId":   res.DocumentID,
		"matchedCount": res.MatchedCount,
		"updatedCount": res.UpdatedCount,
		"updates":      res.Updates,
	})
}

func (h *Handler) DeleteReminders(c *gin.Context) {
	ctx, cancel := withTimeout(c, requestTimeout)
	defer cancel()

	n, err := h.reminders.DeleteForDocument(ctx, c.Param("documentId"))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reminders deleted successfully", "deletedCount": n})
}
