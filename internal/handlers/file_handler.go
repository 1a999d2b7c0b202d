package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"doctrack/backend/internal/apperr"
)

func (h *Handler) NextEntryID(c *gin.Context) {
	ctx, cancel := withTimeout(c, requestTimeout)
	defer cancel()

	id, err := h.docs.NextEntryID(ctx)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"nextEntryId": id})
}

func (h *Handler) ListFiles(c *gin.Context) {
	ctx, cancel := withTimeout(c, requestTimeout)
	defer cancel()

	docs, err := h.docs.All(ctx)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

// ServeFile streams a stored binary by its stored filename.
func (h *Handler) ServeFile(c *gin.Context) {
	ctx, cancel := withTimeout(c, requestTimeout)
	defer cancel()

	name := c.Param("filename")
	rc, err := h.docs.OpenStored(ctx, name)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	defer rc.Close()
	stream(c, rc, name)
}
