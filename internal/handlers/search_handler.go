package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"doctrack/backend/internal/apperr"
	"doctrack/backend/internal/documents"
)

// SearchDocuments filters by keyword, title, category, type and upload date
// range, returning one page newest first.
func (h *Handler) SearchDocuments(c *gin.Context) {
	var params documents.SearchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid search parameters"})
		return
	}

	ctx, cancel := withTimeout(c, requestTimeout)
	defer cancel()
	page, err := h.docs.Search(ctx, params)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
