package handlers

import (
	"io"
	"log"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"doctrack/backend/internal/apperr"
	"doctrack/backend/internal/documents"
	"doctrack/backend/internal/middleware"
	"doctrack/backend/internal/services"
)

func toUpload(fh *multipart.FileHeader) documents.Upload {
	return documents.Upload{
		Filename: fh.Filename,
		MIMEType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

func (h *Handler) limitBody(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadMB<<20)
}

// UploadDocuments accepts a multipart batch under "documents" plus the
// shared metadata fields.
func (h *Handler) UploadDocuments(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	h.limitBody(c)
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error parsing form data"})
		return
	}

	var meta documents.Metadata
	if err := c.ShouldBind(&meta); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data"})
		return
	}
	files := make([]documents.Upload, 0, len(form.File["documents"]))
	for _, fh := range form.File["documents"] {
		files = append(files, toUpload(fh))
	}

	ctx, cancel := withTimeout(c, uploadTimeout)
	defer cancel()
	res, err := h.docs.Upload(ctx, user.ID, files, meta)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// GetDocument returns the record, or streams its file when includeFile=true.
func (h *Handler) GetDocument(c *gin.Context) {
	ctx, cancel := withTimeout(c, requestTimeout)
	defer cancel()

	if include, _ := strconv.ParseBool(c.Query("includeFile")); !include {
		doc, err := h.docs.Get(ctx, c.Param("id"))
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, doc)
		return
	}

	doc, rc, err := h.docs.OpenFile(ctx, c.Param("id"))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	defer rc.Close()
	stream(c, rc, doc.OriginalName)
}

func stream(c *gin.Context, rc io.Reader, name string) {
	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": name}))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		log.Printf("[DocumentHandler] Error streaming %s to client: %v", name, err)
	}
}

// UpdateDocument applies metadata changes and an optional replacement "file".
func (h *Handler) UpdateDocument(c *gin.Context) {
	h.limitBody(c)
	var changes services.Changes
	if err := c.ShouldBind(&changes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	var replacement *documents.Upload
	if fh, err := c.FormFile("file"); err == nil {
		u := toUpload(fh)
		replacement = &u
	}

	ctx, cancel := withTimeout(c, uploadTimeout)
	defer cancel()
	res, err := h.docs.Update(ctx, c.Param("id"), changes, replacement)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":          "Document updated successfully",
		"document":         res.Document,
		"remindersMatched": res.RemindersMatched,
		"remindersUpdated": res.RemindersUpdated,
	})
}

func (h *Handler) DeleteDocument(c *gin.Context) {
	ctx, cancel := withTimeout(c, requestTimeout)
	defer cancel()

	res, err := h.docs.Delete(ctx, c.Param("id"))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":          "Document deleted successfully",
		"documentId":       res.DocumentID,
		"remindersDeleted": res.RemindersDeleted,
	})
}

func (h *Handler) DocumentsByCategory(c *gin.Context) {
	ctx, cancel := withTimeout(c, requestTimeout)
	defer cancel()

	grouped, err := h.docs.ByCategory(ctx)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, grouped)
}

func (h *Handler) RecentUploads(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	ctx, cancel := withTimeout(c, requestTimeout)
	defer cancel()
	recent, err := h.docs.Recent(ctx, limit)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, recent)
}
