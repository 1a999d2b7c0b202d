package apperr

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Respond writes err as a JSON error body and aborts the request. Errors
// without a kind are reported as internal failures and only logged.
func Respond(c *gin.Context, err error) {
	e, ok := As(err)
	if !ok {
		log.Printf("[API] %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	body := gin.H{"error": e.Message, "kind": e.Kind}
	if e.Kind == KindPersistence {
		log.Printf("[API] %s %s: %v", c.Request.Method, c.FullPath(), e)
		body["error"] = "Failed to " + e.Message
	}
	if len(e.Fields) > 0 {
		body["fields"] = e.Fields
	}
	if e.Permission != "" {
		body["permission"] = e.Permission
	}
	c.AbortWithStatusJSON(e.Status(), body)
}
