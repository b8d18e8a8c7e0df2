package middleware

import (
	"log"
	"net/http"

	"dashkit/domain/core"

	"github.com/gin-gonic/gin"
)

// RequestIDHeader carries the per-request correlation ID
const RequestIDHeader = "X-Request-ID"

// RequestID tags every request with an ID, reusing a valid one from the client
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := core.ParseID(id); err != nil {
			id = core.NewID().String()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// LimitBody caps the request body at maxBytes. Requests that declare a larger
// Content-Length are rejected before the handler runs.
func LimitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			log.Printf("[LimitBody] Rejecting %s %s: %d bytes exceeds limit of %d",
				c.Request.Method, c.Request.URL.Path, c.Request.ContentLength, maxBytes)
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"code":  "PAYLOAD_TOO_LARGE",
				"error": "upload exceeds the size limit",
			})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
