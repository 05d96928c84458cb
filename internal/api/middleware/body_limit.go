package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"weld-oee/backend/pkg/response"
)

// CodeBodyTooLarge business code for a body over the configured cap
const CodeBodyTooLarge = 10005

// BodyLimit caps the request body size. Offline sync batches are the
// largest legitimate bodies, so the cap is sized for them. A declared
// Content-Length over the cap is refused before the handler runs; chunked
// bodies are cut off while reading and surface through IsBodyTooLarge.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, CodeBodyTooLarge, "request body too large")
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// IsBodyTooLarge reports whether a bind error came from reading past the cap
func IsBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
