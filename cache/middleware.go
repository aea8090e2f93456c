package cache

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
)

// bufferedWriter holds the body back until the handler has finished so the
// tag can be computed over the whole response.
type bufferedWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bufferedWriter) Write(b []byte) (int, error) {
	return w.body.Write(b)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	return w.body.WriteString(s)
}

// ETag tags successful GET responses and answers 304 Not Modified when the
// client already holds the current representation.
func ETag() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		original := c.Writer
		writer := &bufferedWriter{ResponseWriter: original, body: bytes.NewBuffer(nil)}
		c.Writer = writer

		c.Next()

		c.Writer = original
		body := writer.body.Bytes()

		if original.Status() == http.StatusOK {
			tag := Tag(body)
			h := original.Header()
			h.Set("ETag", tag)
			h.Set("Cache-Control", "no-cache")

			if Matches(c.GetHeader("If-None-Match"), tag) {
				h.Del("Content-Type")
				h.Del("Content-Length")
				original.WriteHeader(http.StatusNotModified)
				original.WriteHeaderNow()
				return
			}
		}

		if len(body) == 0 {
			original.WriteHeaderNow()
			return
		}
		_, _ = original.Write(body)
	}
}
