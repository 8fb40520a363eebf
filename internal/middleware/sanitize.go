// internal/middleware/sanitize.go
package middleware

import (
	"bytes"
	"encoding/json"
	"html"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"

	"github.com/isows-india/worklicense-backend/internal/utils"
)

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeInput strips markup from string fields of a JSON body. With no
// fields given every top-level string field is cleaned.
func SanitizeInput(fields ...string) gin.HandlerFunc {
	only := make(map[string]bool, len(fields))
	for _, f := range fields {
		only[f] = true
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost &&
			c.Request.Method != http.MethodPut &&
			c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		if c.ContentType() != gin.MIMEJSON || c.Request.Body == nil {
			c.Next()
			return
		}

		buf, err := io.ReadAll(c.Request.Body)
		if err != nil {
			utils.BadRequestResponse(c, "", nil)
			c.Abort()
			return
		}

		var body map[string]interface{}
		if err := json.Unmarshal(buf, &body); err != nil {
			// leave malformed bodies for the handler's binding to reject
			c.Request.Body = io.NopCloser(bytes.NewReader(buf))
			c.Next()
			return
		}

		for k, v := range body {
			if len(only) > 0 && !only[k] {
				continue
			}
			if str, ok := v.(string); ok {
				body[k] = SanitizeText(str)
			}
		}

		newBody, _ := json.Marshal(body)
		c.Request.Body = io.NopCloser(bytes.NewReader(newBody))
		c.Request.ContentLength = int64(len(newBody))

		c.Next()
	}
}

// SanitizeText removes all markup from s. Entities produced by the policy
// are unescaped again so plain punctuation survives.
func SanitizeText(s string) string {
	return html.UnescapeString(strictPolicy.Sanitize(s))
}
