package middleware

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"subbazar.com/app/internal/shared/apperr"
)

func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ErrorHandler turns the last gin error into the JSON envelope. Customers get
// the public message only; admin routes also get the raw diagnostic since
// operators need the upstream detail (and can be shown it safely).
func ErrorHandler(l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := apperr.HTTPStatus(err)
		publicMsg := apperr.PublicMessage(err)
		rid := GetRequestID(c)

		l.LogAttrs(c.Request.Context(), slog.LevelError, "request_failed",
			slog.String("request_id", rid),
			slog.Int("status", status),
			slog.Any("err", err),
		)

		payload := gin.H{
			"error":      publicMsg,
			"request_id": rid,
		}
		if ae, ok := apperr.As(err); ok && len(ae.Fields) > 0 {
			payload["fields"] = ae.Fields
		}
		if strings.HasPrefix(c.Request.URL.Path, "/api/admin/") {
			if diag := apperr.DiagnosticMessage(err); diag != "" {
				payload["diagnostic"] = diag
			}
		}
		c.AbortWithStatusJSON(status, payload)
	}
}
