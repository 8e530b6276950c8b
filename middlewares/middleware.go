package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/buildsite/sitestock_backend/appctx"
)

// CorrelationMiddleware attaches a correlation id to every request context,
// reusing the caller's x-correlation-id header when present.
func CorrelationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(
			appctx.Set(c.Request.Context(), appctx.ContextKeyCorrelationId, cid))
		c.Writer.Header().Set("x-correlation-id", cid)
		c.Next()
	}
}

// ErrorLoggerMiddleware logs only requests that accumulated gin errors.
func ErrorLoggerMiddleware(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			cid, _ := appctx.GetString(c.Request.Context(), appctx.ContextKeyCorrelationId)
			logger.WithFields(logrus.Fields{
				"path":           c.Request.URL.Path,
				"method":         c.Request.Method,
				"status":         c.Writer.Status(),
				"correlation_id": cid,
			}).Error(c.Errors.String())
		}
	}
}
