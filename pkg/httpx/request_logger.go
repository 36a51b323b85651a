package httpx

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/orderfeed/internal/ports"
	"github.com/Gunvolt24/orderfeed/pkg/ctxmeta"
)

// RequestLogger — журнал HTTP-запросов; 5xx пишутся как ошибки, 4xx как предупреждения.
func RequestLogger(log ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// служебные маршруты не логируем
		switch c.FullPath() {
		case "/metrics", "/ping":
			return
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		ctx := c.Request.Context()
		rid, _ := ctxmeta.RequestIDFromContext(ctx)
		tr, _, _ := ctxmeta.TraceFromContext(ctx)

		logf := log.Infof
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			logf = log.Errorf
		case status >= http.StatusBadRequest:
			logf = log.Warnf
		}

		logf(ctx, "request id=%s trace=%s method=%s path=%s status=%d ip=%s duration=%s size=%d errors=%q",
			rid, tr,
			c.Request.Method,
			path,
			c.Writer.Status(),
			c.ClientIP(),
			time.Since(start),
			c.Writer.Size(),
			c.Errors.String(),
		)
	}
}
