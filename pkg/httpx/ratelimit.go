package httpx

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/Gunvolt24/orderfeed/internal/ports"
)

// RateLimit — общий token bucket на маршрут: rps <= 0 отключает ограничение.
// Пользователь в сервисе один, поэтому ключ по IP не нужен.
func RateLimit(rps float64, burst int, log ports.Logger) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			log.Warnf(c.Request.Context(), "rate limit exceeded method=%s path=%s ip=%s",
				c.Request.Method, c.Request.URL.Path, c.ClientIP())
			c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(rps)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

func retryAfterSeconds(rps float64) int {
	if rps >= 1 {
		return 1
	}
	return int(1/rps + 0.5)
}
