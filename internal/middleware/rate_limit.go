package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"live_portal/internal/service"
	"live_portal/pkg/logger"
)

type RateLimitMiddleware struct {
	rateLimitService service.RateLimitService
	limit            int
	window           time.Duration
	log              logger.Logger
}

func NewRateLimitMiddleware(rateLimitService service.RateLimitService, limit int, window time.Duration, log logger.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		rateLimitService: rateLimitService,
		limit:            limit,
		window:           window,
		log:              log,
	}
}

// Limit throttles requests per client IP. A Redis failure lets the
// request through rather than taking the API down with it.
func (m *RateLimitMiddleware) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		allowed, err := m.rateLimitService.CheckLimit(c.Request.Context(), key, m.limit, m.window)
		if err != nil {
			m.log.Error("Rate limit check failed", "error", err)
			c.Next()
			return
		}

		if !allowed {
			c.Header("X-RateLimit-Limit", strconv.Itoa(m.limit))
			c.Header("X-RateLimit-Remaining", "0")
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			c.Abort()
			return
		}

		count, err := m.rateLimitService.Increment(c.Request.Context(), key, m.window)
		if err != nil {
			m.log.Error("Rate limit increment failed", "error", err)
		}

		remaining := m.limit - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(m.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Next()
	}
}
