package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"metra-backend/internal/transport/http/response"
)

// RateLimit applies a process-wide token bucket across all routes.
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	lim := rate.NewLimiter(rps, burst)
	return func(c *gin.Context) {
		if !lim.Allow() {
			response.Fail(c, http.StatusTooManyRequests, "Çok fazla istek gönderildi, lütfen bekleyin.")
			return
		}
		c.Next()
	}
}
