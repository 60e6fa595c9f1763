package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	"metra-backend/internal/transport/http/response"
)

// ConcurrencyLimit caps in-flight requests to shield the database pool.
func ConcurrencyLimit(max int64) gin.HandlerFunc {
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		if err := sem.Acquire(c.Request.Context(), 1); err != nil {
			response.Fail(c, http.StatusServiceUnavailable, "Sunucu şu anda meşgul.")
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
