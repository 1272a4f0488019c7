package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/phambaophuc/pdf-watermark/internal/models"
)

const rateLimitedKind = "RateLimited"

// RateLimit applies one token bucket to every request that reaches it.
// A non-positive rps disables limiting.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(ctx *gin.Context) { ctx.Next() }
	}
	if burst < 1 {
		burst = 1
	}

	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(ctx *gin.Context) {
		if !limiter.Allow() {
			ctx.Set(ErrorKindKey, rateLimitedKind)
			ctx.Header(ErrorKindHeader, rateLimitedKind)
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error: "Too many requests",
			})
			return
		}
		ctx.Next()
	}
}
