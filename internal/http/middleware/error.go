package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/phambaophuc/pdf-watermark/internal/apperr"
	"github.com/phambaophuc/pdf-watermark/internal/models"
)

const (
	// ErrorKindKey is the gin context key holding the failure kind of a request.
	ErrorKindKey    = "error_kind"
	ErrorKindHeader = "X-Error-Kind"
)

// ErrorHandler handles panics and errors
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(ctx *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", ctx.Request.URL.Path),
			zap.String("method", ctx.Request.Method),
			zap.String("request_id", ctx.GetString(RequestIDKey)),
		)

		ctx.Set(ErrorKindKey, string(apperr.KindUnexpected))
		ctx.Header(ErrorKindHeader, string(apperr.KindUnexpected))
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Internal server error",
		})
	})
}
