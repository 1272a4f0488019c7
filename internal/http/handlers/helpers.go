package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/phambaophuc/pdf-watermark/internal/apperr"
	"github.com/phambaophuc/pdf-watermark/internal/http/middleware"
	"github.com/phambaophuc/pdf-watermark/internal/models"
)

// === REQUEST PARSING ===

func (h *WatermarkHandler) bindJSON(c *gin.Context, dst interface{}) error {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBody)
	return c.ShouldBindJSON(dst)
}

// === RESPONSE HANDLING ===

// respondError writes {"error": message} with the status of the error kind.
// Anything outside the taxonomy is reported as an unexpected failure.
func (h *WatermarkHandler) respondError(c *gin.Context, err error) {
	appErr := apperr.From(err)
	status := appErr.StatusCode()

	fields := []zap.Field{
		zap.String("kind", string(appErr.Kind)),
		zap.String("request_id", c.GetString(middleware.RequestIDKey)),
		zap.String("path", c.Request.URL.Path),
		zap.Error(appErr),
	}
	if appErr.Err != nil {
		fields = append(fields, zap.NamedError("cause", appErr.Err))
	}
	if len(appErr.Missing) > 0 {
		fields = append(fields, zap.Strings("missing", appErr.Missing))
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("Watermark request failed", fields...)
	} else {
		h.logger.Warn("Watermark request rejected", fields...)
	}

	c.Set(middleware.ErrorKindKey, string(appErr.Kind))
	c.Header(middleware.ErrorKindHeader, string(appErr.Kind))
	c.JSON(status, models.ErrorResponse{Error: appErr.Message})
}

func (h *WatermarkHandler) respondPDF(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Length", strconv.Itoa(len(data)))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", data)
}

// === UTILITY METHODS ===

func (h *WatermarkHandler) calculateOverallHealth(services map[string]string) string {
	for _, status := range services {
		if status != "healthy" && status != "not configured" {
			return "unhealthy"
		}
	}
	return "healthy"
}
