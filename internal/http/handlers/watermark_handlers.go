package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/phambaophuc/pdf-watermark/internal/apperr"
	"github.com/phambaophuc/pdf-watermark/internal/http/middleware"
	"github.com/phambaophuc/pdf-watermark/internal/models"
	"github.com/phambaophuc/pdf-watermark/internal/services/watermark"
)

const maxRequestBody = 64 << 10 // 64KB

type Watermarker interface {
	Watermark(ctx context.Context, req *models.WatermarkRequest, requestID string) (*watermark.Result, error)
}

type PreviewRenderer interface {
	RenderPNG(req *models.PreviewRequest) ([]byte, error)
}

// StorageHealth reports per-backend status such as "healthy" or "not configured".
type StorageHealth interface {
	HealthCheck(ctx context.Context) map[string]string
}

type QueueHealth interface {
	HealthCheck() string
}

type WatermarkHandler struct {
	service Watermarker
	preview PreviewRenderer
	storage StorageHealth
	queue   QueueHealth
	logger  *zap.Logger
}

func NewWatermarkHandler(
	service Watermarker,
	preview PreviewRenderer,
	storage StorageHealth,
	queue QueueHealth,
	logger *zap.Logger,
) *WatermarkHandler {
	return &WatermarkHandler{
		service: service,
		preview: preview,
		storage: storage,
		queue:   queue,
		logger:  logger,
	}
}

// === MAIN API ENDPOINTS ===

func (h *WatermarkHandler) Watermark(c *gin.Context) {
	var req models.WatermarkRequest
	if err := h.bindJSON(c, &req); err != nil {
		h.respondError(c, apperr.MalformedRequest(err))
		return
	}

	result, err := h.service.Watermark(c.Request.Context(), &req, c.GetString(middleware.RequestIDKey))
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.respondPDF(c, result.Filename, result.Data)
}

func (h *WatermarkHandler) Preview(c *gin.Context) {
	var req models.PreviewRequest
	if err := h.bindJSON(c, &req); err != nil {
		h.respondError(c, apperr.MalformedRequest(err))
		return
	}

	if missing := req.MissingFields(); len(missing) > 0 {
		h.respondError(c, apperr.MissingFields(models.PreviewRequiredFields, missing))
		return
	}
	if !req.ValidSize() {
		h.respondError(c, apperr.InvalidParameter("Page width and height must be between 0 and 14400 points"))
		return
	}

	png, err := h.preview.RenderPNG(&req)
	if err != nil {
		h.respondError(c, apperr.Unexpected(err))
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// HealthCheck
func (h *WatermarkHandler) HealthCheck(c *gin.Context) {
	services := map[string]string{}
	if h.storage != nil {
		for name, status := range h.storage.HealthCheck(c.Request.Context()) {
			services[name] = status
		}
	}
	if h.queue != nil {
		services["rabbitmq"] = h.queue.HealthCheck()
	} else {
		services["rabbitmq"] = "not configured"
	}

	overall := h.calculateOverallHealth(services)

	statusCode := http.StatusOK
	if overall == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, models.HealthCheck{
		Status:    overall,
		Timestamp: time.Now(),
		Services:  services,
	})
}
