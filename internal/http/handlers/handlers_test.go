package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/phambaophuc/pdf-watermark/internal/apperr"
	"github.com/phambaophuc/pdf-watermark/internal/http/middleware"
	"github.com/phambaophuc/pdf-watermark/internal/models"
	"github.com/phambaophuc/pdf-watermark/internal/services/watermark"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockWatermarker implements Watermarker for testing
type MockWatermarker struct {
	WatermarkFunc func(ctx context.Context, req *models.WatermarkRequest, requestID string) (*watermark.Result, error)
	calls         int
}

func (m *MockWatermarker) Watermark(ctx context.Context, req *models.WatermarkRequest, requestID string) (*watermark.Result, error) {
	m.calls++
	if m.WatermarkFunc != nil {
		return m.WatermarkFunc(ctx, req, requestID)
	}
	return &watermark.Result{Data: []byte("%PDF-1.7"), Filename: "out.pdf", PageCount: 1}, nil
}

type MockStorage struct {
	Status map[string]string
}

func (m *MockStorage) HealthCheck(context.Context) map[string]string {
	return m.Status
}

type MockQueue string

func (m MockQueue) HealthCheck() string {
	return string(m)
}

func setupRouter(h *WatermarkHandler) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.POST("/watermark", h.Watermark)
	r.GET("/health", h.HealthCheck)
	return r
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const validBody = `{"pdfUrl":"https://x/a.pdf","firstName":"Ana","lastName":"Silva","email":"ana@x.io"}`

func TestWatermark_Success(t *testing.T) {
	mock := &MockWatermarker{}
	var gotRequestID string
	mock.WatermarkFunc = func(_ context.Context, req *models.WatermarkRequest, requestID string) (*watermark.Result, error) {
		gotRequestID = requestID
		assert.Equal(t, "Ana", req.FirstName)
		return &watermark.Result{Data: []byte("%PDF-1.7 stamped"), Filename: "out.pdf"}, nil
	}
	r := setupRouter(NewWatermarkHandler(mock, nil, nil, nil, zap.NewNop()))

	w := doRequest(r, http.MethodPost, "/watermark", validBody)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "%PDF-1.7 stamped", w.Body.String())
	assert.Equal(t, `attachment; filename="out.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "16", w.Header().Get("Content-Length"))
	assert.Equal(t, w.Header().Get(middleware.RequestIDHeader), gotRequestID)
}

func TestWatermark_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   string
		body   string
	}{
		{"fetch failure", apperr.SourceFetchStatus(http.StatusForbidden), http.StatusBadRequest,
			"SourceFetchFailed", `{"error":"Failed to fetch PDF: 403 Forbidden"}`},
		{"corrupt", apperr.CorruptSource(), http.StatusBadRequest,
			"CorruptSource", `{"error":"Invalid PDF file: no PDF header found"}`},
		{"parse failure", apperr.ParseFailure("xref table broken", nil), http.StatusBadRequest,
			"ParseFailure", `{"error":"Invalid PDF file: xref table broken"}`},
		{"unexpected", apperr.Unexpected(errors.New("disk full")), http.StatusInternalServerError,
			"UnexpectedFailure", `{"error":"disk full"}`},
		{"untyped error", errors.New("boom"), http.StatusInternalServerError,
			"UnexpectedFailure", `{"error":"boom"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockWatermarker{
				WatermarkFunc: func(context.Context, *models.WatermarkRequest, string) (*watermark.Result, error) {
					return nil, tt.err
				},
			}
			r := setupRouter(NewWatermarkHandler(mock, nil, nil, nil, zap.NewNop()))

			w := doRequest(r, http.MethodPost, "/watermark", validBody)

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
			assert.Equal(t, tt.kind, w.Header().Get(middleware.ErrorKindHeader))
		})
	}
}

func TestWatermark_MalformedBodySkipsService(t *testing.T) {
	mock := &MockWatermarker{}
	r := setupRouter(NewWatermarkHandler(mock, nil, nil, nil, zap.NewNop()))

	w := doRequest(r, http.MethodPost, "/watermark", `{"pdfUrl": 42`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid JSON in request body."}`, w.Body.String())
	assert.Equal(t, 0, mock.calls)
}

func TestWatermark_OversizedBody(t *testing.T) {
	mock := &MockWatermarker{}
	r := setupRouter(NewWatermarkHandler(mock, nil, nil, nil, zap.NewNop()))

	body := `{"pdfUrl":"` + strings.Repeat("a", maxRequestBody) + `"}`
	w := doRequest(r, http.MethodPost, "/watermark", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, mock.calls)
}

func TestRespondError_LogLevels(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	mock := &MockWatermarker{
		WatermarkFunc: func(context.Context, *models.WatermarkRequest, string) (*watermark.Result, error) {
			return nil, apperr.MissingParameter([]string{"email"})
		},
	}
	r := setupRouter(NewWatermarkHandler(mock, nil, nil, nil, zap.New(core)))

	doRequest(r, http.MethodPost, "/watermark", validBody)

	entries := logs.FilterMessage("Watermark request rejected").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	assert.Equal(t, "MissingParameter", entries[0].ContextMap()["kind"])
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name    string
		storage StorageHealth
		queue   QueueHealth
		status  int
		overall string
	}{
		{"nothing configured", nil, nil, http.StatusOK, "healthy"},
		{"all healthy", &MockStorage{Status: map[string]string{"redis": "healthy", "supabase": "not configured"}},
			MockQueue("healthy"), http.StatusOK, "healthy"},
		{"redis down", &MockStorage{Status: map[string]string{"redis": "unhealthy: refused"}},
			nil, http.StatusServiceUnavailable, "unhealthy"},
		{"queue down", nil, MockQueue("unhealthy: connection closed"), http.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter(NewWatermarkHandler(&MockWatermarker{}, nil, tt.storage, tt.queue, zap.NewNop()))

			w := doRequest(r, http.MethodGet, "/health", "")

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), `"status":"`+tt.overall+`"`)
		})
	}
}
