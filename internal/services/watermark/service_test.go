package watermark

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/phambaophuc/pdf-watermark/internal/apperr"
	"github.com/phambaophuc/pdf-watermark/internal/models"
	"github.com/phambaophuc/pdf-watermark/internal/services/fetcher"
	"github.com/phambaophuc/pdf-watermark/internal/services/processor"
	"github.com/phambaophuc/pdf-watermark/internal/testutil"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*models.WatermarkIssuedEvent
	err    error
}

func (r *recordingPublisher) PublishIssued(_ context.Context, event *models.WatermarkIssuedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

func newService(t *testing.T, publisher EventPublisher) *Service {
	t.Helper()
	p, err := processor.NewPDFProcessor(processor.Options{SiteAttribution: "Liviskov.com"})
	require.NoError(t, err)
	return NewService(fetcher.NewHTTPFetcher(fetcher.Options{}, zap.NewNop()), p, publisher, "", zap.NewNop())
}

func request(url string) *models.WatermarkRequest {
	return &models.WatermarkRequest{PDFURL: url, FirstName: "Ana", LastName: "Silva", Email: "ana@x.io"}
}

func TestWatermark_ThreePageDocument(t *testing.T) {
	srv := testutil.NewSourceServer(t, http.StatusOK, "application/pdf",
		testutil.BuildPDF(testutil.A4, testutil.A4, testutil.A4))
	pub := &recordingPublisher{}

	result, err := newService(t, pub).Watermark(context.Background(), request(srv.URL+"/book.pdf"), "req-1")
	require.NoError(t, err)

	assert.Equal(t, DefaultFilename, result.Filename)
	assert.Equal(t, 3, result.PageCount)

	pages, err := api.PageCount(bytes.NewReader(result.Data), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, pages)
	stamps := testutil.PageStamps(t, result.Data)
	require.Len(t, stamps, 3)
	for _, s := range stamps {
		assert.True(t, s.HasText("Ana Silva"), "page %d", s.Page)
		assert.True(t, s.HasText("ana@x.io"), "page %d", s.Page)
	}

	require.Len(t, pub.events, 1)
	event := pub.events[0]
	assert.Equal(t, "req-1", event.RequestID)
	assert.Equal(t, "Ana Silva", event.RecipientName)
	assert.Equal(t, 3, event.PageCount)
	assert.Equal(t, processor.PlacementLeftMargin, event.Placement)
	assert.NotEmpty(t, event.ID)
}

func TestWatermark_MissingParameterSkipsFetch(t *testing.T) {
	srv := testutil.NewSourceServer(t, http.StatusOK, "application/pdf", testutil.BuildPDF(testutil.A4))

	req := request(srv.URL)
	req.Email = "   "

	_, err := newService(t, nil).Watermark(context.Background(), req, "")
	require.Error(t, err)

	appErr := apperr.From(err)
	assert.Equal(t, apperr.KindMissingParameter, appErr.Kind)
	assert.Equal(t, []string{"email"}, appErr.Missing)
	assert.Equal(t, "Missing required parameters: pdfUrl, firstName, lastName, email", appErr.Message)
	assert.Equal(t, 0, srv.Hits())
}

func TestWatermark_Failures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        []byte
		kind        apperr.Kind
		message     string
	}{
		{"upstream 404", http.StatusNotFound, "text/plain", []byte("missing"),
			apperr.KindSourceFetchFailed, "Failed to fetch PDF: 404 Not Found"},
		{"html with pdf bytes", http.StatusOK, "text/html", testutil.BuildPDF(testutil.A4),
			apperr.KindInvalidFormat, "The requested file is not a valid PDF"},
		{"missing content type", http.StatusOK, "", testutil.BuildPDF(testutil.A4),
			apperr.KindInvalidFormat, "The requested file is not a valid PDF"},
		{"empty body", http.StatusOK, "application/pdf", []byte{},
			apperr.KindTruncatedSource, "Invalid PDF file: file is too small or empty"},
		{"three bytes", http.StatusOK, "application/pdf", []byte("%PD"),
			apperr.KindTruncatedSource, "Invalid PDF file: file is too small or empty"},
		{"no header", http.StatusOK, "application/pdf", []byte("GIF89a not a pdf"),
			apperr.KindCorruptSource, "Invalid PDF file: no PDF header found"},
		{"garbage after header", http.StatusOK, "application/pdf", []byte("%PDF-1.4 garbage garbage"),
			apperr.KindParseFailure, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := testutil.NewSourceServer(t, tt.status, tt.contentType, tt.body)
			pub := &recordingPublisher{}

			result, err := newService(t, pub).Watermark(context.Background(), request(srv.URL), "")
			require.Error(t, err)
			assert.Nil(t, result)

			appErr := apperr.From(err)
			assert.Equal(t, tt.kind, appErr.Kind)
			assert.Equal(t, http.StatusBadRequest, appErr.StatusCode())
			if tt.message != "" {
				assert.Equal(t, tt.message, appErr.Message)
			}
			assert.Empty(t, pub.events)
		})
	}
}

func TestWatermark_PublishFailureDoesNotFailRequest(t *testing.T) {
	srv := testutil.NewSourceServer(t, http.StatusOK, "application/pdf", testutil.BuildPDF(testutil.Letter))
	pub := &recordingPublisher{err: errors.New("broker down")}

	result, err := newService(t, pub).Watermark(context.Background(), request(srv.URL), "")
	require.NoError(t, err)
	assert.Equal(t, 1, result.PageCount)
	assert.Len(t, pub.events, 1)
}

func TestWatermark_ConcurrentRequestsAreIndependent(t *testing.T) {
	srv := testutil.NewSourceServer(t, http.StatusOK, "application/pdf",
		testutil.BuildPDF(testutil.A4, testutil.Letter))
	svc := newService(t, nil)

	names := []string{"Ana", "Bruno", "Carla", "Diogo"}
	results := make([][]byte, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			req := request(srv.URL)
			req.FirstName = name
			res, err := svc.Watermark(context.Background(), req, "")
			if assert.NoError(t, err) {
				results[i] = res.Data
			}
		}(i, name)
	}
	wg.Wait()

	for i, name := range names {
		for _, s := range testutil.PageStamps(t, results[i]) {
			assert.True(t, s.HasText(name+" Silva"), "%s page %d", name, s.Page)
			for j, other := range names {
				if i != j {
					assert.False(t, s.HasText(other+" Silva"), "%s leaked into %s page %d", other, name, s.Page)
				}
			}
		}
	}
}

func TestNewService_SanitizesFilename(t *testing.T) {
	p, err := processor.NewPDFProcessor(processor.Options{})
	require.NoError(t, err)

	svc := NewService(nil, p, nil, "../my book", zap.NewNop())
	assert.Equal(t, "my-book.pdf", svc.filename)
}
