package watermark

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/phambaophuc/pdf-watermark/internal/apperr"
	"github.com/phambaophuc/pdf-watermark/internal/models"
	"github.com/phambaophuc/pdf-watermark/internal/services/fetcher"
	"github.com/phambaophuc/pdf-watermark/internal/services/processor"
	"github.com/phambaophuc/pdf-watermark/pkg/utils"
)

const DefaultFilename = "Livi-Skov-Estacoes-Espirituais-Watermarked.pdf"

type SourceFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*fetcher.Source, error)
}

type EventPublisher interface {
	PublishIssued(ctx context.Context, event *models.WatermarkIssuedEvent) error
}

// Service runs one watermark request end to end: validate the request,
// fetch the source, check its declared type, stamp it and report the issue.
type Service struct {
	fetcher   SourceFetcher
	processor *processor.PDFProcessor
	publisher EventPublisher
	filename  string
	logger    *zap.Logger
}

// Result is a personalized copy ready to be sent back.
type Result struct {
	Data      []byte
	Filename  string
	PageCount int
	FromCache bool
}

func NewService(
	f SourceFetcher,
	p *processor.PDFProcessor,
	publisher EventPublisher,
	filename string,
	logger *zap.Logger,
) *Service {
	return &Service{
		fetcher:   f,
		processor: p,
		publisher: publisher,
		filename:  utils.SanitizeFilename(filename, DefaultFilename),
		logger:    logger,
	}
}

// Watermark never touches the network when a required field is missing.
// Every returned error is an *apperr.Error.
func (s *Service) Watermark(ctx context.Context, req *models.WatermarkRequest, requestID string) (*Result, error) {
	req.Normalize()
	if missing := req.MissingFields(); len(missing) > 0 {
		return nil, apperr.MissingParameter(missing)
	}

	src, err := s.fetcher.Fetch(ctx, req.PDFURL)
	if err != nil {
		return nil, apperr.From(err)
	}

	if !processor.IsPDFContentType(src.ContentType) {
		return nil, apperr.InvalidFormat(src.ContentType)
	}

	start := time.Now()
	result, err := s.processor.ProcessPDF(src.Body, req.Recipient())
	if err != nil {
		return nil, apperr.From(err)
	}

	s.logger.Info("PDF watermarked",
		zap.String("request_id", requestID),
		zap.Int("pages", result.PageCount),
		zap.Int("input_bytes", len(src.Body)),
		zap.Int("output_bytes", len(result.Data)),
		zap.Bool("from_cache", src.FromCache),
		zap.Duration("duration", time.Since(start)),
	)

	s.publish(ctx, &models.WatermarkIssuedEvent{
		ID:             uuid.New().String(),
		RequestID:      requestID,
		RecipientName:  req.Recipient().FullName(),
		RecipientEmail: req.Email,
		SourceHash:     result.SourceHash,
		PageCount:      result.PageCount,
		Placement:      s.processor.PlacementName(),
		IssuedAt:       time.Now().UTC(),
	})

	return &Result{
		Data:      result.Data,
		Filename:  s.filename,
		PageCount: result.PageCount,
		FromCache: src.FromCache,
	}, nil
}

// publish is best-effort; a lost audit event never fails the download.
func (s *Service) publish(ctx context.Context, event *models.WatermarkIssuedEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishIssued(ctx, event); err != nil {
		s.logger.Warn("Failed to publish watermark event",
			zap.String("event_id", event.ID),
			zap.Error(err))
	}
}
