package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/phambaophuc/pdf-watermark/internal/apperr"
	"github.com/phambaophuc/pdf-watermark/internal/models"
	"github.com/phambaophuc/pdf-watermark/pkg/utils"
)

const (
	DefaultTimeout = 30 * time.Second
	DefaultMaxSize = 50 << 20 // 50MB

	StorageScheme = "storage"
)

// SourceCache keeps previously fetched documents for ETag revalidation.
type SourceCache interface {
	GetSource(ctx context.Context, key string) (*models.CachedSource, error)
	SetSource(ctx context.Context, key string, src *models.CachedSource) error
}

// Resolver turns a storage:// reference into a fetchable URL.
type Resolver interface {
	ResolveURL(ctx context.Context, ref string) (string, error)
}

// Source is a fetched document body and its declared type.
type Source struct {
	URL         string
	ContentType string
	Body        []byte
	FromCache   bool
}

type Options struct {
	Timeout time.Duration
	MaxSize int64
	// Client overrides the default HTTP client; Timeout is ignored when set.
	Client   *http.Client
	Cache    SourceCache
	Resolver Resolver
}

type HTTPFetcher struct {
	client   *http.Client
	maxSize  int64
	cache    SourceCache
	resolver Resolver
	logger   *zap.Logger
}

func NewHTTPFetcher(opts Options, logger *zap.Logger) *HTTPFetcher {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	maxSize := opts.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	return &HTTPFetcher{
		client:   client,
		maxSize:  maxSize,
		cache:    opts.Cache,
		resolver: opts.Resolver,
		logger:   logger,
	}
}

// Fetch downloads the source document. Non-2xx statuses, transport errors
// and oversized bodies are reported as SourceFetchFailed.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*Source, error) {
	target, err := f.resolve(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	cacheKey := utils.SourceCacheKey(target)
	cached := f.lookup(ctx, cacheKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, apperr.SourceFetchFailed("invalid URL", err)
	}
	req.Header.Set("Accept", "application/pdf")
	if cached != nil && cached.ETag != "" {
		req.Header.Set("If-None-Match", cached.ETag)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, apperr.SourceFetchFailed(transportReason(err), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified && cached != nil {
		f.logger.Debug("Source revalidated from cache", zap.String("cache_key", cacheKey))
		return &Source{
			URL:         rawURL,
			ContentType: cached.ContentType,
			Body:        cached.Body,
			FromCache:   true,
		}, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperr.SourceFetchStatus(resp.StatusCode)
	}

	// One extra byte tells an oversized body apart from one that is exactly maxSize.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, apperr.SourceFetchFailed("error reading response body", err)
	}
	if int64(len(body)) > f.maxSize {
		return nil, apperr.SourceFetchFailed("file exceeds maximum size",
			fmt.Errorf("body larger than %d bytes", f.maxSize))
	}

	src := &Source{
		URL:         rawURL,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}

	if etag := resp.Header.Get("ETag"); etag != "" {
		f.store(ctx, cacheKey, &models.CachedSource{
			ETag:        etag,
			ContentType: src.ContentType,
			Body:        body,
			FetchedAt:   time.Now(),
		})
	}

	return src, nil
}

func (f *HTTPFetcher) resolve(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", apperr.SourceFetchFailed("invalid URL", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return rawURL, nil
	case StorageScheme:
		if f.resolver == nil {
			return "", apperr.SourceFetchFailed("storage source not configured", nil)
		}
		signed, err := f.resolver.ResolveURL(ctx, rawURL)
		if err != nil {
			return "", apperr.SourceFetchFailed("unable to sign storage URL", err)
		}
		return signed, nil
	default:
		return "", apperr.SourceFetchFailed("unsupported URL scheme", fmt.Errorf("scheme %q", u.Scheme))
	}
}

func (f *HTTPFetcher) lookup(ctx context.Context, key string) *models.CachedSource {
	if f.cache == nil {
		return nil
	}

	cached, err := f.cache.GetSource(ctx, key)
	if err != nil {
		f.logger.Warn("Source cache lookup failed", zap.String("cache_key", key), zap.Error(err))
		return nil
	}
	return cached
}

func (f *HTTPFetcher) store(ctx context.Context, key string, src *models.CachedSource) {
	if f.cache == nil {
		return
	}

	if err := f.cache.SetSource(ctx, key, src); err != nil {
		f.logger.Warn("Failed to cache source", zap.String("cache_key", key), zap.Error(err))
	}
}

func transportReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	case errors.Is(err, context.Canceled):
		return "request canceled"
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return "request timed out"
	}
	return "network error"
}
