package storage

import (
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	storage_go "github.com/supabase-community/storage-go"
	"go.uber.org/zap"

	"github.com/phambaophuc/pdf-watermark/internal/config"
)

const (
	defaultCacheDuration = 24 * time.Hour
	defaultSignedURLTTL  = 5 * time.Minute
)

// StorageService backs the fetcher with a Redis source cache and resolves
// storage:// references through Supabase Storage. Either side may be left
// unconfigured.
type StorageService struct {
	sbClient      *storage_go.Client
	redisClient   *redis.Client
	storageURL    string
	bucket        string
	signedURLTTL  time.Duration
	cacheDuration time.Duration
	logger        *zap.Logger
}

func NewStorageService(cfg *config.Config, logger *zap.Logger) (*StorageService, error) {
	s := &StorageService{
		bucket:        cfg.Supabase.BUCKET,
		signedURLTTL:  cfg.Supabase.SignedURLTTL,
		cacheDuration: cfg.Redis.CacheDuration,
		logger:        logger,
	}
	if s.signedURLTTL <= 0 {
		s.signedURLTTL = defaultSignedURLTTL
	}
	if s.cacheDuration <= 0 {
		s.cacheDuration = defaultCacheDuration
	}

	if cfg.Supabase.Enabled() {
		s.storageURL = strings.TrimRight(cfg.Supabase.URL, "/") + "/storage/v1"
		s.sbClient = storage_go.NewClient(s.storageURL, cfg.Supabase.KEY, nil)
	}

	if cfg.Redis.Enabled() {
		s.redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	logger.Info("Storage service initialized",
		zap.Bool("source_cache", s.CacheEnabled()),
		zap.Bool("storage_resolver", s.ResolverEnabled()),
	)

	return s, nil
}

func (s *StorageService) CacheEnabled() bool {
	return s.redisClient != nil
}

func (s *StorageService) ResolverEnabled() bool {
	return s.sbClient != nil
}

func (s *StorageService) Close() error {
	if s.redisClient == nil {
		return nil
	}
	return s.redisClient.Close()
}
