package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/phambaophuc/pdf-watermark/internal/models"
)

var errCacheDisabled = errors.New("source cache not configured")

// GetSource returns the cached entry for key, or nil on a miss.
func (s *StorageService) GetSource(ctx context.Context, key string) (*models.CachedSource, error) {
	if s.redisClient == nil {
		return nil, nil
	}

	data, err := s.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	var src models.CachedSource
	if err := json.Unmarshal(data, &src); err != nil {
		return nil, fmt.Errorf("cache decode error: %w", err)
	}
	return &src, nil
}

func (s *StorageService) SetSource(ctx context.Context, key string, src *models.CachedSource) error {
	if s.redisClient == nil {
		return errCacheDisabled
	}

	data, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("cache encode error: %w", err)
	}
	return s.redisClient.Set(ctx, key, data, s.cacheDuration).Err()
}
