package storage

import (
	"context"

	storage_go "github.com/supabase-community/storage-go"
	"go.uber.org/zap"
)

const statusNotConfigured = "not configured"

// HealthCheck checks Redis + Supabase
func (s *StorageService) HealthCheck(ctx context.Context) map[string]string {
	status := make(map[string]string)

	// Redis
	if s.redisClient == nil {
		status["redis"] = statusNotConfigured
	} else if err := s.redisClient.Ping(ctx).Err(); err != nil {
		status["redis"] = "unhealthy: " + err.Error()
	} else {
		status["redis"] = "healthy"
	}

	// Supabase Storage check
	if s.sbClient == nil {
		status["supabase"] = statusNotConfigured
		return status
	}
	if _, err := s.sbClient.ListFiles(s.bucket, "", storage_go.FileSearchOptions{Limit: 1}); err != nil {
		s.logger.Warn("Supabase health check failed", zap.String("bucket", s.bucket), zap.Error(err))
		status["supabase"] = "unhealthy: " + err.Error()
	} else {
		status["supabase"] = "healthy"
	}

	return status
}
