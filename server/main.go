package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/phambaophuc/pdf-watermark/internal/config"
	"github.com/phambaophuc/pdf-watermark/internal/http/handlers"
	"github.com/phambaophuc/pdf-watermark/internal/http/routes"
	"github.com/phambaophuc/pdf-watermark/internal/services/fetcher"
	"github.com/phambaophuc/pdf-watermark/internal/services/preview"
	"github.com/phambaophuc/pdf-watermark/internal/services/processor"
	"github.com/phambaophuc/pdf-watermark/internal/services/queue"
	"github.com/phambaophuc/pdf-watermark/internal/services/storage"
	"github.com/phambaophuc/pdf-watermark/internal/services/watermark"
)

func newLogger(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize services
	pdfProcessor, err := processor.NewPDFProcessor(processor.Options{
		Placement:       cfg.Watermark.Placement,
		SiteAttribution: cfg.Watermark.SiteAttribution,
		MaxPages:        cfg.Watermark.MaxPages,
		Style: processor.Style{
			FontName: processor.DefaultFontName,
			FontSize: cfg.Watermark.FontSize,
			Opacity:  cfg.Watermark.Opacity,
			Gray:     cfg.Watermark.Gray,
		},
	})
	if err != nil {
		logger.Fatal("Invalid watermark configuration", zap.Error(err))
	}

	storageService, err := storage.NewStorageService(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize storage service", zap.Error(err))
	}
	defer storageService.Close()

	fetchOpts := fetcher.Options{
		Timeout: cfg.Fetch.Timeout,
		MaxSize: cfg.Fetch.MaxFileSize,
	}
	if storageService.CacheEnabled() {
		fetchOpts.Cache = storageService
	}
	if storageService.ResolverEnabled() {
		fetchOpts.Resolver = storageService
	}
	sourceFetcher := fetcher.NewHTTPFetcher(fetchOpts, logger)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	var publisher watermark.EventPublisher = queue.NewNoopPublisher(logger)
	var queueHealth handlers.QueueHealth
	if cfg.RabbitMQ.Enabled() {
		queueService, err := queue.NewQueueService(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, logger)
		if err != nil {
			// Continue without audit events for basic functionality
			logger.Warn("Failed to initialize queue service", zap.Error(err))
		} else {
			defer queueService.Close()
			publisher = queueService
			queueHealth = queueService

			if stats, err := queueService.GetQueueStats(); err == nil {
				logger.Info("Audit queue ready",
					zap.String("queue", stats.Name),
					zap.Int("pending", stats.Messages),
					zap.Int("consumers", stats.Consumers))
			}

			for i := 1; i <= cfg.RabbitMQ.AuditWorkers; i++ {
				if err := queueService.StartWorker(workerCtx, i); err != nil {
					logger.Error("Failed to start audit worker", zap.Int("worker_id", i), zap.Error(err))
				}
			}
		}
	}

	watermarkService := watermark.NewService(sourceFetcher, pdfProcessor, publisher, cfg.Watermark.Filename, logger)

	// Initialize handlers
	watermarkHandler := handlers.NewWatermarkHandler(
		watermarkService,
		preview.NewRenderer(pdfProcessor),
		storageService,
		queueHealth,
		logger,
	)

	router := routes.NewRouter(watermarkHandler, cfg.RateLimit, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Handler:      router.SetupRoutes(),
	}

	// Start server
	go func() {
		logger.Info("Starting server",
			zap.String("addr", server.Addr),
			zap.String("placement", pdfProcessor.PlacementName()),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	stopWorkers()

	logger.Info("Server exited")
}
