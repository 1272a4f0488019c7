package config

import (
	"log"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env       string
	Server    ServerConfig
	Fetch     FetchConfig
	Watermark WatermarkConfig
	RateLimit RateLimitConfig
	Supabase  SupabaseConfig
	Redis     RedisConfig
	RabbitMQ  RabbitMQConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type FetchConfig struct {
	Timeout     time.Duration
	MaxFileSize int64
}

type WatermarkConfig struct {
	Placement       string
	SiteAttribution string
	FontSize        int
	Opacity         float64
	Gray            float64
	Filename        string
	MaxPages        int
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

type SupabaseConfig struct {
	URL          string
	KEY          string
	BUCKET       string
	SignedURLTTL time.Duration
}

type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	CacheDuration time.Duration
}

type RabbitMQConfig struct {
	URL          string
	Queue        string
	AuditWorkers int
}

// Enabled reports whether a Supabase project is configured.
func (c SupabaseConfig) Enabled() bool {
	return c.URL != "" && c.KEY != ""
}

// Enabled reports whether the Redis source cache is configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// Enabled reports whether audit events go to RabbitMQ.
func (c RabbitMQConfig) Enabled() bool {
	return c.URL != ""
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := &Config{
		Env: getEnv("APP_ENV", "production"),
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getDuration("READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("WRITE_TIMEOUT", 60*time.Second),
		},
		Fetch: FetchConfig{
			Timeout:     getDuration("FETCH_TIMEOUT", 30*time.Second),
			MaxFileSize: getEnvAsInt64("MAX_PDF_SIZE", 50*1024*1024), // 50MB
		},
		Watermark: WatermarkConfig{
			Placement:       getEnv("WATERMARK_PLACEMENT", "left-margin"),
			SiteAttribution: os.Getenv("WATERMARK_SITE"),
			FontSize:        getEnvAsInt("WATERMARK_FONT_SIZE", 10),
			Opacity:         getEnvAsFloat("WATERMARK_OPACITY", 0.4),
			Gray:            getEnvAsFloat("WATERMARK_GRAY", 0.6),
			Filename:        getEnv("WATERMARK_FILENAME", "Livi-Skov-Estacoes-Espirituais-Watermarked.pdf"),
			MaxPages:        getEnvAsInt("MAX_PDF_PAGES", 2000),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvAsFloat("RATE_LIMIT_RPS", 5),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 10),
		},
		Supabase: SupabaseConfig{
			URL:          getEnv("SUPABASE_URL", ""),
			KEY:          getEnv("SUPABASE_KEY", ""),
			BUCKET:       getEnv("SUPABASE_BUCKET", ""),
			SignedURLTTL: getDuration("SIGNED_URL_TTL", 60*time.Second),
		},
		Redis: RedisConfig{
			Addr:          getEnv("REDIS_ADDR", ""),
			Password:      getEnv("REDIS_PASSWORD", ""),
			DB:            getEnvAsInt("REDIS_DB", 0),
			CacheDuration: getDuration("CACHE_DURATION", 24*time.Hour),
		},
		RabbitMQ: RabbitMQConfig{
			URL:          getEnv("RABBITMQ_URL", ""),
			Queue:        getEnv("RABBITMQ_QUEUE", "pdf_watermark_issued"),
			AuditWorkers: getEnvAsInt("AUDIT_WORKERS", 0),
		},
	}

	// An explicitly empty WATERMARK_SITE drops the attribution line.
	if _, set := os.LookupEnv("WATERMARK_SITE"); !set {
		cfg.Watermark.SiteAttribution = "Liviskov.com"
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsInt64(key string, defaultVal int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		floatVal, err := strconv.ParseFloat(value, 64)
		if err == nil && !math.IsNaN(floatVal) && !math.IsInf(floatVal, 0) {
			return floatVal
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}
