// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Storage     StorageConfig
	JWT         JWTConfig
	AWS         AWSConfig
	Email       EmailConfig
	I18n        I18nConfig
	Frontend    FrontendConfig
	Plagiarism  PlagiarismConfig
	Works       WorksConfig
	Events      EventsConfig
	Log         LogConfig
	CORS        CORSConfig
	RateLimit   RateLimitConfig
}

type FrontendConfig struct {
	BaseURL string
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

// StorageConfig selects where the works, revisions and licenses collections
// are persisted. "file" keeps one JSON document per collection under DataDir.
type StorageConfig struct {
	Driver          string
	DataDir         string
	PublicDir       string
	PublicURLPrefix string
}

type JWTConfig struct {
	SecretKey      string
	AccessTokenTTL int // in hours
	Issuer         string
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	CloudFrontURL   string
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

type I18nConfig struct {
	DefaultLocale string
}

type PlagiarismConfig struct {
	ShingleSize         int
	MatchThreshold      float64
	PlagiarismThreshold int
	MaxExamplePhrases   int
	Workers             int
	CacheTTL            int // in minutes
}

type WorksConfig struct {
	MinContentLength int
	MaxUploadBytes   int64
}

type EventsConfig struct {
	QueueSize int
}

type LogConfig struct {
	Level        string
	Format       string
	ReportCaller bool
}

// RateLimitConfig sets per-client request budgets. A rate <= 0 disables that
// limiter.
type RateLimitConfig struct {
	GeneralPerMinute int
	GeneralBurst     int
	UploadPerMinute  int
	UploadBurst      int
	VerifyPerMinute  int
	VerifyBurst      int
	VisitorTTL       int // in minutes
}

type CORSConfig struct {
	AllowOrigins []string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "3001"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 30),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "work_licensing"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "silent"),
		},
		Storage: StorageConfig{
			Driver:          getEnv("STORAGE_DRIVER", "file"),
			DataDir:         getEnv("DATA_DIR", "./data"),
			PublicDir:       getEnv("PUBLIC_DIR", "./public"),
			PublicURLPrefix: getEnv("PUBLIC_URL_PREFIX", "/files"),
		},
		JWT: JWTConfig{
			SecretKey:      getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			AccessTokenTTL: getEnvAsInt("JWT_ACCESS_TTL", 24),
			Issuer:         getEnv("JWT_ISSUER", "isows-india"),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "ap-south-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", "work-licensing-certificates"),
			CloudFrontURL:   getEnv("AWS_CLOUDFRONT_URL", ""),
		},
		Email: EmailConfig{
			SMTPHost:     getEnv("SMTP_HOST", ""),
			SMTPPort:     getEnv("SMTP_PORT", "587"),
			SMTPUsername: getEnv("SMTP_USERNAME", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			FromEmail:    getEnv("FROM_EMAIL", "noreply@isows-india.com"),
			FromName:     getEnv("FROM_NAME", "ISOWS-INDIA"),
		},
		I18n: I18nConfig{
			DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
		},
		Frontend: FrontendConfig{
			BaseURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		},
		Plagiarism: PlagiarismConfig{
			ShingleSize:         getEnvAsInt("PLAGIARISM_SHINGLE_SIZE", 3),
			MatchThreshold:      getEnvAsFloat("PLAGIARISM_MATCH_THRESHOLD", 0.15),
			PlagiarismThreshold: getEnvAsInt("PLAGIARISM_THRESHOLD", 40),
			MaxExamplePhrases:   getEnvAsInt("PLAGIARISM_MAX_EXAMPLE_PHRASES", 20),
			Workers:             getEnvAsInt("PLAGIARISM_WORKERS", 4),
			CacheTTL:            getEnvAsInt("PLAGIARISM_CACHE_TTL", 30),
		},
		Works: WorksConfig{
			MinContentLength: getEnvAsInt("WORK_MIN_CONTENT_LENGTH", 50),
			MaxUploadBytes:   int64(getEnvAsInt("WORK_MAX_UPLOAD_BYTES", 10*1024*1024)),
		},
		Events: EventsConfig{
			QueueSize: getEnvAsInt("EVENT_QUEUE_SIZE", 256),
		},
		Log: LogConfig{
			Level:        getEnv("LOG_LEVEL", "info"),
			Format:       getEnv("LOG_FORMAT", "text"),
			ReportCaller: getEnvAsBool("LOG_REPORT_CALLER", false),
		},
		CORS: CORSConfig{
			AllowOrigins: getEnvAsSlice("CORS_ORIGINS", []string{"http://localhost:3000"}),
		},
		RateLimit: RateLimitConfig{
			GeneralPerMinute: getEnvAsInt("RATE_LIMIT_GENERAL_PER_MINUTE", 600),
			GeneralBurst:     getEnvAsInt("RATE_LIMIT_GENERAL_BURST", 20),
			UploadPerMinute:  getEnvAsInt("RATE_LIMIT_UPLOAD_PER_MINUTE", 10),
			UploadBurst:      getEnvAsInt("RATE_LIMIT_UPLOAD_BURST", 10),
			VerifyPerMinute:  getEnvAsInt("RATE_LIMIT_VERIFY_PER_MINUTE", 60),
			VerifyBurst:      getEnvAsInt("RATE_LIMIT_VERIFY_BURST", 30),
			VisitorTTL:       getEnvAsInt("RATE_LIMIT_VISITOR_TTL", 3),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.JWT.SecretKey == "your-secret-key-change-in-production" && c.Environment == "production" {
		return fmt.Errorf("JWT secret key must be changed in production")
	}

	if c.Storage.Driver != "file" && c.Storage.Driver != "postgres" {
		return fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
	}

	if c.Storage.Driver == "postgres" && c.Database.Password == "" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	if c.Plagiarism.ShingleSize < 1 {
		return fmt.Errorf("plagiarism shingle size must be at least 1")
	}

	if c.Plagiarism.MatchThreshold < 0 || c.Plagiarism.MatchThreshold > 1 {
		return fmt.Errorf("plagiarism match threshold must be within [0,1]")
	}

	if c.Plagiarism.PlagiarismThreshold < 0 || c.Plagiarism.PlagiarismThreshold > 100 {
		return fmt.Errorf("plagiarism threshold must be within [0,100]")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
