package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	RedisURL    string
	JWTSecret   string
	ServerPort  string
	AdminAPIKey string

	RateLimitBackend       string
	RateLimitSweepInterval time.Duration
	APILimit               LimitConfig
	AuthLimit              LimitConfig
	InterviewLimit         LimitConfig
	WaitlistLimit          LimitConfig

	TimestampTolerance time.Duration
	InterviewTokenTTL  time.Duration

	RecaptchaSecret   string
	RecaptchaMinScore float64

	SMTP    SMTPConfig
	LiveKit LiveKitConfig

	GoogleCloudProject  string
	GoogleCloudLocation string
	GoogleCredentials   string
	GenerationCacheTTL  time.Duration
}

type LimitConfig struct {
	MaxRequests int
	Window      time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.Username != ""
}

type LiveKitConfig struct {
	URL       string
	APIKey    string
	APISecret string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
		JWTSecret:   getEnv("JWT_SECRET", "secret"),
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		AdminAPIKey: getEnv("ADMIN_API_KEY", ""),

		RateLimitBackend:       getEnv("RATE_LIMIT_BACKEND", "memory"),
		RateLimitSweepInterval: getEnvDuration("RATE_LIMIT_SWEEP_INTERVAL", time.Minute),
		APILimit: LimitConfig{
			MaxRequests: getEnvInt("RATE_LIMIT_API_MAX", 100),
			Window:      getEnvDuration("RATE_LIMIT_API_WINDOW", 15*time.Minute),
		},
		AuthLimit: LimitConfig{
			MaxRequests: getEnvInt("RATE_LIMIT_AUTH_MAX", 5),
			Window:      getEnvDuration("RATE_LIMIT_AUTH_WINDOW", 15*time.Minute),
		},
		InterviewLimit: LimitConfig{
			MaxRequests: getEnvInt("RATE_LIMIT_INTERVIEW_MAX", 3),
			Window:      getEnvDuration("RATE_LIMIT_INTERVIEW_WINDOW", time.Hour),
		},
		WaitlistLimit: LimitConfig{
			MaxRequests: getEnvInt("RATE_LIMIT_WAITLIST_MAX", 3),
			Window:      getEnvDuration("RATE_LIMIT_WAITLIST_WINDOW", time.Hour),
		},

		TimestampTolerance: getEnvDuration("HEADER_TIMESTAMP_TOLERANCE", 5*time.Minute),
		InterviewTokenTTL:  getEnvDuration("INTERVIEW_TOKEN_TTL", 0),

		RecaptchaSecret:   getEnv("RECAPTCHA_SECRET", ""),
		RecaptchaMinScore: getEnvFloat("RECAPTCHA_MIN_SCORE", 0.5),

		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "noreply@example.com"),
		},
		LiveKit: LiveKitConfig{
			URL:       getEnv("LIVEKIT_URL", ""),
			APIKey:    getEnv("LIVEKIT_API_KEY", ""),
			APISecret: getEnv("LIVEKIT_API_SECRET", ""),
		},

		GoogleCloudProject:  getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleCloudLocation: getEnv("GOOGLE_CLOUD_LOCATION", "us-central1"),
		GoogleCredentials:   getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		GenerationCacheTTL:  getEnvDuration("GENERATION_CACHE_TTL", 24*time.Hour),
	}, nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer for %s (%q), using %d", key, value, defaultVal)
		return defaultVal
	}
	return n
}

func getEnvFloat(key string, defaultVal float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Invalid number for %s (%q), using %v", key, value, defaultVal)
		return defaultVal
	}
	return f
}

// getEnvDuration accepts Go duration strings ("15m") or a bare number of seconds.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("Invalid duration for %s (%q), using %s", key, value, defaultVal)
	return defaultVal
}
