package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	HTTPAddr    string
	DatabaseURL string
	RedisAddr   string
	RedisPass   string
	JWTSecret   string

	// Email delivery
	EmailProvider  string // "console", "smtp", "sendgrid"
	EmailFrom      string
	EmailFromName  string
	SMTPHost       string
	SMTPPort       string
	SMTPUser       string
	SMTPPass       string
	SendGridAPIKey string

	// Invitation links
	BackendBaseURL  string
	FallbackBaseURL string

	// Invite rate limiting
	InviteRateLimit  int
	InviteRateWindow time.Duration

	// Delivery queue
	QueueMaxRetries int
	QueueRetryDelay time.Duration
	QueueWorkers    int
}

func Load() AppConfig {
	if err := godotenv.Load(); err != nil {
		log.Println("SeniorHub: No .env file found, relying on system env vars")
	}

	window, _ := time.ParseDuration(getEnv("INVITE_RATE_WINDOW", "1m"))
	retryDelay, _ := time.ParseDuration(getEnv("EMAIL_RETRY_DELAY", "1s"))

	return AppConfig{
		HTTPAddr:    getEnv("HTTP_ADDR", ":8010"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisAddr:   getEnv("REDIS_ADDR", ""),
		RedisPass:   getEnv("REDIS_PASS", ""),
		JWTSecret:   getEnv("JWT_SECRET", "dev-secret-change-me"),

		EmailProvider:  getEnv("EMAIL_PROVIDER", "console"),
		EmailFrom:      getEnv("EMAIL_FROM", "invites@seniorhub.app"),
		EmailFromName:  getEnv("EMAIL_FROM_NAME", "Senior Hub"),
		SMTPHost:       getEnv("SMTP_HOST", ""),
		SMTPPort:       getEnv("SMTP_PORT", "465"),
		SMTPUser:       getEnv("SMTP_USER", ""),
		SMTPPass:       getEnv("SMTP_PASS", ""),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),

		BackendBaseURL:  getEnv("BACKEND_BASE_URL", "http://localhost:8010"),
		FallbackBaseURL: getEnv("INVITE_FALLBACK_URL", "https://seniorhub.app/invite"),

		InviteRateLimit:  getEnvInt("INVITE_RATE_LIMIT", 10),
		InviteRateWindow: window,

		QueueMaxRetries: getEnvInt("EMAIL_MAX_RETRIES", 3),
		QueueRetryDelay: retryDelay,
		QueueWorkers:    getEnvInt("EMAIL_WORKERS", 1),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
