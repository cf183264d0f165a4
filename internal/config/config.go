package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

const (
	SessionBackendRedis  = "redis"
	SessionBackendDynamo = "dynamo"
	SessionBackendMemory = "memory"

	EmailProviderSES  = "ses"
	EmailProviderSMTP = "smtp"

	minSecretLength = 32
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort        string
	AppEnv         string
	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	SessionBackend string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisKeyPrefix string

	// HMACSecret signs the session cookie and CSRF tokens.
	HMACSecret   string
	CookieSecure bool
	CookieDomain string

	EmailProvider string
	EmailFrom     string
	SESRegion     string
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string

	TurnstileSecret    string
	TurnstileVerifyURL string

	GoogleClientID       string
	GoogleClientSecret   string
	GoogleRedirectURL    string
	OAuthSuccessRedirect string

	SNSRegion             string
	SNSAuthEventsTopicARN string // empty disables event publishing

	RateLimitRPS   float64
	RateLimitBurst int

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users              string
	Sessions           string
	EmailVerifications string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:        getEnv("APP_PORT", "3000"),
		AppEnv:         getEnv("APP_ENV", "development"),
		AWSRegion:      getEnv("AWS_REGION", "eu-central-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:              getEnv("DYNAMO_TABLE_USERS", "users"),
			Sessions:           getEnv("DYNAMO_TABLE_SESSIONS", "sessions"),
			EmailVerifications: getEnv("DYNAMO_TABLE_EMAIL_VERIFICATIONS", "email_verifications"),
		},
		SessionBackend:        strings.ToLower(getEnv("SESSION_BACKEND", SessionBackendRedis)),
		RedisAddr:             getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:         getEnv("REDIS_PASSWORD", ""),
		RedisDB:               getEnvInt("REDIS_DB", 0),
		RedisKeyPrefix:        getEnv("REDIS_KEY_PREFIX", "session:"),
		HMACSecret:            getEnv("HMAC_SECRET", ""),
		CookieSecure:          getEnvBool("COOKIE_SECURE", true),
		CookieDomain:          getEnv("COOKIE_DOMAIN", ""),
		EmailProvider:         strings.ToLower(getEnv("EMAIL_PROVIDER", EmailProviderSES)),
		EmailFrom:             getEnv("EMAIL_FROM", "no-reply@bibliobay.net"),
		SESRegion:             getEnv("SES_REGION", "eu-central-1"),
		SMTPHost:              getEnv("SMTP_HOST", "localhost"),
		SMTPPort:              getEnvInt("SMTP_PORT", 1025),
		SMTPUsername:          getEnv("SMTP_USERNAME", ""),
		SMTPPassword:          getEnv("SMTP_PASSWORD", ""),
		TurnstileSecret:       getEnv("TURNSTILE_SECRET", ""),
		TurnstileVerifyURL:    getEnv("TURNSTILE_VERIFY_URL", "https://challenges.cloudflare.com/turnstile/v0/siteverify"),
		GoogleClientID:        getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:    getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:     getEnv("GOOGLE_REDIRECT_URL", ""),
		OAuthSuccessRedirect:  getEnv("OAUTH_SUCCESS_REDIRECT", ""),
		SNSRegion:             getEnv("SNS_REGION", "eu-central-1"),
		SNSAuthEventsTopicARN: getEnv("SNS_AUTH_EVENTS_TOPIC_ARN", ""),
		RateLimitRPS:          getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:        getEnvInt("RATE_LIMIT_BURST", 10),
		AllowedOrigins:        strings.Split(getEnv("ALLOWED_ORIGINS", "https://bibliobay.net"), ","),
	}
}

// Validate reports configuration that would make the server unsafe or unable to start.
func (c *Config) Validate() error {
	var errs []error
	if len(c.HMACSecret) < minSecretLength {
		errs = append(errs, errors.New("HMAC_SECRET must be at least 32 characters"))
	}
	switch c.SessionBackend {
	case SessionBackendRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for the redis session backend"))
		}
	case SessionBackendDynamo, SessionBackendMemory:
	default:
		errs = append(errs, errors.New("SESSION_BACKEND must be redis, dynamo or memory"))
	}
	switch c.EmailProvider {
	case EmailProviderSES, EmailProviderSMTP:
	default:
		errs = append(errs, errors.New("EMAIL_PROVIDER must be ses or smtp"))
	}
	if c.TurnstileSecret == "" {
		errs = append(errs, errors.New("TURNSTILE_SECRET is required"))
	}
	return errors.Join(errs...)
}

// GoogleOAuthEnabled reports whether the Google sign-in routes should be mounted.
func (c *Config) GoogleOAuthEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
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

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
