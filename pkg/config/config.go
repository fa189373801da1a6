package config

import (
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Checker-Finance/linxpay/internal/rate"
	"github.com/Checker-Finance/linxpay/pkg/linxpay"
)

// Config holds the runtime configuration for the linxpay adapter and CLI.
type Config struct {
	ServiceName string
	Env         string
	LogLevel    string
	Port        int
	AWSRegion   string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	HTTPBodyLimit    int

	CacheTTL    time.Duration
	CleanupFreq time.Duration

	// LinxPay account. When SecretsClient is set, credentials are resolved
	// from AWS Secrets Manager ({env}/{client}/linxpay) instead.
	BaseURI       string
	TokenURL      string
	ClientID      string
	ClientSecret  string
	Username      string
	Password      string
	SecretsClient string

	RequestTimeout time.Duration
	RetryMax       int
	RateRPS        int
	RateBurst      int
	TokenLeeway    time.Duration
}

// Load loads configuration from environment variables and optional .env file.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServiceName:      GetEnv("SERVICE_NAME", "linxpay-adapter"),
		Env:              GetEnv("ENV", "dev"),
		LogLevel:         GetEnv("LOG_LEVEL", "info"),
		Port:             GetEnvInt("LINXPAY_PORT", 9040),
		AWSRegion:        GetEnv("AWS_REGION", "us-east-2"),
		HTTPReadTimeout:  GetEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
		HTTPWriteTimeout: GetEnvDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
		HTTPIdleTimeout:  GetEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		HTTPBodyLimit:    GetEnvInt("HTTP_BODY_LIMIT", 1*1024*1024),
		CacheTTL:         GetEnvDuration("CACHE_TTL", 24*time.Hour),
		CleanupFreq:      GetEnvDuration("CACHE_CLEANUP_FREQ", 10*time.Minute),
		BaseURI:          GetEnv("LINXPAY_BASE_URI", linxpay.DefaultBaseURI),
		TokenURL:         GetEnv("LINXPAY_TOKEN_URL", linxpay.DefaultTokenPath),
		ClientID:         GetEnv("LINXPAY_CLIENT_ID", ""),
		ClientSecret:     GetEnv("LINXPAY_CLIENT_SECRET", ""),
		Username:         GetEnv("LINXPAY_USERNAME", ""),
		Password:         GetEnv("LINXPAY_PASSWORD", ""),
		SecretsClient:    GetEnv("LINXPAY_SECRETS_CLIENT", ""),
		RequestTimeout:   GetEnvDuration("LINXPAY_HTTP_TIMEOUT", linxpay.DefaultTimeout),
		RetryMax:         GetEnvInt("LINXPAY_RETRY_MAX", 0),
		RateRPS:          GetEnvInt("LINXPAY_RATE_RPS", 10),
		RateBurst:        GetEnvInt("LINXPAY_RATE_BURST", 20),
		TokenLeeway:      GetEnvDuration("LINXPAY_TOKEN_LEEWAY", linxpay.DefaultTokenLeeway),
	}
}

// Credentials returns the LinxPay account configured through the environment.
func (c *Config) Credentials() linxpay.Credentials {
	return linxpay.Credentials{
		BaseURI:      c.BaseURI,
		TokenURL:     c.TokenURL,
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Username:     c.Username,
		Password:     c.Password,
	}
}

// ClientOptions turns the transport settings into linxpay client options.
func (c *Config) ClientOptions(logger *zap.Logger) []linxpay.Option {
	opts := []linxpay.Option{
		linxpay.WithLogger(logger),
		linxpay.WithHTTPClient(&http.Client{Timeout: c.RequestTimeout}),
		linxpay.WithRetries(c.RetryMax),
		linxpay.WithTokenLeeway(c.TokenLeeway),
	}
	if c.RateRPS > 0 {
		opts = append(opts, linxpay.WithRateLimiter(rate.NewManager(rate.Config{
			RequestsPerSecond: c.RateRPS,
			Burst:             c.RateBurst,
		})))
	}
	return opts
}
