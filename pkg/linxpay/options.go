package linxpay

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Checker-Finance/linxpay/internal/rate"
)

const (
	// DefaultTimeout bounds each HTTP round-trip.
	DefaultTimeout = 30 * time.Second
	// DefaultTokenLeeway is how long before expiry a token is treated as expired.
	DefaultTokenLeeway = 30 * time.Second
)

type options struct {
	logger     *zap.Logger
	httpClient *http.Client
	rateMgr    *rate.Manager
	retryMax   int
	leeway     time.Duration
	now        func() time.Time
	tokens     *TokenManager
}

func defaultOptions() options {
	return options{
		logger:     zap.NewNop(),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		leeway:     DefaultTokenLeeway,
		now:        time.Now,
	}
}

// Option configures a Client or TokenManager.
type Option func(*options)

// WithLogger sets the zap logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithHTTPClient sets the HTTP client used for token and API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithRateLimiter throttles API calls per client_id.
func WithRateLimiter(m *rate.Manager) Option {
	return func(o *options) { o.rateMgr = m }
}

// WithRetries retries transport failures and 5xx responses up to n times. Default 0.
// Only GET calls are retried after the request reached LinxPay; a POST such as a
// redemption is retried only when the connection could not be opened.
func WithRetries(n int) Option {
	return func(o *options) { o.retryMax = n }
}

// WithTokenLeeway changes how early a cached token is considered expired.
// The leeway never exceeds half of a token's lifetime.
func WithTokenLeeway(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.leeway = d
		}
	}
}

// WithClock replaces time.Now for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithTokenManager shares an existing TokenManager with the client.
func WithTokenManager(m *TokenManager) Option {
	return func(o *options) { o.tokens = m }
}
