package linxpay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/Checker-Finance/linxpay/internal/metrics"
)

const (
	grantPassword = "password"
	grantRefresh  = "refresh_token"

	// defaultTokenLifetime applies when the token endpoint omits expires_in.
	defaultTokenLifetime = time.Hour
)

// Token is an OAuth2 bearer token. Tokens are replaced, never modified.
type Token struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time

	// refreshAt is ExpiresAt minus the leeway, capped at half the lifetime.
	refreshAt time.Time
}

func (t *Token) valid(now time.Time) bool {
	return t != nil && t.AccessToken != "" && now.Before(t.refreshAt)
}

// TokenManager acquires and caches the bearer token for one LinxPay account.
// Token exchanges are serialized, so concurrent callers sharing a manager
// trigger at most one refresh per expiry.
type TokenManager struct {
	logger *zap.Logger
	creds  Credentials
	oauth  *oauth2.Config
	client *http.Client
	leeway time.Duration
	now    func() time.Time

	mu    sync.Mutex
	token *Token
}

// NewTokenManager creates a TokenManager. It fails with *ConfigError if the
// client credentials are missing.
func NewTokenManager(creds Credentials, opts ...Option) (*TokenManager, error) {
	creds = creds.withDefaults()
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return newTokenManager(creds, o), nil
}

func newTokenManager(creds Credentials, o options) *TokenManager {
	return &TokenManager{
		logger: o.logger,
		creds:  creds,
		oauth: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  creds.tokenEndpoint(),
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		client: o.httpClient,
		leeway: o.leeway,
		now:    o.now,
	}
}

// Authorize runs the password grant and caches the resulting token.
func (m *TokenManager) Authorize(ctx context.Context) (*Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authorizeLocked(ctx)
}

// ValidToken returns the cached token while it is valid. An expired token is
// refreshed with its refresh token; a manager with no token, or a token
// without a refresh token, runs the password grant instead.
func (m *TokenManager) ValidToken(ctx context.Context) (*Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token.valid(m.now()) {
		return m.token, nil
	}
	if m.token == nil || m.token.RefreshToken == "" {
		return m.authorizeLocked(ctx)
	}
	return m.refreshLocked(ctx, m.token.RefreshToken)
}

// Invalidate discards tok if it is still the cached token, keeping its refresh
// token so the next ValidToken call refreshes. It is a no-op when another
// caller already replaced the token.
func (m *TokenManager) Invalidate(tok *Token) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token == nil || tok == nil || m.token.AccessToken != tok.AccessToken {
		return
	}
	m.token = &Token{RefreshToken: m.token.RefreshToken}
}

func (m *TokenManager) authorizeLocked(ctx context.Context) (*Token, error) {
	tok, err := m.oauth.PasswordCredentialsToken(m.clientContext(ctx), m.creds.Username, m.creds.Password)
	if err != nil {
		return nil, m.fail(grantPassword, err)
	}
	return m.store(grantPassword, tok, ""), nil
}

func (m *TokenManager) refreshLocked(ctx context.Context, refreshToken string) (*Token, error) {
	// A token holding only a refresh token is never valid, so the source refreshes immediately.
	src := m.oauth.TokenSource(m.clientContext(ctx), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, m.fail(grantRefresh, err)
	}
	return m.store(grantRefresh, tok, refreshToken), nil
}

func (m *TokenManager) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, m.client)
}

func (m *TokenManager) store(grant string, tok *oauth2.Token, previousRefresh string) *Token {
	lifetime := expiresIn(tok)
	refresh := tok.RefreshToken
	if refresh == "" {
		refresh = previousRefresh
	}

	leeway := min(m.leeway, lifetime/2)
	now := m.now()
	m.token = &Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(lifetime),
		refreshAt:    now.Add(lifetime - leeway),
	}

	metrics.IncTokenExchange(grant, "ok")
	m.logger.Info("linxpay.token.acquired",
		zap.String("grant", grant),
		zap.String("client_id", m.creds.ClientID),
		zap.Duration("expires_in", lifetime))
	return m.token
}

func (m *TokenManager) fail(grant string, err error) error {
	metrics.IncTokenExchange(grant, "error")

	authErr := &AuthError{Grant: grant, Err: err}
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		if re.Response != nil {
			authErr.StatusCode = re.Response.StatusCode
		}
		if body, perr := parseBody(re.Body); perr == nil {
			authErr.Body = body
		} else {
			authErr.Body = string(re.Body)
		}
	}

	m.logger.Warn("linxpay.token.failed",
		zap.String("grant", grant),
		zap.String("client_id", m.creds.ClientID),
		zap.Int("status", authErr.StatusCode),
		zap.Error(err))
	return authErr
}

// expiresIn reads expires_in from the raw token response.
func expiresIn(tok *oauth2.Token) time.Duration {
	var secs int64
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		secs = int64(v)
	case json.Number:
		secs, _ = v.Int64()
	case string:
		secs, _ = strconv.ParseInt(v, 10, 64)
	}
	if secs <= 0 {
		return defaultTokenLifetime
	}
	return time.Duration(secs) * time.Second
}
