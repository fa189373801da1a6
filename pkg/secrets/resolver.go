package secrets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Checker-Finance/linxpay/pkg/linxpay"
)

const venue = "linxpay"

// CredentialsResolver loads LinxPay account credentials from a secrets
// Provider, caching them locally.
//
// Secret naming convention: {env}/{clientID}/linxpay
// Secret format: {"client_id", "client_secret", "username", "password", "base_uri", "token_url"}
type CredentialsResolver struct {
	logger   *zap.Logger
	env      string
	provider Provider
	cache    *Cache[linxpay.Credentials]
}

// NewCredentialsResolver constructs a resolver.
func NewCredentialsResolver(logger *zap.Logger, env string, provider Provider, cache *Cache[linxpay.Credentials]) *CredentialsResolver {
	return &CredentialsResolver{
		logger:   logger,
		env:      env,
		provider: provider,
		cache:    cache,
	}
}

func (r *CredentialsResolver) secretName(clientID string) string {
	return strings.ToLower(fmt.Sprintf("%s/%s/%s", r.env, clientID, venue))
}

// Resolve returns the credentials for clientID, from cache when possible.
// The secret must carry client_id and client_secret.
func (r *CredentialsResolver) Resolve(ctx context.Context, clientID string) (linxpay.Credentials, error) {
	name := r.secretName(clientID)

	if creds, ok := r.cache.Get(name); ok {
		return creds, nil
	}

	secret, err := r.provider.GetSecret(ctx, name)
	if err != nil {
		r.logger.Warn("aws.secret_fetch_failed",
			zap.String("key", name),
			zap.Error(err))
		return linxpay.Credentials{}, fmt.Errorf("resolve linxpay credentials for %q: %w", clientID, err)
	}

	creds := linxpay.Credentials{
		BaseURI:      secret["base_uri"],
		TokenURL:     secret["token_url"],
		ClientID:     secret["client_id"],
		ClientSecret: secret["client_secret"],
		Username:     secret["username"],
		Password:     secret["password"],
	}
	if err := creds.Validate(); err != nil {
		return linxpay.Credentials{}, fmt.Errorf("parse secret %q: %w", name, err)
	}

	r.cache.Put(name, creds)

	r.logger.Info("aws.linxpay_credentials_resolved",
		zap.String("client", clientID),
		zap.String("secret", name))
	return creds, nil
}
