package secrets

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Checker-Finance/linxpay/pkg/linxpay"
)

// --- Mock Provider ---

type mockProvider struct {
	secrets map[string]map[string]string
	err     error
	calls   int
}

func (m *mockProvider) GetSecret(_ context.Context, key string) (map[string]string, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if v, ok := m.secrets[key]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("secret not found: %s", key)
}

func newResolver(p Provider) *CredentialsResolver {
	return NewCredentialsResolver(zap.NewNop(), "dev", p, NewCache[linxpay.Credentials](5*time.Minute))
}

func TestCredentialsResolver_FetchThenCache(t *testing.T) {
	mock := &mockProvider{
		secrets: map[string]map[string]string{
			"dev/shop-001/linxpay": {
				"client_id":     "cid",
				"client_secret": "csecret",
				"username":      "pos@shop",
				"password":      "pw",
				"base_uri":      "https://linxpay.linxkiosk.com",
			},
		},
	}
	r := newResolver(mock)

	creds, err := r.Resolve(context.Background(), "Shop-001")
	require.NoError(t, err)
	assert.Equal(t, "cid", creds.ClientID)
	assert.Equal(t, "csecret", creds.ClientSecret)
	assert.Equal(t, "pos@shop", creds.Username)
	assert.Equal(t, "https://linxpay.linxkiosk.com", creds.BaseURI)

	_, err = r.Resolve(context.Background(), "shop-001")
	require.NoError(t, err)
	assert.Equal(t, 1, mock.calls, "second resolve should hit the cache")
}

func TestCredentialsResolver_ProviderError(t *testing.T) {
	r := newResolver(&mockProvider{err: errors.New("access denied")})

	_, err := r.Resolve(context.Background(), "shop-001")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestCredentialsResolver_MissingClientSecret(t *testing.T) {
	mock := &mockProvider{
		secrets: map[string]map[string]string{
			"dev/shop-001/linxpay": {"client_id": "cid"},
		},
	}
	r := newResolver(mock)

	_, err := r.Resolve(context.Background(), "shop-001")
	var cfgErr *linxpay.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "client_secret", cfgErr.Param)
}

// --- AWS provider with a fake Secrets Manager client ---

type fakeSecretsAPI struct {
	value *string
	err   error
	asked string
}

func (f *fakeSecretsAPI) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.asked = aws.ToString(in.SecretId)
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: f.value}, nil
}

func TestAWSProvider_GetSecret(t *testing.T) {
	api := &fakeSecretsAPI{value: aws.String(`{"client_id":"cid","client_secret":"cs"}`)}
	p := &AWSSecretsManagerProvider{client: api}

	got, err := p.GetSecret(context.Background(), "dev/shop/linxpay")
	require.NoError(t, err)
	assert.Equal(t, "dev/shop/linxpay", api.asked)
	assert.Equal(t, map[string]string{"client_id": "cid", "client_secret": "cs"}, got)
}

func TestAWSProvider_InvalidJSON(t *testing.T) {
	p := &AWSSecretsManagerProvider{client: &fakeSecretsAPI{value: aws.String(`not json`)}}

	_, err := p.GetSecret(context.Background(), "dev/shop/linxpay")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid secret format")
}

func TestAWSProvider_NoSecretString(t *testing.T) {
	p := &AWSSecretsManagerProvider{client: &fakeSecretsAPI{}}

	_, err := p.GetSecret(context.Background(), "dev/shop/linxpay")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no string value")
}
