package linxpay

import "strings"

const (
	// DefaultBaseURI is the LinxPay staging environment.
	DefaultBaseURI = "https://linxpay-staging.linxkiosk.com"
	// DefaultTokenPath is the OAuth2 token endpoint, relative to the base URI.
	DefaultTokenPath = "/oauth/token"
)

// Credentials holds the OAuth2 password-grant configuration for one LinxPay account.
// The client keeps its own copy, so changing a Credentials value after New has no effect.
type Credentials struct {
	BaseURI      string // API base, e.g. "https://linxpay.linxkiosk.com"
	TokenURL     string // absolute URL or path relative to BaseURI
	ClientID     string // required
	ClientSecret string // required
	Username     string
	Password     string
}

// NewCredentials applies defaults to c and validates it.
func NewCredentials(c Credentials) (Credentials, error) {
	c = c.withDefaults()
	if err := c.Validate(); err != nil {
		return Credentials{}, err
	}
	return c, nil
}

// Validate checks the required OAuth2 client credentials.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.ClientID) == "" {
		return &ConfigError{Param: "client_id"}
	}
	if strings.TrimSpace(c.ClientSecret) == "" {
		return &ConfigError{Param: "client_secret"}
	}
	return nil
}

// withDefaults fills in the base URI and token URL.
func (c Credentials) withDefaults() Credentials {
	if c.BaseURI == "" {
		c.BaseURI = DefaultBaseURI
	}
	c.BaseURI = strings.TrimRight(c.BaseURI, "/")
	if c.TokenURL == "" {
		c.TokenURL = DefaultTokenPath
	}
	return c
}

// tokenEndpoint resolves TokenURL against BaseURI.
func (c Credentials) tokenEndpoint() string {
	if strings.HasPrefix(c.TokenURL, "http://") || strings.HasPrefix(c.TokenURL, "https://") {
		return c.TokenURL
	}
	return c.BaseURI + "/" + strings.TrimLeft(c.TokenURL, "/")
}
