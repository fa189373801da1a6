package linxpay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Checker-Finance/linxpay/internal/httpclient"
	"github.com/Checker-Finance/linxpay/internal/metrics"
	"github.com/Checker-Finance/linxpay/pkg/utils"
)

// Client calls the LinxPay API on behalf of one account.
// It is safe for concurrent use.
type Client struct {
	logger *zap.Logger
	creds  Credentials
	tokens *TokenManager
	exec   *httpclient.Executor
}

// New constructs a Client. It fails immediately with *ConfigError when
// ClientID or ClientSecret is empty; no network call is made.
func New(creds Credentials, opts ...Option) (*Client, error) {
	creds = creds.withDefaults()
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	tokens := o.tokens
	if tokens == nil {
		tokens = newTokenManager(creds, o)
	}

	return &Client{
		logger: o.logger,
		creds:  creds,
		tokens: tokens,
		exec:   httpclient.New(o.logger, o.rateMgr, o.httpClient, o.retryMax, "linxpay"),
	}, nil
}

// Tokens returns the client's token manager.
func (c *Client) Tokens() *TokenManager { return c.tokens }

// Poll checks API availability.
// GET /api/v1/poll
func (c *Client) Poll(ctx context.Context) (*Result, error) {
	return c.Execute(ctx, PollEndpoint, nil)
}

// Redemption redeems a Linx card transaction.
// POST /api/v1/redemptions/redemption
//
// An invalid payload is reported as *ValidationError before any network call.
// A LinxPay business rejection is an APIError result, not an error.
func (c *Client) Redemption(ctx context.Context, fields Fields) (*Result, error) {
	if err := Validate(RedemptionEndpoint, fields); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			metrics.IncValidationFailure(ve.Field)
		}
		c.logger.Warn("linxpay.redemption.invalid", zap.Error(err))
		return nil, err
	}

	c.logger.Info("linxpay.redemption",
		zap.String("card", utils.MaskCardNumber(fmt.Sprint(fields["linx_card_number"]))),
		zap.Any("product_type", fields["product_type"]))

	return c.Execute(ctx, RedemptionEndpoint, fields)
}

// RedeemCard is Redemption for a typed request.
func (c *Client) RedeemCard(ctx context.Context, req RedemptionRequest) (*Result, error) {
	return c.Redemption(ctx, req.Fields())
}

// Execute authorizes and sends one call to spec. Callers are expected to have
// validated fields already. A 401 from the API invalidates the token and the
// call is retried once with a fresh one. If that refresh fails, the *AuthError
// is returned and the 401 body is dropped.
func (c *Client) Execute(ctx context.Context, spec EndpointSpec, fields Fields) (*Result, error) {
	if spec.Path == "" || spec.Method == "" {
		return nil, &InternalError{Message: "invalid endpoint"}
	}

	tok, err := c.tokens.ValidToken(ctx)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	res := c.send(ctx, spec, fields, tok, requestID)
	if res.StatusCode != http.StatusUnauthorized {
		return res, nil
	}

	c.logger.Info("linxpay.unauthorized_retry",
		zap.String("endpoint", spec.Name),
		zap.String("request_id", requestID))

	c.tokens.Invalidate(tok)
	tok, err = c.tokens.ValidToken(ctx)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, spec, fields, tok, requestID), nil
}

func (c *Client) send(ctx context.Context, spec EndpointSpec, fields Fields, tok *Token, requestID string) *Result {
	build := func() (*http.Request, error) {
		return c.newRequest(ctx, spec, fields, tok, requestID)
	}

	resp, err := c.exec.Do(ctx, build, c.creds.ClientID)
	if err != nil {
		status := 0
		var se *httpclient.StatusError
		if errors.As(err, &se) {
			status = se.StatusCode
		}
		metrics.IncError("linxpay", "transport")
		return transportResult(status, err)
	}
	return c.normalize(spec, resp, requestID)
}

func (c *Client) newRequest(ctx context.Context, spec EndpointSpec, fields Fields, tok *Token, requestID string) (*http.Request, error) {
	var body io.Reader
	if spec.Method != http.MethodGet {
		body = strings.NewReader(encodeForm(fields))
	}

	req, err := http.NewRequestWithContext(ctx, spec.Method, c.creds.BaseURI+spec.Path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return req, nil
}

// normalize maps a completed response to a Result.
func (c *Client) normalize(spec EndpointSpec, resp *httpclient.Response, requestID string) *Result {
	status := resp.StatusCode

	switch {
	case status >= 200 && status < 300:
		parsed, err := parseBody(resp.Body)
		if err != nil {
			c.logger.Warn("linxpay.decode_failed",
				zap.String("endpoint", spec.Name),
				zap.String("request_id", requestID),
				zap.Error(err))
			return transportResult(status, err)
		}
		return successResult(status, parsed)

	case status >= 400 && status < 500:
		parsed, err := parseBody(resp.Body)
		if err != nil {
			c.logger.Warn("linxpay.decode_failed",
				zap.String("endpoint", spec.Name),
				zap.String("request_id", requestID),
				zap.Int("status", status),
				zap.Error(err))
			return transportResult(status, err)
		}
		c.logger.Warn("linxpay.client_error",
			zap.String("endpoint", spec.Name),
			zap.String("request_id", requestID),
			zap.Int("status", status),
			zap.ByteString("body", resp.Body))
		return apiErrorResult(status, parsed)

	default:
		return transportResult(status, fmt.Errorf("linxpay returned unexpected status %d", status))
	}
}
