package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Checker-Finance/linxpay/internal/metrics"
	"github.com/Checker-Finance/linxpay/internal/rate"
)

// Backoff returns the retry sleep duration for the given attempt number.
func Backoff(attempt int) time.Duration {
	switch attempt {
	case 0:
		return 100 * time.Millisecond
	case 1:
		return 250 * time.Millisecond
	default:
		return 500 * time.Millisecond
	}
}

// RequestBuilder produces a fresh request for every attempt, so POST bodies are re-sent intact.
type RequestBuilder func() (*http.Request, error)

// Response is a fully read HTTP response with a status below 500.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Latency    time.Duration
}

// StatusError reports a 5xx response that survived every retry.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error: %d", e.StatusCode)
}

// Executor handles rate-limited HTTP execution. Responses below 500 are
// returned to the caller as-is; interpreting 4xx is the caller's job.
// Transport failures and 5xx are retried up to retryMax times for idempotent
// methods. A POST is retried only when the connection could not be dialed.
type Executor struct {
	logger   *zap.Logger
	rateMgr  *rate.Manager
	http     *http.Client
	retryMax int
	venueTag string
}

// New creates an Executor. rateMgr may be nil.
func New(
	logger *zap.Logger,
	rateMgr *rate.Manager,
	httpClient *http.Client,
	retryMax int,
	venueTag string,
) *Executor {
	if retryMax < 0 {
		retryMax = 0
	}
	return &Executor{
		logger:   logger,
		rateMgr:  rateMgr,
		http:     httpClient,
		retryMax: retryMax,
		venueTag: venueTag,
	}
}

// Do waits for the rate limiter, then executes the request built by build.
// rateLimitKey scopes the rate limiter per account.
func (e *Executor) Do(ctx context.Context, build RequestBuilder, rateLimitKey string) (*Response, error) {
	if e.rateMgr != nil {
		if err := e.rateMgr.Wait(ctx, rateLimitKey); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	var (
		lastErr  error
		attempts int
	)
	for attempt := 0; attempt <= e.retryMax; attempt++ {
		attempts++
		if attempt > 0 {
			if err := sleep(ctx, Backoff(attempt-1)); err != nil {
				return nil, err
			}
		}

		req, err := build()
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}

		resp, latency, err := e.roundTrip(req)
		if err != nil {
			lastErr = err
			e.logger.Warn(e.venueTag+".http_failed",
				zap.String("url", req.URL.String()),
				zap.Error(err),
				zap.Int("attempt", attempt))
			metrics.IncAPIRequest(req.URL.Path, req.Method, "error")
			if ctx.Err() != nil {
				return nil, err
			}
			if !idempotent(req.Method) && !notSent(err) {
				break
			}
			continue
		}

		metrics.IncAPIRequest(req.URL.Path, req.Method, strconv.Itoa(resp.StatusCode))

		if resp.StatusCode >= 500 {
			e.logger.Warn(e.venueTag+".server_error",
				zap.Int("status", resp.StatusCode),
				zap.String("url", req.URL.String()),
				zap.Duration("latency", latency),
				zap.Int("attempt", attempt))
			lastErr = &StatusError{StatusCode: resp.StatusCode, Body: resp.Body}
			if !idempotent(req.Method) {
				break
			}
			continue
		}

		e.logger.Debug(e.venueTag+".http_done",
			zap.String("url", req.URL.String()),
			zap.Int("status", resp.StatusCode),
			zap.Duration("elapsed", latency))

		return resp, nil
	}

	return nil, fmt.Errorf("%s request failed after %d attempts: %w", e.venueTag, attempts, lastErr)
}

// idempotent reports whether a request with method can be repeated safely.
func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// notSent reports whether err happened while dialing, before any byte of the
// request reached the server.
func notSent(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

func (e *Executor) roundTrip(req *http.Request) (*Response, time.Duration, error) {
	start := time.Now()
	defer metrics.ObserveDuration(metrics.APIRequestDuration, start, req.URL.Path, req.Method)

	resp, err := e.http.Do(req)
	if err != nil {
		return nil, time.Since(start), err
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	latency := time.Since(start)
	if err != nil {
		return nil, latency, fmt.Errorf("read body: %w", err)
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		Latency:    latency,
	}, latency, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
