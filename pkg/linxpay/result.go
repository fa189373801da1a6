package linxpay

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ResultKind tags the outcome of an API call.
type ResultKind int

const (
	// Success: 2xx with a JSON (or empty) body.
	Success ResultKind = iota + 1
	// APIError: 4xx; Body holds the parsed error document.
	APIError
	// TransportError: the call failed outside the API contract; Err holds the reason.
	TransportError
)

func (k ResultKind) String() string {
	switch k {
	case Success:
		return "success"
	case APIError:
		return "api_error"
	case TransportError:
		return "transport_error"
	default:
		return fmt.Sprintf("ResultKind(%d)", int(k))
	}
}

// Result is returned from every operation. Business errors reported by LinxPay
// ("card not found", "card_declined") arrive as APIError results, not Go errors.
type Result struct {
	Kind       ResultKind
	StatusCode int
	Body       any
	Err        error
}

// OK reports whether the call succeeded.
func (r *Result) OK() bool { return r != nil && r.Kind == Success }

// Object returns Body as a JSON object, or nil when the body is not an object.
func (r *Result) Object() map[string]any {
	if r == nil {
		return nil
	}
	m, _ := r.Body.(map[string]any)
	return m
}

func successResult(status int, body any) *Result {
	return &Result{Kind: Success, StatusCode: status, Body: body}
}

func apiErrorResult(status int, body any) *Result {
	return &Result{Kind: APIError, StatusCode: status, Body: body}
}

func transportResult(status int, err error) *Result {
	return &Result{Kind: TransportError, StatusCode: status, Err: err}
}

// parseBody decodes a JSON document. An empty body decodes to nil.
func parseBody(body []byte) (any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return v, nil
}
