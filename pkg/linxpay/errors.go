package linxpay

import "fmt"

// ConfigError is returned at construction time when a required credential is missing.
type ConfigError struct {
	Param string
}

func (e *ConfigError) Error() string {
	return "Missing required configuration parameter: " + e.Param
}

// ValidationError is returned before any network call when an outgoing payload
// breaks one of the endpoint's field rules. Message is stable and safe to show callers.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// AuthError reports a failed token acquisition or refresh.
// Body holds the parsed token endpoint response when one was received.
type AuthError struct {
	Grant      string
	StatusCode int
	Body       any
	Err        error
}

func (e *AuthError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("linxpay auth: %s grant returned %d", e.Grant, e.StatusCode)
	}
	return fmt.Sprintf("linxpay auth: %s grant: %v", e.Grant, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// InternalError signals a programming error inside the client, such as an
// endpoint descriptor without a path or method.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return "linxpay internal: " + e.Message
}
