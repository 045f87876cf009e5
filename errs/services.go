package errs

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Third-party API & LLM errors. Everything here except a malformed AI
// response is transient: the caller may try again later, nothing is retried
// automatically.
var (
	ErrRateLimitExceeded   = errors.New("rate limit exceeded")
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
	ErrTimeout             = errors.New("timeout")
	ErrCircuitBreakerOpen  = errors.New("circuit breaker open")
	ErrMalformedAIResponse = errors.New("malformed AI response")
	ErrStorageUnavailable  = errors.New("object storage unavailable")
)

// Configuration & Environment Errors
var (
	ErrConfigMissing = errors.New("configuration missing")
	ErrConfigInvalid = errors.New("configuration invalid")
)

func NewRateLimitError(service string, retryAfter time.Duration) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusTooManyRequests,
		err:        ErrRateLimitExceeded,
		Details:    fmt.Sprintf("Rate limit exceeded for %s service, retry after %s", service, retryAfter),
		Field:      "rate_limit",
	}
}

func NewUpstreamUnavailableError(service string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrUpstreamUnavailable,
		Details:    fmt.Sprintf("%s request failed", service),
		Cause:      cause,
	}
}

func NewTimeoutError(service string, timeout time.Duration) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusGatewayTimeout,
		err:        ErrTimeout,
		Details:    fmt.Sprintf("%s did not answer within %s", service, timeout),
	}
}

func NewCircuitBreakerOpenError(service string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrCircuitBreakerOpen,
		Details:    fmt.Sprintf("%s is temporarily disabled after repeated failures", service),
	}
}

// NewMalformedAIResponseError is a validation failure: the model answered but
// the answer cannot be used.
func NewMalformedAIResponseError(details string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnprocessableEntity,
		err:        ErrMalformedAIResponse,
		Details:    details,
		Cause:      cause,
		Field:      "extracted_data",
	}
}

func NewStorageError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrStorageUnavailable,
		Details:    fmt.Sprintf("Failed to %s file", operation),
		Cause:      cause,
	}
}

func NewConfigError(configName string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigInvalid,
		Details:    fmt.Sprintf("Invalid configuration: %s", configName),
		Cause:      cause,
	}
}

func NewConfigMissingError(configName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigMissing,
		Details:    fmt.Sprintf("Missing configuration: %s", configName),
	}
}

// IsTransient reports whether err is an external failure worth retrying later.
func IsTransient(err error) bool {
	return errors.Is(err, ErrUpstreamUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrCircuitBreakerOpen) ||
		errors.Is(err, ErrRateLimitExceeded) ||
		errors.Is(err, ErrStorageUnavailable)
}
