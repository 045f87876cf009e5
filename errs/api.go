package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrForbidden    = errors.New("operation not allowed")
	ErrBadRequest   = errors.New("malformed request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation failed")
)

// Request body and document shape
var (
	ErrMissingRequiredField = errors.New("missing required field")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrMaxBodySizeExceeded  = errors.New("max body size exceeded")
	ErrInvalidJSON          = errors.New("invalid JSON")
	ErrMissingKeys          = errors.New("invalid draft data structure")
)

// ApiErr is an error with the HTTP status it maps to. The wrapped sentinel
// is reachable through errors.Is; Cause is reported but not unwrapped.
type ApiErr struct {
	StatusCode int
	err        error
	Details    string
	Field      string
	Cause      error
}

func (e *ApiErr) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.err.Error(), e.Details)
	}
	return e.err.Error()
}

// GetFullError appends the chain of causes to Error.
func (e *ApiErr) GetFullError() string {
	msg := e.Error()
	if e.Cause == nil {
		return msg
	}
	var apiErr *ApiErr
	if errors.As(e.Cause, &apiErr) {
		return msg + " -> " + apiErr.GetFullError()
	}
	return msg + " -> " + e.Cause.Error()
}

func (e *ApiErr) Unwrap() error {
	return e.err
}

// StatusOf returns the HTTP status carried by err, or 500.
func StatusOf(err error) int {
	var apiErr *ApiErr
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return http.StatusInternalServerError
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation reports client input or generated content that was rejected.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrMissingKeys) ||
		errors.Is(err, ErrMissingRequiredField) ||
		errors.Is(err, ErrMalformedAIResponse)
}

func NewNotFoundError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusNotFound, err: fmt.Errorf("%s: %w", message, ErrNotFound)}
}

func NewForbiddenError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusForbidden, err: fmt.Errorf("%s: %w", message, ErrForbidden)}
}

func NewBadRequestError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusBadRequest, err: fmt.Errorf("%s: %w", message, ErrBadRequest)}
}

func NewUnauthorizedError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusUnauthorized, err: fmt.Errorf("%s: %w", message, ErrUnauthorized)}
}

func NewInternalErrorWithCause(message string, cause error) *ApiErr {
	return &ApiErr{StatusCode: http.StatusInternalServerError, err: errors.New(message), Cause: cause}
}

// NewValidationError reports input that is well formed but unacceptable.
func NewValidationError(field, details string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrValidation,
		Details:    details,
		Field:      field,
	}
}

// NewUnprocessableError is a validation failure on uploaded or generated
// content rather than on the request itself.
func NewUnprocessableError(field, details string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnprocessableEntity,
		err:        ErrValidation,
		Details:    details,
		Field:      field,
	}
}

// NewMissingKeysError names every required top-level key absent from a document.
func NewMissingKeysError(field string, keys []string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrMissingKeys,
		Details:    "Missing keys: " + strings.Join(keys, ", "),
		Field:      field,
	}
}

func NewMissingRequiredFieldError(fieldName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrMissingRequiredField,
		Details:    "Missing required field: " + fieldName,
		Field:      fieldName,
	}
}

func NewUnsupportedMediaTypeError(ext string, allowed []string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnsupportedMediaType,
		err:        ErrUnsupportedMediaType,
		Details:    fmt.Sprintf("Unsupported file type %q. Allowed types: %s", ext, strings.Join(allowed, ", ")),
		Field:      "file",
	}
}

// NewMaxBodySizeExceededError is returned for JSON bodies over the limit.
func NewMaxBodySizeExceededError(maxSize int64) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusRequestEntityTooLarge,
		err:        ErrMaxBodySizeExceeded,
		Details:    fmt.Sprintf("Request body exceeds %d bytes", maxSize),
	}
}

func NewInvalidJSONError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidJSON,
		Details:    "Invalid JSON format",
		Cause:      cause,
	}
}
