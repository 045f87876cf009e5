package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"
)

func TestNewDatabaseError(t *testing.T) {
	tests := []struct {
		name   string
		cause  error
		status int
		is     error
	}{
		{"record not found", gorm.ErrRecordNotFound, http.StatusNotFound, ErrNotFound},
		{"duplicated key", gorm.ErrDuplicatedKey, http.StatusConflict, ErrAlreadyExists},
		{"sqlite unique", errors.New("UNIQUE constraint failed: users.username"), http.StatusConflict, ErrAlreadyExists},
		{"foreign key", gorm.ErrForeignKeyViolated, http.StatusConflict, ErrForeignKeyConstraint},
		{"connection", errors.New("dial tcp: connection refused"), http.StatusServiceUnavailable, ErrDatabaseConnection},
		{"other", errors.New("syntax error"), http.StatusInternalServerError, ErrDatabaseQuery},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDatabaseError("create", "project", tt.cause)
			if err.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", err.StatusCode, tt.status)
			}
			if !errors.Is(err, tt.is) {
				t.Fatalf("errors.Is(%v, %v) = false", err, tt.is)
			}
		})
	}
}

func TestNewDatabaseErrorKeepsApiErr(t *testing.T) {
	inner := NewMissingKeysError("data", []string{"settings"})
	wrapped := fmt.Errorf("in transaction: %w", inner)

	got := NewDatabaseError("save", "draft", wrapped)
	if got != inner {
		t.Fatalf("got %v, want the original error", got)
	}
	if got.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", got.StatusCode)
	}
}

func TestStatusOf(t *testing.T) {
	if got := StatusOf(NewNotFound("draft")); got != http.StatusNotFound {
		t.Fatalf("StatusOf(not found) = %d", got)
	}
	if got := StatusOf(fmt.Errorf("wrapped: %w", NewForbiddenError("private"))); got != http.StatusForbidden {
		t.Fatalf("StatusOf(wrapped forbidden) = %d", got)
	}
	if got := StatusOf(errors.New("plain")); got != http.StatusInternalServerError {
		t.Fatalf("StatusOf(plain) = %d", got)
	}
}

func TestGetFullErrorFollowsCauses(t *testing.T) {
	root := errors.New("socket closed")
	err := NewInternalErrorWithCause("outer", NewStorageError("upload", root))

	full := err.GetFullError()
	for _, part := range []string{"outer", "socket closed"} {
		if !strings.Contains(full, part) {
			t.Fatalf("GetFullError() = %q, missing %q", full, part)
		}
	}
}

func TestIsTransient(t *testing.T) {
	transient := []error{
		NewUpstreamUnavailableError("ai", errors.New("502")),
		NewTimeoutError("ai", time.Second),
		NewCircuitBreakerOpenError("ai"),
		NewRateLimitError("ai", time.Minute),
		NewStorageError("upload", errors.New("503")),
	}
	for _, err := range transient {
		if !IsTransient(err) {
			t.Errorf("IsTransient(%v) = false", err)
		}
	}

	for _, err := range []error{NewMalformedAIResponseError("not json", nil), NewNotFound("resume"), nil} {
		if IsTransient(err) {
			t.Errorf("IsTransient(%v) = true", err)
		}
	}
}

func TestValidationClassification(t *testing.T) {
	for _, err := range []error{
		NewValidationError("title", "required"),
		NewMissingKeysError("data", []string{"profile"}),
		NewMissingRequiredFieldError("file"),
		NewMalformedAIResponseError("not json", nil),
	} {
		if !IsValidation(err) {
			t.Errorf("IsValidation(%v) = false", err)
		}
	}
	if IsValidation(NewNotFound("draft")) {
		t.Error("not found is not a validation error")
	}
}
