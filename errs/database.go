package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrAlreadyExists        = errors.New("already exists")
	ErrNotFound             = errors.New("not found")
	ErrDatabaseQuery        = errors.New("database query failed")
	ErrDatabaseConnection   = errors.New("database connection failed")
	ErrForeignKeyConstraint = errors.New("foreign key constraint violation")
)

// NewNotFound is the 404 for a missing row of entity.
func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
	}
}

// NewDatabaseError classifies a storage failure. Errors that already carry a
// status, typically raised inside a transaction, pass through unchanged.
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	var apiErr *ApiErr
	if errors.As(cause, &apiErr) {
		return apiErr
	}

	details := fmt.Sprintf("Failed to %s %s", operation, entity)
	if cause == nil {
		return &ApiErr{StatusCode: http.StatusInternalServerError, err: ErrDatabaseQuery, Details: details}
	}

	errStr := cause.Error()
	switch {
	case errors.Is(cause, gorm.ErrRecordNotFound):
		return &ApiErr{
			StatusCode: http.StatusNotFound,
			err:        fmt.Errorf("%s %w", entity, ErrNotFound),
			Details:    details,
		}
	case errors.Is(cause, gorm.ErrDuplicatedKey),
		strings.Contains(errStr, "duplicate key"),
		strings.Contains(errStr, "UNIQUE constraint failed"):
		return &ApiErr{
			StatusCode: http.StatusConflict,
			err:        fmt.Errorf("%s %w", entity, ErrAlreadyExists),
			Details:    details,
			Cause:      cause,
		}
	case errors.Is(cause, gorm.ErrForeignKeyViolated), strings.Contains(errStr, "foreign key constraint"):
		return &ApiErr{
			StatusCode: http.StatusConflict,
			err:        ErrForeignKeyConstraint,
			Details:    "The referenced resource does not exist or cannot be linked",
			Cause:      cause,
		}
	case errors.Is(cause, context.DeadlineExceeded):
		return &ApiErr{
			StatusCode: http.StatusGatewayTimeout,
			err:        ErrTimeout,
			Details:    details + ": request timed out",
			Cause:      cause,
		}
	case strings.Contains(errStr, "connection"):
		return &ApiErr{
			StatusCode: http.StatusServiceUnavailable,
			err:        ErrDatabaseConnection,
			Details:    "Unable to connect to database",
			Cause:      cause,
		}
	}

	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    details,
		Cause:      cause,
	}
}
