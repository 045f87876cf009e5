package errs

import (
	"errors"
	"net/http"
)

// Bearer token failures. All of them answer 401 on the authorization field.
var (
	ErrMissingToken = errors.New("missing access token")
	ErrExpiredToken = errors.New("expired access token")
	ErrInvalidToken = errors.New("invalid access token")
)

func tokenError(sentinel error, details string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        sentinel,
		Details:    details,
		Field:      "authorization",
		Cause:      cause,
	}
}

func NewMissingTokenError() *ApiErr {
	return tokenError(ErrMissingToken, "Provide a bearer token", nil)
}

func NewExpiredTokenError() *ApiErr {
	return tokenError(ErrExpiredToken, "Access token has expired", nil)
}

func NewInvalidTokenError(cause error) *ApiErr {
	return tokenError(ErrInvalidToken, "Access token could not be verified", cause)
}
