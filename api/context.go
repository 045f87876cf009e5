package api

import (
	"context"
	"errors"
)

type keyType string

const userIDKey keyType = "userID"

// ctxWithUserID adds a user ID to the context
func ctxWithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// ctxGetUserID retrieves the authenticated user ID from the context
func ctxGetUserID(ctx context.Context) (uint, error) {
	userID, ok := ctx.Value(userIDKey).(uint)
	if !ok || userID == 0 {
		return 0, errors.New("user id not found in context")
	}
	return userID, nil
}
