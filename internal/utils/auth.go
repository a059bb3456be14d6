package utils

import (
	"context"

	"dbs-store/internal/auth"
	"dbs-store/internal/logger"
)

type contextKey string

const (
	sessionKey   contextKey = "session"
	storeRoleKey contextKey = "store_role"
)

// SetSessionContext stores the resolved session (called by middleware).
// Later loggers taken from the context carry the user id.
func SetSessionContext(ctx context.Context, s *auth.SessionWithUser) context.Context {
	ctx = context.WithValue(ctx, sessionKey, s)
	return logger.WithUserID(ctx, s.User.ID)
}

func GetSessionFromContext(ctx context.Context) (*auth.SessionWithUser, bool) {
	s, ok := ctx.Value(sessionKey).(*auth.SessionWithUser)
	return s, ok && s != nil
}

// GetUserIDFromContext retrieves the signed-in user id safely
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	s, ok := GetSessionFromContext(ctx)
	if !ok {
		return "", false
	}
	return s.User.ID, true
}
