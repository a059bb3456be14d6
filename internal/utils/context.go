package utils

import (
	"context"

	"dbs-store/internal/auth"
)

// SetStoreRole records the user's role in the store organization (admin routes only).
func SetStoreRole(ctx context.Context, role auth.Role) context.Context {
	return context.WithValue(ctx, storeRoleKey, role)
}

func GetStoreRole(ctx context.Context) (auth.Role, bool) {
	role, ok := ctx.Value(storeRoleKey).(auth.Role)
	return role, ok
}
