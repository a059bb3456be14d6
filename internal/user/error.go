package user

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("email already registered")
	ErrAccountNotFound = errors.New("account not found")
	ErrInvalidName     = errors.New("invalid name")

	PgUniqueViolation = "23505"
)
