package auth

import (
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < MinPasswordLength {
		return newError(CodePasswordTooShort)
	}
	if n > MaxPasswordLength {
		return newError(CodePasswordTooLong)
	}
	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
