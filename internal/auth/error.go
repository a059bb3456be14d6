package auth

const (
	CodeInvalidCredentials = "INVALID_EMAIL_OR_PASSWORD"
	CodeUserAlreadyExists  = "USER_ALREADY_EXISTS"
	CodeInvalidEmail       = "INVALID_EMAIL"
	CodeInvalidName        = "INVALID_NAME"
	CodePasswordTooShort   = "PASSWORD_TOO_SHORT"
	CodePasswordTooLong    = "PASSWORD_TOO_LONG"
	CodeInvalidOTP         = "INVALID_OTP"
	CodeOTPExpired         = "OTP_EXPIRED"
	CodeTooManyAttempts    = "TOO_MANY_ATTEMPTS"
	CodeInvalidOTPType     = "INVALID_OTP_TYPE"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeSessionExpired     = "SESSION_EXPIRED"
	CodeProviderNotFound   = "PROVIDER_NOT_FOUND"
	CodeInvalidState       = "INVALID_STATE"
	CodeSocialEmailMissing = "SOCIAL_EMAIL_MISSING"
	CodeForbidden          = "FORBIDDEN"
)

// Error is the failure value of every auth flow. Two errors are equal under
// errors.Is when their codes match.
type Error struct {
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Message is the French text shown to users for this error.
func (e *Error) Message() string {
	return TranslateError(e.Code, "Une erreur est survenue.")
}

func newError(code string) *Error { return &Error{Code: code} }

func wrapError(code string, err error) *Error { return &Error{Code: code, Err: err} }

var (
	ErrInvalidCredentials = newError(CodeInvalidCredentials)
	ErrUserAlreadyExists  = newError(CodeUserAlreadyExists)
	ErrInvalidEmail       = newError(CodeInvalidEmail)
	ErrInvalidOTP         = newError(CodeInvalidOTP)
	ErrOTPExpired         = newError(CodeOTPExpired)
	ErrTooManyAttempts    = newError(CodeTooManyAttempts)
	ErrUnauthorized       = newError(CodeUnauthorized)
	ErrSessionExpired     = newError(CodeSessionExpired)
	ErrProviderNotFound   = newError(CodeProviderNotFound)
	ErrForbidden          = newError(CodeForbidden)
)
