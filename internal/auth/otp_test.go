package auth

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP(t *testing.T) {
	digits := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 100; i++ {
		otp, err := GenerateOTP()
		require.NoError(t, err)
		assert.Regexp(t, digits, otp)
	}
}

func TestEncodeDecodeOTP(t *testing.T) {
	otp, attempts := decodeOTP(encodeOTP("042917", 2))
	assert.Equal(t, "042917", otp)
	assert.Equal(t, 2, attempts)

	otp, attempts = decodeOTP("123456")
	assert.Equal(t, "123456", otp)
	assert.Equal(t, 0, attempts)

	_, attempts = decodeOTP("123456:x")
	assert.Equal(t, 0, attempts)
}

func TestOTPType(t *testing.T) {
	assert.Equal(t, "forget-password-otp-jane@example.com", OTPForgetPassword.Identifier("jane@example.com"))
	assert.True(t, OTPSignIn.Valid())
	assert.False(t, OTPType("magic-link").Valid())
}
