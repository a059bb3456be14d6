package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const (
	OTPLength      = 6
	OTPTTL         = 5 * time.Minute
	OTPMaxAttempts = 3

	// a guess loses a conditional write at most once per counted attempt
	otpWriteRetries = OTPMaxAttempts + 2
)

// GenerateOTP returns a uniformly random numeric code of OTPLength digits.
func GenerateOTP() (string, error) {
	max := big.NewInt(1_000_000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", OTPLength, n.Int64()), nil
}

// encodeOTP builds the stored verification value "<otp>:<attempts>".
func encodeOTP(otp string, attempts int) string {
	return otp + ":" + strconv.Itoa(attempts)
}

// decodeOTP splits a stored value. A value without a counter has zero attempts.
func decodeOTP(value string) (otp string, attempts int) {
	otp, rest, found := strings.Cut(value, ":")
	if !found {
		return otp, 0
	}
	attempts, err := strconv.Atoi(rest)
	if err != nil {
		return otp, 0
	}
	return otp, attempts
}
