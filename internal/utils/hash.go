package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// NumericCode returns a random code of length digits, zero-padded. Used for
// the email verification and password reset challenges.
func NumericCode(digits int) (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < digits; i++ {
		limit.Mul(limit, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
