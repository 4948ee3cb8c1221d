// Package codes generates the short numeric join codes used by invitations
// and live sessions. Codes come from crypto/rand so they are not guessable
// from earlier ones; uniqueness is the caller's problem and is enforced
// against the store with bounded regeneration.
package codes

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Numeric returns a random code of exactly n decimal digits. Leading zeros
// are allowed, so the code must be treated as a string.
func Numeric(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("code length must be positive, got %d", n)
	}

	digits := make([]byte, n)
	max := big.NewInt(10)
	for i := range digits {
		d, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate code digit: %w", err)
		}
		digits[i] = '0' + byte(d.Int64())
	}

	return string(digits), nil
}
