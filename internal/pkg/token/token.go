package token

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// Alphanumeric is the lowercase a-z0-9 alphabet used for session suffixes and CSRF nonces.
	Alphanumeric = "abcdefghijklmnopqrstuvwxyz0123456789"
	Digits       = "0123456789"
)

// String returns n characters drawn uniformly from alphabet using crypto/rand.
func String(n int, alphabet string) (string, error) {
	if n <= 0 || alphabet == "" {
		return "", fmt.Errorf("generate token: invalid length %d", n)
	}
	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate token: %w", err)
		}
		b[i] = alphabet[idx.Int64()]
	}
	return string(b), nil
}

// Numeric returns an n-digit code; leading zeros are kept.
func Numeric(n int) (string, error) {
	return String(n, Digits)
}
