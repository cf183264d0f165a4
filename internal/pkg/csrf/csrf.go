// Package csrf mints and verifies stateless CSRF tokens bound to a session id.
//
// A token is "<hex HMAC-SHA256(secret, sessionID + "!" + nonce)>.<nonce>", so verifying
// one only needs the session id and the server secret.
package csrf

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/hurby24/Bibliobay-backend/internal/pkg/token"
)

const nonceLength = 4

// Mint returns a fresh token for sessionID.
func Mint(sessionID string, secret []byte) (string, error) {
	nonce, err := token.String(nonceLength, token.Alphanumeric)
	if err != nil {
		return "", fmt.Errorf("mint csrf token: %w", err)
	}
	return sign(sessionID, nonce, secret) + "." + nonce, nil
}

// Verify reports whether tok was minted for sessionID with secret.
// Malformed tokens are simply invalid.
func Verify(sessionID, tok string, secret []byte) bool {
	sig, nonce, ok := strings.Cut(tok, ".")
	if !ok || sig == "" || nonce == "" {
		return false
	}
	expected := sign(sessionID, nonce, secret)
	return hmac.Equal([]byte(sig), []byte(expected))
}

func sign(sessionID, nonce string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(sessionID + "!" + nonce))
	return hex.EncodeToString(mac.Sum(nil))
}
