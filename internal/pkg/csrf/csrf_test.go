package csrf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret-with-enough-entropy-0123456789")

func TestMint_Shape(t *testing.T) {
	tok, err := Mint("user1:abc", secret)
	require.NoError(t, err)
	sig, nonce, ok := strings.Cut(tok, ".")
	require.True(t, ok)
	assert.Len(t, sig, 64)
	assert.Len(t, nonce, nonceLength)
}

func TestVerify_RoundTrip(t *testing.T) {
	for _, sid := range []string{"u1:x", "01HZY:" + strings.Repeat("a", 60), ""} {
		tok, err := Mint(sid, secret)
		require.NoError(t, err)
		assert.True(t, Verify(sid, tok, secret), "sid %q", sid)
	}
}

func TestVerify_WrongSession(t *testing.T) {
	tok, err := Mint("u1:aaa", secret)
	require.NoError(t, err)
	assert.False(t, Verify("u1:aab", tok, secret))
}

func TestVerify_WrongSecret(t *testing.T) {
	tok, err := Mint("u1:aaa", secret)
	require.NoError(t, err)
	assert.False(t, Verify("u1:aaa", tok, []byte("another-secret")))
}

func TestVerify_AnySingleCharacterMutationFails(t *testing.T) {
	tok, err := Mint("u1:aaa", secret)
	require.NoError(t, err)
	for i := range tok {
		if tok[i] == '.' {
			continue
		}
		b := []byte(tok)
		if b[i] == '0' {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
		assert.False(t, Verify("u1:aaa", string(b), secret), "mutation at %d accepted", i)
	}
}

func TestVerify_Malformed(t *testing.T) {
	cases := []string{"", ".", "abc", "abc.", ".nonce", "nodot"}
	for _, c := range cases {
		assert.False(t, Verify("u1:aaa", c, secret), "token %q", c)
	}
}
