// Package username generates the default handle and avatar of a new account.
package username

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/url"

	"github.com/hurby24/Bibliobay-backend/internal/pkg/token"
)

// MaxLength is the longest handle Generate can return.
const MaxLength = 25

var verbs = []string{
	"read", "browse", "skim", "study", "borrow", "shelve", "annotate", "quote",
	"wander", "dream", "ponder", "gather", "collect", "explore", "discover", "savor",
	"devour", "cherish", "recite", "narrate", "listen", "imagine", "linger", "roam",
}

var nouns = []string{
	"novel", "chapter", "page", "library", "quill", "archive", "sonnet", "fable",
	"atlas", "story", "margin", "bookmark", "folio", "verse", "ledger", "saga",
	"poem", "manuscript", "scroll", "tale", "epilogue", "preface", "journal", "lantern",
}

// Generate returns a handle shaped like "devour-folio-04217".
func Generate() (string, error) {
	v, err := pick(verbs)
	if err != nil {
		return "", err
	}
	n, err := pick(nouns)
	if err != nil {
		return "", err
	}
	digits, err := token.Numeric(5)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s-%s-%s", v, n, digits)
	if len(name) > MaxLength {
		return "", fmt.Errorf("generated username %q exceeds %d characters", name, MaxLength)
	}
	return name, nil
}

// AvatarURL returns the generated placeholder avatar for name.
func AvatarURL(name string) string {
	q := url.Values{}
	q.Set("name", name)
	q.Set("size", "300")
	q.Set("bold", "true")
	q.Set("background", "random")
	return "https://ui-avatars.com/api/?" + q.Encode()
}

func pick(words []string) (string, error) {
	i, err := rand.Int(rand.Reader, big.NewInt(int64(len(words))))
	if err != nil {
		return "", err
	}
	return words[i.Int64()], nil
}
