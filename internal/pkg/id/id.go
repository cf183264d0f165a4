package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string for user records. ULIDs sort by creation
// time and never contain the ':' session id separator.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
