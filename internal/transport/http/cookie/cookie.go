// Package cookie reads and writes the auth cookies: the signed session id, the CSRF
// token and the short-lived OAuth state/PKCE pair.
package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/hurby24/Bibliobay-backend/internal/domain"
)

const (
	SessionName  = "SID"
	CSRFName     = "csrftoken"
	StateName    = "state"
	VerifierName = "codeVerifier"

	// CSRFHeader carries the CSRF token back from the client.
	CSRFHeader = "X-CSRF-Token"

	// The browser keeps a temporary session's cookie for a day even though the session
	// itself lives an hour; the server-side record decides.
	temporaryCookieTTL = 24 * time.Hour
	fullCookieTTL      = domain.FullSessionTTL
	oauthCookieTTL     = 10 * time.Minute
)

// Jar builds auth cookies with consistent attributes.
type Jar struct {
	secret []byte
	secure bool
	domain string
}

func NewJar(secret []byte, secure bool, domain string) *Jar {
	return &Jar{secret: secret, secure: secure, domain: domain}
}

// SetSession writes the signed session cookie.
func (j *Jar) SetSession(w http.ResponseWriter, sessionID string, temporary bool) {
	ttl := fullCookieTTL
	if temporary {
		ttl = temporaryCookieTTL
	}
	http.SetCookie(w, j.build(SessionName, j.sign(sessionID), ttl, true))
}

// SessionID returns the session id from a correctly signed session cookie, or "".
// Missing, unsigned and tampered cookies all read as absent.
func (j *Jar) SessionID(r *http.Request) string {
	c, err := r.Cookie(SessionName)
	if err != nil || c.Value == "" {
		return ""
	}
	i := strings.LastIndexByte(c.Value, '.')
	if i <= 0 || i == len(c.Value)-1 {
		return ""
	}
	id, sig := c.Value[:i], c.Value[i+1:]
	got, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil || !hmac.Equal(got, j.mac(id)) {
		return ""
	}
	return id
}

func (j *Jar) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, j.expired(SessionName, true))
}

// SetCSRF writes the CSRF token cookie. It is readable by page scripts so they can echo
// it in CSRFHeader.
func (j *Jar) SetCSRF(w http.ResponseWriter, token string) {
	c := j.build(CSRFName, token, 0, false)
	http.SetCookie(w, c)
}

func (j *Jar) ClearCSRF(w http.ResponseWriter) {
	http.SetCookie(w, j.expired(CSRFName, false))
}

// SetOAuth stores the OAuth state and PKCE verifier for the callback.
func (j *Jar) SetOAuth(w http.ResponseWriter, state, verifier string) {
	http.SetCookie(w, j.build(StateName, state, oauthCookieTTL, true))
	http.SetCookie(w, j.build(VerifierName, verifier, oauthCookieTTL, true))
}

// OAuth returns the stored state and PKCE verifier; ok is false if either is missing.
func (j *Jar) OAuth(r *http.Request) (state, verifier string, ok bool) {
	s, err := r.Cookie(StateName)
	if err != nil || s.Value == "" {
		return "", "", false
	}
	v, err := r.Cookie(VerifierName)
	if err != nil || v.Value == "" {
		return "", "", false
	}
	return s.Value, v.Value, true
}

func (j *Jar) ClearOAuth(w http.ResponseWriter) {
	http.SetCookie(w, j.expired(StateName, true))
	http.SetCookie(w, j.expired(VerifierName, true))
}

func (j *Jar) sign(value string) string {
	return value + "." + base64.RawURLEncoding.EncodeToString(j.mac(value))
}

func (j *Jar) mac(value string) []byte {
	m := hmac.New(sha256.New, j.secret)
	m.Write([]byte(value))
	return m.Sum(nil)
}

// build returns a cookie on "/" with SameSite=Lax. A zero ttl makes a session cookie.
func (j *Jar) build(name, value string, ttl time.Duration, httpOnly bool) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   j.domain,
		Secure:   j.secure,
		HttpOnly: httpOnly,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl > 0 {
		c.MaxAge = int(ttl.Seconds())
		c.Expires = time.Now().UTC().Add(ttl)
	}
	return c
}

func (j *Jar) expired(name string, httpOnly bool) *http.Cookie {
	c := j.build(name, "", 0, httpOnly)
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0).UTC()
	return c
}
