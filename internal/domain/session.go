package domain

import (
	"fmt"
	"strings"
	"time"
)

// SessionIDSeparator joins the owning user id and the random suffix of a session id.
// Neither part may contain it.
const SessionIDSeparator = ":"

const (
	TemporarySessionTTL = time.Hour
	FullSessionTTL      = 10 * 24 * time.Hour
	// SessionRenewWindow is how close to expiry an unverified session must be before a read extends it.
	SessionRenewWindow = 5 * 24 * time.Hour
)

// Session is a server-side record asserting that a user identity is active until ExpiresAt.
// ExpiresAt is also the DynamoDB TTL attribute when sessions live in DynamoDB.
type Session struct {
	SessionID     string    `json:"id" dynamodbav:"session_id"`
	UserID        string    `json:"user_id" dynamodbav:"user_id"`
	EmailVerified bool      `json:"email_verified" dynamodbav:"email_verified"`
	ExpiresAt     time.Time `json:"expires_at" dynamodbav:"expires_at,unixtime"`
}

// NewSession builds a session for userID. Temporary sessions are unverified and live for
// TemporarySessionTTL; full sessions are verified and live for FullSessionTTL.
func NewSession(userID, suffix string, temporary bool, now time.Time) (*Session, error) {
	if userID == "" || strings.Contains(userID, SessionIDSeparator) {
		return nil, fmt.Errorf("invalid session user id %q: %w", userID, ErrBadRequest)
	}
	if suffix == "" || strings.Contains(suffix, SessionIDSeparator) {
		return nil, fmt.Errorf("invalid session suffix: %w", ErrBadRequest)
	}
	s := &Session{
		SessionID:     userID + SessionIDSeparator + suffix,
		UserID:        userID,
		EmailVerified: true,
		ExpiresAt:     now.Add(FullSessionTTL),
	}
	if temporary {
		s.EmailVerified = false
		s.ExpiresAt = now.Add(TemporarySessionTTL)
	}
	return s, nil
}

// ParseSessionID splits a session id into its user id and random suffix.
func ParseSessionID(id string) (userID, suffix string, err error) {
	userID, suffix, ok := strings.Cut(id, SessionIDSeparator)
	if !ok || userID == "" || suffix == "" || strings.Contains(suffix, SessionIDSeparator) {
		return "", "", fmt.Errorf("malformed session id: %w", ErrUnauthorized)
	}
	return userID, suffix, nil
}

// Valid reports whether the session is still live at now. Expiry is strict.
func (s *Session) Valid(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}

// Remaining is the lifetime left at now, never negative.
func (s *Session) Remaining(now time.Time) time.Duration {
	if d := s.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// NeedsRenewal reports whether a read at now should slide the expiry forward.
// Only unverified sessions slide.
func (s *Session) NeedsRenewal(now time.Time) bool {
	return !s.EmailVerified && now.Add(SessionRenewWindow).After(s.ExpiresAt)
}
