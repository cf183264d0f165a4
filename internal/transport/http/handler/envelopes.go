package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/hurby24/Bibliobay-backend/internal/domain"
)

// MessageEnvelope is the generic response wrapper, also used for every error.
type MessageEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SessionView is the public part of a session. The id never leaves the cookie.
type SessionView struct {
	EmailVerified bool   `json:"email_verified"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// SessionEnvelope wraps current-session responses.
type SessionEnvelope struct {
	Session *SessionView `json:"session"`
	User    *domain.User `json:"user"`
}

func toSessionView(s *domain.Session) *SessionView {
	if s == nil {
		return nil
	}
	return &SessionView{
		EmailVerified: s.EmailVerified,
		ExpiresAt:     s.ExpiresAt.UTC(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Code: status, Message: msg})
}
