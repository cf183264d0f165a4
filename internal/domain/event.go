package domain

import "time"

// Auth event types published after a flow completes.
const (
	EventSignedUp   = "user.signed_up"
	EventLoggedIn   = "user.logged_in"
	EventVerified   = "user.verified"
	EventLoggedOut  = "user.logged_out"
	EventOAuthLogin = "user.oauth_login"
)

type AuthEvent struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
