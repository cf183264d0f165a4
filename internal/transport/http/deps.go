package http

import (
	"context"
	"time"

	"github.com/hurby24/Bibliobay-backend/internal/domain"
)

// UserRepository is the minimal interface the router requires from a user store.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByGoogleSub(ctx context.Context, sub string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

// SessionStore is a keyed session backend (Redis or DynamoDB).
type SessionStore interface {
	Put(ctx context.Context, s *domain.Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

// VerificationRepository holds the outstanding email code of each user.
type VerificationRepository interface {
	Put(ctx context.Context, o *domain.OTP) error
	Get(ctx context.Context, userID string) (*domain.OTP, error)
	Delete(ctx context.Context, userID string) error
	DecrementAttempts(ctx context.Context, userID string) error
}

type CaptchaVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) (bool, error)
}

type EmailSender interface {
	SendOTP(ctx context.Context, to string, msg domain.OTPMessage) error
}

// OAuthProvider runs the Google authorization-code flow.
type OAuthProvider interface {
	NewCodeVerifier() string
	AuthCodeURL(state, codeVerifier string) string
	Exchange(ctx context.Context, code, codeVerifier string) (*domain.ExternalIdentity, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, e domain.AuthEvent) error
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo         UserRepository
	SessionStore     SessionStore
	VerificationRepo VerificationRepository
	Captcha          CaptchaVerifier
	Email            EmailSender
	OAuth            OAuthProvider // nil leaves the Google routes unmounted
	Events           EventPublisher
}
