package otp

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hurby24/Bibliobay-backend/internal/domain"
	"github.com/hurby24/Bibliobay-backend/internal/metrics"
	"github.com/hurby24/Bibliobay-backend/internal/pkg/token"
)

// Service issues and checks the single outstanding email code of a user.
type Service interface {
	// Issue replaces any outstanding code for u with a fresh one. The returned record
	// carries the code so the caller can deliver it; it must never reach a response body.
	Issue(ctx context.Context, u *domain.User) (*domain.OTP, error)
	// Verify checks code for userID. Wrong or expired codes wrap domain.ErrInvalidCredential;
	// an exhausted guess budget wraps domain.ErrAttemptsExceeded. On success the user's
	// email is stamped as confirmed.
	Verify(ctx context.Context, userID, code string) error
}

type verificationStore interface {
	Put(ctx context.Context, o *domain.OTP) error
	Get(ctx context.Context, userID string) (*domain.OTP, error)
	Delete(ctx context.Context, userID string) error
	DecrementAttempts(ctx context.Context, userID string) error
}

type userUpdater interface {
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type ServiceDeps struct {
	VerificationRepo verificationStore
	UserRepo         userUpdater
	Clock            func() time.Time
}

type service struct {
	verificationRepo verificationStore
	userRepo         userUpdater
	now              func() time.Time
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		verificationRepo: deps.VerificationRepo,
		userRepo:         deps.UserRepo,
		now:              deps.Clock,
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) Issue(ctx context.Context, u *domain.User) (*domain.OTP, error) {
	if err := s.verificationRepo.Delete(ctx, u.UserID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("clear previous code: %w", err)
	}
	code, err := token.Numeric(domain.OTPLength)
	if err != nil {
		return nil, err
	}
	o := &domain.OTP{
		UserID:            u.UserID,
		Code:              code,
		Email:             u.Email,
		ExpiresAt:         s.now().UTC().Add(domain.OTPTTL),
		AttemptsRemaining: domain.OTPMaxAttempts,
	}
	if err := s.verificationRepo.Put(ctx, o); err != nil {
		return nil, fmt.Errorf("store code: %w", err)
	}
	return o, nil
}

func (s *service) Verify(ctx context.Context, userID, code string) error {
	o, err := s.verificationRepo.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		metrics.OTPVerifications.WithLabelValues("invalid").Inc()
		return fmt.Errorf("no outstanding code: %w", domain.ErrInvalidCredential)
	}
	if err != nil {
		return fmt.Errorf("read code: %w", err)
	}
	if o.AttemptsRemaining <= 0 {
		metrics.OTPVerifications.WithLabelValues("attempts_exceeded").Inc()
		return fmt.Errorf("too many attempts: %w", domain.ErrAttemptsExceeded)
	}

	now := s.now().UTC()
	if o.Expired(now) || subtle.ConstantTimeCompare([]byte(o.Code), []byte(code)) != 1 {
		if err := s.verificationRepo.DecrementAttempts(ctx, userID); err != nil &&
			!errors.Is(err, domain.ErrAttemptsExceeded) && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("record failed attempt: %w", err)
		}
		metrics.OTPVerifications.WithLabelValues("invalid").Inc()
		return fmt.Errorf("invalid code: %w", domain.ErrInvalidCredential)
	}

	if err := s.userRepo.Update(ctx, userID, map[string]interface{}{"email_confirmed_at": now}); err != nil {
		return fmt.Errorf("confirm email: %w", err)
	}
	if err := s.verificationRepo.Delete(ctx, userID); err != nil {
		slog.Warn("failed to delete verified OTP record", "user_id", userID, "err", err)
	}
	metrics.OTPVerifications.WithLabelValues("success").Inc()
	return nil
}
