package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hurby24/Bibliobay-backend/internal/domain"
	"github.com/hurby24/Bibliobay-backend/internal/metrics"
	"github.com/hurby24/Bibliobay-backend/internal/pkg/token"
)

// DefaultIDLength is the length of the random part of a session id.
const DefaultIDLength = 60

// Service is the authority on whether a session id is live and whom it belongs to.
type Service interface {
	Create(ctx context.Context, userID string, temporary bool) (*domain.Session, error)
	// Validate returns the session for id, extending unverified sessions close to expiry.
	// Absent or expired sessions yield an error wrapping domain.ErrNotFound.
	Validate(ctx context.Context, id string) (*domain.Session, error)
	// Revoke deletes the session. Revoking an unknown id is not an error.
	Revoke(ctx context.Context, id string) error
}

// store is a keyed session backend whose entries expire on their own after ttl.
// Get returns an error wrapping domain.ErrNotFound for absent ids.
type store interface {
	Put(ctx context.Context, s *domain.Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

type ServiceDeps struct {
	Store    store
	Clock    func() time.Time
	IDLength int
}

type service struct {
	store    store
	now      func() time.Time
	idLength int
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		store:    deps.Store,
		now:      deps.Clock,
		idLength: deps.IDLength,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.idLength < DefaultIDLength {
		s.idLength = DefaultIDLength
	}
	return s
}

func (s *service) Create(ctx context.Context, userID string, temporary bool) (*domain.Session, error) {
	suffix, err := token.String(s.idLength, token.Alphanumeric)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	sess, err := domain.NewSession(userID, suffix, temporary, now)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, sess, sess.Remaining(now)); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	metrics.SessionsCreated.WithLabelValues(metrics.SessionKind(temporary)).Inc()
	return sess, nil
}

func (s *service) Validate(ctx context.Context, id string) (*domain.Session, error) {
	if _, _, err := domain.ParseSessionID(id); err != nil {
		return nil, fmt.Errorf("session %w", domain.ErrNotFound)
	}
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	now := s.now().UTC()
	// The store TTL is only a backstop; the stored expiry decides.
	if !sess.Valid(now) {
		return nil, fmt.Errorf("session expired: %w", domain.ErrNotFound)
	}
	if sess.NeedsRenewal(now) {
		sess.ExpiresAt = now.Add(domain.FullSessionTTL)
		if err := s.store.Put(ctx, sess, domain.FullSessionTTL); err != nil {
			return nil, fmt.Errorf("renew session: %w", err)
		}
	}
	return sess, nil
}

func (s *service) Revoke(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
