// Package memory keeps sessions in process. It suits development and single-instance
// deployments; sessions do not survive a restart.
package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/hurby24/Bibliobay-backend/internal/domain"
	gocache "github.com/patrickmn/go-cache"
)

type SessionStore struct{ c *gocache.Cache }

// NewSessionStore returns a store whose expired entries are swept every cleanup interval.
func NewSessionStore(cleanup time.Duration) *SessionStore {
	return &SessionStore{c: gocache.New(gocache.NoExpiration, cleanup)}
}

func (s *SessionStore) Put(_ context.Context, sess *domain.Session, ttl time.Duration) error {
	if ttl <= 0 {
		s.c.Delete(sess.SessionID)
		return nil
	}
	s.c.Set(sess.SessionID, *sess, ttl)
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	v, ok := s.c.Get(id)
	if !ok {
		return nil, fmt.Errorf("session %w", domain.ErrNotFound)
	}
	sess := v.(domain.Session)
	return &sess, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.c.Delete(id)
	return nil
}
