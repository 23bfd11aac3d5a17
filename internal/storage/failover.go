package storage

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// FailoverSessionStore serves sessions from the primary store and falls back
// to the secondary when the primary errors. The primary is retried after a
// minute. Sessions written to the fallback are lost if the process restarts,
// which only logs the operator out.
type FailoverSessionStore struct {
	primary   SessionStore
	fallback  SessionStore
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

const failoverRecheck = time.Minute

func NewFailoverSessionStore(primary, fallback SessionStore, logger *zerolog.Logger) *FailoverSessionStore {
	return &FailoverSessionStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (s *FailoverSessionStore) markDown(err error) {
	s.logger.Error().Err(err).Msg("primary session store failed, falling back to memory")
	s.isDown.Store(true)
	s.lastCheck.Store(time.Now().UnixNano())
}

func (s *FailoverSessionStore) shouldRetryPrimary() bool {
	if !s.isDown.Load() {
		return true
	}
	last := time.Unix(0, s.lastCheck.Load())
	if time.Since(last) > failoverRecheck {
		s.lastCheck.Store(time.Now().UnixNano())
		return true
	}
	return false
}

func (s *FailoverSessionStore) SetSession(ctx context.Context, token string, ttl time.Duration) error {
	if s.shouldRetryPrimary() {
		if err := s.primary.SetSession(ctx, token, ttl); err == nil {
			s.isDown.Store(false)
			return nil
		} else {
			s.markDown(err)
		}
	}
	return s.fallback.SetSession(ctx, token, ttl)
}

func (s *FailoverSessionStore) HasSession(ctx context.Context, token string) (bool, error) {
	if s.shouldRetryPrimary() {
		if ok, err := s.primary.HasSession(ctx, token); err == nil {
			s.isDown.Store(false)
			return ok, nil
		} else {
			s.markDown(err)
		}
	}
	return s.fallback.HasSession(ctx, token)
}

func (s *FailoverSessionStore) DeleteSession(ctx context.Context, token string) error {
	if s.shouldRetryPrimary() {
		if err := s.primary.DeleteSession(ctx, token); err == nil {
			s.isDown.Store(false)
			// Clear the fallback copy too so a stale token cannot linger.
			_ = s.fallback.DeleteSession(ctx, token)
			return nil
		} else {
			s.markDown(err)
		}
	}
	return s.fallback.DeleteSession(ctx, token)
}
