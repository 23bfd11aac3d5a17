// Package auth implements the dashboard credential gate. It is a UI
// convenience for a single-operator deployment, not a security boundary:
// anyone with access to the store can read or replace the hash.
package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"reservas/internal/events"
	"reservas/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrNoCredential means no pass-phrase has ever been set; the operator
	// must run the set-password command first.
	ErrNoCredential = errors.New("no admin credential configured")
	// ErrInvalidCredential is the generic mismatch error; it never reveals
	// more than "incorrect".
	ErrInvalidCredential = errors.New("incorrect credential")
	// ErrPasswordTooShort rejects pass-phrases below the minimum length.
	ErrPasswordTooShort = errors.New("credential below minimum length")
)

type Gate struct {
	store      storage.KV
	sessions   storage.SessionStore
	bus        *events.Bus
	minLength  int
	sessionTTL time.Duration
	logger     *zerolog.Logger
}

func NewGate(store storage.KV, sessions storage.SessionStore, bus *events.Bus, minLength int, sessionTTL time.Duration, logger *zerolog.Logger) *Gate {
	if minLength <= 0 {
		minLength = 8
	}
	if sessionTTL <= 0 {
		sessionTTL = 12 * time.Hour
	}
	return &Gate{
		store:      store,
		sessions:   sessions,
		bus:        bus,
		minLength:  minLength,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

func hashCredential(passphrase string) string {
	sum := sha256.Sum256([]byte(passphrase))
	return hex.EncodeToString(sum[:])
}

// SetCredential hashes the pass-phrase and persists only the digest,
// overwriting any previous credential.
func (g *Gate) SetCredential(ctx context.Context, passphrase string) error {
	if len(passphrase) < g.minLength {
		return fmt.Errorf("%w: need at least %d characters", ErrPasswordTooShort, g.minLength)
	}
	if err := g.store.Put(ctx, storage.KeyCredentialHash, []byte(hashCredential(passphrase))); err != nil {
		return fmt.Errorf("store credential hash: %w", err)
	}

	if err := g.bus.PublishJSON(events.EventCredentialConfigured, nil); err != nil {
		g.logger.Error().Err(err).Msg("publish credential event")
	}

	g.logger.Info().Msg("admin credential updated")
	return nil
}

// Login compares the entered pass-phrase against the stored hash and, on
// match, opens a session and returns its token. An unset credential is
// refused outright; there is no fallback pass-phrase.
func (g *Gate) Login(ctx context.Context, passphrase string) (string, error) {
	stored, err := g.store.Get(ctx, storage.KeyCredentialHash)
	if errors.Is(err, storage.ErrNotFound) {
		return "", ErrNoCredential
	}
	if err != nil {
		return "", fmt.Errorf("read credential hash: %w", err)
	}

	entered := hashCredential(passphrase)
	if subtle.ConstantTimeCompare([]byte(entered), stored) != 1 {
		g.logger.Warn().Msg("failed login attempt")
		return "", ErrInvalidCredential
	}

	token := uuid.NewString()
	if err := g.sessions.SetSession(ctx, token, g.sessionTTL); err != nil {
		return "", fmt.Errorf("open session: %w", err)
	}

	g.logger.Info().Msg("operator logged in")
	return token, nil
}

// IsLoggedIn reports whether the token names a live session.
func (g *Gate) IsLoggedIn(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	ok, err := g.sessions.HasSession(ctx, token)
	if err != nil {
		g.logger.Error().Err(err).Msg("session lookup failed")
		return false
	}
	return ok
}

// Logout closes the session. Unknown tokens are a no-op.
func (g *Gate) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return g.sessions.DeleteSession(ctx, token)
}

// HasCredential reports whether a credential has ever been set. Exposed so
// the dashboard can show setup instructions to a legitimate operator. A
// storage fault is returned as an error rather than read as "not set".
func (g *Gate) HasCredential(ctx context.Context) (bool, error) {
	_, err := g.store.Get(ctx, storage.KeyCredentialHash)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read credential hash: %w", err)
	}
	return true, nil
}
