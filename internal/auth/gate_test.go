package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"reservas/internal/events"
	"reservas/internal/logging"
	"reservas/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGate(t *testing.T) (*Gate, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	gate := NewGate(store, storage.NewMemorySessionStore(), nil, 8, time.Hour, logging.Nop())
	return gate, store
}

func TestLoginWithoutCredential(t *testing.T) {
	gate, _ := newTestGate(t)

	_, err := gate.Login(context.Background(), "whatever-123")
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestSetCredentialMinimumLength(t *testing.T) {
	gate, _ := newTestGate(t)
	ctx := context.Background()

	err := gate.SetCredential(ctx, "short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
	configured, err := gate.HasCredential(ctx)
	require.NoError(t, err)
	assert.False(t, configured)
}

func TestLoginLifecycle(t *testing.T) {
	gate, _ := newTestGate(t)
	ctx := context.Background()

	require.NoError(t, gate.SetCredential(ctx, "cocina-secreta"))
	configured, err := gate.HasCredential(ctx)
	require.NoError(t, err)
	require.True(t, configured)

	token, err := gate.Login(ctx, "cocina-secreta")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.True(t, gate.IsLoggedIn(ctx, token))

	require.NoError(t, gate.Logout(ctx, token))
	assert.False(t, gate.IsLoggedIn(ctx, token))
}

func TestLoginWrongPassphrase(t *testing.T) {
	gate, store := newTestGate(t)
	ctx := context.Background()

	require.NoError(t, gate.SetCredential(ctx, "cocina-secreta"))
	before, err := store.Get(ctx, storage.KeyCredentialHash)
	require.NoError(t, err)

	_, err = gate.Login(ctx, "cocina-publica")
	assert.ErrorIs(t, err, ErrInvalidCredential)

	// A failed attempt never mutates the stored hash.
	after, err := store.Get(ctx, storage.KeyCredentialHash)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSetCredentialOverwrites(t *testing.T) {
	gate, _ := newTestGate(t)
	ctx := context.Background()

	require.NoError(t, gate.SetCredential(ctx, "primera-clave"))
	require.NoError(t, gate.SetCredential(ctx, "segunda-clave"))

	_, err := gate.Login(ctx, "primera-clave")
	assert.ErrorIs(t, err, ErrInvalidCredential)

	token, err := gate.Login(ctx, "segunda-clave")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestIsLoggedInEmptyToken(t *testing.T) {
	gate, _ := newTestGate(t)
	assert.False(t, gate.IsLoggedIn(context.Background(), ""))
}

func TestSessionExpiry(t *testing.T) {
	store := storage.NewMemoryStore()
	gate := NewGate(store, storage.NewMemorySessionStore(), nil, 8, 10*time.Millisecond, logging.Nop())
	ctx := context.Background()

	require.NoError(t, gate.SetCredential(ctx, "cocina-secreta"))
	token, err := gate.Login(ctx, "cocina-secreta")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	assert.False(t, gate.IsLoggedIn(ctx, token))
}

func TestHashIsStableHexDigest(t *testing.T) {
	// Known SHA-256 vector so stored hashes survive refactors.
	assert.Equal(t,
		"2c26b46b68ffc68ff99b453c1d30413413422d706483bfa0f98a5e886266e7ae",
		hashCredential("foo"),
	)
}

type faultyKV struct{}

func (faultyKV) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("disk read failed")
}

func (faultyKV) Put(ctx context.Context, key string, value []byte) error {
	return errors.New("disk write failed")
}

func (faultyKV) Delete(ctx context.Context, key string) error {
	return errors.New("disk write failed")
}

func (faultyKV) Close() error {
	return nil
}

func TestHasCredentialStorageFault(t *testing.T) {
	gate := NewGate(faultyKV{}, storage.NewMemorySessionStore(), nil, 8, time.Hour, logging.Nop())

	configured, err := gate.HasCredential(context.Background())
	require.Error(t, err)
	assert.False(t, configured)
}

func TestSetCredentialPublishesEvent(t *testing.T) {
	store := storage.NewMemoryStore()
	bus := events.NewBus()
	gate := NewGate(store, storage.NewMemorySessionStore(), bus, 8, time.Hour, logging.Nop())

	var published int
	bus.Subscribe(events.EventCredentialConfigured, func(event *events.Event) error {
		published++
		return nil
	})

	require.NoError(t, gate.SetCredential(context.Background(), "cocina-secreta"))
	assert.Equal(t, 1, published)
}
