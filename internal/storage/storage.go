package storage

import (
	"context"
	"errors"
	"time"
)

// Conceptual key names of the persisted entries. Values are JSON documents.
const (
	KeyReservations   = "reservations"
	KeyCredentialHash = "admin_credential_hash"
	KeyPOSCart        = "pos_cart"
	KeyMenuSelections = "menu_selections"
)

var (
	// ErrNotFound is returned by Get when no value is stored under the key.
	ErrNotFound = errors.New("storage: key not found")
)

// KV is the persistent key-value store behind the repositories. A missing key
// is ErrNotFound; everything else is a storage fault.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// SessionStore keeps the tab-scoped login flags. Sessions expire on their own
// after the TTL; they are never a security boundary.
type SessionStore interface {
	SetSession(ctx context.Context, token string, ttl time.Duration) error
	HasSession(ctx context.Context, token string) (bool, error)
	DeleteSession(ctx context.Context, token string) error
}
