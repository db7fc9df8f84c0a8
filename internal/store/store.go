package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound means no record exists for the given key.
	ErrNotFound = errors.New("store: user not found")

	// ErrEmailTaken means a record already exists for the email.
	ErrEmailTaken = errors.New("store: email already registered")

	// ErrUnavailable wraps unexpected persistence failures, including
	// per-call timeouts.
	ErrUnavailable = errors.New("store: unavailable")
)

// User is the durable identity record. Credential holds either a bcrypt
// digest or the federated sentinel; Secret is the user-owned payload and
// is empty until first submitted.
type User struct {
	ID         uuid.UUID
	Email      string
	Credential string
	Secret     string
}

// Store is the persistence contract for identity records. Emails are
// matched case-insensitively; implementations must guarantee at most one
// record per email even under concurrent creates.
type Store interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// CreateLocal inserts a new record with a password hash. It fails
	// with ErrEmailTaken when a record already exists, atomically.
	CreateLocal(ctx context.Context, email, credential string) (*User, error)

	// FindOrCreateFederated returns the record for email, inserting one
	// with the given sentinel credential if absent. The lookup and the
	// insert are a single atomic operation.
	FindOrCreateFederated(ctx context.Context, email, credential string) (*User, error)

	UpdateSecret(ctx context.Context, id uuid.UUID, secret string) error
}
