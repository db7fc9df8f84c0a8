package session

import (
	"context"
	"time"
)

// Session is the principal carried between requests for one authenticated
// user. It holds identity pointers only, never auth state: handlers re-query
// the credential store by UserID for payload operations.
type Session struct {
	SessionID string    // unique session identifier
	UserID    string    // references users.id
	Email     string    // identity record email
	CreatedAt time.Time // when the session was established
	ExpiresAt time.Time // absolute expiry time
}

// Store defines how sessions are stored and retrieved.
// Implementations (e.g., Redis) must remain stateless and opaque.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}
