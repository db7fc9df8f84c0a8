package resolver

import (
	"context"
	"errors"

	"github.com/israelb-ITVarsity/Secrets-App/internal/auth"
	"github.com/israelb-ITVarsity/Secrets-App/internal/store"
)

// ErrIdentityResolution wraps any failure while mapping a federated
// identity to an identity record. Callers must not establish a session
// when it is returned.
var ErrIdentityResolution = errors.New("identity resolution failed")

// Resolver determines which identity record an external identity
// belongs to. It is the ONLY place where identity-to-user mapping
// logic lives.
type Resolver interface {
	Resolve(
		ctx context.Context,
		identity *auth.Identity,
	) (*store.User, error)
}
