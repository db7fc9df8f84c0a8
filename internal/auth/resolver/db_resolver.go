package resolver

import (
	"context"
	"fmt"

	"github.com/israelb-ITVarsity/Secrets-App/internal/auth"
	"github.com/israelb-ITVarsity/Secrets-App/internal/auth/credentials"
	"github.com/israelb-ITVarsity/Secrets-App/internal/store"
)

// DBResolver resolves identities against the credential store by email.
// First federated login creates the record with the sentinel credential;
// every later login reuses it. No password check happens on this path.
type DBResolver struct {
	store store.Store
}

func NewDBResolver(s store.Store) *DBResolver {
	return &DBResolver{store: s}
}

func (r *DBResolver) Resolve(
	ctx context.Context,
	identity *auth.Identity,
) (*store.User, error) {

	if identity == nil || identity.Email == "" {
		return nil, fmt.Errorf("%w: identity missing email", ErrIdentityResolution)
	}

	// One atomic find-or-create; the row it returns is the single
	// result used from here on.
	user, err := r.store.FindOrCreateFederated(
		ctx,
		identity.Email,
		credentials.SentinelCredential,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIdentityResolution, err)
	}

	return user, nil
}
