package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/israelb-ITVarsity/Secrets-App/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyRegistered  = errors.New("account already exists")
)

type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// Authenticate verifies an email/password pair and returns the matching
// record. Unknown email and wrong password fail identically, so callers
// cannot probe which addresses are registered.
func (s *Service) Authenticate(
	ctx context.Context,
	email string,
	password string,
) (*store.User, error) {

	user, err := s.store.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if !VerifyPassword(user.Credential, password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Register hashes the password and inserts a new record. The insert is a
// single conditional statement, so concurrent registrations for the same
// email cannot both succeed.
func (s *Service) Register(
	ctx context.Context,
	email string,
	password string,
) (*store.User, error) {

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.store.CreateLocal(ctx, email, hash)
	if errors.Is(err, store.ErrEmailTaken) {
		return nil, ErrAlreadyRegistered
	}
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	return user, nil
}
