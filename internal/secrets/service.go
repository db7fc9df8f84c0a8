package secrets

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/israelb-ITVarsity/Secrets-App/internal/store"
)

// Shown to users who have not submitted a secret yet.
const defaultSecret = "Jesus Christ is my hero."

// Service reads and writes the per-user secret payload. Authorization has
// already happened at the gate; this layer only keys store calls by the
// principal's user ID.
type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

func (s *Service) Read(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}

	if user.Secret == "" {
		return defaultSecret, nil
	}

	return user.Secret, nil
}

func (s *Service) Write(ctx context.Context, userID uuid.UUID, secret string) error {
	if err := s.store.UpdateSecret(ctx, userID, secret); err != nil {
		return fmt.Errorf("write secret: %w", err)
	}
	return nil
}
