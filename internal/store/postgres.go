package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/israelb-ITVarsity/Secrets-App/internal/db"
)

// Every store call gets a bounded deadline so a stuck database cannot
// hold requests open indefinitely.
const callTimeout = 3 * time.Second

const pqUniqueViolation = "23505"

// Postgres implements Store on the users table.
type Postgres struct {
	db *db.DB
}

func NewPostgres(db *db.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, callTimeout)
}

func (p *Postgres) FindByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := p.withDeadline(ctx)
	defer cancel()

	var u User
	err := p.db.QueryRowContext(ctx, `
		SELECT id, email, credential, secret
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`, email).Scan(&u.ID, &u.Email, &u.Credential, &u.Secret)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable(err)
	}

	return &u, nil
}

func (p *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	ctx, cancel := p.withDeadline(ctx)
	defer cancel()

	var u User
	err := p.db.QueryRowContext(ctx, `
		SELECT id, email, credential, secret
		FROM users
		WHERE id = $1
	`, id).Scan(&u.ID, &u.Email, &u.Credential, &u.Secret)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable(err)
	}

	return &u, nil
}

func (p *Postgres) CreateLocal(ctx context.Context, email, credential string) (*User, error) {
	ctx, cancel := p.withDeadline(ctx)
	defer cancel()

	var u User
	err := p.db.QueryRowContext(ctx, `
		INSERT INTO users (email, credential)
		VALUES ($1, $2)
		ON CONFLICT (LOWER(email)) DO NOTHING
		RETURNING id, email, credential, secret
	`, email, credential).Scan(&u.ID, &u.Email, &u.Credential, &u.Secret)

	// DO NOTHING on conflict means no row comes back for a duplicate.
	if err == sql.ErrNoRows {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, mapInsertErr(err)
	}

	return &u, nil
}

func (p *Postgres) FindOrCreateFederated(ctx context.Context, email, credential string) (*User, error) {
	ctx, cancel := p.withDeadline(ctx)
	defer cancel()

	// The no-op DO UPDATE makes RETURNING yield the existing row on
	// conflict, so both branches come back from one statement.
	var u User
	err := p.db.QueryRowContext(ctx, `
		INSERT INTO users (email, credential)
		VALUES ($1, $2)
		ON CONFLICT (LOWER(email)) DO UPDATE SET email = users.email
		RETURNING id, email, credential, secret
	`, email, credential).Scan(&u.ID, &u.Email, &u.Credential, &u.Secret)

	if err != nil {
		return nil, mapInsertErr(err)
	}

	return &u, nil
}

func (p *Postgres) UpdateSecret(ctx context.Context, id uuid.UUID, secret string) error {
	ctx, cancel := p.withDeadline(ctx)
	defer cancel()

	res, err := p.db.ExecContext(ctx, `
		UPDATE users
		SET secret = $2, updated_at = NOW()
		WHERE id = $1
	`, id, secret)
	if err != nil {
		return unavailable(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return unavailable(err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}

func mapInsertErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return ErrEmailTaken
	}
	return unavailable(err)
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
