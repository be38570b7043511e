package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/money-manager/money-manager/internal/platform/db"
	"github.com/money-manager/money-manager/internal/shared"
)

// Store persists credentials keyed by user id.
type Store interface {
	Create(ctx context.Context, c Credential) error
	Get(ctx context.Context, userID int64) (Credential, error)
	FindByEmail(ctx context.Context, email string) (Credential, error)
	Update(ctx context.Context, userID int64, email string, s Secret) (int64, error)
	UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error
	Delete(ctx context.Context, userID int64) (int64, error)
}

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db db.Querier
}

// NewStore constructs a PostgreSQL credential store.
func NewStore(q db.Querier) *PGStore {
	return &PGStore{db: q}
}

const credentialColumns = `id, email, iteration, salt, stored_key, last_login`

func scanCredential(row pgx.Row) (Credential, error) {
	var c Credential
	err := row.Scan(&c.UserID, &c.Email, &c.Secret.Iterations, &c.Secret.Salt, &c.Secret.StoredKey, &c.LastLogin)
	return c, err
}

// Create inserts a credential. The unique email index is the authority for
// duplicate detection, so concurrent registrations surface as ErrEmailTaken.
func (s *PGStore) Create(ctx context.Context, c Credential) error {
	_, err := s.db.Exec(ctx, `INSERT INTO auth (`+credentialColumns+`) VALUES ($1, $2, $3, $4, $5, NULL)`,
		c.UserID, c.Email, c.Secret.Iterations, c.Secret.Salt, c.Secret.StoredKey)
	switch {
	case err == nil:
		return nil
	case shared.IsUniqueViolation(err):
		return fmt.Errorf("%w: %w", shared.ErrDuplicate, ErrEmailTaken)
	case shared.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %w", shared.ErrNotFound, ErrUserMissing)
	default:
		return fmt.Errorf("auth: create credential: %w", err)
	}
}

// Get fetches the credential of userID.
func (s *PGStore) Get(ctx context.Context, userID int64) (Credential, error) {
	return s.one(ctx, `SELECT `+credentialColumns+` FROM auth WHERE id = $1`, userID)
}

// FindByEmail fetches the credential bound to email.
func (s *PGStore) FindByEmail(ctx context.Context, email string) (Credential, error) {
	return s.one(ctx, `SELECT `+credentialColumns+` FROM auth WHERE email = $1`, email)
}

func (s *PGStore) one(ctx context.Context, query string, arg any) (Credential, error) {
	c, err := scanCredential(s.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Credential{}, shared.ErrNotFound
		}
		return Credential{}, fmt.Errorf("auth: read credential: %w", err)
	}
	return c, nil
}

// Update replaces email and secret material of userID.
func (s *PGStore) Update(ctx context.Context, userID int64, email string, secret Secret) (int64, error) {
	tag, err := s.db.Exec(ctx, `UPDATE auth SET email = $2, iteration = $3, salt = $4, stored_key = $5 WHERE id = $1`,
		userID, email, secret.Iterations, secret.Salt, secret.StoredKey)
	if err != nil {
		if shared.IsUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %w", shared.ErrDuplicate, ErrEmailTaken)
		}
		return 0, fmt.Errorf("auth: update credential: %w", err)
	}
	return tag.RowsAffected(), nil
}

// UpdateLastLogin stamps the last successful login. Concurrent logins race
// and the last writer wins.
func (s *PGStore) UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error {
	if _, err := s.db.Exec(ctx, `UPDATE auth SET last_login = $2 WHERE id = $1`, userID, at.UTC()); err != nil {
		return fmt.Errorf("auth: update last login: %w", err)
	}
	return nil
}

// Delete removes the credential of userID.
func (s *PGStore) Delete(ctx context.Context, userID int64) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM auth WHERE id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("auth: delete credential: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ Store = (*PGStore)(nil)
