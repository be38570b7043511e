package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/money-manager/money-manager/internal/platform/db"
	"github.com/money-manager/money-manager/internal/shared"
)

// Repository defines persistence operations for users.
type Repository interface {
	Create(ctx context.Context, in Input) (User, error)
	Get(ctx context.Context, id int64) (User, error)
	Update(ctx context.Context, id int64, in Input) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool db.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool db.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userColumns = `id, name, surname, phone, country, address, birthdate, note`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Surname, &u.Phone, &u.Country, &u.Address, &u.Birthdate, &u.Note)
	return u, err
}

// Create inserts a user and returns the stored row.
func (r *PGRepository) Create(ctx context.Context, in Input) (User, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO "user" (name, surname, phone, country, address, birthdate, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING `+userColumns,
		in.Name, in.Surname, in.Phone, in.Country, in.Address, in.Birthdate, in.Note)
	u, err := scanUser(row)
	if err != nil {
		return User{}, fmt.Errorf("users: create: %w", err)
	}
	return u, nil
}

// Get fetches a user by id.
func (r *PGRepository) Get(ctx context.Context, id int64) (User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM "user" WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.ErrNotFound
		}
		return User{}, fmt.Errorf("users: get: %w", err)
	}
	return u, nil
}

// Update overwrites the writable fields of user id.
func (r *PGRepository) Update(ctx context.Context, id int64, in Input) (int64, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE "user" SET name = $2, surname = $3, phone = $4, country = $5,
		address = $6, birthdate = $7, note = $8 WHERE id = $1`,
		id, in.Name, in.Surname, in.Phone, in.Country, in.Address, in.Birthdate, in.Note)
	if err != nil {
		return 0, fmt.Errorf("users: update: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Delete removes the user and its credential in one transaction. A user
// still linked to accounts or labels is refused with shared.ErrConflict.
func (r *PGRepository) Delete(ctx context.Context, id int64) (int64, error) {
	var rows int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM auth WHERE id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM "user" WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = tag.RowsAffected()
		return nil
	})
	if err != nil {
		if shared.IsForeignKeyViolation(err) {
			return 0, fmt.Errorf("%w: user still owns resources", shared.ErrConflict)
		}
		return 0, fmt.Errorf("users: delete: %w", err)
	}
	return rows, nil
}

var _ Repository = (*PGRepository)(nil)
