package places

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/money-manager/money-manager/internal/ownership"
	"github.com/money-manager/money-manager/internal/platform/db"
	"github.com/money-manager/money-manager/internal/shared"
)

// Repository defines persistence operations for places.
type Repository interface {
	Get(ctx context.Context, id int64) (Place, error)
	ListVisible(ctx context.Context, userID int64) ([]Place, error)
	Create(ctx context.Context, userID int64, in Input) (Place, error)
	Update(ctx context.Context, id int64, in Input) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db db.Querier
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(q db.Querier) *PGRepository {
	return &PGRepository{db: q}
}

// Ownership returns the nullable-owner strategy guarding places.
func Ownership(q db.Querier) ownership.Strategy {
	return ownership.NullableOwner(
		ownership.OwnerColumn{DB: q, Table: "place", Column: "id_user"},
		ownership.SharedPolicy{Readable: true},
	)
}

const placeColumns = `id, name, address, country, email, website, phone, note, id_user`

func scanPlace(row pgx.Row) (Place, error) {
	var p Place
	err := row.Scan(&p.ID, &p.Name, &p.Address, &p.Country, &p.Email, &p.Website, &p.Phone, &p.Note, &p.UserID)
	return p, err
}

// Get fetches a place by id.
func (r *PGRepository) Get(ctx context.Context, id int64) (Place, error) {
	p, err := scanPlace(r.db.QueryRow(ctx, `SELECT `+placeColumns+` FROM place WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Place{}, shared.ErrNotFound
		}
		return Place{}, fmt.Errorf("places: get: %w", err)
	}
	return p, nil
}

// ListVisible returns places owned by userID followed by shared ones.
func (r *PGRepository) ListVisible(ctx context.Context, userID int64) ([]Place, error) {
	rows, err := r.db.Query(ctx, `SELECT `+placeColumns+` FROM place
		WHERE id_user = $1 OR id_user IS NULL ORDER BY id_user NULLS LAST, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("places: list: %w", err)
	}
	defer rows.Close()

	var out []Place
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("places: scan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Create inserts a place owned by userID.
func (r *PGRepository) Create(ctx context.Context, userID int64, in Input) (Place, error) {
	p, err := scanPlace(r.db.QueryRow(ctx, `INSERT INTO place
		(name, address, country, email, website, phone, note, id_user)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING `+placeColumns,
		in.Name, in.Address, in.Country, in.Email, in.Website, in.Phone, in.Note, userID))
	if err != nil {
		return Place{}, fmt.Errorf("places: create: %w", err)
	}
	return p, nil
}

// Update overwrites the writable fields of place id.
func (r *PGRepository) Update(ctx context.Context, id int64, in Input) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE place SET name = $2, address = $3, country = $4, email = $5,
		website = $6, phone = $7, note = $8 WHERE id = $1`,
		id, in.Name, in.Address, in.Country, in.Email, in.Website, in.Phone, in.Note)
	if err != nil {
		return 0, fmt.Errorf("places: update: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Delete removes place id. Places still referenced by transactions are
// refused with shared.ErrConflict.
func (r *PGRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM place WHERE id = $1`, id)
	if err != nil {
		if shared.IsForeignKeyViolation(err) {
			return 0, fmt.Errorf("%w: place in use", shared.ErrConflict)
		}
		return 0, fmt.Errorf("places: delete: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ Repository = (*PGRepository)(nil)
