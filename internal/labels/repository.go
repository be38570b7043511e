package labels

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/money-manager/money-manager/internal/ownership"
	"github.com/money-manager/money-manager/internal/platform/db"
	"github.com/money-manager/money-manager/internal/shared"
)

// Repository defines persistence operations for one label kind.
type Repository interface {
	Get(ctx context.Context, id int64) (Label, error)
	ListVisible(ctx context.Context, userID int64) ([]Label, error)
	Create(ctx context.Context, userID int64, in Input) (Label, error)
	Update(ctx context.Context, id int64, in Input) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db    db.Querier
	kind  Kind
	table string
}

// NewRepository constructs a PostgreSQL repository for kind.
func NewRepository(q db.Querier, kind Kind) *PGRepository {
	return &PGRepository{db: q, kind: kind, table: pgx.Identifier{string(kind)}.Sanitize()}
}

// Ownership returns the nullable-owner strategy guarding kind. Shared rows
// are readable by everyone.
func Ownership(q db.Querier, kind Kind) ownership.Strategy {
	return ownership.NullableOwner(
		ownership.OwnerColumn{DB: q, Table: string(kind), Column: "id_user"},
		ownership.SharedPolicy{Readable: true},
	)
}

// Get fetches a label by id.
func (r *PGRepository) Get(ctx context.Context, id int64) (Label, error) {
	var l Label
	err := r.db.QueryRow(ctx, `SELECT id, description, id_user FROM `+r.table+` WHERE id = $1`, id).
		Scan(&l.ID, &l.Description, &l.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Label{}, shared.ErrNotFound
		}
		return Label{}, fmt.Errorf("labels: get %s: %w", r.kind, err)
	}
	return l, nil
}

// ListVisible returns the labels owned by userID followed by the shared ones.
func (r *PGRepository) ListVisible(ctx context.Context, userID int64) ([]Label, error) {
	rows, err := r.db.Query(ctx, `SELECT id, description, id_user FROM `+r.table+`
		WHERE id_user = $1 OR id_user IS NULL ORDER BY id_user NULLS LAST, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("labels: list %s: %w", r.kind, err)
	}
	defer rows.Close()

	var out []Label
	for rows.Next() {
		var l Label
		if err := rows.Scan(&l.ID, &l.Description, &l.UserID); err != nil {
			return nil, fmt.Errorf("labels: scan %s: %w", r.kind, err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Create inserts a label owned by userID.
func (r *PGRepository) Create(ctx context.Context, userID int64, in Input) (Label, error) {
	var l Label
	err := r.db.QueryRow(ctx, `INSERT INTO `+r.table+` (description, id_user) VALUES ($1, $2)
		RETURNING id, description, id_user`, in.Description, userID).
		Scan(&l.ID, &l.Description, &l.UserID)
	if err != nil {
		return Label{}, fmt.Errorf("labels: create %s: %w", r.kind, err)
	}
	return l, nil
}

// Update overwrites the description of label id.
func (r *PGRepository) Update(ctx context.Context, id int64, in Input) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE `+r.table+` SET description = $2 WHERE id = $1`, id, in.Description)
	if err != nil {
		return 0, fmt.Errorf("labels: update %s: %w", r.kind, err)
	}
	return tag.RowsAffected(), nil
}

// Delete removes label id. Labels still referenced by transactions are
// refused with shared.ErrConflict.
func (r *PGRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM `+r.table+` WHERE id = $1`, id)
	if err != nil {
		if shared.IsForeignKeyViolation(err) {
			return 0, fmt.Errorf("%w: %s in use", shared.ErrConflict, r.kind)
		}
		return 0, fmt.Errorf("labels: delete %s: %w", r.kind, err)
	}
	return tag.RowsAffected(), nil
}

var _ Repository = (*PGRepository)(nil)
