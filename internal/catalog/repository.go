package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/money-manager/money-manager/internal/platform/db"
	"github.com/money-manager/money-manager/internal/shared"
)

// Repository defines reference data reads.
type Repository interface {
	Currencies(ctx context.Context) ([]Currency, error)
	Currency(ctx context.Context, id int64) (Currency, error)
	Types(ctx context.Context, kind Kind) ([]Type, error)
	Type(ctx context.Context, kind Kind, id int64) (Type, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db db.Querier
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(q db.Querier) *PGRepository {
	return &PGRepository{db: q}
}

func scanCurrency(row pgx.Row) (Currency, error) {
	var c Currency
	err := row.Scan(&c.ID, &c.Name, &c.Code, &c.Number)
	c.Code = strings.TrimSpace(c.Code)
	return c, err
}

// Currencies lists every currency ordered by id.
func (r *PGRepository) Currencies(ctx context.Context) ([]Currency, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, code, number FROM currency ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("catalog: currencies: %w", err)
	}
	defer rows.Close()

	var out []Currency
	for rows.Next() {
		c, err := scanCurrency(rows)
		if err != nil {
			return nil, fmt.Errorf("catalog: scan currency: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Currency fetches one currency.
func (r *PGRepository) Currency(ctx context.Context, id int64) (Currency, error) {
	c, err := scanCurrency(r.db.QueryRow(ctx, `SELECT id, name, code, number FROM currency WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Currency{}, shared.ErrNotFound
		}
		return Currency{}, fmt.Errorf("catalog: currency: %w", err)
	}
	return c, nil
}

// Types lists every row of the kind's table ordered by id.
func (r *PGRepository) Types(ctx context.Context, kind Kind) ([]Type, error) {
	table, err := kind.table()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT id, "type" FROM `+table+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", kind, err)
	}
	defer rows.Close()

	var out []Type
	for rows.Next() {
		var t Type
		if err := rows.Scan(&t.ID, &t.Type); err != nil {
			return nil, fmt.Errorf("catalog: scan %s: %w", kind, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Type fetches one row of the kind's table.
func (r *PGRepository) Type(ctx context.Context, kind Kind, id int64) (Type, error) {
	table, err := kind.table()
	if err != nil {
		return Type{}, err
	}
	var t Type
	if err := r.db.QueryRow(ctx, `SELECT id, "type" FROM `+table+` WHERE id = $1`, id).Scan(&t.ID, &t.Type); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Type{}, shared.ErrNotFound
		}
		return Type{}, fmt.Errorf("catalog: %s: %w", kind, err)
	}
	return t, nil
}

func (k Kind) table() (string, error) {
	switch k {
	case AccountTypes, TransactionTypes:
		return pgx.Identifier{string(k)}.Sanitize(), nil
	}
	return "", fmt.Errorf("catalog: unknown kind %q", string(k))
}

var _ Repository = (*PGRepository)(nil)
