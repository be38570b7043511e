package giros

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/money-manager/money-manager/internal/ownership"
	"github.com/money-manager/money-manager/internal/platform/db"
	"github.com/money-manager/money-manager/internal/shared"
)

// Repository defines persistence operations for giros.
type Repository interface {
	Get(ctx context.Context, id int64) (Giro, error)
	ListByAccount(ctx context.Context, side Side, accountID, userID int64) ([]Giro, error)
	Create(ctx context.Context, in Input) (Giro, error)
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

// Ownership returns one strategy per giro side, each authorizing through
// the account on that side.
func Ownership(q db.Querier, accounts ownership.Strategy) (source, destination ownership.Strategy) {
	source = ownership.Through(ownership.ParentColumn{DB: q, Table: "giro", Column: string(Source)}, accounts)
	destination = ownership.Through(ownership.ParentColumn{DB: q, Table: "giro", Column: string(Destination)}, accounts)
	return source, destination
}

const giroColumns = `id, id_source_account, id_destination_account, data, note, amount, expense, id_currency`

func scanGiro(row pgx.Row) (Giro, error) {
	var g Giro
	err := row.Scan(&g.ID, &g.SourceAccountID, &g.DestinationAccountID, &g.Data, &g.Note, &g.Amount, &g.Expense, &g.CurrencyID)
	return g, err
}

// Get fetches a giro by id.
func (r *PGRepository) Get(ctx context.Context, id int64) (Giro, error) {
	g, err := scanGiro(r.db.QueryRow(ctx, `SELECT `+giroColumns+` FROM giro WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Giro{}, shared.ErrNotFound
		}
		return Giro{}, fmt.Errorf("giros: get: %w", err)
	}
	return g, nil
}

// ListByAccount returns giros whose side account is accountID and whose
// other account is also linked to userID.
func (r *PGRepository) ListByAccount(ctx context.Context, side Side, accountID, userID int64) ([]Giro, error) {
	other := Destination
	switch side {
	case Source:
	case Destination:
		other = Source
	default:
		return nil, fmt.Errorf("giros: unknown side %q", string(side))
	}
	query := `SELECT ` + giroColumns + ` FROM giro WHERE ` + string(side) + ` = $1
		AND ` + string(other) + ` IN (SELECT id_account FROM account_user WHERE id_user = $2)
		ORDER BY data DESC, id DESC`
	rows, err := r.db.Query(ctx, query, accountID, userID)
	if err != nil {
		return nil, fmt.Errorf("giros: list: %w", err)
	}
	defer rows.Close()

	var out []Giro
	for rows.Next() {
		g, err := scanGiro(rows)
		if err != nil {
			return nil, fmt.Errorf("giros: scan: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Create inserts a giro.
func (r *PGRepository) Create(ctx context.Context, in Input) (Giro, error) {
	g, err := scanGiro(r.db.QueryRow(ctx, `INSERT INTO giro
		(id_source_account, id_destination_account, data, note, amount, expense, id_currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING `+giroColumns,
		in.SourceAccountID, in.DestinationAccountID, in.Data, in.Note, in.Amount, in.Expense, in.CurrencyID))
	if err != nil {
		if shared.IsForeignKeyViolation(err) {
			return Giro{}, fmt.Errorf("%w: unknown currency", shared.ErrValidation)
		}
		return Giro{}, fmt.Errorf("giros: create: %w", err)
	}
	return g, nil
}

// Update overwrites giro id.
func (r *PGRepository) Update(ctx context.Context, id int64, in Input) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE giro SET id_source_account = $2, id_destination_account = $3, data = $4,
		note = $5, amount = $6, expense = $7, id_currency = $8 WHERE id = $1`,
		id, in.SourceAccountID, in.DestinationAccountID, in.Data, in.Note, in.Amount, in.Expense, in.CurrencyID)
	if err != nil {
		if shared.IsForeignKeyViolation(err) {
			return 0, fmt.Errorf("%w: unknown currency", shared.ErrValidation)
		}
		return 0, fmt.Errorf("giros: update: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Delete removes giro id.
func (r *PGRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM giro WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("giros: delete: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ Repository = (*PGRepository)(nil)
