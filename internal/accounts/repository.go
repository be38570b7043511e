package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/money-manager/money-manager/internal/ownership"
	"github.com/money-manager/money-manager/internal/platform/db"
	"github.com/money-manager/money-manager/internal/shared"
)

// Repository defines persistence operations for accounts.
type Repository interface {
	Get(ctx context.Context, id int64) (Account, error)
	ListByUser(ctx context.Context, userID int64) ([]Account, error)
	CreateOwned(ctx context.Context, userID int64, in Input) (Account, error)
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

// Ownership returns the join-table strategy guarding accounts.
func Ownership(q db.Querier) ownership.Strategy {
	return ownership.JoinTable(ownership.LinkTable{
		DB:             q,
		Resource:       "account",
		Link:           "account_user",
		ResourceColumn: "id_account",
		UserColumn:     "id_user",
	})
}

const accountColumns = `id, name, status, note, current_balance, initial_balance, creation_date, id_account_type, id_currency`

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.Name, &a.Status, &a.Note, &a.CurrentBalance, &a.InitialBalance,
		&a.CreationDate, &a.AccountTypeID, &a.CurrencyID)
	return a, err
}

// Get fetches an account by id.
func (r *PGRepository) Get(ctx context.Context, id int64) (Account, error) {
	a, err := scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM account WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, shared.ErrNotFound
		}
		return Account{}, fmt.Errorf("accounts: get: %w", err)
	}
	return a, nil
}

// ListByUser returns every account linked to userID.
func (r *PGRepository) ListByUser(ctx context.Context, userID int64) ([]Account, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+accountColumns+` FROM account
		WHERE id IN (SELECT id_account FROM account_user WHERE id_user = $1) ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("accounts: list: %w", err)
	}
	defer rows.Close()

	var out []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("accounts: scan: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CreateOwned inserts the account and its ownership record in one
// transaction. Either both rows exist afterwards or neither does.
func (r *PGRepository) CreateOwned(ctx context.Context, userID int64, in Input) (Account, error) {
	var created Account
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		a, err := scanAccount(tx.QueryRow(ctx, `INSERT INTO account
			(name, status, note, current_balance, initial_balance, creation_date, id_account_type, id_currency)
			VALUES ($1, $2, $3, $4, $5, now(), $6, $7) RETURNING `+accountColumns,
			in.Name, in.Status, in.Note, in.CurrentBalance, in.InitialBalance, in.AccountTypeID, in.CurrencyID))
		if err != nil {
			return fmt.Errorf("insert account: %w", err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO account_user (id_account, id_user) VALUES ($1, $2)`, a.ID, userID); err != nil {
			return fmt.Errorf("insert account_user: %w", err)
		}
		created = a
		return nil
	})
	if err != nil {
		if shared.IsForeignKeyViolation(err) {
			return Account{}, fmt.Errorf("%w: unknown account type or currency", shared.ErrValidation)
		}
		return Account{}, fmt.Errorf("accounts: create: %w", err)
	}
	return created, nil
}

// Update overwrites the writable fields of account id.
func (r *PGRepository) Update(ctx context.Context, id int64, in Input) (int64, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE account SET name = $2, status = $3, note = $4, current_balance = $5,
		initial_balance = $6, id_account_type = $7, id_currency = $8 WHERE id = $1`,
		id, in.Name, in.Status, in.Note, in.CurrentBalance, in.InitialBalance, in.AccountTypeID, in.CurrencyID)
	if err != nil {
		if shared.IsForeignKeyViolation(err) {
			return 0, fmt.Errorf("%w: unknown account type or currency", shared.ErrValidation)
		}
		return 0, fmt.Errorf("accounts: update: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Delete removes the ownership records and the account in one transaction.
// Accounts still holding transactions or giros are refused with shared.ErrConflict.
func (r *PGRepository) Delete(ctx context.Context, id int64) (int64, error) {
	var rows int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM account_user WHERE id_account = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM account WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = tag.RowsAffected()
		return nil
	})
	if err != nil {
		if shared.IsForeignKeyViolation(err) {
			return 0, fmt.Errorf("%w: account still has transactions", shared.ErrConflict)
		}
		return 0, fmt.Errorf("accounts: delete: %w", err)
	}
	return rows, nil
}

var _ Repository = (*PGRepository)(nil)
