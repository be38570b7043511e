package transactions

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/money-manager/money-manager/internal/ownership"
	"github.com/money-manager/money-manager/internal/platform/db"
	"github.com/money-manager/money-manager/internal/shared"
)

// Repository defines persistence operations for transactions and their details.
type Repository interface {
	Get(ctx context.Context, id int64) (Transaction, error)
	ListByAccount(ctx context.Context, accountID int64) ([]Transaction, error)
	Create(ctx context.Context, in Input) (Transaction, error)
	Update(ctx context.Context, id int64, in Input) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)

	AddDetail(ctx context.Context, d Detail) error
	DetailsByTransaction(ctx context.Context, transactionID int64) ([]Detail, error)
	DetailsByDetail(ctx context.Context, detailID, userID int64) ([]Detail, error)
	UpdateDetail(ctx context.Context, d Detail) (int64, error)
	DeleteDetail(ctx context.Context, transactionID, detailID int64) (int64, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool db.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool db.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Ownership authorizes a transaction through the account it is recorded on.
func Ownership(q db.Querier, accounts ownership.Strategy) ownership.Strategy {
	return ownership.Through(ownership.ParentColumn{DB: q, Table: "transaction", Column: "id_account"}, accounts)
}

const transactionColumns = `id, id_account, id_transaction_type, id_place, id_beneficiary, note, amount, data, id_currency, expense, id_causal`

func scanTransaction(row pgx.Row) (Transaction, error) {
	var t Transaction
	err := row.Scan(&t.ID, &t.AccountID, &t.TypeID, &t.PlaceID, &t.BeneficiaryID, &t.Note,
		&t.Amount, &t.Data, &t.CurrencyID, &t.Expense, &t.CausalID)
	return t, err
}

func collectTransactions(rows pgx.Rows) ([]Transaction, error) {
	defer rows.Close()
	var out []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("transactions: scan: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func referenceError(err error) error {
	if shared.IsForeignKeyViolation(err) {
		return fmt.Errorf("%w: unknown type, currency, place or causal", shared.ErrValidation)
	}
	return err
}

// Get fetches a transaction by id.
func (r *PGRepository) Get(ctx context.Context, id int64) (Transaction, error) {
	t, err := scanTransaction(r.pool.QueryRow(ctx, `SELECT `+transactionColumns+` FROM "transaction" WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, shared.ErrNotFound
		}
		return Transaction{}, fmt.Errorf("transactions: get: %w", err)
	}
	return t, nil
}

// ListByAccount returns the transactions of an account, newest first.
func (r *PGRepository) ListByAccount(ctx context.Context, accountID int64) ([]Transaction, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+transactionColumns+` FROM "transaction"
		WHERE id_account = $1 ORDER BY data DESC, id DESC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("transactions: list: %w", err)
	}
	return collectTransactions(rows)
}

// Create inserts a transaction.
func (r *PGRepository) Create(ctx context.Context, in Input) (Transaction, error) {
	t, err := scanTransaction(r.pool.QueryRow(ctx, `INSERT INTO "transaction"
		(id_account, id_transaction_type, id_place, id_beneficiary, note, amount, data, id_currency, expense, id_causal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING `+transactionColumns,
		in.AccountID, in.TypeID, in.PlaceID, in.BeneficiaryID, in.Note, in.Amount, in.Data, in.CurrencyID, in.Expense, in.CausalID))
	if err != nil {
		return Transaction{}, fmt.Errorf("transactions: create: %w", referenceError(err))
	}
	return t, nil
}

// Update overwrites transaction id, possibly moving it to another account.
func (r *PGRepository) Update(ctx context.Context, id int64, in Input) (int64, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE "transaction" SET id_account = $2, id_transaction_type = $3, id_place = $4,
		id_beneficiary = $5, note = $6, amount = $7, data = $8, id_currency = $9, expense = $10, id_causal = $11
		WHERE id = $1`,
		id, in.AccountID, in.TypeID, in.PlaceID, in.BeneficiaryID, in.Note, in.Amount, in.Data, in.CurrencyID, in.Expense, in.CausalID)
	if err != nil {
		return 0, fmt.Errorf("transactions: update: %w", referenceError(err))
	}
	return tag.RowsAffected(), nil
}

// Delete removes the transaction together with its details.
func (r *PGRepository) Delete(ctx context.Context, id int64) (int64, error) {
	var rows int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM transaction_detail WHERE id_transaction = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM "transaction" WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("transactions: delete: %w", err)
	}
	return rows, nil
}

// AddDetail links a detail to a transaction.
func (r *PGRepository) AddDetail(ctx context.Context, d Detail) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO transaction_detail (id_detail, id_transaction, amount) VALUES ($1, $2, $3)`,
		d.DetailID, d.TransactionID, d.Amount)
	if err != nil {
		if shared.IsUniqueViolation(err) {
			return fmt.Errorf("%w: detail already linked", shared.ErrDuplicate)
		}
		return fmt.Errorf("transactions: add detail: %w", err)
	}
	return nil
}

func collectDetails(rows pgx.Rows) ([]Detail, error) {
	defer rows.Close()
	var out []Detail
	for rows.Next() {
		var d Detail
		if err := rows.Scan(&d.DetailID, &d.TransactionID, &d.Amount); err != nil {
			return nil, fmt.Errorf("transactions: scan detail: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// DetailsByTransaction returns the details linked to a transaction.
func (r *PGRepository) DetailsByTransaction(ctx context.Context, transactionID int64) ([]Detail, error) {
	rows, err := r.pool.Query(ctx, `SELECT id_detail, id_transaction, amount FROM transaction_detail
		WHERE id_transaction = $1 ORDER BY id_detail`, transactionID)
	if err != nil {
		return nil, fmt.Errorf("transactions: details by transaction: %w", err)
	}
	return collectDetails(rows)
}

// DetailsByDetail returns the links of a detail restricted to transactions
// on accounts userID owns. Shared details are linked by many users.
func (r *PGRepository) DetailsByDetail(ctx context.Context, detailID, userID int64) ([]Detail, error) {
	rows, err := r.pool.Query(ctx, `SELECT td.id_detail, td.id_transaction, td.amount FROM transaction_detail td
		JOIN "transaction" t ON t.id = td.id_transaction
		JOIN account_user au ON au.id_account = t.id_account
		WHERE td.id_detail = $1 AND au.id_user = $2 ORDER BY td.id_transaction`, detailID, userID)
	if err != nil {
		return nil, fmt.Errorf("transactions: details by detail: %w", err)
	}
	return collectDetails(rows)
}

// UpdateDetail sets the amount of an existing link.
func (r *PGRepository) UpdateDetail(ctx context.Context, d Detail) (int64, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE transaction_detail SET amount = $3 WHERE id_detail = $1 AND id_transaction = $2`,
		d.DetailID, d.TransactionID, d.Amount)
	if err != nil {
		return 0, fmt.Errorf("transactions: update detail: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteDetail removes one link.
func (r *PGRepository) DeleteDetail(ctx context.Context, transactionID, detailID int64) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transaction_detail WHERE id_transaction = $1 AND id_detail = $2`,
		transactionID, detailID)
	if err != nil {
		return 0, fmt.Errorf("transactions: delete detail: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ Repository = (*PGRepository)(nil)
