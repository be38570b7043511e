package accounts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/money-manager/money-manager/internal/shared"
)

var accountCols = []string{"id", "name", "status", "note", "current_balance", "initial_balance", "creation_date", "id_account_type", "id_currency"}

func newMockRepo(t *testing.T) (*PGRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewRepository(mock), mock
}

func walletInput() Input {
	return Input{Name: "Wallet", Status: true, InitialBalance: 50, CurrentBalance: 50, AccountTypeID: 1, CurrencyID: 978}
}

func expectAccountInsert(mock pgxmock.PgxPoolIface, in Input, id int64) {
	mock.ExpectQuery(`INSERT INTO account`).
		WithArgs(in.Name, in.Status, in.Note, in.CurrentBalance, in.InitialBalance, in.AccountTypeID, in.CurrencyID).
		WillReturnRows(pgxmock.NewRows(accountCols).
			AddRow(id, in.Name, in.Status, in.Note, in.CurrentBalance, in.InitialBalance, time.Now(), in.AccountTypeID, in.CurrencyID))
}

func TestCreateOwnedCommitsBothRows(t *testing.T) {
	repo, mock := newMockRepo(t)
	in := walletInput()

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	expectAccountInsert(mock, in, 5)
	mock.ExpectExec(`INSERT INTO account_user`).
		WithArgs(int64(5), int64(1)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	a, err := repo.CreateOwned(context.Background(), 1, in)
	require.NoError(t, err)
	assert.Equal(t, int64(5), a.ID)
	assert.Equal(t, "Wallet", a.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOwnedRollsBackWhenLinkFails(t *testing.T) {
	repo, mock := newMockRepo(t)
	in := walletInput()
	boom := errors.New("disk full")

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	expectAccountInsert(mock, in, 5)
	mock.ExpectExec(`INSERT INTO account_user`).
		WithArgs(int64(5), int64(1)).
		WillReturnError(boom)
	mock.ExpectRollback()

	_, err := repo.CreateOwned(context.Background(), 1, in)
	require.ErrorIs(t, err, boom)
	// No commit was expected: the account insert is discarded with the link.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOwnedUnknownReference(t *testing.T) {
	repo, mock := newMockRepo(t)
	in := walletInput()

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	mock.ExpectQuery(`INSERT INTO account`).
		WithArgs(in.Name, in.Status, in.Note, in.CurrentBalance, in.InitialBalance, in.AccountTypeID, in.CurrencyID).
		WillReturnError(&pgconn.PgError{Code: "23503"})
	mock.ExpectRollback()

	_, err := repo.CreateOwned(context.Background(), 1, in)
	assert.ErrorIs(t, err, shared.ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteRemovesLinksAndAccount(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	mock.ExpectExec(`DELETE FROM account_user`).WithArgs(int64(5)).WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(`DELETE FROM account WHERE`).WithArgs(int64(5)).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	rows, err := repo.Delete(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteWithTransactionsConflicts(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	mock.ExpectExec(`DELETE FROM account_user`).WithArgs(int64(5)).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM account WHERE`).WithArgs(int64(5)).WillReturnError(&pgconn.PgError{Code: "23503"})
	mock.ExpectRollback()

	_, err := repo.Delete(context.Background(), 5)
	assert.ErrorIs(t, err, shared.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`FROM account WHERE id = \$1`).WithArgs(int64(9)).WillReturnRows(pgxmock.NewRows(accountCols))

	_, err := repo.Get(context.Background(), 9)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
