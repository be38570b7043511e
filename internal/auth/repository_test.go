package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/money-manager/money-manager/internal/shared"
)

func newMockStore(t *testing.T) (*PGStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewStore(mock), mock
}

var testCredential = Credential{
	UserID: 3,
	Email:  "ada@example.com",
	Secret: Secret{Iterations: 1000, Salt: "AB", StoredKey: "CD"},
}

func TestStoreCreate(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`INSERT INTO auth`).
		WithArgs(int64(3), "ada@example.com", 1000, "AB", "CD").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.Create(context.Background(), testCredential))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreCreateDuplicateEmail(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`INSERT INTO auth`).
		WithArgs(int64(3), "ada@example.com", 1000, "AB", "CD").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "auth_email_key"})

	err := store.Create(context.Background(), testCredential)
	assert.ErrorIs(t, err, shared.ErrDuplicate)
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreCreateUnknownUser(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`INSERT INTO auth`).
		WithArgs(int64(3), "ada@example.com", 1000, "AB", "CD").
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := store.Create(context.Background(), testCredential)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.ErrorIs(t, err, ErrUserMissing)
}

func TestStoreCreateStorageFailure(t *testing.T) {
	store, mock := newMockStore(t)
	boom := errors.New("conn closed")
	mock.ExpectExec(`INSERT INTO auth`).
		WithArgs(int64(3), "ada@example.com", 1000, "AB", "CD").
		WillReturnError(boom)

	err := store.Create(context.Background(), testCredential)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, shared.ErrDuplicate)
}

func TestStoreFindByEmail(t *testing.T) {
	store, mock := newMockStore(t)
	login := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM auth WHERE email = \$1`).
		WithArgs("ada@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "iteration", "salt", "stored_key", "last_login"}).
			AddRow(int64(3), "ada@example.com", 1000, "AB", "CD", &login))

	c, err := store.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.UserID)
	assert.Equal(t, 1000, c.Secret.Iterations)
	require.NotNil(t, c.LastLogin)
	assert.True(t, c.LastLogin.Equal(login))
}

func TestStoreFindByEmailNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`FROM auth WHERE email = \$1`).
		WithArgs("nobody@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "iteration", "salt", "stored_key", "last_login"}))

	_, err := store.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestStoreUpdateAndDeleteReportRows(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`UPDATE auth SET email`).
		WithArgs(int64(3), "new@example.com", 1000, "EF", "01").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec(`DELETE FROM auth`).
		WithArgs(int64(3)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	rows, err := store.Update(context.Background(), 3, "new@example.com", Secret{Iterations: 1000, Salt: "EF", StoredKey: "01"})
	require.NoError(t, err)
	assert.Zero(t, rows)

	rows, err = store.Delete(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMaskClearsSecrets(t *testing.T) {
	masked := testCredential.Mask()
	assert.Equal(t, Secret{}, masked.Secret)
	assert.Equal(t, testCredential.Email, masked.Email)
	assert.Equal(t, "AB", testCredential.Secret.Salt)
}
