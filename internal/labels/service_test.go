package labels

import (
	"context"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/money-manager/money-manager/internal/shared"
)

const ownerQuery = `SELECT "id_user" FROM "causal" WHERE id = $1`

func newCausalService(t *testing.T) (*Service, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewService(Causals, NewRepository(mock, Causals), Ownership(mock, Causals), nil), mock
}

func expectOwner(mock pgxmock.PgxPoolIface, id int64, owner *int64) {
	mock.ExpectQuery(regexp.QuoteMeta(ownerQuery)).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id_user"}).AddRow(owner))
}

func TestSharedCausalReadableNotWritable(t *testing.T) {
	svc, mock := newCausalService(t)
	ctx := context.Background()

	expectOwner(mock, 1, nil)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, description, id_user FROM "causal" WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "description", "id_user"}).AddRow(int64(1), "groceries", (*int64)(nil)))

	got, err := svc.Get(ctx, 7, 1)
	require.NoError(t, err)
	assert.Nil(t, got.UserID)

	expectOwner(mock, 1, nil)
	_, err = svc.Update(ctx, 7, 1, Input{Description: "mine now"})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	expectOwner(mock, 1, nil)
	_, err = svc.Delete(ctx, 7, 1)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPrivateCausalOwnerOnly(t *testing.T) {
	svc, mock := newCausalService(t)
	ctx := context.Background()
	owner := int64(3)

	expectOwner(mock, 5, &owner)
	_, err := svc.Get(ctx, 4, 5)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	expectOwner(mock, 5, &owner)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "causal" SET description = $2 WHERE id = $1`)).
		WithArgs(int64(5), "rent").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	rows, err := svc.Update(ctx, 3, 5, Input{Description: "rent"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMissingCausalNotFound(t *testing.T) {
	svc, mock := newCausalService(t)

	mock.ExpectQuery(regexp.QuoteMeta(ownerQuery)).
		WithArgs(int64(99)).
		WillReturnRows(pgxmock.NewRows([]string{"id_user"}))

	_, err := svc.Get(context.Background(), 1, 99)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.NotErrorIs(t, err, shared.ErrForbidden)
}

func TestCreateAssignsCaller(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	owner := int64(8)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "detail" (description, id_user) VALUES ($1, $2)`)).
		WithArgs("coffee", int64(8)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "description", "id_user"}).AddRow(int64(11), "coffee", &owner))

	svc := NewService(Details, NewRepository(mock, Details), Ownership(mock, Details), nil)
	got, err := svc.Create(context.Background(), 8, Input{Description: "coffee"})
	require.NoError(t, err)
	require.NotNil(t, got.UserID)
	assert.Equal(t, int64(8), *got.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteInUseConflicts(t *testing.T) {
	svc, mock := newCausalService(t)
	owner := int64(2)

	expectOwner(mock, 6, &owner)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "causal" WHERE id = $1`)).
		WithArgs(int64(6)).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err := svc.Delete(context.Background(), 2, 6)
	assert.ErrorIs(t, err, shared.ErrConflict)
}
