package users

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/money-manager/money-manager/internal/shared"
)

type recordingRevoker struct {
	calls []int64
	err   error
}

func (r *recordingRevoker) RevokeAll(_ context.Context, userID int64, _ time.Time) error {
	r.calls = append(r.calls, userID)
	return r.err
}

func TestDeleteRunsInTransaction(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM auth WHERE id = $1`)).
		WithArgs(int64(4)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "user" WHERE id = $1`)).
		WithArgs(int64(4)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	revoker := &recordingRevoker{}
	rows, err := NewService(NewRepository(mock), revoker, nil).Delete(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)
	assert.Equal(t, []int64{4}, revoker.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteWithResourcesConflicts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM auth`)).
		WithArgs(int64(4)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "user"`)).
		WithArgs(int64(4)).
		WillReturnError(&pgconn.PgError{Code: "23503"})
	mock.ExpectRollback()

	revoker := &recordingRevoker{}
	_, err = NewService(NewRepository(mock), revoker, nil).Delete(context.Background(), 4)
	assert.ErrorIs(t, err, shared.ErrConflict)
	assert.Empty(t, revoker.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSucceedsWhenRevocationFails(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	mock.ExpectExec(`DELETE FROM auth`).WithArgs(int64(4)).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM "user"`).WithArgs(int64(4)).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	revoker := &recordingRevoker{err: errors.New("redis down")}
	rows, err := NewService(NewRepository(mock), revoker, nil).Delete(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)
}

type memRepo struct {
	users map[int64]User
}

func (m *memRepo) Create(_ context.Context, in Input) (User, error) {
	u := User{ID: int64(len(m.users) + 1), Name: in.Name, Surname: in.Surname}
	m.users[u.ID] = u
	return u, nil
}

func (m *memRepo) Get(_ context.Context, id int64) (User, error) {
	u, ok := m.users[id]
	if !ok {
		return User{}, shared.ErrNotFound
	}
	return u, nil
}

func (m *memRepo) Update(_ context.Context, id int64, in Input) (int64, error) {
	if _, ok := m.users[id]; !ok {
		return 0, nil
	}
	m.users[id] = User{ID: id, Name: in.Name, Surname: in.Surname}
	return 1, nil
}

func (m *memRepo) Delete(_ context.Context, id int64) (int64, error) {
	if _, ok := m.users[id]; !ok {
		return 0, nil
	}
	delete(m.users, id)
	return 1, nil
}

type ctxKey struct{}

// headerAuth trusts a numeric X-User header; the real middleware lives in auth.
func headerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-User") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, int64(1))))
	})
}

func currentFromContext(ctx context.Context) (int64, error) {
	id, ok := ctx.Value(ctxKey{}).(int64)
	if !ok {
		return 0, shared.ErrUnauthorized
	}
	return id, nil
}

func TestHandlerRoutes(t *testing.T) {
	repo := &memRepo{users: map[int64]User{}}
	h := NewHandler(nil, NewService(repo, nil, nil), headerAuth, currentFromContext)
	r := chi.NewRouter()
	r.Route("/user", h.MountRoutes)

	send := func(method, path, body string, authed bool) int {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if authed {
			req.Header.Set("X-User", "1")
		}
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, send(http.MethodPost, "/user/", `{"name":"Ada","surname":"Lovelace"}`, false))
	assert.Equal(t, http.StatusBadRequest, send(http.MethodPost, "/user/", `{"name":"Ada"}`, false))
	assert.Equal(t, http.StatusUnauthorized, send(http.MethodGet, "/user/user", "", false))
	assert.Equal(t, http.StatusOK, send(http.MethodGet, "/user/user", "", true))
	assert.Equal(t, http.StatusNoContent, send(http.MethodPut, "/user/user", `{"name":"Ada","surname":"King"}`, true))
	assert.Equal(t, "King", repo.users[1].Surname)
	assert.Equal(t, http.StatusNoContent, send(http.MethodDelete, "/user/user", "", true))
	assert.Equal(t, http.StatusNotFound, send(http.MethodGet, "/user/user", "", true))
}
