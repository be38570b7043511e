package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/money-manager/money-manager/internal/shared"
)

func TestCurrenciesTrimCode(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, code, number FROM currency ORDER BY id`)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "code", "number"}).
			AddRow(int64(1), "Euro", "EUR", int64(978)).
			AddRow(int64(2), "US Dollar", "USD ", int64(840)))

	list, err := NewRepository(mock).Currencies(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "USD", list[1].Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCurrencyNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM currency WHERE id = $1`)).
		WithArgs(int64(9)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "code", "number"}))

	_, err = NewRepository(mock).Currency(context.Background(), 9)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestTypesUseKindTable(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, "type" FROM "transaction_type" WHERE id = $1`)).
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "type"}).AddRow(int64(3), "transfer"))

	got, err := NewRepository(mock).Type(context.Background(), TransactionTypes, 3)
	require.NoError(t, err)
	assert.Equal(t, Type{ID: 3, Type: "transfer"}, got)

	_, err = NewRepository(mock).Types(context.Background(), Kind("user"))
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type fakeRepo struct {
	currencies []Currency
	types      map[Kind][]Type
}

func (f fakeRepo) Currencies(context.Context) ([]Currency, error) { return f.currencies, nil }

func (f fakeRepo) Currency(_ context.Context, id int64) (Currency, error) {
	for _, c := range f.currencies {
		if c.ID == id {
			return c, nil
		}
	}
	return Currency{}, shared.ErrNotFound
}

func (f fakeRepo) Types(_ context.Context, kind Kind) ([]Type, error) { return f.types[kind], nil }

func (f fakeRepo) Type(_ context.Context, kind Kind, id int64) (Type, error) {
	for _, t := range f.types[kind] {
		if t.ID == id {
			return t, nil
		}
	}
	return Type{}, shared.ErrNotFound
}

func TestHandlerRoutes(t *testing.T) {
	h := NewHandler(nil, fakeRepo{
		currencies: []Currency{{ID: 1, Name: "Euro", Code: "EUR", Number: 978}},
		types:      map[Kind][]Type{AccountTypes: {{ID: 1, Type: "bank"}}},
	})
	r := chi.NewRouter()
	r.Route("/currency", h.MountCurrencies)
	r.Route("/account/type", h.MountAccountTypes)
	r.Route("/transaction/type", h.MountTransactionTypes)

	cases := []struct {
		path string
		code int
	}{
		{"/currency/", http.StatusOK},
		{"/currency/1", http.StatusOK},
		{"/currency/2", http.StatusNotFound},
		{"/currency/abc", http.StatusBadRequest},
		{"/account/type/", http.StatusOK},
		{"/account/type/1", http.StatusOK},
		{"/transaction/type/", http.StatusNoContent},
		{"/transaction/type/1", http.StatusNotFound},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, nil))
		assert.Equal(t, tc.code, rr.Code, tc.path)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/currency/1", nil))
	var c Currency
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &c))
	assert.Equal(t, "EUR", c.Code)
}
