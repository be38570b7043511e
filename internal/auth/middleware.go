package auth

import (
	"log/slog"
	"net/http"

	"github.com/money-manager/money-manager/internal/platform/httpx"
)

// DefaultHeader is the request header carrying the bare session token.
const DefaultHeader = "Authentication"

// Middleware authenticates every request from the named header and stores
// the Identity in the request context. Refusals are a bodiless 401.
func (a *Authenticator) Middleware(header string) func(http.Handler) http.Handler {
	if header == "" {
		header = DefaultHeader
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := a.Authenticate(r.Context(), r.Header.Values(header))
			if err != nil {
				if _, rejected := err.(*RejectedError); !rejected {
					a.logger.Error("authenticate request", slog.String("path", r.URL.Path), slog.Any("error", err))
				}
				httpx.RespondError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), id)))
		})
	}
}

// UserAndParam returns the authenticated user id and the named positive
// integer URL parameter.
func UserAndParam(r *http.Request, name string) (int64, int64, error) {
	userID, err := UserID(r.Context())
	if err != nil {
		return 0, 0, err
	}
	id, err := httpx.IDParam(r, name)
	if err != nil {
		return 0, 0, err
	}
	return userID, id, nil
}
