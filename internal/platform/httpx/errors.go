// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/money-manager/money-manager/internal/shared"
)

// RespondError maps domain errors to HTTP responses. Authentication and
// ownership outcomes carry no body; client errors use RFC7807; anything
// else becomes a generic 500 without the internal error text.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrUnauthorized), errors.Is(err, shared.ErrInvalidCredentials):
		Status(w, http.StatusUnauthorized)
	case errors.Is(err, shared.ErrForbidden):
		Status(w, http.StatusForbidden)
	case errors.Is(err, shared.ErrNotFound):
		Status(w, http.StatusNotFound)
	case errors.Is(err, shared.ErrDuplicate), errors.Is(err, shared.ErrConflict):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, shared.ErrTooLarge):
		Problem(w, http.StatusRequestEntityTooLarge, "Payload Too Large", err.Error())
	case errors.Is(err, shared.ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
