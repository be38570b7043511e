package httpx

import (
	"net/http"

	"github.com/money-manager/money-manager/internal/shared"
)

// List writes a collection read. An empty collection is 204 No Content.
func List[T any](w http.ResponseWriter, items []T, err error) {
	if err != nil {
		RespondError(w, err)
		return
	}
	if len(items) == 0 {
		Status(w, http.StatusNoContent)
		return
	}
	JSON(w, http.StatusOK, items)
}

// One writes a single-resource read.
func One[T any](w http.ResponseWriter, item T, err error) {
	if err != nil {
		RespondError(w, err)
		return
	}
	JSON(w, http.StatusOK, item)
}

// Affected writes the outcome of an update or delete by affected row count.
// Zero rows is 404; any other success is 204.
func Affected(w http.ResponseWriter, rows int64, err error) {
	if err != nil {
		RespondError(w, err)
		return
	}
	if rows == 0 {
		RespondError(w, shared.ErrNotFound)
		return
	}
	Status(w, http.StatusNoContent)
}
