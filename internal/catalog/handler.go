package catalog

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/money-manager/money-manager/internal/platform/httpx"
)

// Handler exposes reference data endpoints.
type Handler struct {
	logger *slog.Logger
	repo   Repository
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, repo Repository) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, repo: repo}
}

// MountCurrencies registers currency routes.
func (h *Handler) MountCurrencies(r chi.Router) {
	r.Get("/", h.listCurrencies)
	r.Get("/{id}", h.getCurrency)
}

// MountAccountTypes registers account type routes.
func (h *Handler) MountAccountTypes(r chi.Router) {
	h.mountTypes(r, AccountTypes)
}

// MountTransactionTypes registers transaction type routes.
func (h *Handler) MountTransactionTypes(r chi.Router) {
	h.mountTypes(r, TransactionTypes)
}

func (h *Handler) mountTypes(r chi.Router, kind Kind) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		list, err := h.repo.Types(r.Context(), kind)
		if err != nil {
			h.logger.Error("list types", slog.String("kind", string(kind)), slog.Any("error", err))
		}
		httpx.List(w, list, err)
	})
	r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.IDParam(r, "id")
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		t, err := h.repo.Type(r.Context(), kind, id)
		httpx.One(w, t, err)
	})
}

func (h *Handler) listCurrencies(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.Currencies(r.Context())
	if err != nil {
		h.logger.Error("list currencies", slog.Any("error", err))
	}
	httpx.List(w, list, err)
}

func (h *Handler) getCurrency(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	c, err := h.repo.Currency(r.Context(), id)
	httpx.One(w, c, err)
}
