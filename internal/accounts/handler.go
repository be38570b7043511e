package accounts

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/money-manager/money-manager/internal/auth"
	"github.com/money-manager/money-manager/internal/platform/httpx"
)

// Handler exposes account endpoints. Routes expect an authenticated context.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers account routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/user", h.listByUser)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	userID, id, err := auth.UserAndParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	a, err := h.service.Get(r.Context(), userID, id)
	httpx.One(w, a, err)
}

func (h *Handler) listByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	list, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("list accounts", slog.Int64("user_id", userID), slog.Any("error", err))
	}
	httpx.List(w, list, err)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var in Input
	if err := httpx.Bind(r, h.validator, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	a, err := h.service.Create(r.Context(), userID, in)
	if err != nil {
		h.logger.Error("create account", slog.Int64("user_id", userID), slog.Any("error", err))
	}
	httpx.One(w, a, err)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	userID, id, err := auth.UserAndParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var in Input
	if err := httpx.Bind(r, h.validator, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	rows, err := h.service.Update(r.Context(), userID, id, in)
	httpx.Affected(w, rows, err)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	userID, id, err := auth.UserAndParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	rows, err := h.service.Delete(r.Context(), userID, id)
	httpx.Affected(w, rows, err)
}
