package users

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/money-manager/money-manager/internal/platform/httpx"
)

// CurrentUser extracts the authenticated user id from a request context.
type CurrentUser func(ctx context.Context) (int64, error)

// Handler exposes user profile endpoints.
type Handler struct {
	logger       *slog.Logger
	service      *Service
	validator    *validator.Validate
	authenticate func(http.Handler) http.Handler
	current      CurrentUser
}

// NewHandler constructs a Handler instance. authenticate guards every route
// except registration; current reads the identity it stored.
func NewHandler(logger *slog.Logger, service *Service, authenticate func(http.Handler) http.Handler, current CurrentUser) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validator: validator.New(), authenticate: authenticate, current: current}
}

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.register)
	r.Group(func(r chi.Router) {
		r.Use(h.authenticate)
		r.Get("/user", h.read)
		r.Put("/user", h.update)
		r.Delete("/user", h.delete)
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := httpx.Bind(r, h.validator, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	u, err := h.service.Register(r.Context(), in)
	if err != nil {
		h.logger.Error("register user", slog.Any("error", err))
	}
	httpx.One(w, u, err)
}

func (h *Handler) read(w http.ResponseWriter, r *http.Request) {
	id, err := h.current(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	u, err := h.service.Get(r.Context(), id)
	httpx.One(w, u, err)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := h.current(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var in Input
	if err := httpx.Bind(r, h.validator, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	rows, err := h.service.Update(r.Context(), id, in)
	httpx.Affected(w, rows, err)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.current(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	rows, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("delete user", slog.Int64("user_id", id), slog.Any("error", err))
	}
	httpx.Affected(w, rows, err)
}
