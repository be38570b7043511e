package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/money-manager/money-manager/internal/platform/httpx"
	"github.com/money-manager/money-manager/internal/shared"
)

// Handler wires HTTP endpoints for credential flows.
type Handler struct {
	logger       *slog.Logger
	service      *Service
	authenticate func(http.Handler) http.Handler
	loginLimit   int
	validator    *validator.Validate
}

// NewHandler constructs a Handler instance. loginLimit caps login attempts
// per client IP per minute; zero disables the cap.
func NewHandler(logger *slog.Logger, service *Service, authenticate func(http.Handler) http.Handler, loginLimit int) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:       logger,
		service:      service,
		authenticate: authenticate,
		loginLimit:   loginLimit,
		validator:    validator.New(),
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h.loginLimit > 0 {
		r.With(httprate.LimitByIP(h.loginLimit, time.Minute)).Post("/login", h.login)
	} else {
		r.Post("/login", h.login)
	}
	r.Post("/{id}", h.create)
	r.Group(func(r chi.Router) {
		r.Use(h.authenticate)
		r.Get("/", h.read)
		r.Put("/", h.update)
		r.Delete("/", h.delete)
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var in CredentialInput
	if err := httpx.Bind(r, h.validator, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Register(r.Context(), userID, in); err != nil {
		h.logger.Warn("create credential", slog.Int64("user_id", userID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.Status(w, http.StatusNoContent)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var in CredentialInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	// Credential rules are enforced at registration only; a login that
	// fails them simply cannot match.
	if in.Email == "" || in.Password == "" {
		httpx.RespondError(w, shared.ErrInvalidCredentials)
		return
	}
	resp, err := h.service.Login(r.Context(), in)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) read(w http.ResponseWriter, r *http.Request) {
	userID, err := UserID(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	cred, err := h.service.Get(r.Context(), userID)
	httpx.One(w, cred, err)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	userID, err := UserID(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var in CredentialInput
	if err := httpx.Bind(r, h.validator, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	rows, err := h.service.Update(r.Context(), userID, in)
	httpx.Affected(w, rows, err)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	userID, err := UserID(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	rows, err := h.service.Delete(r.Context(), userID)
	httpx.Affected(w, rows, err)
}
