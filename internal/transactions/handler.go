package transactions

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/money-manager/money-manager/internal/auth"
	"github.com/money-manager/money-manager/internal/platform/httpx"
)

// Handler exposes transaction endpoints. Routes expect an authenticated context.
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

// MountRoutes registers transaction routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/account/{id}", h.listByAccount)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

// MountDetails registers transaction detail routes.
func (h *Handler) MountDetails(r chi.Router) {
	r.Post("/", h.addDetail)
	r.Put("/", h.updateDetail)
	r.Get("/transaction/{id}", h.detailsByTransaction)
	r.Get("/detail/{id}", h.detailsByDetail)
	r.Delete("/transaction/{tid}/detail/{did}", h.deleteDetail)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	userID, id, err := auth.UserAndParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	t, err := h.service.Get(r.Context(), userID, id)
	httpx.One(w, t, err)
}

func (h *Handler) listByAccount(w http.ResponseWriter, r *http.Request) {
	userID, accountID, err := auth.UserAndParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	list, err := h.service.ListByAccount(r.Context(), userID, accountID)
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
	t, err := h.service.Create(r.Context(), userID, in)
	httpx.One(w, t, err)
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

func (h *Handler) addDetail(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var d Detail
	if err := httpx.Bind(r, h.validator, &d); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.AddDetail(r.Context(), userID, d); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Status(w, http.StatusNoContent)
}

func (h *Handler) updateDetail(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var d Detail
	if err := httpx.Bind(r, h.validator, &d); err != nil {
		httpx.RespondError(w, err)
		return
	}
	rows, err := h.service.UpdateDetail(r.Context(), userID, d)
	httpx.Affected(w, rows, err)
}

func (h *Handler) detailsByTransaction(w http.ResponseWriter, r *http.Request) {
	userID, id, err := auth.UserAndParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	list, err := h.service.DetailsByTransaction(r.Context(), userID, id)
	httpx.List(w, list, err)
}

func (h *Handler) detailsByDetail(w http.ResponseWriter, r *http.Request) {
	userID, id, err := auth.UserAndParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	list, err := h.service.DetailsByDetail(r.Context(), userID, id)
	httpx.List(w, list, err)
}

func (h *Handler) deleteDetail(w http.ResponseWriter, r *http.Request) {
	userID, transactionID, err := auth.UserAndParam(r, "tid")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	detailID, err := httpx.IDParam(r, "did")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	rows, err := h.service.DeleteDetail(r.Context(), userID, transactionID, detailID)
	httpx.Affected(w, rows, err)
}
