package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/money-manager/money-manager/internal/accounts"
	"github.com/money-manager/money-manager/internal/auth"
	"github.com/money-manager/money-manager/internal/catalog"
	"github.com/money-manager/money-manager/internal/giros"
	"github.com/money-manager/money-manager/internal/labels"
	"github.com/money-manager/money-manager/internal/observability"
	"github.com/money-manager/money-manager/internal/places"
	"github.com/money-manager/money-manager/internal/platform/httpx"
	"github.com/money-manager/money-manager/internal/transactions"
	"github.com/money-manager/money-manager/internal/users"
	"github.com/money-manager/money-manager/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger  *slog.Logger
	Config  *Config
	Metrics *observability.Metrics

	// Authenticate guards every resource route.
	Authenticate func(http.Handler) http.Handler

	AuthHandler        *auth.Handler
	UsersHandler       *users.Handler
	AccountsHandler    *accounts.Handler
	CatalogHandler     *catalog.Handler
	CausalsHandler     *labels.Handler
	DetailsHandler     *labels.Handler
	PlacesHandler      *places.Handler
	TransactionHandler *transactions.Handler
	GiroHandler        *giros.Handler
	JobHandler         *jobs.Handler
}

// NewRouter constructs the chi.Router with service defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	r.Route("/auth", params.AuthHandler.MountRoutes)
	r.Route("/user", params.UsersHandler.MountRoutes)

	r.Group(func(r chi.Router) {
		r.Use(params.Authenticate)

		r.Route("/account", func(r chi.Router) {
			r.Route("/type", params.CatalogHandler.MountAccountTypes)
			params.AccountsHandler.MountRoutes(r)
		})
		r.Route("/currency", params.CatalogHandler.MountCurrencies)
		r.Route("/causal", params.CausalsHandler.MountRoutes)
		r.Route("/detail", params.DetailsHandler.MountRoutes)
		r.Route("/place", params.PlacesHandler.MountRoutes)
		r.Route("/transaction", func(r chi.Router) {
			r.Route("/type", params.CatalogHandler.MountTransactionTypes)
			r.Route("/detail", params.TransactionHandler.MountDetails)
			params.TransactionHandler.MountRoutes(r)
		})
		r.Route("/giro", params.GiroHandler.MountRoutes)
	})

	return r
}
