package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/money-manager/money-manager/internal/accounts"
	"github.com/money-manager/money-manager/internal/app"
	"github.com/money-manager/money-manager/internal/auth"
	"github.com/money-manager/money-manager/internal/catalog"
	"github.com/money-manager/money-manager/internal/giros"
	"github.com/money-manager/money-manager/internal/labels"
	"github.com/money-manager/money-manager/internal/observability"
	"github.com/money-manager/money-manager/internal/places"
	"github.com/money-manager/money-manager/internal/platform/cache"
	"github.com/money-manager/money-manager/internal/platform/db"
	"github.com/money-manager/money-manager/internal/transactions"
	"github.com/money-manager/money-manager/internal/users"
	"github.com/money-manager/money-manager/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PoolOptions())
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	metrics := observability.NewMetrics()

	tokens, err := auth.NewTokenService(cfg.TokenConfig())
	if err != nil {
		logger.Error("init token service", slog.Any("error", err))
		os.Exit(1)
	}
	hasher, err := auth.NewHasher(cfg.HashIterations)
	if err != nil {
		logger.Error("init hasher", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("auth configured",
		slog.Duration("token_ttl", tokens.TTL()),
		slog.Int("hash_iterations", hasher.Iterations()),
		slog.Bool("token_revocation", cfg.TokenRevocation),
	)

	var revocations auth.RevocationStore
	if cfg.TokenRevocation {
		redisClient, err := cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Error("connect redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
		revocations = auth.NewRedisRevocationStore(redisClient, "", tokens.TTL()+time.Second)
	}

	credentials := auth.NewStore(pool)
	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	var lastLogin auth.LastLoginRecorder = auth.StoreRecorder{Store: credentials}
	if cfg.LastLoginAsync {
		client := jobs.NewClient(redisOpts)
		defer client.Close()
		lastLogin = client
	}

	authService := auth.NewService(auth.ServiceConfig{
		Store:       credentials,
		Hasher:      hasher,
		Tokens:      tokens,
		Revocations: revocations,
		LastLogin:   lastLogin,
		Logger:      logger,
	})
	usersService := users.NewService(users.NewRepository(pool), authService, logger)

	authenticator := auth.NewAuthenticator(auth.AuthenticatorConfig{
		Tokens:      tokens,
		Users:       usersService,
		Revocations: revocations,
		Observer:    metrics,
		Logger:      logger,
	})
	authenticate := authenticator.Middleware(cfg.AuthHeader)

	accountGate := accounts.Ownership(pool)
	causalGate := labels.Ownership(pool, labels.Causals)
	detailGate := labels.Ownership(pool, labels.Details)
	giroSource, giroDestination := giros.Ownership(pool, accountGate)

	inspector := asynq.NewInspector(redisOpts)
	defer inspector.Close()

	router := app.NewRouter(app.RouterParams{
		Logger:       logger,
		Config:       cfg,
		Metrics:      metrics,
		Authenticate: authenticate,
		AuthHandler:  auth.NewHandler(logger, authService, authenticate, cfg.LoginRateLimit),
		UsersHandler: users.NewHandler(logger, usersService, authenticate, auth.UserID),
		AccountsHandler: accounts.NewHandler(logger,
			accounts.NewService(accounts.NewRepository(pool), accountGate, logger)),
		CatalogHandler: catalog.NewHandler(logger, catalog.NewRepository(pool)),
		CausalsHandler: labels.NewHandler(logger,
			labels.NewService(labels.Causals, labels.NewRepository(pool, labels.Causals), causalGate, logger)),
		DetailsHandler: labels.NewHandler(logger,
			labels.NewService(labels.Details, labels.NewRepository(pool, labels.Details), detailGate, logger)),
		PlacesHandler: places.NewHandler(logger,
			places.NewService(places.NewRepository(pool), places.Ownership(pool), logger)),
		TransactionHandler: transactions.NewHandler(logger,
			transactions.NewService(transactions.NewRepository(pool), transactions.Gates{
				Transactions: transactions.Ownership(pool, accountGate),
				Accounts:     accountGate,
				Causals:      causalGate,
				Places:       places.Ownership(pool),
				Details:      detailGate,
			}, logger)),
		GiroHandler: giros.NewHandler(logger,
			giros.NewService(giros.NewRepository(pool), giros.Gates{
				Accounts:    accountGate,
				Source:      giroSource,
				Destination: giroDestination,
			}, logger)),
		JobHandler: jobs.NewHandler(inspector, logger),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr),
			slog.Bool("token_revocation", cfg.TokenRevocation), slog.Bool("last_login_async", cfg.LastLoginAsync))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
