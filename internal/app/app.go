package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"planner/internal/config"
	"planner/internal/logger"
	"planner/internal/service"
	"planner/internal/token"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config    *config.Config
	server    *http.Server
	handler   http.Handler
	storage   *Storage
	shutdowns []func() // run in reverse order on shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	storage, err := OpenStorage(ctx, a.config)
	if err != nil {
		return err
	}
	a.storage = storage
	a.shutdowns = append(a.shutdowns, storage.Close)

	if a.config.Database.AutoMigrate {
		if err := storage.Migrate(ctx); err != nil {
			a.Close()
			return fmt.Errorf("auto migrate: %w", err)
		}
	}

	tokens := token.New([]byte(a.config.Auth.Secret), a.config.Auth.TokenTTL)

	router := NewRouter(a.config.Server.CORSOrigins, Services{
		Auth:   service.NewUserService(storage.Users, tokens, a.config.Auth.BcryptCost),
		Tasks:  service.NewTaskService(storage.Tasks),
		Events: service.NewEventService(storage.Events),
		Health: storage.HealthCheck,
	})
	a.handler = otelhttp.NewHandler(router, "planner")

	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      a.handler,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}

	logger.Info("App: Initialized",
		zap.String("repository", a.config.Repository.Type),
		zap.Duration("token_ttl", tokens.TTL()),
	)
	return nil
}

func (a *App) Handler() http.Handler {
	return a.handler
}

// Run serves until ctx is cancelled, then drains in-flight requests for up
// to server.shutdown_timeout and releases storage.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("App: Server started", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("App: Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func (a *App) Close() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}
