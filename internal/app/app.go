package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-storefront/docs"
	"go-storefront/internal/config"
	"go-storefront/internal/database"
	"go-storefront/internal/handler"
	"go-storefront/internal/middleware"
	"go-storefront/internal/repository"
	"go-storefront/internal/router"
	"go-storefront/internal/service"
	"go-storefront/internal/session"
	"go-storefront/internal/validation"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	server       *http.Server
	cleanupFuncs []func(ctx context.Context)
}

func New(cfg *config.Config) (*App, error) {
	codec, err := session.NewCodec(cfg.JWTSecret, cfg.JWTExpiresIn)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session codec: %w", err)
	}

	sameSite, err := cfg.SameSite()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cookie policy: %w", err)
	}
	carrier := session.NewCarrier(session.NewCookiePolicy(cfg.SecureCookies(), sameSite, cfg.CookieDomain, cfg.JWTExpiresIn))

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	cartRepo := repository.NewCartRepository(pool)
	slog.Info("database ready")

	validator := validation.New()
	auditService := service.NewAuditService(auditRepo, cfg.AuditLogLimit)
	authService := service.NewAuthService(userRepo, service.NewBcryptHasher(service.DefaultBcryptCost), codec)
	userService := service.NewUserService(userRepo, auditService)
	productService := service.NewProductService(productRepo, auditService)
	cartService := service.NewCartService(cartRepo, productRepo)

	gate := middleware.NewSessionGate(codec, carrier)

	appRouter := router.New(cfg, gate, router.Handlers{
		Auth:    handler.NewAuthHandler(authService, carrier, validator),
		User:    handler.NewUserHandler(userService, validator),
		Audit:   handler.NewAuditHandler(auditService),
		Product: handler.NewProductHandler(productService, validator),
		Cart:    handler.NewCartHandler(cartService, validator),
		Health:  handler.NewHealthHandler(db),
		Docs:    handler.NewDocsHandler(docs.OpenAPI),
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	slog.Info("session cookie policy",
		"secure", carrier.Policy().Secure,
		"same_site", cfg.CookieSameSite,
		"max_age", cfg.JWTExpiresIn.String(),
	)

	return &App{
		server: server,
		cleanupFuncs: []func(ctx context.Context){
			func(ctx context.Context) {
				if err := auditService.Close(ctx); err != nil {
					slog.Warn("audit writes still pending at shutdown", "error", err)
				}
			},
			func(context.Context) {
				db.Close()
			},
		},
	}, nil
}

func (a *App) Run() error {
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-stop:
		slog.Info("shutdown signal received", "signal", sig.String())
	case err := <-serveErr:
		runErr = fmt.Errorf("server failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil && runErr == nil {
		runErr = fmt.Errorf("graceful shutdown failed: %w", err)
	}

	// In-flight requests are done; release what they used.
	for _, cleanup := range a.cleanupFuncs {
		cleanup(ctx)
	}

	if runErr != nil {
		return runErr
	}

	slog.Info("server stopped")
	return nil
}
