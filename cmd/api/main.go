package main

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

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/cdapos/internal/app"
	"github.com/MrJamesThe3rd/cdapos/internal/config"
	"github.com/MrJamesThe3rd/cdapos/internal/database"
	apihttp "github.com/MrJamesThe3rd/cdapos/internal/http"
	auditHandler "github.com/MrJamesThe3rd/cdapos/internal/http/audit"
	authHandler "github.com/MrJamesThe3rd/cdapos/internal/http/auth"
	notificationHandler "github.com/MrJamesThe3rd/cdapos/internal/http/notification"
	saleHandler "github.com/MrJamesThe3rd/cdapos/internal/http/sale"
	tariffHandler "github.com/MrJamesThe3rd/cdapos/internal/http/tariff"
	tillHandler "github.com/MrJamesThe3rd/cdapos/internal/http/till"
	treasuryHandler "github.com/MrJamesThe3rd/cdapos/internal/http/treasury"
	"github.com/MrJamesThe3rd/cdapos/internal/logging"
	"github.com/MrJamesThe3rd/cdapos/internal/metrics"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.App.LogLevel, cfg.App.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.DB.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			slog.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
	}

	cache, closeCache := app.OpenCache(ctx, cfg)
	defer closeCache()

	m := metrics.New()
	services := app.New(cfg, db, cache, m)

	if err := services.Bootstrap(ctx, cfg); err != nil {
		slog.Error("failed to create bootstrap admin", "error", err)
		os.Exit(1)
	}

	var (
		authH         = authHandler.NewHandler(services.Auth, services.Audit)
		tillH         = tillHandler.NewHandler(services.Tills, services.Export)
		saleH         = saleHandler.NewHandler(services.Sales)
		tariffH       = tariffHandler.NewHandler(services.Tariffs)
		treasuryH     = treasuryHandler.NewHandler(services.Treasury, services.Export, services.Location)
		notificationH = notificationHandler.NewHandler(services.Notifications)
		auditH        = auditHandler.NewHandler(services.Audit)
	)

	router := apihttp.New(apihttp.Handlers{
		Auth:          authH,
		Tills:         tillH,
		Sales:         saleH,
		Tariffs:       tariffH,
		Treasury:      treasuryH,
		Notifications: notificationH,
		Audit:         auditH,
		Metrics:       m.Handler(),
		DB:            db,
	}, cfg.Server.CORSOrigins)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           http.TimeoutHandler(router, cfg.Server.Timeout, "request timed out"),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "addr", srv.Addr, "timezone", services.Location.String())

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
