// Package app wires stores and services for the API and the console.
package app

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/cdapos/internal/apperr"
	"github.com/MrJamesThe3rd/cdapos/internal/audit"
	auditStore "github.com/MrJamesThe3rd/cdapos/internal/audit/store"
	"github.com/MrJamesThe3rd/cdapos/internal/auth"
	authStore "github.com/MrJamesThe3rd/cdapos/internal/auth/store"
	"github.com/MrJamesThe3rd/cdapos/internal/cache"
	"github.com/MrJamesThe3rd/cdapos/internal/config"
	"github.com/MrJamesThe3rd/cdapos/internal/export"
	"github.com/MrJamesThe3rd/cdapos/internal/metrics"
	"github.com/MrJamesThe3rd/cdapos/internal/notification"
	notificationStore "github.com/MrJamesThe3rd/cdapos/internal/notification/store"
	"github.com/MrJamesThe3rd/cdapos/internal/sale"
	saleStore "github.com/MrJamesThe3rd/cdapos/internal/sale/store"
	"github.com/MrJamesThe3rd/cdapos/internal/tariff"
	tariffStore "github.com/MrJamesThe3rd/cdapos/internal/tariff/store"
	"github.com/MrJamesThe3rd/cdapos/internal/till"
	tillStore "github.com/MrJamesThe3rd/cdapos/internal/till/store"
	"github.com/MrJamesThe3rd/cdapos/internal/treasury"
	treasuryStore "github.com/MrJamesThe3rd/cdapos/internal/treasury/store"
)

type Services struct {
	Audit         *audit.Recorder
	Auth          *auth.Service
	Tills         *till.Service
	Sales         *sale.Service
	Tariffs       *tariff.Service
	Treasury      *treasury.Service
	Notifications *notification.Service
	Export        *export.Service
	Location      *time.Location
}

func New(cfg *config.Config, db *sql.DB, c cache.Cache, m *metrics.Metrics) *Services {
	loc := cfg.Location()
	tills := tillStore.New(db)

	var (
		auditor       = audit.NewRecorder(auditStore.New(db))
		authService   = auth.NewService(authStore.New(db), auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL))
		tariffService = tariff.NewService(tariffStore.New(db), auditor, nil)
		saleService   = sale.NewService(saleStore.New(db), tills, tariffService, auditor, loc, nil)
		tillService   = till.NewService(tills, saleService, auditor, m, nil)
	)

	treasuryService := treasury.NewService(treasuryStore.New(db), c, auditor, m, treasury.Settings{
		MinBalance: cfg.Treasury.MinBalance,
		CacheTTL:   cfg.Redis.TTL,
		Location:   loc,
	}, nil)

	return &Services{
		Audit:         auditor,
		Auth:          authService,
		Tills:         tillService,
		Sales:         saleService,
		Tariffs:       tariffService,
		Treasury:      treasuryService,
		Notifications: notification.NewService(notificationStore.New(db), auditor, nil),
		Export:        export.NewService(tillService, loc, nil),
		Location:      loc,
	}
}

// OpenCache connects to Redis when an address is configured. Without one, or when
// Redis is unreachable, treasury reads go straight to the database.
func OpenCache(ctx context.Context, cfg *config.Config) (cache.Cache, func()) {
	if cfg.Redis.Addr == "" {
		return cache.Noop{}, func() {}
	}

	r := cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := r.Ping(ctx); err != nil {
		slog.Warn("redis unavailable, caching disabled", "addr", cfg.Redis.Addr, "error", err)
		r.Close()

		return cache.Noop{}, func() {}
	}

	slog.Info("connected to redis", "addr", cfg.Redis.Addr)

	return r, func() { r.Close() }
}

// Bootstrap creates the configured admin account on first start.
func (s *Services) Bootstrap(ctx context.Context, cfg *config.Config) error {
	email := cfg.Auth.BootstrapEmail
	if email == "" {
		return nil
	}

	_, err := s.Auth.ActorByEmail(ctx, email)
	if err == nil {
		return nil
	}

	if !errors.Is(err, apperr.ErrNotFound) {
		return err
	}

	if _, err := s.Auth.CreateUser(ctx, auth.CreateUserParams{
		Email:    email,
		Name:     "Administrator",
		Password: cfg.Auth.BootstrapPassword,
		Role:     auth.RoleAdmin,
	}); err != nil {
		return err
	}

	slog.Info("created bootstrap admin", "email", email)

	return nil
}
