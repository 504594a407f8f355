package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/cdapos/internal/auth"
	audithttp "github.com/MrJamesThe3rd/cdapos/internal/http/audit"
	authhttp "github.com/MrJamesThe3rd/cdapos/internal/http/auth"
	"github.com/MrJamesThe3rd/cdapos/internal/http/notification"
	"github.com/MrJamesThe3rd/cdapos/internal/http/respond"
	"github.com/MrJamesThe3rd/cdapos/internal/http/sale"
	"github.com/MrJamesThe3rd/cdapos/internal/http/tariff"
	"github.com/MrJamesThe3rd/cdapos/internal/http/till"
	"github.com/MrJamesThe3rd/cdapos/internal/http/treasury"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handlers struct {
	Auth          *authhttp.Handler
	Tills         *till.Handler
	Sales         *sale.Handler
	Tariffs       *tariff.Handler
	Treasury      *treasury.Handler
	Notifications *notification.Handler
	Audit         *audithttp.Handler
	Metrics       http.Handler
	DB            Pinger
}

func New(h Handlers, corsOrigins []string) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(authhttp.RequestMeta)

	router.Get("/healthz", healthz(h.DB))
	router.Handle("/metrics", h.Metrics)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Auth.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.Auth.Authenticate)

			r.Route("/tills", func(r chi.Router) {
				r.Use(authhttp.RequireRole(auth.RoleCashier))
				h.Tills.Routes(r)
			})

			r.Route("/sales", h.Sales.Routes)
			r.Route("/tariffs", h.Tariffs.Routes)

			r.Route("/treasury", func(r chi.Router) {
				r.Use(authhttp.RequireRole(auth.RoleAdmin))
				h.Treasury.Routes(r)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Use(authhttp.RequireRole(auth.RoleAdmin))
				h.Notifications.Routes(r)
			})

			r.Route("/audit", func(r chi.Router) {
				r.Use(authhttp.RequireRole(auth.RoleAdmin))
				h.Audit.Routes(r)
			})
		})
	})

	return router
}

func healthz(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			respond.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}

		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
