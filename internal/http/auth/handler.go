package auth

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/cdapos/internal/apperr"
	"github.com/MrJamesThe3rd/cdapos/internal/audit"
	"github.com/MrJamesThe3rd/cdapos/internal/auth"
	"github.com/MrJamesThe3rd/cdapos/internal/http/respond"
)

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=auth
type Service interface {
	Login(ctx context.Context, email, password string) (*auth.LoginResult, error)
	Authenticate(token string) (auth.Actor, error)
}

type Auditor interface {
	Record(ctx context.Context, event audit.Event)
}

type Handler struct {
	svc   Service
	audit Auditor
}

func NewHandler(svc Service, auditor Auditor) *Handler {
	return &Handler{svc: svc, audit: auditor}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/login", h.login)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type actorResponse struct {
	ID    string    `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Role  auth.Role `json:"role"`
}

type loginResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresAt   time.Time     `json:"expires_at"`
	User        actorResponse `json:"user"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.audit.Record(r.Context(), audit.Event{
			Action:       audit.ActionLogin,
			Actor:        auth.Actor{Email: strings.ToLower(strings.TrimSpace(req.Email))},
			Description:  "failed login",
			ErrorMessage: err.Error(),
		})
		respond.Error(w, r, err)

		return
	}

	h.audit.Record(r.Context(), audit.Event{
		Action:      audit.ActionLogin,
		Actor:       res.Actor,
		Description: "logged in",
	})

	respond.JSON(w, http.StatusOK, loginResponse{
		AccessToken: res.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   res.ExpiresAt,
		User: actorResponse{
			ID:    res.Actor.ID.String(),
			Email: res.Actor.Email,
			Name:  res.Actor.Name,
			Role:  res.Actor.Role,
		},
	})
}

// Authenticate resolves the bearer token into the request's actor.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			respond.Error(w, r, apperr.Unauthenticated("missing bearer token"))
			return
		}

		actor, err := h.svc.Authenticate(token)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithActor(r.Context(), actor)))
	})
}

// RequireRole rejects actors whose role is not listed. Admins always pass.
func RequireRole(roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := auth.ActorFromContext(r.Context())
			if !ok {
				respond.Error(w, r, apperr.Unauthenticated("missing bearer token"))
				return
			}

			if !actor.IsAdmin() && !actor.HasRole(roles...) {
				respond.Error(w, r, apperr.Forbidden("your role cannot perform this action"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequestMeta stores the caller's address and user agent for audit events.
func RequestMeta(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}

		ctx := audit.WithRequestMeta(r.Context(), audit.RequestMeta{IP: ip, UserAgent: r.UserAgent()})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Actor returns the authenticated actor or writes a 401.
func Actor(w http.ResponseWriter, r *http.Request) (auth.Actor, bool) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		respond.Error(w, r, apperr.Unauthenticated("missing bearer token"))
	}

	return actor, ok
}
