package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/cdapos/internal/apperr"
	"github.com/MrJamesThe3rd/cdapos/internal/audit"
	"github.com/MrJamesThe3rd/cdapos/internal/auth"
	authhttp "github.com/MrJamesThe3rd/cdapos/internal/http/auth"
)

func TestHandler_Login(t *testing.T) {
	actor := auth.Actor{ID: uuid.New(), Email: "caja1@cda.test", Name: "Laura", Role: auth.RoleCashier}

	tests := []struct {
		name       string
		body       string
		setupMock  func(svc *authhttp.MockService, a *authhttp.MockAuditor)
		wantStatus int
	}{
		{
			name: "Success",
			body: `{"email":"caja1@cda.test","password":"secret"}`,
			setupMock: func(svc *authhttp.MockService, a *authhttp.MockAuditor) {
				svc.EXPECT().Login(gomock.Any(), "caja1@cda.test", "secret").Return(&auth.LoginResult{
					AccessToken: "tok",
					ExpiresAt:   time.Date(2026, time.March, 10, 20, 0, 0, 0, time.UTC),
					Actor:       actor,
				}, nil)
				a.EXPECT().Record(gomock.Any(), gomock.Any()).Do(func(_ context.Context, e audit.Event) {
					assert.Equal(t, audit.ActionLogin, e.Action)
					assert.Empty(t, e.ErrorMessage)
				})
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "BadPasswordIsAudited",
			body: `{"email":" CAJA1@cda.test","password":"wrong"}`,
			setupMock: func(svc *authhttp.MockService, a *authhttp.MockAuditor) {
				svc.EXPECT().Login(gomock.Any(), gomock.Any(), "wrong").
					Return(nil, apperr.Unauthenticated("invalid email or password"))
				a.EXPECT().Record(gomock.Any(), gomock.Any()).Do(func(_ context.Context, e audit.Event) {
					assert.Equal(t, "caja1@cda.test", e.Actor.Email)
					assert.NotEmpty(t, e.ErrorMessage)
				})
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "MissingPassword",
			body:       `{"email":"caja1@cda.test"}`,
			setupMock:  func(*authhttp.MockService, *authhttp.MockAuditor) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := authhttp.NewMockService(ctrl)
			a := authhttp.NewMockAuditor(ctrl)
			tt.setupMock(svc, a)

			router := chi.NewRouter()
			router.Route("/auth", authhttp.NewHandler(svc, a).Routes)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusOK {
				var got map[string]any
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
				assert.Equal(t, "tok", got["access_token"])
				assert.Equal(t, "Bearer", got["token_type"])
			}
		})
	}
}

func TestMiddleware(t *testing.T) {
	cashier := auth.Actor{ID: uuid.New(), Role: auth.RoleCashier}
	admin := auth.Actor{ID: uuid.New(), Role: auth.RoleAdmin}
	receptionist := auth.Actor{ID: uuid.New(), Role: auth.RoleReceptionist}

	tests := []struct {
		name       string
		header     string
		actor      *auth.Actor
		wantStatus int
	}{
		{"NoHeader", "", nil, http.StatusUnauthorized},
		{"WrongScheme", "Basic abc", nil, http.StatusUnauthorized},
		{"InvalidToken", "Bearer bad", nil, http.StatusUnauthorized},
		{"Cashier", "Bearer cashier", &cashier, http.StatusNoContent},
		{"AdminPassesEveryRole", "Bearer admin", &admin, http.StatusNoContent},
		{"ReceptionistForbidden", "Bearer receptionist", &receptionist, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := authhttp.NewMockService(ctrl)

			if tt.header == "Bearer bad" {
				svc.EXPECT().Authenticate("bad").Return(auth.Actor{}, apperr.Unauthenticated("invalid or expired token"))
			}

			if tt.actor != nil {
				svc.EXPECT().Authenticate(gomock.Any()).Return(*tt.actor, nil)
			}

			h := authhttp.NewHandler(svc, authhttp.NewMockAuditor(ctrl))

			router := chi.NewRouter()
			router.Use(h.Authenticate)
			router.With(authhttp.RequireRole(auth.RoleCashier)).Get("/tills/active", func(w http.ResponseWriter, r *http.Request) {
				got, ok := authhttp.Actor(w, r)
				require.True(t, ok)
				assert.Equal(t, tt.actor.ID, got.ID)
				w.WriteHeader(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodGet, "/tills/active", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRequestMeta(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := audit.NewMockRepository(ctrl)
	repo.EXPECT().CreateEvent(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e *audit.Event) error {
		assert.Equal(t, "10.0.0.7", e.IP)
		assert.Equal(t, "pos-web", e.UserAgent)

		return nil
	})

	recorder := audit.NewRecorder(repo)
	handler := authhttp.RequestMeta(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder.Record(r.Context(), audit.Event{Action: audit.ActionLogin})
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.7:51234"
	req.Header.Set("User-Agent", "pos-web")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
