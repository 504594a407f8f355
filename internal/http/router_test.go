package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/cdapos/internal/apperr"
	"github.com/MrJamesThe3rd/cdapos/internal/auth"
	apihttp "github.com/MrJamesThe3rd/cdapos/internal/http"
	audithttp "github.com/MrJamesThe3rd/cdapos/internal/http/audit"
	authhttp "github.com/MrJamesThe3rd/cdapos/internal/http/auth"
	notificationhttp "github.com/MrJamesThe3rd/cdapos/internal/http/notification"
	salehttp "github.com/MrJamesThe3rd/cdapos/internal/http/sale"
	tariffhttp "github.com/MrJamesThe3rd/cdapos/internal/http/tariff"
	tillhttp "github.com/MrJamesThe3rd/cdapos/internal/http/till"
	treasuryhttp "github.com/MrJamesThe3rd/cdapos/internal/http/treasury"
	"github.com/MrJamesThe3rd/cdapos/internal/metrics"
	"github.com/MrJamesThe3rd/cdapos/internal/till"
	"github.com/MrJamesThe3rd/cdapos/internal/treasury"
)

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

type fixture struct {
	router   http.Handler
	auth     *authhttp.MockService
	tills    *tillhttp.MockService
	treasury *treasuryhttp.MockService
}

func newFixture(t *testing.T, db apihttp.Pinger) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := fixture{
		auth:     authhttp.NewMockService(ctrl),
		tills:    tillhttp.NewMockService(ctrl),
		treasury: treasuryhttp.NewMockService(ctrl),
	}

	f.router = apihttp.New(apihttp.Handlers{
		Auth:          authhttp.NewHandler(f.auth, authhttp.NewMockAuditor(ctrl)),
		Tills:         tillhttp.NewHandler(f.tills, tillhttp.NewMockReceipts(ctrl)),
		Sales:         salehttp.NewHandler(salehttp.NewMockService(ctrl)),
		Tariffs:       tariffhttp.NewHandler(tariffhttp.NewMockService(ctrl)),
		Treasury:      treasuryhttp.NewHandler(f.treasury, treasuryhttp.NewMockExporter(ctrl), nil),
		Notifications: notificationhttp.NewHandler(notificationhttp.NewMockService(ctrl)),
		Audit:         audithttp.NewHandler(audithttp.NewMockService(ctrl)),
		Metrics:       metrics.New().Handler(),
		DB:            db,
	}, []string{"http://localhost:5173"})

	return f
}

func get(h http.Handler, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestRouter_Healthz(t *testing.T) {
	assert.Equal(t, http.StatusOK, get(newFixture(t, pinger{}).router, "/healthz", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable,
		get(newFixture(t, pinger{err: errors.New("conn refused")}).router, "/healthz", "").Code)
}

func TestRouter_Metrics(t *testing.T) {
	rec := get(newFixture(t, pinger{}).router, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Roles(t *testing.T) {
	cashier := auth.Actor{ID: uuid.New(), Role: auth.RoleCashier}
	accountant := auth.Actor{ID: uuid.New(), Role: auth.RoleAccountant}

	t.Run("NoToken", func(t *testing.T) {
		rec := get(newFixture(t, pinger{}).router, "/api/v1/tills/active", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("CashierReachesTill", func(t *testing.T) {
		f := newFixture(t, pinger{})
		f.auth.EXPECT().Authenticate("cashier-token").Return(cashier, nil)
		f.tills.EXPECT().Active(gomock.Any(), cashier).Return(&till.Till{ID: uuid.New(), State: till.StateOpen}, nil)

		assert.Equal(t, http.StatusOK, get(f.router, "/api/v1/tills/active", "cashier-token").Code)
	})

	t.Run("CashierCannotReadTreasury", func(t *testing.T) {
		f := newFixture(t, pinger{})
		f.auth.EXPECT().Authenticate(gomock.Any()).Return(cashier, nil)

		assert.Equal(t, http.StatusForbidden, get(f.router, "/api/v1/treasury/balance", "cashier-token").Code)
	})

	t.Run("AccountantCannotOpenTill", func(t *testing.T) {
		f := newFixture(t, pinger{})
		f.auth.EXPECT().Authenticate(gomock.Any()).Return(accountant, nil)

		assert.Equal(t, http.StatusForbidden, get(f.router, "/api/v1/tills/active", "acc-token").Code)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		f := newFixture(t, pinger{})
		f.auth.EXPECT().Authenticate(gomock.Any()).Return(auth.Actor{}, apperr.Unauthenticated("invalid or expired token"))

		assert.Equal(t, http.StatusUnauthorized, get(f.router, "/api/v1/treasury/balance", "old").Code)
	})

	t.Run("AdminReadsTreasury", func(t *testing.T) {
		f := newFixture(t, pinger{})
		f.auth.EXPECT().Authenticate(gomock.Any()).Return(auth.Actor{ID: uuid.New(), Role: auth.RoleAdmin}, nil)
		f.treasury.EXPECT().Balance(gomock.Any()).Return(&treasury.Balance{}, nil)

		assert.Equal(t, http.StatusOK, get(f.router, "/api/v1/treasury/balance", "admin-token").Code)
	})
}
