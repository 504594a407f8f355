package notification_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/cdapos/internal/apperr"
	"github.com/MrJamesThe3rd/cdapos/internal/auth"
	notificationhttp "github.com/MrJamesThe3rd/cdapos/internal/http/notification"
	"github.com/MrJamesThe3rd/cdapos/internal/notification"
)

var admin = auth.Actor{ID: uuid.New(), Role: auth.RoleAdmin}

func serve(t *testing.T, method, target string, setup func(svc *notificationhttp.MockService)) *httptest.ResponseRecorder {
	t.Helper()

	ctrl := gomock.NewController(t)
	svc := notificationhttp.NewMockService(ctrl)
	setup(svc)

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithActor(r.Context(), admin)))
		})
	})
	router.Route("/notifications", notificationhttp.NewHandler(svc).Routes)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, nil))

	return rec
}

func TestHandler_List(t *testing.T) {
	closedAt := time.Date(2026, time.March, 10, 18, 0, 0, 0, time.UTC)

	rec := serve(t, http.MethodGet, "/notifications?state=read&limit=20", func(svc *notificationhttp.MockService) {
		svc.EXPECT().List(gomock.Any(), notification.StateRead, 20).Return([]*notification.Notification{{
			ID:            uuid.New(),
			TillID:        uuid.New(),
			OperatorName:  "Laura",
			ClosedAt:      closedAt,
			CashToDeliver: decimal.NewFromInt(250000),
			Difference:    decimal.NewFromInt(-5652),
			State:         notification.StateRead,
		}}, nil)
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var got []map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "250000", got[0]["cash_to_deliver"])
	assert.Equal(t, "-5652", got[0]["difference"])
}

func TestHandler_Transitions(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name       string
		method     string
		target     string
		setupMock  func(svc *notificationhttp.MockService)
		wantStatus int
	}{
		{
			name:   "MarkRead",
			method: http.MethodPost,
			target: "/notifications/" + id.String() + "/read",
			setupMock: func(svc *notificationhttp.MockService) {
				svc.EXPECT().MarkRead(gomock.Any(), id, admin).
					Return(&notification.Notification{ID: id, State: notification.StateRead}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "ArchiveTwice",
			method: http.MethodDelete,
			target: "/notifications/" + id.String(),
			setupMock: func(svc *notificationhttp.MockService) {
				svc.EXPECT().Archive(gomock.Any(), id, admin).
					Return(nil, apperr.Conflict("cannot move notification from archived to archived"))
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "InvalidID",
			method:     http.MethodPost,
			target:     "/notifications/42/read",
			setupMock:  func(*notificationhttp.MockService) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, tt.method, tt.target, tt.setupMock)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}
