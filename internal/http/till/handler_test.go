package till_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
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
	"github.com/MrJamesThe3rd/cdapos/internal/denomination"
	"github.com/MrJamesThe3rd/cdapos/internal/encoding"
	"github.com/MrJamesThe3rd/cdapos/internal/export"
	tillhttp "github.com/MrJamesThe3rd/cdapos/internal/http/till"
	"github.com/MrJamesThe3rd/cdapos/internal/till"
)

var cashier = auth.Actor{ID: uuid.New(), Name: "Laura", Role: auth.RoleCashier}

func newRouter(t *testing.T, actor *auth.Actor) (http.Handler, *tillhttp.MockService, *tillhttp.MockReceipts) {
	t.Helper()

	ctrl := gomock.NewController(t)
	svc := tillhttp.NewMockService(ctrl)
	receipts := tillhttp.NewMockReceipts(ctrl)

	router := chi.NewRouter()
	if actor != nil {
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(auth.WithActor(r.Context(), *actor)))
			})
		})
	}

	router.Route("/tills", tillhttp.NewHandler(svc, receipts).Routes)

	return router, svc, receipts
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, r))

	return rec
}

func TestHandler_Open(t *testing.T) {
	tests := []struct {
		name       string
		actor      *auth.Actor
		body       string
		setupMock  func(svc *tillhttp.MockService)
		wantStatus int
	}{
		{
			name:  "Created",
			actor: &cashier,
			body:  `{"opening_amount":"50000","shift":"morning"}`,
			setupMock: func(svc *tillhttp.MockService) {
				svc.EXPECT().Open(gomock.Any(), till.OpenParams{
					Operator:      cashier,
					OpeningAmount: decimal.RequireFromString("50000"),
					Shift:         till.ShiftMorning,
				}).Return(&till.Till{ID: uuid.New(), State: till.StateOpen, Shift: till.ShiftMorning}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "UnknownShift",
			actor:      &cashier,
			body:       `{"opening_amount":"50000","shift":"late"}`,
			setupMock:  func(*tillhttp.MockService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "MissingAmount",
			actor:      &cashier,
			body:       `{"shift":"morning"}`,
			setupMock:  func(*tillhttp.MockService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:  "AlreadyOpen",
			actor: &cashier,
			body:  `{"opening_amount":50000,"shift":"night"}`,
			setupMock: func(svc *tillhttp.MockService) {
				svc.EXPECT().Open(gomock.Any(), gomock.Any()).
					Return(nil, apperr.Conflict("you already have an open till, close it before opening a new one"))
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "NoActor",
			body:       `{"opening_amount":"50000","shift":"morning"}`,
			setupMock:  func(*tillhttp.MockService) {},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, svc, _ := newRouter(t, tt.actor)
			tt.setupMock(svc)

			rec := do(router, http.MethodPost, "/tills/open", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestHandler_Close(t *testing.T) {
	router, svc, _ := newRouter(t, &cashier)

	closedAt := time.Date(2026, time.March, 10, 18, 0, 0, 0, time.UTC)

	svc.EXPECT().Close(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, params till.CloseParams) (*till.Till, error) {
		want, err := denomination.FromMap(map[string]int64{"bills_50000": 5, "coins_500": 1})
		require.NoError(t, err)

		assert.Equal(t, want, params.Breakdown)
		assert.True(t, params.DeclaredTotal.Equal(decimal.NewFromInt(250500)))
		assert.Equal(t, "short 5,152", params.Notes)

		return &till.Till{
			ID:              uuid.New(),
			State:           till.StateClosed,
			ClosedAt:        &closedAt,
			SystemBalance:   decimal.NewFromInt(255652),
			PhysicalBalance: decimal.NewFromInt(250500),
			Difference:      decimal.NewFromInt(-5152),
		}, nil
	})

	rec := do(router, http.MethodPost, "/tills/active/close",
		`{"breakdown":{"bills_50000":5,"coins_500":1},"declared_total":"250500","notes":"short 5,152"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "-5152", got["difference"])
	assert.Equal(t, "closed", got["state"])
}

func TestHandler_Close_UnknownDenomination(t *testing.T) {
	router, _, _ := newRouter(t, &cashier)

	rec := do(router, http.MethodPost, "/tills/active/close",
		`{"breakdown":{"bills_3000":1},"declared_total":"3000"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Close_CountAboveCeiling(t *testing.T) {
	router, _, _ := newRouter(t, &cashier)

	rec := do(router, http.MethodPost, "/tills/active/close",
		`{"breakdown":{"bills_100000":184467440737096},"declared_total":"48384"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var got map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "invalid request", got["error"])
}

func TestHandler_Get_InvalidID(t *testing.T) {
	router, _, _ := newRouter(t, &cashier)

	rec := do(router, http.MethodGet, "/tills/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_ReceiptCSV(t *testing.T) {
	router, _, receipts := newRouter(t, &cashier)
	tillID := uuid.MustParse("6f1c2d3e-0000-4000-8000-000000000001")
	report := &export.Report{Till: &till.Till{ID: tillID, State: till.StateClosed}}

	receipts.EXPECT().TillReport(gomock.Any(), tillID, cashier).Return(report, nil)
	receipts.EXPECT().WriteTillCSV(gomock.Any(), report, encoding.Windows1252).
		DoAndReturn(func(w io.Writer, _ *export.Report, _ encoding.Charset) error {
			_, err := io.WriteString(w, "till;"+tillID.String()+"\n")
			return err
		})

	rec := do(router, http.MethodGet, "/tills/"+tillID.String()+"/receipt.csv?charset=cp1252", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "text/csv; charset=windows-1252", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="till-6f1c2d3e.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "till;"+tillID.String()+"\n", rec.Body.String())
}

func TestHandler_ReceiptCSV_BadCharset(t *testing.T) {
	router, _, _ := newRouter(t, &cashier)

	rec := do(router, http.MethodGet, "/tills/"+uuid.NewString()+"/receipt.csv?charset=ebcdic", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_LastClosed_None(t *testing.T) {
	router, svc, _ := newRouter(t, &cashier)

	svc.EXPECT().LastClosed(gomock.Any(), cashier).Return(nil, nil)

	rec := do(router, http.MethodGet, "/tills/last-closed", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null\n", rec.Body.String())
}

func TestHandler_History(t *testing.T) {
	router, svc, _ := newRouter(t, &cashier)

	svc.EXPECT().History(gomock.Any(), cashier, 25).Return([]*till.Till{{ID: uuid.New(), State: till.StateOpen}}, nil)

	rec := do(router, http.MethodGet, "/tills/history?limit=25", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.NotContains(t, got[0], "difference", "open tills have no close figures")
}
