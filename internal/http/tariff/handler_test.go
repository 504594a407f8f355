package tariff_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/cdapos/internal/apperr"
	"github.com/MrJamesThe3rd/cdapos/internal/auth"
	tariffhttp "github.com/MrJamesThe3rd/cdapos/internal/http/tariff"
	"github.com/MrJamesThe3rd/cdapos/internal/tariff"
)

func serve(t *testing.T, actor auth.Actor, req *http.Request, setup func(svc *tariffhttp.MockService)) *httptest.ResponseRecorder {
	t.Helper()

	ctrl := gomock.NewController(t)
	svc := tariffhttp.NewMockService(ctrl)
	setup(svc)

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithActor(r.Context(), actor)))
		})
	})
	router.Route("/tariffs", tariffhttp.NewHandler(svc).Routes)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Fee(t *testing.T) {
	receptionist := auth.Actor{ID: uuid.New(), Role: auth.RoleReceptionist}

	tests := []struct {
		name       string
		target     string
		setupMock  func(svc *tariffhttp.MockService)
		wantStatus int
	}{
		{
			name:   "SpanishAlias",
			target: "/tariffs/fee?vehicle_type=liviano_particular&model_year=2015&has_insurance=true",
			setupMock: func(svc *tariffhttp.MockService) {
				svc.EXPECT().Quote(gomock.Any(), tariff.VehicleLightPrivate, 2015, true).Return(&tariff.Quote{
					VehicleType:   tariff.VehicleLightPrivate,
					ModelYear:     2015,
					Age:           11,
					InspectionFee: decimal.NewFromInt(248710),
					Commission:    decimal.NewFromInt(50000),
					Total:         decimal.NewFromInt(298710),
				}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "MissingModelYear",
			target:     "/tariffs/fee?vehicle_type=moto",
			setupMock:  func(*tariffhttp.MockService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "UnknownType",
			target:     "/tariffs/fee?vehicle_type=bus&model_year=2015",
			setupMock:  func(*tariffhttp.MockService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "NoTariff",
			target: "/tariffs/fee?vehicle_type=heavy_public&model_year=1990",
			setupMock: func(svc *tariffhttp.MockService) {
				svc.EXPECT().Quote(gomock.Any(), gomock.Any(), gomock.Any(), false).
					Return(nil, apperr.NotFound("no tariff for heavy_public aged 36"))
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, receptionist, httptest.NewRequest(http.MethodGet, tt.target, nil), tt.setupMock)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantStatus == http.StatusOK {
				var got map[string]any
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
				assert.Equal(t, "298710", got["total"])
			}
		})
	}
}

func TestHandler_Import(t *testing.T) {
	admin := auth.Actor{ID: uuid.New(), Role: auth.RoleAdmin}
	sheet := "tipo_vehiculo;antiguedad_min;antiguedad_max;valor_rtm;valor_terceros\nmoto;0;;120.000;80.000\n"

	t.Run("Admin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/tariffs/import?year=2026", strings.NewReader(sheet))

		rec := serve(t, admin, req, func(svc *tariffhttp.MockService) {
			svc.EXPECT().Import(gomock.Any(), admin, gomock.Any(), 2026).
				DoAndReturn(func(_ context.Context, _ auth.Actor, r io.Reader, _ int) (int, error) {
					b, err := io.ReadAll(r)
					require.NoError(t, err)
					assert.Equal(t, sheet, string(b))

					return 1, nil
				})
		})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"year":2026,"imported":1}`, rec.Body.String())
	})

	t.Run("MissingYear", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/tariffs/import", strings.NewReader(sheet))
		rec := serve(t, admin, req, func(*tariffhttp.MockService) {})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("CashierForbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/tariffs/import?year=2026", strings.NewReader(sheet))
		rec := serve(t, auth.Actor{ID: uuid.New(), Role: auth.RoleCashier}, req, func(*tariffhttp.MockService) {})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
