package tariff_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/cdapos/internal/apperr"
	"github.com/MrJamesThe3rd/cdapos/internal/audit"
	"github.com/MrJamesThe3rd/cdapos/internal/auth"
	"github.com/MrJamesThe3rd/cdapos/internal/tariff"
)

var today = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*tariff.Service, *tariff.MockRepository, *tariff.MockAuditor) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := tariff.NewMockRepository(ctrl)
	auditor := tariff.NewMockAuditor(ctrl)

	return tariff.NewService(repo, auditor, func() time.Time { return today }), repo, auditor
}

func TestService_Fee(t *testing.T) {
	type testCase struct {
		name        string
		vehicleType tariff.VehicleType
		modelYear   int
		setupMock   func(m *tariff.MockRepository)
		want        decimal.Decimal
		wantErr     error
	}

	tests := []testCase{
		{
			name:        "AgeBand",
			vehicleType: tariff.VehicleLightPrivate,
			modelYear:   2019,
			setupMock: func(m *tariff.MockRepository) {
				m.EXPECT().
					FindTariff(gomock.Any(), tariff.VehicleLightPrivate, 7, today).
					Return(&tariff.Tariff{Total: decimal.NewFromInt(248710)}, nil)
			},
			want: decimal.NewFromInt(248710),
		},
		{
			name:        "NextYearModelIsNew",
			vehicleType: tariff.VehicleMotorcycle,
			modelYear:   2027,
			setupMock: func(m *tariff.MockRepository) {
				m.EXPECT().
					FindTariff(gomock.Any(), tariff.VehicleMotorcycle, 0, today).
					Return(&tariff.Tariff{Total: decimal.NewFromInt(248710)}, nil)
			},
			want: decimal.NewFromInt(248710),
		},
		{
			name:        "PreventiveHasNoListedFee",
			vehicleType: tariff.VehiclePreventive,
			modelYear:   2020,
			setupMock:   func(m *tariff.MockRepository) {},
			want:        decimal.Zero,
		},
		{
			name:        "UnknownBand",
			vehicleType: tariff.VehicleHeavyPublic,
			modelYear:   1990,
			setupMock: func(m *tariff.MockRepository) {
				m.EXPECT().FindTariff(gomock.Any(), tariff.VehicleHeavyPublic, 36, today).Return(nil, tariff.ErrNotFound)
			},
			wantErr: apperr.ErrNotFound,
		},
		{
			name:        "FutureModelYear",
			vehicleType: tariff.VehicleMotorcycle,
			modelYear:   2028,
			setupMock:   func(m *tariff.MockRepository) {},
			wantErr:     apperr.ErrValidation,
		},
		{
			name:        "InvalidType",
			vehicleType: "bus",
			modelYear:   2020,
			setupMock:   func(m *tariff.MockRepository) {},
			wantErr:     apperr.ErrValidation,
		},
		{
			name:        "StoreError",
			vehicleType: tariff.VehicleMotorcycle,
			modelYear:   2020,
			setupMock: func(m *tariff.MockRepository) {
				m.EXPECT().FindTariff(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))
			},
			wantErr: apperr.ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newService(t)
			tt.setupMock(repo)

			got, err := svc.Fee(context.Background(), tt.vehicleType, tt.modelYear, today)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}

			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s", got)
		})
	}
}

func TestService_Commission_MissingIsZero(t *testing.T) {
	svc, repo, _ := newService(t)
	repo.EXPECT().ActiveCommission(gomock.Any(), "motorcycle", today).Return(nil, tariff.ErrNotFound)

	got, err := svc.Commission(context.Background(), tariff.VehicleMotorcycle, today)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestService_Quote(t *testing.T) {
	svc, repo, _ := newService(t)

	repo.EXPECT().
		FindTariff(gomock.Any(), tariff.VehicleLightPublic, 4, today).
		Return(&tariff.Tariff{Total: decimal.NewFromInt(248710)}, nil)
	repo.EXPECT().
		ActiveCommission(gomock.Any(), "car", today).
		Return(&tariff.Commission{Amount: decimal.NewFromInt(50000)}, nil)

	q, err := svc.Quote(context.Background(), tariff.VehicleLightPublic, 2022, true)
	require.NoError(t, err)

	assert.Equal(t, 4, q.Age)
	assert.True(t, q.Commission.Equal(decimal.NewFromInt(50000)))
	assert.True(t, q.Total.Equal(decimal.NewFromInt(298710)))
}

func TestService_Import(t *testing.T) {
	admin := auth.Actor{ID: uuid.New(), Email: "admin@cda.test", Role: auth.RoleAdmin}
	sheet := "vehicle_type;age_min;age_max;inspection_fee;third_party\nmotorcycle;0;;150.000;98.710\n"

	t.Run("ReplacesYear", func(t *testing.T) {
		svc, repo, auditor := newService(t)

		repo.EXPECT().
			ReplaceYear(gomock.Any(), 2026, gomock.Len(1)).
			Return(nil)
		auditor.EXPECT().
			Record(gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, e audit.Event) {
				assert.Equal(t, audit.ActionImportTariffs, e.Action)
				v, _ := e.Field("rows")
				assert.Equal(t, "1", v)
			})

		n, err := svc.Import(context.Background(), admin, strings.NewReader(sheet), 2026)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("BadSheetWritesNothing", func(t *testing.T) {
		svc, _, _ := newService(t)

		_, err := svc.Import(context.Background(), admin, strings.NewReader("nope\n"), 2026)
		assert.True(t, errors.Is(err, apperr.ErrValidation))
	})

	t.Run("InvalidYear", func(t *testing.T) {
		svc, _, _ := newService(t)

		_, err := svc.Import(context.Background(), admin, strings.NewReader(sheet), 26)
		assert.True(t, errors.Is(err, apperr.ErrValidation))
	})
}
