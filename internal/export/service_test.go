package export_test

import (
	"bytes"
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
	"github.com/MrJamesThe3rd/cdapos/internal/auth"
	"github.com/MrJamesThe3rd/cdapos/internal/denomination"
	"github.com/MrJamesThe3rd/cdapos/internal/encoding"
	"github.com/MrJamesThe3rd/cdapos/internal/export"
	"github.com/MrJamesThe3rd/cdapos/internal/payment"
	"github.com/MrJamesThe3rd/cdapos/internal/till"
	"github.com/MrJamesThe3rd/cdapos/internal/treasury"
)

var (
	bogota  = time.FixedZone("COT", -5*60*60)
	now     = time.Date(2026, time.March, 10, 18, 30, 0, 0, bogota)
	cashier = auth.Actor{ID: uuid.New(), Name: "Laura", Role: auth.RoleCashier}
)

func closedTill(t *testing.T) *till.Detail {
	t.Helper()

	b, err := denomination.FromMap(map[string]int64{"bills_50000": 2, "coins_500": 3})
	require.NoError(t, err)

	closedAt := time.Date(2026, time.March, 10, 18, 0, 0, 0, bogota)
	tl := &till.Till{
		ID:              uuid.MustParse("6f1c2d3e-0000-4000-8000-000000000001"),
		OperatorID:      cashier.ID,
		OperatorName:    "Laura",
		Shift:           till.ShiftAfternoon,
		State:           till.StateClosed,
		OpeningAmount:   decimal.NewFromInt(50000),
		OpenedAt:        time.Date(2026, time.March, 10, 13, 0, 0, 0, bogota),
		ClosedAt:        &closedAt,
		SystemBalance:   decimal.NewFromInt(101500),
		PhysicalBalance: decimal.NewFromInt(101500),
		Difference:      decimal.Zero,
		Breakdown:       &b,
	}

	movements := []*till.Movement{{
		ID:          uuid.New(),
		TillID:      tl.ID,
		Category:    till.CategoryServiceFee,
		Amount:      decimal.NewFromInt(51500),
		Method:      payment.MethodCash,
		Description: "Inspection fee ABC123",
		AffectsCash: true,
		CreatedAt:   time.Date(2026, time.March, 10, 14, 5, 0, 0, bogota),
	}}

	return &till.Detail{Till: tl, Movements: movements, Summary: till.Summarize(tl, movements)}
}

func newService(t *testing.T) (*export.Service, *export.MockTills) {
	t.Helper()

	ctrl := gomock.NewController(t)
	tills := export.NewMockTills(ctrl)

	return export.NewService(tills, bogota, func() time.Time { return now }), tills
}

func TestService_TillReport(t *testing.T) {
	svc, tills := newService(t)
	detail := closedTill(t)

	tills.EXPECT().Get(gomock.Any(), detail.Till.ID, cashier).Return(detail, nil)

	r, err := svc.TillReport(context.Background(), detail.Till.ID, cashier)
	require.NoError(t, err)

	assert.Equal(t, now, r.GeneratedAt)
	assert.Equal(t, []export.BreakdownLine{
		{Label: "$50,000 bills", Count: 2, Subtotal: decimal.NewFromInt(100000)},
		{Label: "$500 coins", Count: 3, Subtotal: decimal.NewFromInt(1500)},
	}, r.Breakdown)
}

func TestService_TillReport_Errors(t *testing.T) {
	t.Run("StillOpen", func(t *testing.T) {
		svc, tills := newService(t)
		detail := closedTill(t)
		detail.Till.State = till.StateOpen

		tills.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(detail, nil)

		_, err := svc.TillReport(context.Background(), detail.Till.ID, cashier)
		assert.True(t, errors.Is(err, apperr.ErrValidation))
	})

	t.Run("NotVisible", func(t *testing.T) {
		svc, tills := newService(t)

		tills.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, apperr.NotFound("till not found"))

		_, err := svc.TillReport(context.Background(), uuid.New(), cashier)
		assert.True(t, errors.Is(err, apperr.ErrNotFound))
	})
}

func TestService_WriteTillCSV(t *testing.T) {
	svc, tills := newService(t)
	detail := closedTill(t)

	tills.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(detail, nil)

	r, err := svc.TillReport(context.Background(), detail.Till.ID, cashier)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteTillCSV(&buf, r, encoding.UTF8))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"till;6f1c2d3e-0000-4000-8000-000000000001",
		"operator;Laura",
		"shift;afternoon",
		"opened_at;2026-03-10 13:00",
		"closed_at;2026-03-10 18:00",
		"opening_amount;50000.00",
		"system_balance;101500.00",
		"physical_balance;101500.00",
		"difference;0.00",
		"notes;",
		"",
		"created_at;category;method;description;amount;affects_cash",
		"2026-03-10 14:05;service_fee;cash;Inspection fee ABC123;51500.00;true",
		"",
		"denomination;count;subtotal",
		"$50,000 bills;2;100000.00",
		"$500 coins;3;1500.00",
	}, lines)
}

func TestService_WriteTreasuryCSV(t *testing.T) {
	svc, _ := newService(t)
	tillID := uuid.MustParse("6f1c2d3e-0000-4000-8000-000000000001")

	movements := []*treasury.Movement{
		{
			ID:          uuid.MustParse("a1b2c3d4-e5f6-4000-8000-000000000009"),
			Type:        treasury.TypeEgress,
			Category:    treasury.CategorySuppliers,
			Amount:      decimal.NewFromInt(-80000),
			Description: "Compra tóner",
			Method:      treasury.MethodCash,
			MovementAt:  time.Date(2026, time.March, 9, 15, 0, 0, 0, time.UTC),
		},
		{
			ID:           uuid.New(),
			Type:         treasury.TypeIngress,
			Category:     treasury.CategoryTillTransfer,
			Amount:       decimal.NewFromInt(101500),
			Description:  "Cierre tarde",
			Method:       treasury.MethodCash,
			OriginTillID: &tillID,
			MovementAt:   time.Date(2026, time.March, 10, 23, 30, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, svc.WriteTreasuryCSV(&buf, movements, encoding.Windows1252))

	out := buf.Bytes()
	assert.True(t, bytes.Contains(out, []byte("Compra t\xF3ner")), "description is Windows-1252 encoded")
	assert.True(t, bytes.Contains(out, []byte("2026-03-09 10:00;egress;suppliers;cash;")))
	assert.True(t, bytes.Contains(out, []byte(";-80000.00;EGR-A1B2C3D4;\n")))
	assert.True(t, bytes.Contains(out, []byte(";101500.00;;"+tillID.String()+"\n")))
}

func TestVoucherNumber(t *testing.T) {
	id := uuid.MustParse("0c9d8e7f-1111-4000-8000-000000000000")

	tests := []struct {
		name     string
		movement treasury.Movement
		want     string
	}{
		{"DerivedForEgress", treasury.Movement{ID: id, Type: treasury.TypeEgress}, "EGR-0C9D8E7F"},
		{"RecordedWins", treasury.Movement{ID: id, Type: treasury.TypeEgress, VoucherNumber: "FAC-778"}, "FAC-778"},
		{"NoneForIngress", treasury.Movement{ID: id, Type: treasury.TypeIngress}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, export.VoucherNumber(&tt.movement))
		})
	}
}
