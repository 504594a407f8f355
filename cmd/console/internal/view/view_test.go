package view_test

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/cdapos/cmd/console/internal/view"
	"github.com/MrJamesThe3rd/cdapos/internal/apperr"
	"github.com/MrJamesThe3rd/cdapos/internal/auth"
	"github.com/MrJamesThe3rd/cdapos/internal/denomination"
	"github.com/MrJamesThe3rd/cdapos/internal/notification"
	"github.com/MrJamesThe3rd/cdapos/internal/treasury"
)

var admin = auth.Actor{ID: uuid.New(), Email: "admin@cda.test", Name: "Admin", Role: auth.RoleAdmin}

func TestParseAmount(t *testing.T) {
	type testCase struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}

	tests := []testCase{
		{name: "Plain", input: "255650", want: 255650},
		{name: "CommaSeparators", input: "$255,650", want: 255650},
		{name: "DotSeparators", input: "255.650", want: 255650},
		{name: "Zero", input: "0", wantErr: true},
		{name: "Negative", input: "-500", wantErr: true},
		{name: "NotANumber", input: "mil", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := view.ParseAmount(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, apperr.ErrValidation)
				return
			}

			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.NewFromInt(tt.want)), "got %s", got)
		})
	}
}

func TestParseCounts(t *testing.T) {
	var values [denomination.Count]string
	values[1] = "3"
	values[3] = " 2 "

	got, err := view.ParseCounts(values)
	require.NoError(t, err)

	var want denomination.Breakdown
	want[1] = 3
	want[3] = 2
	assert.Equal(t, want, got)

	values[8] = "-1"
	_, err = view.ParseCounts(values)
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "$500 coins")
}

func TestErrorLines(t *testing.T) {
	err := apperr.Validation("insufficient cash in safe").WithDetails("$50,000 bills: requested 4 but only 3 available")
	assert.Equal(t, []string{
		"Error: insufficient cash in safe",
		"  $50,000 bills: requested 4 but only 3 available",
	}, view.ErrorLines(err))

	assert.Equal(t, []string{"Error: internal error"}, view.ErrorLines(errors.New("connection reset")))
}

func TestNotificationsModel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pending := &notification.Notification{
		ID:            uuid.New(),
		TillID:        uuid.New(),
		Shift:         "morning",
		OperatorName:  "Ana Ruiz",
		ClosedAt:      time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
		CashToDeliver: decimal.NewFromInt(255650),
		Difference:    decimal.NewFromInt(-2),
		State:         notification.StatePending,
	}

	svc := view.NewMockNotifications(ctrl)
	gomock.InOrder(
		svc.EXPECT().List(gomock.Any(), notification.StatePending, 100).Return([]*notification.Notification{pending}, nil),
		svc.EXPECT().
			MarkRead(gomock.Any(), pending.ID, admin).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, _ auth.Actor) (*notification.Notification, error) {
				read := *pending
				read.State = notification.StateRead

				return &read, nil
			}),
		svc.EXPECT().List(gomock.Any(), notification.StatePending, 100).Return(nil, nil),
	)

	var m tea.Model = view.NewNotificationsModel(svc, admin)

	m, _ = m.Update(m.Init()())
	assert.Contains(t, m.View(), "Ana Ruiz")
	assert.Contains(t, m.View(), "1 pending")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	m, cmd = m.Update(cmd())
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "marked read")

	m, _ = m.Update(cmd())
	assert.Contains(t, m.View(), "0 pending")
}

func TestNotificationsModel_Back(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := view.NewNotificationsModel(view.NewMockNotifications(ctrl), admin)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, view.BackMsg{}, cmd())
}

func TestCashModel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var counts denomination.Availability
	counts[1] = 3

	svc := view.NewMockTreasury(ctrl)
	svc.EXPECT().Availability(gomock.Any()).Return(&treasury.Cash{
		Counts:     counts,
		Total:      counts.Total(),
		ComputedAt: time.Now(),
	}, nil)
	svc.EXPECT().Summary(gomock.Any(), nil, nil).Return(&treasury.Summary{
		Balance:       decimal.NewFromInt(90000),
		Threshold:     decimal.NewFromInt(100000),
		LowBalance:    true,
		TotalIngress:  decimal.NewFromInt(150000),
		TotalEgress:   decimal.NewFromInt(60000),
		MovementCount: 2,
	}, nil)

	var m tea.Model = view.NewCashModel(svc)
	m, _ = m.Update(m.Init()())

	out := m.View()
	assert.Contains(t, out, "Cash in safe: $150,000")
	assert.Contains(t, out, "below minimum of $100,000")
	assert.Contains(t, out, "$50,000 bills")
}

func TestCashModel_LoadError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := view.NewMockTreasury(ctrl)
	svc.EXPECT().Availability(gomock.Any()).Return(nil, apperr.Internal("computing cash availability", errors.New("db down")))

	var m tea.Model = view.NewCashModel(svc)
	m, _ = m.Update(m.Init()())

	assert.Contains(t, m.View(), "Error: internal error")
	assert.NotContains(t, m.View(), "db down")
}

func TestEgressModel_EscLeavesDetails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := view.NewEgressModel(view.NewMockTreasury(ctrl), admin)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, view.BackMsg{}, cmd())
}
