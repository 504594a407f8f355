package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cdapos/internal/auth"
	"github.com/MrJamesThe3rd/cdapos/internal/database/databasetest"
	"github.com/MrJamesThe3rd/cdapos/internal/denomination"
	"github.com/MrJamesThe3rd/cdapos/internal/notification"
	"github.com/MrJamesThe3rd/cdapos/internal/payment"
	"github.com/MrJamesThe3rd/cdapos/internal/till"
	"github.com/MrJamesThe3rd/cdapos/internal/till/store"
)

func TestStore_TillLifecycle(t *testing.T) {
	db := databasetest.Open(t)
	ctx := context.Background()
	s := store.New(db)

	cashier := databasetest.User(t, db, auth.RoleCashier)

	open := &till.Till{
		OperatorID:    cashier.ID,
		OperatorName:  cashier.Name,
		Shift:         till.ShiftMorning,
		State:         till.StateOpen,
		OpeningAmount: decimal.NewFromInt(200000),
	}
	require.NoError(t, s.CreateTill(ctx, open))

	second := *open
	require.ErrorIs(t, s.CreateTill(ctx, &second), till.ErrAlreadyOpen)

	active, err := s.ActiveTill(ctx, cashier.ID)
	require.NoError(t, err)
	assert.Equal(t, open.ID, active.ID)
	assert.Nil(t, active.Breakdown)

	fee := &till.Movement{
		TillID:      open.ID,
		Category:    till.CategoryServiceFee,
		Amount:      decimal.NewFromInt(255650),
		Method:      payment.MethodCash,
		Description: "RTM ABC123",
		AffectsCash: true,
		CreatedBy:   cashier.ID,
	}
	require.NoError(t, s.CreateMovement(ctx, fee))

	tx, err := s.BeginClose(ctx, open.ID)
	require.NoError(t, err)

	movements, err := tx.Movements(ctx)
	require.NoError(t, err)
	require.Len(t, movements, 1)

	var b denomination.Breakdown
	b[0] = 4
	b[1] = 1
	b[8] = 1
	b[10] = 1
	b[11] = 1

	total, err := b.Total()
	require.NoError(t, err)

	closedAt := time.Now().UTC().Truncate(time.Second)
	open.ClosedAt = &closedAt
	open.SystemBalance = till.ExpectedBalance(open.OpeningAmount, movements)
	open.PhysicalBalance = total
	open.Difference = total.Sub(open.SystemBalance)

	require.NoError(t, tx.CloseTill(ctx, open))
	require.NoError(t, tx.InsertBreakdown(ctx, open.ID, b, total))
	require.NoError(t, tx.InsertNotification(ctx, &notification.Notification{
		TillID:          open.ID,
		Shift:           string(open.Shift),
		OperatorName:    open.OperatorName,
		ClosedAt:        closedAt,
		CashToDeliver:   total,
		SystemBalance:   open.SystemBalance,
		PhysicalBalance: total,
		Difference:      open.Difference,
		State:           notification.StatePending,
	}))
	require.NoError(t, tx.Commit())

	closed, err := s.LastClosed(ctx, cashier.ID)
	require.NoError(t, err)
	assert.Equal(t, till.StateClosed, closed.State)
	assert.Equal(t, 1, closed.MovementCount)
	require.NotNil(t, closed.Breakdown)
	assert.Equal(t, b, *closed.Breakdown)
	assert.True(t, closed.SystemBalance.Equal(decimal.NewFromInt(455650)), "system balance %s", closed.SystemBalance)

	late := *fee
	require.ErrorIs(t, s.CreateMovement(ctx, &late), till.ErrAlreadyClosed)

	_, err = s.BeginClose(ctx, open.ID)
	require.ErrorIs(t, err, till.ErrAlreadyClosed)

	_, err = s.ActiveTill(ctx, cashier.ID)
	require.ErrorIs(t, err, till.ErrNotFound)
}

func TestStore_History(t *testing.T) {
	db := databasetest.Open(t)
	ctx := context.Background()
	s := store.New(db)

	cashier := databasetest.User(t, db, auth.RoleCashier)

	tl := &till.Till{
		OperatorID:    cashier.ID,
		OperatorName:  cashier.Name,
		Shift:         till.ShiftNight,
		State:         till.StateOpen,
		OpeningAmount: decimal.Zero,
	}
	require.NoError(t, s.CreateTill(ctx, tl))

	got, err := s.History(ctx, till.HistoryFilter{OperatorID: &cashier.ID, Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, tl.ID, got[0].ID)
	assert.Equal(t, till.ShiftNight, got[0].Shift)
}

func TestStore_MovementWaitsForClose(t *testing.T) {
	db := databasetest.Open(t)
	ctx := context.Background()
	s := store.New(db)

	cashier := databasetest.User(t, db, auth.RoleCashier)

	open := &till.Till{
		OperatorID:    cashier.ID,
		OperatorName:  cashier.Name,
		Shift:         till.ShiftAfternoon,
		State:         till.StateOpen,
		OpeningAmount: decimal.Zero,
	}
	require.NoError(t, s.CreateTill(ctx, open))

	tx, err := s.BeginClose(ctx, open.ID)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- s.CreateMovement(ctx, &till.Movement{
			TillID:      open.ID,
			Category:    till.CategoryExpense,
			Amount:      decimal.NewFromInt(-12000),
			Method:      payment.MethodCash,
			Description: "cleaning supplies",
			AffectsCash: true,
			CreatedBy:   cashier.ID,
		})
	}()

	select {
	case err := <-done:
		t.Fatalf("movement finished while the close held the till: %v", err)
	case <-time.After(300 * time.Millisecond):
	}

	closedAt := time.Now().UTC()
	open.ClosedAt = &closedAt
	require.NoError(t, tx.CloseTill(ctx, open))
	require.NoError(t, tx.Commit())

	select {
	case err := <-done:
		require.ErrorIs(t, err, till.ErrAlreadyClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("movement still blocked after the close committed")
	}

	movements, err := s.ListMovements(ctx, open.ID)
	require.NoError(t, err)
	assert.Empty(t, movements)
}
