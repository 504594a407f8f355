package store_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cdapos/internal/auth"
	"github.com/MrJamesThe3rd/cdapos/internal/database/databasetest"
	"github.com/MrJamesThe3rd/cdapos/internal/sale"
	"github.com/MrJamesThe3rd/cdapos/internal/sale/store"
	"github.com/MrJamesThe3rd/cdapos/internal/tariff"
	"github.com/MrJamesThe3rd/cdapos/internal/till"
	tillstore "github.com/MrJamesThe3rd/cdapos/internal/till/store"
)

func openTill(t *testing.T, s *tillstore.Store, operator auth.User) *till.Till {
	t.Helper()

	tl := &till.Till{
		OperatorID:    operator.ID,
		OperatorName:  operator.Name,
		Shift:         till.ShiftMorning,
		State:         till.StateOpen,
		OpeningAmount: decimal.Zero,
	}
	require.NoError(t, s.CreateTill(context.Background(), tl))

	return tl
}

// queued builds a pending sale with a fresh plate, since tests share the database.
func queued(at *till.Till, by auth.User) *sale.Sale {
	return &sale.Sale{
		Plate:          strings.ToUpper(uuid.NewString()[:6]),
		VehicleType:    tariff.VehicleLightPrivate,
		ModelYear:      2019,
		ClientName:     "Ana Gómez",
		ClientDocument: "1020304050",
		InspectionFee:  decimal.NewFromInt(248710),
		Total:          decimal.NewFromInt(248710),
		State:          sale.StateRegistered,
		TillID:         &at.ID,
		RegisteredBy:   by.ID,
	}
}

func TestStore_CreateSale_WaitsForClose(t *testing.T) {
	db := databasetest.Open(t)
	ctx := context.Background()
	sales := store.New(db)
	tills := tillstore.New(db)

	cashier := databasetest.User(t, db, auth.RoleCashier)
	open := openTill(t, tills, cashier)

	tx, err := tills.BeginClose(ctx, open.ID)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- sales.CreateSale(ctx, queued(open, cashier))
	}()

	select {
	case err := <-done:
		t.Fatalf("sale finished while the close held the till: %v", err)
	case <-time.After(300 * time.Millisecond):
	}

	n, err := sales.CountPending(ctx, open.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	closedAt := time.Now().UTC()
	open.ClosedAt = &closedAt
	require.NoError(t, tx.CloseTill(ctx, open))
	require.NoError(t, tx.Commit())

	select {
	case err := <-done:
		require.ErrorIs(t, err, till.ErrAlreadyClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("sale still blocked after the close committed")
	}

	n, err = sales.CountPending(ctx, open.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_CreateSale_VisibleToClose(t *testing.T) {
	db := databasetest.Open(t)
	ctx := context.Background()
	sales := store.New(db)
	tills := tillstore.New(db)

	cashier := databasetest.User(t, db, auth.RoleCashier)
	open := openTill(t, tills, cashier)

	x := queued(open, cashier)
	require.NoError(t, sales.CreateSale(ctx, x))
	assert.NotEqual(t, uuid.Nil, x.ID)

	tx, err := tills.BeginClose(ctx, open.ID)
	require.NoError(t, err)
	defer tx.Rollback()

	n, err := sales.CountPending(ctx, open.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
