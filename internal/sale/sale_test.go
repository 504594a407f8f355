package sale_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cdapos/internal/apperr"
	"github.com/MrJamesThe3rd/cdapos/internal/payment"
	"github.com/MrJamesThe3rd/cdapos/internal/sale"
	"github.com/MrJamesThe3rd/cdapos/internal/till"
)

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestValidateAllocations(t *testing.T) {
	total := d(298710)

	tests := []struct {
		name        string
		allocations []sale.Allocation
		wantErr     bool
	}{
		{
			name:        "SingleMethod",
			allocations: []sale.Allocation{{Method: payment.MethodCash, Amount: total}},
		},
		{
			name: "Split",
			allocations: []sale.Allocation{
				{Method: payment.MethodCash, Amount: d(100000)},
				{Method: payment.MethodDebitCard, Amount: d(198710)},
			},
		},
		{
			name:    "Empty",
			wantErr: true,
		},
		{
			name:        "ShortOfTotal",
			allocations: []sale.Allocation{{Method: payment.MethodCash, Amount: d(298700)}},
			wantErr:     true,
		},
		{
			name: "DuplicateMethod",
			allocations: []sale.Allocation{
				{Method: payment.MethodCash, Amount: d(100000)},
				{Method: payment.MethodCash, Amount: d(198710)},
			},
			wantErr: true,
		},
		{
			name: "ZeroSlice",
			allocations: []sale.Allocation{
				{Method: payment.MethodCash, Amount: total},
				{Method: payment.MethodTransfer, Amount: decimal.Zero},
			},
			wantErr: true,
		},
		{
			name:        "MixedIsNotAMethod",
			allocations: []sale.Allocation{{Method: payment.Mixed, Amount: total}},
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sale.ValidateAllocations(tt.allocations, total)
			if tt.wantErr {
				assert.True(t, errors.Is(err, apperr.ErrValidation), "got %v", err)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestMovements_FeeFirstThenCommission(t *testing.T) {
	tillID, operatorID := uuid.New(), uuid.New()

	s := &sale.Sale{
		ID:            uuid.New(),
		Plate:         "ABC123",
		InspectionFee: d(248710),
		Commission:    d(50000),
		Total:         d(298710),
		Allocations: []sale.Allocation{
			{Method: payment.MethodCash, Amount: d(100000)},
			{Method: payment.MethodDebitCard, Amount: d(198710)},
		},
	}

	got := sale.Movements(s, tillID, operatorID)
	require.Len(t, got, 3)

	type slice struct {
		category till.Category
		method   payment.Method
		amount   string
		cash     bool
	}

	var slices []slice
	sum := decimal.Zero

	for _, m := range got {
		slices = append(slices, slice{m.Category, m.Method, m.Amount.String(), m.AffectsCash})
		sum = sum.Add(m.Amount)

		assert.Equal(t, tillID, m.TillID)
		assert.Equal(t, operatorID, m.CreatedBy)
		require.NotNil(t, m.SaleID)
		assert.Equal(t, s.ID, *m.SaleID)
	}

	assert.Equal(t, []slice{
		{till.CategoryServiceFee, payment.MethodCash, "100000", true},
		{till.CategoryServiceFee, payment.MethodDebitCard, "148710", false},
		{till.CategoryInsuranceCommission, payment.MethodDebitCard, "50000", false},
	}, slices)
	assert.True(t, sum.Equal(s.Total))
}

func TestMovements_NoCommission(t *testing.T) {
	s := &sale.Sale{
		ID:            uuid.New(),
		Plate:         "XYZ98F",
		InspectionFee: d(150000),
		Total:         d(150000),
		Allocations:   []sale.Allocation{{Method: payment.MethodTransfer, Amount: d(150000)}},
	}

	got := sale.Movements(s, uuid.New(), uuid.New())
	require.Len(t, got, 1)
	assert.Equal(t, till.CategoryServiceFee, got[0].Category)
	assert.False(t, got[0].AffectsCash)
}
