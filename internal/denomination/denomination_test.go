package denomination_test

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cdapos/internal/apperr"
	"github.com/MrJamesThe3rd/cdapos/internal/denomination"
)

func randomBreakdown(r *rand.Rand, maxCount int64) denomination.Breakdown {
	var b denomination.Breakdown
	for i := range b {
		b[i] = r.Int64N(maxCount + 1)
	}

	return b
}

func TestBreakdown_Total_IsExactSum(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 7))

	for range 500 {
		b := randomBreakdown(r, 1000)

		var want int64
		for i, n := range b {
			want += n * denomination.Table[i].Value
		}

		got, err := b.Total()
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.NewFromInt(want)), "breakdown %v: got %s want %d", b, got, want)
	}
}

func TestBreakdown_Total(t *testing.T) {
	tests := []struct {
		name    string
		counts  map[string]int64
		want    int64
		wantErr bool
	}{
		{
			name:   "Empty",
			counts: map[string]int64{},
			want:   0,
		},
		{
			name:   "BillAndCoinThousandsAreSeparate",
			counts: map[string]int64{"bills_1000": 2, "coins_1000": 3},
			want:   5000,
		},
		{
			name: "MixedBillsAndCoins",
			counts: map[string]int64{
				"bills_100000": 2, "bills_50000": 1, "bills_5000": 1,
				"coins_500": 1, "coins_100": 1, "coins_50": 1,
			},
			want: 255650,
		},
		{
			name:   "EveryCountAtCeiling",
			counts: map[string]int64{"bills_100000": denomination.MaxCount, "coins_50": denomination.MaxCount},
			want:   100050 * denomination.MaxCount,
		},
		{
			name:    "CountThatWouldWrapInt64",
			counts:  map[string]int64{"bills_100000": 184467440737096},
			wantErr: true,
		},
		{
			name:    "CountJustAboveCeiling",
			counts:  map[string]int64{"coins_50": denomination.MaxCount + 1},
			wantErr: true,
		},
		{
			name:    "NegativeCount",
			counts:  map[string]int64{"bills_50000": 3, "coins_200": -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := denomination.FromMap(tt.counts)
			require.NoError(t, err)

			got, err := b.Total()
			if tt.wantErr {
				assert.ErrorIs(t, err, apperr.ErrValidation)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.IntPart())
		})
	}
}

func TestFromMap_UnknownKey(t *testing.T) {
	_, err := denomination.FromMap(map[string]int64{"bills_7000": 1})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestBreakdown_JSON(t *testing.T) {
	var b denomination.Breakdown
	require.NoError(t, json.Unmarshal([]byte(`{"bills_50000": 3, "coins_50": 2}`), &b))

	assert.Equal(t, int64(3), b[1])
	assert.Equal(t, int64(2), b[11])

	total, err := b.Total()
	require.NoError(t, err)
	assert.Equal(t, int64(150100), total.IntPart())

	err = json.Unmarshal([]byte(`{"bills_3": 1}`), &b)
	assert.Error(t, err)
}

func TestFormatPesos(t *testing.T) {
	tests := map[int64]string{
		0:       "$0",
		50:      "$50",
		1000:    "$1,000",
		255652:  "$255,652",
		-5652:   "-$5,652",
		1000000: "$1,000,000",
	}

	for in, want := range tests {
		assert.Equal(t, want, denomination.FormatPesos(in))
	}
}
