// Package denomination models the Colombian peso bill and coin set used to count cash.
package denomination

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MrJamesThe3rd/cdapos/internal/apperr"
)

// Kind tells bills and coins apart. The 1000 peso value exists as both.
type Kind string

const (
	KindBill Kind = "bill"
	KindCoin Kind = "coin"
)

type Denomination struct {
	Key   string
	Value int64
	Kind  Kind
}

// Label is the human name, e.g. "50,000 bills".
func (d Denomination) Label() string {
	return fmt.Sprintf("%s %ss", FormatPesos(d.Value), d.Kind)
}

// Count is the number of denominations in Table.
const Count = 12

// Table is ordered from the highest face value to the lowest, bills before coins.
var Table = [Count]Denomination{
	{Key: "bills_100000", Value: 100000, Kind: KindBill},
	{Key: "bills_50000", Value: 50000, Kind: KindBill},
	{Key: "bills_20000", Value: 20000, Kind: KindBill},
	{Key: "bills_10000", Value: 10000, Kind: KindBill},
	{Key: "bills_5000", Value: 5000, Kind: KindBill},
	{Key: "bills_2000", Value: 2000, Kind: KindBill},
	{Key: "bills_1000", Value: 1000, Kind: KindBill},
	{Key: "coins_1000", Value: 1000, Kind: KindCoin},
	{Key: "coins_500", Value: 500, Kind: KindCoin},
	{Key: "coins_200", Value: 200, Kind: KindCoin},
	{Key: "coins_100", Value: 100, Kind: KindCoin},
	{Key: "coins_50", Value: 50, Kind: KindCoin},
}

var indexByKey = func() map[string]int {
	m := make(map[string]int, Count)
	for i, d := range Table {
		m[d.Key] = i
	}

	return m
}()

// Breakdown holds one count per entry of Table, in the same order.
type Breakdown [Count]int64

// MaxCount caps a single denomination count. At the cap a full breakdown stays
// well inside int64 and the NUMERIC(14, 2) total columns.
const MaxCount = 1_000_000

// Validate rejects negative counts and counts above MaxCount.
func (b Breakdown) Validate() error {
	for i, n := range b {
		if n < 0 {
			return apperr.Validation("%s count cannot be negative (got %d)", Table[i].Key, n)
		}

		if n > MaxCount {
			return apperr.Validation("%s count cannot exceed %d (got %d)", Table[i].Key, MaxCount, n)
		}
	}

	return nil
}

// Total returns the monetary value of the breakdown. Counts are validated first, so the
// int64 sum cannot wrap.
func (b Breakdown) Total() (decimal.Decimal, error) {
	if err := b.Validate(); err != nil {
		return decimal.Zero, err
	}

	return decimal.NewFromInt(b.sum()), nil
}

func (b Breakdown) sum() int64 {
	var total int64
	for i, n := range b {
		total += n * Table[i].Value
	}

	return total
}

func (b Breakdown) IsZero() bool {
	return b == Breakdown{}
}

// Map returns the counts keyed by denomination key.
func (b Breakdown) Map() map[string]int64 {
	m := make(map[string]int64, Count)
	for i, n := range b {
		m[Table[i].Key] = n
	}

	return m
}

// FromMap builds a breakdown from keyed counts. Missing keys count as zero.
func FromMap(m map[string]int64) (Breakdown, error) {
	var b Breakdown

	for k, n := range m {
		i, ok := indexByKey[k]
		if !ok {
			return Breakdown{}, apperr.Validation("unknown denomination %q", k)
		}

		b[i] = n
	}

	return b, nil
}

func (b Breakdown) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Map())
}

func (b *Breakdown) UnmarshalJSON(data []byte) error {
	var m map[string]int64
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	parsed, err := FromMap(m)
	if err != nil {
		return err
	}

	*b = parsed

	return nil
}

var printer = message.NewPrinter(language.English)

// FormatPesos renders an integer amount with thousands separators and a dollar sign, e.g. $255,652.
func FormatPesos(amount int64) string {
	if amount < 0 {
		return printer.Sprintf("-$%d", -amount)
	}

	return printer.Sprintf("$%d", amount)
}

// FormatAmount rounds a decimal amount to whole pesos and formats it like FormatPesos.
func FormatAmount(amount decimal.Decimal) string {
	return FormatPesos(amount.Round(0).IntPart())
}
