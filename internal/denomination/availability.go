package denomination

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Availability is a signed running count per denomination, built by replaying
// breakdowns of ledger movements: ingress adds, egress subtracts.
type Availability [Count]int64

// Add applies b with the given sign (+1 for ingress, -1 for egress).
func (a *Availability) Add(b Breakdown, sign int) {
	s := int64(1)
	if sign < 0 {
		s = -1
	}

	for i, n := range b {
		a[i] += n * s
	}
}

// Total is the cash value represented by the counts. Replayed counts are not bounded
// per row, so the sum is taken in decimal.
func (a Availability) Total() decimal.Decimal {
	total := decimal.Zero
	for i, n := range a {
		total = total.Add(decimal.NewFromInt(n).Mul(decimal.NewFromInt(Table[i].Value)))
	}

	return total
}

func (a Availability) Map() map[string]int64 {
	m := make(map[string]int64, Count)
	for i, n := range a {
		m[Table[i].Key] = n
	}

	return m
}

type Shortfall struct {
	Denomination Denomination
	Requested    int64
	Available    int64
}

func (s Shortfall) String() string {
	return fmt.Sprintf("%s: requested %d but only %d available", s.Denomination.Label(), s.Requested, s.Available)
}

// Shortfalls lists every denomination where requested exceeds what is available.
func (a Availability) Shortfalls(requested Breakdown) []Shortfall {
	var out []Shortfall

	for i, n := range requested {
		if n > a[i] {
			out = append(out, Shortfall{Denomination: Table[i], Requested: n, Available: a[i]})
		}
	}

	return out
}

// Suggestion is an advisory composition of Target from available counts.
type Suggestion struct {
	Target    int64
	Breakdown Breakdown
	Remainder int64
}

// OK reports whether the composition reaches Target exactly.
func (s Suggestion) OK() bool {
	return s.Remainder == 0
}

// Lines describes the composition one denomination per line, or the unreachable remainder.
func (s Suggestion) Lines() []string {
	if !s.OK() {
		return []string{fmt.Sprintf(
			"Cannot compose %s with the available denominations. Missing %s.",
			FormatPesos(s.Target), FormatPesos(s.Remainder),
		)}
	}

	var lines []string

	for i, n := range s.Breakdown {
		if n > 0 {
			lines = append(lines, fmt.Sprintf("%d × %s", n, Table[i].Label()))
		}
	}

	return lines
}

func (s Suggestion) String() string {
	return strings.Join(s.Lines(), "\n")
}

// Suggest composes target greedily from the highest face value down, never taking more
// of a denomination than is available. Negative availability counts as none.
func Suggest(target int64, available Availability) Suggestion {
	s := Suggestion{Target: target}
	remaining := target

	for i, d := range Table {
		if remaining <= 0 {
			break
		}

		have := available[i]
		if have <= 0 {
			continue
		}

		take := min(have, remaining/d.Value)
		if take == 0 {
			continue
		}

		s.Breakdown[i] = take
		remaining -= take * d.Value
	}

	s.Remainder = remaining

	return s
}
