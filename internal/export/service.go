package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cdapos/internal/apperr"
	"github.com/MrJamesThe3rd/cdapos/internal/auth"
	"github.com/MrJamesThe3rd/cdapos/internal/denomination"
	"github.com/MrJamesThe3rd/cdapos/internal/encoding"
	"github.com/MrJamesThe3rd/cdapos/internal/till"
	"github.com/MrJamesThe3rd/cdapos/internal/treasury"
)

const timeLayout = "2006-01-02 15:04"

//go:generate mockgen -source=service.go -destination=tills_mock.go -package=export
type Tills interface {
	Get(ctx context.Context, id uuid.UUID, actor auth.Actor) (*till.Detail, error)
}

// BreakdownLine is one counted denomination of a close receipt.
type BreakdownLine struct {
	Label    string          `json:"label"`
	Count    int64           `json:"count"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Report is everything printed on a till close receipt.
type Report struct {
	Till        *till.Till
	Summary     *till.Summary
	Movements   []*till.Movement
	Breakdown   []BreakdownLine
	GeneratedAt time.Time
}

// Service renders downloadable reports of tills and the treasury ledger.
type Service struct {
	tills Tills
	loc   *time.Location
	now   func() time.Time
}

func NewService(tills Tills, loc *time.Location, now func() time.Time) *Service {
	if loc == nil {
		loc = time.UTC
	}

	if now == nil {
		now = time.Now
	}

	return &Service{tills: tills, loc: loc, now: now}
}

// TillReport builds the receipt of a closed till. Visibility follows the till service.
func (s *Service) TillReport(ctx context.Context, tillID uuid.UUID, actor auth.Actor) (*Report, error) {
	detail, err := s.tills.Get(ctx, tillID, actor)
	if err != nil {
		return nil, err
	}

	if detail.Till.IsOpen() {
		return nil, apperr.Validation("till %s is still open", tillID)
	}

	r := &Report{
		Till:        detail.Till,
		Summary:     detail.Summary,
		Movements:   detail.Movements,
		GeneratedAt: s.now(),
	}

	if b := detail.Till.Breakdown; b != nil {
		for i, n := range b {
			if n == 0 {
				continue
			}

			d := denomination.Table[i]
			r.Breakdown = append(r.Breakdown, BreakdownLine{
				Label:    d.Label(),
				Count:    n,
				Subtotal: decimal.NewFromInt(n * d.Value),
			})
		}
	}

	return r, nil
}

// WriteTillCSV writes the receipt as three blocks separated by a blank row:
// the till figures, the movements and the breakdown.
func (s *Service) WriteTillCSV(w io.Writer, r *Report, charset encoding.Charset) error {
	t := r.Till

	closedAt := ""
	if t.ClosedAt != nil {
		closedAt = s.format(*t.ClosedAt)
	}

	rows := [][]string{
		{"till", t.ID.String()},
		{"operator", t.OperatorName},
		{"shift", string(t.Shift)},
		{"opened_at", s.format(t.OpenedAt)},
		{"closed_at", closedAt},
		{"opening_amount", amount(t.OpeningAmount)},
		{"system_balance", amount(t.SystemBalance)},
		{"physical_balance", amount(t.PhysicalBalance)},
		{"difference", amount(t.Difference)},
		{"notes", t.Notes},
		{},
		{"created_at", "category", "method", "description", "amount", "affects_cash"},
	}

	for _, m := range r.Movements {
		rows = append(rows, []string{
			s.format(m.CreatedAt),
			string(m.Category),
			string(m.Method),
			m.Description,
			amount(m.Amount),
			strconv.FormatBool(m.AffectsCash),
		})
	}

	rows = append(rows, []string{}, []string{"denomination", "count", "subtotal"})
	for _, line := range r.Breakdown {
		rows = append(rows, []string{line.Label, strconv.FormatInt(line.Count, 10), amount(line.Subtotal)})
	}

	if err := writeCSV(w, charset, rows); err != nil {
		return fmt.Errorf("writing till csv: %w", err)
	}

	return nil
}

// WriteTreasuryCSV writes one row per ledger movement with its voucher number.
func (s *Service) WriteTreasuryCSV(w io.Writer, movements []*treasury.Movement, charset encoding.Charset) error {
	rows := make([][]string, 0, len(movements)+1)
	rows = append(rows, []string{
		"movement_at", "type", "category", "method", "description", "amount", "voucher", "origin_till",
	})

	for _, m := range movements {
		origin := ""
		if m.OriginTillID != nil {
			origin = m.OriginTillID.String()
		}

		rows = append(rows, []string{
			s.format(m.MovementAt),
			string(m.Type),
			string(m.Category),
			string(m.Method),
			m.Description,
			amount(m.Amount),
			VoucherNumber(m),
			origin,
		})
	}

	if err := writeCSV(w, charset, rows); err != nil {
		return fmt.Errorf("writing treasury csv: %w", err)
	}

	return nil
}

// VoucherNumber returns the recorded voucher, or a derived "EGR-" number for egress without one.
func VoucherNumber(m *treasury.Movement) string {
	if m.VoucherNumber != "" {
		return m.VoucherNumber
	}

	if m.Type != treasury.TypeEgress {
		return ""
	}

	return "EGR-" + strings.ToUpper(m.ID.String()[:8])
}

func writeCSV(w io.Writer, charset encoding.Charset, rows [][]string) error {
	out := encoding.NewWriter(w, charset)

	cw := csv.NewWriter(out)
	cw.Comma = ';'

	if err := cw.WriteAll(rows); err != nil {
		return err
	}

	return out.Close()
}

func (s *Service) format(t time.Time) string {
	return t.In(s.loc).Format(timeLayout)
}

func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
