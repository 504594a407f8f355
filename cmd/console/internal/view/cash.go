package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cdapos/internal/denomination"
	"github.com/MrJamesThe3rd/cdapos/internal/treasury"
)

//go:generate mockgen -source=cash.go -destination=treasury_mock.go -package=view
type Treasury interface {
	Availability(ctx context.Context) (*treasury.Cash, error)
	Summary(ctx context.Context, from, to *time.Time) (*treasury.Summary, error)
	Suggest(ctx context.Context, target decimal.Decimal) (denomination.Suggestion, error)
	Record(ctx context.Context, params treasury.RecordParams) (*treasury.Movement, error)
}

type CashModel struct {
	CommonModel
	svc Treasury

	table   table.Model
	cash    *treasury.Cash
	summary *treasury.Summary
	loading bool
	err     error
}

func NewCashModel(svc Treasury) CashModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Denomination", Width: 18},
			{Title: "Count", Width: 8},
			{Title: "Subtotal", Width: 14},
		}),
		table.WithHeight(denomination.Count+1),
	)

	return CashModel{svc: svc, table: t, loading: true}
}

func (m CashModel) Title() string     { return "Cash on Hand" }
func (m CashModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m CashModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m CashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadCashMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.cash = msg.cash
			m.summary = msg.summary
			m.table.SetRows(cashRows(msg.cash.Counts))
		}

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	return m, nil
}

func (m CashModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Counting the safe...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(strings.Join(ErrorLines(m.err), "\n")))
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Cash in safe: %s\n", accentStyle.Render(denomination.FormatAmount(m.cash.Total)))
	fmt.Fprintf(&b, "Ledger balance: %s", denomination.FormatAmount(m.summary.Balance))

	if m.summary.LowBalance {
		fmt.Fprintf(&b, "  %s", errorStyle.Render(fmt.Sprintf("below minimum of %s", denomination.FormatAmount(m.summary.Threshold))))
	}

	fmt.Fprintf(&b, "\nThis month: +%s / -%s in %d movements",
		denomination.FormatAmount(m.summary.TotalIngress),
		denomination.FormatAmount(m.summary.TotalEgress),
		m.summary.MovementCount,
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(b.String()),
		lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View()),
		faintStyle.Render(fmt.Sprintf("Computed %s | %s", m.cash.ComputedAt.Local().Format("15:04:05"), m.ShortHelp())),
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// cashRows lists every denomination. Negative counts are kept visible since they flag a ledger inconsistency.
func cashRows(counts denomination.Availability) []table.Row {
	rows := make([]table.Row, 0, denomination.Count)
	for i, d := range denomination.Table {
		rows = append(rows, table.Row{
			d.Label(),
			fmt.Sprintf("%d", counts[i]),
			denomination.FormatPesos(counts[i] * d.Value),
		})
	}

	return rows
}

type loadCashMsg struct {
	cash    *treasury.Cash
	summary *treasury.Summary
	err     error
}

func (m CashModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		cash, err := m.svc.Availability(ctx)
		if err != nil {
			return loadCashMsg{err: err}
		}

		summary, err := m.svc.Summary(ctx, nil, nil)
		if err != nil {
			return loadCashMsg{err: err}
		}

		return loadCashMsg{cash: cash, summary: summary}
	}
}
