package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cdapos/internal/apperr"
	"github.com/MrJamesThe3rd/cdapos/internal/auth"
	"github.com/MrJamesThe3rd/cdapos/internal/denomination"
	"github.com/MrJamesThe3rd/cdapos/internal/treasury"
)

type egressState int

const (
	egressStateDetails egressState = iota
	egressStateSuggesting
	egressStateCounts
	egressStateSaving
	egressStateResult
)

// egressInput holds the values bound to the huh fields.
type egressInput struct {
	category    string
	amount      string
	description string
	counts      [denomination.Count]string
	confirm     bool
}

type EgressModel struct {
	CommonModel
	svc   Treasury
	actor auth.Actor

	state      egressState
	input      *egressInput
	form       *huh.Form
	suggestion *denomination.Suggestion
	movement   *treasury.Movement
	err        error
}

func NewEgressModel(svc Treasury, actor auth.Actor) EgressModel {
	m := EgressModel{svc: svc, actor: actor, input: &egressInput{}}
	m.form = m.buildDetailsForm()

	return m
}

func (m EgressModel) Title() string { return "Cash Egress" }

func (m EgressModel) ShortHelp() string {
	switch m.state {
	case egressStateCounts:
		return "Esc: edit details | Enter: next"
	case egressStateResult:
		return "Esc: back to menu | n: new egress"
	}

	return "Esc: back | Enter: next"
}

func (m EgressModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m EgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case suggestionMsg:
		return m.applySuggestion(msg)
	case egressRecordedMsg:
		m.state = egressStateResult
		m.movement = msg.movement
		m.err = msg.err

		return m, nil
	}

	switch m.state {
	case egressStateDetails:
		if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
			return m, Back
		}

		return m.updateForm(msg, func(m EgressModel) (tea.Model, tea.Cmd) {
			m.state = egressStateSuggesting
			return m, m.suggestCmd()
		})

	case egressStateCounts:
		if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
			m.state = egressStateDetails
			m.form = m.buildDetailsForm()

			return m, m.form.Init()
		}

		return m.updateForm(msg, func(m EgressModel) (tea.Model, tea.Cmd) {
			if !m.input.confirm {
				return m, Back
			}

			m.state = egressStateSaving

			return m, m.recordCmd()
		})

	case egressStateResult:
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "esc":
				return m, Back
			case "n":
				fresh := NewEgressModel(m.svc, m.actor)
				return fresh, fresh.Init()
			}
		}
	}

	return m, nil
}

func (m EgressModel) updateForm(msg tea.Msg, done func(EgressModel) (tea.Model, tea.Cmd)) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return done(m)
}

func (m EgressModel) applySuggestion(msg suggestionMsg) (tea.Model, tea.Cmd) {
	m.suggestion = nil

	if msg.err == nil {
		m.suggestion = &msg.suggestion

		for i := range m.input.counts {
			m.input.counts[i] = "0"
			if msg.suggestion.OK() {
				m.input.counts[i] = strconv.FormatInt(msg.suggestion.Breakdown[i], 10)
			}
		}
	}

	m.input.confirm = true
	m.state = egressStateCounts
	m.form = m.buildCountsForm()

	return m, m.form.Init()
}

func (m EgressModel) buildDetailsForm() *huh.Form {
	options := make([]huh.Option[string], 0)
	for _, c := range treasury.Categories()[treasury.TypeEgress] {
		options = append(options, huh.NewOption(strings.ReplaceAll(string(c), "_", " "), string(c)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(options...).
				Value(&m.input.category),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("255650").
				Value(&m.input.amount).
				Validate(func(s string) error {
					_, err := ParseAmount(s)
					return err
				}),

			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&m.input.description).
				Validate(func(s string) error {
					if len([]rune(strings.TrimSpace(s))) < 5 {
						return errors.New("description must be at least 5 characters")
					}

					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m EgressModel) buildCountsForm() *huh.Form {
	var bills, coins []huh.Field

	for i, d := range denomination.Table {
		field := huh.NewInput().
			Key(d.Key).
			Title(d.Label()).
			Value(&m.input.counts[i]).
			Validate(validateCount)

		if d.Kind == denomination.KindBill {
			bills = append(bills, field)
		} else {
			coins = append(coins, field)
		}
	}

	coins = append(coins, huh.NewConfirm().
		Key("confirm").
		Title("Record this egress?").
		Affirmative("Record").
		Negative("Cancel").
		Value(&m.input.confirm))

	return huh.NewForm(
		huh.NewGroup(bills...).Title("Bills"),
		huh.NewGroup(coins...).Title("Coins"),
	).WithWidth(40).WithShowHelp(false)
}

func validateCount(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 {
		return errors.New("enter a whole number, 0 or more")
	}

	return nil
}

// ParseAmount reads a whole peso amount. Thousands separators and a leading $ are ignored.
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := strings.NewReplacer("$", "", ",", "", ".", "", " ", "").Replace(s)

	n, err := strconv.ParseInt(clean, 10, 64)
	if err != nil || n <= 0 {
		return decimal.Zero, apperr.Validation("enter a whole amount greater than 0")
	}

	return decimal.NewFromInt(n), nil
}

// ParseCounts turns the form values into a breakdown. Blank fields count as zero.
func ParseCounts(values [denomination.Count]string) (denomination.Breakdown, error) {
	var b denomination.Breakdown

	for i, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}

		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return b, apperr.Validation("%s: invalid count %q", denomination.Table[i].Label(), v)
		}

		b[i] = n
	}

	return b, nil
}

func (m EgressModel) View() string {
	title := lipgloss.NewStyle().Bold(true).PaddingBottom(1).Render(m.Title())

	switch m.state {
	case egressStateDetails:
		return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, m.form.View(), faintStyle.Render(m.ShortHelp()),
		))

	case egressStateSuggesting:
		return lipgloss.NewStyle().Padding(1).Render("Checking the safe...")

	case egressStateCounts:
		return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.JoinVertical(lipgloss.Left, title, m.form.View(), faintStyle.Render(m.ShortHelp())),
			m.viewSuggestion(),
		))

	case egressStateSaving:
		return lipgloss.NewStyle().Padding(1).Render("Recording egress...")

	case egressStateResult:
		return m.viewResult()
	}

	return ""
}

func (m EgressModel) viewSuggestion() string {
	if m.suggestion == nil {
		return ""
	}

	body := "Suggested composition:\n\n" + m.suggestion.String()

	return lipgloss.NewStyle().
		Padding(1, 2).
		MarginLeft(2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(48).
		Render(body)
}

func (m EgressModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
			errorStyle.Render(strings.Join(ErrorLines(m.err), "\n")),
			"",
			faintStyle.Render(m.ShortHelp()),
		))
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		okStyle.Render("Egress recorded"),
		"",
		fmt.Sprintf("Amount: %s", denomination.FormatAmount(m.movement.Amount.Abs())),
		fmt.Sprintf("Category: %s", m.movement.Category),
		fmt.Sprintf("At: %s", m.movement.MovementAt.Local().Format("2006-01-02 15:04")),
		"",
		faintStyle.Render(m.ShortHelp()),
	))
}

type suggestionMsg struct {
	suggestion denomination.Suggestion
	err        error
}

func (m EgressModel) suggestCmd() tea.Cmd {
	amount, _ := ParseAmount(m.input.amount)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		s, err := m.svc.Suggest(ctx, amount)

		return suggestionMsg{suggestion: s, err: err}
	}
}

type egressRecordedMsg struct {
	movement *treasury.Movement
	err      error
}

func (m EgressModel) recordCmd() tea.Cmd {
	in := *m.input

	return func() tea.Msg {
		amount, err := ParseAmount(in.amount)
		if err != nil {
			return egressRecordedMsg{err: err}
		}

		breakdown, err := ParseCounts(in.counts)
		if err != nil {
			return egressRecordedMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		mv, err := m.svc.Record(ctx, treasury.RecordParams{
			Operator:    m.actor,
			Type:        treasury.TypeEgress,
			Category:    treasury.Category(in.category),
			Amount:      amount,
			Description: in.description,
			Method:      treasury.MethodCash,
			Breakdown:   &breakdown,
		})

		return egressRecordedMsg{movement: mv, err: err}
	}
}
