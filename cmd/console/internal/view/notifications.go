package view

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cdapos/internal/auth"
	"github.com/MrJamesThe3rd/cdapos/internal/denomination"
	"github.com/MrJamesThe3rd/cdapos/internal/notification"
)

//go:generate mockgen -source=notifications.go -destination=notifications_mock.go -package=view
type Notifications interface {
	List(ctx context.Context, state notification.State, limit int) ([]*notification.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID, reviewer auth.Actor) (*notification.Notification, error)
	Archive(ctx context.Context, id uuid.UUID, reviewer auth.Actor) (*notification.Notification, error)
}

const notificationLimit = 100

type NotificationsModel struct {
	CommonModel
	svc   Notifications
	actor auth.Actor

	table   table.Model
	items   []*notification.Notification
	loading bool
	err     error
	status  string
}

func NewNotificationsModel(svc Notifications, actor auth.Actor) NotificationsModel {
	columns := []table.Column{
		{Title: "Closed", Width: 17},
		{Title: "Shift", Width: 9},
		{Title: "Operator", Width: 20},
		{Title: "To deliver", Width: 13},
		{Title: "Difference", Width: 12},
		{Title: "Notes", Width: 30},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return NotificationsModel{svc: svc, actor: actor, table: t, loading: true}
}

func (m NotificationsModel) Title() string { return "Till Close Notifications" }

func (m NotificationsModel) ShortHelp() string {
	return "Esc: back | Enter: mark read | a: archive | r: refresh"
}

func (m NotificationsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m NotificationsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadNotificationsMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.items = msg.items
			m.refreshTable()
		}

		return m, nil

	case notificationUpdatedMsg:
		if msg.err != nil {
			m.status = strings.Join(ErrorLines(msg.err), "\n")
			return m, nil
		}

		m.status = msg.status

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "enter":
			return m, m.transitionCmd(notification.StateRead)
		case "a":
			return m, m.transitionCmd(notification.StateArchived)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m NotificationsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading notifications...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(strings.Join(ErrorLines(m.err), "\n")))
	}

	header := fmt.Sprintf("%s  %s", m.Title(), accentStyle.Render(fmt.Sprintf("%d pending", len(m.items))))

	body := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		body,
		faintStyle.Render(m.ShortHelp()),
	)

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *NotificationsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.items))
	for _, n := range m.items {
		rows = append(rows, table.Row{
			n.ClosedAt.Local().Format("2006-01-02 15:04"),
			n.Shift,
			n.OperatorName,
			denomination.FormatAmount(n.CashToDeliver),
			denomination.FormatAmount(n.Difference),
			n.Notes,
		})
	}

	m.table.SetRows(rows)
}

type loadNotificationsMsg struct {
	items []*notification.Notification
	err   error
}

func (m NotificationsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		items, err := m.svc.List(ctx, notification.StatePending, notificationLimit)

		return loadNotificationsMsg{items: items, err: err}
	}
}

type notificationUpdatedMsg struct {
	status string
	err    error
}

func (m NotificationsModel) transitionCmd(to notification.State) tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.items) {
		return nil
	}

	n := m.items[idx]

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var err error
		if to == notification.StateArchived {
			_, err = m.svc.Archive(ctx, n.ID, m.actor)
		} else {
			_, err = m.svc.MarkRead(ctx, n.ID, m.actor)
		}

		if err != nil {
			return notificationUpdatedMsg{err: err}
		}

		return notificationUpdatedMsg{status: fmt.Sprintf("%s till of %s marked %s", n.Shift, n.OperatorName, to)}
	}
}
