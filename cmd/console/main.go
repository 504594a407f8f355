package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/cdapos/cmd/console/internal/view"
	"github.com/MrJamesThe3rd/cdapos/internal/app"
	"github.com/MrJamesThe3rd/cdapos/internal/auth"
	"github.com/MrJamesThe3rd/cdapos/internal/config"
	"github.com/MrJamesThe3rd/cdapos/internal/database"
	"github.com/MrJamesThe3rd/cdapos/internal/logging"
	"github.com/MrJamesThe3rd/cdapos/internal/metrics"
)

type model struct {
	services *app.Services
	actor    auth.Actor
	title    string

	currentView View

	notificationsView view.NotificationsModel
	cashView          view.CashModel
	egressView        view.EgressModel
}

type View int

const (
	ViewMenu          View = 0
	ViewNotifications View = 1
	ViewCash          View = 2
	ViewEgress        View = 3
)

func initialModel() (model, func()) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Only warnings and errors are logged while the UI owns the terminal.
	logging.Setup("warn", cfg.App.LogFormat)

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	cache, closeCache := app.OpenCache(ctx, cfg)
	services := app.New(cfg, db, cache, metrics.New())

	if cfg.Console.OperatorEmail == "" {
		slog.Error("CONSOLE_OPERATOR_EMAIL is required")
		os.Exit(1)
	}

	actor, err := services.Auth.ActorByEmail(ctx, cfg.Console.OperatorEmail)
	if err != nil {
		slog.Error("failed to resolve console operator", "email", cfg.Console.OperatorEmail, "error", err)
		os.Exit(1)
	}

	if !actor.IsAdmin() {
		slog.Error("console operator must be an admin", "email", actor.Email, "role", actor.Role)
		os.Exit(1)
	}

	cleanup := func() {
		closeCache()
		db.Close()
	}

	return model{
		services:    services,
		actor:       actor,
		title:       cfg.App.Name,
		currentView: ViewMenu,
	}, cleanup
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewNotifications
				m.notificationsView = view.NewNotificationsModel(m.services.Notifications, m.actor)

				return m, m.notificationsView.Init()
			case "2":
				m.currentView = ViewCash
				m.cashView = view.NewCashModel(m.services.Treasury)

				return m, m.cashView.Init()
			case "3":
				m.currentView = ViewEgress
				m.egressView = view.NewEgressModel(m.services.Treasury, m.actor)

				return m, m.egressView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewNotifications:
		var newModel tea.Model
		newModel, cmd = m.notificationsView.Update(msg)
		m.notificationsView = newModel.(view.NotificationsModel)
	case ViewCash:
		var newModel tea.Model
		newModel, cmd = m.cashView.Update(msg)
		m.cashView = newModel.(view.CashModel)
	case ViewEgress:
		var newModel tea.Model
		newModel, cmd = m.egressView.Update(msg)
		m.egressView = newModel.(view.EgressModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.title + " back office\n" +
				"Signed in as " + m.actor.Name + "\n\n" +
				"1. Till Close Notifications\n" +
				"2. Cash on Hand\n" +
				"3. Cash Egress\n\n" +
				"q. Quit",
		)
	case ViewNotifications:
		return m.notificationsView.View()
	case ViewCash:
		return m.cashView.View()
	case ViewEgress:
		return m.egressView.View()
	}

	return "Unknown View"
}

func main() {
	m, cleanup := initialModel()
	defer cleanup()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run console", "error", err)
		cleanup()
		os.Exit(1)
	}
}
