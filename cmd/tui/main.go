package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/stockroom/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/stockroom/internal/auth"
	authStore "github.com/MrJamesThe3rd/stockroom/internal/auth/store"
	"github.com/MrJamesThe3rd/stockroom/internal/config"
	"github.com/MrJamesThe3rd/stockroom/internal/importer"
	"github.com/MrJamesThe3rd/stockroom/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/stockroom/internal/ledger/store"
	"github.com/MrJamesThe3rd/stockroom/internal/report"
)

const exportDir = "./exports"

type menuItem struct {
	key       string
	label     string
	adminOnly bool
	open      func(m model) view.View
}

var menu = []menuItem{
	{key: "1", label: "Dashboard", open: func(m model) view.View {
		return view.NewDashboardModel(m.reportService, m.ledgerService)
	}},
	{key: "2", label: "Products", open: func(m model) view.View {
		return view.NewProductsModel(m.ledgerService, m.session)
	}},
	{key: "3", label: "Record Transaction", open: func(m model) view.View {
		return view.NewRecordModel(m.ledgerService, m.session)
	}},
	{key: "4", label: "Invoices", open: func(m model) view.View {
		return view.NewInvoicesModel(m.reportService)
	}},
	{key: "5", label: "Reports", adminOnly: true, open: func(m model) view.View {
		return view.NewReportsModel(m.reportService, m.ledgerService, exportDir)
	}},
	{key: "6", label: "Import Catalog", adminOnly: true, open: func(m model) view.View {
		return view.NewImportModel(m.importService, m.ledgerService)
	}},
}

type model struct {
	authService   *auth.Service
	ledgerService *ledger.Service
	reportService *report.Service
	importService *importer.Service

	session  view.Session
	loggedIn bool
	login    view.LoginModel
	current  view.View
}

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var initial *ledger.State
	if cfg.Ledger.Seed {
		initial = ledger.SeedState()
	}

	users := authStore.New()
	if cfg.Ledger.Seed {
		if users, err = authStore.NewSeeded(); err != nil {
			slog.Error("failed to seed accounts", "error", err)
			os.Exit(1)
		}
	}

	ledgerSvc := ledger.NewService(ledgerStore.New(initial), ledger.WithUpcomingWindow(cfg.Ledger.UpcomingWindow))
	authSvc := auth.NewService(users)

	return model{
		authService:   authSvc,
		ledgerService: ledgerSvc,
		reportService: report.NewService(ledgerSvc),
		importService: importer.NewService(),
		login:         view.NewLoginModel(authSvc),
	}
}

func (m model) Init() tea.Cmd {
	return m.login.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case view.LoggedInMsg:
		m.session = msg.Session
		m.loggedIn = true

		return m, nil
	case view.BackMsg:
		m.current = nil
		return m, nil
	}

	if !m.loggedIn {
		newModel, cmd := m.login.Update(msg)
		m.login = newModel.(view.LoginModel)

		return m, cmd
	}

	if m.current == nil {
		return m.updateMenu(msg)
	}

	newModel, cmd := m.current.Update(msg)
	m.current = newModel.(view.View)

	return m, cmd
}

func (m model) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q":
		return m, tea.Quit
	case "l":
		m.loggedIn = false
		m.session = view.Session{}
		m.login = view.NewLoginModel(m.authService)

		return m, m.login.Init()
	}

	for _, item := range m.visibleMenu() {
		if item.key == key.String() {
			m.current = item.open(m)
			return m, m.current.Init()
		}
	}

	return m, nil
}

func (m model) visibleMenu() []menuItem {
	items := make([]menuItem, 0, len(menu))
	for _, item := range menu {
		if item.adminOnly && !m.session.IsAdmin() {
			continue
		}

		items = append(items, item)
	}

	return items
}

func (m model) View() string {
	if !m.loggedIn {
		return m.login.View()
	}

	if m.current != nil {
		help := lipgloss.NewStyle().Faint(true).Render(m.current.ShortHelp())
		return m.current.View() + "\n" + lipgloss.NewStyle().PaddingLeft(1).Render(help)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Stockroom | %s (%s)\n\n", m.session.User.Username, m.session.User.Role)

	for _, item := range m.visibleMenu() {
		fmt.Fprintf(&b, "%s. %s\n", item.key, item.label)
	}

	b.WriteString("\nl. Log out\nq. Quit")

	return lipgloss.NewStyle().Padding(2).Render(b.String())
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
