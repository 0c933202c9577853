package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/stockroom/internal/ledger"
	"github.com/MrJamesThe3rd/stockroom/internal/report"
)

type DashboardModel struct {
	CommonModel
	reportService *report.Service
	ledgerService *ledger.Service

	dashboard *report.Dashboard
	loading   bool
	err       error
}

func NewDashboardModel(reportSvc *report.Service, ledgerSvc *ledger.Service) DashboardModel {
	return DashboardModel{
		reportService: reportSvc,
		ledgerService: ledgerSvc,
		loading:       true,
	}
}

func (m DashboardModel) Title() string     { return "Dashboard" }
func (m DashboardModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

type dashboardMsg struct {
	dashboard *report.Dashboard
	err       error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		d, err := m.reportService.Dashboard(ctx)

		return dashboardMsg{dashboard: d, err: err}
	}
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardMsg:
		m.loading = false
		m.dashboard, m.err = msg.dashboard, msg.err
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

func (m DashboardModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading dashboard...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	d := m.dashboard

	stats := lipgloss.JoinHorizontal(lipgloss.Top,
		statBox("Products", d.TotalProducts),
		statBox("Units in stock", d.TotalStock),
		statBox("Units sold", d.UnitsSold),
		statBox("Low stock", len(d.LowStock)),
	)

	var b strings.Builder

	b.WriteString(titleStyle.Render("Low stock") + "\n")

	if len(d.LowStock) == 0 {
		b.WriteString(faintStyle.Render("  nothing below its minimum") + "\n")
	}

	for _, p := range d.LowStock {
		fmt.Fprintf(&b, "  %s %-28s %s\n", p.Code, p.Name, warnStyle.Render(fmt.Sprintf("%d / min %d", p.Stock, p.MinStock)))
	}

	b.WriteString("\n" + titleStyle.Render("Upcoming invoices") + "\n")

	if len(d.UpcomingInvoices) == 0 {
		b.WriteString(faintStyle.Render("  none due soon") + "\n")
	}

	now := m.ledgerService.Now()
	for _, inv := range d.UpcomingInvoices {
		line := fmt.Sprintf("  %-10s %s %10s", inv.Number, FormatDate(inv.DueDate), FormatAmount(inv.Amount))
		if ledger.ClassifyDue(inv, now, m.ledgerService.UpcomingWindow()) == ledger.DueOverdue {
			line = errStyle.Render(line + "  past due")
		}

		b.WriteString(line + "\n")
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left, stats, "", b.String()),
	)
}

func statBox(label string, value int) string {
	return boxStyle.Padding(0, 2).MarginRight(1).Render(
		fmt.Sprintf("%s\n%s", faintStyle.Render(label), titleStyle.Render(fmt.Sprintf("%d", value))),
	)
}
