package view

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/stockroom/internal/report"
)

type InvoicesModel struct {
	CommonModel
	reportService *report.Service

	table       table.Model
	searchInput textinput.Model
	searching   bool
	report      *report.InvoiceReport

	loading bool
	err     error
}

func NewInvoicesModel(reportSvc *report.Service) InvoicesModel {
	columns := []table.Column{
		{Title: "Number", Width: 12},
		{Title: "Due", Width: 12},
		{Title: "Amount", Width: 12},
		{Title: "Status", Width: 10},
		{Title: "Days", Width: 6},
		{Title: "", Width: 10},
	}

	ti := textinput.New()
	ti.Placeholder = "invoice number"
	ti.Width = 30

	return InvoicesModel{
		reportService: reportSvc,
		table:         newTable(columns, 12),
		searchInput:   ti,
		loading:       true,
	}
}

func (m InvoicesModel) Title() string { return "Invoices" }
func (m InvoicesModel) ShortHelp() string {
	if m.searching {
		return "Enter: apply | Esc: cancel"
	}

	return "Esc: back | /: search | r: refresh"
}

func (m InvoicesModel) Init() tea.Cmd {
	return m.loadCmd()
}

type loadInvoicesMsg struct {
	report *report.InvoiceReport
	err    error
}

func (m InvoicesModel) loadCmd() tea.Cmd {
	search := m.searchInput.Value()

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		rep, err := m.reportService.Invoices(ctx, search)

		return loadInvoicesMsg{report: rep, err: err}
	}
}

func (m InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadInvoicesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.report = msg.report
		m.refreshTable()

		return m, nil

	case tea.KeyMsg:
		if m.searching {
			switch msg.Type {
			case tea.KeyEnter:
				m.searching = false
				m.searchInput.Blur()
				m.table.Focus()

				return m, m.loadCmd()
			case tea.KeyEsc:
				m.searching = false
				m.searchInput.Blur()
				m.table.Focus()

				return m, nil
			}

			var cmd tea.Cmd
			m.searchInput, cmd = m.searchInput.Update(msg)

			return m, cmd
		}

		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "/":
			m.searching = true
			m.table.Blur()
			cmd := m.searchInput.Focus()

			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *InvoicesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.report.Rows))
	for _, r := range m.report.Rows {
		rows = append(rows, table.Row{
			r.Invoice.Number,
			FormatDate(r.Invoice.DueDate),
			FormatAmount(r.Invoice.Amount),
			string(r.Invoice.Status),
			strconv.Itoa(r.DaysUntilDue),
			string(r.DueState),
		})
	}

	m.table.SetRows(rows)
}

func (m InvoicesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading invoices...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	r := m.report
	summary := fmt.Sprintf(
		"%d invoices | pending %d | overdue %d | past due %s | total %s",
		r.Total, r.Pending, r.Overdue, warnStyle.Render(strconv.Itoa(r.PastDue)), FormatAmount(r.TotalAmount),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		"Search: "+m.searchInput.View(),
		"",
		boxStyle.Render(m.table.View()),
		summary,
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}
