package view

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/stockroom/internal/ledger"
	"github.com/MrJamesThe3rd/stockroom/internal/report"
)

var (
	periods = []report.Period{report.PeriodAll, report.PeriodToday, report.PeriodWeek, report.PeriodMonth}
	txTypes = []ledger.TransactionType{"", ledger.TypeSale, ledger.TypePurchase}
)

// ReportsModel shows the filtered transaction report and writes it out as CSV.
type ReportsModel struct {
	CommonModel
	reportService *report.Service
	ledgerService *ledger.Service
	exportDir     string

	table  table.Model
	report *report.TransactionReport

	periodIdx   int
	typeIdx     int
	categories  []string
	categoryIdx int

	loading bool
	err     error
	status  string
}

func NewReportsModel(reportSvc *report.Service, ledgerSvc *ledger.Service, exportDir string) ReportsModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Product", Width: 28},
		{Title: "Type", Width: 10},
		{Title: "Qty", Width: 6},
		{Title: "User", Width: 8},
	}

	return ReportsModel{
		reportService: reportSvc,
		ledgerService: ledgerSvc,
		exportDir:     exportDir,
		table:         newTable(columns, 12),
		loading:       true,
	}
}

func (m ReportsModel) Title() string { return "Reports" }
func (m ReportsModel) ShortHelp() string {
	return "Esc: back | p: period | t: type | c: category | x: export csv | r: refresh"
}

func (m ReportsModel) Init() tea.Cmd {
	return m.loadCmd()
}

type reportMsg struct {
	report     *report.TransactionReport
	categories []string
	err        error
}

type exportedMsg struct {
	path string
	err  error
}

func (m ReportsModel) filter() report.Filter {
	f := report.Filter{
		Type:   txTypes[m.typeIdx],
		Period: periods[m.periodIdx],
	}

	if m.categoryIdx > 0 && m.categoryIdx <= len(m.categories) {
		f.Category = m.categories[m.categoryIdx-1]
	}

	return f
}

func (m ReportsModel) loadCmd() tea.Cmd {
	f := m.filter()

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		products, err := m.ledgerService.Products(ctx)
		if err != nil {
			return reportMsg{err: err}
		}

		rep, err := m.reportService.Transactions(ctx, f)

		return reportMsg{report: rep, categories: report.Categories(products), err: err}
	}
}

func (m ReportsModel) exportCmd() tea.Cmd {
	rep := m.report
	dir := m.exportDir

	return func() tea.Msg {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return exportedMsg{err: err}
		}

		path := filepath.Join(dir, fmt.Sprintf("transactions-%s.csv", rep.GeneratedAt.Format("20060102-150405")))

		f, err := os.Create(path)
		if err != nil {
			return exportedMsg{err: err}
		}
		defer f.Close()

		if err := report.WriteTransactionsCSV(f, rep); err != nil {
			return exportedMsg{err: err}
		}

		return exportedMsg{path: path}
	}
}

func (m ReportsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case reportMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.report = msg.report
		m.categories = msg.categories
		m.refreshTable()

		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Export failed: %v", msg.err)
		} else {
			m.status = "Exported to " + msg.path
		}

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "p":
			m.periodIdx = (m.periodIdx + 1) % len(periods)
			return m, m.loadCmd()
		case "t":
			m.typeIdx = (m.typeIdx + 1) % len(txTypes)
			return m, m.loadCmd()
		case "c":
			m.categoryIdx = (m.categoryIdx + 1) % (len(m.categories) + 1)
			return m, m.loadCmd()
		case "x":
			if m.report != nil {
				return m, m.exportCmd()
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *ReportsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.report.Transactions))
	for _, tx := range m.report.Transactions {
		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			tx.ProductName,
			string(tx.Type),
			strconv.Itoa(tx.Quantity),
			tx.UserID,
		})
	}

	m.table.SetRows(rows)
}

func orAll(s string) string {
	if s == "" {
		return "all"
	}

	return s
}

func (m ReportsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading report...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	f := m.filter()
	header := fmt.Sprintf(
		"Filter: [p] Period: %s | [t] Type: %s | [c] Category: %s",
		activeStyle(string(f.Period)),
		activeStyle(orAll(string(f.Type))),
		activeStyle(orAll(f.Category)),
	)

	s := m.report.Summary
	summary := fmt.Sprintf(
		"Sales: %d units in %d | Purchases: %d units in %d | Total: %d",
		s.TotalSales, s.SaleCount, s.TotalPurchases, s.PurchaseCount, s.TotalTransactions,
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		boxStyle.Render(m.table.View()),
		summary,
	)

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}
