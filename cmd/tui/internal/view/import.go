package view

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/stockroom/internal/importer"
	"github.com/MrJamesThe3rd/stockroom/internal/ledger"
)

type importState int

const (
	importStateForm importState = iota
	importStateRunning
	importStateResult
)

type importInput struct {
	path   string
	format string
}

// ImportModel loads a catalog file into the ledger and lists the rows whose code was taken.
type ImportModel struct {
	CommonModel
	importService *importer.Service
	ledgerService *ledger.Service

	state   importState
	form    *huh.Form
	input   *importInput
	spinner spinner.Model

	result *ledger.ImportResult
	err    error
}

func NewImportModel(importSvc *importer.Service, ledgerSvc *ledger.Service) ImportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	input := &importInput{format: string(importer.FormatCatalog)}

	return ImportModel{
		importService: importSvc,
		ledgerService: ledgerSvc,
		input:         input,
		form:          importForm(input),
		spinner:       s,
	}
}

func importForm(input *importInput) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("CSV file").
				Placeholder("./catalog.csv").
				Value(&input.path).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("path is required")
					}

					return nil
				}),
			huh.NewSelect[string]().
				Title("Format").
				Options(huh.NewOption("Product catalog", string(importer.FormatCatalog))).
				Value(&input.format),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m ImportModel) Title() string { return "Import Catalog" }
func (m ImportModel) ShortHelp() string {
	if m.state == importStateResult {
		return "Esc: back | n: import another"
	}

	return "Enter: confirm | Esc: back"
}

func (m ImportModel) Init() tea.Cmd {
	return m.form.Init()
}

type importDoneMsg struct {
	result *ledger.ImportResult
	err    error
}

func (m ImportModel) importCmd(path string, format importer.Format) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importDoneMsg{err: err}
		}
		defer f.Close()

		params, err := m.importService.Import(format, f)
		if err != nil {
			return importDoneMsg{err: err}
		}

		ctx, cancel := OpCtx()
		defer cancel()

		result, err := m.ledgerService.ImportBatch(ctx, params)

		return importDoneMsg{result: result, err: err}
	}
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case importDoneMsg:
		m.state = importStateResult
		m.result, m.err = msg.result, msg.err

		return m, nil

	case spinner.TickMsg:
		if m.state != importStateRunning {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc && m.state != importStateRunning {
			return m, Back
		}

		if m.state == importStateResult && msg.String() == "n" {
			m.state = importStateForm
			m.input.path = ""
			m.form = importForm(m.input)
			m.result, m.err = nil, nil

			return m, m.form.Init()
		}
	}

	if m.state != importStateForm {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = importStateRunning

	return m, tea.Batch(m.spinner.Tick, m.importCmd(strings.TrimSpace(m.input.path), importer.Format(m.input.format)))
}

func (m ImportModel) View() string {
	var content string

	switch m.state {
	case importStateForm:
		content = titleStyle.Render("Import Catalog") + "\n\n" + m.form.View()
	case importStateRunning:
		content = m.spinner.View() + " Importing..."
	case importStateResult:
		content = m.resultView()
	}

	return lipgloss.NewStyle().Padding(2).Render(content)
}

func (m ImportModel) resultView() string {
	if m.err != nil {
		return errStyle.Render(fmt.Sprintf("Import failed: %v", m.err)) + "\n\n(n to retry, Esc to back)"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", titleStyle.Render(fmt.Sprintf("Imported %d products", len(m.result.Imported))))

	for _, p := range m.result.Imported {
		fmt.Fprintf(&b, "  %s  %s\n", p.Code, p.Name)
	}

	if len(m.result.Conflicts) > 0 {
		fmt.Fprintf(&b, "\n%s\n", warnStyle.Render(fmt.Sprintf("%d skipped, code already in use:", len(m.result.Conflicts))))

		for _, c := range m.result.Conflicts {
			fmt.Fprintf(&b, "  %s  %s (existing: %s)\n", c.Incoming.Code, c.Incoming.Name, c.Existing.Name)
		}
	}

	b.WriteString("\n(n to import another, Esc to back)")

	return b.String()
}
