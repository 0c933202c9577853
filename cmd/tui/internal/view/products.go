package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/stockroom/internal/ledger"
	"github.com/MrJamesThe3rd/stockroom/internal/report"
)

type productsState int

const (
	productsStateBrowse productsState = iota
	productsStateForm
	productsStateDelete
)

// productForm holds the form bindings as text so the inputs can be validated before parsing.
type productForm struct {
	code     string
	name     string
	category string
	price    string
	stock    string
	minStock string
	status   string
}

func formFor(p ledger.Product) productForm {
	return productForm{
		code:     p.Code,
		name:     p.Name,
		category: p.Category,
		price:    FormatAmount(p.Price),
		stock:    strconv.Itoa(p.Stock),
		minStock: strconv.Itoa(p.MinStock),
		status:   string(p.Status),
	}
}

func (f productForm) params() ledger.ProductParams {
	price, _ := decimal.NewFromString(strings.TrimSpace(f.price))
	stock, _ := strconv.Atoi(strings.TrimSpace(f.stock))
	minStock, _ := strconv.Atoi(strings.TrimSpace(f.minStock))

	return ledger.ProductParams{
		Code:     strings.TrimSpace(f.code),
		Name:     strings.TrimSpace(f.name),
		Category: strings.TrimSpace(f.category),
		Price:    price,
		Stock:    stock,
		MinStock: minStock,
		Status:   ledger.ProductStatus(f.status),
	}
}

func required(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", label)
		}

		return nil
	}
}

func validPrice(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return errors.New("price must be a number")
	}

	if d.IsNegative() {
		return errors.New("price must not be negative")
	}

	return nil
}

func validCount(label string) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || n < 0 {
			return fmt.Errorf("%s must be a whole number of at least 0", label)
		}

		return nil
	}
}

type ProductsModel struct {
	CommonModel
	ledgerService *ledger.Service
	session       Session

	state    productsState
	table    table.Model
	all      []ledger.Product
	products []ledger.Product

	categories  []string
	categoryIdx int

	form      *huh.Form
	fields    *productForm
	editingID uuid.UUID
	confirm   *bool

	loading bool
	err     error
	status  string
}

func NewProductsModel(ledgerSvc *ledger.Service, session Session) ProductsModel {
	columns := []table.Column{
		{Title: "Code", Width: 8},
		{Title: "Name", Width: 28},
		{Title: "Category", Width: 14},
		{Title: "Price", Width: 10},
		{Title: "Stock", Width: 6},
		{Title: "Min", Width: 5},
		{Title: "Status", Width: 9},
		{Title: "", Width: 4},
	}

	return ProductsModel{
		ledgerService: ledgerSvc,
		session:       session,
		table:         newTable(columns, 15),
		loading:       true,
	}
}

func (m ProductsModel) Title() string { return "Products" }

func (m ProductsModel) ShortHelp() string {
	if m.state != productsStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	if m.session.IsAdmin() {
		return "Esc: back | c: category | a: add | e: edit | x: delete | r: refresh"
	}

	return "Esc: back | c: category | r: refresh"
}

func (m ProductsModel) Init() tea.Cmd {
	return m.loadCmd()
}

type loadProductsMsg struct {
	products []ledger.Product
	err      error
}

type productSavedMsg struct {
	status string
	err    error
}

func (m ProductsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadProductsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.all = msg.products
		m.categories = report.Categories(m.all)

		if m.categoryIdx > len(m.categories) {
			m.categoryIdx = 0
		}

		m.refreshTable()

		return m, nil

	case productSavedMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.state = productsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == productsStateBrowse {
		return m.updateBrowse(msg)
	}

	return m.updateForm(msg)
}

func (m ProductsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "c":
			m.categoryIdx = (m.categoryIdx + 1) % (len(m.categories) + 1)
			m.refreshTable()

			return m, nil
		case "a":
			if m.session.IsAdmin() {
				return m.openForm(nil)
			}
		case "e":
			if p, ok := m.selected(); ok && m.session.IsAdmin() {
				return m.openForm(&p)
			}
		case "x":
			if p, ok := m.selected(); ok && m.session.IsAdmin() {
				return m.openDelete(p)
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ProductsModel) selected() (ledger.Product, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.products) {
		return ledger.Product{}, false
	}

	return m.products[idx], true
}

func (m ProductsModel) openForm(current *ledger.Product) (tea.Model, tea.Cmd) {
	fields := &productForm{stock: "0", minStock: "0", price: "0.00", status: string(ledger.ProductActive)}
	m.editingID = uuid.Nil

	if current != nil {
		*fields = formFor(*current)
		m.editingID = current.ID
	}

	m.fields = fields
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Code").Value(&fields.code).Validate(required("code")),
			huh.NewInput().Title("Name").Value(&fields.name).Validate(required("name")),
			huh.NewInput().Title("Category").Value(&fields.category).Validate(required("category")),
			huh.NewInput().Title("Price").Value(&fields.price).Validate(validPrice),
			huh.NewInput().Title("Stock").Value(&fields.stock).Validate(validCount("stock")),
			huh.NewInput().Title("Minimum stock").Value(&fields.minStock).Validate(validCount("minimum stock")),
			huh.NewSelect[string]().
				Title("Status").
				Options(
					huh.NewOption("Active", string(ledger.ProductActive)),
					huh.NewOption("Inactive", string(ledger.ProductInactive)),
				).
				Value(&fields.status),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = productsStateForm
	m.table.Blur()

	return m, m.form.Init()
}

func (m ProductsModel) openDelete(p ledger.Product) (tea.Model, tea.Cmd) {
	m.editingID = p.ID
	m.confirm = new(bool)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %s %s?", p.Code, p.Name)).
				Description("Its transactions stay in the log.").
				Value(m.confirm),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = productsStateDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m ProductsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = productsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == productsStateDelete {
		if !*m.confirm {
			return m, func() tea.Msg { return productSavedMsg{} }
		}

		return m, m.deleteCmd(m.editingID)
	}

	return m, m.saveCmd(m.editingID, m.fields.params())
}

func (m ProductsModel) saveCmd(id uuid.UUID, params ledger.ProductParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		st, err := m.ledgerService.State(ctx)
		if err != nil {
			return productSavedMsg{err: err}
		}

		for _, p := range st.Products {
			if p.Code == params.Code && p.ID != id {
				return productSavedMsg{err: fmt.Errorf("code %s already belongs to %s", p.Code, p.Name)}
			}
		}

		if id == uuid.Nil {
			p, err := m.ledgerService.AddProduct(ctx, params)
			if err != nil {
				return productSavedMsg{err: err}
			}

			return productSavedMsg{status: fmt.Sprintf("Added %s", p.Code)}
		}

		patch := ledger.ProductPatch{
			Code:     &params.Code,
			Name:     &params.Name,
			Category: &params.Category,
			Price:    &params.Price,
			Stock:    &params.Stock,
			MinStock: &params.MinStock,
			Status:   &params.Status,
		}

		if err := m.ledgerService.UpdateProduct(ctx, id, patch); err != nil {
			return productSavedMsg{err: err}
		}

		return productSavedMsg{status: fmt.Sprintf("Updated %s", params.Code)}
	}
}

func (m ProductsModel) deleteCmd(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		if err := m.ledgerService.DeleteProduct(ctx, id); err != nil {
			return productSavedMsg{err: err}
		}

		return productSavedMsg{status: "Product deleted"}
	}
}

func (m ProductsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		products, err := m.ledgerService.Products(ctx)

		return loadProductsMsg{products: products, err: err}
	}
}

func (m ProductsModel) category() string {
	if m.categoryIdx == 0 || m.categoryIdx > len(m.categories) {
		return ""
	}

	return m.categories[m.categoryIdx-1]
}

func (m *ProductsModel) refreshTable() {
	m.products = report.Search(m.all, report.Query{Category: m.category()})

	rows := make([]table.Row, 0, len(m.products))
	for _, p := range m.products {
		flag := ""
		if p.LowStock() {
			flag = "LOW"
		}

		rows = append(rows, table.Row{
			p.Code,
			p.Name,
			p.Category,
			FormatAmount(p.Price),
			strconv.Itoa(p.Stock),
			strconv.Itoa(p.MinStock),
			string(p.Status),
			flag,
		})
	}

	m.table.SetRows(rows)
}

func (m ProductsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading products...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	category := "All"
	if c := m.category(); c != "" {
		category = c
	}

	header := fmt.Sprintf("Filter: [c] Category: %s | %d products", activeStyle(category), len(m.products))

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		boxStyle.Render(m.table.View()),
	)

	if m.state != productsStateBrowse && m.form != nil {
		title := "Add Product"
		if m.editingID != uuid.Nil {
			title = "Edit Product"
		}

		if m.state == productsStateDelete {
			title = "Delete Product"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(title + "\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}
