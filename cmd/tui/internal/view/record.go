package view

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/stockroom/internal/ledger"
)

type movement struct {
	productID string
	txType    string
	quantity  string
}

// RecordModel records sales and purchases. A sale larger than the stock on hand is refused
// before it reaches the ledger.
type RecordModel struct {
	CommonModel
	ledgerService *ledger.Service
	session       Session

	products []ledger.Product
	form     *huh.Form
	input    *movement

	loading bool
	err     error
	status  string
	warning string
}

func NewRecordModel(ledgerSvc *ledger.Service, session Session) RecordModel {
	return RecordModel{
		ledgerService: ledgerSvc,
		session:       session,
		loading:       true,
	}
}

func (m RecordModel) Title() string     { return "Record Transaction" }
func (m RecordModel) ShortHelp() string { return "Enter: next | Esc: back" }

func (m RecordModel) Init() tea.Cmd {
	return m.loadCmd()
}

type recordProductsMsg struct {
	products []ledger.Product
	err      error
}

type recordedMsg struct {
	tx  *ledger.Transaction
	err error
}

func (m RecordModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		products, err := m.ledgerService.Products(ctx)

		return recordProductsMsg{products: products, err: err}
	}
}

func (m *RecordModel) buildForm() tea.Cmd {
	options := make([]huh.Option[string], 0, len(m.products))
	for _, p := range m.products {
		options = append(options, huh.NewOption(fmt.Sprintf("%s  %s (stock %d)", p.Code, p.Name, p.Stock), p.ID.String()))
	}

	input := &movement{txType: string(ledger.TypeSale)}
	if m.input != nil {
		input.productID = m.input.productID
		input.txType = m.input.txType
	}

	m.input = input
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Product").
				Options(options...).
				Value(&input.productID),
			huh.NewSelect[string]().
				Title("Type").
				Options(
					huh.NewOption("Sale", string(ledger.TypeSale)),
					huh.NewOption("Purchase", string(ledger.TypePurchase)),
				).
				Value(&input.txType),
			huh.NewInput().
				Title("Quantity").
				Value(&input.quantity).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n <= 0 {
						return fmt.Errorf("quantity must be a whole number greater than 0")
					}

					return nil
				}),
		),
	).WithWidth(60).WithShowHelp(false)

	return m.form.Init()
}

func (m RecordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case recordProductsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.products = msg.products
		if len(m.products) == 0 {
			return m, nil
		}

		cmd := m.buildForm()

		return m, cmd

	case recordedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Recorded %s of %d x %s", msg.tx.Type, msg.tx.Quantity, msg.tx.ProductName)
		}

		return m, m.loadCmd()

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	if m.form == nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m.submit()
}

func (m RecordModel) submit() (tea.Model, tea.Cmd) {
	id, err := uuid.Parse(m.input.productID)
	if err != nil {
		m.warning = "select a product"
		cmd := m.buildForm()

		return m, cmd
	}

	var product *ledger.Product

	for i := range m.products {
		if m.products[i].ID == id {
			product = &m.products[i]
			break
		}
	}

	if product == nil {
		m.warning = "product no longer exists"
		return m, m.loadCmd()
	}

	quantity, _ := strconv.Atoi(strings.TrimSpace(m.input.quantity))
	txType := ledger.TransactionType(m.input.txType)

	if txType == ledger.TypeSale && quantity > product.Stock {
		m.warning = fmt.Sprintf("insufficient stock: %s has %d on hand", product.Code, product.Stock)
		cmd := m.buildForm()

		return m, cmd
	}

	m.warning = ""
	params := ledger.TransactionParams{
		ProductID:   product.ID,
		ProductName: product.Name,
		Type:        txType,
		Quantity:    quantity,
		UserID:      m.session.User.ID,
	}

	return m, func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		tx, err := m.ledgerService.AddTransaction(ctx, params)

		return recordedMsg{tx: tx, err: err}
	}
}

func (m RecordModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading products...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	if len(m.products) == 0 {
		return lipgloss.NewStyle().Padding(2).Render("No products to record against.\n\n(Esc to back)")
	}

	content := titleStyle.Render("Record Transaction") + "\n\n" + m.form.View()

	if m.warning != "" {
		content += "\n" + warnStyle.Render(m.warning)
	}

	if m.status != "" {
		content += "\n" + faintStyle.Render(m.status)
	}

	return lipgloss.NewStyle().Padding(2).Render(content)
}
