package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/europemission/martha/internal/inventory"
)

type inventoryState int

const (
	inventoryStateBrowse inventoryState = iota
	inventoryStateNewProduct
	inventoryStateMovement
)

// InventoryModel manages merchandise products and stock movements.
type InventoryModel struct {
	CommonModel
	svc *inventory.Service

	state    inventoryState
	table    table.Model
	products []*inventory.Product
	form     *huh.Form

	loading bool
	err     error
	status  string
}

func NewInventoryModel(svc *inventory.Service) InventoryModel {
	columns := []table.Column{
		{Title: "Product", Width: 28},
		{Title: "Category", Width: 14},
		{Title: "Cost", Width: 10},
		{Title: "Price", Width: 10},
		{Title: "Stock", Width: 8},
		{Title: "Reorder", Width: 8},
		{Title: "", Width: 10},
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

	return InventoryModel{svc: svc, table: t}
}

func (m InventoryModel) Title() string { return "Inventory" }

func (m InventoryModel) ShortHelp() string {
	if m.state != inventoryStateBrowse {
		return "Esc: cancel | Enter/Tab: navigate form"
	}

	return "Esc: back | n: new product | m: record movement | r: refresh"
}

type loadProductsMsg struct {
	products []*inventory.Product
	err      error
}

type productSavedMsg struct {
	err error
}

type movementSavedMsg struct {
	result *inventory.MovementResult
	err    error
}

func (m InventoryModel) Init() tea.Cmd {
	return m.loadProductsCmd()
}

func (m InventoryModel) loadProductsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		products, err := m.svc.ListProducts(ctx)

		return loadProductsMsg{products: products, err: err}
	}
}

func (m InventoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadProductsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.products = msg.products
		m.refreshTable()

		return m, nil

	case productSavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = "Product created."
		}

		m.state = inventoryStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadProductsCmd()

	case movementSavedMsg:
		switch {
		case msg.err != nil:
			m.status = fmt.Sprintf("Error: %v", msg.err)
		case msg.result.OverSale:
			m.status = fmt.Sprintf("Warning: sale exceeded stock on hand; recorded anyway. Stock is now %d.", msg.result.Stock)
		default:
			m.status = fmt.Sprintf("Movement recorded. Stock is now %d.", msg.result.Stock)
		}

		m.state = inventoryStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadProductsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == inventoryStateBrowse {
		return m.updateBrowse(msg)
	}

	return m.updateForm(msg)
}

func (m InventoryModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadProductsCmd()
		case "n":
			m.state = inventoryStateNewProduct
			m.form = m.buildProductForm()
			m.table.Blur()

			return m, m.form.Init()
		case "m":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.products) {
				return m, nil
			}

			m.state = inventoryStateMovement
			m.form = m.buildMovementForm()
			m.table.Blur()

			return m, m.form.Init()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m InventoryModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = inventoryStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == inventoryStateNewProduct {
		return m, m.saveProductCmd()
	}

	return m, m.saveMovementCmd()
}

func validateDecimal(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid amount")
	}

	if d.IsNegative() {
		return fmt.Errorf("cannot be negative")
	}

	return nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fmt.Errorf("must be a positive number")
	}

	return nil
}

func (m InventoryModel) buildProductForm() *huh.Form {
	categoryOptions := make([]huh.Option[string], 0, len(inventory.ProductCategories))
	for _, c := range inventory.ProductCategories {
		categoryOptions = append(categoryOptions, huh.NewOption(string(c), string(c)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Product Name").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),

			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(categoryOptions...),

			huh.NewInput().
				Key("cost_price").
				Title("Cost Price").
				Placeholder("0.00").
				Validate(validateDecimal),

			huh.NewInput().
				Key("selling_price").
				Title("Selling Price").
				Placeholder("0.00").
				Validate(validateDecimal),

			huh.NewInput().
				Key("initial_stock").
				Title("Initial Stock").
				Placeholder("0").
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					if _, err := strconv.Atoi(s); err != nil {
						return fmt.Errorf("must be a number")
					}
					return nil
				}),

			huh.NewInput().
				Key("reorder_level").
				Title("Reorder Level").
				Placeholder("0").
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					if _, err := strconv.Atoi(s); err != nil {
						return fmt.Errorf("must be a number")
					}
					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m InventoryModel) buildMovementForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("type").
				Title("Movement Type").
				Options(
					huh.NewOption("Purchase (stock in)", string(inventory.MovementPurchase)),
					huh.NewOption("Sale (stock out)", string(inventory.MovementSale)),
					huh.NewOption("Adjustment", string(inventory.MovementAdjustment)),
				),

			huh.NewInput().
				Key("quantity").
				Title("Quantity").
				Placeholder("1").
				Validate(validatePositiveInt),

			huh.NewInput().
				Key("unit_price").
				Title("Unit Price").
				Placeholder("0.00").
				Validate(validateDecimal),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(new(FormatDate(time.Now()))).
				Validate(func(s string) error {
					if _, err := time.Parse(time.DateOnly, s); err != nil {
						return fmt.Errorf("use YYYY-MM-DD")
					}
					return nil
				}),

			huh.NewInput().
				Key("notes").
				Title("Notes"),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m InventoryModel) saveProductCmd() tea.Cmd {
	var (
		name       = m.form.GetString("name")
		category   = m.form.GetString("category")
		costStr    = m.form.GetString("cost_price")
		sellStr    = m.form.GetString("selling_price")
		initialStr = m.form.GetString("initial_stock")
		reorderStr = m.form.GetString("reorder_level")
	)

	return func() tea.Msg {
		cost, err := decimal.NewFromString(costStr)
		if err != nil {
			return productSavedMsg{err: err}
		}

		sell, err := decimal.NewFromString(sellStr)
		if err != nil {
			return productSavedMsg{err: err}
		}

		initial, _ := strconv.Atoi(initialStr)
		reorder, _ := strconv.Atoi(reorderStr)

		ctx, cancel := DbCtx()
		defer cancel()

		_, err = m.svc.CreateProduct(ctx, inventory.ProductParams{
			Name:         name,
			CostPrice:    cost,
			SellingPrice: sell,
			ReorderLevel: reorder,
			Category:     inventory.ProductCategory(category),
			InitialStock: initial,
		})

		return productSavedMsg{err: err}
	}
}

func (m InventoryModel) saveMovementCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.products) {
		return nil
	}

	var (
		productID   = m.products[idx].ID
		movType     = m.form.GetString("type")
		quantityStr = m.form.GetString("quantity")
		priceStr    = m.form.GetString("unit_price")
		dateStr     = m.form.GetString("date")
		notes       = m.form.GetString("notes")
	)

	return func() tea.Msg {
		quantity, err := strconv.Atoi(quantityStr)
		if err != nil {
			return movementSavedMsg{err: err}
		}

		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return movementSavedMsg{err: err}
		}

		date, err := time.Parse(time.DateOnly, dateStr)
		if err != nil {
			return movementSavedMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		result, err := m.svc.RecordMovement(ctx, inventory.MovementParams{
			ProductID: productID,
			Type:      inventory.MovementType(movType),
			Quantity:  quantity,
			UnitPrice: price,
			Date:      date,
			Notes:     notes,
		})

		return movementSavedMsg{result: result, err: err}
	}
}

func (m *InventoryModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.products))

	for _, p := range m.products {
		warn := ""
		if p.LowStock() {
			warn = "LOW"
		}

		rows = append(rows, table.Row{
			p.Name,
			string(p.Category),
			FormatAmount(p.CostPrice),
			FormatAmount(p.SellingPrice),
			strconv.Itoa(p.CurrentStock),
			strconv.Itoa(p.ReorderLevel),
			warn,
		})
	}

	m.table.SetRows(rows)
}

func (m InventoryModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading products...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := tableView

	if m.form != nil {
		title := "New Product"
		if m.state == inventoryStateMovement {
			idx := m.table.Cursor()
			if idx >= 0 && idx < len(m.products) {
				title = fmt.Sprintf("Record Movement: %s", m.products[idx].Name)
			}
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(50).
			Render(fmt.Sprintf("%s\n\n%s", title, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}
