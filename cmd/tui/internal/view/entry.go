package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/europemission/martha/internal/circuit"
	"github.com/europemission/martha/internal/transaction"
)

type entryState int

const (
	entryStateType entryState = iota
	entryStateForm
)

// EntryModel is the data-entry screen for new transactions.
type EntryModel struct {
	CommonModel
	txService      *transaction.Service
	circuitService *circuit.Service

	state    entryState
	form     *huh.Form
	circuits []*circuit.Circuit

	status string
	err    error

	// Form field bindings
	formType     string
	formCategory string
	formDate     string
	formDesc     string
	formAmount   string
	formCircuit  string
	formNotes    string
}

func NewEntryModel(txSvc *transaction.Service, circuitSvc *circuit.Service) EntryModel {
	m := EntryModel{
		txService:      txSvc,
		circuitService: circuitSvc,
		state:          entryStateType,
		formDate:       FormatDate(time.Now()),
	}
	m.form = m.buildTypeForm()

	return m
}

func (m EntryModel) Title() string { return "New Transaction" }

func (m EntryModel) ShortHelp() string {
	return "Esc: back | Enter/Tab: navigate form"
}

type entryCircuitsMsg struct {
	circuits []*circuit.Circuit
	err      error
}

type entrySavedMsg struct {
	tx  *transaction.Transaction
	err error
}

func (m EntryModel) Init() tea.Cmd {
	return tea.Batch(m.form.Init(), m.loadCircuitsCmd())
}

func (m EntryModel) loadCircuitsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		circuits, err := m.circuitService.List(ctx)

		return entryCircuitsMsg{circuits: circuits, err: err}
	}
}

func (m EntryModel) buildTypeForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("type").
				Title("Transaction Type").
				Options(
					huh.NewOption("Receipt (money in)", string(transaction.TypeReceipt)),
					huh.NewOption("Payment (money out)", string(transaction.TypePayment)),
				).
				Value(&m.formType),
		),
	).WithShowHelp(false)
}

func (m EntryModel) buildDetailForm() *huh.Form {
	txType := transaction.Type(m.formType)

	categoryOptions := make([]huh.Option[string], 0)
	for _, c := range transaction.Categories(txType) {
		categoryOptions = append(categoryOptions, huh.NewOption(c.Label(), string(c)))
	}

	circuitOptions := []huh.Option[string]{huh.NewOption("(none)", "")}
	for _, c := range m.circuits {
		circuitOptions = append(circuitOptions, huh.NewOption(c.Name, c.ID.String()))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(categoryOptions...).
				Value(&m.formCategory),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.formDate).
				Validate(func(s string) error {
					if _, err := time.Parse(time.DateOnly, s); err != nil {
						return fmt.Errorf("use YYYY-MM-DD")
					}
					return nil
				}),

			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&m.formDesc).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("description cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("0.00").
				Value(&m.formAmount).
				Validate(func(s string) error {
					d, err := decimal.NewFromString(s)
					if err != nil {
						return fmt.Errorf("invalid amount")
					}
					if !d.IsPositive() {
						return fmt.Errorf("amount must be positive")
					}
					return nil
				}),

			huh.NewSelect[string]().
				Key("circuit").
				Title("Circuit").
				Options(circuitOptions...).
				Value(&m.formCircuit),

			huh.NewInput().
				Key("notes").
				Title("Notes").
				Value(&m.formNotes),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m EntryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case entryCircuitsMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.circuits = msg.circuits

		return m, nil

	case entrySavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Saved %s of %s.", msg.tx.Type, FormatAmount(msg.tx.Amount))
		}

		// Fresh form for the next entry.
		m.state = entryStateType
		m.formCategory = ""
		m.formDesc = ""
		m.formAmount = ""
		m.formCircuit = ""
		m.formNotes = ""
		m.form = m.buildTypeForm()

		return m, m.form.Init()
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			if m.state == entryStateForm {
				m.state = entryStateType
				m.form = m.buildTypeForm()

				return m, m.form.Init()
			}

			return m, Back
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == entryStateType {
		m.formType = m.form.GetString("type")
		m.state = entryStateForm
		m.form = m.buildDetailForm()

		return m, m.form.Init()
	}

	return m, m.saveCmd()
}

func (m EntryModel) saveCmd() tea.Cmd {
	var (
		txType      = transaction.Type(m.formType)
		category    = m.form.GetString("category")
		dateStr     = m.form.GetString("date")
		description = m.form.GetString("description")
		amountStr   = m.form.GetString("amount")
		circuitStr  = m.form.GetString("circuit")
		notes       = m.form.GetString("notes")
	)

	return func() tea.Msg {
		date, err := time.Parse(time.DateOnly, dateStr)
		if err != nil {
			return entrySavedMsg{err: err}
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return entrySavedMsg{err: err}
		}

		var circuitID *uuid.UUID
		if circuitStr != "" {
			if id, err := uuid.Parse(circuitStr); err == nil {
				circuitID = &id
			}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		tx, err := m.txService.Create(ctx, transaction.CreateParams{
			Date:        date,
			Type:        txType,
			Category:    transaction.Category(category),
			Description: description,
			Amount:      amount,
			CircuitID:   circuitID,
			Notes:       notes,
		})

		return entrySavedMsg{tx: tx, err: err}
	}
}

func (m EntryModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := "New Transaction"
	if m.state == entryStateForm {
		header = fmt.Sprintf("New Transaction (%s)", m.formType)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).PaddingBottom(1).Render(header),
		m.form.View(),
	)

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}
