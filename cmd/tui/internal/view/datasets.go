package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/avandenberg/tally/internal/ledger"
)

type datasetsLoadMsg struct {
	invoices []ledger.Invoice
	bank     []ledger.BankTransaction
	err      error
}

// DatasetsModel browses the two imported datasets side by side.
type DatasetsModel struct {
	ledgerSvc *ledger.Service

	table    table.Model
	showBank bool
	invoices []ledger.Invoice
	bank     []ledger.BankTransaction
	loading  bool
	err      error
}

func NewDatasetsModel(ledgerSvc *ledger.Service) DatasetsModel {
	return DatasetsModel{
		ledgerSvc: ledgerSvc,
		table:     newTable(),
		loading:   true,
	}
}

func (m DatasetsModel) Title() string { return "Datasets" }
func (m DatasetsModel) ShortHelp() string {
	return "Esc: back | t: toggle dataset | r: refresh"
}

func (m DatasetsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DatasetsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		invoices, bank, err := m.ledgerSvc.Snapshot(ctx)

		return datasetsLoadMsg{invoices: invoices, bank: bank, err: err}
	}
}

func (m DatasetsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case datasetsLoadMsg:
		m.loading = false

		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.invoices = msg.invoices
		m.bank = msg.bank
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 8)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "t":
			m.showBank = !m.showBank
			m.refreshTable()

			return m, nil
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *DatasetsModel) refreshTable() {
	if m.showBank {
		m.table.SetColumns([]table.Column{
			{Title: "ID", Width: 12},
			{Title: "Date", Width: 12},
			{Title: "Amount", Width: 12},
			{Title: "Entity", Width: 14},
			{Title: "Dir", Width: 4},
			{Title: "Partner", Width: 24},
			{Title: "Match", Width: 22},
			{Title: "Status", Width: 16},
		})

		rows := make([]table.Row, 0, len(m.bank))

		for _, tx := range m.bank {
			matchID, status := FormatMatch(tx.MatchID, tx.Status)
			rows = append(rows, table.Row{
				tx.ID,
				FormatDate(tx.Date),
				FormatAmount(tx.Amount),
				tx.Entity,
				string(tx.Direction),
				tx.PartnerText(),
				matchID,
				status,
			})
		}

		m.table.SetRows(rows)
		m.table.SetCursor(0)

		return
	}

	m.table.SetColumns([]table.Column{
		{Title: "ID", Width: 12},
		{Title: "Date", Width: 12},
		{Title: "Amount", Width: 12},
		{Title: "Entity", Width: 14},
		{Title: "Kind", Width: 8},
		{Title: "Invoice#", Width: 14},
		{Title: "Match", Width: 22},
		{Title: "Status", Width: 16},
	})

	rows := make([]table.Row, 0, len(m.invoices))

	for _, inv := range m.invoices {
		matchID, status := FormatMatch(inv.MatchID, inv.Status)
		rows = append(rows, table.Row{
			inv.ID,
			FormatDate(inv.Date),
			FormatAmount(inv.Amount),
			inv.Entity,
			string(inv.Kind),
			inv.InvoiceNo,
			matchID,
			status,
		})
	}

	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

func (m DatasetsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading datasets...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	name := "Invoices"
	count := len(m.invoices)

	if m.showBank {
		name = "Bank transactions"
		count = len(m.bank)
	}

	header := fmt.Sprintf("%s (%d rows) | [t] switch dataset", name, count)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Render(header),
		m.table.View(),
		lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()),
	)
}
