package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/avandenberg/tally/internal/report"
)

type exceptionsSection int

const (
	sectionUnmatchedInvoices exceptionsSection = iota
	sectionUnmatchedBank
	sectionPSPBatch
	sectionCount
)

type exceptionsLoadMsg struct {
	exceptions *report.Exceptions
	err        error
}

// ExceptionsModel shows the manual-review worklist in three sections.
type ExceptionsModel struct {
	reportSvc *report.Service

	table      table.Model
	section    exceptionsSection
	exceptions *report.Exceptions
	loading    bool
	err        error
}

func NewExceptionsModel(reportSvc *report.Service) ExceptionsModel {
	return ExceptionsModel{
		reportSvc: reportSvc,
		table:     newTable(),
		loading:   true,
	}
}

func (m ExceptionsModel) Title() string { return "Exceptions" }
func (m ExceptionsModel) ShortHelp() string {
	return "Esc: back | t: next section | r: refresh"
}

func (m ExceptionsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ExceptionsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		exceptions, err := m.reportSvc.Exceptions(ctx)

		return exceptionsLoadMsg{exceptions: exceptions, err: err}
	}
}

func (m ExceptionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case exceptionsLoadMsg:
		m.loading = false

		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.exceptions = msg.exceptions
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
			m.section = (m.section + 1) % sectionCount
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

func (m *ExceptionsModel) refreshTable() {
	if m.exceptions == nil {
		return
	}

	if m.section == sectionUnmatchedInvoices {
		m.table.SetColumns([]table.Column{
			{Title: "ID", Width: 12},
			{Title: "Date", Width: 12},
			{Title: "Amount", Width: 12},
			{Title: "Entity", Width: 14},
			{Title: "Invoice#", Width: 16},
		})

		rows := make([]table.Row, 0, len(m.exceptions.UnmatchedInvoices))

		for _, inv := range m.exceptions.UnmatchedInvoices {
			rows = append(rows, table.Row{
				inv.ID,
				FormatDate(inv.Date),
				FormatAmount(inv.Amount),
				inv.Entity,
				inv.InvoiceNo,
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
		{Title: "Partner", Width: 24},
		{Title: "Status", Width: 16},
	})

	src := m.exceptions.UnmatchedBank
	if m.section == sectionPSPBatch {
		src = m.exceptions.PSPBatch
	}

	rows := make([]table.Row, 0, len(src))

	for _, tx := range src {
		_, status := FormatMatch(tx.MatchID, tx.Status)
		rows = append(rows, table.Row{
			tx.ID,
			FormatDate(tx.Date),
			FormatAmount(tx.Amount),
			tx.Entity,
			tx.PartnerText(),
			status,
		})
	}

	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

func (m ExceptionsModel) sectionTitle() string {
	switch m.section {
	case sectionUnmatchedBank:
		return fmt.Sprintf("Unmatched bank rows (%d)", len(m.exceptions.UnmatchedBank))
	case sectionPSPBatch:
		return fmt.Sprintf("Fee and batch matches (%d)", len(m.exceptions.PSPBatch))
	default:
		return fmt.Sprintf("Unmatched invoices (%d)", len(m.exceptions.UnmatchedInvoices))
	}
}

func (m ExceptionsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading exceptions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Render(m.sectionTitle()+" | [t] next section"),
		m.table.View(),
		lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()),
	)
}
