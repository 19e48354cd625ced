package view

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/avandenberg/tally/internal/ledger"
	"github.com/avandenberg/tally/internal/recon"
)

type reconcileState int

const (
	reconcileStateForm reconcileState = iota
	reconcileStateRunning
	reconcileStateDone
)

type reconcileRunMsg struct {
	summary recon.Summary
	err     error
}

// ReconcileModel collects matching settings in a form, runs the engine over
// the current snapshot and shows the result.
type ReconcileModel struct {
	engine    *recon.Engine
	ledgerSvc *ledger.Service

	state   reconcileState
	form    *huh.Form
	summary recon.Summary
	err     error

	// Form field bindings
	formWindow    string
	formTolerance string
	formFeeAbs    string
	formFeePct    string
	formOnlyPSP   bool
	formPersist   bool
}

func NewReconcileModel(engine *recon.Engine, ledgerSvc *ledger.Service, defaults recon.Config) ReconcileModel {
	m := ReconcileModel{
		engine:        engine,
		ledgerSvc:     ledgerSvc,
		formWindow:    strconv.Itoa(defaults.DateWindowDays),
		formTolerance: defaults.AmountTolerance.StringFixed(2),
		formFeeAbs:    defaults.PSPFeeAbs.StringFixed(2),
		formFeePct:    defaults.PSPFeePct.Mul(decimal.NewFromInt(100)).StringFixed(1),
		formOnlyPSP:   defaults.OnlyPSPNames,
	}

	m.form = m.buildForm()

	return m
}

func (m ReconcileModel) Title() string { return "Reconcile" }
func (m ReconcileModel) ShortHelp() string {
	if m.state == reconcileStateForm {
		return "Navigate form | Esc: back"
	}

	return "Esc: back"
}

func (m *ReconcileModel) buildForm() *huh.Form {
	validateInt := func(s string) error {
		if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
			return fmt.Errorf("must be a whole number")
		}

		return nil
	}

	validateDecimal := func(s string) error {
		if _, err := decimal.NewFromString(strings.TrimSpace(s)); err != nil {
			return fmt.Errorf("must be a number")
		}

		return nil
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("window").
				Title("Date window (days)").
				Value(&m.formWindow).
				Validate(validateInt),

			huh.NewInput().
				Key("tolerance").
				Title("Amount tolerance").
				Value(&m.formTolerance).
				Validate(validateDecimal),

			huh.NewInput().
				Key("fee_abs").
				Title("Max processor fee").
				Value(&m.formFeeAbs).
				Validate(validateDecimal),

			huh.NewInput().
				Key("fee_pct").
				Title("Max processor fee (%)").
				Value(&m.formFeePct).
				Validate(validateDecimal),

			huh.NewConfirm().
				Key("only_psp").
				Title("Require processor name for fee matches?").
				Value(&m.formOnlyPSP),

			huh.NewConfirm().
				Key("persist").
				Title("Persist matches?").
				Value(&m.formPersist),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ReconcileModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ReconcileModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case reconcileRunMsg:
		m.state = reconcileStateDone
		m.summary = msg.summary
		m.err = msg.err

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	if m.state != reconcileStateForm {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = reconcileStateRunning

	return m, m.runCmd()
}

func (m ReconcileModel) runCmd() tea.Cmd {
	cfg, err := m.config()

	return func() tea.Msg {
		if err != nil {
			return reconcileRunMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		invoices, bank, err := m.ledgerSvc.Snapshot(ctx)
		if err != nil {
			return reconcileRunMsg{err: err}
		}

		invoices, bank, summary, err := m.engine.Reconcile(invoices, bank, cfg)
		if err != nil {
			return reconcileRunMsg{err: err}
		}

		if m.form.GetBool("persist") {
			if err := m.ledgerSvc.CommitMatches(ctx, invoices, bank); err != nil {
				return reconcileRunMsg{err: err}
			}
		}

		return reconcileRunMsg{summary: summary}
	}
}

func (m ReconcileModel) config() (recon.Config, error) {
	window, err := strconv.Atoi(strings.TrimSpace(m.form.GetString("window")))
	if err != nil {
		return recon.Config{}, fmt.Errorf("date window: %w", err)
	}

	tolerance, err := decimal.NewFromString(strings.TrimSpace(m.form.GetString("tolerance")))
	if err != nil {
		return recon.Config{}, fmt.Errorf("tolerance: %w", err)
	}

	feeAbs, err := decimal.NewFromString(strings.TrimSpace(m.form.GetString("fee_abs")))
	if err != nil {
		return recon.Config{}, fmt.Errorf("fee cap: %w", err)
	}

	feePct, err := decimal.NewFromString(strings.TrimSpace(m.form.GetString("fee_pct")))
	if err != nil {
		return recon.Config{}, fmt.Errorf("fee percentage: %w", err)
	}

	cfg := recon.Config{
		DateWindowDays:  window,
		AmountTolerance: tolerance,
		PSPFeeAbs:       feeAbs,
		PSPFeePct:       feePct.Div(decimal.NewFromInt(100)),
		OnlyPSPNames:    m.form.GetBool("only_psp"),
	}

	return cfg, cfg.Validate()
}

func (m ReconcileModel) View() string {
	switch m.state {
	case reconcileStateRunning:
		return lipgloss.NewStyle().Padding(2).Render("Reconciling...")

	case reconcileStateDone:
		if m.err != nil {
			return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v\n\nEsc: back", m.err))
		}

		var sb strings.Builder

		total := m.summary.Rule1Count + m.summary.Rule2Count + m.summary.Rule3Count

		sb.WriteString(fmt.Sprintf("Matched %d invoices\n\n", total))
		sb.WriteString(fmt.Sprintf("  Exact:        %d\n", m.summary.Rule1Count))
		sb.WriteString(fmt.Sprintf("  Fee-tolerant: %d\n", m.summary.Rule2Count))
		sb.WriteString(fmt.Sprintf("  Batch:        %d\n", m.summary.Rule3Count))

		if len(m.summary.Events) > 0 {
			sb.WriteString("\nRecent matches:\n")

			events := m.summary.Events
			if len(events) > 10 {
				events = events[len(events)-10:]
			}

			for _, ev := range events {
				sb.WriteString(fmt.Sprintf("  %s  %s\n", ev.Rule, ev.MatchID))
			}
		}

		sb.WriteString("\nEsc: back")

		return lipgloss.NewStyle().Padding(2).Render(sb.String())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Padding(1, 0).Render("Reconcile settings"),
		m.form.View(),
	)
}
