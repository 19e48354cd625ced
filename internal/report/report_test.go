package report

import (
	"archive/zip"
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avandenberg/tally/internal/ledger"
)

func date(day int) time.Time {
	return time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC)
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func matchedInvoice(id string, day int, amount, entity, matchID string, status ledger.MatchStatus) ledger.Invoice {
	return ledger.Invoice{
		ID:      id,
		Date:    date(day),
		Amount:  amt(amount),
		Entity:  entity,
		Kind:    ledger.KindRevenue,
		MatchID: &matchID,
		Status:  &status,
	}
}

func TestBuildOverview_KPIs(t *testing.T) {
	invoices := []ledger.Invoice{
		matchedInvoice("INV-1", 1, "1000.00", "Acme BV", "MINV-1-BT-1", ledger.StatusMatched),
		{ID: "INV-2", Date: date(3), Amount: amt("500.00"), Entity: "Acme BV", Kind: ledger.KindRevenue},
		{ID: "INV-3", Date: date(5), Amount: amt("200.00"), Entity: "Acme BV", Kind: ledger.KindExpense},
	}
	bank := []ledger.BankTransaction{
		{ID: "BT-1", Date: date(2), Amount: amt("1000.00"), Entity: "Acme BV", Direction: ledger.DirectionIn},
		{ID: "BT-2", Date: date(6), Amount: amt("300.00"), Entity: "Acme BV", Direction: ledger.DirectionOut},
	}

	ov := BuildOverview(invoices, bank, EntityAll)

	assert.Equal(t, 1, ov.KPIs.MatchedCount)
	assert.True(t, ov.KPIs.MatchedAmount.Equal(amt("1000.00")))
	assert.True(t, ov.KPIs.UnmatchedAmount.Equal(amt("500.00")))
	assert.True(t, ov.KPIs.GrossProfit.Equal(amt("1300.00")))
	assert.True(t, ov.KPIs.CashBalance.Equal(amt("700.00")))
	assert.True(t, ov.KPIs.CollectionRate.Equal(amt("0.6667")))
	assert.Nil(t, ov.KPIs.RunwayMonths)

	require.Len(t, ov.RevenueTable, 1)
	assert.True(t, ov.RevenueTable[0].Revenue.Equal(amt("1500.00")))
	assert.True(t, ov.RevenueTable[0].Expense.Equal(amt("200.00")))

	require.Len(t, ov.CashTable, 1)
	assert.True(t, ov.CashTable[0].NetCash.Equal(amt("700.00")))

	require.Len(t, ov.TopAR, 1)
	assert.Equal(t, "INV-2", ov.TopAR[0].ID)

	require.Len(t, ov.RevVsCollected, 2)
	assert.Equal(t, "revenue", ov.RevVsCollected[0].Metric)
	assert.True(t, ov.RevVsCollected[0].Amount.Equal(amt("1500.00")))
	assert.Equal(t, "matched_revenue", ov.RevVsCollected[1].Metric)
	assert.True(t, ov.RevVsCollected[1].Amount.Equal(amt("1000.00")))
}

func TestBuildOverview_EntityFilter(t *testing.T) {
	invoices := []ledger.Invoice{
		{ID: "INV-1", Date: date(1), Amount: amt("100.00"), Entity: "Acme BV", Kind: ledger.KindRevenue},
		{ID: "INV-2", Date: date(1), Amount: amt("900.00"), Entity: "Acme GmbH", Kind: ledger.KindRevenue},
	}

	ov := BuildOverview(invoices, nil, "Acme BV")

	require.Len(t, ov.RevenueTable, 1)
	assert.Equal(t, "Acme BV", ov.RevenueTable[0].Entity)
	assert.True(t, ov.RevenueTable[0].Revenue.Equal(amt("100.00")))
}

func TestBuildOverview_RunwayFromPreviousBurn(t *testing.T) {
	bank := []ledger.BankTransaction{
		{ID: "BT-1", Date: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), Amount: amt("1000.00"), Entity: "Acme BV", Direction: ledger.DirectionIn},
		{ID: "BT-2", Date: time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), Amount: amt("200.00"), Entity: "Acme BV", Direction: ledger.DirectionOut},
		{ID: "BT-3", Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), Amount: amt("50.00"), Entity: "Acme BV", Direction: ledger.DirectionIn},
	}

	ov := BuildOverview(nil, bank, EntityAll)

	// Balance 850, previous month burned 200.
	require.NotNil(t, ov.KPIs.RunwayMonths)
	assert.True(t, ov.KPIs.RunwayMonths.Equal(amt("4.25")))
}

func TestBuildExceptions(t *testing.T) {
	feeStatus := ledger.StatusMatchedFee

	invoices := []ledger.Invoice{
		{ID: "INV-1", Date: date(1), Amount: amt("100.00"), Entity: "Acme BV", Kind: ledger.KindRevenue},
		{ID: "INV-2", Date: date(1), Amount: amt("50.00"), Entity: "Acme BV", Kind: ledger.KindExpense},
	}
	matchID := "FINV-3-BT-1"
	bank := []ledger.BankTransaction{
		{ID: "BT-1", Date: date(2), Amount: amt("96.00"), Entity: "Acme BV", Direction: ledger.DirectionIn, MatchID: &matchID, Status: &feeStatus},
		{ID: "BT-2", Date: date(3), Amount: amt("40.00"), Entity: "Acme BV", Direction: ledger.DirectionIn},
		{ID: "BT-3", Date: date(4), Amount: amt("10.00"), Entity: "Acme BV", Direction: ledger.DirectionOut},
	}

	ex := BuildExceptions(invoices, bank)

	require.Len(t, ex.UnmatchedInvoices, 1)
	assert.Equal(t, "INV-1", ex.UnmatchedInvoices[0].ID)

	require.Len(t, ex.UnmatchedBank, 1)
	assert.Equal(t, "BT-2", ex.UnmatchedBank[0].ID)

	require.Len(t, ex.PSPBatch, 1)
	assert.Equal(t, "BT-1", ex.PSPBatch[0].ID)
}

func TestBuildJournal_ExactMatch(t *testing.T) {
	matchID := "MINV-1-BT-1"
	status := ledger.StatusMatched

	invoices := []ledger.Invoice{
		matchedInvoice("INV-1", 1, "1000.00", "Acme BV", matchID, ledger.StatusMatched),
	}
	bank := []ledger.BankTransaction{
		{ID: "BT-1", Date: date(2), Amount: amt("1000.00"), Entity: "Acme BV", Direction: ledger.DirectionIn, MatchID: &matchID, Status: &status},
	}

	journal := BuildJournal(invoices, bank)
	require.Len(t, journal, 2)

	assert.Equal(t, AccountCash, journal[0].Account)
	assert.True(t, journal[0].Debit.Equal(amt("1000.00")))
	assert.Equal(t, matchID, journal[0].Ref)

	assert.Equal(t, AccountRevenue, journal[1].Account)
	assert.True(t, journal[1].Credit.Equal(amt("1000.00")))
}

func TestBuildJournal_FeeMatchPostsFeeLeg(t *testing.T) {
	matchID := "FINV-1-BT-1"
	status := ledger.StatusMatchedFee

	invoices := []ledger.Invoice{
		matchedInvoice("INV-1", 1, "1000.00", "Acme BV", matchID, ledger.StatusMatchedFee),
	}
	bank := []ledger.BankTransaction{
		{ID: "BT-1", Date: date(2), Amount: amt("971.00"), Entity: "Acme BV", Direction: ledger.DirectionIn, MatchID: &matchID, Status: &status},
	}

	journal := BuildJournal(invoices, bank)
	require.Len(t, journal, 3)

	assert.Equal(t, AccountPSPFees, journal[2].Account)
	assert.True(t, journal[2].Debit.Equal(amt("29.00")))

	assertBalanced(t, journal)
}

func TestBuildJournal_BatchSharesOneCashLeg(t *testing.T) {
	matchID := "BBT-1-INV-1,INV-2"
	status := ledger.StatusMatchedBatch

	invoices := []ledger.Invoice{
		matchedInvoice("INV-1", 1, "100.00", "Acme BV", matchID, ledger.StatusMatchedBatch),
		matchedInvoice("INV-2", 2, "50.00", "Acme BV", matchID, ledger.StatusMatchedBatch),
	}
	bank := []ledger.BankTransaction{
		{ID: "BT-1", Date: date(3), Amount: amt("145.00"), Entity: "Acme BV", Direction: ledger.DirectionIn, MatchID: &matchID, Status: &status},
	}

	journal := BuildJournal(invoices, bank)
	require.Len(t, journal, 4)

	var cashLegs int

	for _, row := range journal {
		if row.Account == AccountCash {
			cashLegs++
		}
	}

	assert.Equal(t, 1, cashLegs)
	assertBalanced(t, journal)
}

func TestBuildJournal_UnmatchedRevenueAccruesToAR(t *testing.T) {
	invoices := []ledger.Invoice{
		{ID: "INV-1", Date: date(1), Amount: amt("750.00"), Entity: "Acme BV", Kind: ledger.KindRevenue},
	}

	journal := BuildJournal(invoices, nil)
	require.Len(t, journal, 2)

	assert.Equal(t, AccountAR, journal[0].Account)
	assert.Equal(t, "UNMATCHED", journal[0].Ref)
	assert.Equal(t, AccountRevenue, journal[1].Account)

	assertBalanced(t, journal)
}

func TestBuildJournal_OrphanMatchIDIsUnresolved(t *testing.T) {
	invoices := []ledger.Invoice{
		matchedInvoice("INV-1", 1, "300.00", "Acme BV", "MINV-1-BT-9", ledger.StatusMatched),
	}

	journal := BuildJournal(invoices, nil)
	require.Len(t, journal, 2)

	assert.Equal(t, AccountAR, journal[0].Account)
	assert.Equal(t, "UNRESOLVED", journal[0].Ref)
}

func assertBalanced(t *testing.T, journal []JournalRow) {
	t.Helper()

	var debit, credit decimal.Decimal

	for _, row := range journal {
		debit = debit.Add(row.Debit)
		credit = credit.Add(row.Credit)
	}

	assert.True(t, debit.Equal(credit), "debits %s != credits %s", debit, credit)
}

func TestBuildBoardPack(t *testing.T) {
	matchID := "MINV-1-BT-1"
	status := ledger.StatusMatched

	invoices := []ledger.Invoice{
		matchedInvoice("INV-1", 1, "1000.00", "Acme BV", matchID, ledger.StatusMatched),
	}
	bank := []ledger.BankTransaction{
		{ID: "BT-1", Date: date(2), Amount: amt("1000.00"), Entity: "Acme BV", Direction: ledger.DirectionIn, MatchID: &matchID, Status: &status},
	}

	blob, err := BuildBoardPack(invoices, bank)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	require.NoError(t, err)

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}

	assert.ElementsMatch(t, names, []string{
		"journal.csv",
		"pl_monthly.csv",
		"cash_monthly.csv",
		"invoices_raw.csv",
		"bank_raw.csv",
	})
}
