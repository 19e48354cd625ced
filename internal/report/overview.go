package report

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avandenberg/tally/internal/ledger"
)

// MonthlyRevenue is one row of the accrual P&L table.
type MonthlyRevenue struct {
	Entity  string          `json:"entity"`
	Month   time.Time       `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
	Expense decimal.Decimal `json:"expense"`
}

// MonthlyCash is one row of the cash flow table.
type MonthlyCash struct {
	Entity  string          `json:"entity"`
	Month   time.Time       `json:"month"`
	Inflow  decimal.Decimal `json:"inflow"`
	Outflow decimal.Decimal `json:"outflow"`
	NetCash decimal.Decimal `json:"net_cash"`
}

// SeriesPoint is one observation in a long-format chart series.
type SeriesPoint struct {
	Month  time.Time       `json:"month"`
	Metric string          `json:"metric"`
	Amount decimal.Decimal `json:"amount"`
}

type KPIs struct {
	MatchedCount    int              `json:"matched_count"`
	MatchedAmount   decimal.Decimal  `json:"matched_amount"`
	UnmatchedAmount decimal.Decimal  `json:"unmatched_amount"`
	GrossProfit     decimal.Decimal  `json:"gross_profit"`
	CashBalance     decimal.Decimal  `json:"cash_balance"`
	CollectionRate  decimal.Decimal  `json:"collection_rate"`
	RunwayMonths    *decimal.Decimal `json:"runway_months"`
}

type Overview struct {
	KPIs           KPIs             `json:"kpis"`
	RevVsCollected []SeriesPoint    `json:"rev_vs_collected"`
	RevenueTable   []MonthlyRevenue `json:"revenue_table"`
	CashTable      []MonthlyCash    `json:"cash_table"`
	TopAR          []ledger.Invoice `json:"top_ar"`
}

// Exceptions is the manual-review worklist: open receivables, unexplained
// inbound cash, and matched rows that involved fees or batching.
type Exceptions struct {
	UnmatchedInvoices []ledger.Invoice         `json:"unmatched_invoices"`
	UnmatchedBank     []ledger.BankTransaction `json:"unmatched_bank"`
	PSPBatch          []ledger.BankTransaction `json:"psp_batch"`
}

// BuildOverview computes the monthly tables and headline KPIs for one entity
// (or EntityAll). Match-level KPIs cover all entities; the tables and the
// profit/cash figures follow the selected entity.
func BuildOverview(invoices []ledger.Invoice, bank []ledger.BankTransaction, entity string) *Overview {
	revenueTable := filterRevenue(monthlyRevenue(invoices), entity)
	cashTable := filterCash(monthlyCash(bank), entity)

	var (
		matchedCount    int
		matchedAmount   decimal.Decimal
		unmatchedAmount decimal.Decimal
		topAR           []ledger.Invoice
	)

	matchedByMonth := make(map[time.Time]decimal.Decimal)

	for _, inv := range invoices {
		if inv.Kind != ledger.KindRevenue {
			continue
		}

		if inv.Matched() {
			matchedCount++
			matchedAmount = matchedAmount.Add(inv.Amount)
			month := ledger.Month(inv.Date)
			matchedByMonth[month] = matchedByMonth[month].Add(inv.Amount)
		} else {
			unmatchedAmount = unmatchedAmount.Add(inv.Amount)
			topAR = append(topAR, inv)
		}
	}

	sort.SliceStable(topAR, func(i, j int) bool {
		return topAR[i].Amount.GreaterThan(topAR[j].Amount)
	})
	if len(topAR) > 5 {
		topAR = topAR[:5]
	}

	var grossProfit, cashBalance, totalRevenue decimal.Decimal

	if n := len(revenueTable); n > 0 {
		last := revenueTable[n-1]
		grossProfit = last.Revenue.Sub(last.Expense)
	}

	for _, row := range revenueTable {
		totalRevenue = totalRevenue.Add(row.Revenue)
	}

	for _, row := range cashTable {
		cashBalance = cashBalance.Add(row.NetCash)
	}

	collectionRate := decimal.Zero
	if totalRevenue.IsPositive() {
		collectionRate = matchedAmount.DivRound(totalRevenue, 4)
	}

	return &Overview{
		KPIs: KPIs{
			MatchedCount:    matchedCount,
			MatchedAmount:   matchedAmount,
			UnmatchedAmount: unmatchedAmount,
			GrossProfit:     grossProfit,
			CashBalance:     cashBalance,
			CollectionRate:  collectionRate,
			RunwayMonths:    runwayMonths(cashTable, cashBalance),
		},
		RevVsCollected: revVsCollected(revenueTable, matchedByMonth),
		RevenueTable:   revenueTable,
		CashTable:      cashTable,
		TopAR:          topAR,
	}
}

func BuildExceptions(invoices []ledger.Invoice, bank []ledger.BankTransaction) *Exceptions {
	out := &Exceptions{
		UnmatchedInvoices: []ledger.Invoice{},
		UnmatchedBank:     []ledger.BankTransaction{},
		PSPBatch:          []ledger.BankTransaction{},
	}

	for _, inv := range invoices {
		if inv.Kind == ledger.KindRevenue && !inv.Matched() {
			out.UnmatchedInvoices = append(out.UnmatchedInvoices, inv)
		}
	}

	for _, tx := range bank {
		if tx.Direction == ledger.DirectionIn && !tx.Matched() {
			out.UnmatchedBank = append(out.UnmatchedBank, tx)
		}

		if tx.Status != nil && needsReview(string(*tx.Status)) {
			out.PSPBatch = append(out.PSPBatch, tx)
		}
	}

	return out
}

func needsReview(status string) bool {
	status = strings.ToLower(status)

	return strings.Contains(status, "fee") ||
		strings.Contains(status, "batch") ||
		strings.Contains(status, "partial")
}

func monthlyRevenue(invoices []ledger.Invoice) []MonthlyRevenue {
	type key struct {
		entity string
		month  time.Time
	}

	totals := make(map[key]*MonthlyRevenue)

	add := func(entity string, inv ledger.Invoice) {
		k := key{entity: entity, month: ledger.Month(inv.Date)}

		row, ok := totals[k]
		if !ok {
			row = &MonthlyRevenue{Entity: entity, Month: k.month}
			totals[k] = row
		}

		switch inv.Kind {
		case ledger.KindRevenue:
			row.Revenue = row.Revenue.Add(inv.Amount)
		case ledger.KindExpense:
			row.Expense = row.Expense.Add(inv.Amount)
		}
	}

	for _, inv := range invoices {
		add(inv.Entity, inv)
		add(EntityAll, inv)
	}

	rows := make([]MonthlyRevenue, 0, len(totals))
	for _, row := range totals {
		rows = append(rows, *row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Entity != rows[j].Entity {
			return rows[i].Entity < rows[j].Entity
		}

		return rows[i].Month.Before(rows[j].Month)
	})

	return rows
}

func monthlyCash(bank []ledger.BankTransaction) []MonthlyCash {
	type key struct {
		entity string
		month  time.Time
	}

	totals := make(map[key]*MonthlyCash)

	add := func(entity string, tx ledger.BankTransaction) {
		k := key{entity: entity, month: ledger.Month(tx.Date)}

		row, ok := totals[k]
		if !ok {
			row = &MonthlyCash{Entity: entity, Month: k.month}
			totals[k] = row
		}

		switch tx.Direction {
		case ledger.DirectionIn:
			row.Inflow = row.Inflow.Add(tx.Amount)
		case ledger.DirectionOut:
			row.Outflow = row.Outflow.Add(tx.Amount)
		}
	}

	for _, tx := range bank {
		add(tx.Entity, tx)
		add(EntityAll, tx)
	}

	rows := make([]MonthlyCash, 0, len(totals))

	for _, row := range totals {
		row.NetCash = row.Inflow.Sub(row.Outflow)
		rows = append(rows, *row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Entity != rows[j].Entity {
			return rows[i].Entity < rows[j].Entity
		}

		return rows[i].Month.Before(rows[j].Month)
	})

	return rows
}

func filterRevenue(rows []MonthlyRevenue, entity string) []MonthlyRevenue {
	out := make([]MonthlyRevenue, 0, len(rows))

	for _, row := range rows {
		if row.Entity == entity {
			out = append(out, row)
		}
	}

	return out
}

func filterCash(rows []MonthlyCash, entity string) []MonthlyCash {
	out := make([]MonthlyCash, 0, len(rows))

	for _, row := range rows {
		if row.Entity == entity {
			out = append(out, row)
		}
	}

	return out
}

// runwayMonths projects how long the cash balance lasts at the previous
// month's burn rate. Nil when the previous month was cash positive or there
// is no history.
func runwayMonths(cashTable []MonthlyCash, cashBalance decimal.Decimal) *decimal.Decimal {
	if len(cashTable) < 2 {
		return nil
	}

	prev := cashTable[len(cashTable)-2].NetCash
	if !prev.IsNegative() {
		return nil
	}

	burn := prev.Abs()
	if burn.LessThan(decimal.NewFromInt(1)) {
		burn = decimal.NewFromInt(1)
	}

	runway := cashBalance.DivRound(burn, 2)

	return &runway
}

func revVsCollected(revenueTable []MonthlyRevenue, matchedByMonth map[time.Time]decimal.Decimal) []SeriesPoint {
	months := make(map[time.Time]struct{})

	accrual := make(map[time.Time]decimal.Decimal, len(revenueTable))
	for _, row := range revenueTable {
		accrual[row.Month] = row.Revenue
		months[row.Month] = struct{}{}
	}

	for month := range matchedByMonth {
		months[month] = struct{}{}
	}

	ordered := make([]time.Time, 0, len(months))
	for month := range months {
		ordered = append(ordered, month)
	}

	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Before(ordered[j]) })

	points := make([]SeriesPoint, 0, 2*len(ordered))

	for _, month := range ordered {
		points = append(points,
			SeriesPoint{Month: month, Metric: "revenue", Amount: accrual[month]},
			SeriesPoint{Month: month, Metric: "matched_revenue", Amount: matchedByMonth[month]},
		)
	}

	return points
}
