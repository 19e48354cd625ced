package view

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avandenberg/tally/internal/ledger"
)

const dbTimeout = 5 * time.Second

// FormatAmount renders a monetary amount with two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatMatch renders the match columns of a row.
func FormatMatch(matchID *string, status *ledger.MatchStatus) (string, string) {
	id, st := "-", "-"

	if matchID != nil && *matchID != "" {
		id = *matchID
	}

	if status != nil {
		st = string(*status)
	}

	return id, st
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
