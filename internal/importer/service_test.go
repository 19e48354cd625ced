package importer

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avandenberg/tally/internal/ledger"
)

func TestParseInvoices(t *testing.T) {
	csvData := strings.Join([]string{
		"id,date,amount,entity,kind,invoice_no,match_id,status",
		"INV-1,2025-03-01,1200.50,Acme BV,revenue,F2025-001,,",
		"INV-2,2025-03-04,89.99,Acme BV,expense,F2025-002,MINV-2-BT-9,Matched",
	}, "\n")

	svc := NewService("data")

	invoices, err := svc.ParseInvoices(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, invoices, 2)

	assert.Equal(t, "INV-1", invoices[0].ID)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), invoices[0].Date)
	assert.True(t, invoices[0].Amount.Equal(decimal.RequireFromString("1200.50")))
	assert.Equal(t, "Acme BV", invoices[0].Entity)
	assert.Equal(t, ledger.KindRevenue, invoices[0].Kind)
	assert.Equal(t, "F2025-001", invoices[0].InvoiceNo)
	assert.Nil(t, invoices[0].MatchID)
	assert.Nil(t, invoices[0].Status)

	require.NotNil(t, invoices[1].MatchID)
	assert.Equal(t, "MINV-2-BT-9", *invoices[1].MatchID)
	require.NotNil(t, invoices[1].Status)
	assert.Equal(t, ledger.StatusMatched, *invoices[1].Status)
}

func TestParseInvoices_SemicolonAndEuropeanAmounts(t *testing.T) {
	csvData := strings.Join([]string{
		"id;date;amount;entity;type",
		"INV-1;01-03-2025;1.234,56;Acme BV;revenue",
	}, "\n")

	svc := NewService("data")

	invoices, err := svc.ParseInvoices(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, invoices, 1)

	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), invoices[0].Date)
	assert.True(t, invoices[0].Amount.Equal(decimal.RequireFromString("1234.56")))
	assert.Equal(t, ledger.KindRevenue, invoices[0].Kind)
}

func TestParseInvoices_GeneratesMissingIDs(t *testing.T) {
	csvData := strings.Join([]string{
		"date,amount,entity,kind",
		"2025-03-01,100.00,Acme BV,revenue",
	}, "\n")

	svc := NewService("data")

	invoices, err := svc.ParseInvoices(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, invoices, 1)

	assert.True(t, strings.HasPrefix(invoices[0].ID, "INV-"))
	assert.Greater(t, len(invoices[0].ID), len("INV-"))
}

func TestParseInvoices_Errors(t *testing.T) {
	tests := []struct {
		name    string
		csvData string
		wantErr string
	}{
		{
			name:    "missing required columns",
			csvData: "id,amount\nINV-1,100.00",
			wantErr: "missing required columns: date, entity",
		},
		{
			name:    "missing kind column",
			csvData: "date,amount,entity\n2025-03-01,100.00,Acme BV",
			wantErr: "missing required columns: kind",
		},
		{
			name:    "bad date",
			csvData: "date,amount,entity,kind\nnot-a-date,100.00,Acme BV,revenue",
			wantErr: "row 2",
		},
		{
			name:    "bad amount",
			csvData: "date,amount,entity,kind\n2025-03-01,abc,Acme BV,revenue",
			wantErr: "row 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService("data")

			_, err := svc.ParseInvoices(strings.NewReader(tt.csvData))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseBankTransactions(t *testing.T) {
	csvData := strings.Join([]string{
		"id,date,amount,entity,direction,partner,memo",
		"BT-1,2025-03-02,1200.50,Acme BV,in,Stripe Payments,payout ref 441",
		",2025-03-05,-45.00,Acme BV,out,,office supplies",
	}, "\n")

	svc := NewService("data")

	txs, err := svc.ParseBankTransactions(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, "BT-1", txs[0].ID)
	assert.Equal(t, ledger.DirectionIn, txs[0].Direction)
	assert.Equal(t, "Stripe Payments", txs[0].Partner)
	assert.Equal(t, "payout ref 441", txs[0].Memo)

	assert.True(t, strings.HasPrefix(txs[1].ID, "BT-"))
	assert.Equal(t, ledger.DirectionOut, txs[1].Direction)
	assert.True(t, txs[1].Amount.Equal(decimal.RequireFromString("-45.00")))
}

func TestParseBankTransactions_MissingDirection(t *testing.T) {
	csvData := "date,amount,entity\n2025-03-01,100.00,Acme BV"

	svc := NewService("data")

	_, err := svc.ParseBankTransactions(strings.NewReader(csvData))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns: direction")
}

func TestParseBankTransactions_SkipsBlankRows(t *testing.T) {
	csvData := strings.Join([]string{
		"date,amount,entity,direction",
		"2025-03-01,100.00,Acme BV,in",
		"",
		",,,",
	}, "\n")

	svc := NewService("data")

	txs, err := svc.ParseBankTransactions(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestDatasetValid(t *testing.T) {
	assert.True(t, DatasetInvoices.Valid())
	assert.True(t, DatasetBankTx.Valid())
	assert.False(t, Dataset("payroll").Valid())
}
