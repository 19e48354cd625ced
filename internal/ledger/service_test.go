package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/avandenberg/tally/internal/ledger"
)

func TestService_Snapshot(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *ledger.MockRepository)
		wantInv   int
		wantBank  int
		wantErr   bool
	}

	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().
					ListInvoices(gomock.Any()).
					Return([]ledger.Invoice{
						{ID: "INV-1", Date: date, Amount: decimal.NewFromInt(100), Entity: "NL", Kind: ledger.KindRevenue},
						{ID: "INV-2", Date: date, Amount: decimal.NewFromInt(50), Entity: "NL", Kind: ledger.KindExpense},
					}, nil)
				m.EXPECT().
					ListBankTransactions(gomock.Any()).
					Return([]ledger.BankTransaction{
						{ID: "BT-1", Date: date, Amount: decimal.NewFromInt(100), Entity: "NL", Direction: ledger.DirectionIn},
					}, nil)
			},
			wantInv:  2,
			wantBank: 1,
		},
		{
			name: "InvoiceError",
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().
					ListInvoices(gomock.Any()).
					Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
		{
			name: "BankError",
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().
					ListInvoices(gomock.Any()).
					Return([]ledger.Invoice{}, nil)
				m.EXPECT().
					ListBankTransactions(gomock.Any()).
					Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := ledger.NewService(repo)
			inv, bank, err := svc.Snapshot(context.Background())

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Len(t, inv, tt.wantInv)
			assert.Len(t, bank, tt.wantBank)
		})
	}
}

func TestService_CommitMatches_OnlyMatchedRows(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	svc := ledger.NewService(repo)

	mid := "MINV-1-BT-1"
	matched := ledger.StatusMatched

	invoices := []ledger.Invoice{
		{ID: "INV-1", MatchID: &mid, Status: &matched},
		{ID: "INV-2"},
	}
	bank := []ledger.BankTransaction{
		{ID: "BT-1", MatchID: &mid, Status: &matched},
		{ID: "BT-2"},
	}

	repo.EXPECT().
		SaveMatches(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inv []ledger.Invoice, btx []ledger.BankTransaction) error {
			require.Len(t, inv, 1)
			require.Len(t, btx, 1)
			assert.Equal(t, "INV-1", inv[0].ID)
			assert.Equal(t, "BT-1", btx[0].ID)
			return nil
		})

	err := svc.CommitMatches(context.Background(), invoices, bank)
	require.NoError(t, err)
}

func TestService_CommitMatches_NothingMatched(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	svc := ledger.NewService(repo)

	// No SaveMatches call expected.
	err := svc.CommitMatches(context.Background(), []ledger.Invoice{{ID: "INV-1"}}, []ledger.BankTransaction{{ID: "BT-1"}})
	require.NoError(t, err)
}

func TestService_ReplaceInvoices(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	svc := ledger.NewService(repo)

	rows := []ledger.Invoice{{ID: "INV-1"}, {ID: "INV-2"}}

	repo.EXPECT().ReplaceInvoices(gomock.Any(), rows).Return(nil)

	n, err := svc.ReplaceInvoices(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestPartnerText(t *testing.T) {
	b := ledger.BankTransaction{Partner: "STRIPE PAYOUT", Memo: "weekly settlement"}
	assert.Equal(t, "STRIPE PAYOUT", b.PartnerText())

	b = ledger.BankTransaction{Memo: "adyen batch"}
	assert.Equal(t, "adyen batch", b.PartnerText())
}

func TestMonth(t *testing.T) {
	d := time.Date(2024, 3, 17, 13, 45, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), ledger.Month(d))
}
