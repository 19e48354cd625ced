package ledger

import (
	"context"
	"fmt"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	ListInvoices(ctx context.Context) ([]Invoice, error)
	ListBankTransactions(ctx context.Context) ([]BankTransaction, error)

	ReplaceInvoices(ctx context.Context, rows []Invoice) error
	ReplaceBankTransactions(ctx context.Context, rows []BankTransaction) error

	SaveMatches(ctx context.Context, invoices []Invoice, bank []BankTransaction) error

	HasData(ctx context.Context) (bool, error)
	Reset(ctx context.Context) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Snapshot loads the full invoice and bank datasets. The matching engine
// always runs against a snapshot of both.
func (s *Service) Snapshot(ctx context.Context) ([]Invoice, []BankTransaction, error) {
	invoices, err := s.repo.ListInvoices(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listing invoices: %w", err)
	}

	bank, err := s.repo.ListBankTransactions(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listing bank transactions: %w", err)
	}

	return invoices, bank, nil
}

// ReplaceInvoices swaps the invoice dataset wholesale and returns the row count.
func (s *Service) ReplaceInvoices(ctx context.Context, rows []Invoice) (int, error) {
	if err := s.repo.ReplaceInvoices(ctx, rows); err != nil {
		return 0, fmt.Errorf("replacing invoices: %w", err)
	}

	return len(rows), nil
}

// ReplaceBankTransactions swaps the bank dataset wholesale and returns the row count.
func (s *Service) ReplaceBankTransactions(ctx context.Context, rows []BankTransaction) (int, error) {
	if err := s.repo.ReplaceBankTransactions(ctx, rows); err != nil {
		return 0, fmt.Errorf("replacing bank transactions: %w", err)
	}

	return len(rows), nil
}

// CommitMatches persists match ids and statuses produced by a reconciliation
// run. Only rows the engine actually matched are written; everything else is
// left untouched.
func (s *Service) CommitMatches(ctx context.Context, invoices []Invoice, bank []BankTransaction) error {
	matchedInv := make([]Invoice, 0, len(invoices))

	for _, inv := range invoices {
		if inv.Matched() {
			matchedInv = append(matchedInv, inv)
		}
	}

	matchedBank := make([]BankTransaction, 0, len(bank))

	for _, b := range bank {
		if b.Matched() {
			matchedBank = append(matchedBank, b)
		}
	}

	if len(matchedInv) == 0 && len(matchedBank) == 0 {
		return nil
	}

	if err := s.repo.SaveMatches(ctx, matchedInv, matchedBank); err != nil {
		return fmt.Errorf("saving matches: %w", err)
	}

	return nil
}

func (s *Service) HasData(ctx context.Context) (bool, error) {
	return s.repo.HasData(ctx)
}

func (s *Service) Reset(ctx context.Context) error {
	return s.repo.Reset(ctx)
}
