// Package report builds management reporting views over the ledger snapshot:
// the monthly overview with KPIs, the exceptions worklist, the double-entry
// journal and the downloadable board pack.
package report

import (
	"context"
	"fmt"

	"github.com/avandenberg/tally/internal/ledger"
)

// EntityAll aggregates every entity into a single series.
const EntityAll = "ALL"

type Service struct {
	ledger *ledger.Service
}

func NewService(ledgerService *ledger.Service) *Service {
	return &Service{ledger: ledgerService}
}

func (s *Service) Overview(ctx context.Context, entity string) (*Overview, error) {
	invoices, bank, err := s.ledger.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	if entity == "" {
		entity = EntityAll
	}

	return BuildOverview(invoices, bank, entity), nil
}

func (s *Service) Exceptions(ctx context.Context) (*Exceptions, error) {
	invoices, bank, err := s.ledger.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	return BuildExceptions(invoices, bank), nil
}

func (s *Service) Journal(ctx context.Context) ([]JournalRow, error) {
	invoices, bank, err := s.ledger.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	return BuildJournal(invoices, bank), nil
}

func (s *Service) BoardPack(ctx context.Context) ([]byte, error) {
	invoices, bank, err := s.ledger.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	return BuildBoardPack(invoices, bank)
}
