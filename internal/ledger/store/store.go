package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avandenberg/tally/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the two dataset tables if they do not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS invoices (
			id TEXT PRIMARY KEY,
			date DATE NOT NULL,
			amount NUMERIC(14,2) NOT NULL,
			entity TEXT NOT NULL,
			kind TEXT NOT NULL,
			invoice_no TEXT,
			match_id TEXT,
			status TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS bank_tx (
			id TEXT PRIMARY KEY,
			date DATE NOT NULL,
			amount NUMERIC(14,2) NOT NULL,
			entity TEXT NOT NULL,
			direction TEXT NOT NULL,
			partner TEXT,
			memo TEXT,
			match_id TEXT,
			status TEXT
		)`,
	}

	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrating schema: %w", err)
		}
	}

	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanInvoice(s scanner) (ledger.Invoice, error) {
	var (
		inv       ledger.Invoice
		invoiceNo sql.NullString
		matchID   sql.NullString
		status    sql.NullString
	)

	if err := s.Scan(&inv.ID, &inv.Date, &inv.Amount, &inv.Entity, &inv.Kind, &invoiceNo, &matchID, &status); err != nil {
		return ledger.Invoice{}, err
	}

	inv.InvoiceNo = invoiceNo.String

	if matchID.Valid {
		inv.MatchID = &matchID.String
	}

	if status.Valid {
		st := ledger.MatchStatus(status.String)
		inv.Status = &st
	}

	return inv, nil
}

func scanBankTransaction(s scanner) (ledger.BankTransaction, error) {
	var (
		b       ledger.BankTransaction
		partner sql.NullString
		memo    sql.NullString
		matchID sql.NullString
		status  sql.NullString
	)

	if err := s.Scan(&b.ID, &b.Date, &b.Amount, &b.Entity, &b.Direction, &partner, &memo, &matchID, &status); err != nil {
		return ledger.BankTransaction{}, err
	}

	b.Partner = partner.String
	b.Memo = memo.String

	if matchID.Valid {
		b.MatchID = &matchID.String
	}

	if status.Valid {
		st := ledger.MatchStatus(status.String)
		b.Status = &st
	}

	return b, nil
}

func (s *Store) ListInvoices(ctx context.Context) ([]ledger.Invoice, error) {
	query := `
		SELECT id, date, amount, entity, kind, invoice_no, match_id, status
		FROM invoices
		ORDER BY id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var invoices []ledger.Invoice

	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}

		invoices = append(invoices, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoices: %w", err)
	}

	return invoices, nil
}

func (s *Store) ListBankTransactions(ctx context.Context) ([]ledger.BankTransaction, error) {
	query := `
		SELECT id, date, amount, entity, direction, partner, memo, match_id, status
		FROM bank_tx
		ORDER BY id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing bank transactions: %w", err)
	}
	defer rows.Close()

	var txs []ledger.BankTransaction

	for rows.Next() {
		b, err := scanBankTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning bank transaction: %w", err)
		}

		txs = append(txs, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bank transactions: %w", err)
	}

	return txs, nil
}

func (s *Store) ReplaceInvoices(ctx context.Context, rows []ledger.Invoice) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM invoices`); err != nil {
		return fmt.Errorf("clearing invoices: %w", err)
	}

	query := `
		INSERT INTO invoices (id, date, amount, entity, kind, invoice_no, match_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, inv := range rows {
		_, err := dbTx.ExecContext(ctx, query,
			inv.ID,
			inv.Date,
			inv.Amount,
			inv.Entity,
			inv.Kind,
			nullString(inv.InvoiceNo),
			matchIDValue(inv.MatchID),
			statusValue(inv.Status),
		)
		if err != nil {
			return fmt.Errorf("inserting invoice %s: %w", inv.ID, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing invoices: %w", err)
	}

	return nil
}

func (s *Store) ReplaceBankTransactions(ctx context.Context, rows []ledger.BankTransaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM bank_tx`); err != nil {
		return fmt.Errorf("clearing bank transactions: %w", err)
	}

	query := `
		INSERT INTO bank_tx (id, date, amount, entity, direction, partner, memo, match_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	for _, b := range rows {
		_, err := dbTx.ExecContext(ctx, query,
			b.ID,
			b.Date,
			b.Amount,
			b.Entity,
			b.Direction,
			nullString(b.Partner),
			nullString(b.Memo),
			matchIDValue(b.MatchID),
			statusValue(b.Status),
		)
		if err != nil {
			return fmt.Errorf("inserting bank transaction %s: %w", b.ID, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing bank transactions: %w", err)
	}

	return nil
}

// reconcileLockKey serializes match persistence: at most one reconciliation
// run may write to the dataset at a time.
const reconcileLockKey = int64(0x74616c6c79) // "tally"

// SaveMatches writes match ids and statuses for the given rows. Rows that
// already carry a match id are never overwritten; a match id is assigned
// exactly once.
func (s *Store) SaveMatches(ctx context.Context, invoices []ledger.Invoice, bank []ledger.BankTransaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", reconcileLockKey); err != nil {
		return fmt.Errorf("acquiring reconcile lock: %w", err)
	}

	invQuery := `
		UPDATE invoices
		SET match_id = $1, status = $2
		WHERE id = $3 AND match_id IS NULL
	`

	for _, inv := range invoices {
		if inv.MatchID == nil {
			continue
		}

		if _, err := dbTx.ExecContext(ctx, invQuery, *inv.MatchID, statusValue(inv.Status), inv.ID); err != nil {
			return fmt.Errorf("updating invoice %s: %w", inv.ID, err)
		}
	}

	bankQuery := `
		UPDATE bank_tx
		SET match_id = $1, status = $2
		WHERE id = $3 AND match_id IS NULL
	`

	for _, b := range bank {
		if b.MatchID == nil {
			continue
		}

		if _, err := dbTx.ExecContext(ctx, bankQuery, *b.MatchID, statusValue(b.Status), b.ID); err != nil {
			return fmt.Errorf("updating bank transaction %s: %w", b.ID, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing matches: %w", err)
	}

	return nil
}

func (s *Store) HasData(ctx context.Context) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM invoices) AND EXISTS (SELECT 1 FROM bank_tx)
	`

	var has bool
	if err := s.db.QueryRowContext(ctx, query).Scan(&has); err != nil {
		return false, fmt.Errorf("checking data: %w", err)
	}

	return has, nil
}

func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `TRUNCATE invoices, bank_tx`); err != nil {
		return fmt.Errorf("resetting datasets: %w", err)
	}

	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func matchIDValue(id *string) sql.NullString {
	if id == nil {
		return sql.NullString{}
	}

	return sql.NullString{String: *id, Valid: true}
}

func statusValue(st *ledger.MatchStatus) sql.NullString {
	if st == nil {
		return sql.NullString{}
	}

	return sql.NullString{String: string(*st), Valid: true}
}
