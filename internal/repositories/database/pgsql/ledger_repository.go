package pgsql

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/spinzar/bigcapital/internal/core/domain"
	portsrepo "github.com/spinzar/bigcapital/internal/core/ports/repositories"
)

// pgxLedgerStore implements the journal storage boundary over either the
// pool or an open transaction.
type pgxLedgerStore struct {
	q querier
}

var _ portsrepo.LedgerStore = (*pgxLedgerStore)(nil)

type PgxLedgerRepository struct {
	BaseRepository
	pgxLedgerStore
}

// newPgxLedgerRepository creates a new repository for account transactions and balances.
func newPgxLedgerRepository(pool *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
		pgxLedgerStore: pgxLedgerStore{q: pool},
	}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryWithTx
var _ portsrepo.LedgerRepositoryWithTx = (*PgxLedgerRepository)(nil)

// WithinTx hands fn a ledger store bound to a single transaction.
func (r *PgxLedgerRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, store portsrepo.LedgerStore) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(ctx, &pgxLedgerStore{q: tx})
	})
}

func (s *pgxLedgerStore) FindEntriesByReference(ctx context.Context, referenceType domain.ReferenceType, referenceIDs []int64) ([]domain.JournalEntry, error) {
	if len(referenceIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, reference_type, reference_id, account_id, account_normal, contact_id, contact_type,
		       credit, debit, date, transaction_number, reference_number, note, line_index, user_id, created_at
		FROM account_transactions
		WHERE reference_type = $1 AND reference_id = ANY($2)
		ORDER BY id;
	`
	rows, err := s.q.Query(ctx, query, referenceType, referenceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s entries: %w", referenceType, err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		var (
			e             domain.JournalEntry
			credit, debit decimal.NullDecimal
		)
		err := rows.Scan(
			&e.ID,
			&e.ReferenceType,
			&e.ReferenceID,
			&e.AccountID,
			&e.AccountNormal,
			&e.ContactID,
			&e.ContactType,
			&credit,
			&debit,
			&e.Date,
			&e.TransactionNumber,
			&e.ReferenceNumber,
			&e.Note,
			&e.Index,
			&e.UserID,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account transaction row: %w", err)
		}
		e.Credit = nullToZero(credit)
		e.Debit = nullToZero(debit)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account transaction rows: %w", err)
	}
	return entries, nil
}

func nullToZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

func (s *pgxLedgerStore) InsertEntries(ctx context.Context, entries []domain.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}

	query := `
		INSERT INTO account_transactions (
			reference_type, reference_id, account_id, account_normal, contact_id, contact_type,
			credit, debit, date, transaction_number, reference_number, note, line_index, user_id, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(query,
			e.ReferenceType,
			e.ReferenceID,
			e.AccountID,
			e.AccountNormal,
			e.ContactID,
			e.ContactType,
			e.Credit,
			e.Debit,
			e.Date,
			e.TransactionNumber,
			e.ReferenceNumber,
			e.Note,
			e.Index,
			e.UserID,
			e.CreatedAt,
		)
	}
	if err := s.q.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert %d account transactions: %w", len(entries), err)
	}
	return nil
}

func (s *pgxLedgerStore) DeleteEntries(ctx context.Context, entryIDs []int64) error {
	if len(entryIDs) == 0 {
		return nil
	}
	if _, err := s.q.Exec(ctx, `DELETE FROM account_transactions WHERE id = ANY($1);`, entryIDs); err != nil {
		return fmt.Errorf("failed to delete account transactions: %w", err)
	}
	return nil
}

// ApplyBalanceChanges upserts each delta. Accounts are touched in id order
// so concurrent postings lock balance rows consistently.
func (s *pgxLedgerStore) ApplyBalanceChanges(ctx context.Context, changes map[int64]decimal.Decimal) error {
	if len(changes) == 0 {
		return nil
	}

	accountIDs := make([]int64, 0, len(changes))
	for id := range changes {
		accountIDs = append(accountIDs, id)
	}
	slices.Sort(accountIDs)

	query := `
		INSERT INTO account_balances (account_id, amount, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (account_id)
		DO UPDATE SET amount = account_balances.amount + EXCLUDED.amount, updated_at = NOW();
	`
	batch := &pgx.Batch{}
	for _, id := range accountIDs {
		batch.Queue(query, id, changes[id])
	}
	if err := s.q.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to apply balance changes: %w", err)
	}
	return nil
}

// ListLedgerTransactions loads stored transactions matching filter, oldest first.
func (r *PgxLedgerRepository) ListLedgerTransactions(ctx context.Context, filter domain.LedgerFilter) ([]domain.LedgerTransaction, error) {
	var (
		conditions []string
		args       []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}
	if len(filter.AccountIDs) > 0 {
		add("account_id = ANY($%d)", filter.AccountIDs)
	}
	if filter.ContactID != nil {
		add("contact_id = $%d", *filter.ContactID)
	}
	if filter.FromDate != nil {
		add("date >= $%d", *filter.FromDate)
	}
	if filter.ToDate != nil {
		add("date <= $%d", *filter.ToDate)
	}

	query := `
		SELECT credit, debit, account_normal, account_id, contact_id, date,
		       transaction_number, reference_number, reference_type
		FROM account_transactions`
	if len(conditions) > 0 {
		query += "\n\t\tWHERE " + strings.Join(conditions, " AND ")
	}
	query += "\n\t\tORDER BY date, id;"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger transactions: %w", err)
	}
	defer rows.Close()

	transactions := []domain.LedgerTransaction{}
	for rows.Next() {
		var (
			t             domain.LedgerTransaction
			credit, debit decimal.NullDecimal
		)
		err := rows.Scan(
			&credit,
			&debit,
			&t.AccountNormal,
			&t.AccountID,
			&t.ContactID,
			&t.Date,
			&t.TransactionNumber,
			&t.ReferenceNumber,
			&t.ReferenceType,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger transaction row: %w", err)
		}
		if credit.Valid {
			t.Credit = &credit.Decimal
		}
		if debit.Valid {
			t.Debit = &debit.Decimal
		}
		t.ReferenceTypeFormatted = domain.FormatReferenceType(domain.ReferenceType(t.ReferenceType))
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger transaction rows: %w", err)
	}
	return transactions, nil
}
