package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/spinzar/bigcapital/internal/core/domain"
)

// LedgerStore is the storage boundary used by the journal poster.
type LedgerStore interface {
	// FindEntriesByReference loads the stored entries posted for the given
	// documents of one reference type.
	FindEntriesByReference(ctx context.Context, referenceType domain.ReferenceType, referenceIDs []int64) ([]domain.JournalEntry, error)

	// InsertEntries persists new journal entries.
	InsertEntries(ctx context.Context, entries []domain.JournalEntry) error

	// DeleteEntries removes stored entries by their storage ids.
	DeleteEntries(ctx context.Context, entryIDs []int64) error

	// ApplyBalanceChanges adds each delta to the account's stored balance,
	// creating the balance row when missing.
	ApplyBalanceChanges(ctx context.Context, changes map[int64]decimal.Decimal) error
}

// LedgerReader loads stored transactions for read-side reporting.
type LedgerReader interface {
	ListLedgerTransactions(ctx context.Context, filter domain.LedgerFilter) ([]domain.LedgerTransaction, error)
}

// LedgerRepositoryWithTx combines the ledger store with transaction support.
type LedgerRepositoryWithTx interface {
	LedgerStore
	LedgerReader
	TxRunner[LedgerStore]
}
