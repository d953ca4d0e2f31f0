package services

import (
	"context"

	"github.com/spinzar/bigcapital/internal/core/domain"
)

// JournalWriterSvc posts and reverts ledger entries for journal sources.
type JournalWriterSvc interface {
	// WriteJournalEntries posts the sources in one storage transaction. With
	// override, entries previously posted for the same sources are reverted first.
	WriteJournalEntries(ctx context.Context, sources []domain.JournalSource, userID string, override bool) error

	// RevertJournalEntries removes the entries of the given documents and
	// reverses their balance effect.
	RevertJournalEntries(ctx context.Context, referenceType domain.ReferenceType, referenceIDs []int64) error
}
