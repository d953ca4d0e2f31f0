package repositories

import (
	"context"
	"time"

	"github.com/spinzar/bigcapital/internal/core/domain"
)

// ManualJournalReader defines read operations for manual journals
type ManualJournalReader interface {
	FindManualJournalByID(ctx context.Context, journalID int64) (*domain.ManualJournal, error)

	// JournalNumberExists reports whether another journal already uses number.
	// excludeID skips the journal being edited.
	JournalNumberExists(ctx context.Context, number string, excludeID *int64) (bool, error)
}

// ManualJournalWriter defines write operations for manual journals
type ManualJournalWriter interface {
	SaveManualJournal(ctx context.Context, journal domain.ManualJournal) (*domain.ManualJournal, error)
	UpdateManualJournal(ctx context.Context, journal domain.ManualJournal) (*domain.ManualJournal, error)
	DeleteManualJournal(ctx context.Context, journalID int64) error
	PublishManualJournal(ctx context.Context, journalID int64, publishedAt time.Time) error
}

// ManualJournalRepositoryFacade combines all manual journal repository interfaces
type ManualJournalRepositoryFacade interface {
	ManualJournalReader
	ManualJournalWriter
}
