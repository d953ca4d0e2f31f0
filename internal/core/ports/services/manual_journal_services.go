package services

import (
	"context"

	"github.com/spinzar/bigcapital/internal/core/domain"
	"github.com/spinzar/bigcapital/internal/dto"
)

// ManualJournalSvcFacade defines operations on manual journals.
type ManualJournalSvcFacade interface {
	GetManualJournal(ctx context.Context, journalID int64) (*domain.ManualJournal, error)
	MakeJournalEntries(ctx context.Context, req dto.ManualJournalRequest, userID string) (*domain.ManualJournal, error)
	EditJournalEntries(ctx context.Context, journalID int64, req dto.ManualJournalRequest, userID string) (*domain.ManualJournal, error)
	PublishManualJournal(ctx context.Context, journalID int64, userID string) error
	DeleteManualJournal(ctx context.Context, journalID int64, userID string) error
}
