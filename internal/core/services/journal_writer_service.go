package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/spinzar/bigcapital/internal/core/domain"
	"github.com/spinzar/bigcapital/internal/core/journal"
	portsrepo "github.com/spinzar/bigcapital/internal/core/ports/repositories"
	portssvc "github.com/spinzar/bigcapital/internal/core/ports/services"
)

// journalWriterService posts journal sources to the ledger. Every call runs in
// its own storage transaction with a fresh poster.
type journalWriterService struct {
	BaseService
	ledgerRepo  portsrepo.LedgerRepositoryWithTx
	accountRepo portsrepo.AccountReader
}

// JournalWriterOption configures the journal writer.
type JournalWriterOption func(*journalWriterService)

// WithJournalWriterClock overrides the clock stamped on written entries.
func WithJournalWriterClock(clock func() time.Time) JournalWriterOption {
	return func(s *journalWriterService) {
		s.Clock = clock
	}
}

// NewJournalWriterService creates a journal writer over the ledger store.
func NewJournalWriterService(ledgerRepo portsrepo.LedgerRepositoryWithTx, accountRepo portsrepo.AccountReader, options ...JournalWriterOption) portssvc.JournalWriterSvc {
	svc := &journalWriterService{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.JournalWriterSvc = (*journalWriterService)(nil)

func (s *journalWriterService) WriteJournalEntries(ctx context.Context, sources []domain.JournalSource, userID string, override bool) error {
	if len(sources) == 0 {
		return nil
	}

	var accountIDs []int64
	for _, src := range sources {
		accountIDs = append(accountIDs, src.AccountIDs()...)
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, uniqueIDs(accountIDs))
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts for journal posting")
		return fmt.Errorf("failed to load journal accounts: %w", err)
	}

	err = s.ledgerRepo.WithinTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		poster := journal.NewPoster(store, journal.WithClock(s.Now))
		commands := journal.NewCommands(poster, accounts)

		if override {
			byType := domain.SourceIDs(sources)
			types := make([]domain.ReferenceType, 0, len(byType))
			for t := range byType {
				types = append(types, t)
			}
			slices.Sort(types)
			for _, t := range types {
				if err := commands.RevertJournalEntries(ctx, byType[t], t); err != nil {
					return err
				}
			}
		}

		for _, src := range sources {
			if err := commands.Post(src, userID); err != nil {
				return err
			}
		}
		return poster.Commit(ctx)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to write journal entries",
			slog.Int("sources", len(sources)),
			slog.Bool("override", override))
		return err
	}

	s.LogDebug(ctx, "Journal entries written",
		slog.Int("sources", len(sources)),
		slog.Bool("override", override))
	return nil
}

func (s *journalWriterService) RevertJournalEntries(ctx context.Context, referenceType domain.ReferenceType, referenceIDs []int64) error {
	if len(referenceIDs) == 0 {
		return nil
	}
	err := s.ledgerRepo.WithinTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		poster := journal.NewPoster(store, journal.WithClock(s.Now))
		if err := poster.RevertReference(ctx, referenceType, referenceIDs); err != nil {
			return err
		}
		return poster.Commit(ctx)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to revert journal entries",
			slog.String("reference_type", string(referenceType)),
			slog.Any("reference_ids", referenceIDs))
		return err
	}
	return nil
}

// uniqueIDs drops duplicates keeping first-seen order.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
