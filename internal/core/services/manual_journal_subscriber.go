package services

import (
	"context"

	"github.com/spinzar/bigcapital/internal/core/domain"
	portssvc "github.com/spinzar/bigcapital/internal/core/ports/services"
)

// ManualJournalSubscriber keeps the ledger in step with manual journal events.
type ManualJournalSubscriber struct {
	writer portssvc.JournalWriterSvc
}

func NewManualJournalSubscriber(writer portssvc.JournalWriterSvc) *ManualJournalSubscriber {
	return &ManualJournalSubscriber{writer: writer}
}

// Register subscribes the handlers to every manual journal event.
func (s *ManualJournalSubscriber) Register(bus portssvc.EventSubscriber) {
	bus.Subscribe(domain.EventManualJournalCreated, s.onCreated)
	bus.Subscribe(domain.EventManualJournalEdited, s.onEdited)
	bus.Subscribe(domain.EventManualJournalPublished, s.onPublished)
	bus.Subscribe(domain.EventManualJournalDeleted, s.onDeleted)
}

func (s *ManualJournalSubscriber) write(ctx context.Context, mj domain.ManualJournal, userID string, override bool) error {
	return s.writer.WriteJournalEntries(ctx, []domain.JournalSource{mj}, userID, override)
}

func (s *ManualJournalSubscriber) revert(ctx context.Context, journalID int64) error {
	return s.writer.RevertJournalEntries(ctx, domain.ReferenceManualJournal, []int64{journalID})
}

func (s *ManualJournalSubscriber) onCreated(ctx context.Context, event domain.Event) error {
	e, ok := event.(domain.ManualJournalCreated)
	if !ok {
		return unexpectedEvent(event)
	}
	if !e.ManualJournal.IsPublished() {
		return nil
	}
	return s.write(ctx, e.ManualJournal, e.UserID, false)
}

func (s *ManualJournalSubscriber) onEdited(ctx context.Context, event domain.Event) error {
	e, ok := event.(domain.ManualJournalEdited)
	if !ok {
		return unexpectedEvent(event)
	}
	switch {
	case e.ManualJournal.IsPublished():
		return s.write(ctx, e.ManualJournal, e.UserID, true)
	case e.OldManualJournal.IsPublished():
		return s.revert(ctx, e.OldManualJournal.ID)
	}
	return nil
}

func (s *ManualJournalSubscriber) onPublished(ctx context.Context, event domain.Event) error {
	e, ok := event.(domain.ManualJournalPublished)
	if !ok {
		return unexpectedEvent(event)
	}
	return s.write(ctx, e.ManualJournal, e.UserID, false)
}

func (s *ManualJournalSubscriber) onDeleted(ctx context.Context, event domain.Event) error {
	e, ok := event.(domain.ManualJournalDeleted)
	if !ok {
		return unexpectedEvent(event)
	}
	if !e.OldManualJournal.IsPublished() {
		return nil
	}
	return s.revert(ctx, e.OldManualJournal.ID)
}
