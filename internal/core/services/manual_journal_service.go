package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spinzar/bigcapital/internal/apperrors"
	"github.com/spinzar/bigcapital/internal/core/domain"
	portsrepo "github.com/spinzar/bigcapital/internal/core/ports/repositories"
	portssvc "github.com/spinzar/bigcapital/internal/core/ports/services"
	"github.com/spinzar/bigcapital/internal/dto"
)

var (
	ErrManualJournalNotFound          = fmt.Errorf("%w: manual journal", apperrors.ErrNotFound)
	ErrCreditDebitEqualZero           = fmt.Errorf("%w: credit and debit totals must not be zero", apperrors.ErrValidation)
	ErrCreditDebitNotEqual            = fmt.Errorf("%w: credit and debit totals must be equal", apperrors.ErrValidation)
	ErrJournalAccountsNotFound        = fmt.Errorf("%w: some journal entry accounts", apperrors.ErrNotFound)
	ErrJournalNumberExists            = fmt.Errorf("%w: journal number already exists", apperrors.ErrDuplicate)
	ErrEntriesShouldAssignWithContact = fmt.Errorf("%w: receivable and payable entries must have a contact", apperrors.ErrValidation)
	ErrContactsNotFound               = fmt.Errorf("%w: some journal entry contacts", apperrors.ErrNotFound)
	ErrManualJournalAlreadyPublished  = fmt.Errorf("%w: manual journal already published", apperrors.ErrConflict)
	ErrJournalEntryTwoSided           = fmt.Errorf("%w: journal entry must be either credit or debit", apperrors.ErrValidation)
)

type manualJournalService struct {
	BaseService
	journalRepo portsrepo.ManualJournalRepositoryFacade
	accountRepo portsrepo.AccountReader
	contactRepo portsrepo.ContactReader
	publisher   portssvc.EventPublisher
}

// ManualJournalOption configures the manual journal service.
type ManualJournalOption func(*manualJournalService)

// WithManualJournalEventPublisher sets where manual journal events are published.
func WithManualJournalEventPublisher(publisher portssvc.EventPublisher) ManualJournalOption {
	return func(s *manualJournalService) {
		s.publisher = publisher
	}
}

// WithManualJournalClock overrides the clock used for publish and audit timestamps.
func WithManualJournalClock(clock func() time.Time) ManualJournalOption {
	return func(s *manualJournalService) {
		s.Clock = clock
	}
}

func NewManualJournalService(
	journalRepo portsrepo.ManualJournalRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	contactRepo portsrepo.ContactReader,
	options ...ManualJournalOption,
) portssvc.ManualJournalSvcFacade {
	svc := &manualJournalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		contactRepo: contactRepo,
		publisher:   nopPublisher{},
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ManualJournalSvcFacade = (*manualJournalService)(nil)

func (s *manualJournalService) getJournalOrErr(ctx context.Context, journalID int64) (*domain.ManualJournal, error) {
	mj, err := s.journalRepo.FindManualJournalByID(ctx, journalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrManualJournalNotFound
		}
		s.LogError(ctx, err, "Failed to find manual journal", slog.Int64("journal_id", journalID))
		return nil, fmt.Errorf("failed to find manual journal %d: %w", journalID, err)
	}
	return mj, nil
}

// buildJournal validates req and maps it to an unsaved journal. excludeID
// skips the journal being edited in the number uniqueness check.
func (s *manualJournalService) buildJournal(ctx context.Context, req dto.ManualJournalRequest, excludeID *int64) (*domain.ManualJournal, error) {
	date, err := dto.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if len(req.Entries) < 2 {
		return nil, fmt.Errorf("%w: a journal needs at least two entries", apperrors.ErrValidation)
	}

	mj := &domain.ManualJournal{
		JournalNumber: req.JournalNumber,
		JournalType:   req.JournalType,
		Reference:     req.Reference,
		Date:          date,
		Description:   req.Description,
		Entries:       make([]domain.ManualJournalEntry, len(req.Entries)),
	}
	for i, e := range req.Entries {
		if e.Credit.IsPositive() && e.Debit.IsPositive() {
			return nil, fmt.Errorf("%w: entry %d", ErrJournalEntryTwoSided, i+1)
		}
		index := e.Index
		if index == 0 {
			index = i + 1
		}
		mj.Entries[i] = domain.ManualJournalEntry{
			Index:     index,
			AccountID: e.AccountID,
			ContactID: e.ContactID,
			Credit:    e.Credit,
			Debit:     e.Debit,
			Note:      e.Note,
		}
	}

	credit, debit := mj.Totals()
	if credit.IsZero() || debit.IsZero() {
		return nil, ErrCreditDebitEqualZero
	}
	if !credit.Equal(debit) {
		return nil, fmt.Errorf("%w: credit %s, debit %s", ErrCreditDebitNotEqual, credit, debit)
	}
	mj.Amount = credit

	accountIDs := mj.AccountIDs()
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to find journal accounts: %w", err)
	}
	if missing := accounts.Missing(accountIDs); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrJournalAccountsNotFound, missing)
	}

	exists, err := s.journalRepo.JournalNumberExists(ctx, req.JournalNumber, excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to check journal number: %w", err)
	}
	if exists {
		return nil, ErrJournalNumberExists
	}

	var needContact []int
	for _, e := range mj.Entries {
		t := accounts[e.AccountID].AccountType
		if (t == domain.AccountTypeAccountsReceivable || t == domain.AccountTypeAccountsPayable) && e.ContactID == nil {
			needContact = append(needContact, e.Index)
		}
	}
	if len(needContact) > 0 {
		return nil, fmt.Errorf("%w: entries %v", ErrEntriesShouldAssignWithContact, needContact)
	}

	if contactIDs := mj.ContactIDs(); len(contactIDs) > 0 {
		contacts, err := s.contactRepo.FindContactsByIDs(ctx, contactIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to find journal contacts: %w", err)
		}
		var missing []int64
		for _, id := range contactIDs {
			if _, ok := contacts[id]; !ok {
				missing = append(missing, id)
			}
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("%w: %v", ErrContactsNotFound, missing)
		}
	}
	return mj, nil
}

func (s *manualJournalService) GetManualJournal(ctx context.Context, journalID int64) (*domain.ManualJournal, error) {
	return s.getJournalOrErr(ctx, journalID)
}

func (s *manualJournalService) MakeJournalEntries(ctx context.Context, req dto.ManualJournalRequest, userID string) (*domain.ManualJournal, error) {
	mj, err := s.buildJournal(ctx, req, nil)
	if err != nil {
		s.LogDebug(ctx, "Manual journal request rejected", slog.String("error", err.Error()))
		return nil, err
	}

	now := s.Now()
	mj.UserID = userID
	mj.AuditFields = domain.AuditFields{CreatedAt: now, CreatedBy: userID}
	if req.Publish {
		mj.PublishedAt = &now
	}

	saved, err := s.journalRepo.SaveManualJournal(ctx, *mj)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, ErrJournalNumberExists
		}
		s.LogError(ctx, err, "Failed to save manual journal")
		return nil, fmt.Errorf("failed to save manual journal: %w", err)
	}
	s.LogInfo(ctx, "Manual journal created",
		slog.Int64("journal_id", saved.ID),
		slog.String("journal_number", saved.JournalNumber))

	if err := s.publisher.Publish(ctx, domain.ManualJournalCreated{ManualJournal: *saved, UserID: userID}); err != nil {
		return nil, fmt.Errorf("failed to handle %s: %w", domain.EventManualJournalCreated, err)
	}
	return saved, nil
}

func (s *manualJournalService) EditJournalEntries(ctx context.Context, journalID int64, req dto.ManualJournalRequest, userID string) (*domain.ManualJournal, error) {
	old, err := s.getJournalOrErr(ctx, journalID)
	if err != nil {
		return nil, err
	}
	mj, err := s.buildJournal(ctx, req, &journalID)
	if err != nil {
		s.LogDebug(ctx, "Manual journal edit rejected",
			slog.Int64("journal_id", journalID),
			slog.String("error", err.Error()))
		return nil, err
	}

	now := s.Now()
	mj.ID = journalID
	mj.UserID = old.UserID
	mj.AuditFields = old.AuditFields
	mj.UpdatedAt = &now
	mj.PublishedAt = old.PublishedAt
	if mj.PublishedAt == nil && req.Publish {
		mj.PublishedAt = &now
	}

	updated, err := s.journalRepo.UpdateManualJournal(ctx, *mj)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, ErrJournalNumberExists
		}
		s.LogError(ctx, err, "Failed to update manual journal", slog.Int64("journal_id", journalID))
		return nil, fmt.Errorf("failed to update manual journal %d: %w", journalID, err)
	}
	s.LogInfo(ctx, "Manual journal updated", slog.Int64("journal_id", journalID))

	event := domain.ManualJournalEdited{ManualJournal: *updated, OldManualJournal: *old, UserID: userID}
	if err := s.publisher.Publish(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to handle %s: %w", event.EventName(), err)
	}
	return updated, nil
}

func (s *manualJournalService) PublishManualJournal(ctx context.Context, journalID int64, userID string) error {
	old, err := s.getJournalOrErr(ctx, journalID)
	if err != nil {
		return err
	}
	if old.IsPublished() {
		return ErrManualJournalAlreadyPublished
	}
	if err := s.journalRepo.PublishManualJournal(ctx, journalID, s.Now()); err != nil {
		s.LogError(ctx, err, "Failed to publish manual journal", slog.Int64("journal_id", journalID))
		return fmt.Errorf("failed to publish manual journal %d: %w", journalID, err)
	}
	mj, err := s.getJournalOrErr(ctx, journalID)
	if err != nil {
		return err
	}
	s.LogInfo(ctx, "Manual journal published", slog.Int64("journal_id", journalID))

	if err := s.publisher.Publish(ctx, domain.ManualJournalPublished{ManualJournal: *mj, UserID: userID}); err != nil {
		return fmt.Errorf("failed to handle %s: %w", domain.EventManualJournalPublished, err)
	}
	return nil
}

func (s *manualJournalService) DeleteManualJournal(ctx context.Context, journalID int64, userID string) error {
	old, err := s.getJournalOrErr(ctx, journalID)
	if err != nil {
		return err
	}
	if err := s.journalRepo.DeleteManualJournal(ctx, journalID); err != nil {
		s.LogError(ctx, err, "Failed to delete manual journal", slog.Int64("journal_id", journalID))
		return fmt.Errorf("failed to delete manual journal %d: %w", journalID, err)
	}
	s.LogInfo(ctx, "Manual journal deleted", slog.Int64("journal_id", journalID))

	if err := s.publisher.Publish(ctx, domain.ManualJournalDeleted{OldManualJournal: *old, UserID: userID}); err != nil {
		return fmt.Errorf("failed to handle %s: %w", domain.EventManualJournalDeleted, err)
	}
	return nil
}
