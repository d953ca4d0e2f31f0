package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spinzar/bigcapital/internal/apperrors"
	"github.com/spinzar/bigcapital/internal/core/domain"
	portsrepo "github.com/spinzar/bigcapital/internal/core/ports/repositories"
	portssvc "github.com/spinzar/bigcapital/internal/core/ports/services"
	"github.com/spinzar/bigcapital/internal/dto"
)

var (
	ErrExpenseNotFound            = fmt.Errorf("%w: expense", apperrors.ErrNotFound)
	ErrExpensesNotFound           = fmt.Errorf("%w: some of the given expenses", apperrors.ErrNotFound)
	ErrPaymentAccountNotFound     = fmt.Errorf("%w: payment account", apperrors.ErrNotFound)
	ErrExpenseAccountsNotFound    = fmt.Errorf("%w: some expense accounts", apperrors.ErrNotFound)
	ErrContactNotFound            = fmt.Errorf("%w: contact", apperrors.ErrNotFound)
	ErrTotalAmountEqualsZero      = fmt.Errorf("%w: expense total amount must be greater than zero", apperrors.ErrValidation)
	ErrCategoriesTotalMismatch    = fmt.Errorf("%w: categories total does not equal the expense total", apperrors.ErrValidation)
	ErrPaymentAccountInvalidType  = fmt.Errorf("%w: payment account must be a current asset", apperrors.ErrValidation)
	ErrExpenseAccountsInvalidType = fmt.Errorf("%w: expense accounts must be of expense type", apperrors.ErrValidation)
	ErrExpenseAlreadyPublished    = fmt.Errorf("%w: expense already published", apperrors.ErrConflict)
)

const defaultExpensePageSize = 20

type expenseService struct {
	BaseService
	expenseRepo  portsrepo.ExpenseRepositoryFacade
	accountRepo  portsrepo.AccountReader
	contactRepo  portsrepo.ContactReader
	journal      portssvc.JournalWriterSvc
	publisher    portssvc.EventPublisher
	baseCurrency string
}

// ExpenseOption configures the expense service.
type ExpenseOption func(*expenseService)

// WithExpenseEventPublisher sets where expense events are published.
func WithExpenseEventPublisher(publisher portssvc.EventPublisher) ExpenseOption {
	return func(s *expenseService) {
		s.publisher = publisher
	}
}

// WithExpenseBaseCurrency sets the currency assigned to expenses that omit one.
func WithExpenseBaseCurrency(code string) ExpenseOption {
	return func(s *expenseService) {
		s.baseCurrency = code
	}
}

// WithExpenseClock overrides the clock used for publish and audit timestamps.
func WithExpenseClock(clock func() time.Time) ExpenseOption {
	return func(s *expenseService) {
		s.Clock = clock
	}
}

// NewExpenseService creates the expense service. Journal entries are written
// by the expense journal subscriber reacting to published events.
func NewExpenseService(
	expenseRepo portsrepo.ExpenseRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	contactRepo portsrepo.ContactReader,
	journalWriter portssvc.JournalWriterSvc,
	options ...ExpenseOption,
) portssvc.ExpenseSvcFacade {
	svc := &expenseService{
		expenseRepo:  expenseRepo,
		accountRepo:  accountRepo,
		contactRepo:  contactRepo,
		journal:      journalWriter,
		publisher:    nopPublisher{},
		baseCurrency: "USD",
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

func (s *expenseService) getExpenseOrErr(ctx context.Context, expenseID int64) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "Expense not found", slog.Int64("expense_id", expenseID))
			return nil, ErrExpenseNotFound
		}
		s.LogError(ctx, err, "Failed to find expense", slog.Int64("expense_id", expenseID))
		return nil, fmt.Errorf("failed to find expense %d: %w", expenseID, err)
	}
	return expense, nil
}

func (s *expenseService) getExpensesOrErr(ctx context.Context, expenseIDs []int64) (domain.ExpenseBatch, error) {
	ids := uniqueIDs(expenseIDs)
	expenses, err := s.expenseRepo.FindExpensesByIDs(ctx, ids)
	if err != nil {
		s.LogError(ctx, err, "Failed to find expenses", slog.Any("expense_ids", ids))
		return nil, fmt.Errorf("failed to find expenses: %w", err)
	}
	if len(expenses) != len(ids) {
		s.LogDebug(ctx, "Some expenses not found",
			slog.Any("expense_ids", ids),
			slog.Int("found", len(expenses)))
		return nil, ErrExpensesNotFound
	}
	return expenses, nil
}

// buildExpense validates req against stored accounts and contacts and maps it
// to an unsaved expense.
func (s *expenseService) buildExpense(ctx context.Context, req dto.ExpenseRequest) (*domain.Expense, error) {
	paymentDate, err := dto.ParseDate(req.PaymentDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	paymentAccount, err := s.accountRepo.FindAccountByID(ctx, req.PaymentAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrPaymentAccountNotFound
		}
		return nil, fmt.Errorf("failed to find payment account: %w", err)
	}

	expenseAccountIDs := make([]int64, 0, len(req.Categories))
	for _, c := range req.Categories {
		expenseAccountIDs = append(expenseAccountIDs, c.ExpenseAccountID)
	}
	expenseAccountIDs = uniqueIDs(expenseAccountIDs)
	expenseAccounts, err := s.accountRepo.FindAccountsByIDs(ctx, expenseAccountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to find expense accounts: %w", err)
	}
	if missing := expenseAccounts.Missing(expenseAccountIDs); len(missing) > 0 {
		s.LogDebug(ctx, "Expense accounts not found", slog.Any("account_ids", missing))
		return nil, fmt.Errorf("%w: %v", ErrExpenseAccountsNotFound, missing)
	}

	if !paymentAccount.IsParentType(domain.ParentCurrentAsset) {
		return nil, ErrPaymentAccountInvalidType
	}
	for _, id := range expenseAccountIDs {
		if !expenseAccounts[id].IsRootType(domain.RootExpense) {
			return nil, fmt.Errorf("%w: account %d", ErrExpenseAccountsInvalidType, id)
		}
	}

	if req.PayeeID != nil {
		if _, err := s.contactRepo.FindContactByID(ctx, *req.PayeeID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, ErrContactNotFound
			}
			return nil, fmt.Errorf("failed to find payee: %w", err)
		}
	}

	categories := make([]domain.ExpenseCategory, len(req.Categories))
	total := decimal.Zero
	for i, c := range req.Categories {
		index := c.Index
		if index == 0 {
			index = i + 1
		}
		categories[i] = domain.ExpenseCategory{
			Index:            index,
			ExpenseAccountID: c.ExpenseAccountID,
			Amount:           c.Amount,
			Description:      c.Description,
		}
		total = total.Add(c.Amount)
	}
	if !total.IsPositive() {
		return nil, ErrTotalAmountEqualsZero
	}
	if req.TotalAmount != nil && !req.TotalAmount.Equal(total) {
		return nil, fmt.Errorf("%w: total %s, categories %s", ErrCategoriesTotalMismatch, req.TotalAmount, total)
	}

	currency := req.CurrencyCode
	if currency == "" {
		currency = s.baseCurrency
	}

	return &domain.Expense{
		PaymentAccountID: req.PaymentAccountID,
		PayeeID:          req.PayeeID,
		PaymentDate:      paymentDate,
		ReferenceNo:      req.ReferenceNo,
		Description:      req.Description,
		CurrencyCode:     currency,
		TotalAmount:      total,
		Categories:       categories,
	}, nil
}

func (s *expenseService) publish(ctx context.Context, event domain.Event) error {
	if err := s.publisher.Publish(ctx, event); err != nil {
		return fmt.Errorf("failed to handle %s: %w", event.EventName(), err)
	}
	return nil
}

func (s *expenseService) NewExpense(ctx context.Context, req dto.ExpenseRequest, userID string) (*domain.Expense, error) {
	expense, err := s.buildExpense(ctx, req)
	if err != nil {
		s.LogDebug(ctx, "Expense request rejected", slog.String("error", err.Error()))
		return nil, err
	}

	now := s.Now()
	expense.UserID = userID
	expense.AuditFields = domain.AuditFields{CreatedAt: now, CreatedBy: userID}
	if req.Publish {
		expense.PublishedAt = &now
	}

	saved, err := s.expenseRepo.SaveExpense(ctx, *expense)
	if err != nil {
		s.LogError(ctx, err, "Failed to save expense")
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}
	s.LogInfo(ctx, "Expense created", slog.Int64("expense_id", saved.ID))

	if err := s.publish(ctx, domain.ExpenseCreated{Expense: *saved, UserID: userID}); err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *expenseService) EditExpense(ctx context.Context, expenseID int64, req dto.ExpenseRequest, userID string) (*domain.Expense, error) {
	oldExpense, err := s.getExpenseOrErr(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	expense, err := s.buildExpense(ctx, req)
	if err != nil {
		s.LogDebug(ctx, "Expense edit rejected",
			slog.Int64("expense_id", expenseID),
			slog.String("error", err.Error()))
		return nil, err
	}

	now := s.Now()
	expense.ID = expenseID
	expense.UserID = oldExpense.UserID
	expense.AuditFields = oldExpense.AuditFields
	expense.UpdatedAt = &now
	expense.PublishedAt = oldExpense.PublishedAt
	if expense.PublishedAt == nil && req.Publish {
		expense.PublishedAt = &now
	}

	updated, err := s.expenseRepo.UpdateExpense(ctx, *expense)
	if err != nil {
		s.LogError(ctx, err, "Failed to update expense", slog.Int64("expense_id", expenseID))
		return nil, fmt.Errorf("failed to update expense %d: %w", expenseID, err)
	}
	s.LogInfo(ctx, "Expense updated", slog.Int64("expense_id", expenseID))

	event := domain.ExpenseEdited{Expense: *updated, OldExpense: *oldExpense, UserID: userID}
	if err := s.publish(ctx, event); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *expenseService) PublishExpense(ctx context.Context, expenseID int64, userID string) error {
	oldExpense, err := s.getExpenseOrErr(ctx, expenseID)
	if err != nil {
		return err
	}
	if oldExpense.IsPublished() {
		return ErrExpenseAlreadyPublished
	}

	if err := s.expenseRepo.PublishExpenses(ctx, []int64{expenseID}, s.Now()); err != nil {
		s.LogError(ctx, err, "Failed to publish expense", slog.Int64("expense_id", expenseID))
		return fmt.Errorf("failed to publish expense %d: %w", expenseID, err)
	}
	expense, err := s.getExpenseOrErr(ctx, expenseID)
	if err != nil {
		return err
	}
	s.LogInfo(ctx, "Expense published", slog.Int64("expense_id", expenseID))

	return s.publish(ctx, domain.ExpensePublished{Expense: *expense, OldExpense: *oldExpense, UserID: userID})
}

func (s *expenseService) DeleteExpense(ctx context.Context, expenseID int64, userID string) error {
	oldExpense, err := s.getExpenseOrErr(ctx, expenseID)
	if err != nil {
		return err
	}
	if err := s.expenseRepo.DeleteExpenses(ctx, []int64{expenseID}); err != nil {
		s.LogError(ctx, err, "Failed to delete expense", slog.Int64("expense_id", expenseID))
		return fmt.Errorf("failed to delete expense %d: %w", expenseID, err)
	}
	s.LogInfo(ctx, "Expense deleted", slog.Int64("expense_id", expenseID))

	return s.publish(ctx, domain.ExpenseDeleted{OldExpense: *oldExpense, UserID: userID})
}

func (s *expenseService) DeleteBulkExpenses(ctx context.Context, expenseIDs []int64, userID string) error {
	oldExpenses, err := s.getExpensesOrErr(ctx, expenseIDs)
	if err != nil {
		return err
	}
	ids := oldExpenses.IDs()
	if err := s.expenseRepo.DeleteExpenses(ctx, ids); err != nil {
		s.LogError(ctx, err, "Failed to delete expenses", slog.Any("expense_ids", ids))
		return fmt.Errorf("failed to delete expenses: %w", err)
	}
	s.LogInfo(ctx, "Expenses deleted", slog.Any("expense_ids", ids))

	return s.publish(ctx, domain.ExpensesBulkDeleted{OldExpenses: oldExpenses, UserID: userID})
}

func (s *expenseService) PublishBulkExpenses(ctx context.Context, expenseIDs []int64, userID string) (*dto.BulkPublishMeta, error) {
	oldExpenses, err := s.getExpensesOrErr(ctx, expenseIDs)
	if err != nil {
		return nil, err
	}

	var toPublish []int64
	for _, e := range oldExpenses {
		if !e.IsPublished() {
			toPublish = append(toPublish, e.ID)
		}
	}
	meta := &dto.BulkPublishMeta{
		AlreadyPublished: len(oldExpenses) - len(toPublish),
		Published:        len(toPublish),
		Total:            len(oldExpenses),
	}

	if len(toPublish) > 0 {
		if err := s.expenseRepo.PublishExpenses(ctx, toPublish, s.Now()); err != nil {
			s.LogError(ctx, err, "Failed to publish expenses", slog.Any("expense_ids", toPublish))
			return nil, fmt.Errorf("failed to publish expenses: %w", err)
		}
		s.LogInfo(ctx, "Expenses published", slog.Any("expense_ids", toPublish))
	}

	expenses, err := s.expenseRepo.FindExpensesByIDs(ctx, oldExpenses.IDs())
	if err != nil {
		return nil, fmt.Errorf("failed to reload expenses: %w", err)
	}

	event := domain.ExpensesBulkPublished{Expenses: expenses, OldExpenses: oldExpenses, UserID: userID}
	if err := s.publish(ctx, event); err != nil {
		return nil, err
	}
	return meta, nil
}

func (s *expenseService) GetExpense(ctx context.Context, expenseID int64) (*domain.Expense, error) {
	return s.getExpenseOrErr(ctx, expenseID)
}

func (s *expenseService) ListExpenses(ctx context.Context, params dto.ListExpensesParams) (*dto.ListExpensesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultExpensePageSize
	}
	expenses, next, err := s.expenseRepo.ListExpenses(ctx, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list expenses")
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	if expenses == nil {
		expenses = domain.ExpenseBatch{}
	}
	return &dto.ListExpensesResponse{Expenses: expenses, NextToken: next}, nil
}

func (s *expenseService) WriteJournalEntries(ctx context.Context, batch domain.ExpenseBatch, userID string, override bool) error {
	sources := make([]domain.JournalSource, len(batch))
	for i, e := range batch {
		sources[i] = e
	}
	return s.journal.WriteJournalEntries(ctx, sources, userID, override)
}

func (s *expenseService) RevertJournalEntries(ctx context.Context, expenseIDs []int64) error {
	return s.journal.RevertJournalEntries(ctx, domain.ReferenceExpense, expenseIDs)
}
