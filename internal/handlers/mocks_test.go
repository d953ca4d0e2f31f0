package handlers_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/spinzar/bigcapital/internal/core/domain"
	portssvc "github.com/spinzar/bigcapital/internal/core/ports/services"
	"github.com/spinzar/bigcapital/internal/dto"
)

// --- Mock ExpenseService ---
type MockExpenseService struct {
	mock.Mock
}

func (m *MockExpenseService) GetExpense(ctx context.Context, expenseID int64) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseService) ListExpenses(ctx context.Context, params dto.ListExpensesParams) (*dto.ListExpensesResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListExpensesResponse), args.Error(1)
}

func (m *MockExpenseService) NewExpense(ctx context.Context, req dto.ExpenseRequest, userID string) (*domain.Expense, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseService) EditExpense(ctx context.Context, expenseID int64, req dto.ExpenseRequest, userID string) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseService) PublishExpense(ctx context.Context, expenseID int64, userID string) error {
	return m.Called(ctx, expenseID, userID).Error(0)
}

func (m *MockExpenseService) DeleteExpense(ctx context.Context, expenseID int64, userID string) error {
	return m.Called(ctx, expenseID, userID).Error(0)
}

func (m *MockExpenseService) DeleteBulkExpenses(ctx context.Context, expenseIDs []int64, userID string) error {
	return m.Called(ctx, expenseIDs, userID).Error(0)
}

func (m *MockExpenseService) PublishBulkExpenses(ctx context.Context, expenseIDs []int64, userID string) (*dto.BulkPublishMeta, error) {
	args := m.Called(ctx, expenseIDs, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BulkPublishMeta), args.Error(1)
}

func (m *MockExpenseService) WriteJournalEntries(ctx context.Context, batch domain.ExpenseBatch, userID string, override bool) error {
	return m.Called(ctx, batch, userID, override).Error(0)
}

func (m *MockExpenseService) RevertJournalEntries(ctx context.Context, expenseIDs []int64) error {
	return m.Called(ctx, expenseIDs).Error(0)
}

var _ portssvc.ExpenseSvcFacade = (*MockExpenseService)(nil)

// --- Mock ManualJournalService ---
type MockManualJournalService struct {
	mock.Mock
}

func (m *MockManualJournalService) GetManualJournal(ctx context.Context, journalID int64) (*domain.ManualJournal, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ManualJournal), args.Error(1)
}

func (m *MockManualJournalService) MakeJournalEntries(ctx context.Context, req dto.ManualJournalRequest, userID string) (*domain.ManualJournal, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ManualJournal), args.Error(1)
}

func (m *MockManualJournalService) EditJournalEntries(ctx context.Context, journalID int64, req dto.ManualJournalRequest, userID string) (*domain.ManualJournal, error) {
	args := m.Called(ctx, journalID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ManualJournal), args.Error(1)
}

func (m *MockManualJournalService) PublishManualJournal(ctx context.Context, journalID int64, userID string) error {
	return m.Called(ctx, journalID, userID).Error(0)
}

func (m *MockManualJournalService) DeleteManualJournal(ctx context.Context, journalID int64, userID string) error {
	return m.Called(ctx, journalID, userID).Error(0)
}

var _ portssvc.ManualJournalSvcFacade = (*MockManualJournalService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) GeneralLedger(ctx context.Context, accountID int64, from *time.Time, to time.Time) (*domain.GeneralLedgerReport, error) {
	args := m.Called(ctx, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeneralLedgerReport), args.Error(1)
}

func (m *MockReportingService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalanceReport), args.Error(1)
}

func (m *MockReportingService) ContactBalance(ctx context.Context, contactID int64, asOf time.Time) (*domain.ContactBalance, error) {
	args := m.Called(ctx, contactID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContactBalance), args.Error(1)
}

var _ portssvc.ReportingSvc = (*MockReportingService)(nil)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) SeedDefaultAccounts(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

var _ portssvc.AccountSvc = (*MockAccountService)(nil)
