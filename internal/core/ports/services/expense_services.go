package services

import (
	"context"

	"github.com/spinzar/bigcapital/internal/core/domain"
	"github.com/spinzar/bigcapital/internal/dto"
)

// ExpenseReaderSvc defines read operations for expenses
type ExpenseReaderSvc interface {
	GetExpense(ctx context.Context, expenseID int64) (*domain.Expense, error)
	ListExpenses(ctx context.Context, params dto.ListExpensesParams) (*dto.ListExpensesResponse, error)
}

// ExpenseWriterSvc defines write operations for expenses
type ExpenseWriterSvc interface {
	NewExpense(ctx context.Context, req dto.ExpenseRequest, userID string) (*domain.Expense, error)
	EditExpense(ctx context.Context, expenseID int64, req dto.ExpenseRequest, userID string) (*domain.Expense, error)
	PublishExpense(ctx context.Context, expenseID int64, userID string) error
	DeleteExpense(ctx context.Context, expenseID int64, userID string) error
	DeleteBulkExpenses(ctx context.Context, expenseIDs []int64, userID string) error
	PublishBulkExpenses(ctx context.Context, expenseIDs []int64, userID string) (*dto.BulkPublishMeta, error)
}

// ExpenseJournalSvc defines the ledger side of expenses.
type ExpenseJournalSvc interface {
	// WriteJournalEntries posts the batch; with override the batch's prior
	// entries are reverted in the same transaction.
	WriteJournalEntries(ctx context.Context, batch domain.ExpenseBatch, userID string, override bool) error

	// RevertJournalEntries reverts the entries of the given expenses.
	RevertJournalEntries(ctx context.Context, expenseIDs []int64) error
}

// ExpenseSvcFacade combines all expense service interfaces
type ExpenseSvcFacade interface {
	ExpenseReaderSvc
	ExpenseWriterSvc
	ExpenseJournalSvc
}
