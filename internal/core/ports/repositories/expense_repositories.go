package repositories

import (
	"context"
	"time"

	"github.com/spinzar/bigcapital/internal/core/domain"
)

// ExpenseReader defines read operations for expenses
type ExpenseReader interface {
	// FindExpenseByID returns the expense with its categories or apperrors.ErrNotFound.
	FindExpenseByID(ctx context.Context, expenseID int64) (*domain.Expense, error)

	// FindExpensesByIDs returns the expenses found among ids, in id order.
	FindExpensesByIDs(ctx context.Context, expenseIDs []int64) (domain.ExpenseBatch, error)

	// ListExpenses returns a page of expenses ordered by payment date, newest first,
	// and a token for the next page.
	ListExpenses(ctx context.Context, limit int, nextToken *string) (domain.ExpenseBatch, *string, error)
}

// ExpenseWriter defines write operations for expenses
type ExpenseWriter interface {
	// SaveExpense inserts an expense with its categories and returns it with ids assigned.
	SaveExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error)

	// UpdateExpense replaces an expense and its categories.
	UpdateExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error)

	// DeleteExpenses removes expenses and their categories.
	DeleteExpenses(ctx context.Context, expenseIDs []int64) error

	// PublishExpenses stamps publishedAt on the given expenses.
	PublishExpenses(ctx context.Context, expenseIDs []int64, publishedAt time.Time) error
}

// ExpenseRepositoryFacade combines all expense repository interfaces
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
}
