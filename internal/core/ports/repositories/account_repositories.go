package repositories

import (
	"context"

	"github.com/spinzar/bigcapital/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs.
	// Missing ids are simply absent from the returned set.
	FindAccountsByIDs(ctx context.Context, accountIDs []int64) (domain.AccountSet, error)

	// ListAccounts retrieves every active account ordered by code.
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// EnsureAccounts inserts accounts whose code does not exist yet and
	// returns how many were created.
	EnsureAccounts(ctx context.Context, accounts []domain.Account) (int, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}

// ContactReader defines read operations for contacts.
type ContactReader interface {
	FindContactByID(ctx context.Context, contactID int64) (*domain.Contact, error)
	FindContactsByIDs(ctx context.Context, contactIDs []int64) (map[int64]domain.Contact, error)
}
