package services

import (
	"context"

	"github.com/spinzar/bigcapital/internal/core/domain"
)

// AccountSvc exposes the chart of accounts.
type AccountSvc interface {
	// ListAccounts returns every active account.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// SeedDefaultAccounts inserts the default chart of accounts when missing
	// and returns how many accounts were created.
	SeedDefaultAccounts(ctx context.Context) (int, error)
}
