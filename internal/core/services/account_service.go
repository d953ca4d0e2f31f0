package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spinzar/bigcapital/internal/apperrors"
	"github.com/spinzar/bigcapital/internal/core/domain"
	portsrepo "github.com/spinzar/bigcapital/internal/core/ports/repositories"
	portssvc "github.com/spinzar/bigcapital/internal/core/ports/services"
)

var ErrAccountNotFound = fmt.Errorf("%w: account", apperrors.ErrNotFound)

// DefaultAccountsLoader returns the chart of accounts to seed.
type DefaultAccountsLoader func() ([]domain.Account, error)

type accountService struct {
	BaseService
	accountRepo     portsrepo.AccountRepositoryFacade
	defaultAccounts DefaultAccountsLoader
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithDefaultAccounts sets the chart used by SeedDefaultAccounts.
func WithDefaultAccounts(loader DefaultAccountsLoader) AccountServiceOption {
	return func(s *accountService) {
		s.defaultAccounts = loader
	}
}

func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvc {
	svc := &accountService{accountRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccountSvc = (*accountService)(nil)

func (s *accountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	return accounts, nil
}

func (s *accountService) SeedDefaultAccounts(ctx context.Context) (int, error) {
	if s.defaultAccounts == nil {
		return 0, nil
	}
	accounts, err := s.defaultAccounts()
	if err != nil {
		return 0, fmt.Errorf("failed to load default accounts: %w", err)
	}
	for _, a := range accounts {
		if !a.AccountType.Known() {
			return 0, fmt.Errorf("%w: account %s has unknown type %q", apperrors.ErrValidation, a.Code, a.AccountType)
		}
	}

	created, err := s.accountRepo.EnsureAccounts(ctx, accounts)
	if err != nil {
		s.LogError(ctx, err, "Failed to seed default accounts")
		return 0, fmt.Errorf("failed to seed default accounts: %w", err)
	}
	s.LogInfo(ctx, "Default accounts seeded",
		slog.Int("created", created),
		slog.Int("total", len(accounts)))
	return created, nil
}
