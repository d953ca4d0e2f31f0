package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/spinzar/bigcapital/internal/apperrors"
	"github.com/spinzar/bigcapital/internal/core/domain"
	"github.com/spinzar/bigcapital/internal/core/ledger"
	portsrepo "github.com/spinzar/bigcapital/internal/core/ports/repositories"
	portssvc "github.com/spinzar/bigcapital/internal/core/ports/services"
)

// reportingService builds reports on top of the in-memory ledger.
type reportingService struct {
	BaseService
	ledgerRepo   portsrepo.LedgerReader
	accountRepo  portsrepo.AccountReader
	contactRepo  portsrepo.ContactReader
	baseCurrency string
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportingBaseCurrency sets the currency stamped on report meta.
func WithReportingBaseCurrency(code string) ReportingServiceOption {
	return func(s *reportingService) {
		s.baseCurrency = code
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(
	ledgerRepo portsrepo.LedgerReader,
	accountRepo portsrepo.AccountReader,
	contactRepo portsrepo.ContactReader,
	options ...ReportingServiceOption,
) portssvc.ReportingSvc {
	svc := &reportingService{
		ledgerRepo:   ledgerRepo,
		accountRepo:  accountRepo,
		contactRepo:  contactRepo,
		baseCurrency: "USD",
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ReportingSvc = (*reportingService)(nil)

// GeneralLedger generates the statement of one account for a period
func (s *reportingService) GeneralLedger(ctx context.Context, accountID int64, from *time.Time, to time.Time) (*domain.GeneralLedgerReport, error) {
	if from != nil && domain.CompareDates(*from, to) > 0 {
		return nil, fmt.Errorf("%w: from date is after to date", apperrors.ErrValidation)
	}

	var (
		account      *domain.Account
		transactions []domain.LedgerTransaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		account, err = s.accountRepo.FindAccountByID(gctx, accountID)
		if errors.Is(err, apperrors.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = s.ledgerRepo.ListLedgerTransactions(gctx, domain.LedgerFilter{
			AccountIDs: []int64{accountID},
			ToDate:     &to,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to load general ledger data", slog.Int64("account_id", accountID))
		return nil, fmt.Errorf("failed to load general ledger data: %w", err)
	}

	all := ledger.FromTransactions(transactions).WhereAccountID(accountID).WhereToDate(to)
	opening := ledger.New(nil)
	period := all
	if from != nil {
		opening = all.WhereToDate(from.AddDate(0, 0, -1))
		period = all.WhereFromDate(*from)
	}

	report := &domain.GeneralLedgerReport{
		Account:        *account,
		OpeningBalance: opening.ClosingBalance(),
		Entries:        period.Entries(),
		ClosingBalance: all.ClosingBalance(),
		Meta:           domain.NewReportMeta(from, to, s.baseCurrency),
	}
	s.LogInfo(ctx, "General ledger report generated",
		slog.Int64("account_id", accountID),
		slog.Int("entry_count", len(report.Entries)))
	return report, nil
}

// TrialBalance generates per-account totals as of a specific date
func (s *reportingService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error) {
	var (
		accounts     []domain.Account
		transactions []domain.LedgerTransaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = s.accountRepo.ListAccounts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = s.ledgerRepo.ListLedgerTransactions(gctx, domain.LedgerFilter{ToDate: &asOf})
		return err
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to load trial balance data",
			slog.String("asOf", asOf.Format(time.DateOnly)))
		return nil, fmt.Errorf("failed to load trial balance data: %w", err)
	}

	led := ledger.FromTransactions(transactions).WhereToDate(asOf)
	report := &domain.TrialBalanceReport{
		Rows: []domain.TrialBalanceRow{},
		Meta: domain.NewReportMeta(nil, asOf, s.baseCurrency),
	}
	for _, account := range accounts {
		sub := led.WhereAccountID(account.ID)
		if sub.Len() == 0 {
			continue
		}
		row := domain.TrialBalanceRow{
			AccountID:   account.ID,
			AccountCode: account.Code,
			AccountName: account.Name,
			AccountType: account.AccountType,
			Debit:       sub.DebitTotal(),
			Credit:      sub.CreditTotal(),
			Balance:     sub.ClosingBalance(),
		}
		report.Rows = append(report.Rows, row)
		report.TotalDebit = report.TotalDebit.Add(row.Debit)
		report.TotalCredit = report.TotalCredit.Add(row.Credit)
	}

	s.LogInfo(ctx, "Trial balance report generated",
		slog.String("asOf", asOf.Format(time.DateOnly)),
		slog.Int("row_count", len(report.Rows)))
	return report, nil
}

// ContactBalance sums the entries attributed to a contact up to asOf.
func (s *reportingService) ContactBalance(ctx context.Context, contactID int64, asOf time.Time) (*domain.ContactBalance, error) {
	var transactions []domain.LedgerTransaction
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.contactRepo.FindContactByID(gctx, contactID)
		if errors.Is(err, apperrors.ErrNotFound) {
			return ErrContactNotFound
		}
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = s.ledgerRepo.ListLedgerTransactions(gctx, domain.LedgerFilter{
			ContactID: &contactID,
			ToDate:    &asOf,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, ErrContactNotFound) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to load contact transactions", slog.Int64("contact_id", contactID))
		return nil, fmt.Errorf("failed to load contact transactions: %w", err)
	}

	led := ledger.FromTransactions(transactions).WhereContactID(contactID).WhereToDate(asOf)
	return &domain.ContactBalance{
		ContactID: contactID,
		Balance:   led.ClosingBalance(),
		Meta:      domain.NewReportMeta(nil, asOf, s.baseCurrency),
	}, nil
}
