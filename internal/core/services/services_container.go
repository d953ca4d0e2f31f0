package services

import (
	portsrepo "github.com/spinzar/bigcapital/internal/core/ports/repositories"
	portssvc "github.com/spinzar/bigcapital/internal/core/ports/services"
	"github.com/spinzar/bigcapital/internal/platform/config"
	"github.com/spinzar/bigcapital/internal/platform/seed"
)

// EventBus is both ends of the in-process event bus.
type EventBus interface {
	portssvc.EventPublisher
	portssvc.EventSubscriber
}

// NewServiceContainer creates a new service container with properly initialized
// dependencies and subscribes the journal writers to bus.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, bus EventBus) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(
		repos.AccountRepo,
		WithDefaultAccounts(seed.Loader(cfg.BaseCurrency)),
	)

	container.JournalWriter = NewJournalWriterService(repos.LedgerRepo, repos.AccountRepo)

	container.Expense = NewExpenseService(
		repos.ExpenseRepo,
		repos.AccountRepo,
		repos.ContactRepo,
		container.JournalWriter,
		WithExpenseEventPublisher(bus),
		WithExpenseBaseCurrency(cfg.BaseCurrency),
	)

	container.ManualJournal = NewManualJournalService(
		repos.ManualJournalRepo,
		repos.AccountRepo,
		repos.ContactRepo,
		WithManualJournalEventPublisher(bus),
	)

	container.Reporting = NewReportingService(
		repos.LedgerRepo,
		repos.AccountRepo,
		repos.ContactRepo,
		WithReportingBaseCurrency(cfg.BaseCurrency),
	)

	NewExpenseJournalSubscriber(container.Expense).Register(bus)
	NewManualJournalSubscriber(container.JournalWriter).Register(bus)

	return container
}
