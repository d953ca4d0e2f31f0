package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/spinzar/bigcapital/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:       newPgxAccountRepository(dbPool),
		ContactRepo:       newPgxContactRepository(dbPool),
		ExpenseRepo:       newPgxExpenseRepository(dbPool),
		ManualJournalRepo: newPgxManualJournalRepository(dbPool),
		LedgerRepo:        newPgxLedgerRepository(dbPool),
	}
}
