package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spinzar/bigcapital/internal/apperrors"
	"github.com/spinzar/bigcapital/internal/core/domain"
	portsrepo "github.com/spinzar/bigcapital/internal/core/ports/repositories"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// The balance comes from account_balances, kept current by journal posting.
const accountColumns = `
	a.id, a.code, a.name, a.account_type, a.currency_code, a.description, a.is_active, a.created_at,
	COALESCE(b.amount, 0)
`

const accountFrom = `
	FROM accounts a
	LEFT JOIN account_balances b ON b.account_id = a.id
`

func scanAccount(row pgx.Row) (domain.Account, error) {
	var acc domain.Account
	err := row.Scan(
		&acc.ID,
		&acc.Code,
		&acc.Name,
		&acc.AccountType,
		&acc.CurrencyCode,
		&acc.Description,
		&acc.IsActive,
		&acc.CreatedAt,
		&acc.Amount,
	)
	return acc, err
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + accountFrom + ` WHERE a.id = $1;`

	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %d: %w", accountID, err)
	}
	return &acc, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []int64) (domain.AccountSet, error) {
	if len(accountIDs) == 0 {
		return domain.AccountSet{}, nil
	}

	query := `SELECT ` + accountColumns + accountFrom + ` WHERE a.id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs: %w", err)
	}
	defer rows.Close()

	// Ids that were not found are simply absent; callers check with Missing.
	accounts := make(domain.AccountSet, len(accountIDs))
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row during batch fetch: %w", err)
		}
		accounts[acc.ID] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows during batch fetch: %w", err)
	}
	return accounts, nil
}

// ListAccounts retrieves the active chart of accounts ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + accountFrom + ` WHERE a.is_active = TRUE ORDER BY a.code;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// EnsureAccounts inserts the accounts whose code is not taken yet.
func (r *PgxAccountRepository) EnsureAccounts(ctx context.Context, accounts []domain.Account) (int, error) {
	if len(accounts) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO accounts (code, name, account_type, currency_code, description, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (code) DO NOTHING;
	`
	created := 0
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, acc := range accounts {
			batch.Queue(query, acc.Code, acc.Name, acc.AccountType, acc.CurrencyCode, acc.Description, acc.IsActive)
		}
		br := tx.SendBatch(ctx, batch)
		for _, acc := range accounts {
			tag, err := br.Exec()
			if err != nil {
				br.Close()
				return fmt.Errorf("failed to insert account %s: %w", acc.Code, err)
			}
			created += int(tag.RowsAffected())
		}
		return br.Close()
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}
