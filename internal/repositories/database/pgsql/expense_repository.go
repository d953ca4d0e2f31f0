package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spinzar/bigcapital/internal/apperrors"
	"github.com/spinzar/bigcapital/internal/core/domain"
	portsrepo "github.com/spinzar/bigcapital/internal/core/ports/repositories"
	"github.com/spinzar/bigcapital/internal/utils/pagination"
)

type PgxExpenseRepository struct {
	BaseRepository
}

// newPgxExpenseRepository creates a new repository for expenses and their categories.
func newPgxExpenseRepository(pool *pgxpool.Pool) *PgxExpenseRepository {
	return &PgxExpenseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

const expenseColumns = `
	id, payment_account_id, payee_id, payment_date, reference_no, description,
	currency_code, total_amount, published_at, user_id, created_at, created_by, updated_at
`

func scanExpense(row pgx.Row) (domain.Expense, error) {
	var e domain.Expense
	err := row.Scan(
		&e.ID,
		&e.PaymentAccountID,
		&e.PayeeID,
		&e.PaymentDate,
		&e.ReferenceNo,
		&e.Description,
		&e.CurrencyCode,
		&e.TotalAmount,
		&e.PublishedAt,
		&e.UserID,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.UpdatedAt,
	)
	return e, err
}

// loadCategories fetches the categories of the given expenses keyed by expense id.
func loadCategories(ctx context.Context, q querier, expenseIDs []int64) (map[int64][]domain.ExpenseCategory, error) {
	out := make(map[int64][]domain.ExpenseCategory, len(expenseIDs))
	if len(expenseIDs) == 0 {
		return out, nil
	}

	query := `
		SELECT id, expense_id, line_index, expense_account_id, amount, description
		FROM expense_categories
		WHERE expense_id = ANY($1)
		ORDER BY expense_id, line_index;
	`
	rows, err := q.Query(ctx, query, expenseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query expense categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c domain.ExpenseCategory
		if err := rows.Scan(&c.ID, &c.ExpenseID, &c.Index, &c.ExpenseAccountID, &c.Amount, &c.Description); err != nil {
			return nil, fmt.Errorf("failed to scan expense category row: %w", err)
		}
		out[c.ExpenseID] = append(out[c.ExpenseID], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense category rows: %w", err)
	}
	return out, nil
}

func (r *PgxExpenseRepository) attachCategories(ctx context.Context, q querier, batch domain.ExpenseBatch) error {
	categories, err := loadCategories(ctx, q, batch.IDs())
	if err != nil {
		return err
	}
	for i := range batch {
		batch[i].Categories = categories[batch[i].ID]
	}
	return nil
}

func (r *PgxExpenseRepository) collect(rows pgx.Rows) (domain.ExpenseBatch, error) {
	defer rows.Close()
	batch := domain.ExpenseBatch{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		batch = append(batch, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense rows: %w", err)
	}
	return batch, nil
}

// FindExpenseByID retrieves an expense with its categories.
func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID int64) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1;`

	e, err := scanExpense(r.Pool.QueryRow(ctx, query, expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense by ID %d: %w", expenseID, err)
	}

	batch := domain.ExpenseBatch{e}
	if err := r.attachCategories(ctx, r.Pool, batch); err != nil {
		return nil, err
	}
	return &batch[0], nil
}

// FindExpensesByIDs retrieves the expenses found among ids, ordered by id.
func (r *PgxExpenseRepository) FindExpensesByIDs(ctx context.Context, expenseIDs []int64) (domain.ExpenseBatch, error) {
	if len(expenseIDs) == 0 {
		return domain.ExpenseBatch{}, nil
	}

	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = ANY($1) ORDER BY id;`
	rows, err := r.Pool.Query(ctx, query, expenseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses by IDs: %w", err)
	}
	batch, err := r.collect(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachCategories(ctx, r.Pool, batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// ListExpenses returns a keyset-paginated page ordered by payment date and id, newest first.
func (r *PgxExpenseRepository) ListExpenses(ctx context.Context, limit int, nextToken *string) (domain.ExpenseBatch, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	var (
		rows pgx.Rows
		err  error
	)
	// Fetch one extra row to know whether another page exists.
	if nextToken != nil && *nextToken != "" {
		paymentDate, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, decodeErr)
		}
		query := `SELECT ` + expenseColumns + `
			FROM expenses
			WHERE (payment_date, id) < ($1, $2)
			ORDER BY payment_date DESC, id DESC
			LIMIT $3;`
		rows, err = r.Pool.Query(ctx, query, paymentDate, lastID, limit+1)
	} else {
		query := `SELECT ` + expenseColumns + `
			FROM expenses
			ORDER BY payment_date DESC, id DESC
			LIMIT $1;`
		rows, err = r.Pool.Query(ctx, query, limit+1)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	batch, err := r.collect(rows)
	if err != nil {
		return nil, nil, err
	}

	var token *string
	if len(batch) > limit {
		batch = batch[:limit]
		last := batch[len(batch)-1]
		encoded := pagination.EncodeToken(last.PaymentDate, last.ID)
		token = &encoded
	}

	if err := r.attachCategories(ctx, r.Pool, batch); err != nil {
		return nil, nil, err
	}
	return batch, token, nil
}

func insertCategories(ctx context.Context, tx pgx.Tx, expenseID int64, categories []domain.ExpenseCategory) error {
	if len(categories) == 0 {
		return nil
	}

	query := `
		INSERT INTO expense_categories (expense_id, line_index, expense_account_id, amount, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id;
	`
	batch := &pgx.Batch{}
	for _, c := range categories {
		batch.Queue(query, expenseID, c.Index, c.ExpenseAccountID, c.Amount, c.Description)
	}
	br := tx.SendBatch(ctx, batch)
	for i := range categories {
		if err := br.QueryRow().Scan(&categories[i].ID); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert category %d of expense %d: %w", categories[i].Index, expenseID, err)
		}
		categories[i].ExpenseID = expenseID
	}
	return br.Close()
}

// SaveExpense inserts an expense and its categories in one transaction.
func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error) {
	expense.Categories = append([]domain.ExpenseCategory(nil), expense.Categories...)

	err := r.inTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO expenses (
				payment_account_id, payee_id, payment_date, reference_no, description,
				currency_code, total_amount, published_at, user_id, created_at, created_by
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id;
		`
		err := tx.QueryRow(ctx, query,
			expense.PaymentAccountID,
			expense.PayeeID,
			expense.PaymentDate,
			expense.ReferenceNo,
			expense.Description,
			expense.CurrencyCode,
			expense.TotalAmount,
			expense.PublishedAt,
			expense.UserID,
			expense.CreatedAt,
			expense.CreatedBy,
		).Scan(&expense.ID)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}
		return insertCategories(ctx, tx, expense.ID, expense.Categories)
	})
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

// UpdateExpense replaces the expense row and all of its categories.
func (r *PgxExpenseRepository) UpdateExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error) {
	expense.Categories = append([]domain.ExpenseCategory(nil), expense.Categories...)

	err := r.inTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE expenses
			SET payment_account_id = $2, payee_id = $3, payment_date = $4, reference_no = $5,
			    description = $6, currency_code = $7, total_amount = $8, published_at = $9, updated_at = $10
			WHERE id = $1;
		`
		tag, err := tx.Exec(ctx, query,
			expense.ID,
			expense.PaymentAccountID,
			expense.PayeeID,
			expense.PaymentDate,
			expense.ReferenceNo,
			expense.Description,
			expense.CurrencyCode,
			expense.TotalAmount,
			expense.PublishedAt,
			expense.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to update expense %d: %w", expense.ID, err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrNotFound
		}

		if _, err := tx.Exec(ctx, `DELETE FROM expense_categories WHERE expense_id = $1;`, expense.ID); err != nil {
			return fmt.Errorf("failed to clear categories of expense %d: %w", expense.ID, err)
		}
		return insertCategories(ctx, tx, expense.ID, expense.Categories)
	})
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

// DeleteExpenses removes expenses; categories go with them through the foreign key cascade.
func (r *PgxExpenseRepository) DeleteExpenses(ctx context.Context, expenseIDs []int64) error {
	if len(expenseIDs) == 0 {
		return nil
	}
	if _, err := r.Pool.Exec(ctx, `DELETE FROM expenses WHERE id = ANY($1);`, expenseIDs); err != nil {
		return fmt.Errorf("failed to delete expenses: %w", err)
	}
	return nil
}

// PublishExpenses stamps publishedAt on the expenses that are still drafts.
func (r *PgxExpenseRepository) PublishExpenses(ctx context.Context, expenseIDs []int64, publishedAt time.Time) error {
	if len(expenseIDs) == 0 {
		return nil
	}
	query := `UPDATE expenses SET published_at = $2 WHERE id = ANY($1) AND published_at IS NULL;`
	if _, err := r.Pool.Exec(ctx, query, expenseIDs, publishedAt); err != nil {
		return fmt.Errorf("failed to publish expenses: %w", err)
	}
	return nil
}
