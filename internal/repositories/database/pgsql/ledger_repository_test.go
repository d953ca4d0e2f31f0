package pgsql

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spinzar/bigcapital/internal/core/domain"
	"github.com/spinzar/bigcapital/internal/core/journal"
)

// recordingQuerier captures queued batches and executed statements.
type recordingQuerier struct {
	batches []*pgx.Batch
	execs   []string
}

func (q *recordingQuerier) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	q.execs = append(q.execs, sql)
	return pgconn.NewCommandTag("DELETE 0"), nil
}

func (q *recordingQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not supported")
}

func (q *recordingQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func (q *recordingQuerier) SendBatch(_ context.Context, b *pgx.Batch) pgx.BatchResults {
	q.batches = append(q.batches, b)
	return closedBatchResults{}
}

// queued returns the arguments of every queued statement containing sql.
func (q *recordingQuerier) queued(sql string) [][]any {
	var out [][]any
	for _, b := range q.batches {
		for _, qq := range b.QueuedQueries {
			if strings.Contains(qq.SQL, sql) {
				out = append(out, qq.Arguments)
			}
		}
	}
	return out
}

type closedBatchResults struct{}

func (closedBatchResults) Exec() (pgconn.CommandTag, error) { return pgconn.CommandTag{}, nil }
func (closedBatchResults) Query() (pgx.Rows, error)         { return nil, errors.New("not supported") }
func (closedBatchResults) QueryRow() pgx.Row                { return nil }
func (closedBatchResults) Close() error                     { return nil }

func TestLedgerStore_InsertBindsPosterTimestamp(t *testing.T) {
	q := &recordingQuerier{}
	store := &pgxLedgerStore{q: q}
	stamp := time.Date(2024, time.March, 1, 8, 15, 0, 0, time.UTC)

	accounts := domain.NewAccountSet([]domain.Account{
		{ID: 1, Code: "10001", Name: "Bank", AccountType: domain.AccountTypeBank},
		{ID: 2, Code: "50001", Name: "Rent", AccountType: domain.AccountTypeExpense},
	})
	poster := journal.NewPoster(store, journal.WithClock(func() time.Time { return stamp }))
	expense := domain.Expense{
		ID:               7,
		PaymentAccountID: 1,
		PaymentDate:      time.Date(2024, time.February, 28, 0, 0, 0, 0, time.UTC),
		TotalAmount:      decimal.RequireFromString("50"),
		Categories: []domain.ExpenseCategory{
			{Index: 1, ExpenseAccountID: 2, Amount: decimal.RequireFromString("50")},
		},
	}
	require.NoError(t, journal.NewCommands(poster, accounts).Post(expense, "user-1"))
	require.NoError(t, poster.Commit(context.Background()))

	inserted := q.queued("INSERT INTO account_transactions")
	require.Len(t, inserted, 2)
	for _, args := range inserted {
		require.Len(t, args, 15)
		createdAt, ok := args[14].(time.Time)
		require.True(t, ok, "created_at argument is %T", args[14])
		assert.False(t, createdAt.IsZero())
		assert.True(t, stamp.Equal(createdAt))
	}
	assert.Len(t, q.queued("INSERT INTO account_balances"), 2)
	assert.Empty(t, q.execs, "nothing to delete")
}

func TestLedgerStore_ApplyBalanceChangesInAccountOrder(t *testing.T) {
	q := &recordingQuerier{}
	store := &pgxLedgerStore{q: q}

	err := store.ApplyBalanceChanges(context.Background(), map[int64]decimal.Decimal{
		9: decimal.RequireFromString("1"),
		2: decimal.RequireFromString("-1"),
		5: decimal.RequireFromString("3"),
	})
	require.NoError(t, err)

	var ids []int64
	for _, args := range q.queued("account_balances") {
		ids = append(ids, args[0].(int64))
	}
	assert.Equal(t, []int64{2, 5, 9}, ids)
}
