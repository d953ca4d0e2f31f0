package repositories

import "context"

// TxRunner runs fn inside a single storage transaction. The transaction is
// committed when fn returns nil and rolled back otherwise.
type TxRunner[T any] interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repo T) error) error
}
