// Package journal accumulates double-entry postings and flushes them to a
// LedgerStore.
package journal

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spinzar/bigcapital/internal/core/domain"
	portsrepo "github.com/spinzar/bigcapital/internal/core/ports/repositories"
	"github.com/spinzar/bigcapital/internal/middleware"
)

// State is the lifecycle stage of a Poster.
type State int

const (
	StateEmpty State = iota
	StateAccumulating
	StateFlushed
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateAccumulating:
		return "accumulating"
	case StateFlushed:
		return "flushed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type flushStep uint8

const (
	stepSaveBalance flushStep = 1 << iota
	stepSaveEntries
	stepDeleteEntries
)

// Poster accumulates new entries, entries to delete and per-account balance
// deltas for one logical operation. It is not safe for concurrent use and must
// not be reused once any flush call has been made.
type Poster struct {
	store portsrepo.LedgerStore
	now   func() time.Time

	entries        []domain.JournalEntry
	deletedIDs     []int64
	deletedSeen    map[int64]struct{}
	balanceChanges map[int64]decimal.Decimal

	state State
	done  flushStep
}

// PosterOption configures a Poster.
type PosterOption func(*Poster)

// WithClock sets the clock used to stamp CreatedAt on recorded entries.
func WithClock(clock func() time.Time) PosterOption {
	return func(p *Poster) {
		p.now = clock
	}
}

// NewPoster creates an empty poster writing through store.
func NewPoster(store portsrepo.LedgerStore, options ...PosterOption) *Poster {
	p := &Poster{
		store:          store,
		now:            time.Now,
		deletedSeen:    make(map[int64]struct{}),
		balanceChanges: make(map[int64]decimal.Decimal),
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// State returns the current lifecycle stage.
func (p *Poster) State() State {
	return p.state
}

func (p *Poster) accumulate() error {
	if p.state == StateFlushed {
		return ErrPosterFlushed
	}
	p.state = StateAccumulating
	return nil
}

// Credit records entry with amount on the credit side.
func (p *Poster) Credit(entry domain.JournalEntry, amount decimal.Decimal) error {
	entry.Credit, entry.Debit = amount, decimal.Zero
	return p.Record(entry)
}

// Debit records entry with amount on the debit side.
func (p *Poster) Debit(entry domain.JournalEntry, amount decimal.Decimal) error {
	entry.Credit, entry.Debit = decimal.Zero, amount
	return p.Record(entry)
}

// Record queues a new entry and accumulates its balance delta. Entries
// without CreatedAt are stamped with the poster's clock.
func (p *Poster) Record(entry domain.JournalEntry) error {
	if err := p.accumulate(); err != nil {
		return err
	}
	if entry.Credit.IsNegative() || entry.Debit.IsNegative() {
		return fmt.Errorf("%w: account %d", ErrNegativeAmount, entry.AccountID)
	}
	entry.ID = 0
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = p.now().UTC()
	}
	p.entries = append(p.entries, entry)
	p.addBalanceChange(entry.AccountID, entry.BalanceChange())
	return nil
}

// RemoveEntries marks stored entries for deletion and accumulates the inverse
// of their balance effect. Entries already marked are ignored.
func (p *Poster) RemoveEntries(entries []domain.JournalEntry) error {
	if err := p.accumulate(); err != nil {
		return err
	}
	for _, e := range entries {
		if _, seen := p.deletedSeen[e.ID]; seen {
			continue
		}
		p.deletedSeen[e.ID] = struct{}{}
		p.deletedIDs = append(p.deletedIDs, e.ID)
		p.addBalanceChange(e.AccountID, e.BalanceChange().Neg())
	}
	return nil
}

// RevertReference loads the stored entries of the given documents and marks
// them for deletion.
func (p *Poster) RevertReference(ctx context.Context, referenceType domain.ReferenceType, referenceIDs []int64) error {
	if p.state == StateFlushed {
		return ErrPosterFlushed
	}
	if len(referenceIDs) == 0 {
		return nil
	}
	entries, err := p.store.FindEntriesByReference(ctx, referenceType, referenceIDs)
	if err != nil {
		return fmt.Errorf("failed to load %s entries for reversal: %w", referenceType, err)
	}
	middleware.GetLoggerFromCtx(ctx).Debug("Reverting journal entries",
		slog.String("reference_type", string(referenceType)),
		slog.Int("reference_count", len(referenceIDs)),
		slog.Int("entry_count", len(entries)))
	return p.RemoveEntries(entries)
}

func (p *Poster) addBalanceChange(accountID int64, change decimal.Decimal) {
	current, ok := p.balanceChanges[accountID]
	if !ok {
		current = decimal.Zero
	}
	p.balanceChanges[accountID] = current.Add(change)
}

// Entries returns a copy of the pending new entries.
func (p *Poster) Entries() []domain.JournalEntry {
	return append([]domain.JournalEntry(nil), p.entries...)
}

// DeletedEntryIDs returns the storage ids marked for deletion.
func (p *Poster) DeletedEntryIDs() []int64 {
	return append([]int64(nil), p.deletedIDs...)
}

// BalanceChanges returns a copy of the accumulated per-account deltas.
func (p *Poster) BalanceChanges() map[int64]decimal.Decimal {
	out := make(map[int64]decimal.Decimal, len(p.balanceChanges))
	for id, d := range p.balanceChanges {
		out[id] = d
	}
	return out
}

func (p *Poster) beginFlush(step flushStep) error {
	if p.done&step != 0 {
		return ErrPosterFlushed
	}
	p.done |= step
	p.state = StateFlushed
	return nil
}

// SaveBalance persists the non-zero accumulated deltas additively.
func (p *Poster) SaveBalance(ctx context.Context) error {
	if err := p.beginFlush(stepSaveBalance); err != nil {
		return err
	}
	changes := make(map[int64]decimal.Decimal, len(p.balanceChanges))
	for id, d := range p.balanceChanges {
		if !d.IsZero() {
			changes[id] = d
		}
	}
	if len(changes) == 0 {
		return nil
	}
	return p.store.ApplyBalanceChanges(ctx, changes)
}

// SaveEntries persists the pending new entries. Entries are rejected without
// any write when their debit and credit totals differ.
func (p *Poster) SaveEntries(ctx context.Context) error {
	if err := p.beginFlush(stepSaveEntries); err != nil {
		return err
	}
	if len(p.entries) == 0 {
		return nil
	}
	if err := p.checkBalanced(); err != nil {
		return err
	}
	return p.store.InsertEntries(ctx, p.Entries())
}

func (p *Poster) checkBalanced() error {
	credit, debit := decimal.Zero, decimal.Zero
	for _, e := range p.entries {
		credit = credit.Add(e.Credit)
		debit = debit.Add(e.Debit)
	}
	if !credit.Equal(debit) {
		return fmt.Errorf("%w: credit %s, debit %s", ErrUnbalancedEntries, credit, debit)
	}
	return nil
}

// DeleteEntries removes the entries marked for deletion.
func (p *Poster) DeleteEntries(ctx context.Context) error {
	if err := p.beginFlush(stepDeleteEntries); err != nil {
		return err
	}
	if len(p.deletedIDs) == 0 {
		return nil
	}
	ids := p.DeletedEntryIDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return p.store.DeleteEntries(ctx, ids)
}

// Commit runs SaveBalance, SaveEntries and DeleteEntries in that order and
// stops at the first error. Unbalanced entries fail before anything is
// written. Callers own the surrounding storage transaction.
func (p *Poster) Commit(ctx context.Context) error {
	if p.state != StateFlushed {
		if err := p.checkBalanced(); err != nil {
			return err
		}
	}
	if err := p.SaveBalance(ctx); err != nil {
		return err
	}
	if err := p.SaveEntries(ctx); err != nil {
		return err
	}
	return p.DeleteEntries(ctx)
}
