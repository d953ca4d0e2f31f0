package journal_test

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/spinzar/bigcapital/internal/core/domain"
	portsrepo "github.com/spinzar/bigcapital/internal/core/ports/repositories"
)

// memoryStore is an in-memory LedgerStore used by the poster tests.
type memoryStore struct {
	entries  map[int64]domain.JournalEntry
	balances map[int64]decimal.Decimal
	nextID   int64

	insertErr  error
	deleteErr  error
	balanceErr error
	findErr    error

	insertCalls  int
	deleteCalls  int
	balanceCalls int
}

var _ portsrepo.LedgerStore = (*memoryStore)(nil)

func newMemoryStore() *memoryStore {
	return &memoryStore{
		entries:  make(map[int64]domain.JournalEntry),
		balances: make(map[int64]decimal.Decimal),
	}
}

func (s *memoryStore) FindEntriesByReference(_ context.Context, referenceType domain.ReferenceType, referenceIDs []int64) ([]domain.JournalEntry, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	wanted := make(map[int64]struct{}, len(referenceIDs))
	for _, id := range referenceIDs {
		wanted[id] = struct{}{}
	}
	var out []domain.JournalEntry
	for _, e := range s.entries {
		if _, ok := wanted[e.ReferenceID]; ok && e.ReferenceType == referenceType {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memoryStore) InsertEntries(_ context.Context, entries []domain.JournalEntry) error {
	s.insertCalls++
	if s.insertErr != nil {
		return s.insertErr
	}
	for _, e := range entries {
		s.nextID++
		e.ID = s.nextID
		s.entries[e.ID] = e
	}
	return nil
}

func (s *memoryStore) DeleteEntries(_ context.Context, entryIDs []int64) error {
	s.deleteCalls++
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for _, id := range entryIDs {
		delete(s.entries, id)
	}
	return nil
}

func (s *memoryStore) ApplyBalanceChanges(_ context.Context, changes map[int64]decimal.Decimal) error {
	s.balanceCalls++
	if s.balanceErr != nil {
		return s.balanceErr
	}
	for id, d := range changes {
		current, ok := s.balances[id]
		if !ok {
			current = decimal.Zero
		}
		s.balances[id] = current.Add(d)
	}
	return nil
}

func (s *memoryStore) storedEntries() []domain.JournalEntry {
	out := make([]domain.JournalEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memoryStore) balance(accountID int64) decimal.Decimal {
	if b, ok := s.balances[accountID]; ok {
		return b
	}
	return decimal.Zero
}
