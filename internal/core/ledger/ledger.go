// Package ledger provides an immutable, filterable view over stored
// double-entry transactions.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spinzar/bigcapital/internal/core/domain"
)

// Ledger is an immutable ordered set of entries. Every filter returns a new
// Ledger; the receiver is never modified, so a Ledger may be shared freely.
type Ledger struct {
	entries []domain.LedgerEntry
}

// New builds a Ledger from entries. The slice is copied.
func New(entries []domain.LedgerEntry) Ledger {
	return Ledger{entries: append([]domain.LedgerEntry(nil), entries...)}
}

// FromTransactions normalizes stored transaction records into a Ledger.
// Missing credit or debit amounts default to zero.
func FromTransactions(transactions []domain.LedgerTransaction) Ledger {
	entries := make([]domain.LedgerEntry, 0, len(transactions))
	for _, t := range transactions {
		entries = append(entries, domain.LedgerEntry{
			Credit:            valueOrZero(t.Credit),
			Debit:             valueOrZero(t.Debit),
			AccountNormal:     t.AccountNormal,
			AccountID:         t.AccountID,
			ContactID:         t.ContactID,
			Date:              t.Date,
			TransactionNumber: t.TransactionNumber,
			TransactionType:   t.ReferenceTypeFormatted,
			ReferenceNumber:   t.ReferenceNumber,
			ReferenceType:     t.ReferenceType,
		})
	}
	return Ledger{entries: entries}
}

// FromJournalEntries builds a Ledger from write-side journal rows.
func FromJournalEntries(entries []domain.JournalEntry) Ledger {
	transactions := make([]domain.LedgerTransaction, len(entries))
	for i, e := range entries {
		transactions[i] = e.LedgerTransaction()
	}
	return FromTransactions(transactions)
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// Filter returns the entries satisfying predicate, in their original order.
func (l Ledger) Filter(predicate func(domain.LedgerEntry) bool) Ledger {
	out := make([]domain.LedgerEntry, 0, len(l.entries))
	for _, e := range l.entries {
		if predicate(e) {
			out = append(out, e)
		}
	}
	return Ledger{entries: out}
}

// WhereContactID keeps entries attributed to the contact.
func (l Ledger) WhereContactID(contactID int64) Ledger {
	return l.Filter(func(e domain.LedgerEntry) bool {
		return e.ContactID != nil && *e.ContactID == contactID
	})
}

// WhereAccountID keeps entries posted to the account.
func (l Ledger) WhereAccountID(accountID int64) Ledger {
	return l.Filter(func(e domain.LedgerEntry) bool {
		return e.AccountID == accountID
	})
}

// WhereAccountIDs keeps entries posted to any of the accounts.
func (l Ledger) WhereAccountIDs(accountIDs []int64) Ledger {
	set := make(map[int64]struct{}, len(accountIDs))
	for _, id := range accountIDs {
		set[id] = struct{}{}
	}
	return l.Filter(func(e domain.LedgerEntry) bool {
		_, ok := set[e.AccountID]
		return ok
	})
}

// WhereFromDate keeps entries dated on or after date. Time of day is ignored.
func (l Ledger) WhereFromDate(date time.Time) Ledger {
	return l.Filter(func(e domain.LedgerEntry) bool {
		return domain.CompareDates(e.Date, date) >= 0
	})
}

// WhereToDate keeps entries dated on or before date. Time of day is ignored.
func (l Ledger) WhereToDate(date time.Time) Ledger {
	return l.Filter(func(e domain.LedgerEntry) bool {
		return domain.CompareDates(e.Date, date) <= 0
	})
}

// Entries returns a copy of the underlying entries.
func (l Ledger) Entries() []domain.LedgerEntry {
	return append([]domain.LedgerEntry(nil), l.entries...)
}

// Len returns the number of entries.
func (l Ledger) Len() int {
	return len(l.entries)
}

// ClosingBalance sums credit minus debit for credit-normal entries and debit
// minus credit for debit-normal entries. Entries with any other normal side
// do not contribute.
func (l Ledger) ClosingBalance() decimal.Decimal {
	balance := decimal.Zero
	for _, e := range l.entries {
		switch e.AccountNormal {
		case domain.NormalCredit:
			balance = balance.Add(e.Credit.Sub(e.Debit))
		case domain.NormalDebit:
			balance = balance.Add(e.Debit.Sub(e.Credit))
		}
	}
	return balance
}

// DebitTotal sums the debit side of every entry.
func (l Ledger) DebitTotal() decimal.Decimal {
	total := decimal.Zero
	for _, e := range l.entries {
		total = total.Add(e.Debit)
	}
	return total
}

// CreditTotal sums the credit side of every entry.
func (l Ledger) CreditTotal() decimal.Decimal {
	total := decimal.Zero
	for _, e := range l.entries {
		total = total.Add(e.Credit)
	}
	return total
}
