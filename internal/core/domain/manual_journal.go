package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ManualJournal is a user-entered journal with arbitrary debit/credit lines.
type ManualJournal struct {
	ID            int64                `json:"id"`
	JournalNumber string               `json:"journalNumber"`
	JournalType   string               `json:"journalType,omitempty"`
	Reference     string               `json:"reference,omitempty"`
	Date          time.Time            `json:"date"`
	Description   string               `json:"description,omitempty"`
	Amount        decimal.Decimal      `json:"amount"`
	PublishedAt   *time.Time           `json:"publishedAt,omitempty"`
	UserID        string               `json:"userId"`
	Entries       []ManualJournalEntry `json:"entries"`
	AuditFields
}

// ManualJournalEntry is one line of a manual journal.
type ManualJournalEntry struct {
	Index     int             `json:"index"`
	AccountID int64           `json:"accountId"`
	ContactID *int64          `json:"contactId,omitempty"`
	Credit    decimal.Decimal `json:"credit"`
	Debit     decimal.Decimal `json:"debit"`
	Note      string          `json:"note,omitempty"`
}

// IsPublished reports whether the journal has been published to the ledger.
func (m ManualJournal) IsPublished() bool {
	return m.PublishedAt != nil
}

// Totals returns the summed credit and debit of all entries.
func (m ManualJournal) Totals() (credit, debit decimal.Decimal) {
	credit, debit = decimal.Zero, decimal.Zero
	for _, e := range m.Entries {
		credit = credit.Add(e.Credit)
		debit = debit.Add(e.Debit)
	}
	return credit, debit
}

// AccountIDs returns the distinct entry account ids in first-seen order.
func (m ManualJournal) AccountIDs() []int64 {
	seen := make(map[int64]struct{}, len(m.Entries))
	ids := make([]int64, 0, len(m.Entries))
	for _, e := range m.Entries {
		if _, ok := seen[e.AccountID]; !ok {
			seen[e.AccountID] = struct{}{}
			ids = append(ids, e.AccountID)
		}
	}
	return ids
}

// ContactIDs returns the distinct contact ids referenced by entries.
func (m ManualJournal) ContactIDs() []int64 {
	seen := make(map[int64]struct{})
	var ids []int64
	for _, e := range m.Entries {
		if e.ContactID == nil {
			continue
		}
		if _, ok := seen[*e.ContactID]; !ok {
			seen[*e.ContactID] = struct{}{}
			ids = append(ids, *e.ContactID)
		}
	}
	return ids
}
