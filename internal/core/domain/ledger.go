package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReferenceType identifies the kind of document a journal entry was posted for.
type ReferenceType string

const (
	ReferenceExpense       ReferenceType = "Expense"
	ReferenceBill          ReferenceType = "Bill"
	ReferenceManualJournal ReferenceType = "ManualJournal"
)

var referenceTypeLabels = map[ReferenceType]string{
	ReferenceExpense:       "Expense",
	ReferenceBill:          "Bill",
	ReferenceManualJournal: "Manual journal",
}

// FormatReferenceType returns the display label for a reference type.
// Unknown types are returned verbatim.
func FormatReferenceType(t ReferenceType) string {
	if label, ok := referenceTypeLabels[t]; ok {
		return label
	}
	return string(t)
}

// LedgerEntry is one normalized double-entry line on the read side.
type LedgerEntry struct {
	Credit            decimal.Decimal `json:"credit"`
	Debit             decimal.Decimal `json:"debit"`
	AccountNormal     AccountNormal   `json:"accountNormal"`
	AccountID         int64           `json:"accountId"`
	ContactID         *int64          `json:"contactId"`
	Date              time.Time       `json:"date"`
	TransactionNumber string          `json:"transactionNumber"`
	TransactionType   string          `json:"transactionType"`
	ReferenceNumber   string          `json:"referenceNumber"`
	ReferenceType     string          `json:"referenceType"`
}

// LedgerTransaction is a stored transaction record as handed to the ledger.
// Credit and Debit are nullable in storage.
type LedgerTransaction struct {
	Credit                 *decimal.Decimal
	Debit                  *decimal.Decimal
	AccountNormal          AccountNormal
	AccountID              int64
	ContactID              *int64
	Date                   time.Time
	TransactionNumber      string
	ReferenceTypeFormatted string
	ReferenceNumber        string
	ReferenceType          string
}

// LedgerFilter narrows the stored transactions loaded for reporting.
// Zero values mean "no constraint".
type LedgerFilter struct {
	AccountIDs []int64
	ContactID  *int64
	FromDate   *time.Time
	ToDate     *time.Time
}

// JournalEntry is a write-side row produced by journal posting.
type JournalEntry struct {
	ID                int64 // Storage id, zero until persisted
	ReferenceType     ReferenceType
	ReferenceID       int64
	AccountID         int64
	AccountNormal     AccountNormal
	ContactID         *int64
	ContactType       ContactService
	Credit            decimal.Decimal
	Debit             decimal.Decimal
	Date              time.Time
	TransactionNumber string
	ReferenceNumber   string
	Note              string
	Index             int
	UserID            string
	CreatedAt         time.Time
}

// BalanceChange returns the entry's effect on its account balance,
// measured from the account's normal side.
func (e JournalEntry) BalanceChange() decimal.Decimal {
	if e.AccountNormal == NormalCredit {
		return e.Credit.Sub(e.Debit)
	}
	return e.Debit.Sub(e.Credit)
}

// LedgerTransaction converts the entry to the stored record shape read by ledgers.
func (e JournalEntry) LedgerTransaction() LedgerTransaction {
	credit, debit := e.Credit, e.Debit
	return LedgerTransaction{
		Credit:                 &credit,
		Debit:                  &debit,
		AccountNormal:          e.AccountNormal,
		AccountID:              e.AccountID,
		ContactID:              e.ContactID,
		Date:                   e.Date,
		TransactionNumber:      e.TransactionNumber,
		ReferenceTypeFormatted: FormatReferenceType(e.ReferenceType),
		ReferenceNumber:        e.ReferenceNumber,
		ReferenceType:          string(e.ReferenceType),
	}
}
