package dto

import "github.com/shopspring/decimal"

// ManualJournalEntryRequest is one line of a manual journal request.
type ManualJournalEntryRequest struct {
	Index     int             `json:"index" binding:"gte=0"`
	AccountID int64           `json:"accountId" binding:"required,gt=0"`
	ContactID *int64          `json:"contactId" binding:"omitempty,gt=0"`
	Credit    decimal.Decimal `json:"credit" binding:"decimal_gte0"`
	Debit     decimal.Decimal `json:"debit" binding:"decimal_gte0"`
	Note      string          `json:"note" binding:"max=1024"`
}

// ManualJournalRequest is the payload for creating or editing a manual journal.
type ManualJournalRequest struct {
	Date          string                      `json:"date" binding:"required,datetime=2006-01-02"`
	JournalNumber string                      `json:"journalNumber" binding:"required,max=255"`
	JournalType   string                      `json:"journalType" binding:"max=255"`
	Reference     string                      `json:"reference" binding:"max=255"`
	Description   string                      `json:"description" binding:"max=1024"`
	Publish       bool                        `json:"publish"`
	Entries       []ManualJournalEntryRequest `json:"entries" binding:"required,min=2,dive"`
}
