package services

import (
	"context"
	"time"

	"github.com/spinzar/bigcapital/internal/core/domain"
)

// ReportingSvc builds read-side reports from stored ledger transactions.
type ReportingSvc interface {
	// GeneralLedger returns the statement of one account. A nil from starts
	// at the first entry.
	GeneralLedger(ctx context.Context, accountID int64, from *time.Time, to time.Time) (*domain.GeneralLedgerReport, error)

	// TrialBalance returns per-account totals as of a date.
	TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error)

	// ContactBalance returns the closing balance of entries attributed to a contact.
	ContactBalance(ctx context.Context, contactID int64, asOf time.Time) (*domain.ContactBalance, error)
}
