package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const reportDateLayout = "2006/01/02"

// ReportMeta describes the period a report covers.
type ReportMeta struct {
	FromDate           *time.Time `json:"fromDate,omitempty"`
	ToDate             time.Time  `json:"toDate"`
	FormattedDateRange string     `json:"formattedDateRange"`
	BaseCurrency       string     `json:"baseCurrency"`
}

// NewReportMeta formats the date range as "From YYYY/MM/DD | To YYYY/MM/DD",
// or "As YYYY/MM/DD" when there is no lower bound.
func NewReportMeta(from *time.Time, to time.Time, baseCurrency string) ReportMeta {
	formatted := fmt.Sprintf("As %s", to.Format(reportDateLayout))
	if from != nil {
		formatted = fmt.Sprintf("From %s | To %s", from.Format(reportDateLayout), to.Format(reportDateLayout))
	}
	return ReportMeta{FromDate: from, ToDate: to, FormattedDateRange: formatted, BaseCurrency: baseCurrency}
}

// GeneralLedgerReport is an account statement over a period.
type GeneralLedgerReport struct {
	Account        Account         `json:"account"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Entries        []LedgerEntry   `json:"entries"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	Meta           ReportMeta      `json:"meta"`
}

// TrialBalanceRow represents a single row in a trial balance report.
type TrialBalanceRow struct {
	AccountID   int64           `json:"accountId"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// TrialBalanceReport lists per-account totals as of a date.
type TrialBalanceReport struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
	Meta        ReportMeta        `json:"meta"`
}

// ContactBalance is the closing balance of all entries attributed to a contact.
type ContactBalance struct {
	ContactID int64           `json:"contactId"`
	Balance   decimal.Decimal `json:"balance"`
	Meta      ReportMeta      `json:"meta"`
}
