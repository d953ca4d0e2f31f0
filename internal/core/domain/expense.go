package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a payment out of a current asset account split across expense categories.
type Expense struct {
	ID               int64             `json:"id"`
	PaymentAccountID int64             `json:"paymentAccountId"`
	PayeeID          *int64            `json:"payeeId,omitempty"`
	PaymentDate      time.Time         `json:"paymentDate"`
	ReferenceNo      string            `json:"referenceNo,omitempty"`
	Description      string            `json:"description,omitempty"`
	CurrencyCode     string            `json:"currencyCode"`
	TotalAmount      decimal.Decimal   `json:"totalAmount"`
	PublishedAt      *time.Time        `json:"publishedAt,omitempty"`
	UserID           string            `json:"userId"`
	Categories       []ExpenseCategory `json:"categories"`
	AuditFields
}

// ExpenseCategory is one categorized line of an expense.
type ExpenseCategory struct {
	ID               int64           `json:"id"`
	ExpenseID        int64           `json:"expenseId"`
	Index            int             `json:"index"`
	ExpenseAccountID int64           `json:"expenseAccountId"`
	Amount           decimal.Decimal `json:"amount"`
	Description      string          `json:"description,omitempty"`
}

// IsPublished reports whether the expense has been published to the ledger.
func (e Expense) IsPublished() bool {
	return e.PublishedAt != nil
}

// CategoriesTotal sums the category amounts.
func (e Expense) CategoriesTotal() decimal.Decimal {
	total := decimal.Zero
	for _, c := range e.Categories {
		total = total.Add(c.Amount)
	}
	return total
}

// ExpenseAccountIDs returns the distinct category account ids in first-seen order.
func (e Expense) ExpenseAccountIDs() []int64 {
	seen := make(map[int64]struct{}, len(e.Categories))
	ids := make([]int64, 0, len(e.Categories))
	for _, c := range e.Categories {
		if _, ok := seen[c.ExpenseAccountID]; ok {
			continue
		}
		seen[c.ExpenseAccountID] = struct{}{}
		ids = append(ids, c.ExpenseAccountID)
	}
	return ids
}

// ExpenseBatch is an ordered batch of expenses processed together.
type ExpenseBatch []Expense

// IDs returns the expense ids in batch order.
func (b ExpenseBatch) IDs() []int64 {
	ids := make([]int64, len(b))
	for i, e := range b {
		ids[i] = e.ID
	}
	return ids
}

// Published returns the expenses of the batch that are published.
func (b ExpenseBatch) Published() ExpenseBatch {
	out := make(ExpenseBatch, 0, len(b))
	for _, e := range b {
		if e.IsPublished() {
			out = append(out, e)
		}
	}
	return out
}

// AccountIDs returns every account referenced by the batch, deduplicated.
func (b ExpenseBatch) AccountIDs() []int64 {
	seen := make(map[int64]struct{})
	var ids []int64
	add := func(id int64) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, e := range b {
		add(e.PaymentAccountID)
		for _, id := range e.ExpenseAccountIDs() {
			add(id)
		}
	}
	return ids
}
