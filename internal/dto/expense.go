package dto

import (
	"github.com/shopspring/decimal"

	"github.com/spinzar/bigcapital/internal/core/domain"
)

// ExpenseCategoryRequest is one category line of an expense request.
type ExpenseCategoryRequest struct {
	Index            int             `json:"index" binding:"gte=0"`
	ExpenseAccountID int64           `json:"expenseAccountId" binding:"required,gt=0"`
	Amount           decimal.Decimal `json:"amount" binding:"decimal_gte0"`
	Description      string          `json:"description" binding:"max=1024"`
}

// ExpenseRequest is the payload for creating or editing an expense.
// TotalAmount is optional; when present it must equal the categories total.
type ExpenseRequest struct {
	PaymentAccountID int64                    `json:"paymentAccountId" binding:"required,gt=0"`
	PayeeID          *int64                   `json:"payeeId" binding:"omitempty,gt=0"`
	PaymentDate      string                   `json:"paymentDate" binding:"required,datetime=2006-01-02"`
	ReferenceNo      string                   `json:"referenceNo" binding:"max=255"`
	Description      string                   `json:"description" binding:"max=1024"`
	CurrencyCode     string                   `json:"currencyCode" binding:"omitempty,uppercase,len=3"`
	TotalAmount      *decimal.Decimal         `json:"totalAmount" binding:"omitempty,decimal_gte0"`
	Publish          bool                     `json:"publish"`
	Categories       []ExpenseCategoryRequest `json:"categories" binding:"required,min=1,dive"`
}

// ListExpensesParams defines query parameters for listing expenses.
type ListExpensesParams struct {
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListExpensesResponse wraps a page of expenses.
type ListExpensesResponse struct {
	Expenses  []domain.Expense `json:"expenses"`
	NextToken *string          `json:"nextToken,omitempty"`
}

// PublishExpensesResponse is returned by the bulk publish endpoint.
type PublishExpensesResponse struct {
	IDs  []int64         `json:"ids"`
	Meta BulkPublishMeta `json:"meta"`
}
