package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Bill is a vendor invoice payable through accounts payable.
type Bill struct {
	ID               int64       `json:"id"`
	VendorID         int64       `json:"vendorId"`
	BillNumber       string      `json:"billNumber"`
	ReferenceNo      string      `json:"referenceNo,omitempty"`
	BillDate         time.Time   `json:"billDate"`
	PayableAccountID int64       `json:"payableAccountId"`
	Note             string      `json:"note,omitempty"`
	Entries          []BillEntry `json:"entries"`
}

// BillEntry is one item line of a bill. CostAccountID is resolved from the
// item before posting.
type BillEntry struct {
	Index         int             `json:"index"`
	ItemID        int64           `json:"itemId"`
	CostAccountID int64           `json:"costAccountId"`
	Rate          decimal.Decimal `json:"rate"`
	Quantity      decimal.Decimal `json:"quantity"`
	Discount      decimal.Decimal `json:"discount"` // Percentage
	Description   string          `json:"description,omitempty"`
}

// Amount is rate times quantity less the percentage discount.
func (e BillEntry) Amount() decimal.Decimal {
	total := e.Rate.Mul(e.Quantity)
	return total.Sub(total.Mul(e.Discount).Div(hundred))
}

// Amount sums the entry amounts.
func (b Bill) Amount() decimal.Decimal {
	total := decimal.Zero
	for _, e := range b.Entries {
		total = total.Add(e.Amount())
	}
	return total
}
