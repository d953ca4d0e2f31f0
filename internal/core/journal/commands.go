package journal

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spinzar/bigcapital/internal/core/domain"
)

// AccountNormals resolves the normal side of an account.
type AccountNormals interface {
	Normal(accountID int64) (domain.AccountNormal, bool)
}

// Commands translates journal sources into poster legs.
type Commands struct {
	poster   *Poster
	accounts AccountNormals
}

// NewCommands wraps poster; accounts must cover every account the posted
// sources reference.
func NewCommands(poster *Poster, accounts AccountNormals) *Commands {
	return &Commands{poster: poster, accounts: accounts}
}

// Post records the legs of any journal source.
func (c *Commands) Post(source domain.JournalSource, userID string) error {
	switch s := source.(type) {
	case domain.Expense:
		return c.Expense(s, userID)
	case *domain.Expense:
		return c.Expense(*s, userID)
	case domain.Bill:
		return c.Bill(s, userID)
	case *domain.Bill:
		return c.Bill(*s, userID)
	case domain.ManualJournal:
		return c.ManualJournal(s, userID)
	case *domain.ManualJournal:
		return c.ManualJournal(*s, userID)
	default:
		return fmt.Errorf("unsupported journal source %T", source)
	}
}

func (c *Commands) entry(accountID int64) (domain.JournalEntry, error) {
	normal, ok := c.accounts.Normal(accountID)
	if !ok {
		return domain.JournalEntry{}, fmt.Errorf("%w: %d", ErrUnknownAccount, accountID)
	}
	return domain.JournalEntry{AccountID: accountID, AccountNormal: normal}, nil
}

// Expense credits the payment account with the total and debits each
// category's expense account.
func (c *Commands) Expense(expense domain.Expense, userID string) error {
	mixin := func(e domain.JournalEntry) domain.JournalEntry {
		e.ReferenceType = domain.ReferenceExpense
		e.ReferenceID = expense.ID
		e.Date = expense.PaymentDate
		e.TransactionNumber = strconv.FormatInt(expense.ID, 10)
		e.ReferenceNumber = expense.ReferenceNo
		e.UserID = userID
		return e
	}

	payment, err := c.entry(expense.PaymentAccountID)
	if err != nil {
		return err
	}
	payment = mixin(payment)
	payment.ContactID = expense.PayeeID
	if expense.PayeeID != nil {
		payment.ContactType = domain.ContactVendor
	}
	payment.Note = expense.Description
	payment.Index = 1
	if err := c.poster.Credit(payment, expense.TotalAmount); err != nil {
		return err
	}

	for i, category := range expense.Categories {
		leg, err := c.entry(category.ExpenseAccountID)
		if err != nil {
			return err
		}
		leg = mixin(leg)
		leg.Note = category.Description
		leg.Index = i + 2
		if err := c.poster.Debit(leg, category.Amount); err != nil {
			return err
		}
	}
	return nil
}

// Bill credits accounts payable with the bill amount against the vendor and
// debits each entry's cost account.
func (c *Commands) Bill(bill domain.Bill, userID string) error {
	mixin := func(e domain.JournalEntry) domain.JournalEntry {
		e.ReferenceType = domain.ReferenceBill
		e.ReferenceID = bill.ID
		e.Date = bill.BillDate
		e.TransactionNumber = bill.BillNumber
		e.ReferenceNumber = bill.ReferenceNo
		e.UserID = userID
		return e
	}

	payable, err := c.entry(bill.PayableAccountID)
	if err != nil {
		return err
	}
	payable = mixin(payable)
	vendorID := bill.VendorID
	payable.ContactID = &vendorID
	payable.ContactType = domain.ContactVendor
	payable.Note = bill.Note
	payable.Index = 1
	if err := c.poster.Credit(payable, bill.Amount()); err != nil {
		return err
	}

	for i, item := range bill.Entries {
		leg, err := c.entry(item.CostAccountID)
		if err != nil {
			return err
		}
		leg = mixin(leg)
		leg.Note = item.Description
		leg.Index = i + 2
		if err := c.poster.Debit(leg, item.Amount()); err != nil {
			return err
		}
	}
	return nil
}

// ManualJournal records each journal line as its own leg.
func (c *Commands) ManualJournal(journal domain.ManualJournal, userID string) error {
	for i, line := range journal.Entries {
		leg, err := c.entry(line.AccountID)
		if err != nil {
			return err
		}
		leg.ReferenceType = domain.ReferenceManualJournal
		leg.ReferenceID = journal.ID
		leg.Date = journal.Date
		leg.TransactionNumber = journal.JournalNumber
		leg.ReferenceNumber = journal.Reference
		leg.ContactID = line.ContactID
		leg.Note = line.Note
		leg.Index = i + 1
		leg.UserID = userID
		leg.Credit = line.Credit
		leg.Debit = line.Debit
		if err := c.poster.Record(leg); err != nil {
			return err
		}
	}
	return nil
}

// RevertJournalEntries marks every stored entry of the given documents for
// deletion, accumulating the negating balance deltas.
func (c *Commands) RevertJournalEntries(ctx context.Context, referenceIDs []int64, referenceType domain.ReferenceType) error {
	return c.poster.RevertReference(ctx, referenceType, referenceIDs)
}
