package services

import (
	"context"
	"fmt"

	"github.com/spinzar/bigcapital/internal/core/domain"
	portssvc "github.com/spinzar/bigcapital/internal/core/ports/services"
)

// ExpenseJournalSubscriber keeps the ledger in step with expense events.
type ExpenseJournalSubscriber struct {
	expenses portssvc.ExpenseJournalSvc
}

// NewExpenseJournalSubscriber creates a subscriber writing through expenses.
func NewExpenseJournalSubscriber(expenses portssvc.ExpenseJournalSvc) *ExpenseJournalSubscriber {
	return &ExpenseJournalSubscriber{expenses: expenses}
}

// Register subscribes the handlers to every expense event.
func (s *ExpenseJournalSubscriber) Register(bus portssvc.EventSubscriber) {
	bus.Subscribe(domain.EventExpenseCreated, s.onCreated)
	bus.Subscribe(domain.EventExpenseEdited, s.onEdited)
	bus.Subscribe(domain.EventExpensePublished, s.onPublished)
	bus.Subscribe(domain.EventExpenseDeleted, s.onDeleted)
	bus.Subscribe(domain.EventExpensesBulkDeleted, s.onBulkDeleted)
	bus.Subscribe(domain.EventExpensesBulkPublished, s.onBulkPublished)
}

func unexpectedEvent(event domain.Event) error {
	return fmt.Errorf("unexpected event payload %T for %s", event, event.EventName())
}

func (s *ExpenseJournalSubscriber) onCreated(ctx context.Context, event domain.Event) error {
	e, ok := event.(domain.ExpenseCreated)
	if !ok {
		return unexpectedEvent(event)
	}
	if !e.Expense.IsPublished() {
		return nil
	}
	return s.expenses.WriteJournalEntries(ctx, domain.ExpenseBatch{e.Expense}, e.UserID, false)
}

// onEdited rewrites the entries of a published expense, or drops them when
// the expense no longer is published.
func (s *ExpenseJournalSubscriber) onEdited(ctx context.Context, event domain.Event) error {
	e, ok := event.(domain.ExpenseEdited)
	if !ok {
		return unexpectedEvent(event)
	}
	switch {
	case e.Expense.IsPublished():
		return s.expenses.WriteJournalEntries(ctx, domain.ExpenseBatch{e.Expense}, e.UserID, true)
	case e.OldExpense.IsPublished():
		return s.expenses.RevertJournalEntries(ctx, []int64{e.OldExpense.ID})
	}
	return nil
}

func (s *ExpenseJournalSubscriber) onPublished(ctx context.Context, event domain.Event) error {
	e, ok := event.(domain.ExpensePublished)
	if !ok {
		return unexpectedEvent(event)
	}
	return s.expenses.WriteJournalEntries(ctx, domain.ExpenseBatch{e.Expense}, e.UserID, false)
}

func (s *ExpenseJournalSubscriber) onDeleted(ctx context.Context, event domain.Event) error {
	e, ok := event.(domain.ExpenseDeleted)
	if !ok {
		return unexpectedEvent(event)
	}
	if !e.OldExpense.IsPublished() {
		return nil
	}
	return s.expenses.RevertJournalEntries(ctx, []int64{e.OldExpense.ID})
}

func (s *ExpenseJournalSubscriber) onBulkDeleted(ctx context.Context, event domain.Event) error {
	e, ok := event.(domain.ExpensesBulkDeleted)
	if !ok {
		return unexpectedEvent(event)
	}
	published := e.OldExpenses.Published()
	if len(published) == 0 {
		return nil
	}
	return s.expenses.RevertJournalEntries(ctx, published.IDs())
}

// onBulkPublished posts only the expenses this publish call changed.
func (s *ExpenseJournalSubscriber) onBulkPublished(ctx context.Context, event domain.Event) error {
	e, ok := event.(domain.ExpensesBulkPublished)
	if !ok {
		return unexpectedEvent(event)
	}
	wasPublished := make(map[int64]bool, len(e.OldExpenses))
	for _, old := range e.OldExpenses {
		wasPublished[old.ID] = old.IsPublished()
	}
	var batch domain.ExpenseBatch
	for _, exp := range e.Expenses.Published() {
		if !wasPublished[exp.ID] {
			batch = append(batch, exp)
		}
	}
	if len(batch) == 0 {
		return nil
	}
	return s.expenses.WriteJournalEntries(ctx, batch, e.UserID, false)
}
