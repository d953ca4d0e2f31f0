package domain

// Event is a domain event published through an EventPublisher.
type Event interface {
	EventName() string
}

const (
	EventExpenseCreated        = "expense.created"
	EventExpenseEdited         = "expense.edited"
	EventExpensePublished      = "expense.published"
	EventExpenseDeleted        = "expense.deleted"
	EventExpensesBulkDeleted   = "expenses.bulk_deleted"
	EventExpensesBulkPublished = "expenses.bulk_published"

	EventManualJournalCreated   = "manual_journal.created"
	EventManualJournalEdited    = "manual_journal.edited"
	EventManualJournalPublished = "manual_journal.published"
	EventManualJournalDeleted   = "manual_journal.deleted"
)

type ExpenseCreated struct {
	Expense Expense `json:"expense"`
	UserID  string  `json:"userId"`
}

func (ExpenseCreated) EventName() string { return EventExpenseCreated }

type ExpenseEdited struct {
	Expense    Expense `json:"expense"`
	OldExpense Expense `json:"oldExpense"`
	UserID     string  `json:"userId"`
}

func (ExpenseEdited) EventName() string { return EventExpenseEdited }

type ExpensePublished struct {
	Expense    Expense `json:"expense"`
	OldExpense Expense `json:"oldExpense"`
	UserID     string  `json:"userId"`
}

func (ExpensePublished) EventName() string { return EventExpensePublished }

type ExpenseDeleted struct {
	OldExpense Expense `json:"oldExpense"`
	UserID     string  `json:"userId"`
}

func (ExpenseDeleted) EventName() string { return EventExpenseDeleted }

type ExpensesBulkDeleted struct {
	OldExpenses ExpenseBatch `json:"oldExpenses"`
	UserID      string       `json:"userId"`
}

func (ExpensesBulkDeleted) EventName() string { return EventExpensesBulkDeleted }

type ExpensesBulkPublished struct {
	Expenses    ExpenseBatch `json:"expenses"`
	OldExpenses ExpenseBatch `json:"oldExpenses"`
	UserID      string       `json:"userId"`
}

func (ExpensesBulkPublished) EventName() string { return EventExpensesBulkPublished }

type ManualJournalCreated struct {
	ManualJournal ManualJournal `json:"manualJournal"`
	UserID        string        `json:"userId"`
}

func (ManualJournalCreated) EventName() string { return EventManualJournalCreated }

type ManualJournalEdited struct {
	ManualJournal    ManualJournal `json:"manualJournal"`
	OldManualJournal ManualJournal `json:"oldManualJournal"`
	UserID           string        `json:"userId"`
}

func (ManualJournalEdited) EventName() string { return EventManualJournalEdited }

type ManualJournalPublished struct {
	ManualJournal ManualJournal `json:"manualJournal"`
	UserID        string        `json:"userId"`
}

func (ManualJournalPublished) EventName() string { return EventManualJournalPublished }

type ManualJournalDeleted struct {
	OldManualJournal ManualJournal `json:"oldManualJournal"`
	UserID           string        `json:"userId"`
}

func (ManualJournalDeleted) EventName() string { return EventManualJournalDeleted }
