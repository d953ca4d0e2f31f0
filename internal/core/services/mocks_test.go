package services_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/spinzar/bigcapital/internal/core/domain"
	portsrepo "github.com/spinzar/bigcapital/internal/core/ports/repositories"
)

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []int64) (domain.AccountSet, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.AccountSet), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) EnsureAccounts(ctx context.Context, accounts []domain.Account) (int, error) {
	args := m.Called(ctx, accounts)
	return args.Int(0), args.Error(1)
}

// --- Mock ContactRepository ---

type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) FindContactByID(ctx context.Context, contactID int64) (*domain.Contact, error) {
	args := m.Called(ctx, contactID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *MockContactRepository) FindContactsByIDs(ctx context.Context, contactIDs []int64) (map[int64]domain.Contact, error) {
	args := m.Called(ctx, contactIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]domain.Contact), args.Error(1)
}

// --- Mock ExpenseRepository ---

type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindExpenseByID(ctx context.Context, expenseID int64) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindExpensesByIDs(ctx context.Context, expenseIDs []int64) (domain.ExpenseBatch, error) {
	args := m.Called(ctx, expenseIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.ExpenseBatch), args.Error(1)
}

func (m *MockExpenseRepository) ListExpenses(ctx context.Context, limit int, nextToken *string) (domain.ExpenseBatch, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).(domain.ExpenseBatch), next, args.Error(2)
}

func (m *MockExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error) {
	args := m.Called(ctx, expense)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) UpdateExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error) {
	args := m.Called(ctx, expense)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) DeleteExpenses(ctx context.Context, expenseIDs []int64) error {
	args := m.Called(ctx, expenseIDs)
	return args.Error(0)
}

func (m *MockExpenseRepository) PublishExpenses(ctx context.Context, expenseIDs []int64, publishedAt time.Time) error {
	args := m.Called(ctx, expenseIDs, publishedAt)
	return args.Error(0)
}

// --- Mock ManualJournalRepository ---

type MockManualJournalRepository struct {
	mock.Mock
}

func (m *MockManualJournalRepository) FindManualJournalByID(ctx context.Context, journalID int64) (*domain.ManualJournal, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ManualJournal), args.Error(1)
}

func (m *MockManualJournalRepository) JournalNumberExists(ctx context.Context, number string, excludeID *int64) (bool, error) {
	args := m.Called(ctx, number, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockManualJournalRepository) SaveManualJournal(ctx context.Context, journal domain.ManualJournal) (*domain.ManualJournal, error) {
	args := m.Called(ctx, journal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ManualJournal), args.Error(1)
}

func (m *MockManualJournalRepository) UpdateManualJournal(ctx context.Context, journal domain.ManualJournal) (*domain.ManualJournal, error) {
	args := m.Called(ctx, journal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ManualJournal), args.Error(1)
}

func (m *MockManualJournalRepository) DeleteManualJournal(ctx context.Context, journalID int64) error {
	args := m.Called(ctx, journalID)
	return args.Error(0)
}

func (m *MockManualJournalRepository) PublishManualJournal(ctx context.Context, journalID int64, publishedAt time.Time) error {
	args := m.Called(ctx, journalID, publishedAt)
	return args.Error(0)
}

// --- Mock JournalWriter ---

type MockJournalWriter struct {
	mock.Mock
}

func (m *MockJournalWriter) WriteJournalEntries(ctx context.Context, sources []domain.JournalSource, userID string, override bool) error {
	args := m.Called(ctx, sources, userID, override)
	return args.Error(0)
}

func (m *MockJournalWriter) RevertJournalEntries(ctx context.Context, referenceType domain.ReferenceType, referenceIDs []int64) error {
	args := m.Called(ctx, referenceType, referenceIDs)
	return args.Error(0)
}

// --- Mock ExpenseJournal ---

type MockExpenseJournal struct {
	mock.Mock
}

func (m *MockExpenseJournal) WriteJournalEntries(ctx context.Context, batch domain.ExpenseBatch, userID string, override bool) error {
	args := m.Called(ctx, batch, userID, override)
	return args.Error(0)
}

func (m *MockExpenseJournal) RevertJournalEntries(ctx context.Context, expenseIDs []int64) error {
	args := m.Called(ctx, expenseIDs)
	return args.Error(0)
}

// --- Mock EventPublisher ---

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// --- Mock LedgerReader ---

type MockLedgerReader struct {
	mock.Mock
}

func (m *MockLedgerReader) ListLedgerTransactions(ctx context.Context, filter domain.LedgerFilter) ([]domain.LedgerTransaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerTransaction), args.Error(1)
}

// memoryLedger is an in-memory LedgerRepositoryWithTx. WithinTx works on a
// copy and only keeps it when fn succeeds.
type memoryLedger struct {
	mu       sync.Mutex
	entries  map[int64]domain.JournalEntry
	balances map[int64]decimal.Decimal
	nextID   int64
	failNext error
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{
		entries:  map[int64]domain.JournalEntry{},
		balances: map[int64]decimal.Decimal{},
	}
}

var _ portsrepo.LedgerRepositoryWithTx = (*memoryLedger)(nil)

func (l *memoryLedger) clone() *memoryLedger {
	c := newMemoryLedger()
	for id, e := range l.entries {
		c.entries[id] = e
	}
	for id, b := range l.balances {
		c.balances[id] = b
	}
	c.nextID = l.nextID
	return c
}

func (l *memoryLedger) WithinTx(ctx context.Context, fn func(ctx context.Context, repo portsrepo.LedgerStore) error) error {
	l.mu.Lock()
	tx := l.clone()
	l.mu.Unlock()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if l.failNext != nil {
		err := l.failNext
		l.failNext = nil
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries, l.balances, l.nextID = tx.entries, tx.balances, tx.nextID
	return nil
}

func (l *memoryLedger) FindEntriesByReference(_ context.Context, referenceType domain.ReferenceType, referenceIDs []int64) ([]domain.JournalEntry, error) {
	wanted := map[int64]bool{}
	for _, id := range referenceIDs {
		wanted[id] = true
	}
	var out []domain.JournalEntry
	for _, e := range l.entries {
		if e.ReferenceType == referenceType && wanted[e.ReferenceID] {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (l *memoryLedger) InsertEntries(_ context.Context, entries []domain.JournalEntry) error {
	for _, e := range entries {
		l.nextID++
		e.ID = l.nextID
		l.entries[e.ID] = e
	}
	return nil
}

func (l *memoryLedger) DeleteEntries(_ context.Context, entryIDs []int64) error {
	for _, id := range entryIDs {
		delete(l.entries, id)
	}
	return nil
}

func (l *memoryLedger) ApplyBalanceChanges(_ context.Context, changes map[int64]decimal.Decimal) error {
	for id, d := range changes {
		l.balances[id] = l.balances[id].Add(d)
	}
	return nil
}

func (l *memoryLedger) ListLedgerTransactions(_ context.Context, filter domain.LedgerFilter) ([]domain.LedgerTransaction, error) {
	var out []domain.LedgerTransaction
	for _, e := range l.entries {
		out = append(out, e.LedgerTransaction())
	}
	return out, nil
}

func (l *memoryLedger) balance(accountID int64) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[accountID]
}

func (l *memoryLedger) storedFor(referenceType domain.ReferenceType, referenceID int64) []domain.JournalEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	entries, _ := l.FindEntriesByReference(context.Background(), referenceType, []int64{referenceID})
	return entries
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func int64Ptr(v int64) *int64 { return &v }

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// testChart is a small chart of accounts shared by the service tests.
var testChart = []domain.Account{
	{ID: 1, Code: "10001", Name: "Bank", AccountType: domain.AccountTypeBank, IsActive: true},
	{ID: 2, Code: "50003", Name: "Rent", AccountType: domain.AccountTypeExpense, IsActive: true},
	{ID: 3, Code: "50002", Name: "Office", AccountType: domain.AccountTypeOtherExpense, IsActive: true},
	{ID: 4, Code: "20001", Name: "Accounts Payable", AccountType: domain.AccountTypeAccountsPayable, IsActive: true},
	{ID: 5, Code: "30001", Name: "Equity", AccountType: domain.AccountTypeEquity, IsActive: true},
	{ID: 6, Code: "10006", Name: "Equipment", AccountType: domain.AccountTypeFixedAsset, IsActive: true},
}

func chartAccount(id int64) *domain.Account {
	for _, a := range testChart {
		if a.ID == id {
			acc := a
			return &acc
		}
	}
	return nil
}

func chartSet(ids ...int64) domain.AccountSet {
	var accounts []domain.Account
	for _, id := range ids {
		if a := chartAccount(id); a != nil {
			accounts = append(accounts, *a)
		}
	}
	return domain.NewAccountSet(accounts)
}
