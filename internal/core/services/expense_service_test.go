package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/spinzar/bigcapital/internal/apperrors"
	"github.com/spinzar/bigcapital/internal/core/domain"
	portssvc "github.com/spinzar/bigcapital/internal/core/ports/services"
	"github.com/spinzar/bigcapital/internal/core/services"
	"github.com/spinzar/bigcapital/internal/dto"
)

type ExpenseServiceTestSuite struct {
	suite.Suite
	expenseRepo *MockExpenseRepository
	accountRepo *MockAccountRepository
	contactRepo *MockContactRepository
	journal     *MockJournalWriter
	publisher   *MockEventPublisher
	service     portssvc.ExpenseSvcFacade
	ctx         context.Context
	now         time.Time
}

func (suite *ExpenseServiceTestSuite) SetupTest() {
	suite.expenseRepo = new(MockExpenseRepository)
	suite.accountRepo = new(MockAccountRepository)
	suite.contactRepo = new(MockContactRepository)
	suite.journal = new(MockJournalWriter)
	suite.publisher = new(MockEventPublisher)
	suite.ctx = context.Background()
	suite.now = time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	suite.service = services.NewExpenseService(
		suite.expenseRepo,
		suite.accountRepo,
		suite.contactRepo,
		suite.journal,
		services.WithExpenseEventPublisher(suite.publisher),
		services.WithExpenseBaseCurrency("EUR"),
		services.WithExpenseClock(func() time.Time { return suite.now }),
	)
}

func validExpenseRequest() dto.ExpenseRequest {
	return dto.ExpenseRequest{
		PaymentAccountID: 1,
		PaymentDate:      "2024-03-01",
		ReferenceNo:      "R-1",
		Categories: []dto.ExpenseCategoryRequest{
			{ExpenseAccountID: 2, Amount: dec("30")},
			{ExpenseAccountID: 3, Amount: dec("20")},
		},
	}
}

func (suite *ExpenseServiceTestSuite) expectValidAccounts() {
	suite.accountRepo.On("FindAccountByID", suite.ctx, int64(1)).Return(chartAccount(1), nil)
	suite.accountRepo.On("FindAccountsByIDs", suite.ctx, []int64{2, 3}).Return(chartSet(2, 3), nil)
}

func (suite *ExpenseServiceTestSuite) TestNewExpense_Success() {
	req := validExpenseRequest()
	req.Publish = true
	suite.expectValidAccounts()

	var saved domain.Expense
	suite.expenseRepo.On("SaveExpense", suite.ctx, mock.AnythingOfType("domain.Expense")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.Expense)
		}).
		Return(&domain.Expense{ID: 42}, nil).Once()
	suite.publisher.On("Publish", suite.ctx, mock.AnythingOfType("domain.ExpenseCreated")).Return(nil).Once()

	expense, err := suite.service.NewExpense(suite.ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.Equal(int64(42), expense.ID)
	suite.True(saved.TotalAmount.Equal(dec("50")))
	suite.Equal("EUR", saved.CurrencyCode)
	suite.Equal("user-1", saved.UserID)
	suite.Equal("user-1", saved.CreatedBy)
	suite.Require().NotNil(saved.PublishedAt)
	suite.Equal(suite.now, *saved.PublishedAt)
	suite.Equal([]int{1, 2}, []int{saved.Categories[0].Index, saved.Categories[1].Index})
	suite.expenseRepo.AssertExpectations(suite.T())
	suite.publisher.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestNewExpense_ValidationErrors() {
	tests := []struct {
		name   string
		mutate func(*dto.ExpenseRequest)
		setup  func()
		want   error
	}{
		{
			name: "payment account not found",
			setup: func() {
				suite.accountRepo.On("FindAccountByID", suite.ctx, int64(1)).Return(nil, apperrors.ErrNotFound)
			},
			want: services.ErrPaymentAccountNotFound,
		},
		{
			name: "expense accounts not found",
			setup: func() {
				suite.accountRepo.On("FindAccountByID", suite.ctx, int64(1)).Return(chartAccount(1), nil)
				suite.accountRepo.On("FindAccountsByIDs", suite.ctx, []int64{2, 3}).Return(chartSet(2), nil)
			},
			want: services.ErrExpenseAccountsNotFound,
		},
		{
			name:   "payment account not a current asset",
			mutate: func(r *dto.ExpenseRequest) { r.PaymentAccountID = 6 },
			setup: func() {
				suite.accountRepo.On("FindAccountByID", suite.ctx, int64(6)).Return(chartAccount(6), nil)
				suite.accountRepo.On("FindAccountsByIDs", suite.ctx, []int64{2, 3}).Return(chartSet(2, 3), nil)
			},
			want: services.ErrPaymentAccountInvalidType,
		},
		{
			name:   "category account not an expense",
			mutate: func(r *dto.ExpenseRequest) { r.Categories[1].ExpenseAccountID = 5 },
			setup: func() {
				suite.accountRepo.On("FindAccountByID", suite.ctx, int64(1)).Return(chartAccount(1), nil)
				suite.accountRepo.On("FindAccountsByIDs", suite.ctx, []int64{2, 5}).Return(chartSet(2, 5), nil)
			},
			want: services.ErrExpenseAccountsInvalidType,
		},
		{
			name:   "payee not found",
			mutate: func(r *dto.ExpenseRequest) { r.PayeeID = int64Ptr(77) },
			setup: func() {
				suite.expectValidAccounts()
				suite.contactRepo.On("FindContactByID", suite.ctx, int64(77)).Return(nil, apperrors.ErrNotFound)
			},
			want: services.ErrContactNotFound,
		},
		{
			name: "zero total",
			mutate: func(r *dto.ExpenseRequest) {
				r.Categories[0].Amount = dec("0")
				r.Categories[1].Amount = dec("0")
			},
			setup: suite.expectValidAccounts,
			want:  services.ErrTotalAmountEqualsZero,
		},
		{
			name: "total differs from categories",
			mutate: func(r *dto.ExpenseRequest) {
				total := dec("49.99")
				r.TotalAmount = &total
			},
			setup: suite.expectValidAccounts,
			want:  services.ErrCategoriesTotalMismatch,
		},
		{
			name:   "bad date",
			mutate: func(r *dto.ExpenseRequest) { r.PaymentDate = "01/03/2024" },
			setup:  func() {},
			want:   apperrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.SetupTest()
			req := validExpenseRequest()
			if tt.mutate != nil {
				tt.mutate(&req)
			}
			tt.setup()

			expense, err := suite.service.NewExpense(suite.ctx, req, "user-1")

			suite.Nil(expense)
			suite.ErrorIs(err, tt.want)
			suite.expenseRepo.AssertNotCalled(suite.T(), "SaveExpense", mock.Anything, mock.Anything)
			suite.publisher.AssertNotCalled(suite.T(), "Publish", mock.Anything, mock.Anything)
		})
	}
}

func (suite *ExpenseServiceTestSuite) TestNewExpense_MatchingTotalAccepted() {
	req := validExpenseRequest()
	total := dec("50.00")
	req.TotalAmount = &total
	suite.expectValidAccounts()
	suite.expenseRepo.On("SaveExpense", suite.ctx, mock.AnythingOfType("domain.Expense")).
		Return(&domain.Expense{ID: 1}, nil).Once()
	suite.publisher.On("Publish", suite.ctx, mock.Anything).Return(nil).Once()

	_, err := suite.service.NewExpense(suite.ctx, req, "user-1")

	suite.NoError(err)
}

func (suite *ExpenseServiceTestSuite) TestNewExpense_PublishFailureSurfaces() {
	suite.expectValidAccounts()
	suite.expenseRepo.On("SaveExpense", suite.ctx, mock.Anything).Return(&domain.Expense{ID: 1}, nil)
	suite.publisher.On("Publish", suite.ctx, mock.Anything).Return(errors.New("journal failed"))

	_, err := suite.service.NewExpense(suite.ctx, validExpenseRequest(), "user-1")

	suite.ErrorContains(err, "journal failed")
}

func (suite *ExpenseServiceTestSuite) TestEditExpense_KeepsPublishedAtAndAudit() {
	published := suite.now.Add(-48 * time.Hour)
	old := &domain.Expense{
		ID:          9,
		UserID:      "owner",
		PublishedAt: &published,
		AuditFields: domain.AuditFields{CreatedAt: published, CreatedBy: "owner"},
	}
	suite.expenseRepo.On("FindExpenseByID", suite.ctx, int64(9)).Return(old, nil)
	suite.expectValidAccounts()
	suite.expenseRepo.On("UpdateExpense", suite.ctx, mock.MatchedBy(func(e domain.Expense) bool {
		return e.ID == 9 && e.PublishedAt != nil && e.PublishedAt.Equal(published) &&
			e.CreatedBy == "owner" && e.UpdatedAt != nil && e.UpdatedAt.Equal(suite.now)
	})).Return(&domain.Expense{ID: 9, PublishedAt: &published}, nil).Once()
	suite.publisher.On("Publish", suite.ctx, mock.MatchedBy(func(e domain.Event) bool {
		edited, ok := e.(domain.ExpenseEdited)
		return ok && edited.OldExpense.ID == 9 && edited.Expense.IsPublished() && edited.UserID == "editor"
	})).Return(nil).Once()

	_, err := suite.service.EditExpense(suite.ctx, 9, validExpenseRequest(), "editor")

	suite.Require().NoError(err)
	suite.expenseRepo.AssertExpectations(suite.T())
	suite.publisher.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestEditExpense_NotFound() {
	suite.expenseRepo.On("FindExpenseByID", suite.ctx, int64(9)).Return(nil, apperrors.ErrNotFound)

	_, err := suite.service.EditExpense(suite.ctx, 9, validExpenseRequest(), "editor")

	suite.ErrorIs(err, services.ErrExpenseNotFound)
}

func (suite *ExpenseServiceTestSuite) TestPublishExpense() {
	draft := &domain.Expense{ID: 3}
	publishedAt := suite.now
	after := &domain.Expense{ID: 3, PublishedAt: &publishedAt}
	suite.expenseRepo.On("FindExpenseByID", suite.ctx, int64(3)).Return(draft, nil).Once()
	suite.expenseRepo.On("PublishExpenses", suite.ctx, []int64{3}, suite.now).Return(nil).Once()
	suite.expenseRepo.On("FindExpenseByID", suite.ctx, int64(3)).Return(after, nil).Once()
	suite.publisher.On("Publish", suite.ctx, domain.ExpensePublished{Expense: *after, OldExpense: *draft, UserID: "u"}).Return(nil).Once()

	suite.Require().NoError(suite.service.PublishExpense(suite.ctx, 3, "u"))
	suite.expenseRepo.AssertExpectations(suite.T())
	suite.publisher.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestPublishExpense_AlreadyPublished() {
	at := suite.now
	suite.expenseRepo.On("FindExpenseByID", suite.ctx, int64(3)).Return(&domain.Expense{ID: 3, PublishedAt: &at}, nil)

	err := suite.service.PublishExpense(suite.ctx, 3, "u")

	suite.ErrorIs(err, services.ErrExpenseAlreadyPublished)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *ExpenseServiceTestSuite) TestDeleteExpense() {
	old := &domain.Expense{ID: 4}
	suite.expenseRepo.On("FindExpenseByID", suite.ctx, int64(4)).Return(old, nil)
	suite.expenseRepo.On("DeleteExpenses", suite.ctx, []int64{4}).Return(nil).Once()
	suite.publisher.On("Publish", suite.ctx, domain.ExpenseDeleted{OldExpense: *old, UserID: "u"}).Return(nil).Once()

	suite.Require().NoError(suite.service.DeleteExpense(suite.ctx, 4, "u"))
	suite.publisher.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestDeleteBulkExpenses_SomeMissing() {
	suite.expenseRepo.On("FindExpensesByIDs", suite.ctx, []int64{1, 2}).Return(domain.ExpenseBatch{{ID: 1}}, nil)

	err := suite.service.DeleteBulkExpenses(suite.ctx, []int64{1, 2, 2}, "u")

	suite.ErrorIs(err, services.ErrExpensesNotFound)
	suite.expenseRepo.AssertNotCalled(suite.T(), "DeleteExpenses", mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestDeleteBulkExpenses() {
	batch := domain.ExpenseBatch{{ID: 1}, {ID: 2}}
	suite.expenseRepo.On("FindExpensesByIDs", suite.ctx, []int64{1, 2}).Return(batch, nil)
	suite.expenseRepo.On("DeleteExpenses", suite.ctx, []int64{1, 2}).Return(nil).Once()
	suite.publisher.On("Publish", suite.ctx, domain.ExpensesBulkDeleted{OldExpenses: batch, UserID: "u"}).Return(nil).Once()

	suite.Require().NoError(suite.service.DeleteBulkExpenses(suite.ctx, []int64{1, 2}, "u"))
	suite.expenseRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestPublishBulkExpenses_Meta() {
	at := suite.now.Add(-time.Hour)
	old := domain.ExpenseBatch{{ID: 1, PublishedAt: &at}, {ID: 2}, {ID: 3}}
	after := domain.ExpenseBatch{{ID: 1, PublishedAt: &at}, {ID: 2, PublishedAt: &suite.now}, {ID: 3, PublishedAt: &suite.now}}
	suite.expenseRepo.On("FindExpensesByIDs", suite.ctx, []int64{1, 2, 3}).Return(old, nil).Once()
	suite.expenseRepo.On("PublishExpenses", suite.ctx, []int64{2, 3}, suite.now).Return(nil).Once()
	suite.expenseRepo.On("FindExpensesByIDs", suite.ctx, []int64{1, 2, 3}).Return(after, nil).Once()
	suite.publisher.On("Publish", suite.ctx, mock.AnythingOfType("domain.ExpensesBulkPublished")).Return(nil).Once()

	meta, err := suite.service.PublishBulkExpenses(suite.ctx, []int64{1, 2, 3}, "u")

	suite.Require().NoError(err)
	suite.Equal(&dto.BulkPublishMeta{AlreadyPublished: 1, Published: 2, Total: 3}, meta)
	suite.expenseRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestPublishBulkExpenses_AllPublishedSkipsWrite() {
	at := suite.now
	old := domain.ExpenseBatch{{ID: 1, PublishedAt: &at}}
	suite.expenseRepo.On("FindExpensesByIDs", suite.ctx, []int64{1}).Return(old, nil)
	suite.publisher.On("Publish", suite.ctx, mock.Anything).Return(nil)

	meta, err := suite.service.PublishBulkExpenses(suite.ctx, []int64{1}, "u")

	suite.Require().NoError(err)
	suite.Equal(0, meta.Published)
	suite.expenseRepo.AssertNotCalled(suite.T(), "PublishExpenses", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestListExpenses_DefaultLimit() {
	next := "tok"
	suite.expenseRepo.On("ListExpenses", suite.ctx, 20, (*string)(nil)).Return(nil, &next, nil)

	resp, err := suite.service.ListExpenses(suite.ctx, dto.ListExpensesParams{})

	suite.Require().NoError(err)
	suite.NotNil(resp.Expenses)
	suite.Empty(resp.Expenses)
	suite.Equal(&next, resp.NextToken)
}

func (suite *ExpenseServiceTestSuite) TestJournalDelegation() {
	batch := domain.ExpenseBatch{{ID: 1}, {ID: 2}}
	suite.journal.On("WriteJournalEntries", suite.ctx, []domain.JournalSource{batch[0], batch[1]}, "u", true).Return(nil).Once()
	suite.journal.On("RevertJournalEntries", suite.ctx, domain.ReferenceExpense, []int64{1, 2}).Return(nil).Once()

	suite.NoError(suite.service.WriteJournalEntries(suite.ctx, batch, "u", true))
	suite.NoError(suite.service.RevertJournalEntries(suite.ctx, []int64{1, 2}))
	suite.journal.AssertExpectations(suite.T())
}

func TestExpenseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExpenseServiceTestSuite))
}
