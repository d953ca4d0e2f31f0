package handlers_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/spinzar/bigcapital/internal/core/domain"
	"github.com/spinzar/bigcapital/internal/core/services"
	"github.com/spinzar/bigcapital/internal/dto"
)

type ExpenseHandlerTestSuite struct {
	handlerSuite
}

func validExpenseBody() gin.H {
	return gin.H{
		"paymentAccountId": 1,
		"paymentDate":      "2024-03-01",
		"categories": []gin.H{
			{"expenseAccountId": 2, "amount": "30"},
			{"expenseAccountId": 3, "amount": "20"},
		},
	}
}

func (suite *ExpenseHandlerTestSuite) TestNewExpense_Success() {
	suite.expenses.On("NewExpense", mock.Anything,
		mock.MatchedBy(func(req dto.ExpenseRequest) bool {
			return req.PaymentAccountID == 1 && len(req.Categories) == 2 && req.Categories[0].Amount.Equal(decimal.NewFromInt(30))
		}),
		suite.userID,
	).Return(&domain.Expense{ID: 42, TotalAmount: decimal.NewFromInt(50)}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/expenses", validExpenseBody())

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	var got domain.Expense
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal(int64(42), got.ID)
	suite.expenses.AssertExpectations(suite.T())
}

func (suite *ExpenseHandlerTestSuite) TestNewExpense_InvalidBody() {
	tests := []struct {
		name   string
		mutate func(gin.H)
	}{
		{"missing categories", func(b gin.H) { delete(b, "categories") }},
		{"bad date", func(b gin.H) { b["paymentDate"] = "03/01/2024" }},
		{"negative amount", func(b gin.H) {
			b["categories"] = []gin.H{{"expenseAccountId": 2, "amount": "-5"}}
		}},
		{"missing payment account", func(b gin.H) { delete(b, "paymentAccountId") }},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			body := validExpenseBody()
			tt.mutate(body)

			w := suite.do(http.MethodPost, "/api/v1/expenses", body)

			suite.Equal(http.StatusBadRequest, w.Code)
			suite.Equal("validation_error", suite.errorBody(w).Type)
		})
	}
	suite.expenses.AssertNotCalled(suite.T(), "NewExpense", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExpenseHandlerTestSuite) TestNewExpense_ServiceErrors() {
	tests := []struct {
		err     error
		status  int
		errType string
		code    int
	}{
		{fmt.Errorf("%w: 9", services.ErrPaymentAccountNotFound), http.StatusBadRequest, "payment_account_not_found", 300},
		{services.ErrTotalAmountEqualsZero, http.StatusBadRequest, "total_amount_equals_zero", 500},
		{services.ErrExpenseAccountsInvalidType, http.StatusBadRequest, "expenses_account_has_invalid_type", 700},
		{services.ErrCategoriesTotalMismatch, http.StatusBadRequest, "categories_total_not_equal_total", 900},
	}
	for _, tt := range tests {
		suite.Run(tt.errType, func() {
			suite.SetupTest()
			suite.expenses.On("NewExpense", mock.Anything, mock.Anything, suite.userID).Return(nil, tt.err).Once()

			w := suite.do(http.MethodPost, "/api/v1/expenses", validExpenseBody())

			suite.Equal(tt.status, w.Code)
			item := suite.errorBody(w)
			suite.Equal(tt.errType, item.Type)
			suite.Equal(tt.code, item.Code)
		})
	}
}

func (suite *ExpenseHandlerTestSuite) TestNewExpense_InternalError() {
	suite.expenses.On("NewExpense", mock.Anything, mock.Anything, suite.userID).
		Return(nil, errors.New("connection reset")).Once()

	w := suite.do(http.MethodPost, "/api/v1/expenses", validExpenseBody())

	suite.Equal(http.StatusInternalServerError, w.Code)
	item := suite.errorBody(w)
	suite.Equal("internal_error", item.Type)
	suite.NotContains(item.Message, "connection reset")
}

func (suite *ExpenseHandlerTestSuite) TestEditExpense_PassesPathID() {
	suite.expenses.On("EditExpense", mock.Anything, int64(7), mock.Anything, suite.userID).
		Return(&domain.Expense{ID: 7}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/expenses/7", validExpenseBody())

	suite.Equal(http.StatusOK, w.Code)
	suite.expenses.AssertExpectations(suite.T())
}

func (suite *ExpenseHandlerTestSuite) TestGetExpense_NotFound() {
	suite.expenses.On("GetExpense", mock.Anything, int64(7)).Return(nil, services.ErrExpenseNotFound).Once()

	w := suite.do(http.MethodGet, "/api/v1/expenses/7", nil)

	suite.Equal(http.StatusNotFound, w.Code)
	item := suite.errorBody(w)
	suite.Equal("expense_not_found", item.Type)
	suite.Equal(100, item.Code)
}

func (suite *ExpenseHandlerTestSuite) TestGetExpense_InvalidID() {
	w := suite.do(http.MethodGet, "/api/v1/expenses/abc", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.expenses.AssertNotCalled(suite.T(), "GetExpense", mock.Anything, mock.Anything)
}

func (suite *ExpenseHandlerTestSuite) TestPublishExpense_AlreadyPublished() {
	suite.expenses.On("PublishExpense", mock.Anything, int64(7), suite.userID).
		Return(services.ErrExpenseAlreadyPublished).Once()

	w := suite.do(http.MethodPost, "/api/v1/expenses/7/publish", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("expense_already_published", suite.errorBody(w).Type)
}

func (suite *ExpenseHandlerTestSuite) TestDeleteExpense() {
	suite.expenses.On("DeleteExpense", mock.Anything, int64(7), suite.userID).Return(nil).Once()

	w := suite.do(http.MethodDelete, "/api/v1/expenses/7", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.expenses.AssertExpectations(suite.T())
}

func (suite *ExpenseHandlerTestSuite) TestBulkDeleteExpenses() {
	suite.expenses.On("DeleteBulkExpenses", mock.Anything, []int64{1, 2}, suite.userID).Return(nil).Once()

	w := suite.do(http.MethodDelete, "/api/v1/expenses?ids=1&ids=2", nil)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	suite.expenses.AssertExpectations(suite.T())
}

func (suite *ExpenseHandlerTestSuite) TestBulkDeleteExpenses_SomeMissing() {
	suite.expenses.On("DeleteBulkExpenses", mock.Anything, []int64{1, 99}, suite.userID).
		Return(fmt.Errorf("%w: [99]", services.ErrExpensesNotFound)).Once()

	w := suite.do(http.MethodDelete, "/api/v1/expenses?ids=1&ids=99", nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("EXPENSES_NOT_FOUND", suite.errorBody(w).Type)
}

func (suite *ExpenseHandlerTestSuite) TestBulkPublishExpenses() {
	meta := &dto.BulkPublishMeta{AlreadyPublished: 1, Published: 2, Total: 3}
	suite.expenses.On("PublishBulkExpenses", mock.Anything, []int64{1, 2, 3}, suite.userID).Return(meta, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/expenses/publish", gin.H{"ids": []int64{1, 2, 3}})

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.PublishExpensesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(*meta, resp.Meta)
	suite.Equal([]int64{1, 2, 3}, resp.IDs)
}

func (suite *ExpenseHandlerTestSuite) TestListExpenses() {
	token := "next"
	suite.expenses.On("ListExpenses", mock.Anything, mock.MatchedBy(func(p dto.ListExpensesParams) bool {
		return p.Limit == 10
	})).Return(&dto.ListExpensesResponse{Expenses: []domain.Expense{{ID: 1}, {ID: 2}}, NextToken: &token}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/expenses?limit=10", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListExpensesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Expenses, 2)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("next", *resp.NextToken)
}

func (suite *ExpenseHandlerTestSuite) TestListExpenses_LimitOutOfRange() {
	w := suite.do(http.MethodGet, "/api/v1/expenses?limit=1000", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.expenses.AssertNotCalled(suite.T(), "ListExpenses", mock.Anything, mock.Anything)
}

func (suite *ExpenseHandlerTestSuite) TestRequiresToken() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/expenses", nil)
	w := httptest.NewRecorder()

	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *ExpenseHandlerTestSuite) TestHealthIsPublic() {
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func TestExpenseHandler(t *testing.T) {
	suite.Run(t, new(ExpenseHandlerTestSuite))
}
