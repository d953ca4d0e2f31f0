package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spinzar/bigcapital/internal/apperrors"
	"github.com/spinzar/bigcapital/internal/core/journal"
	"github.com/spinzar/bigcapital/internal/core/services"
	"github.com/spinzar/bigcapital/internal/middleware"
)

// ErrorItem is a single entry of an error response.
type ErrorItem struct {
	Type    string `json:"type"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse is the body returned for every failed request.
type ErrorResponse struct {
	Errors []ErrorItem `json:"errors"`
}

type errorMapping struct {
	err     error
	errType string
	code    int
	status  int
}

// serviceErrors is matched in order with errors.Is.
var serviceErrors = []errorMapping{
	// expenses
	{services.ErrExpenseNotFound, "expense_not_found", 100, http.StatusNotFound},
	{services.ErrExpensesNotFound, "EXPENSES_NOT_FOUND", 200, http.StatusNotFound},
	{services.ErrPaymentAccountNotFound, "payment_account_not_found", 300, http.StatusBadRequest},
	{services.ErrExpenseAccountsNotFound, "some_expenses_not_found", 400, http.StatusBadRequest},
	{services.ErrTotalAmountEqualsZero, "total_amount_equals_zero", 500, http.StatusBadRequest},
	{services.ErrPaymentAccountInvalidType, "payment_account_has_invalid_type", 600, http.StatusBadRequest},
	{services.ErrExpenseAccountsInvalidType, "expenses_account_has_invalid_type", 700, http.StatusBadRequest},
	{services.ErrExpenseAlreadyPublished, "expense_already_published", 800, http.StatusBadRequest},
	{services.ErrCategoriesTotalMismatch, "categories_total_not_equal_total", 900, http.StatusBadRequest},
	{services.ErrContactNotFound, "contact_not_found", 1000, http.StatusBadRequest},

	// manual journals
	{services.ErrManualJournalNotFound, "MANUAL.JOURNAL.NOT.FOUND", 100, http.StatusNotFound},
	{services.ErrCreditDebitEqualZero, "CREDIT.DEBIT.SUMATION.SHOULD.NOT.EQUAL.ZERO", 200, http.StatusBadRequest},
	{services.ErrCreditDebitNotEqual, "CREDIT.DEBIT.NOT.EQUALS", 300, http.StatusBadRequest},
	{services.ErrJournalAccountsNotFound, "ACCOUNTS.IDS.NOT.FOUND", 400, http.StatusBadRequest},
	{services.ErrJournalNumberExists, "JOURNAL.NUMBER.ALREADY.EXISTS", 500, http.StatusBadRequest},
	{services.ErrEntriesShouldAssignWithContact, "ENTRIES_SHOULD_ASSIGN_WITH_CONTACT", 600, http.StatusBadRequest},
	{services.ErrContactsNotFound, "CONTACTS_NOT_FOUND", 700, http.StatusBadRequest},
	{services.ErrManualJournalAlreadyPublished, "MANUAL.JOURNAL.ALREADY.PUBLISHED", 800, http.StatusBadRequest},
	{services.ErrJournalEntryTwoSided, "ENTRY.SHOULD.BE.CREDIT.OR.DEBIT", 900, http.StatusBadRequest},

	// reports
	{services.ErrAccountNotFound, "account_not_found", 100, http.StatusNotFound},

	// journal posting
	{journal.ErrUnbalancedEntries, "journal_entries_not_balanced", 100, http.StatusUnprocessableEntity},
	{journal.ErrNegativeAmount, "journal_entry_negative_amount", 200, http.StatusUnprocessableEntity},
	{journal.ErrUnknownAccount, "journal_entry_account_not_found", 300, http.StatusUnprocessableEntity},
}

// categoryErrors catches errors that carry only an apperrors category.
var categoryErrors = []errorMapping{
	{apperrors.ErrValidation, "validation_error", 0, http.StatusBadRequest},
	{apperrors.ErrNotFound, "not_found", 0, http.StatusNotFound},
	{apperrors.ErrDuplicate, "already_exists", 0, http.StatusConflict},
	{apperrors.ErrConflict, "conflict", 0, http.StatusConflict},
	{apperrors.ErrForbidden, "forbidden", 0, http.StatusForbidden},
}

func lookupError(err error) (errorMapping, bool) {
	for _, table := range [][]errorMapping{serviceErrors, categoryErrors} {
		for _, m := range table {
			if errors.Is(err, m.err) {
				return m, true
			}
		}
	}
	return errorMapping{}, false
}

// respondError writes err as an error response. Known service errors keep
// their type and code; anything else is logged and reported as a 500.
func respondError(c *gin.Context, err error, msg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	m, ok := lookupError(err)
	if !ok {
		logger.Error(msg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Errors: []ErrorItem{{Type: "internal_error", Message: msg}},
		})
		return
	}

	logger.Warn(msg, slog.String("error", err.Error()), slog.String("error_type", m.errType))
	item := ErrorItem{Type: m.errType, Code: m.code}
	if m.code == 0 {
		item.Message = err.Error()
	}
	c.JSON(m.status, ErrorResponse{Errors: []ErrorItem{item}})
}

// respondBindError reports a request that failed binding or validation.
func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Invalid request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Errors: []ErrorItem{{Type: "validation_error", Message: err.Error()}},
	})
}
