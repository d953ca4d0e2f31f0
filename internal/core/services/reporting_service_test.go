package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/spinzar/bigcapital/internal/apperrors"
	"github.com/spinzar/bigcapital/internal/core/domain"
	portssvc "github.com/spinzar/bigcapital/internal/core/ports/services"
	"github.com/spinzar/bigcapital/internal/core/services"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	ledgerRepo  *MockLedgerReader
	accountRepo *MockAccountRepository
	contactRepo *MockContactRepository
	service     portssvc.ReportingSvc
	ctx         context.Context
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.ledgerRepo = new(MockLedgerReader)
	suite.accountRepo = new(MockAccountRepository)
	suite.contactRepo = new(MockContactRepository)
	suite.service = services.NewReportingService(suite.ledgerRepo, suite.accountRepo, suite.contactRepo,
		services.WithReportingBaseCurrency("EUR"))
	suite.ctx = context.Background()
}

func tx(accountID int64, normal domain.AccountNormal, day string, debit, credit string, contactID *int64) domain.LedgerTransaction {
	d, c := dec(debit), dec(credit)
	return domain.LedgerTransaction{
		AccountID:              accountID,
		AccountNormal:          normal,
		Date:                   date(day),
		Debit:                  &d,
		Credit:                 &c,
		ContactID:              contactID,
		ReferenceType:          string(domain.ReferenceExpense),
		ReferenceTypeFormatted: "Expense",
	}
}

func (suite *ReportingServiceTestSuite) TestGeneralLedger_OpeningAndClosing() {
	from, to := date("2024-02-01"), date("2024-02-29")
	suite.accountRepo.On("FindAccountByID", mock.Anything, int64(1)).Return(chartAccount(1), nil)
	suite.ledgerRepo.On("ListLedgerTransactions", mock.Anything, mock.MatchedBy(func(f domain.LedgerFilter) bool {
		return len(f.AccountIDs) == 1 && f.AccountIDs[0] == 1 && f.ToDate != nil && f.ToDate.Equal(to)
	})).Return([]domain.LedgerTransaction{
		tx(1, domain.NormalDebit, "2024-01-15", "100", "0", nil),
		tx(1, domain.NormalDebit, "2024-02-01", "0", "30", nil),
		tx(1, domain.NormalDebit, "2024-02-29", "5", "0", nil),
	}, nil)

	report, err := suite.service.GeneralLedger(suite.ctx, 1, &from, to)

	suite.Require().NoError(err)
	suite.True(report.OpeningBalance.Equal(dec("100")), report.OpeningBalance.String())
	suite.Len(report.Entries, 2)
	suite.True(report.ClosingBalance.Equal(dec("75")), report.ClosingBalance.String())
	suite.Equal("From 2024/02/01 | To 2024/02/29", report.Meta.FormattedDateRange)
	suite.Equal("EUR", report.Meta.BaseCurrency)
}

func (suite *ReportingServiceTestSuite) TestGeneralLedger_AccountNotFound() {
	suite.accountRepo.On("FindAccountByID", mock.Anything, int64(404)).Return(nil, apperrors.ErrNotFound)
	suite.ledgerRepo.On("ListLedgerTransactions", mock.Anything, mock.Anything).Return([]domain.LedgerTransaction{}, nil).Maybe()

	_, err := suite.service.GeneralLedger(suite.ctx, 404, nil, date("2024-01-01"))

	suite.ErrorIs(err, services.ErrAccountNotFound)
}

func (suite *ReportingServiceTestSuite) TestGeneralLedger_InvertedRange() {
	from := date("2024-03-01")

	_, err := suite.service.GeneralLedger(suite.ctx, 1, &from, date("2024-02-01"))

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReportingServiceTestSuite) TestTrialBalance() {
	asOf := date("2024-03-31")
	suite.accountRepo.On("ListAccounts", mock.Anything).Return(testChart, nil)
	suite.ledgerRepo.On("ListLedgerTransactions", mock.Anything, mock.Anything).Return([]domain.LedgerTransaction{
		tx(1, domain.NormalDebit, "2024-03-01", "0", "50", nil),
		tx(2, domain.NormalDebit, "2024-03-01", "30", "0", nil),
		tx(3, domain.NormalDebit, "2024-03-01", "20", "0", nil),
		tx(5, domain.NormalCredit, "2024-04-02", "0", "999", nil),
	}, nil)

	report, err := suite.service.TrialBalance(suite.ctx, asOf)

	suite.Require().NoError(err)
	suite.Len(report.Rows, 3)
	suite.True(report.TotalDebit.Equal(report.TotalCredit))
	suite.True(report.TotalDebit.Equal(dec("50")))
	suite.Equal(int64(1), report.Rows[0].AccountID)
	suite.True(report.Rows[0].Balance.Equal(dec("-50")))
	suite.Equal("As 2024/03/31", report.Meta.FormattedDateRange)
}

func (suite *ReportingServiceTestSuite) TestContactBalance() {
	vendor := int64(11)
	suite.contactRepo.On("FindContactByID", mock.Anything, vendor).Return(&domain.Contact{ID: vendor}, nil)
	suite.ledgerRepo.On("ListLedgerTransactions", mock.Anything, mock.Anything).Return([]domain.LedgerTransaction{
		tx(4, domain.NormalCredit, "2024-03-01", "0", "100", &vendor),
		tx(4, domain.NormalCredit, "2024-03-10", "40", "0", &vendor),
		tx(4, domain.NormalCredit, "2024-03-10", "0", "7", int64Ptr(12)),
	}, nil)

	balance, err := suite.service.ContactBalance(suite.ctx, vendor, date("2024-03-31"))

	suite.Require().NoError(err)
	suite.True(balance.Balance.Equal(decimal.NewFromInt(60)), balance.Balance.String())
}

func (suite *ReportingServiceTestSuite) TestContactBalance_NotFound() {
	suite.contactRepo.On("FindContactByID", mock.Anything, int64(1)).Return(nil, apperrors.ErrNotFound)
	suite.ledgerRepo.On("ListLedgerTransactions", mock.Anything, mock.Anything).Return([]domain.LedgerTransaction{}, nil).Maybe()

	_, err := suite.service.ContactBalance(suite.ctx, 1, date("2024-03-31"))

	suite.ErrorIs(err, services.ErrContactNotFound)
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
