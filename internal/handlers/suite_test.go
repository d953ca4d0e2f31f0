package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"

	portssvc "github.com/spinzar/bigcapital/internal/core/ports/services"
	"github.com/spinzar/bigcapital/internal/handlers"
	"github.com/spinzar/bigcapital/internal/platform/config"
)

// handlerSuite wires the real routes and middleware around mocked services.
type handlerSuite struct {
	suite.Suite
	router    *gin.Engine
	jwtSecret string
	userID    string
	expenses  *MockExpenseService
	journals  *MockManualJournalService
	reporting *MockReportingService
	accounts  *MockAccountService
}

func (suite *handlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.userID = "user-1"

	suite.expenses = new(MockExpenseService)
	suite.journals = new(MockManualJournalService)
	suite.reporting = new(MockReportingService)
	suite.accounts = new(MockAccountService)

	cfg := &config.Config{
		JWTSecret:          suite.jwtSecret,
		RateLimit:          "1000-M",
		CORSAllowedOrigins: []string{"http://localhost:3000"},
	}
	container := &portssvc.ServiceContainer{
		Account:       suite.accounts,
		Expense:       suite.expenses,
		ManualJournal: suite.journals,
		Reporting:     suite.reporting,
	}

	suite.router = gin.New()
	suite.Require().NoError(handlers.RegisterRoutes(suite.router, cfg, container))
}

// generateTestToken creates a signed JWT for the suite user.
func (suite *handlerSuite) generateTestToken() string {
	claims := jwt.RegisteredClaims{
		Issuer:    "bigcapital-test",
		Subject:   suite.userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *handlerSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken())
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *handlerSuite) errorBody(w *httptest.ResponseRecorder) handlers.ErrorItem {
	var resp handlers.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	suite.Require().Len(resp.Errors, 1)
	return resp.Errors[0]
}
