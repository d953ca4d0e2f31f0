package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/spinzar/bigcapital/internal/core/ports/services"
	"github.com/spinzar/bigcapital/internal/dto"
	"github.com/spinzar/bigcapital/internal/middleware"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingSvc
	now              func() time.Time
}

func newReportingHandler(rs portssvc.ReportingSvc) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvc) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/general-ledger", h.getGeneralLedger)
		reports.GET("/trial-balance", h.getTrialBalance)
	}
	rg.GET("/contacts/:id/balance", h.getContactBalance)
}

// asOfOrToday parses an optional YYYY-MM-DD date, defaulting to today.
func (h *reportingHandler) asOfOrToday(value string) (time.Time, error) {
	if value == "" {
		return dto.ParseDate(h.now().Format(dto.DateLayout))
	}
	return dto.ParseDate(value)
}

// getGeneralLedger godoc
// @Summary Get general ledger
// @Description Returns the statement of one account with opening and closing balances
// @Tags reports
// @Produce  json
// @Param   accountId query int true "Account ID"
// @Param   fromDate query string false "Start date (YYYY-MM-DD)"
// @Param   toDate query string false "End date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} domain.GeneralLedgerReport
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Failure 500 {object} ErrorResponse "Failed to generate general ledger report"
// @Security BearerAuth
// @Router /reports/general-ledger [get]
func (h *reportingHandler) getGeneralLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.GeneralLedgerParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	from, err := dto.ParseOptionalDate(params.FromDate)
	if err != nil {
		respondBindError(c, err)
		return
	}
	to, err := h.asOfOrToday(params.ToDate)
	if err != nil {
		respondBindError(c, err)
		return
	}

	report, err := h.reportingService.GeneralLedger(c.Request.Context(), params.AccountID, from, to)
	if err != nil {
		respondError(c, err, "Failed to generate general ledger report")
		return
	}

	logger.Info("General ledger report generated successfully",
		slog.Int64("account_id", params.AccountID),
		slog.Int("entry_count", len(report.Entries)))
	c.JSON(http.StatusOK, report)
}

// getTrialBalance godoc
// @Summary Get trial balance
// @Tags reports
// @Produce  json
// @Param   asOf query string false "As of date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} domain.TrialBalanceReport
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to generate trial balance report"
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.AsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	asOf, err := h.asOfOrToday(params.AsOf)
	if err != nil {
		respondBindError(c, err)
		return
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, err, "Failed to generate trial balance report")
		return
	}

	logger.Info("Trial balance report generated successfully", slog.Int("row_count", len(report.Rows)))
	c.JSON(http.StatusOK, report)
}

// getContactBalance godoc
// @Summary Get contact balance
// @Tags reports
// @Produce  json
// @Param   id path int true "Contact ID"
// @Param   asOf query string false "As of date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} domain.ContactBalance
// @Failure 400 {object} ErrorResponse "Invalid contact ID or query parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to compute contact balance"
// @Security BearerAuth
// @Router /contacts/{id}/balance [get]
func (h *reportingHandler) getContactBalance(c *gin.Context) {
	contactID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var params dto.AsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	asOf, err := h.asOfOrToday(params.AsOf)
	if err != nil {
		respondBindError(c, err)
		return
	}

	balance, err := h.reportingService.ContactBalance(c.Request.Context(), contactID, asOf)
	if err != nil {
		respondError(c, err, "Failed to compute contact balance")
		return
	}
	c.JSON(http.StatusOK, balance)
}
