package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/spinzar/bigcapital/internal/core/ports/services"
	"github.com/spinzar/bigcapital/internal/dto"
	"github.com/spinzar/bigcapital/internal/middleware"
)

// expenseHandler handles HTTP requests related to expenses.
type expenseHandler struct {
	expenseService portssvc.ExpenseSvcFacade
}

func newExpenseHandler(es portssvc.ExpenseSvcFacade) *expenseHandler {
	return &expenseHandler{expenseService: es}
}

// registerExpenseRoutes registers routes related to expenses.
func registerExpenseRoutes(rg *gin.RouterGroup, expenseService portssvc.ExpenseSvcFacade) {
	h := newExpenseHandler(expenseService)

	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.newExpense)
		expenses.GET("", h.listExpenses)
		expenses.DELETE("", h.bulkDeleteExpenses)
		expenses.POST("/publish", h.bulkPublishExpenses)
		expenses.GET("/:id", h.getExpense)
		expenses.POST("/:id", h.editExpense)
		expenses.POST("/:id/publish", h.publishExpense)
		expenses.DELETE("/:id", h.deleteExpense)
	}
}

// newExpense godoc
// @Summary Create an expense
// @Description Creates an expense and posts it to the ledger when publish is set
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   expense body dto.ExpenseRequest true "Expense details"
// @Success 201 {object} domain.Expense
// @Failure 400 {object} ErrorResponse "Validation error or invalid accounts"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 422 {object} ErrorResponse "Journal entries could not be posted"
// @Failure 500 {object} ErrorResponse "Failed to create expense"
// @Security BearerAuth
// @Router /expenses [post]
func (h *expenseHandler) newExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	expense, err := h.expenseService.NewExpense(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create expense")
		return
	}

	logger.Info("Expense created successfully", slog.Int64("expense_id", expense.ID))
	c.JSON(http.StatusCreated, expense)
}

// editExpense godoc
// @Summary Edit an expense
// @Description Replaces an expense; published expenses have their journal entries rewritten
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   id path int true "Expense ID"
// @Param   expense body dto.ExpenseRequest true "Expense details"
// @Success 200 {object} domain.Expense
// @Failure 400 {object} ErrorResponse "Validation error or invalid accounts"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Expense not found"
// @Failure 422 {object} ErrorResponse "Journal entries could not be posted"
// @Failure 500 {object} ErrorResponse "Failed to edit expense"
// @Security BearerAuth
// @Router /expenses/{id} [post]
func (h *expenseHandler) editExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	expenseID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	expense, err := h.expenseService.EditExpense(c.Request.Context(), expenseID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to edit expense")
		return
	}

	logger.Info("Expense edited successfully", slog.Int64("expense_id", expenseID))
	c.JSON(http.StatusOK, expense)
}

// publishExpense godoc
// @Summary Publish an expense
// @Description Publishes a draft expense and posts its journal entries
// @Tags expenses
// @Produce  json
// @Param   id path int true "Expense ID"
// @Success 200 {object} dto.ActionResponse
// @Failure 400 {object} ErrorResponse "Expense already published"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Expense not found"
// @Failure 500 {object} ErrorResponse "Failed to publish expense"
// @Security BearerAuth
// @Router /expenses/{id}/publish [post]
func (h *expenseHandler) publishExpense(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	expenseID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.expenseService.PublishExpense(c.Request.Context(), expenseID, userID); err != nil {
		respondError(c, err, "Failed to publish expense")
		return
	}
	c.JSON(http.StatusOK, dto.ActionResponse{ID: expenseID, Message: "The expense has been published successfully."})
}

// deleteExpense godoc
// @Summary Delete an expense
// @Description Deletes an expense and reverts its journal entries
// @Tags expenses
// @Produce  json
// @Param   id path int true "Expense ID"
// @Success 200 {object} dto.ActionResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Expense not found"
// @Failure 500 {object} ErrorResponse "Failed to delete expense"
// @Security BearerAuth
// @Router /expenses/{id} [delete]
func (h *expenseHandler) deleteExpense(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	expenseID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.expenseService.DeleteExpense(c.Request.Context(), expenseID, userID); err != nil {
		respondError(c, err, "Failed to delete expense")
		return
	}
	c.JSON(http.StatusOK, dto.ActionResponse{ID: expenseID, Message: "The expense has been deleted successfully."})
}

// bulkDeleteExpenses godoc
// @Summary Delete expenses in bulk
// @Description Deletes every expense in the ids query parameter and reverts their journal entries
// @Tags expenses
// @Produce  json
// @Param   ids query []int true "Expense IDs" collectionFormat(multi)
// @Success 200 {object} dto.BulkActionResponse
// @Failure 400 {object} ErrorResponse "Missing ids or some expenses not found"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to delete expenses"
// @Security BearerAuth
// @Router /expenses [delete]
func (h *expenseHandler) bulkDeleteExpenses(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.IDsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.expenseService.DeleteBulkExpenses(c.Request.Context(), req.IDs, userID); err != nil {
		respondError(c, err, "Failed to delete expenses")
		return
	}
	c.JSON(http.StatusOK, dto.BulkActionResponse{IDs: req.IDs, Message: "The expenses have been deleted successfully."})
}

// bulkPublishExpenses godoc
// @Summary Publish expenses in bulk
// @Description Publishes the given expenses; already published ones are counted and skipped
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   ids body dto.IDsRequest true "Expense IDs"
// @Success 200 {object} dto.PublishExpensesResponse
// @Failure 400 {object} ErrorResponse "Missing ids or some expenses not found"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 422 {object} ErrorResponse "Journal entries could not be posted"
// @Failure 500 {object} ErrorResponse "Failed to publish expenses"
// @Security BearerAuth
// @Router /expenses/publish [post]
func (h *expenseHandler) bulkPublishExpenses(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.IDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	meta, err := h.expenseService.PublishBulkExpenses(c.Request.Context(), req.IDs, userID)
	if err != nil {
		respondError(c, err, "Failed to publish expenses")
		return
	}
	c.JSON(http.StatusOK, dto.PublishExpensesResponse{IDs: req.IDs, Meta: *meta})
}

// getExpense godoc
// @Summary Get an expense
// @Tags expenses
// @Produce  json
// @Param   id path int true "Expense ID"
// @Success 200 {object} domain.Expense
// @Failure 400 {object} ErrorResponse "Invalid expense ID"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Expense not found"
// @Security BearerAuth
// @Router /expenses/{id} [get]
func (h *expenseHandler) getExpense(c *gin.Context) {
	expenseID, ok := parseIDParam(c)
	if !ok {
		return
	}

	expense, err := h.expenseService.GetExpense(c.Request.Context(), expenseID)
	if err != nil {
		respondError(c, err, "Failed to retrieve expense")
		return
	}
	c.JSON(http.StatusOK, expense)
}

// listExpenses godoc
// @Summary List expenses
// @Description Returns a page of expenses, newest payment date first
// @Tags expenses
// @Produce  json
// @Param   limit query int false "Page size (1-100)"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListExpensesResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list expenses"
// @Security BearerAuth
// @Router /expenses [get]
func (h *expenseHandler) listExpenses(c *gin.Context) {
	var params dto.ListExpensesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.expenseService.ListExpenses(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list expenses")
		return
	}
	c.JSON(http.StatusOK, resp)
}
