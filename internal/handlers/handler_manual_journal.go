package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/spinzar/bigcapital/internal/core/ports/services"
	"github.com/spinzar/bigcapital/internal/dto"
	"github.com/spinzar/bigcapital/internal/middleware"
)

// manualJournalHandler handles HTTP requests related to manual journals.
type manualJournalHandler struct {
	journalService portssvc.ManualJournalSvcFacade
}

func newManualJournalHandler(js portssvc.ManualJournalSvcFacade) *manualJournalHandler {
	return &manualJournalHandler{journalService: js}
}

func registerManualJournalRoutes(rg *gin.RouterGroup, journalService portssvc.ManualJournalSvcFacade) {
	h := newManualJournalHandler(journalService)

	journals := rg.Group("/manual-journals")
	{
		journals.POST("", h.makeJournal)
		journals.GET("/:id", h.getJournal)
		journals.POST("/:id", h.editJournal)
		journals.POST("/:id/publish", h.publishJournal)
		journals.DELETE("/:id", h.deleteJournal)
	}
}

// makeJournal godoc
// @Summary Create a manual journal
// @Description Creates a balanced manual journal and posts it when publish is set
// @Tags manual-journals
// @Accept  json
// @Produce  json
// @Param   journal body dto.ManualJournalRequest true "Manual journal details"
// @Success 201 {object} domain.ManualJournal
// @Failure 400 {object} ErrorResponse "Validation error, unbalanced entries or unknown accounts"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 422 {object} ErrorResponse "Journal entries could not be posted"
// @Failure 500 {object} ErrorResponse "Failed to create manual journal"
// @Security BearerAuth
// @Router /manual-journals [post]
func (h *manualJournalHandler) makeJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.ManualJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	mj, err := h.journalService.MakeJournalEntries(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create manual journal")
		return
	}

	logger.Info("Manual journal created successfully",
		slog.Int64("journal_id", mj.ID),
		slog.String("journal_number", mj.JournalNumber))
	c.JSON(http.StatusCreated, mj)
}

// editJournal godoc
// @Summary Edit a manual journal
// @Tags manual-journals
// @Accept  json
// @Produce  json
// @Param   id path int true "Manual journal ID"
// @Param   journal body dto.ManualJournalRequest true "Manual journal details"
// @Success 200 {object} domain.ManualJournal
// @Failure 400 {object} ErrorResponse "Validation error, unbalanced entries or unknown accounts"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Manual journal not found"
// @Failure 500 {object} ErrorResponse "Failed to edit manual journal"
// @Security BearerAuth
// @Router /manual-journals/{id} [post]
func (h *manualJournalHandler) editJournal(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	journalID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.ManualJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	mj, err := h.journalService.EditJournalEntries(c.Request.Context(), journalID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to edit manual journal")
		return
	}
	c.JSON(http.StatusOK, mj)
}

// publishJournal godoc
// @Summary Publish a manual journal
// @Tags manual-journals
// @Produce  json
// @Param   id path int true "Manual journal ID"
// @Success 200 {object} dto.ActionResponse
// @Failure 400 {object} ErrorResponse "Manual journal already published"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Manual journal not found"
// @Failure 500 {object} ErrorResponse "Failed to publish manual journal"
// @Security BearerAuth
// @Router /manual-journals/{id}/publish [post]
func (h *manualJournalHandler) publishJournal(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	journalID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.journalService.PublishManualJournal(c.Request.Context(), journalID, userID); err != nil {
		respondError(c, err, "Failed to publish manual journal")
		return
	}
	c.JSON(http.StatusOK, dto.ActionResponse{ID: journalID, Message: "The manual journal has been published successfully."})
}

// deleteJournal godoc
// @Summary Delete a manual journal
// @Tags manual-journals
// @Produce  json
// @Param   id path int true "Manual journal ID"
// @Success 200 {object} dto.ActionResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Manual journal not found"
// @Failure 500 {object} ErrorResponse "Failed to delete manual journal"
// @Security BearerAuth
// @Router /manual-journals/{id} [delete]
func (h *manualJournalHandler) deleteJournal(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	journalID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.journalService.DeleteManualJournal(c.Request.Context(), journalID, userID); err != nil {
		respondError(c, err, "Failed to delete manual journal")
		return
	}
	c.JSON(http.StatusOK, dto.ActionResponse{ID: journalID, Message: "The manual journal has been deleted successfully."})
}

// getJournal godoc
// @Summary Get a manual journal
// @Tags manual-journals
// @Produce  json
// @Param   id path int true "Manual journal ID"
// @Success 200 {object} domain.ManualJournal
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Manual journal not found"
// @Security BearerAuth
// @Router /manual-journals/{id} [get]
func (h *manualJournalHandler) getJournal(c *gin.Context) {
	journalID, ok := parseIDParam(c)
	if !ok {
		return
	}

	mj, err := h.journalService.GetManualJournal(c.Request.Context(), journalID)
	if err != nil {
		respondError(c, err, "Failed to retrieve manual journal")
		return
	}
	c.JSON(http.StatusOK, mj)
}
