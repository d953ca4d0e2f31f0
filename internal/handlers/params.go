package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/spinzar/bigcapital/internal/middleware"
)

// parseIDParam reads the positive integer ":id" path parameter. On failure
// the response has been written.
func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Errors: []ErrorItem{{Type: "validation_error", Message: "id must be a positive integer"}},
		})
		return 0, false
	}
	return id, true
}

// requireUserID returns the authenticated user, answering 401 when absent.
func requireUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Errors: []ErrorItem{{Type: "unauthorized", Message: "Unauthorized"}}})
		return "", false
	}
	return userID, true
}
