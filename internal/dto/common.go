package dto

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format accepted and returned by the API.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date in UTC.
func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return t, nil
}

// ParseOptionalDate parses value when non-empty.
func ParseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// IDsRequest carries a list of ids for bulk operations.
type IDsRequest struct {
	IDs []int64 `json:"ids" form:"ids" binding:"required,min=1,dive,gt=0"`
}

// BulkPublishMeta reports the outcome of a bulk publish.
type BulkPublishMeta struct {
	AlreadyPublished int `json:"alreadyPublished"`
	Published        int `json:"published"`
	Total            int `json:"total"`
}

// ActionResponse confirms an action on a single document.
type ActionResponse struct {
	ID      int64  `json:"id" example:"42"`
	Message string `json:"message" example:"The expense has been published successfully."`
}

// BulkActionResponse confirms an action on several documents.
type BulkActionResponse struct {
	IDs     []int64 `json:"ids"`
	Message string  `json:"message" example:"The expenses have been deleted successfully."`
}
