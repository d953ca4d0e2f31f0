package dto

import "github.com/spinzar/bigcapital/internal/core/domain"

// AccountsResponse wraps the chart of accounts.
type AccountsResponse struct {
	Accounts []domain.Account `json:"accounts"`
}
