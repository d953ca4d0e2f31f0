package dto

// GeneralLedgerParams are the query parameters of the general ledger report.
type GeneralLedgerParams struct {
	AccountID int64  `form:"accountId" binding:"required,gt=0"`
	FromDate  string `form:"fromDate" binding:"omitempty,datetime=2006-01-02"`
	ToDate    string `form:"toDate" binding:"omitempty,datetime=2006-01-02"`
}

// AsOfParams are the query parameters of point-in-time reports.
type AsOfParams struct {
	AsOf string `form:"asOf" binding:"omitempty,datetime=2006-01-02"`
}
