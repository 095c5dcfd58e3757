package reports

// MonthRevenue is the ledger sum for one calendar month. Amounts are exposed
// both as raw cents and as formatted currency units.
type MonthRevenue struct {
	Month      string `json:"month"`
	TotalCents int64  `json:"totalCents"`
	Total      string `json:"total"`
}

// MonthlyRevenueReport covers one calendar year of payment activity.
type MonthlyRevenueReport struct {
	Year       int            `json:"year"`
	Currency   string         `json:"currency"`
	Months     []MonthRevenue `json:"months"`
	TotalCents int64          `json:"totalCents"`
	Total      string         `json:"total"`
}

// OutstandingReport aggregates the unpaid remainder across all incomplete
// subscription records.
type OutstandingReport struct {
	Currency         string `json:"currency"`
	RecordCount      int64  `json:"recordCount"`
	OutstandingCents int64  `json:"outstandingCents"`
	Outstanding      string `json:"outstanding"`
}
