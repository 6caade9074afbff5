package models

import "time"

// ReportWindow bounds a report to [From, To).
type ReportWindow struct {
	From time.Time
	To   time.Time
}

// Validate rejects empty or inverted windows.
func (w ReportWindow) Validate() error {
	if w.From.IsZero() || w.To.IsZero() {
		return NewValidationError("from", "from and to are required")
	}
	if !w.To.After(w.From) {
		return NewValidationError("to", "must be after from")
	}
	return nil
}

// CommissionRow summarizes one estimator's commissionable claims.
type CommissionRow struct {
	EstimatorID    string  `json:"estimator_id"`
	EstimatorName  string  `json:"estimator_name"`
	ClaimCount     int     `json:"claim_count"`
	TotalIncrease  float64 `json:"total_increase"`
	CommissionRate float64 `json:"commission_rate"`
	Commission     float64 `json:"commission"`
}

// BillingRow summarizes one contractor's completed claims.
type BillingRow struct {
	ContractorID   string  `json:"contractor_id"`
	ContractorName string  `json:"contractor_name"`
	ClaimCount     int     `json:"claim_count"`
	TotalIncrease  float64 `json:"total_increase"`
	Rate           float64 `json:"rate"`
	BilledAmount   float64 `json:"billed_amount"`
}
