package models

import (
	"math"
	"time"
)

// SupplementStatus is the carrier-decision state of one supplement request.
type SupplementStatus string

// Supplement statuses.
const (
	SupplementDraft     SupplementStatus = "draft"
	SupplementSubmitted SupplementStatus = "submitted"
	SupplementPending   SupplementStatus = "pending"
	SupplementApproved  SupplementStatus = "approved"
	SupplementDenied    SupplementStatus = "denied"
	SupplementPartial   SupplementStatus = "partial"
)

// SupplementStatuses lists every supplement status.
var SupplementStatuses = []SupplementStatus{
	SupplementDraft,
	SupplementSubmitted,
	SupplementPending,
	SupplementApproved,
	SupplementDenied,
	SupplementPartial,
}

// Valid reports whether s is a known supplement status.
func (s SupplementStatus) Valid() bool {
	for _, known := range SupplementStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Decided reports whether the carrier approved some or all of the request.
func (s SupplementStatus) Decided() bool {
	return s == SupplementApproved || s == SupplementPartial
}

// LineItem is one priced row of a supplement.
type LineItem struct {
	Description string  `json:"description" validate:"required,max=500"`
	Quantity    float64 `json:"quantity" validate:"gte=0"`
	Unit        string  `json:"unit" validate:"max=20"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
	Total       float64 `json:"total" validate:"gte=0"`
}

// TotalMismatch reports whether the supplied total differs from quantity x unit price
// by more than half a cent.
func (li LineItem) TotalMismatch() bool {
	return math.Abs(li.Quantity*li.UnitPrice-li.Total) > 0.005
}

// Supplement is a request to the carrier for additional payment on a claim.
type Supplement struct {
	ID             string           `json:"id"`
	TenantID       string           `json:"-"`
	ClaimID        string           `json:"claim_id"`
	Sequence       int              `json:"sequence"`
	Amount         float64          `json:"amount"`
	ApprovedAmount *float64         `json:"approved_amount,omitempty"`
	Status         SupplementStatus `json:"status"`
	Description    string           `json:"description,omitempty"`
	LineItems      []LineItem       `json:"line_items"`
	CreatedBy      string           `json:"created_by,omitempty"`
	SubmittedAt    *time.Time       `json:"submitted_at,omitempty"`
	DecidedAt      *time.Time       `json:"decided_at,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// CreateSupplementRequest is the payload for drafting a supplement.
type CreateSupplementRequest struct {
	Amount      float64    `json:"amount" validate:"gte=0"`
	Description string     `json:"description" validate:"max=5000"`
	LineItems   []LineItem `json:"line_items" validate:"max=500,dive"`
}

// Validate checks field limits on CreateSupplementRequest.
func (r *CreateSupplementRequest) Validate() error {
	return validateStruct(r)
}

// MismatchedLineItems returns the indexes of line items whose total does not match
// quantity x unit price.
func (r *CreateSupplementRequest) MismatchedLineItems() []int {
	var idx []int
	for i, li := range r.LineItems {
		if li.TotalMismatch() {
			idx = append(idx, i)
		}
	}
	return idx
}

// UpdateSupplementStatusRequest moves a supplement to a new status.
type UpdateSupplementStatusRequest struct {
	Status         SupplementStatus `json:"status" validate:"required"`
	ApprovedAmount *float64         `json:"approved_amount" validate:"omitempty,gte=0"`
}

// Validate checks the target status and approved amount.
func (r *UpdateSupplementStatusRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if !r.Status.Valid() {
		return NewValidationError("status", "unknown supplement status %q", r.Status)
	}
	if r.Status == SupplementPartial && r.ApprovedAmount == nil {
		return NewValidationError("approved_amount", "is required for a partial approval")
	}
	return nil
}
