// Package models defines the data types shared by the claimdesk store, services and API.
package models

import (
	"time"
)

// ClaimStatus is a claim's position in the supplement workflow.
type ClaimStatus string

// Claim statuses in workflow order.
const (
	StatusNewSupplement           ClaimStatus = "new_supplement"
	StatusMissingInfo             ClaimStatus = "missing_info"
	StatusContractorReview        ClaimStatus = "contractor_review"
	StatusSupplementInProgress    ClaimStatus = "supplement_in_progress"
	StatusSupplementSent          ClaimStatus = "supplement_sent"
	StatusAwaitingCarrierResponse ClaimStatus = "awaiting_carrier_response"
	StatusReinspectionRequested   ClaimStatus = "reinspection_requested"
	StatusReinspectionScheduled   ClaimStatus = "reinspection_scheduled"
	StatusApproved                ClaimStatus = "approved"
	StatusFinalInvoicePending     ClaimStatus = "final_invoice_pending"
	StatusFinalInvoiceSent        ClaimStatus = "final_invoice_sent"
	StatusCompleted               ClaimStatus = "completed"
	StatusClosedLost              ClaimStatus = "closed_lost"
)

// ClaimStatuses lists every claim status in workflow order.
var ClaimStatuses = []ClaimStatus{
	StatusNewSupplement,
	StatusMissingInfo,
	StatusContractorReview,
	StatusSupplementInProgress,
	StatusSupplementSent,
	StatusAwaitingCarrierResponse,
	StatusReinspectionRequested,
	StatusReinspectionScheduled,
	StatusApproved,
	StatusFinalInvoicePending,
	StatusFinalInvoiceSent,
	StatusCompleted,
	StatusClosedLost,
}

// Valid reports whether s is a known claim status.
func (s ClaimStatus) Valid() bool {
	for _, known := range ClaimStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Label returns a human-readable form of the status for messages.
func (s ClaimStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

var statusLabels = map[ClaimStatus]string{
	StatusNewSupplement:           "New Supplement",
	StatusMissingInfo:             "Missing Info",
	StatusContractorReview:        "Contractor Review",
	StatusSupplementInProgress:    "Supplement In Progress",
	StatusSupplementSent:          "Supplement Sent",
	StatusAwaitingCarrierResponse: "Awaiting Carrier Response",
	StatusReinspectionRequested:   "Reinspection Requested",
	StatusReinspectionScheduled:   "Reinspection Scheduled",
	StatusApproved:                "Approved",
	StatusFinalInvoicePending:     "Final Invoice Pending",
	StatusFinalInvoiceSent:        "Final Invoice Sent",
	StatusCompleted:               "Completed",
	StatusClosedLost:              "Closed Lost",
}

// Job types a claim can carry.
const (
	JobRoofing      = "roofing"
	JobSiding       = "siding"
	JobGutters      = "gutters"
	JobWindows      = "windows"
	JobInterior     = "interior"
	JobFullExterior = "full_exterior"
	JobOther        = "other"
)

// Claim is an insurance claim being supplemented.
type Claim struct {
	ID                string      `json:"id"`
	TenantID          string      `json:"-"`
	ClaimNumber       string      `json:"claim_number"`
	PolicyNumber      string      `json:"policy_number,omitempty"`
	PolicyholderName  string      `json:"policyholder_name"`
	PolicyholderEmail string      `json:"policyholder_email,omitempty"`
	PolicyholderPhone string      `json:"policyholder_phone,omitempty"`
	LossStreet        string      `json:"loss_street,omitempty"`
	LossCity          string      `json:"loss_city,omitempty"`
	LossState         string      `json:"loss_state,omitempty"`
	LossZip           string      `json:"loss_zip,omitempty"`
	DateOfLoss        *time.Time  `json:"date_of_loss,omitempty"`
	CarrierID         *string     `json:"carrier_id,omitempty"`
	ContractorID      *string     `json:"contractor_id,omitempty"`
	EstimatorID       *string     `json:"estimator_id,omitempty"`
	AdjusterID        *string     `json:"adjuster_id,omitempty"`
	JobType           string      `json:"job_type"`
	TotalSquares      float64     `json:"total_squares"`
	InitialRCV        float64     `json:"initial_rcv"`
	CurrentTotalRCV   float64     `json:"current_total_rcv"`
	TotalIncrease     float64     `json:"total_increase"`
	DollarPerSquare   *float64    `json:"dollar_per_square"`
	Status            ClaimStatus `json:"status"`
	Version           int         `json:"version"`
	CreatedBy         string      `json:"created_by,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
	LastActivityAt    time.Time   `json:"last_activity_at"`
}

// Recompute refreshes the derived money fields from the stored inputs.
func (c *Claim) Recompute() {
	c.TotalIncrease = c.CurrentTotalRCV - c.InitialRCV

	if c.TotalSquares > 0 {
		dps := c.CurrentTotalRCV / c.TotalSquares
		c.DollarPerSquare = &dps
	} else {
		c.DollarPerSquare = nil
	}
}

// ClaimListOpts holds filters for listing claims.
type ClaimListOpts struct {
	Status       ClaimStatus
	ContractorID string
	EstimatorID  string
	CarrierID    string
	Search       string
	Limit        int
	Offset       int
}

// CreateClaimRequest is the payload for opening a claim.
type CreateClaimRequest struct {
	ClaimNumber       string     `json:"claim_number" validate:"required,max=50"`
	PolicyNumber      string     `json:"policy_number" validate:"max=50"`
	PolicyholderName  string     `json:"policyholder_name" validate:"required,max=200"`
	PolicyholderEmail string     `json:"policyholder_email" validate:"omitempty,email,max=254"`
	PolicyholderPhone string     `json:"policyholder_phone" validate:"max=30"`
	LossStreet        string     `json:"loss_street" validate:"max=200"`
	LossCity          string     `json:"loss_city" validate:"max=100"`
	LossState         string     `json:"loss_state" validate:"omitempty,len=2"`
	LossZip           string     `json:"loss_zip" validate:"max=10"`
	DateOfLoss        *time.Time `json:"date_of_loss"`
	CarrierID         *string    `json:"carrier_id" validate:"omitempty,uuid"`
	ContractorID      *string    `json:"contractor_id" validate:"omitempty,uuid"`
	EstimatorID       *string    `json:"estimator_id" validate:"omitempty,uuid"`
	AdjusterID        *string    `json:"adjuster_id" validate:"omitempty,uuid"`
	JobType           string     `json:"job_type" validate:"omitempty,oneof=roofing siding gutters windows interior full_exterior other"`
	TotalSquares      float64    `json:"total_squares" validate:"gte=0"`
	InitialRCV        float64    `json:"initial_rcv" validate:"gte=0"`
	CurrentTotalRCV   *float64   `json:"current_total_rcv" validate:"omitempty,gte=0"`
}

// Validate checks field formats and limits on CreateClaimRequest.
func (r *CreateClaimRequest) Validate() error {
	if r.JobType == "" {
		r.JobType = JobRoofing
	}
	v := *r
	dropCleared(&v.CarrierID, &v.ContractorID, &v.EstimatorID, &v.AdjusterID)
	return validateStruct(&v)
}

// ToClaim builds a new claim in the first workflow status.
func (r *CreateClaimRequest) ToClaim() *Claim {
	c := &Claim{
		ClaimNumber:       r.ClaimNumber,
		PolicyNumber:      r.PolicyNumber,
		PolicyholderName:  r.PolicyholderName,
		PolicyholderEmail: r.PolicyholderEmail,
		PolicyholderPhone: r.PolicyholderPhone,
		LossStreet:        r.LossStreet,
		LossCity:          r.LossCity,
		LossState:         r.LossState,
		LossZip:           r.LossZip,
		DateOfLoss:        r.DateOfLoss,
		CarrierID:         nonEmpty(r.CarrierID),
		ContractorID:      nonEmpty(r.ContractorID),
		EstimatorID:       nonEmpty(r.EstimatorID),
		AdjusterID:        nonEmpty(r.AdjusterID),
		JobType:           r.JobType,
		TotalSquares:      r.TotalSquares,
		InitialRCV:        r.InitialRCV,
		CurrentTotalRCV:   r.InitialRCV,
		Status:            StatusNewSupplement,
	}
	if r.CurrentTotalRCV != nil {
		c.CurrentTotalRCV = *r.CurrentTotalRCV
	}
	c.Recompute()
	return c
}

// UpdateClaimRequest is a partial update. Nil fields are left untouched; an empty
// party reference clears it.
type UpdateClaimRequest struct {
	ClaimNumber       *string    `json:"claim_number" validate:"omitempty,min=1,max=50"`
	PolicyNumber      *string    `json:"policy_number" validate:"omitempty,max=50"`
	PolicyholderName  *string    `json:"policyholder_name" validate:"omitempty,min=1,max=200"`
	PolicyholderEmail *string    `json:"policyholder_email" validate:"omitempty,email,max=254"`
	PolicyholderPhone *string    `json:"policyholder_phone" validate:"omitempty,max=30"`
	LossStreet        *string    `json:"loss_street" validate:"omitempty,max=200"`
	LossCity          *string    `json:"loss_city" validate:"omitempty,max=100"`
	LossState         *string    `json:"loss_state" validate:"omitempty,len=2"`
	LossZip           *string    `json:"loss_zip" validate:"omitempty,max=10"`
	DateOfLoss        *time.Time `json:"date_of_loss"`
	CarrierID         *string    `json:"carrier_id" validate:"omitempty,uuid"`
	ContractorID      *string    `json:"contractor_id" validate:"omitempty,uuid"`
	EstimatorID       *string    `json:"estimator_id" validate:"omitempty,uuid"`
	AdjusterID        *string    `json:"adjuster_id" validate:"omitempty,uuid"`
	JobType           *string    `json:"job_type" validate:"omitempty,oneof=roofing siding gutters windows interior full_exterior other"`
	TotalSquares      *float64   `json:"total_squares" validate:"omitempty,gte=0"`
	InitialRCV        *float64   `json:"initial_rcv" validate:"omitempty,gte=0"`
	CurrentTotalRCV   *float64   `json:"current_total_rcv" validate:"omitempty,gte=0"`
}

// Validate checks every supplied field.
func (r *UpdateClaimRequest) Validate() error {
	if r.ClaimNumber != nil && *r.ClaimNumber == "" {
		return NewValidationError("claim_number", "is required")
	}
	if r.PolicyholderName != nil && *r.PolicyholderName == "" {
		return NewValidationError("policyholder_name", "is required")
	}
	if r.JobType != nil && *r.JobType == "" {
		return NewValidationError("job_type", "is required")
	}
	v := *r
	dropCleared(
		&v.PolicyholderEmail, &v.PolicyholderPhone, &v.LossState,
		&v.CarrierID, &v.ContractorID, &v.EstimatorID, &v.AdjusterID,
	)
	return validateStruct(&v)
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
