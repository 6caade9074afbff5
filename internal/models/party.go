package models

import "time"

// PartyKind distinguishes the people and companies a claim references.
type PartyKind string

// Party kinds.
const (
	PartyCarrier    PartyKind = "carrier"
	PartyContractor PartyKind = "contractor"
	PartyEstimator  PartyKind = "estimator"
	PartyAdjuster   PartyKind = "adjuster"
)

// Party is a carrier, contractor, estimator or adjuster.
type Party struct {
	ID             string    `json:"id"`
	TenantID       string    `json:"-"`
	Kind           PartyKind `json:"kind"`
	Name           string    `json:"name"`
	Company        string    `json:"company,omitempty"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	CarrierID      *string   `json:"carrier_id,omitempty"`
	CommissionRate *float64  `json:"commission_rate,omitempty"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PartyListOpts holds filters for listing parties.
type PartyListOpts struct {
	Kind       PartyKind
	ActiveOnly bool
	Limit      int
	Offset     int
}

// CreatePartyRequest is the payload for adding a party.
type CreatePartyRequest struct {
	Kind           PartyKind `json:"kind" validate:"required,oneof=carrier contractor estimator adjuster"`
	Name           string    `json:"name" validate:"required,max=200"`
	Company        string    `json:"company" validate:"max=200"`
	Email          string    `json:"email" validate:"omitempty,email,max=254"`
	Phone          string    `json:"phone" validate:"max=30"`
	CarrierID      *string   `json:"carrier_id" validate:"omitempty,uuid"`
	CommissionRate *float64  `json:"commission_rate" validate:"omitempty,gte=0,lte=1"`
}

// Validate checks field formats and limits on CreatePartyRequest.
func (r *CreatePartyRequest) Validate() error {
	v := *r
	dropCleared(&v.CarrierID)
	if err := validateStruct(&v); err != nil {
		return err
	}
	if r.CarrierID != nil && *r.CarrierID != "" && r.Kind != PartyAdjuster {
		return NewValidationError("carrier_id", "only adjusters belong to a carrier")
	}
	if r.CommissionRate != nil && r.Kind != PartyEstimator && r.Kind != PartyContractor {
		return NewValidationError("commission_rate", "only estimators and contractors carry a rate")
	}
	return nil
}

// UpdatePartyRequest is a partial party update.
type UpdatePartyRequest struct {
	Name           *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Company        *string  `json:"company" validate:"omitempty,max=200"`
	Email          *string  `json:"email" validate:"omitempty,email,max=254"`
	Phone          *string  `json:"phone" validate:"omitempty,max=30"`
	CarrierID      *string  `json:"carrier_id" validate:"omitempty,uuid"`
	CommissionRate *float64 `json:"commission_rate" validate:"omitempty,gte=0,lte=1"`
	Active         *bool    `json:"active"`
}

// Validate checks every supplied field.
func (r *UpdatePartyRequest) Validate() error {
	if r.Name != nil && *r.Name == "" {
		return NewValidationError("name", "is required")
	}
	v := *r
	dropCleared(&v.Email, &v.CarrierID)
	return validateStruct(&v)
}

// ApplyPartyUpdate returns a copy of current with req applied and the changed fields.
func ApplyPartyUpdate(current *Party, req *UpdatePartyRequest) (*Party, []FieldChange) {
	next := *current
	c := &changeCollector{}

	c.str("name", &next.Name, req.Name)
	c.str("company", &next.Company, req.Company)
	c.str("email", &next.Email, req.Email)
	c.str("phone", &next.Phone, req.Phone)
	c.ref("carrier_id", &next.CarrierID, req.CarrierID)

	if req.CommissionRate != nil {
		var old *string
		if next.CommissionRate != nil {
			old = FormatNumber(*next.CommissionRate)
		}
		c.add("commission_rate", old, FormatNumber(*req.CommissionRate))
		rate := *req.CommissionRate
		next.CommissionRate = &rate
	}

	if req.Active != nil {
		c.add("active", boolValue(next.Active), boolValue(*req.Active))
		next.Active = *req.Active
	}

	return &next, c.changes
}

func boolValue(b bool) *string {
	if b {
		return StringPtr("true")
	}
	return StringPtr("false")
}
