package store

import (
	"encoding/json"
	"fmt"

	"github.com/claimdesk/claimdesk/internal/models"
)

// claimColumns lists the columns selected for claim queries.
const claimColumns = `id::text, tenant_id::text, claim_number, policy_number,
	policyholder_name, policyholder_email, policyholder_phone,
	loss_street, loss_city, loss_state, loss_zip, date_of_loss,
	carrier_id::text, contractor_id::text, estimator_id::text, adjuster_id::text,
	job_type, total_squares, initial_rcv, current_total_rcv, total_increase,
	dollar_per_square, status, version, created_by, created_at, updated_at, last_activity_at`

// scanClaim scans a single row into a models.Claim. Contact fields are still sealed.
func scanClaim(scan func(dest ...any) error) (*models.Claim, error) {
	var c models.Claim
	var status string

	err := scan(
		&c.ID, &c.TenantID, &c.ClaimNumber, &c.PolicyNumber,
		&c.PolicyholderName, &c.PolicyholderEmail, &c.PolicyholderPhone,
		&c.LossStreet, &c.LossCity, &c.LossState, &c.LossZip, &c.DateOfLoss,
		&c.CarrierID, &c.ContractorID, &c.EstimatorID, &c.AdjusterID,
		&c.JobType, &c.TotalSquares, &c.InitialRCV, &c.CurrentTotalRCV, &c.TotalIncrease,
		&c.DollarPerSquare, &status, &c.Version, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt, &c.LastActivityAt,
	)
	if err != nil {
		return nil, err
	}

	c.Status = models.ClaimStatus(status)

	return &c, nil
}

// supplementColumns lists the columns selected for supplement queries.
const supplementColumns = `id::text, tenant_id::text, claim_id::text, sequence, amount,
	approved_amount, status, description, line_items, created_by,
	submitted_at, decided_at, created_at, updated_at`

// scanSupplement scans a single row into a models.Supplement.
func scanSupplement(scan func(dest ...any) error) (*models.Supplement, error) {
	var s models.Supplement
	var status string
	var items []byte

	err := scan(
		&s.ID, &s.TenantID, &s.ClaimID, &s.Sequence, &s.Amount,
		&s.ApprovedAmount, &status, &s.Description, &items, &s.CreatedBy,
		&s.SubmittedAt, &s.DecidedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Status = models.SupplementStatus(status)

	if err := json.Unmarshal(items, &s.LineItems); err != nil {
		return nil, fmt.Errorf("unmarshalling supplement line items: %w", err)
	}
	if s.LineItems == nil {
		s.LineItems = []models.LineItem{}
	}

	return &s, nil
}

// partyColumns lists the columns selected for party queries.
const partyColumns = `id::text, tenant_id::text, kind, name, company, email, phone,
	carrier_id::text, commission_rate::float8, active, created_at, updated_at`

// scanParty scans a single row into a models.Party.
func scanParty(scan func(dest ...any) error) (*models.Party, error) {
	var p models.Party
	var kind string

	err := scan(
		&p.ID, &p.TenantID, &kind, &p.Name, &p.Company, &p.Email, &p.Phone,
		&p.CarrierID, &p.CommissionRate, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Kind = models.PartyKind(kind)

	return &p, nil
}

// noteColumns lists the columns selected for note queries.
const noteColumns = `id::text, tenant_id::text, claim_id::text, author_id, author_email,
	body, internal, created_at`

func scanNote(scan func(dest ...any) error) (*models.Note, error) {
	var n models.Note

	err := scan(&n.ID, &n.TenantID, &n.ClaimID, &n.AuthorID, &n.AuthorEmail, &n.Body, &n.Internal, &n.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &n, nil
}
