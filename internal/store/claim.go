package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/claimdesk/claimdesk/internal/models"
)

// ClaimStore handles claim persistence.
type ClaimStore struct {
	Base
}

// NewClaimStore creates a new ClaimStore.
func NewClaimStore(base Base) *ClaimStore {
	return &ClaimStore{Base: base}
}

// CreateClaim inserts a new claim and returns the stored record.
func (s *ClaimStore) CreateClaim(ctx context.Context, tenantID string, c *models.Claim) (*models.Claim, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	email, phone, err := s.sealContact(ctx, tenantID, c)
	if err != nil {
		return nil, err
	}

	tx, err := s.beginTx(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("creating claim: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	query := `INSERT INTO claims (
			tenant_id, claim_number, policy_number, policyholder_name, policyholder_email,
			policyholder_phone, loss_street, loss_city, loss_state, loss_zip, date_of_loss,
			carrier_id, contractor_id, estimator_id, adjuster_id, job_type, total_squares,
			initial_rcv, current_total_rcv, total_increase, dollar_per_square, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
			$18, $19, $20, $21, $22, $23)
		RETURNING ` + claimColumns

	row := tx.QueryRow(ctx, query,
		tenantID, c.ClaimNumber, c.PolicyNumber, c.PolicyholderName, email,
		phone, c.LossStreet, c.LossCity, c.LossState, c.LossZip, c.DateOfLoss,
		c.CarrierID, c.ContractorID, c.EstimatorID, c.AdjusterID, c.JobType, c.TotalSquares,
		c.InitialRCV, c.CurrentTotalRCV, c.TotalIncrease, c.DollarPerSquare, string(c.Status), c.CreatedBy,
	)

	created, err := scanClaim(row.Scan)
	if err != nil {
		return nil, claimWriteError(err)
	}

	if err := s.openClaim(ctx, tenantID, created); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing create claim: %w", err)
	}

	return created, nil
}

// UpdateClaim writes every user-editable and derived column of c and bumps its version.
func (s *ClaimStore) UpdateClaim(ctx context.Context, tenantID string, c *models.Claim) (*models.Claim, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	email, phone, err := s.sealContact(ctx, tenantID, c)
	if err != nil {
		return nil, err
	}

	tx, err := s.beginTx(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("updating claim: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	query := `UPDATE claims SET
			claim_number = $1, policy_number = $2, policyholder_name = $3, policyholder_email = $4,
			policyholder_phone = $5, loss_street = $6, loss_city = $7, loss_state = $8, loss_zip = $9,
			date_of_loss = $10, carrier_id = $11, contractor_id = $12, estimator_id = $13,
			adjuster_id = $14, job_type = $15, total_squares = $16, initial_rcv = $17,
			current_total_rcv = $18, total_increase = $19, dollar_per_square = $20,
			version = version + 1, updated_at = now(), last_activity_at = now()
		WHERE id = $21
		RETURNING ` + claimColumns

	row := tx.QueryRow(ctx, query,
		c.ClaimNumber, c.PolicyNumber, c.PolicyholderName, email,
		phone, c.LossStreet, c.LossCity, c.LossState, c.LossZip,
		c.DateOfLoss, c.CarrierID, c.ContractorID, c.EstimatorID,
		c.AdjusterID, c.JobType, c.TotalSquares, c.InitialRCV,
		c.CurrentTotalRCV, c.TotalIncrease, c.DollarPerSquare,
		c.ID,
	)

	updated, err := scanClaim(row.Scan)
	if err != nil {
		return nil, claimWriteError(err)
	}

	if err := s.openClaim(ctx, tenantID, updated); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing update claim: %w", err)
	}

	return updated, nil
}

// SetClaimStatus moves a claim from one status to another. The write only applies
// while the claim is still in from; if another request moved it first, a
// *models.TransitionError describing the actual status is returned.
func (s *ClaimStore) SetClaimStatus(
	ctx context.Context,
	tenantID, claimID string,
	from, to models.ClaimStatus,
) (*models.Claim, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("setting claim status: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	query := `UPDATE claims
		SET status = $1, version = version + 1, updated_at = now(), last_activity_at = now()
		WHERE id = $2 AND status = $3
		RETURNING ` + claimColumns

	updated, err := scanClaim(tx.QueryRow(ctx, query, string(to), claimID, string(from)).Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		var actual string
		lookupErr := tx.QueryRow(ctx, "SELECT status FROM claims WHERE id = $1", claimID).Scan(&actual)
		if errors.Is(lookupErr, pgx.ErrNoRows) {
			return nil, models.ErrClaimNotFound
		}
		if lookupErr != nil {
			return nil, fmt.Errorf("re-reading claim status: %w", lookupErr)
		}

		return nil, &models.TransitionError{Entity: models.EntityClaim, From: actual, To: string(to)}
	}
	if err != nil {
		return nil, fmt.Errorf("scanning claim after status change: %w", err)
	}

	// Decrypt before commit so a key failure leaves nothing persisted.
	if err := s.openClaim(ctx, tenantID, updated); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing claim status: %w", err)
	}

	return updated, nil
}

func claimWriteError(err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return models.ErrClaimNotFound
	case isUniqueViolation(err):
		return fmt.Errorf("claim number already exists: %w", models.ErrDuplicateKey)
	case isForeignKeyViolation(err):
		return models.NewValidationError("party", "references an unknown party")
	default:
		return fmt.Errorf("writing claim: %w", err)
	}
}
