package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/claimdesk/claimdesk/internal/models"
)

// GetClaim retrieves a single claim by ID.
func (s *ClaimStore) GetClaim(ctx context.Context, tenantID, claimID string) (*models.Claim, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("getting claim: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx.

	c, err := scanClaim(tx.QueryRow(ctx, "SELECT "+claimColumns+" FROM claims WHERE id = $1", claimID).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrClaimNotFound
		}

		return nil, fmt.Errorf("scanning claim: %w", err)
	}

	if err := s.openClaim(ctx, tenantID, c); err != nil {
		return nil, err
	}

	return c, nil
}

// ListClaims returns claims matching opts, most recently active first, and
// whether more rows exist past the page.
func (s *ClaimStore) ListClaims(ctx context.Context, tenantID string, opts models.ClaimListOpts) ([]models.Claim, bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, tenantID)
	if err != nil {
		return nil, false, fmt.Errorf("listing claims: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx.

	w := &whereBuilder{}
	if opts.Status != "" {
		w.add("status = ?", string(opts.Status))
	}
	if opts.ContractorID != "" {
		w.add("contractor_id = ?::uuid", opts.ContractorID)
	}
	if opts.EstimatorID != "" {
		w.add("estimator_id = ?::uuid", opts.EstimatorID)
	}
	if opts.CarrierID != "" {
		w.add("carrier_id = ?::uuid", opts.CarrierID)
	}
	if opts.Search != "" {
		w.addMulti("(claim_number ILIKE ? OR policyholder_name ILIKE ? OR policy_number ILIKE ? OR loss_street ILIKE ?)",
			"%"+escapeLike(opts.Search)+"%")
	}

	limit := clampLimit(opts.Limit)
	where := w.clause()
	query := fmt.Sprintf("SELECT %s FROM claims %s ORDER BY last_activity_at DESC, id LIMIT %s OFFSET %s",
		claimColumns, where, w.next(limit+1), w.next(max(opts.Offset, 0)))

	rows, err := tx.Query(ctx, query, w.args...)
	if err != nil {
		return nil, false, fmt.Errorf("querying claims: %w", err)
	}
	defer rows.Close()

	claims := make([]models.Claim, 0, limit)

	for rows.Next() {
		c, err := scanClaim(rows.Scan)
		if err != nil {
			return nil, false, fmt.Errorf("scanning claim: %w", err)
		}

		claims = append(claims, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterating claims: %w", err)
	}

	hasMore := len(claims) > limit
	if hasMore {
		claims = claims[:limit]
	}

	if err := s.openClaims(ctx, tenantID, claims); err != nil {
		return nil, false, err
	}

	return claims, hasMore, nil
}
