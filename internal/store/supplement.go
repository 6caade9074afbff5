package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/claimdesk/claimdesk/internal/models"
)

// SupplementStore handles supplement persistence.
type SupplementStore struct {
	Base
}

// NewSupplementStore creates a new SupplementStore.
func NewSupplementStore(base Base) *SupplementStore {
	return &SupplementStore{Base: base}
}

// CreateSupplement inserts a draft supplement with the claim's next sequence number.
// The parent claim row is locked for the duration so concurrent creates cannot
// draw the same sequence.
func (s *SupplementStore) CreateSupplement(
	ctx context.Context,
	tenantID, claimID, createdBy string,
	req models.CreateSupplementRequest,
) (*models.Supplement, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	items := req.LineItems
	if items == nil {
		items = []models.LineItem{}
	}

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshalling line items: %w", err)
	}

	tx, err := s.beginTx(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("creating supplement: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	var locked string
	err = tx.QueryRow(ctx, "SELECT id::text FROM claims WHERE id = $1 FOR UPDATE", claimID).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrClaimNotFound
		}

		return nil, fmt.Errorf("locking claim: %w", err)
	}

	query := `INSERT INTO supplements (tenant_id, claim_id, sequence, amount, status, description, line_items, created_by)
		VALUES ($1, $2,
			(SELECT COALESCE(MAX(sequence), 0) + 1 FROM supplements WHERE claim_id = $2),
			$3, $4, $5, $6, $7)
		RETURNING ` + supplementColumns

	sup, err := scanSupplement(tx.QueryRow(ctx, query,
		tenantID, claimID, req.Amount, string(models.SupplementDraft), req.Description, itemsJSON, createdBy,
	).Scan)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrDuplicateKey
		}

		return nil, fmt.Errorf("inserting supplement: %w", err)
	}

	if _, err := tx.Exec(ctx, "UPDATE claims SET last_activity_at = now() WHERE id = $1", claimID); err != nil {
		return nil, fmt.Errorf("touching claim activity: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing create supplement: %w", err)
	}

	return sup, nil
}

// GetSupplement retrieves a supplement by ID.
func (s *SupplementStore) GetSupplement(ctx context.Context, tenantID, supplementID string) (*models.Supplement, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("getting supplement: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx.

	sup, err := scanSupplement(tx.QueryRow(ctx,
		"SELECT "+supplementColumns+" FROM supplements WHERE id = $1", supplementID).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrSupplementNotFound
		}

		return nil, fmt.Errorf("scanning supplement: %w", err)
	}

	return sup, nil
}

// ListSupplements returns a claim's supplements in sequence order.
func (s *SupplementStore) ListSupplements(ctx context.Context, tenantID, claimID string) ([]models.Supplement, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing supplements: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx.

	rows, err := tx.Query(ctx,
		"SELECT "+supplementColumns+" FROM supplements WHERE claim_id = $1 ORDER BY sequence", claimID)
	if err != nil {
		return nil, fmt.Errorf("querying supplements: %w", err)
	}
	defer rows.Close()

	sups := []models.Supplement{}

	for rows.Next() {
		sup, err := scanSupplement(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning supplement: %w", err)
		}

		sups = append(sups, *sup)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating supplements: %w", err)
	}

	return sups, nil
}

// SetSupplementStatus moves a supplement from one status to another, stamping
// submitted_at or decided_at. approvedAmount is stored only for approved and partial
// decisions and cleared otherwise.
func (s *SupplementStore) SetSupplementStatus(
	ctx context.Context,
	tenantID, supplementID string,
	from, to models.SupplementStatus,
	approvedAmount *float64,
) (*models.Supplement, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if !to.Decided() {
		approvedAmount = nil
	}

	tx, err := s.beginTx(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("setting supplement status: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	query := `UPDATE supplements SET
			status = $1,
			approved_amount = $2,
			submitted_at = CASE WHEN $1 = 'submitted' THEN now() ELSE submitted_at END,
			decided_at = CASE WHEN $1 IN ('approved', 'denied', 'partial') THEN now()
				WHEN $1 = 'submitted' THEN NULL ELSE decided_at END,
			updated_at = now()
		WHERE id = $3 AND status = $4
		RETURNING ` + supplementColumns

	sup, err := scanSupplement(tx.QueryRow(ctx, query, string(to), approvedAmount, supplementID, string(from)).Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		var actual string
		lookupErr := tx.QueryRow(ctx, "SELECT status FROM supplements WHERE id = $1", supplementID).Scan(&actual)
		if errors.Is(lookupErr, pgx.ErrNoRows) {
			return nil, models.ErrSupplementNotFound
		}
		if lookupErr != nil {
			return nil, fmt.Errorf("re-reading supplement status: %w", lookupErr)
		}

		return nil, &models.TransitionError{Entity: models.EntitySupplement, From: actual, To: string(to)}
	}
	if err != nil {
		return nil, fmt.Errorf("scanning supplement after status change: %w", err)
	}

	if _, err := tx.Exec(ctx, "UPDATE claims SET last_activity_at = now() WHERE id = $1", sup.ClaimID); err != nil {
		return nil, fmt.Errorf("touching claim activity: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing supplement status: %w", err)
	}

	return sup, nil
}
