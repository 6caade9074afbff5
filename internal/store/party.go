package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/claimdesk/claimdesk/internal/models"
)

// PartyStore handles carriers, contractors, estimators and adjusters.
type PartyStore struct {
	Base
}

// NewPartyStore creates a new PartyStore.
func NewPartyStore(base Base) *PartyStore {
	return &PartyStore{Base: base}
}

// CreateParty inserts a party.
func (s *PartyStore) CreateParty(ctx context.Context, tenantID string, req models.CreatePartyRequest) (*models.Party, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("creating party: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	var carrierID *string
	if req.CarrierID != nil && *req.CarrierID != "" {
		carrierID = req.CarrierID
	}

	query := `INSERT INTO parties (tenant_id, kind, name, company, email, phone, carrier_id, commission_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + partyColumns

	p, err := scanParty(tx.QueryRow(ctx, query,
		tenantID, string(req.Kind), req.Name, req.Company, req.Email, req.Phone, carrierID, req.CommissionRate,
	).Scan)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, models.NewValidationError("carrier_id", "references an unknown carrier")
		}

		return nil, fmt.Errorf("inserting party: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing create party: %w", err)
	}

	return p, nil
}

// UpdateParty writes every editable column of p.
func (s *PartyStore) UpdateParty(ctx context.Context, tenantID string, p *models.Party) (*models.Party, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("updating party: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	query := `UPDATE parties SET name = $1, company = $2, email = $3, phone = $4,
			carrier_id = $5, commission_rate = $6, active = $7, updated_at = now()
		WHERE id = $8
		RETURNING ` + partyColumns

	updated, err := scanParty(tx.QueryRow(ctx, query,
		p.Name, p.Company, p.Email, p.Phone, p.CarrierID, p.CommissionRate, p.Active, p.ID,
	).Scan)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, models.ErrPartyNotFound
		case isForeignKeyViolation(err):
			return nil, models.NewValidationError("carrier_id", "references an unknown carrier")
		default:
			return nil, fmt.Errorf("scanning updated party: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing update party: %w", err)
	}

	return updated, nil
}

// GetParty retrieves a party by ID.
func (s *PartyStore) GetParty(ctx context.Context, tenantID, partyID string) (*models.Party, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("getting party: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx.

	p, err := scanParty(tx.QueryRow(ctx, "SELECT "+partyColumns+" FROM parties WHERE id = $1", partyID).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrPartyNotFound
		}

		return nil, fmt.Errorf("scanning party: %w", err)
	}

	return p, nil
}

// ListParties returns parties ordered by name.
func (s *PartyStore) ListParties(ctx context.Context, tenantID string, opts models.PartyListOpts) ([]models.Party, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing parties: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx.

	w := &whereBuilder{}
	if opts.Kind != "" {
		w.add("kind = ?", string(opts.Kind))
	}
	if opts.ActiveOnly {
		w.add("active = ?", true)
	}

	where := w.clause()
	query := fmt.Sprintf("SELECT %s FROM parties %s ORDER BY name, id LIMIT %s OFFSET %s",
		partyColumns, where, w.next(clampLimit(opts.Limit)), w.next(max(opts.Offset, 0)))

	rows, err := tx.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("querying parties: %w", err)
	}
	defer rows.Close()

	parties := []models.Party{}

	for rows.Next() {
		p, err := scanParty(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning party: %w", err)
		}

		parties = append(parties, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating parties: %w", err)
	}

	return parties, nil
}
