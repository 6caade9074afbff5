package store

import (
	"context"
	"fmt"
	"math"

	"github.com/claimdesk/claimdesk/internal/models"
)

// ReportStore runs the commission and billing aggregations.
type ReportStore struct {
	Base
}

// NewReportStore creates a new ReportStore.
func NewReportStore(base Base) *ReportStore {
	return &ReportStore{Base: base}
}

// Commissionable statuses: the carrier has approved the supplement or the job has
// moved past approval. closed_lost never pays.
var commissionableStatuses = []string{
	string(models.StatusApproved),
	string(models.StatusFinalInvoicePending),
	string(models.StatusFinalInvoiceSent),
	string(models.StatusCompleted),
}

// Commissions aggregates increases per estimator over claims active in the window.
func (s *ReportStore) Commissions(ctx context.Context, tenantID string, w models.ReportWindow) ([]models.CommissionRow, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("commission report: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx.

	rows, err := tx.Query(ctx, `
		SELECT p.id::text, p.name, count(c.id), COALESCE(sum(c.total_increase), 0),
			COALESCE(p.commission_rate, 0)::float8
		FROM claims c
		JOIN parties p ON p.id = c.estimator_id
		WHERE c.status = ANY($1) AND c.last_activity_at >= $2 AND c.last_activity_at < $3
		GROUP BY p.id, p.name, p.commission_rate
		ORDER BY p.name`,
		commissionableStatuses, w.From, w.To,
	)
	if err != nil {
		return nil, fmt.Errorf("querying commissions: %w", err)
	}
	defer rows.Close()

	out := []models.CommissionRow{}

	for rows.Next() {
		var r models.CommissionRow
		if err := rows.Scan(&r.EstimatorID, &r.EstimatorName, &r.ClaimCount, &r.TotalIncrease, &r.CommissionRate); err != nil {
			return nil, fmt.Errorf("scanning commission row: %w", err)
		}

		r.Commission = roundCents(r.TotalIncrease * r.CommissionRate)
		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating commissions: %w", err)
	}

	return out, nil
}

// Billing aggregates increases per contractor over claims completed in the window.
func (s *ReportStore) Billing(ctx context.Context, tenantID string, w models.ReportWindow) ([]models.BillingRow, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("billing report: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx.

	rows, err := tx.Query(ctx, `
		SELECT p.id::text, p.name, count(c.id), COALESCE(sum(c.total_increase), 0),
			COALESCE(p.commission_rate, 0)::float8
		FROM claims c
		JOIN parties p ON p.id = c.contractor_id
		WHERE c.status = $1 AND c.last_activity_at >= $2 AND c.last_activity_at < $3
		GROUP BY p.id, p.name, p.commission_rate
		ORDER BY p.name`,
		string(models.StatusCompleted), w.From, w.To,
	)
	if err != nil {
		return nil, fmt.Errorf("querying billing: %w", err)
	}
	defer rows.Close()

	out := []models.BillingRow{}

	for rows.Next() {
		var r models.BillingRow
		if err := rows.Scan(&r.ContractorID, &r.ContractorName, &r.ClaimCount, &r.TotalIncrease, &r.Rate); err != nil {
			return nil, fmt.Errorf("scanning billing row: %w", err)
		}

		r.BilledAmount = roundCents(r.TotalIncrease * r.Rate)
		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating billing: %w", err)
	}

	return out, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
