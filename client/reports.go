package client

import (
	"context"
	"net/url"
	"time"
)

// ReportService fetches commission and billing reports.
type ReportService struct {
	c *Client
}

func windowParams(from, to time.Time) url.Values {
	return url.Values{
		"from": {from.UTC().Format(time.RFC3339)},
		"to":   {to.UTC().Format(time.RFC3339)},
	}
}

// Commissions returns per-estimator commission totals for [from, to).
func (s *ReportService) Commissions(ctx context.Context, from, to time.Time) ([]CommissionRow, error) {
	var resp listEnvelope[CommissionRow]
	if err := s.c.get(ctx, "/api/v1/reports/commissions", windowParams(from, to), &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Billing returns per-contractor billing totals for [from, to).
func (s *ReportService) Billing(ctx context.Context, from, to time.Time) ([]BillingRow, error) {
	var resp listEnvelope[BillingRow]
	if err := s.c.get(ctx, "/api/v1/reports/billing", windowParams(from, to), &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
