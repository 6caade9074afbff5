package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/claimdesk/claimdesk/internal/authz"
	"github.com/claimdesk/claimdesk/internal/models"
)

// ReportService serves the commission and billing summaries.
type ReportService struct {
	store ReportStore
	guard *authz.Guard
	log   *logrus.Logger
}

// NewReportService creates a ReportService.
func NewReportService(store ReportStore, guard *authz.Guard, log *logrus.Logger) *ReportService {
	return &ReportService{store: store, guard: guard, log: log}
}

// Commissions summarizes estimator commissions over the window.
func (s *ReportService) Commissions(ctx context.Context, tenantID string, w models.ReportWindow) ([]models.CommissionRow, error) {
	if _, err := s.guard.RequireRole(ctx, authz.Staff...); err != nil {
		return nil, err
	}

	if err := w.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.store.Commissions(ctx, tenantID, w)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"tenant_id": tenantID, "rows": len(rows)}).Debug("report.commissions")

	return rows, nil
}

// Billing summarizes contractor billing over the window.
func (s *ReportService) Billing(ctx context.Context, tenantID string, w models.ReportWindow) ([]models.BillingRow, error) {
	if _, err := s.guard.RequireRole(ctx, authz.Staff...); err != nil {
		return nil, err
	}

	if err := w.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.store.Billing(ctx, tenantID, w)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"tenant_id": tenantID, "rows": len(rows)}).Debug("report.billing")

	return rows, nil
}
