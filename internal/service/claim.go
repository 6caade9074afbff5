// Package service holds the claim workflow: role checks, validation, persistence,
// the audit trail and notifications, in that order.
package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/claimdesk/claimdesk/internal/authz"
	"github.com/claimdesk/claimdesk/internal/metrics"
	"github.com/claimdesk/claimdesk/internal/models"
	"github.com/claimdesk/claimdesk/internal/workflow"
)

// ClaimService applies field edits and status transitions to claims.
type ClaimService struct {
	store       ClaimStore
	guard       *authz.Guard
	audit       AuditTrail
	notifier    Notifier
	revalidator Revalidator
	log         *logrus.Logger
}

// NewClaimService creates a ClaimService. notifier and revalidator may be nil.
func NewClaimService(
	store ClaimStore,
	guard *authz.Guard,
	audit AuditTrail,
	notifier Notifier,
	revalidator Revalidator,
	log *logrus.Logger,
) *ClaimService {
	return &ClaimService{
		store:       store,
		guard:       guard,
		audit:       audit,
		notifier:    notifier,
		revalidator: revalidator,
		log:         log,
	}
}

// Create opens a claim in the first workflow status.
func (s *ClaimService) Create(ctx context.Context, tenantID string, req models.CreateClaimRequest) (*models.Claim, error) {
	p, err := s.guard.RequireRole(ctx, authz.Editors...)
	if err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	c := req.ToClaim()
	c.CreatedBy = p.UserID

	created, err := s.store.CreateClaim(ctx, tenantID, c)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, tenantID, models.AuditRecord{
		Actor:      *p,
		Action:     models.ActionCreate,
		EntityType: models.EntityClaim,
		EntityID:   created.ID,
		Metadata: map[string]any{
			"claim_number": created.ClaimNumber,
			"status":       string(created.Status),
		},
	})

	s.revalidate(ctx, tenantID, claimsPath(), claimPath(created.ID))

	s.log.WithFields(logrus.Fields{
		"tenant_id": tenantID,
		"claim_id":  created.ID,
		"user_id":   p.UserID,
	}).Info("claim.create")

	return created, nil
}

// Get returns a single claim.
func (s *ClaimService) Get(ctx context.Context, tenantID, claimID string) (*models.Claim, error) {
	if _, err := s.guard.RequireRole(ctx, authz.Everyone...); err != nil {
		return nil, err
	}

	return s.store.GetClaim(ctx, tenantID, claimID)
}

// List returns a page of claims, most recently active first.
func (s *ClaimService) List(ctx context.Context, tenantID string, opts models.ClaimListOpts) ([]models.Claim, bool, error) {
	if _, err := s.guard.RequireRole(ctx, authz.Everyone...); err != nil {
		return nil, false, err
	}

	if opts.Status != "" && !opts.Status.Valid() {
		return nil, false, models.NewValidationError("status", "unknown claim status %q", opts.Status)
	}

	return s.store.ListClaims(ctx, tenantID, opts)
}

// UpdateFields applies a partial edit. Only fields whose value actually changes are
// written and audited; an edit that changes nothing returns the stored claim without
// touching the database.
func (s *ClaimService) UpdateFields(
	ctx context.Context, tenantID, claimID string, req models.UpdateClaimRequest,
) (*models.Claim, error) {
	p, err := s.guard.RequireRole(ctx, authz.Editors...)
	if err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	current, err := s.store.GetClaim(ctx, tenantID, claimID)
	if err != nil {
		return nil, err
	}

	next, changes := models.ApplyUpdate(current, &req)
	if len(changes) == 0 {
		return current, nil
	}

	updated, err := s.store.UpdateClaim(ctx, tenantID, next)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, tenantID, models.AuditRecord{
		Actor:      *p,
		Action:     models.ActionUpdate,
		EntityType: models.EntityClaim,
		EntityID:   claimID,
		Changes:    changes,
		Metadata:   derivedMetadata(updated),
	})

	s.revalidate(ctx, tenantID, claimsPath(), claimPath(claimID))

	s.log.WithFields(logrus.Fields{
		"tenant_id": tenantID,
		"claim_id":  claimID,
		"fields":    len(changes),
	}).Info("claim.update")

	return updated, nil
}

// derivedMetadata carries the recomputed money fields alongside field-level rows.
func derivedMetadata(c *models.Claim) map[string]any {
	meta := map[string]any{"total_increase": c.TotalIncrease}
	if c.DollarPerSquare != nil {
		meta["dollar_per_square"] = *c.DollarPerSquare
	}

	return meta
}

// TransitionStatus moves a claim to target when the status table allows it. A
// rejected transition writes nothing, records nothing and notifies nobody.
func (s *ClaimService) TransitionStatus(
	ctx context.Context, tenantID, claimID string, target models.ClaimStatus,
) (*models.Claim, error) {
	p, err := s.guard.RequireRole(ctx, authz.Editors...)
	if err != nil {
		return nil, err
	}

	if !target.Valid() {
		return nil, models.NewValidationError("status", "unknown claim status %q", target)
	}

	current, err := s.store.GetClaim(ctx, tenantID, claimID)
	if err != nil {
		return nil, err
	}

	from := current.Status
	if err := workflow.ValidateTransition(from, target); err != nil {
		return nil, err
	}

	updated, err := s.store.SetClaimStatus(ctx, tenantID, claimID, from, target)
	if err != nil {
		return nil, err
	}

	metrics.ClaimTransitions.WithLabelValues(string(target)).Inc()

	s.audit.Record(ctx, tenantID, models.AuditRecord{
		Actor:      *p,
		Action:     models.ActionStatusChange,
		EntityType: models.EntityClaim,
		EntityID:   claimID,
		Changes: []models.FieldChange{{
			Field:    "status",
			OldValue: models.StringPtr(string(from)),
			NewValue: models.StringPtr(string(target)),
		}},
	})

	if s.notifier != nil {
		s.notifier.NotifyStatusChange(ctx, tenantID, updated, from, target)
	}

	s.revalidate(ctx, tenantID, claimsPath(), claimPath(claimID))

	s.log.WithFields(logrus.Fields{
		"tenant_id": tenantID,
		"claim_id":  claimID,
		"from":      from,
		"to":        target,
	}).Info("claim.transition")

	return updated, nil
}

// AllowedTransitions returns the statuses the claim may move to next.
func (s *ClaimService) AllowedTransitions(ctx context.Context, tenantID, claimID string) ([]models.ClaimStatus, error) {
	if _, err := s.guard.RequireRole(ctx, authz.Everyone...); err != nil {
		return nil, err
	}

	c, err := s.store.GetClaim(ctx, tenantID, claimID)
	if err != nil {
		return nil, err
	}

	return workflow.TransitionsFrom(c.Status), nil
}

// History returns the claim's audit rows, newest first.
func (s *ClaimService) History(ctx context.Context, tenantID, claimID string, page, limit int) (*models.AuditPage, error) {
	if _, err := s.guard.RequireRole(ctx, authz.Staff...); err != nil {
		return nil, err
	}

	if _, err := s.store.GetClaim(ctx, tenantID, claimID); err != nil {
		return nil, err
	}

	return s.audit.EntityHistory(ctx, tenantID, models.EntityClaim, claimID, page, limit)
}

func (s *ClaimService) revalidate(ctx context.Context, tenantID string, paths ...string) {
	if s.revalidator != nil {
		s.revalidator.Revalidate(ctx, tenantID, paths...)
	}
}
