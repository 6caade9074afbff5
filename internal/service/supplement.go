package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/claimdesk/claimdesk/internal/authz"
	"github.com/claimdesk/claimdesk/internal/models"
	"github.com/claimdesk/claimdesk/internal/workflow"
)

// SupplementService drafts supplements and records carrier decisions.
type SupplementService struct {
	store       SupplementStore
	claims      ClaimReader
	guard       *authz.Guard
	audit       Auditor
	notifier    Notifier
	revalidator Revalidator
	log         *logrus.Logger
}

// NewSupplementService creates a SupplementService. notifier and revalidator may be nil.
func NewSupplementService(
	store SupplementStore,
	claims ClaimReader,
	guard *authz.Guard,
	audit Auditor,
	notifier Notifier,
	revalidator Revalidator,
	log *logrus.Logger,
) *SupplementService {
	return &SupplementService{
		store:       store,
		claims:      claims,
		guard:       guard,
		audit:       audit,
		notifier:    notifier,
		revalidator: revalidator,
		log:         log,
	}
}

// Create drafts the claim's next supplement. Line items whose total disagrees with
// quantity x unit price are kept as supplied and flagged in the audit metadata.
func (s *SupplementService) Create(
	ctx context.Context, tenantID, claimID string, req models.CreateSupplementRequest,
) (*models.Supplement, error) {
	p, err := s.guard.RequireRole(ctx, authz.Editors...)
	if err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	sup, err := s.store.CreateSupplement(ctx, tenantID, claimID, p.UserID, req)
	if err != nil {
		return nil, err
	}

	meta := map[string]any{
		"claim_id": claimID,
		"sequence": sup.Sequence,
		"amount":   sup.Amount,
	}

	if mismatched := req.MismatchedLineItems(); len(mismatched) > 0 {
		meta["line_item_total_mismatch"] = mismatched

		s.log.WithFields(logrus.Fields{
			"tenant_id":     tenantID,
			"supplement_id": sup.ID,
			"line_items":    mismatched,
		}).Warn("supplement line item totals do not match quantity x unit price")
	}

	s.audit.Record(ctx, tenantID, models.AuditRecord{
		Actor:      *p,
		Action:     models.ActionCreate,
		EntityType: models.EntitySupplement,
		EntityID:   sup.ID,
		Metadata:   meta,
	})

	s.revalidate(ctx, tenantID, claimPath(claimID))

	return sup, nil
}

// Get returns a single supplement.
func (s *SupplementService) Get(ctx context.Context, tenantID, supplementID string) (*models.Supplement, error) {
	if _, err := s.guard.RequireRole(ctx, authz.Everyone...); err != nil {
		return nil, err
	}

	return s.store.GetSupplement(ctx, tenantID, supplementID)
}

// List returns a claim's supplements in sequence order.
func (s *SupplementService) List(ctx context.Context, tenantID, claimID string) ([]models.Supplement, error) {
	if _, err := s.guard.RequireRole(ctx, authz.Everyone...); err != nil {
		return nil, err
	}

	if _, err := s.claims.GetClaim(ctx, tenantID, claimID); err != nil {
		return nil, err
	}

	return s.store.ListSupplements(ctx, tenantID, claimID)
}

// UpdateStatus moves a supplement through its workflow. Submitting is open to
// editors; carrier decisions are staff-only. An approval without an amount approves
// the full requested amount.
func (s *SupplementService) UpdateStatus(
	ctx context.Context, tenantID, supplementID string, req models.UpdateSupplementStatusRequest,
) (*models.Supplement, error) {
	allowed := authz.Staff
	if req.Status == models.SupplementSubmitted {
		allowed = authz.Editors
	}

	p, err := s.guard.RequireRole(ctx, allowed...)
	if err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	current, err := s.store.GetSupplement(ctx, tenantID, supplementID)
	if err != nil {
		return nil, err
	}

	if err := workflow.ValidateSupplementTransition(current.Status, req.Status); err != nil {
		return nil, err
	}

	approved := req.ApprovedAmount
	if req.Status == models.SupplementApproved && approved == nil {
		amount := current.Amount
		approved = &amount
	}

	updated, err := s.store.SetSupplementStatus(ctx, tenantID, supplementID, current.Status, req.Status, approved)
	if err != nil {
		return nil, err
	}

	changes := []models.FieldChange{{
		Field:    "status",
		OldValue: models.StringPtr(string(current.Status)),
		NewValue: models.StringPtr(string(updated.Status)),
	}}

	if updated.Status.Decided() && updated.ApprovedAmount != nil {
		var old *string
		if current.ApprovedAmount != nil {
			old = models.FormatNumber(*current.ApprovedAmount)
		}

		changes = append(changes, models.FieldChange{
			Field:    "approved_amount",
			OldValue: old,
			NewValue: models.FormatNumber(*updated.ApprovedAmount),
		})
	}

	s.audit.Record(ctx, tenantID, models.AuditRecord{
		Actor:      *p,
		Action:     workflow.SupplementAction(updated.Status),
		EntityType: models.EntitySupplement,
		EntityID:   supplementID,
		Changes:    changes,
		Metadata:   map[string]any{"claim_id": updated.ClaimID},
	})

	if updated.Status.Decided() {
		s.notifyDecision(ctx, tenantID, updated)
	}

	s.revalidate(ctx, tenantID, claimsPath(), claimPath(updated.ClaimID))

	s.log.WithFields(logrus.Fields{
		"tenant_id":     tenantID,
		"supplement_id": supplementID,
		"from":          current.Status,
		"to":            updated.Status,
	}).Info("supplement.status")

	return updated, nil
}

func (s *SupplementService) notifyDecision(ctx context.Context, tenantID string, sup *models.Supplement) {
	if s.notifier == nil {
		return
	}

	claim, err := s.claims.GetClaim(ctx, tenantID, sup.ClaimID)
	if err != nil {
		s.log.WithError(err).WithField("supplement_id", sup.ID).Warn("loading claim for supplement notification")
		return
	}

	s.notifier.NotifySupplementApproved(ctx, tenantID, claim, sup)
}

func (s *SupplementService) revalidate(ctx context.Context, tenantID string, paths ...string) {
	if s.revalidator != nil {
		s.revalidator.Revalidate(ctx, tenantID, paths...)
	}
}
