package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/claimdesk/claimdesk/internal/authz"
	"github.com/claimdesk/claimdesk/internal/models"
)

// PartyService manages carriers, contractors, estimators and adjusters.
type PartyService struct {
	store PartyStore
	guard *authz.Guard
	audit Auditor
	log   *logrus.Logger
}

// NewPartyService creates a PartyService.
func NewPartyService(store PartyStore, guard *authz.Guard, audit Auditor, log *logrus.Logger) *PartyService {
	return &PartyService{store: store, guard: guard, audit: audit, log: log}
}

// Create adds a party.
func (s *PartyService) Create(ctx context.Context, tenantID string, req models.CreatePartyRequest) (*models.Party, error) {
	p, err := s.guard.RequireRole(ctx, authz.Staff...)
	if err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	party, err := s.store.CreateParty(ctx, tenantID, req)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, tenantID, models.AuditRecord{
		Actor:      *p,
		Action:     models.ActionCreate,
		EntityType: models.EntityParty,
		EntityID:   party.ID,
		Metadata:   map[string]any{"kind": string(party.Kind), "name": party.Name},
	})

	return party, nil
}

// Update applies a partial edit and audits each changed field.
func (s *PartyService) Update(
	ctx context.Context, tenantID, partyID string, req models.UpdatePartyRequest,
) (*models.Party, error) {
	p, err := s.guard.RequireRole(ctx, authz.Staff...)
	if err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	current, err := s.store.GetParty(ctx, tenantID, partyID)
	if err != nil {
		return nil, err
	}

	if req.CarrierID != nil && *req.CarrierID != "" && current.Kind != models.PartyAdjuster {
		return nil, models.NewValidationError("carrier_id", "only adjusters belong to a carrier")
	}

	next, changes := models.ApplyPartyUpdate(current, &req)
	if len(changes) == 0 {
		return current, nil
	}

	updated, err := s.store.UpdateParty(ctx, tenantID, next)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, tenantID, models.AuditRecord{
		Actor:      *p,
		Action:     models.ActionUpdate,
		EntityType: models.EntityParty,
		EntityID:   partyID,
		Changes:    changes,
	})

	return updated, nil
}

// Get returns a single party.
func (s *PartyService) Get(ctx context.Context, tenantID, partyID string) (*models.Party, error) {
	if _, err := s.guard.RequireRole(ctx, authz.Everyone...); err != nil {
		return nil, err
	}

	return s.store.GetParty(ctx, tenantID, partyID)
}

// List returns parties matching opts.
func (s *PartyService) List(ctx context.Context, tenantID string, opts models.PartyListOpts) ([]models.Party, error) {
	if _, err := s.guard.RequireRole(ctx, authz.Everyone...); err != nil {
		return nil, err
	}

	return s.store.ListParties(ctx, tenantID, opts)
}
