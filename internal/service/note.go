package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/claimdesk/claimdesk/internal/authz"
	"github.com/claimdesk/claimdesk/internal/models"
)

// NoteService appends and lists claim notes. Internal notes are hidden from contractors.
type NoteService struct {
	store       NoteStore
	claims      ClaimReader
	guard       *authz.Guard
	audit       Auditor
	revalidator Revalidator
	log         *logrus.Logger
}

// NewNoteService creates a NoteService. revalidator may be nil.
func NewNoteService(
	store NoteStore, claims ClaimReader, guard *authz.Guard, audit Auditor, revalidator Revalidator, log *logrus.Logger,
) *NoteService {
	return &NoteService{store: store, claims: claims, guard: guard, audit: audit, revalidator: revalidator, log: log}
}

// Create appends a note to a claim.
func (s *NoteService) Create(
	ctx context.Context, tenantID, claimID string, req models.CreateNoteRequest,
) (*models.Note, error) {
	p, err := s.guard.RequireRole(ctx, authz.Everyone...)
	if err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.Internal && p.Role == models.RoleContractor {
		return nil, fmt.Errorf("internal notes: %w", models.ErrUnauthorized)
	}

	note, err := s.store.CreateNote(ctx, tenantID, &models.Note{
		ClaimID:     claimID,
		AuthorID:    p.UserID,
		AuthorEmail: p.Email,
		Body:        req.Body,
		Internal:    req.Internal,
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, tenantID, models.AuditRecord{
		Actor:      *p,
		Action:     models.ActionCreate,
		EntityType: models.EntityNote,
		EntityID:   note.ID,
		Metadata:   map[string]any{"claim_id": claimID, "internal": note.Internal},
	})

	if s.revalidator != nil {
		s.revalidator.Revalidate(ctx, tenantID, claimPath(claimID))
	}

	s.log.WithFields(logrus.Fields{
		"tenant_id": tenantID,
		"claim_id":  claimID,
		"note_id":   note.ID,
	}).Debug("note.create")

	return note, nil
}

// List returns a claim's notes oldest first.
func (s *NoteService) List(ctx context.Context, tenantID, claimID string) ([]models.Note, error) {
	p, err := s.guard.RequireRole(ctx, authz.Everyone...)
	if err != nil {
		return nil, err
	}

	if _, err := s.claims.GetClaim(ctx, tenantID, claimID); err != nil {
		return nil, err
	}

	return s.store.ListNotes(ctx, tenantID, claimID, p.Role != models.RoleContractor)
}
