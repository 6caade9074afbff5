package api

import (
	"context"

	"github.com/claimdesk/claimdesk/internal/models"
)

// ClaimRepository defines the claim operations used by ClaimHandler.
type ClaimRepository interface {
	Create(ctx context.Context, tenantID string, req models.CreateClaimRequest) (*models.Claim, error)
	Get(ctx context.Context, tenantID, claimID string) (*models.Claim, error)
	List(ctx context.Context, tenantID string, opts models.ClaimListOpts) ([]models.Claim, bool, error)
	UpdateFields(ctx context.Context, tenantID, claimID string, req models.UpdateClaimRequest) (*models.Claim, error)
	TransitionStatus(ctx context.Context, tenantID, claimID string, target models.ClaimStatus) (*models.Claim, error)
	AllowedTransitions(ctx context.Context, tenantID, claimID string) ([]models.ClaimStatus, error)
	History(ctx context.Context, tenantID, claimID string, page, limit int) (*models.AuditPage, error)
}

// SupplementRepository defines the supplement operations used by SupplementHandler.
type SupplementRepository interface {
	Create(ctx context.Context, tenantID, claimID string, req models.CreateSupplementRequest) (*models.Supplement, error)
	Get(ctx context.Context, tenantID, supplementID string) (*models.Supplement, error)
	List(ctx context.Context, tenantID, claimID string) ([]models.Supplement, error)
	UpdateStatus(ctx context.Context, tenantID, supplementID string, req models.UpdateSupplementStatusRequest) (*models.Supplement, error)
}

// PartyRepository defines the party operations used by PartyHandler.
type PartyRepository interface {
	Create(ctx context.Context, tenantID string, req models.CreatePartyRequest) (*models.Party, error)
	Update(ctx context.Context, tenantID, partyID string, req models.UpdatePartyRequest) (*models.Party, error)
	Get(ctx context.Context, tenantID, partyID string) (*models.Party, error)
	List(ctx context.Context, tenantID string, opts models.PartyListOpts) ([]models.Party, error)
}

// NoteRepository defines the note operations used by NoteHandler.
type NoteRepository interface {
	Create(ctx context.Context, tenantID, claimID string, req models.CreateNoteRequest) (*models.Note, error)
	List(ctx context.Context, tenantID, claimID string) ([]models.Note, error)
}

// AuditRepository defines the audit log query used by AuditHandler.
type AuditRepository interface {
	Query(ctx context.Context, tenantID string, opts models.AuditQueryOpts) (*models.AuditPage, error)
}

// ReportRepository defines the report queries used by ReportHandler.
type ReportRepository interface {
	Commissions(ctx context.Context, tenantID string, w models.ReportWindow) ([]models.CommissionRow, error)
	Billing(ctx context.Context, tenantID string, w models.ReportWindow) ([]models.BillingRow, error)
}
