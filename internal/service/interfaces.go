package service

import (
	"context"

	"github.com/claimdesk/claimdesk/internal/models"
)

// ClaimStore is the data-access interface ClaimService depends on.
type ClaimStore interface {
	CreateClaim(ctx context.Context, tenantID string, c *models.Claim) (*models.Claim, error)
	UpdateClaim(ctx context.Context, tenantID string, c *models.Claim) (*models.Claim, error)
	SetClaimStatus(ctx context.Context, tenantID, claimID string, from, to models.ClaimStatus) (*models.Claim, error)
	GetClaim(ctx context.Context, tenantID, claimID string) (*models.Claim, error)
	ListClaims(ctx context.Context, tenantID string, opts models.ClaimListOpts) ([]models.Claim, bool, error)
}

// SupplementStore is the data-access interface SupplementService depends on.
type SupplementStore interface {
	CreateSupplement(ctx context.Context, tenantID, claimID, createdBy string, req models.CreateSupplementRequest) (*models.Supplement, error)
	GetSupplement(ctx context.Context, tenantID, supplementID string) (*models.Supplement, error)
	ListSupplements(ctx context.Context, tenantID, claimID string) ([]models.Supplement, error)
	SetSupplementStatus(
		ctx context.Context, tenantID, supplementID string,
		from, to models.SupplementStatus, approvedAmount *float64,
	) (*models.Supplement, error)
}

// PartyStore is the data-access interface PartyService depends on.
type PartyStore interface {
	CreateParty(ctx context.Context, tenantID string, req models.CreatePartyRequest) (*models.Party, error)
	UpdateParty(ctx context.Context, tenantID string, p *models.Party) (*models.Party, error)
	GetParty(ctx context.Context, tenantID, partyID string) (*models.Party, error)
	ListParties(ctx context.Context, tenantID string, opts models.PartyListOpts) ([]models.Party, error)
}

// NoteStore is the data-access interface NoteService depends on.
type NoteStore interface {
	CreateNote(ctx context.Context, tenantID string, n *models.Note) (*models.Note, error)
	ListNotes(ctx context.Context, tenantID, claimID string, includeInternal bool) ([]models.Note, error)
}

// ReportStore is the data-access interface ReportService depends on.
type ReportStore interface {
	Commissions(ctx context.Context, tenantID string, w models.ReportWindow) ([]models.CommissionRow, error)
	Billing(ctx context.Context, tenantID string, w models.ReportWindow) ([]models.BillingRow, error)
}

// AuditStore is the data-access interface AuditRecorder depends on.
type AuditStore interface {
	InsertEntries(ctx context.Context, tenantID string, entries []models.AuditEntry) (int, error)
	QueryAudit(ctx context.Context, tenantID string, opts models.AuditQueryOpts) ([]models.AuditEntry, int, error)
}

// Auditor records mutations. Record never fails the caller; it returns the number
// of rows written.
type Auditor interface {
	Record(ctx context.Context, tenantID string, rec models.AuditRecord) int
}

// AuditTrail records mutations and reads back one entity's history.
type AuditTrail interface {
	Auditor
	EntityHistory(ctx context.Context, tenantID, entityType, entityID string, page, limit int) (*models.AuditPage, error)
}

// ClaimReader loads a single claim.
type ClaimReader interface {
	GetClaim(ctx context.Context, tenantID, claimID string) (*models.Claim, error)
}

// Notifier sends best-effort notifications about claim and supplement changes.
type Notifier interface {
	NotifyStatusChange(ctx context.Context, tenantID string, claim *models.Claim, from, to models.ClaimStatus)
	NotifySupplementApproved(ctx context.Context, tenantID string, claim *models.Claim, sup *models.Supplement)
}

// Revalidator tells connected clients which views are stale after a write.
type Revalidator interface {
	Revalidate(ctx context.Context, tenantID string, paths ...string)
}

func claimsPath() string { return "/claims" }

func claimPath(id string) string { return "/claims/" + id }
