package client

import (
	"time"

	"github.com/claimdesk/claimdesk/internal/models"
)

// Wire types shared with the server.
type (
	Claim                         = models.Claim
	ClaimStatus                   = models.ClaimStatus
	CreateClaimRequest            = models.CreateClaimRequest
	UpdateClaimRequest            = models.UpdateClaimRequest
	Supplement                    = models.Supplement
	SupplementStatus              = models.SupplementStatus
	LineItem                      = models.LineItem
	CreateSupplementRequest       = models.CreateSupplementRequest
	UpdateSupplementStatusRequest = models.UpdateSupplementStatusRequest
	Note                          = models.Note
	CreateNoteRequest             = models.CreateNoteRequest
	Party                         = models.Party
	PartyKind                     = models.PartyKind
	CreatePartyRequest            = models.CreatePartyRequest
	UpdatePartyRequest            = models.UpdatePartyRequest
	AuditEntry                    = models.AuditEntry
	AuditPage                     = models.AuditPage
	CommissionRow                 = models.CommissionRow
	BillingRow                    = models.BillingRow
	Principal                     = models.Principal
)

// HealthResponse is returned by GET /api/v1/health.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Database      string  `json:"database"`
	WSClients     int     `json:"ws_clients"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// ReadinessResponse is returned by GET /api/v1/ready.
type ReadinessResponse struct {
	Status        string            `json:"status"`
	Checks        map[string]string `json:"checks"`
	SchemaVersion int               `json:"schema_version"`
}

// Transition is one status a claim may move to next.
type Transition struct {
	Status ClaimStatus `json:"status"`
	Label  string      `json:"label"`
}

// ClaimListOptions filters ClaimService.List.
type ClaimListOptions struct {
	Status       ClaimStatus
	ContractorID string
	EstimatorID  string
	CarrierID    string
	Query        string
	Limit        int
	Offset       int
}

// PartyListOptions filters PartyService.List.
type PartyListOptions struct {
	Kind       PartyKind
	ActiveOnly bool
	Limit      int
	Offset     int
}

// AuditQueryOptions filters AuditService.Query.
type AuditQueryOptions struct {
	UserID     string
	Action     string
	EntityType string
	EntityID   string
	From       *time.Time
	To         *time.Time
	Page       int
	Limit      int
}
