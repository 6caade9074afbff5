package models

import "time"

// Audit actions.
const (
	ActionCreate       = "create"
	ActionUpdate       = "update"
	ActionDelete       = "delete"
	ActionStatusChange = "status_change"
	ActionApprove      = "approve"
	ActionSubmit       = "submit"
	ActionLogin        = "login"
)

// Audited entity types.
const (
	EntityClaim      = "claim"
	EntitySupplement = "supplement"
	EntityParty      = "party"
	EntityNote       = "note"
)

// AuditEntry represents a single immutable audit log row.
type AuditEntry struct {
	ID         int64          `json:"id"`
	TenantID   string         `json:"-"`
	UserID     string         `json:"user_id"`
	UserEmail  string         `json:"user_email,omitempty"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	FieldName  *string        `json:"field_name,omitempty"`
	OldValue   *string        `json:"old_value,omitempty"`
	NewValue   *string        `json:"new_value,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// AuditRecord describes one audited mutation: who did what to which entity, and
// which fields changed. An empty Changes list records a single entity-level row.
type AuditRecord struct {
	Actor      Principal
	Action     string
	EntityType string
	EntityID   string
	Changes    []FieldChange
	Metadata   map[string]any
}

// Audit query limits.
const (
	DefaultAuditLimit = 50
	MaxAuditLimit     = 100
)

// AuditQueryOpts holds filters for querying the audit log.
type AuditQueryOpts struct {
	UserID     string
	Action     string
	EntityType string
	EntityID   string
	From       *time.Time
	To         *time.Time // exclusive
	Page       int
	Limit      int
}

// Normalize applies defaults and rejects out-of-range paging.
func (o *AuditQueryOpts) Normalize() error {
	if o.Page == 0 {
		o.Page = 1
	}
	if o.Limit == 0 {
		o.Limit = DefaultAuditLimit
	}
	if o.Page < 1 {
		return NewValidationError("page", "must be at least 1")
	}
	if o.Limit < 1 || o.Limit > MaxAuditLimit {
		return NewValidationError("limit", "must be between 1 and %d", MaxAuditLimit)
	}
	if o.From != nil && o.To != nil && o.To.Before(*o.From) {
		return NewValidationError("to", "must not be before from")
	}
	return nil
}

// Offset returns the row offset for the current page.
func (o *AuditQueryOpts) Offset() int {
	return (o.Page - 1) * o.Limit
}

// AuditPage is one page of audit rows.
type AuditPage struct {
	Rows       []AuditEntry `json:"rows"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	Total      int          `json:"total"`
	TotalPages int          `json:"total_pages"`
}

// NewAuditPage builds the page envelope from rows and the unpaged total.
func NewAuditPage(rows []AuditEntry, opts AuditQueryOpts, total int) *AuditPage {
	if rows == nil {
		rows = []AuditEntry{}
	}
	pages := 0
	if opts.Limit > 0 {
		pages = (total + opts.Limit - 1) / opts.Limit
	}
	return &AuditPage{Rows: rows, Page: opts.Page, Limit: opts.Limit, Total: total, TotalPages: pages}
}
