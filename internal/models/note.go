package models

import "time"

// Note is an append-only comment on a claim.
type Note struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"-"`
	ClaimID     string    `json:"claim_id"`
	AuthorID    string    `json:"author_id"`
	AuthorEmail string    `json:"author_email,omitempty"`
	Body        string    `json:"body"`
	Internal    bool      `json:"internal"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateNoteRequest is the payload for adding a note.
type CreateNoteRequest struct {
	Body     string `json:"body" validate:"required,max=5000"`
	Internal bool   `json:"internal"`
}

// Validate checks the note body.
func (r *CreateNoteRequest) Validate() error {
	return validateStruct(r)
}
