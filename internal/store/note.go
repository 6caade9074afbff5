package store

import (
	"context"
	"fmt"

	"github.com/claimdesk/claimdesk/internal/models"
)

// NoteStore handles claim notes. Notes are append-only.
type NoteStore struct {
	Base
}

// NewNoteStore creates a new NoteStore.
func NewNoteStore(base Base) *NoteStore {
	return &NoteStore{Base: base}
}

// CreateNote appends a note to a claim and bumps the claim's activity time.
func (s *NoteStore) CreateNote(ctx context.Context, tenantID string, n *models.Note) (*models.Note, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("creating note: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	tag, err := tx.Exec(ctx, "UPDATE claims SET last_activity_at = now() WHERE id = $1", n.ClaimID)
	if err != nil {
		return nil, fmt.Errorf("touching claim activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, models.ErrClaimNotFound
	}

	query := `INSERT INTO notes (tenant_id, claim_id, author_id, author_email, body, internal)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + noteColumns

	created, err := scanNote(tx.QueryRow(ctx, query,
		tenantID, n.ClaimID, n.AuthorID, n.AuthorEmail, n.Body, n.Internal,
	).Scan)
	if err != nil {
		return nil, fmt.Errorf("inserting note: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing create note: %w", err)
	}

	return created, nil
}

// ListNotes returns a claim's notes oldest first. Internal notes are omitted unless
// includeInternal is set.
func (s *NoteStore) ListNotes(ctx context.Context, tenantID, claimID string, includeInternal bool) ([]models.Note, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx.

	rows, err := tx.Query(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE claim_id = $1 AND ($2 OR NOT internal) ORDER BY created_at, id",
		claimID, includeInternal)
	if err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	notes := []models.Note{}

	for rows.Next() {
		n, err := scanNote(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}

		notes = append(notes, *n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notes: %w", err)
	}

	return notes, nil
}
