package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/claimdesk/claimdesk/internal/models"
)

// AuditStore provides data access for the audit_logs table. Rows are insert-only;
// a database trigger rejects UPDATE and DELETE.
type AuditStore struct {
	Base
}

// NewAuditStore creates an AuditStore.
func NewAuditStore(base Base) *AuditStore {
	return &AuditStore{Base: base}
}

const insertAuditSQL = `INSERT INTO audit_logs
	(tenant_id, user_id, user_email, action, entity_type, entity_id, field_name, old_value, new_value, metadata, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// InsertEntries writes all entries in one transaction and returns how many were stored.
func (s *AuditStore) InsertEntries(ctx context.Context, tenantID string, entries []models.AuditEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	batch := &pgx.Batch{}

	for i := range entries {
		e := &entries[i]

		var metaJSON []byte
		if len(e.Metadata) > 0 {
			metaJSON, err = json.Marshal(e.Metadata)
			if err != nil {
				return 0, fmt.Errorf("marshaling audit metadata: %w", err)
			}
		}

		batch.Queue(insertAuditSQL,
			tenantID, e.UserID, e.UserEmail, e.Action, e.EntityType, e.EntityID,
			e.FieldName, e.OldValue, e.NewValue, metaJSON, e.CreatedAt,
		)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("inserting audit entries: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing audit entries: %w", err)
	}

	return len(entries), nil
}

// buildAuditFilter builds the WHERE clause for AuditQueryOpts.
func buildAuditFilter(opts models.AuditQueryOpts) *whereBuilder {
	w := &whereBuilder{}

	if opts.UserID != "" {
		w.add("user_id = ?", opts.UserID)
	}
	if opts.Action != "" {
		w.add("action = ?", opts.Action)
	}
	if opts.EntityType != "" {
		w.add("entity_type = ?", opts.EntityType)
	}
	if opts.EntityID != "" {
		w.add("entity_id = ?", opts.EntityID)
	}
	if opts.From != nil {
		w.add("created_at >= ?", *opts.From)
	}
	if opts.To != nil {
		w.add("created_at < ?", *opts.To)
	}

	return w
}

// QueryAudit returns one page of matching entries, newest first, and the total
// number of matching rows. opts must already be normalized.
func (s *AuditStore) QueryAudit(
	ctx context.Context, tenantID string, opts models.AuditQueryOpts,
) ([]models.AuditEntry, int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, tenantID)
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx.

	w := buildAuditFilter(opts)
	where := w.clause()

	var total int
	if err := tx.QueryRow(ctx, "SELECT count(*) FROM audit_logs "+where, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting audit entries: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT id, tenant_id::text, user_id, user_email, action, entity_type, entity_id,
			field_name, old_value, new_value, metadata, created_at
		FROM audit_logs %s ORDER BY created_at DESC, id DESC LIMIT %s OFFSET %s`,
		where, w.next(opts.Limit), w.next(opts.Offset()),
	)

	entries, err := scanAuditRows(ctx, tx, query, w.args, s.Log)
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// scanAuditRows executes a query and scans audit entries from the result.
func scanAuditRows(ctx context.Context, tx pgx.Tx, query string, args []any, log *logrus.Logger) ([]models.AuditEntry, error) {
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	entries := []models.AuditEntry{}

	for rows.Next() {
		var e models.AuditEntry
		var metaJSON []byte

		if err := rows.Scan(
			&e.ID, &e.TenantID, &e.UserID, &e.UserEmail, &e.Action, &e.EntityType, &e.EntityID,
			&e.FieldName, &e.OldValue, &e.NewValue, &metaJSON, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}

		if metaJSON != nil {
			if err := json.Unmarshal(metaJSON, &e.Metadata); err != nil {
				log.WithError(err).Warn("failed to unmarshal audit metadata")
			}
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit log: %w", err)
	}

	return entries, nil
}
