package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/claimdesk/claimdesk/internal/authz"
	"github.com/claimdesk/claimdesk/internal/metrics"
	"github.com/claimdesk/claimdesk/internal/models"
)

const auditWriteTimeout = 10 * time.Second

// Compile-time check: *AuditRecorder must satisfy AuditTrail.
var _ AuditTrail = (*AuditRecorder)(nil)

// AuditRecorder writes the immutable audit trail and serves audit queries.
type AuditRecorder struct {
	store AuditStore
	guard *authz.Guard
	log   *logrus.Logger
	now   func() time.Time
}

// NewAuditRecorder creates an AuditRecorder.
func NewAuditRecorder(store AuditStore, guard *authz.Guard, log *logrus.Logger) *AuditRecorder {
	return &AuditRecorder{store: store, guard: guard, log: log, now: time.Now}
}

// Record writes one row per field change, or a single entity-level row when rec has
// no changes. Every row of one call shares the same timestamp. Failures are logged
// and counted; the caller's operation is never affected. The write is detached from
// the caller's cancellation so an aborted request still leaves its trail.
func (r *AuditRecorder) Record(ctx context.Context, tenantID string, rec models.AuditRecord) int {
	entries := r.entries(rec)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditWriteTimeout)
	defer cancel()

	n, err := r.store.InsertEntries(ctx, tenantID, entries)
	if err != nil {
		metrics.AuditFailures.Inc()
		r.log.WithError(err).WithFields(logrus.Fields{
			"tenant_id":   tenantID,
			"action":      rec.Action,
			"entity_type": rec.EntityType,
			"entity_id":   rec.EntityID,
			"rows":        len(entries),
		}).Warn("audit.record failed")

		return 0
	}

	metrics.AuditRowsWritten.WithLabelValues(rec.Action).Add(float64(n))

	return n
}

func (r *AuditRecorder) entries(rec models.AuditRecord) []models.AuditEntry {
	ts := r.now().UTC()

	base := models.AuditEntry{
		UserID:     rec.Actor.UserID,
		UserEmail:  rec.Actor.Email,
		Action:     rec.Action,
		EntityType: rec.EntityType,
		EntityID:   rec.EntityID,
		Metadata:   rec.Metadata,
		CreatedAt:  ts,
	}

	if len(rec.Changes) == 0 {
		return []models.AuditEntry{base}
	}

	out := make([]models.AuditEntry, 0, len(rec.Changes))

	for _, ch := range rec.Changes {
		e := base
		field := ch.Field
		e.FieldName = &field
		e.OldValue = ch.OldValue
		e.NewValue = ch.NewValue
		out = append(out, e)
	}

	return out
}

// Query returns one page of audit rows, newest first. Only staff may read the trail.
func (r *AuditRecorder) Query(ctx context.Context, tenantID string, opts models.AuditQueryOpts) (*models.AuditPage, error) {
	if _, err := r.guard.RequireRole(ctx, authz.Staff...); err != nil {
		return nil, err
	}

	if err := opts.Normalize(); err != nil {
		return nil, err
	}

	rows, total, err := r.store.QueryAudit(ctx, tenantID, opts)
	if err != nil {
		return nil, err
	}

	return models.NewAuditPage(rows, opts, total), nil
}

// EntityHistory returns the audit rows of one entity. It does not check roles; the
// calling service has already done so.
func (r *AuditRecorder) EntityHistory(
	ctx context.Context, tenantID, entityType, entityID string, page, limit int,
) (*models.AuditPage, error) {
	opts := models.AuditQueryOpts{EntityType: entityType, EntityID: entityID, Page: page, Limit: limit}
	if err := opts.Normalize(); err != nil {
		return nil, err
	}

	rows, total, err := r.store.QueryAudit(ctx, tenantID, opts)
	if err != nil {
		return nil, err
	}

	return models.NewAuditPage(rows, opts, total), nil
}
