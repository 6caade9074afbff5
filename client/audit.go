package client

import (
	"context"
	"net/url"
	"time"
)

// AuditService reads the tenant audit log.
type AuditService struct {
	c *Client
}

// Query returns one page of audit rows, newest first.
func (s *AuditService) Query(ctx context.Context, opts *AuditQueryOptions) (*AuditPage, error) {
	params := url.Values{}
	if opts != nil {
		setIf(params, "user_id", opts.UserID)
		setIf(params, "action", opts.Action)
		setIf(params, "entity_type", opts.EntityType)
		setIf(params, "entity_id", opts.EntityID)
		if opts.From != nil {
			params.Set("from", opts.From.Format(time.RFC3339))
		}
		if opts.To != nil {
			params.Set("to", opts.To.Format(time.RFC3339))
		}
		setInt(params, "page", opts.Page)
		setInt(params, "limit", opts.Limit)
	}
	var page AuditPage
	if err := s.c.get(ctx, "/api/v1/audit", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
