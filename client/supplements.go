package client

import (
	"context"
	"net/url"
)

// SupplementService handles supplement operations.
type SupplementService struct {
	c *Client
}

// List returns a claim's supplements in sequence order.
func (s *SupplementService) List(ctx context.Context, claimID string) ([]Supplement, error) {
	var resp listEnvelope[Supplement]
	if err := s.c.get(ctx, claimPath(claimID)+"/supplements", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Create drafts the claim's next supplement.
func (s *SupplementService) Create(ctx context.Context, claimID string, req *CreateSupplementRequest) (*Supplement, error) {
	var sup Supplement
	if err := s.c.post(ctx, claimPath(claimID)+"/supplements", req, &sup); err != nil {
		return nil, err
	}
	return &sup, nil
}

// Get returns a single supplement.
func (s *SupplementService) Get(ctx context.Context, id string) (*Supplement, error) {
	var sup Supplement
	if err := s.c.get(ctx, "/api/v1/supplements/"+url.PathEscape(id), nil, &sup); err != nil {
		return nil, err
	}
	return &sup, nil
}

// UpdateStatus moves a supplement through its workflow.
func (s *SupplementService) UpdateStatus(ctx context.Context, id string, req *UpdateSupplementStatusRequest) (*Supplement, error) {
	var sup Supplement
	if err := s.c.post(ctx, "/api/v1/supplements/"+url.PathEscape(id)+"/status", req, &sup); err != nil {
		return nil, err
	}
	return &sup, nil
}
