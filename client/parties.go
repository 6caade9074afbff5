package client

import (
	"context"
	"net/url"
)

// PartyService handles carriers, contractors, estimators and adjusters.
type PartyService struct {
	c *Client
}

// List returns parties matching opts.
func (s *PartyService) List(ctx context.Context, opts *PartyListOptions) ([]Party, error) {
	params := url.Values{}
	if opts != nil {
		setIf(params, "kind", string(opts.Kind))
		if opts.ActiveOnly {
			params.Set("active", "true")
		}
		setInt(params, "limit", opts.Limit)
		setInt(params, "offset", opts.Offset)
	}
	var resp listEnvelope[Party]
	if err := s.c.get(ctx, "/api/v1/parties", params, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Get returns a single party.
func (s *PartyService) Get(ctx context.Context, id string) (*Party, error) {
	var p Party
	if err := s.c.get(ctx, "/api/v1/parties/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create adds a party.
func (s *PartyService) Create(ctx context.Context, req *CreatePartyRequest) (*Party, error) {
	var p Party
	if err := s.c.post(ctx, "/api/v1/parties", req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update applies a partial edit.
func (s *PartyService) Update(ctx context.Context, id string, req *UpdatePartyRequest) (*Party, error) {
	var p Party
	if err := s.c.patch(ctx, "/api/v1/parties/"+url.PathEscape(id), req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
