package client

import (
	"context"
	"net/url"
	"strconv"
)

// ClaimService handles claim operations.
type ClaimService struct {
	c *Client
}

func claimPath(id string) string {
	return "/api/v1/claims/" + url.PathEscape(id)
}

// List returns claims matching opts and whether more pages exist.
func (s *ClaimService) List(ctx context.Context, opts *ClaimListOptions) ([]Claim, bool, error) {
	params := url.Values{}
	if opts != nil {
		setIf(params, "status", string(opts.Status))
		setIf(params, "contractor_id", opts.ContractorID)
		setIf(params, "estimator_id", opts.EstimatorID)
		setIf(params, "carrier_id", opts.CarrierID)
		setIf(params, "q", opts.Query)
		setInt(params, "limit", opts.Limit)
		setInt(params, "offset", opts.Offset)
	}
	var resp listEnvelope[Claim]
	if err := s.c.get(ctx, "/api/v1/claims", params, &resp); err != nil {
		return nil, false, err
	}
	return resp.Data, resp.HasMore, nil
}

// Get returns a single claim.
func (s *ClaimService) Get(ctx context.Context, id string) (*Claim, error) {
	var claim Claim
	if err := s.c.get(ctx, claimPath(id), nil, &claim); err != nil {
		return nil, err
	}
	return &claim, nil
}

// Create opens a claim in new_supplement status.
func (s *ClaimService) Create(ctx context.Context, req *CreateClaimRequest) (*Claim, error) {
	var claim Claim
	if err := s.c.post(ctx, "/api/v1/claims", req, &claim); err != nil {
		return nil, err
	}
	return &claim, nil
}

// Update applies a partial edit. Nil fields are left unchanged.
func (s *ClaimService) Update(ctx context.Context, id string, req *UpdateClaimRequest) (*Claim, error) {
	var claim Claim
	if err := s.c.patch(ctx, claimPath(id), req, &claim); err != nil {
		return nil, err
	}
	return &claim, nil
}

// Transition moves a claim to status. Disallowed moves fail with IsInvalidTransition.
func (s *ClaimService) Transition(ctx context.Context, id string, status ClaimStatus) (*Claim, error) {
	var claim Claim
	body := map[string]ClaimStatus{"status": status}
	if err := s.c.post(ctx, claimPath(id)+"/status", body, &claim); err != nil {
		return nil, err
	}
	return &claim, nil
}

// Transitions lists the statuses a claim may move to next.
func (s *ClaimService) Transitions(ctx context.Context, id string) ([]Transition, error) {
	var resp listEnvelope[Transition]
	if err := s.c.get(ctx, claimPath(id)+"/transitions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// History returns one page of the claim's audit trail.
func (s *ClaimService) History(ctx context.Context, id string, page, limit int) (*AuditPage, error) {
	params := url.Values{}
	setInt(params, "page", page)
	setInt(params, "limit", limit)
	var resp AuditPage
	if err := s.c.get(ctx, claimPath(id)+"/history", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func setIf(params url.Values, key, value string) {
	if value != "" {
		params.Set(key, value)
	}
}

func setInt(params url.Values, key string, value int) {
	if value > 0 {
		params.Set(key, strconv.Itoa(value))
	}
}
