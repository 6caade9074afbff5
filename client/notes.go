package client

import "context"

// NoteService handles claim notes.
type NoteService struct {
	c *Client
}

// List returns the notes on a claim visible to the caller.
func (s *NoteService) List(ctx context.Context, claimID string) ([]Note, error) {
	var resp listEnvelope[Note]
	if err := s.c.get(ctx, claimPath(claimID)+"/notes", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Create adds a note to a claim.
func (s *NoteService) Create(ctx context.Context, claimID string, req *CreateNoteRequest) (*Note, error) {
	var note Note
	if err := s.c.post(ctx, claimPath(claimID)+"/notes", req, &note); err != nil {
		return nil, err
	}
	return &note, nil
}
