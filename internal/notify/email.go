package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/claimdesk/claimdesk/internal/models"
)

// HTTPSender posts messages to a transactional email API with a bearer key.
type HTTPSender struct {
	url    string
	apiKey string
	from   string
	client *http.Client
}

// NewHTTPSender creates an HTTPSender. A nil client gets a 10s timeout.
func NewHTTPSender(url, apiKey, from string, client *http.Client) *HTTPSender {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPSender{url: url, apiKey: apiKey, from: from, client: client}
}

type sendRequest struct {
	From string `json:"from"`
	Message
}

// Send delivers msg. Any non-2xx response is reported as the provider being unavailable.
func (s *HTTPSender) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(sendRequest{From: s.from, Message: msg})
	if err != nil {
		return fmt.Errorf("encoding email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending email: %w: %w", models.ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email provider returned %d: %s: %w", resp.StatusCode, bytes.TrimSpace(snippet), models.ErrDependencyUnavailable)
	}

	return nil
}
