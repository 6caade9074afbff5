// Package notify composes claim notifications and delivers them through a bounded
// outbox. Delivery is single-attempt and never reports failure to the caller.
package notify

import "context"

// Message is one outbound email.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
}

// Sender delivers an email.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Poster mirrors a short text to a chat channel.
type Poster interface {
	Post(ctx context.Context, text string) error
}

// Delivery is one queued notification. Either part may be empty.
type Delivery struct {
	TenantID string
	Event    string
	Email    *Message
	Chat     string
}
