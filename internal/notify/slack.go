package notify

import (
	"context"

	"github.com/slack-go/slack"
)

// SlackMirror posts notification summaries to a Slack incoming webhook.
type SlackMirror struct {
	webhookURL string
}

// NewSlackMirror creates a SlackMirror for the given incoming-webhook URL.
func NewSlackMirror(webhookURL string) *SlackMirror {
	return &SlackMirror{webhookURL: webhookURL}
}

// Post sends text as a single markdown section.
func (m *SlackMirror) Post(ctx context.Context, text string) error {
	msg := &slack.WebhookMessage{
		Text: text,
		Blocks: &slack.Blocks{BlockSet: []slack.Block{
			slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil),
		}},
	}

	return slack.PostWebhookContext(ctx, m.webhookURL, msg)
}
