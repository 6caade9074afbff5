package notify

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/claimdesk/claimdesk/internal/metrics"
)

const sendTimeout = 15 * time.Second

// Outbox buffers deliveries and sends them from a single worker goroutine.
type Outbox struct {
	email Sender
	chat  Poster
	log   *logrus.Logger
	jobs  chan *Delivery
}

// NewOutbox creates an Outbox with the given queue capacity. Either sender may be nil,
// in which case that channel is skipped.
func NewOutbox(email Sender, chat Poster, log *logrus.Logger, queueSize int) *Outbox {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Outbox{
		email: email,
		chat:  chat,
		log:   log,
		jobs:  make(chan *Delivery, queueSize),
	}
}

// Enqueue adds a delivery. Non-blocking; drops the delivery if the queue is full.
func (o *Outbox) Enqueue(d *Delivery) {
	select {
	case o.jobs <- d:
		metrics.NotifyQueueDepth.Set(float64(len(o.jobs)))
	default:
		metrics.NotificationsTotal.WithLabelValues("outbox", "dropped").Inc()
		o.log.WithField("event", d.Event).Warn("notification queue full, dropping delivery")
	}
}

// Run sends deliveries until the context is cancelled, then drains what is queued.
func (o *Outbox) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			o.drain()
			return
		case d := <-o.jobs:
			o.process(d)
		}
	}
}

func (o *Outbox) drain() {
	for {
		select {
		case d := <-o.jobs:
			o.process(d)
		default:
			return
		}
	}
}

func (o *Outbox) process(d *Delivery) {
	metrics.NotifyQueueDepth.Set(float64(len(o.jobs)))

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	entry := o.log.WithFields(logrus.Fields{"tenant_id": d.TenantID, "event": d.Event})

	if d.Email != nil {
		o.sendEmail(ctx, entry, *d.Email)
	}

	if d.Chat != "" && o.chat != nil {
		o.postChat(ctx, entry, d.Chat)
	}
}

func (o *Outbox) postChat(ctx context.Context, entry *logrus.Entry, text string) {
	defer recoverPanic(entry, "slack")

	if err := o.chat.Post(ctx, text); err != nil {
		metrics.NotificationsTotal.WithLabelValues("slack", "failed").Inc()
		entry.WithError(err).Warn("slack mirror failed")
		return
	}

	metrics.NotificationsTotal.WithLabelValues("slack", "sent").Inc()
}

func (o *Outbox) sendEmail(ctx context.Context, entry *logrus.Entry, msg Message) {
	defer recoverPanic(entry, "email")

	if o.email == nil {
		metrics.NotificationsTotal.WithLabelValues("email", "skipped").Inc()
		entry.Info("no email sender configured, skipping email")
		return
	}

	if err := o.email.Send(ctx, msg); err != nil {
		metrics.NotificationsTotal.WithLabelValues("email", "failed").Inc()
		entry.WithError(err).Warn("email delivery failed")
		return
	}

	metrics.NotificationsTotal.WithLabelValues("email", "sent").Inc()
}

// recoverPanic must be deferred directly. It logs a panic from a sender or lookup
// and counts it as a failed notification so the caller carries on.
func recoverPanic(entry *logrus.Entry, channel string) {
	if r := recover(); r != nil {
		metrics.NotificationsTotal.WithLabelValues(channel, "failed").Inc()
		entry.WithField("panic", r).Error("notification panicked")
	}
}
