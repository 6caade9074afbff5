package ws

import (
	"encoding/json"
	"sync"
	"time"
)

// Message types exchanged with dashboards.
const (
	MsgSubscribe = "subscribe"
	MsgReset     = "reset"
	MsgShutdown  = "shutdown"
)

// Event is one server-to-client frame. Data carries the change payload, for
// revalidate events the tenant ID and the list of paths to refetch.
type Event struct {
	Type     string          `json:"type"`
	ID       uint64          `json:"id"`
	TenantID string          `json:"-"`
	Data     json.RawMessage `json:"data"`
	Time     time.Time       `json:"time"`
}

// SubscribeMsg is the optional first client frame requesting replay.
type SubscribeMsg struct {
	Type        string `json:"type"`
	LastEventID uint64 `json:"last_event_id"`
}

// ControlMsg tells the client to refetch everything or to reconnect.
type ControlMsg struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// EventSequence hands out monotonic event IDs per tenant.
type EventSequence struct {
	mu   sync.Mutex
	next map[string]uint64
}

// NewEventSequence creates an EventSequence.
func NewEventSequence() *EventSequence {
	return &EventSequence{next: make(map[string]uint64)}
}

// Next returns the next ID for tenantID, starting at 1.
func (es *EventSequence) Next(tenantID string) uint64 {
	es.mu.Lock()
	defer es.mu.Unlock()

	es.next[tenantID]++

	return es.next[tenantID]
}
