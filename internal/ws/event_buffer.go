package ws

import (
	"sort"
	"sync"
	"time"
)

const (
	defaultBufferMaxLen = 500
	defaultBufferMaxAge = 30 * time.Minute
	bufferSweepInterval = 5 * time.Minute
)

// EventBuffer keeps recent events per tenant so reconnecting dashboards can
// catch up without a full refetch.
type EventBuffer struct {
	mu     sync.RWMutex
	events map[string][]Event
	maxAge time.Duration
	maxLen int
	now    func() time.Time
	stop   chan struct{}
	once   sync.Once
}

// NewEventBuffer creates an EventBuffer and starts its sweep goroutine.
func NewEventBuffer(maxLen int, maxAge time.Duration) *EventBuffer {
	eb := &EventBuffer{
		events: make(map[string][]Event),
		maxAge: maxAge,
		maxLen: maxLen,
		now:    time.Now,
		stop:   make(chan struct{}),
	}

	go eb.sweepLoop()

	return eb
}

// Stop halts the sweep goroutine. It is safe to call more than once.
func (eb *EventBuffer) Stop() {
	eb.once.Do(func() { close(eb.stop) })
}

func (eb *EventBuffer) sweepLoop() {
	ticker := time.NewTicker(bufferSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-eb.stop:
			return
		case <-ticker.C:
			eb.sweep()
		}
	}
}

// sweep drops tenants whose newest event has aged out.
func (eb *EventBuffer) sweep() {
	cutoff := eb.now().Add(-eb.maxAge)

	eb.mu.Lock()
	defer eb.mu.Unlock()

	for tenant, buf := range eb.events {
		if len(buf) == 0 || buf[len(buf)-1].Time.Before(cutoff) {
			delete(eb.events, tenant)
		}
	}
}

// Append stores an event, trimming expired and excess entries.
func (eb *EventBuffer) Append(tenantID string, evt *Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	cutoff := eb.now().Add(-eb.maxAge)
	buf := eb.events[tenantID]

	first := sort.Search(len(buf), func(i int) bool { return !buf[i].Time.Before(cutoff) })
	buf = append(buf[first:], *evt)

	if len(buf) > eb.maxLen {
		buf = buf[len(buf)-eb.maxLen:]
	}

	eb.events[tenantID] = buf
}

// Since returns a copy of the tenant's events with ID greater than lastEventID.
func (eb *EventBuffer) Since(tenantID string, lastEventID uint64) []Event {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	buf := eb.events[tenantID]
	i := sort.Search(len(buf), func(i int) bool { return buf[i].ID > lastEventID })

	if i >= len(buf) {
		return nil
	}

	out := make([]Event, len(buf)-i)
	copy(out, buf[i:])

	return out
}

// OldestID returns the oldest buffered event ID for a tenant, or 0.
func (eb *EventBuffer) OldestID(tenantID string) uint64 {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if buf := eb.events[tenantID]; len(buf) > 0 {
		return buf[0].ID
	}

	return 0
}
