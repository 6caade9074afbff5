// Package ws fans revalidation events out to connected dashboards, scoped per tenant.
package ws

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/claimdesk/claimdesk/internal/metrics"
)

const (
	broadcastBuffer = 256
	registerBuffer  = 64

	// maxEventPayload caps a single revalidate frame. Path lists are short.
	maxEventPayload = 4096

	drainTimeout = 3 * time.Second
)

// Limits bounds the number of live dashboard connections.
type Limits struct {
	MaxClients   int
	MaxPerTenant int
}

// DefaultLimits suits a single API instance.
var DefaultLimits = Limits{MaxClients: 1000, MaxPerTenant: 50}

type tenantFrame struct {
	tenantID string
	msg      []byte
}

// Hub owns the client set. All mutations of clients and perTenant happen on
// the Run goroutine.
type Hub struct {
	clients    map[*Client]struct{}
	perTenant  map[string]int
	register   chan *Client
	unregister chan *Client
	frames     chan tenantFrame
	shutdown   chan struct{}
	done       chan struct{}
	count      atomic.Int64
	limits     Limits
	log        *logrus.Logger
	seq        *EventSequence
	buffer     *EventBuffer
}

// NewHub creates a Hub. Zero-valued limits fall back to DefaultLimits.
func NewHub(log *logrus.Logger, limits Limits) *Hub {
	if limits.MaxClients <= 0 {
		limits.MaxClients = DefaultLimits.MaxClients
	}

	if limits.MaxPerTenant <= 0 {
		limits.MaxPerTenant = DefaultLimits.MaxPerTenant
	}

	return &Hub{
		clients:    make(map[*Client]struct{}),
		perTenant:  make(map[string]int),
		register:   make(chan *Client, registerBuffer),
		unregister: make(chan *Client, registerBuffer),
		frames:     make(chan tenantFrame, broadcastBuffer),
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		limits:     limits,
		log:        log,
		seq:        NewEventSequence(),
		buffer:     NewEventBuffer(defaultBufferMaxLen, defaultBufferMaxAge),
	}
}

// Run is the hub event loop. It returns after Shutdown or ctx cancellation,
// once connected clients have been drained.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	defer h.buffer.Stop()

	for {
		select {
		case <-ctx.Done():
			h.drainClients()
			return
		case <-h.shutdown:
			h.drainClients()
			return
		case c := <-h.register:
			h.add(c)
		case c := <-h.unregister:
			h.remove(c)
		case f := <-h.frames:
			h.deliver(f)
		}
	}
}

func (h *Hub) add(c *Client) {
	if len(h.clients) >= h.limits.MaxClients {
		h.log.Warn("ws: global connection limit reached, dropping client")
		c.closeSend()

		return
	}

	if h.perTenant[c.TenantID] >= h.limits.MaxPerTenant {
		h.log.WithField("tenant_id", c.TenantID).Warn("ws: tenant connection limit reached, dropping client")
		c.closeSend()

		return
	}

	h.clients[c] = struct{}{}
	h.perTenant[c.TenantID]++
	h.updateCount()
	h.log.WithFields(logrus.Fields{"tenant_id": c.TenantID, "total": len(h.clients)}).Debug("ws: client registered")
}

func (h *Hub) remove(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}

	delete(h.clients, c)
	c.closeSend()

	h.perTenant[c.TenantID]--
	if h.perTenant[c.TenantID] <= 0 {
		delete(h.perTenant, c.TenantID)
	}

	h.updateCount()
	h.log.WithField("total", len(h.clients)).Debug("ws: client unregistered")
}

// deliver sends a frame to every client of its tenant. Clients whose send
// buffer is full are disconnected; they replay from last_event_id on reconnect.
func (h *Hub) deliver(f tenantFrame) {
	for c := range h.clients {
		if c.TenantID != f.tenantID {
			continue
		}

		select {
		case c.send <- f.msg:
		default:
			h.remove(c)
		}
	}
}

func (h *Hub) updateCount() {
	h.count.Store(int64(len(h.clients)))
	metrics.WSConnections.Set(float64(len(h.clients)))
}

// Register queues a client for addition.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	default:
		h.log.Warn("ws: register channel full, dropping client")
		c.closeSend()
	}
}

// Unregister queues a client for removal.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	default:
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// BroadcastEvent stamps the event with the tenant's next sequence ID, buffers
// it for replay and queues it for delivery. It never blocks.
func (h *Hub) BroadcastEvent(eventType, tenantID string, data json.RawMessage) {
	evt := Event{
		Type:     eventType,
		ID:       h.seq.Next(tenantID),
		TenantID: tenantID,
		Data:     data,
		Time:     time.Now().UTC(),
	}

	msg, err := json.Marshal(evt)
	if err != nil {
		h.log.WithError(err).Error("ws: marshalling event")
		return
	}

	if len(msg) > maxEventPayload {
		h.log.WithFields(logrus.Fields{
			"tenant_id":    tenantID,
			"payload_size": len(msg),
		}).Warn("ws: dropping oversized event")

		return
	}

	h.buffer.Append(tenantID, &evt)

	select {
	case h.frames <- tenantFrame{tenantID: tenantID, msg: msg}:
	default:
		h.log.WithField("tenant_id", tenantID).Warn("ws: broadcast channel full, dropping event")
	}
}

// Shutdown drains connected clients and blocks until Run has returned.
func (h *Hub) Shutdown() {
	close(h.shutdown)
	<-h.done
}

// drainClients tells every client to reconnect, waits briefly for send
// buffers to flush, then closes them all.
func (h *Hub) drainClients() {
	if len(h.clients) == 0 {
		return
	}

	h.log.WithField("clients", len(h.clients)).Info("ws: draining clients")

	bye, _ := json.Marshal(ControlMsg{Type: MsgShutdown, Reason: "server shutting down"}) //nolint:errchkjson // static struct
	for c := range h.clients {
		select {
		case c.send <- bye:
		default:
		}
	}

	deadline := time.NewTimer(drainTimeout)
	defer deadline.Stop()

	ticker := time.NewTicker(50 * time.Millisecond) //nolint:mnd // poll interval
	defer ticker.Stop()

	for !h.flushed() {
		select {
		case <-deadline.C:
			h.log.Warn("ws: drain timeout, closing remaining clients")
			h.closeAll()

			return
		case <-ticker.C:
		}
	}

	h.closeAll()
}

func (h *Hub) flushed() bool {
	for c := range h.clients {
		if len(c.send) > 0 {
			return false
		}
	}

	return true
}

func (h *Hub) closeAll() {
	for c := range h.clients {
		c.closeSend()
		delete(h.clients, c)
	}

	h.perTenant = make(map[string]int)
	h.updateCount()
}

// ReplayEvents queues buffered events newer than lastEventID to the client.
// It returns false when lastEventID predates the buffer and the client must
// refetch everything.
func (h *Hub) ReplayEvents(c *Client, lastEventID uint64) bool {
	oldest := h.buffer.OldestID(c.TenantID)
	if oldest > 0 && lastEventID > 0 && lastEventID < oldest-1 {
		return false
	}

	for _, evt := range h.buffer.Since(c.TenantID, lastEventID) {
		msg, err := json.Marshal(evt)
		if err != nil {
			continue
		}

		select {
		case c.send <- msg:
		default:
			return true
		}
	}

	return true
}
