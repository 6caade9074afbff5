// Package security tracks failed sign-in attempts per client and locks out clients
// that keep presenting bad credentials.
package security

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	cleanupPeriod = 60 * time.Second
	maxRecords    = 10000
)

// Limits configures when a client is locked out and for how long.
type Limits struct {
	MaxAttempts int
	Window      time.Duration
	Lockout     time.Duration
}

// DefaultLimits locks a client out for 5 minutes after 10 failures in 15 minutes.
var DefaultLimits = Limits{MaxAttempts: 10, Window: 15 * time.Minute, Lockout: 5 * time.Minute}

type failureRecord struct {
	attempts  int
	firstFail time.Time
	lockedAt  time.Time
}

// LockoutGuard counts authentication failures per client address.
type LockoutGuard struct {
	mu      sync.Mutex
	limits  Limits
	records map[string]*failureRecord
	log     *logrus.Logger
	now     func() time.Time
}

// NewLockoutGuard creates a guard and starts a cleanup goroutine that stops when ctx
// is cancelled. Zero fields in limits take their DefaultLimits value.
func NewLockoutGuard(ctx context.Context, limits Limits, log *logrus.Logger) *LockoutGuard {
	if limits.MaxAttempts <= 0 {
		limits.MaxAttempts = DefaultLimits.MaxAttempts
	}
	if limits.Window <= 0 {
		limits.Window = DefaultLimits.Window
	}
	if limits.Lockout <= 0 {
		limits.Lockout = DefaultLimits.Lockout
	}

	g := &LockoutGuard{
		limits:  limits,
		records: make(map[string]*failureRecord),
		log:     log,
		now:     time.Now,
	}
	go g.cleanupLoop(ctx)

	return g
}

// IsBlocked reports whether client is currently locked out.
func (g *LockoutGuard) IsBlocked(client string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	rec, ok := g.records[client]
	if !ok || rec.lockedAt.IsZero() {
		return false
	}

	return g.now().Sub(rec.lockedAt) < g.limits.Lockout
}

// RecordFailure counts one failed attempt from client.
func (g *LockoutGuard) RecordFailure(client string) {
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	rec, ok := g.records[client]
	if !ok || now.Sub(rec.firstFail) > g.limits.Window {
		g.records[client] = &failureRecord{attempts: 1, firstFail: now}
		return
	}

	rec.attempts++
	if rec.attempts >= g.limits.MaxAttempts && rec.lockedAt.IsZero() {
		rec.lockedAt = now
		g.log.WithFields(logrus.Fields{
			"client_ip": client,
			"attempts":  rec.attempts,
		}).Warn("client locked out after repeated authentication failures")
	}
}

// Reset clears failure tracking for client after a successful sign-in.
func (g *LockoutGuard) Reset(client string) {
	g.mu.Lock()
	delete(g.records, client)
	g.mu.Unlock()
}

func (g *LockoutGuard) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(cleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.sweep()
		}
	}
}

func (g *LockoutGuard) sweep() {
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	for k, rec := range g.records {
		expiredLock := !rec.lockedAt.IsZero() && now.Sub(rec.lockedAt) >= g.limits.Lockout
		staleWindow := rec.lockedAt.IsZero() && now.Sub(rec.firstFail) >= g.limits.Window
		if expiredLock || staleWindow {
			delete(g.records, k)
		}
	}

	if len(g.records) > maxRecords {
		g.evictOldest(len(g.records) - maxRecords)
	}
}

// evictOldest removes the n records with the oldest first failure.
// Caller must hold g.mu.
func (g *LockoutGuard) evictOldest(n int) {
	type entry struct {
		key  string
		time time.Time
	}
	entries := make([]entry, 0, len(g.records))
	for k, rec := range g.records {
		entries = append(entries, entry{k, rec.firstFail})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].time.Before(entries[j].time)
	})
	for i := range n {
		delete(g.records, entries[i].key)
	}
}
