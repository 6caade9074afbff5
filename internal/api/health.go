package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/claimdesk/claimdesk/internal/db"
)

// Database is the slice of the connection pool the health checks use.
type Database interface {
	HealthCheck(ctx context.Context) error
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ClientCounter reports connected WebSocket clients.
type ClientCounter interface {
	ClientCount() int
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	db        Database
	clients   ClientCounter
	log       *logrus.Logger
	version   string
	startTime time.Time
}

// NewHealthHandler creates a HealthHandler. A nil db reports the database as not configured.
func NewHealthHandler(database Database, clients ClientCounter, log *logrus.Logger, version string) *HealthHandler {
	return &HealthHandler{
		db:        database,
		clients:   clients,
		log:       log,
		version:   version,
		startTime: time.Now(),
	}
}

type healthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Database      string  `json:"database"`
	WSClients     int     `json:"ws_clients"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

type readinessResponse struct {
	Status        string            `json:"status"`
	Checks        map[string]string `json:"checks"`
	SchemaVersion int               `json:"schema_version"`
}

// Liveness handles GET /health. It always answers 200; the database field is informational.
func (h *HealthHandler) Liveness(c *gin.Context) {
	resp := healthResponse{
		Status:        "ok",
		Version:       h.version,
		Database:      "connected",
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}

	if h.clients != nil {
		resp.WSClients = h.clients.ClientCount()
	}

	if h.db == nil {
		resp.Database = "not_configured"
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.HealthCheck(ctx); err != nil {
			resp.Database = "disconnected"
		}
	}

	c.JSON(http.StatusOK, resp)
}

// Readiness handles GET /ready. It answers 503 until the database is reachable
// and every embedded migration has been applied.
func (h *HealthHandler) Readiness(c *gin.Context) {
	expected := db.SchemaVersion()
	resp := readinessResponse{
		Status:        "ready",
		Checks:        map[string]string{"database": "ok", "schema": "ok"},
		SchemaVersion: expected,
	}

	if h.db == nil {
		resp.Status = "not_ready"
		resp.Checks["database"] = "not_configured"
		resp.Checks["schema"] = "unknown"
		c.JSON(http.StatusServiceUnavailable, resp)

		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.db.HealthCheck(ctx); err != nil {
		h.log.WithError(err).Error("readiness: database health check failed")
		resp.Status = "not_ready"
		resp.Checks["database"] = "error"
		resp.Checks["schema"] = "unknown"
		c.JSON(http.StatusServiceUnavailable, resp)

		return
	}

	applied, err := h.appliedVersion(ctx)
	switch {
	case err != nil:
		h.log.WithError(err).Error("readiness: schema check failed")
		resp.Checks["schema"] = "error"
	case applied < int64(expected):
		h.log.WithFields(logrus.Fields{"applied": applied, "expected": expected}).Warn("readiness: schema behind")
		resp.Checks["schema"] = "behind"
	}

	if resp.Checks["schema"] != "ok" {
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)

		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *HealthHandler) appliedVersion(ctx context.Context) (int64, error) {
	var v int64
	if err := h.db.QueryRow(ctx, "SELECT COALESCE(MAX(version_id), 0) FROM goose_db_version WHERE is_applied").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading goose version: %w", err)
	}

	return v, nil
}
