package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/claimdesk/claimdesk/internal/middleware"
	"github.com/claimdesk/claimdesk/internal/ws"
)

// getTenantID returns the authenticated tenant ID from the Gin context. It
// writes a 400 and returns "" when the value is not a UUID.
func getTenantID(c *gin.Context) string {
	tid := c.GetString("tenant_id")

	if _, err := uuid.Parse(tid); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid tenant id")

		return ""
	}

	return tid
}

// wsHandler upgrades an authenticated request to a revalidation stream. The
// token is kept so the client can re-validate it while the stream is open.
func wsHandler(appCtx context.Context, log *logrus.Logger, hub *ws.Hub, corsOrigins []string, sessions ws.SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := getTenantID(c)
		if tenantID == "" {
			return
		}

		token := middleware.ExtractBearerToken(c)

		// CORS origins double as WebSocket origin patterns.
		conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
			OriginPatterns:       corsOrigins,
			CompressionMode:      websocket.CompressionContextTakeover,
			CompressionThreshold: 128,
		})
		if err != nil {
			log.WithError(err).Warn("websocket accept failed")
			return
		}

		client := ws.NewClient(hub, conn, sessions, token, tenantID)
		hub.Register(client)

		wsCtx, wsCancel := context.WithCancel(appCtx)
		go func() {
			select {
			case <-c.Request.Context().Done():
				wsCancel()
			case <-wsCtx.Done():
			}
		}()

		go client.WritePump(wsCtx)
		client.ReadPump(wsCtx)
		wsCancel()
	}
}

func ginLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"client":   c.ClientIP(),
		}
		if rid, exists := c.Get(middleware.RequestIDKey); exists {
			fields["request_id"] = rid
		}
		if tid := c.GetString("tenant_id"); tid != "" {
			fields["tenant_id"] = tid
		}
		if uid := c.GetString("user_id"); uid != "" {
			fields["user_id"] = uid
		}

		entry := log.WithFields(fields)
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("request")
		case status >= http.StatusBadRequest:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}

// defaultPageSize is the list page size when limit is absent.
const defaultPageSize = 50

// maxPaginationLimit caps the maximum number of items per page.
const maxPaginationLimit = 200

// maxPaginationOffset caps the maximum offset for paginated queries.
const maxPaginationOffset = 100000

func parseInt(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fallback
	}

	if v > maxPaginationLimit {
		return maxPaginationLimit
	}

	return v
}

func parseOffset(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0
	}

	if v > maxPaginationOffset {
		return maxPaginationOffset
	}

	return v
}

// validatePathID checks that a path parameter is a UUID.
func validatePathID(id string) error {
	if id == "" {
		return errors.New("id must not be empty")
	}

	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("id %q is not a valid UUID", id)
	}

	return nil
}

// tenantAndPathID resolves the tenant and the named path UUID, writing a 400 on failure.
func tenantAndPathID(c *gin.Context, param string) (tenantID, id string, ok bool) {
	tenantID = getTenantID(c)
	if tenantID == "" {
		return "", "", false
	}

	id = c.Param(param)
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return "", "", false
	}

	return tenantID, id, true
}
