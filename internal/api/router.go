package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/claimdesk/claimdesk/internal/middleware"
	"github.com/claimdesk/claimdesk/internal/security"
	"github.com/claimdesk/claimdesk/internal/ws"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log         *logrus.Logger
	DB          Database
	Hub         *ws.Hub
	Claims      ClaimRepository
	Supplements SupplementRepository
	Parties     PartyRepository
	Notes       NoteRepository
	Audit       AuditRepository
	Reports     ReportRepository
	Tenants     middleware.TenantChecker
	Verifier    *middleware.TokenVerifier
	CORSOrigins []string
	Version     string
}

// Router-level limits.
const (
	maxBodySize = 1 << 20 // 1 MB
	rateLimit   = 50      // requests per second per IP
	rateBurst   = 100
)

func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodySize))
	// No configured origins means same-origin only; cors.New panics on an empty list.
	if len(deps.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			MaxAge:           1 * time.Hour,
			AllowCredentials: false,
		}))
	}
	r.Use(middleware.NewRateLimiter(ctx, rateLimit, rateBurst).Handler())
	r.Use(middleware.PrometheusMiddleware())
}

func registerRoutes(ctx context.Context, api *gin.RouterGroup, deps *RouterDeps) {
	log := deps.Log

	var clients ClientCounter
	if deps.Hub != nil {
		clients = deps.Hub
	}

	health := NewHealthHandler(deps.DB, clients, log, deps.Version)
	claims := NewClaimHandler(deps.Claims, log)
	sups := NewSupplementHandler(deps.Supplements, log)
	notes := NewNoteHandler(deps.Notes, log)
	parties := NewPartyHandler(deps.Parties, log)
	audit := NewAuditHandler(deps.Audit, log)
	reports := NewReportHandler(deps.Reports, log)

	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	tenants := middleware.NewCachedTenantChecker(ctx, deps.Tenants)
	lockout := security.NewLockoutGuard(ctx, security.DefaultLimits, log)
	api.Use(middleware.LockoutMiddleware(lockout))
	api.Use(middleware.AuthMiddleware(deps.Verifier, tenants, log, lockout))

	api.GET("/me", Me)

	api.GET("/claims", claims.List)
	api.POST("/claims", claims.Create)
	api.GET("/claims/:id", claims.Get)
	api.PATCH("/claims/:id", claims.Update)
	api.POST("/claims/:id/status", claims.Transition)
	api.GET("/claims/:id/transitions", claims.Transitions)
	api.GET("/claims/:id/history", claims.History)

	api.GET("/claims/:id/supplements", sups.List)
	api.POST("/claims/:id/supplements", sups.Create)
	api.GET("/supplements/:id", sups.Get)
	api.POST("/supplements/:id/status", sups.UpdateStatus)

	api.GET("/claims/:id/notes", notes.List)
	api.POST("/claims/:id/notes", notes.Create)

	api.GET("/parties", parties.List)
	api.POST("/parties", parties.Create)
	api.GET("/parties/:id", parties.Get)
	api.PATCH("/parties/:id", parties.Update)

	api.GET("/audit", audit.Query)
	api.GET("/reports/commissions", reports.Commissions)
	api.GET("/reports/billing", reports.Billing)

	if deps.Hub != nil {
		sessions := middleware.NewSessionValidator(deps.Verifier, tenants)
		api.GET("/ws", wsHandler(ctx, log, deps.Hub, deps.CORSOrigins, sessions))
	}
}

// NewRouter creates the Gin engine with all middleware and routes mounted under /api/v1.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(ctx, r.Group("/api/v1"), deps)

	return r
}
