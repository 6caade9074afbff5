package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/claimdesk/claimdesk/internal/authz"
	"github.com/claimdesk/claimdesk/internal/models"
	"github.com/claimdesk/claimdesk/internal/security"
)

// authTimingFloor is the minimum response time for rejected credentials.
const authTimingFloor = 50 * time.Millisecond

// TenantChecker reports whether a tenant exists and is active.
type TenantChecker interface {
	TenantActive(ctx context.Context, tenantID string) (bool, error)
}

// identityClaims is the token payload issued by the identity provider.
type identityClaims struct {
	Email       string `json:"email"`
	TenantID    string `json:"tenant_id"`
	AppMetadata struct {
		Role string `json:"role"`
	} `json:"app_metadata"`
	jwt.RegisteredClaims
}

// TokenVerifier checks HS256 bearer tokens and turns them into principals.
type TokenVerifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewTokenVerifier creates a verifier for tokens signed with secret. A non-empty
// issuer must match the token's iss claim.
func NewTokenVerifier(secret, issuer string) *TokenVerifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30 * time.Second),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	return &TokenVerifier{secret: []byte(secret), parser: jwt.NewParser(opts...)}
}

// Verify returns the principal carried by token. The role is read from the token on
// every call. An unknown role still yields a principal; the authorization guard
// rejects it.
func (v *TokenVerifier) Verify(token string) (*models.Principal, error) {
	claims := &identityClaims{}

	_, err := v.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrUnauthenticated, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", models.ErrUnauthenticated)
	}

	if _, err := uuid.Parse(claims.TenantID); err != nil {
		return nil, fmt.Errorf("%w: token has no valid tenant", models.ErrUnauthenticated)
	}

	return &models.Principal{
		UserID:   claims.Subject,
		Email:    claims.Email,
		Role:     models.Role(claims.AppMetadata.Role),
		TenantID: claims.TenantID,
	}, nil
}

// enforceTimingFloor sleeps if needed so the response takes at least authTimingFloor.
func enforceTimingFloor(start time.Time) {
	if elapsed := time.Since(start); elapsed < authTimingFloor {
		time.Sleep(authTimingFloor - elapsed)
	}
}

// AuthMiddleware authenticates requests by bearer token, checks that the token's
// tenant is active, and places the principal in the request context. When a
// LockoutGuard is given, failures are counted per client address.
func AuthMiddleware(
	verifier *TokenVerifier, tenants TenantChecker, log *logrus.Logger, guards ...*security.LockoutGuard,
) gin.HandlerFunc {
	var guard *security.LockoutGuard
	if len(guards) > 0 {
		guard = guards[0]
	}

	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if c.Writer.Status() == http.StatusUnauthorized {
				enforceTimingFloor(start)
			}
		}()

		token := ExtractBearerToken(c)
		if token == "" {
			respondError(c, http.StatusUnauthorized, "unauthenticated", "missing or invalid authorization header")
			return
		}

		p, err := verifier.Verify(token)
		if err != nil {
			logAuthFailure(log, c, err)
			if guard != nil {
				guard.RecordFailure(c.ClientIP())
			}

			respondError(c, http.StatusUnauthorized, "unauthenticated", "invalid token")
			return
		}

		active, err := tenants.TenantActive(c.Request.Context(), p.TenantID)
		if err != nil {
			log.WithError(err).WithField("tenant_id", p.TenantID).Error("tenant lookup failed")
			respondError(c, http.StatusServiceUnavailable, "dependency_unavailable", "tenant lookup unavailable")
			return
		}

		if !active {
			logAuthFailure(log, c, errors.New("tenant inactive"))
			if guard != nil {
				guard.RecordFailure(c.ClientIP())
			}

			respondError(c, http.StatusUnauthorized, "unauthenticated", "unknown tenant")
			return
		}

		if guard != nil {
			guard.Reset(c.ClientIP())
		}

		c.Set("tenant_id", p.TenantID)
		c.Set("user_id", p.UserID)
		c.Request = c.Request.WithContext(authz.WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

// ExtractBearerToken extracts the token from the Authorization header. Browsers
// cannot set headers on a WebSocket handshake, so upgrade requests may pass it
// as the access_token query parameter instead.
func ExtractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
		return c.Query("access_token")
	}

	return ""
}

// SessionValidator re-checks a long-lived session's token and tenant.
type SessionValidator struct {
	verifier *TokenVerifier
	tenants  TenantChecker
}

// NewSessionValidator creates a SessionValidator.
func NewSessionValidator(verifier *TokenVerifier, tenants TenantChecker) *SessionValidator {
	return &SessionValidator{verifier: verifier, tenants: tenants}
}

// ValidateSession returns the token's tenant if the token is still valid and the
// tenant still active.
func (s *SessionValidator) ValidateSession(ctx context.Context, token string) (string, error) {
	p, err := s.verifier.Verify(token)
	if err != nil {
		return "", err
	}

	active, err := s.tenants.TenantActive(ctx, p.TenantID)
	if err != nil {
		return "", fmt.Errorf("checking tenant: %w", err)
	}

	if !active {
		return "", fmt.Errorf("tenant inactive: %w", models.ErrUnauthenticated)
	}

	return p.TenantID, nil
}

// logAuthFailure logs a failed authentication attempt.
func logAuthFailure(log *logrus.Logger, c *gin.Context, err error) {
	log.WithFields(logrus.Fields{
		"client_ip":  c.ClientIP(),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"user_agent": c.Request.UserAgent(),
		"request_id": c.GetString("request_id"),
	}).WithError(err).Warn("authentication failed")
}
