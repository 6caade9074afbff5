package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/claimdesk/claimdesk/internal/authz"
)

// Me handles GET /me and returns the authenticated principal.
func Me(c *gin.Context) {
	p, ok := authz.PrincipalFromContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusUnauthorized, ErrCodeUnauthenticated, "authentication required")
		return
	}

	c.JSON(http.StatusOK, p)
}
