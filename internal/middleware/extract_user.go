package middleware

import (
	"go-leave/internal/domain"

	"github.com/gin-gonic/gin"
)

// CurrentPrincipal returns the caller set by AuthMiddleware.
func CurrentPrincipal(c *gin.Context) (domain.Principal, bool) {
	v, exists := c.Get(ContextPrincipal)
	if !exists {
		return domain.Principal{}, false
	}
	p, ok := v.(domain.Principal)
	if !ok || p.UserID == "" {
		return domain.Principal{}, false
	}
	return p, true
}

// WithPrincipal stores p the way AuthMiddleware does. Used by tests and
// internal callers that build a context by hand.
func WithPrincipal(c *gin.Context, p domain.Principal) {
	c.Set(ContextUserID, p.UserID)
	c.Set(ContextRole, p.Role.String())
	c.Set(ContextPrincipal, p)
}
