package middleware

import (
	"context"
	"strings"

	"go-leave/internal/domain"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ContextUserID    = "user_id"
	ContextRole      = "role"
	ContextPrincipal = "principal"

	AccessTokenCookie = "access_token"
)

// Authenticator resolves a bearer token to the calling user. Any failure is
// reported as ok == false.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Principal, bool)
}

// AuthMiddleware accepts "Authorization: Bearer <token>" and falls back to the
// access_token cookie.
func AuthMiddleware(gate Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}
		tokenString = strings.TrimSpace(tokenString)

		if tokenString == "" {
			if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Abort(c, apperror.ErrUnauthorized.HTTPStatus, apperror.ErrUnauthorized.Code, "Token not found")
			return
		}

		principal, ok := gate.Authenticate(c.Request.Context(), tokenString)
		if !ok || principal == nil {
			response.Abort(c, apperror.ErrUnauthorized.HTTPStatus, apperror.ErrUnauthorized.Code, "Invalid or expired token")
			return
		}

		c.Set(ContextUserID, principal.UserID)
		c.Set(ContextRole, principal.Role.String())
		c.Set(ContextPrincipal, *principal)

		ctx := contextutil.WithUserID(c.Request.Context(), principal.UserID)
		ctx = contextutil.WithRole(ctx, principal.Role.String())
		reqLogger := contextutil.GetLogger(ctx, zap.L()).With(zap.String("user_id", principal.UserID))
		ctx = contextutil.WithLogger(ctx, reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
