package rbac

import (
	"go-leave/internal/domain"
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	gate middleware.Authenticator,
	authz domain.Authorizer,
) {
	group := r.Group("/rbac")
	group.Use(middleware.AuthMiddleware(gate), middleware.RBACAuthorize(authz, domain.PermRBACInspect))
	{
		group.POST("/enforce", handler.Enforce)
		group.GET("/roles/:role/permissions", handler.Permissions)
	}
}
