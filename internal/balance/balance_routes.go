package balance

import (
	"go-leave/internal/domain"
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	h *Handler,
	gate middleware.Authenticator,
	authz domain.Authorizer,
) {
	balances := r.Group("/leave-balances")
	balances.Use(middleware.AuthMiddleware(gate))
	{
		balances.GET("", middleware.RBACAuthorize(authz, domain.PermBalanceRead), h.List)
		balances.PUT("", middleware.RBACAuthorize(authz, domain.PermBalanceOverride), h.SetByKey)
		balances.PUT("/:id", middleware.RBACAuthorize(authz, domain.PermBalanceOverride), h.SetByID)
		balances.POST("/initialize/:userId", middleware.RBACAuthorize(authz, domain.PermBalanceOverride), h.Initialize)
	}
}
