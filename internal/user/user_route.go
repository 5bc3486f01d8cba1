package user

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
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware(gate))
	users.Use(middleware.RBACAuthorize(authz, domain.PermUserManage))
	{
		users.GET("", middleware.RateLimitByUser(3, 10), handler.GetAll)
		users.GET("/:id", middleware.RateLimitByUser(3, 10), handler.GetByID)
		users.POST("", middleware.RateLimitByUser(0.5, 2), handler.Create)
		users.PUT("/:id", middleware.RateLimitByUser(0.5, 2), handler.Update)
		users.DELETE("/:id", middleware.RateLimitByUser(0.5, 2), handler.Delete)
	}
}
