package department

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
	r.GET("/departments/public", middleware.RateLimitByIP(2, 10), h.GetAll)

	departments := r.Group("/departments")
	departments.Use(middleware.AuthMiddleware(gate))
	{
		departments.GET("", middleware.RBACAuthorize(authz, domain.PermDepartmentRead), h.GetAll)
		departments.GET("/:id", middleware.RBACAuthorize(authz, domain.PermDepartmentRead), h.GetByID)
		departments.POST("", middleware.RBACAuthorize(authz, domain.PermDepartmentManage), h.Create)
		departments.PUT("/:id", middleware.RBACAuthorize(authz, domain.PermDepartmentManage), h.Update)
		departments.DELETE("/:id", middleware.RBACAuthorize(authz, domain.PermDepartmentManage), h.Delete)
	}
}
