package leavetype

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
	leaveTypes := r.Group("/leave-types")
	leaveTypes.Use(middleware.AuthMiddleware(gate))
	{
		leaveTypes.GET("", middleware.RBACAuthorize(authz, domain.PermLeaveTypeRead), h.GetAll)
		leaveTypes.GET("/:id", middleware.RBACAuthorize(authz, domain.PermLeaveTypeRead), h.GetByID)
		leaveTypes.POST("", middleware.RBACAuthorize(authz, domain.PermLeaveTypeManage), h.Create)
		leaveTypes.PUT("/:id", middleware.RBACAuthorize(authz, domain.PermLeaveTypeManage), h.Update)
		leaveTypes.DELETE("/:id", middleware.RBACAuthorize(authz, domain.PermLeaveTypeManage), h.Delete)
	}
}
