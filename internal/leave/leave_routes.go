package leave

import (
	"time"

	"go-leave/internal/domain"
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

func RegisterRoutes(
	r *gin.RouterGroup,
	h *Handler,
	gate middleware.Authenticator,
	authz domain.Authorizer,
	rdb *redis.Client,
) {
	leaves := r.Group("/leave-requests")
	leaves.Use(middleware.AuthMiddleware(gate))
	{
		leaves.GET("", middleware.RBACAuthorize(authz, domain.PermLeaveRead), h.GetAll)
		leaves.GET("/:id", middleware.RBACAuthorize(authz, domain.PermLeaveRead), h.GetByID)
		leaves.POST("",
			middleware.RBACAuthorize(authz, domain.PermLeaveCreate),
			middleware.Idempotency(rdb, idempotencyTTL),
			h.Create,
		)
		leaves.PUT("/:id", middleware.RBACAuthorize(authz, domain.PermLeaveApprove), h.Update)
		leaves.DELETE("/:id", middleware.RBACAuthorize(authz, domain.PermLeaveDelete), h.Delete)
	}

	stats := r.Group("/leave-statistics")
	stats.Use(middleware.AuthMiddleware(gate), middleware.RBACAuthorize(authz, domain.PermLeaveApprove))
	{
		stats.GET("/departments", h.DepartmentStats)
		stats.GET("/periods", h.PeriodStats)
	}
}
