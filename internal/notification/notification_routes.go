package notification

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, gate middleware.Authenticator) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware(gate), middleware.RateLimitByUser(5, 20))
	{
		notifications.GET("", h.GetAll)
		notifications.PUT("/read-all", h.MarkAllRead)
		notifications.PUT("/:id/read", h.MarkRead)
	}
}
