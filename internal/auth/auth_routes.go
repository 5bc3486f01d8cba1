package auth

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, gate middleware.Authenticator) {
	loginLimit := middleware.RateLimitByIP(0.08, 5)

	r.POST("/login", loginLimit, handler.Login)

	auth := r.Group("/auth")
	{
		auth.POST("/login", loginLimit, handler.Login)
		auth.POST("/logout", handler.Logout)
	}

	authed := auth.Group("")
	authed.Use(middleware.AuthMiddleware(gate), middleware.RateLimitByUser(2, 5))
	{
		authed.GET("/me", handler.Me)
		authed.PUT("/profile", handler.UpdateProfile)
		authed.PUT("/password", handler.ChangePassword)
	}
}
