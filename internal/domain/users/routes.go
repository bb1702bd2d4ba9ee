package users

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the public registration endpoint.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	r.POST("/users", h.Register)
}

// RegisterProtectedRoutes mounts endpoints that require a session.
func RegisterProtectedRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/users/me", h.Me)
}
