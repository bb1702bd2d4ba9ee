package status

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the public health endpoints.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/status", h.Status)
	r.GET("/stats", h.Stats)
}

// RegisterProtectedRoutes mounts endpoints that require a session.
func RegisterProtectedRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/jobs/dead", h.DeadLetters)
}
