package files

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the metadata operations; the group must require a
// session.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	f := r.Group("/files")
	{
		f.POST("", h.Upload)
		f.GET("", h.Index)
		f.GET("/:id", h.Show)
		f.PUT("/:id/publish", h.Publish)
		f.PUT("/:id/unpublish", h.Unpublish)
	}
}

// RegisterContentRoutes mounts content retrieval; the group carries optional
// authentication so public content is readable anonymously.
func RegisterContentRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/files/:id/data", h.Data)
}
