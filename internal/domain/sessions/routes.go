package sessions

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/connect", h.Connect)
	r.GET("/disconnect", h.Disconnect)
}
