package sessions

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"filebox/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Connect handles GET /connect: Basic credentials in, session token out.
func (h *Handler) Connect(c *gin.Context) {
	email, password, ok := c.Request.BasicAuth()
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	token, err := h.service.Authenticate(c.Request.Context(), email, password)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		} else {
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal server error")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"token": token})
}

// Disconnect handles GET /disconnect: the token in X-Token is destroyed.
func (h *Handler) Disconnect(c *gin.Context) {
	token := c.GetHeader("X-Token")

	if _, err := h.service.Resolve(c.Request.Context(), token); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		} else {
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal server error")
		}
		return
	}

	if err := h.service.Invalidate(c.Request.Context(), token); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal server error")
		return
	}

	c.Status(http.StatusNoContent)
}
