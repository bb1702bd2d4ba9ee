package users

import (
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

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /users.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body", err.Error())
		return
	}

	u, err := h.service.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch err {
		case ErrMissingEmail:
			response.Error(c, http.StatusBadRequest, "MISSING_EMAIL", "Missing email")
		case ErrMissingPassword:
			response.Error(c, http.StatusBadRequest, "MISSING_PASSWORD", "Missing password")
		case ErrEmailTaken:
			response.Error(c, http.StatusBadRequest, "ALREADY_EXIST", "Already exist")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal server error")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"id":    u.ID,
		"email": u.Email,
	})
}

// Me handles GET /users/me for the authenticated principal.
func (h *Handler) Me(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		switch err {
		case ErrUserNotFound:
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal server error")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"id":    u.ID,
		"email": u.Email,
	})
}
