package files

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"filebox/internal/pkg/response"
	"filebox/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Name     string `json:"name" validate:"required"`
	Type     string `json:"type" validate:"required,oneof=folder file image"`
	ParentID string `json:"parentId"`
	IsPublic bool   `json:"isPublic"`
	Data     string `json:"data"`
}

// Upload handles POST /files.
func (h *Handler) Upload(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		if _, ok := errs["Name"]; ok {
			response.Error(c, http.StatusBadRequest, "MISSING_NAME", "Missing name")
			return
		}
		response.Error(c, http.StatusBadRequest, "MISSING_TYPE", "Missing type")
		return
	}

	f, err := h.service.Create(c.Request.Context(), userID, CreateInput{
		Name:     req.Name,
		Kind:     req.Type,
		ParentID: req.ParentID,
		IsPublic: req.IsPublic,
		Data:     req.Data,
	})
	if err != nil {
		switch err {
		case ErrMissingName:
			response.Error(c, http.StatusBadRequest, "MISSING_NAME", "Missing name")
		case ErrMissingKind:
			response.Error(c, http.StatusBadRequest, "MISSING_TYPE", "Missing type")
		case ErrMissingData:
			response.Error(c, http.StatusBadRequest, "MISSING_DATA", "Missing data")
		case ErrInvalidData:
			response.Error(c, http.StatusBadRequest, "INVALID_DATA", "Invalid data")
		case ErrParentNotFound:
			response.Error(c, http.StatusBadRequest, "PARENT_NOT_FOUND", "Parent not found")
		case ErrParentNotFolder:
			response.Error(c, http.StatusBadRequest, "PARENT_NOT_FOLDER", "Parent is not a folder")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal server error")
		}
		return
	}

	response.Success(c, http.StatusCreated, nodeView(f))
}

// Show handles GET /files/:id.
func (h *Handler) Show(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}

	f, err := h.service.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch err {
		case ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal server error")
		}
		return
	}

	response.Success(c, http.StatusOK, nodeView(f))
}

// Index handles GET /files?parentId=&page=&pageSize=.
func (h *Handler) Index(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "0"))
	if pageSize > 100 {
		pageSize = 100
	}

	nodes, err := h.service.List(c.Request.Context(), userID, c.Query("parentId"), page, pageSize)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal server error")
		return
	}

	items := make([]gin.H, 0, len(nodes))
	for _, f := range nodes {
		items = append(items, nodeView(f))
	}
	response.Success(c, http.StatusOK, items)
}

// Publish handles PUT /files/:id/publish.
func (h *Handler) Publish(c *gin.Context) {
	h.setVisibility(c, true)
}

// Unpublish handles PUT /files/:id/unpublish.
func (h *Handler) Unpublish(c *gin.Context) {
	h.setVisibility(c, false)
}

func (h *Handler) setVisibility(c *gin.Context, public bool) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}

	f, err := h.service.SetVisibility(c.Request.Context(), userID, c.Param("id"), public)
	if err != nil {
		switch err {
		case ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal server error")
		}
		return
	}

	response.Success(c, http.StatusOK, nodeView(f))
}

// Data handles GET /files/:id/data?size=. The route carries optional
// authentication: anonymous callers can read public content.
func (h *Handler) Data(c *gin.Context) {
	userID := c.GetInt64("user_id") // zero when anonymous

	width, _ := strconv.Atoi(c.Query("size"))

	data, contentType, err := h.service.ReadContent(c.Request.Context(), userID, c.Param("id"), width)
	if err != nil {
		switch err {
		case ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Not found")
		case ErrFolderNoContent:
			response.Error(c, http.StatusBadRequest, "FOLDER_NO_CONTENT", "A folder doesn't have content")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal server error")
		}
		return
	}

	c.Data(http.StatusOK, contentType, data)
}

func nodeView(f *File) gin.H {
	return gin.H{
		"id":       f.ID,
		"userId":   f.UserID,
		"name":     f.Name,
		"type":     f.Kind,
		"isPublic": f.IsPublic,
		"parentId": f.ParentID,
	}
}

func mustUserID(c *gin.Context) int64 {
	id := c.GetInt64("user_id")
	if id == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
	}
	return id
}
