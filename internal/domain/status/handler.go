// Package status exposes service liveness and simple object counts.
package status

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"filebox/internal/pkg/response"
	"filebox/internal/queue"
)

// Counter is anything that can report how many records it holds.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// DeadLetterLister exposes jobs that will never run again.
type DeadLetterLister interface {
	DeadLetters(ctx context.Context) ([]queue.DeadJob, error)
}

type Handler struct {
	cacheAlive func() bool
	dbAlive    func() bool
	users      Counter
	files      Counter
	jobs       DeadLetterLister
}

func NewHandler(cacheAlive, dbAlive func() bool, users, files Counter, jobs DeadLetterLister) *Handler {
	return &Handler{cacheAlive: cacheAlive, dbAlive: dbAlive, users: users, files: files, jobs: jobs}
}

// Status handles GET /status.
func (h *Handler) Status(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"cache": h.cacheAlive(),
		"db":    h.dbAlive(),
	})
}

// Stats handles GET /stats.
func (h *Handler) Stats(c *gin.Context) {
	userCount, err := h.users.Count(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal server error")
		return
	}
	fileCount, err := h.files.Count(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal server error")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"users": userCount,
		"files": fileCount,
	})
}

// DeadLetters handles GET /jobs/dead, listing derivative jobs that exhausted
// their retries or failed permanently.
func (h *Handler) DeadLetters(c *gin.Context) {
	dead, err := h.jobs.DeadLetters(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal server error")
		return
	}
	if dead == nil {
		dead = []queue.DeadJob{}
	}
	response.Success(c, http.StatusOK, dead)
}
