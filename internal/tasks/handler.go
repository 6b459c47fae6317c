package tasks

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/taskvault/taskvault/internal/auth"
	apperrors "github.com/taskvault/taskvault/internal/errors"
	"github.com/taskvault/taskvault/internal/server"
)

// Handler exposes the /tasks endpoints. Every route is guarded; the auth
// middleware has already attached the current user by the time a handler
// runs.
type Handler struct {
	svc *Service
}

// NewHandler creates the task handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the task routes on the guarded router group.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("", h.List)
	r.GET("/:id", h.Get)
	r.POST("", h.Create)
	r.PATCH("/:id/status", h.UpdateStatus)
	r.DELETE("/:id", h.Delete)
}

// List handles GET /tasks.
func (h *Handler) List(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		server.RespondWithError(c, apperrors.Unauthorized(""))
		return
	}

	var filter Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		server.RespondWithError(c, apperrors.Validation("invalid query parameters").WithCause(err))
		return
	}

	list, err := h.svc.List(c.Request.Context(), user.ID, filter)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, list)
}

// Get handles GET /tasks/:id.
func (h *Handler) Get(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		server.RespondWithError(c, apperrors.Unauthorized(""))
		return
	}

	id, err := parseID(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	task, err := h.svc.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, task)
}

// Create handles POST /tasks.
func (h *Handler) Create(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		server.RespondWithError(c, apperrors.Unauthorized(""))
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.Validation("invalid request body").WithCause(err))
		return
	}

	task, err := h.svc.Create(c.Request.Context(), user.ID, req)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, task)
}

// UpdateStatus handles PATCH /tasks/:id/status.
func (h *Handler) UpdateStatus(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		server.RespondWithError(c, apperrors.Unauthorized(""))
		return
	}

	id, err := parseID(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.Validation("invalid request body").WithCause(err))
		return
	}

	task, err := h.svc.UpdateStatus(c.Request.Context(), user.ID, id, req)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, task)
}

// Delete handles DELETE /tasks/:id.
func (h *Handler) Delete(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		server.RespondWithError(c, apperrors.Unauthorized(""))
		return
	}

	id, err := parseID(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), user.ID, id); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondNoContent(c)
}

func parseID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperrors.Validation("id must be a valid UUID")
	}
	return id, nil
}
