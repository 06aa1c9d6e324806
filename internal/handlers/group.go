package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/avolkov/task-manager-api/internal/dto"
	apierrors "github.com/avolkov/task-manager-api/internal/errors"
	"github.com/avolkov/task-manager-api/internal/middleware"
	"github.com/avolkov/task-manager-api/internal/services"
	"github.com/gin-gonic/gin"
)

// GroupHandler coordinates group HTTP handlers.
type GroupHandler struct {
	groupService *services.GroupService
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(groupService *services.GroupService) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
	}
}

// GroupRequest is the body for creating and updating groups.
type GroupRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description" binding:"max=1000"`
}

// Create creates a new group owned by the caller.
func (h *GroupHandler) Create(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	group, err := h.groupService.Create(c.Request.Context(), principal, services.GroupInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondGroupError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToGroupDTO(*group))
}

// List returns the groups visible to the caller.
func (h *GroupHandler) List(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	groups, err := h.groupService.List(c.Request.Context(), principal)
	if err != nil {
		respondGroupError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupDTOs(groups))
}

// Get returns a single group.
func (h *GroupHandler) Get(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	group, err := h.groupService.Get(c.Request.Context(), principal, id)
	if err != nil {
		respondGroupError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupDTO(*group))
}

// GetWithTasks returns a group with its full task list.
func (h *GroupHandler) GetWithTasks(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	group, err := h.groupService.GetWithTasks(c.Request.Context(), principal, id)
	if err != nil {
		respondGroupError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupWithTasksDTO(*group))
}

// ListTasks returns the tasks belonging to a group.
func (h *GroupHandler) ListTasks(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tasks, err := h.groupService.ListTasks(c.Request.Context(), principal, id)
	if err != nil {
		respondGroupError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// Update changes a group's name and description.
func (h *GroupHandler) Update(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	group, err := h.groupService.Update(c.Request.Context(), principal, id, services.GroupInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondGroupError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupDTO(*group))
}

// Delete removes a group and all of its tasks.
func (h *GroupHandler) Delete(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.groupService.Delete(c.Request.Context(), principal, id); err != nil {
		respondGroupError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AttachTask moves a task into the group.
func (h *GroupHandler) AttachTask(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "taskId")
	if !ok {
		return
	}

	group, err := h.groupService.AttachTask(c.Request.Context(), principal, id, taskID)
	if err != nil {
		respondGroupError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupWithTasksDTO(*group))
}

// DetachTask removes a task from the group.
func (h *GroupHandler) DetachTask(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "taskId")
	if !ok {
		return
	}

	group, err := h.groupService.DetachTask(c.Request.Context(), principal, id, taskID)
	if err != nil {
		respondGroupError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupWithTasksDTO(*group))
}

func respondGroupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		apierrors.Timeout(c, "")
	case errors.Is(err, services.ErrGroupNotFound),
		errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrPermissionDenied):
		apierrors.Forbidden(c, "")
	case errors.Is(err, services.ErrGroupNameRequired),
		errors.Is(err, services.ErrGroupNameTooLong):
		apierrors.BadRequest(c, err.Error(), "name")
	case errors.Is(err, services.ErrDescriptionTooLong):
		apierrors.BadRequest(c, err.Error(), "description")
	default:
		apierrors.InternalError(c, "")
	}
}
