package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/avolkov/task-manager-api/internal/dto"
	apierrors "github.com/avolkov/task-manager-api/internal/errors"
	"github.com/avolkov/task-manager-api/internal/middleware"
	"github.com/avolkov/task-manager-api/internal/models"
	"github.com/avolkov/task-manager-api/internal/services"
	"github.com/gin-gonic/gin"
)

// TaskHandler coordinates task HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// List returns the tasks visible to the caller.
func (h *TaskHandler) List(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, err := h.taskService.List(c.Request.Context(), principal)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// ListWithoutGroup returns the caller's tasks that are not in any group.
func (h *TaskHandler) ListWithoutGroup(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, err := h.taskService.ListUngrouped(c.Request.Context(), principal)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// Get returns a single task.
func (h *TaskHandler) Get(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), principal, id)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// Create creates a new task owned by the caller.
func (h *TaskHandler) Create(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title       string            `json:"title" binding:"required,max=255"`
		Description string            `json:"description" binding:"max=1000"`
		Status      models.TaskStatus `json:"status"`
		GroupID     *uint64           `json:"group_id"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), principal, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		GroupID:     req.GroupID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// Update applies a partial update. The group_id field distinguishes omitted
// (keep) from explicit null (clear) via dto.OptionalID.
func (h *TaskHandler) Update(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Title       *string            `json:"title"`
		Description *string            `json:"description"`
		Status      *models.TaskStatus `json:"status"`
		GroupID     dto.OptionalID     `json:"group_id"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	}
	if req.GroupID.Set {
		if req.GroupID.Value == nil {
			input.ClearGroup = true
		} else {
			input.GroupID = req.GroupID.Value
		}
	}

	task, err := h.taskService.Update(c.Request.Context(), principal, id, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// Delete removes a task.
func (h *TaskHandler) Delete(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), principal, id); err != nil {
		respondTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AssignGroup moves the task into the group given in the path.
func (h *TaskHandler) AssignGroup(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	groupID, ok := parseIDParam(c, "groupId")
	if !ok {
		return
	}

	task, err := h.taskService.SetGroup(c.Request.Context(), principal, id, &groupID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// ClearGroup detaches the task from its group.
func (h *TaskHandler) ClearGroup(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.SetGroup(c.Request.Context(), principal, id, nil)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		apierrors.Timeout(c, "")
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrGroupNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrPermissionDenied):
		apierrors.Forbidden(c, "")
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleTooLong):
		apierrors.BadRequest(c, err.Error(), "title")
	case errors.Is(err, services.ErrDescriptionTooLong):
		apierrors.BadRequest(c, err.Error(), "description")
	case errors.Is(err, services.ErrInvalidStatus):
		apierrors.BadRequest(c, err.Error(), "status")
	default:
		apierrors.InternalError(c, "")
	}
}

// parseIDParam parses a numeric path parameter, responding 400 on failure.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name+" parameter", name)
		return 0, false
	}
	return id, true
}
