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

// StatisticsHandler coordinates the statistics HTTP handlers.
type StatisticsHandler struct {
	statsService *services.StatisticsService
}

// NewStatisticsHandler creates a new StatisticsHandler.
func NewStatisticsHandler(statsService *services.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{
		statsService: statsService,
	}
}

// General returns the overall totals, scoped by the caller's role.
func (h *StatisticsHandler) General(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	stats, err := h.statsService.General(c.Request.Context(), principal)
	if err != nil {
		respondStatisticsError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStatisticsDTO(*stats))
}

// Dashboard returns the dashboard view of the general statistics.
func (h *StatisticsHandler) Dashboard(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	stats, err := h.statsService.Dashboard(c.Request.Context(), principal)
	if err != nil {
		respondStatisticsError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStatisticsDTO(*stats))
}

// Groups returns the per-group breakdown.
func (h *StatisticsHandler) Groups(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	rows, err := h.statsService.Groups(c.Request.Context(), principal)
	if err != nil {
		respondStatisticsError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupStatisticsDTOs(rows))
}

// Users returns the per-user breakdown. Admin only.
func (h *StatisticsHandler) Users(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	rows, err := h.statsService.Users(c.Request.Context(), principal)
	if err != nil {
		respondStatisticsError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserStatisticsDTOs(rows))
}

// TopGroups returns the five groups with the most tasks. Admin only.
func (h *StatisticsHandler) TopGroups(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	rows, err := h.statsService.TopGroups(c.Request.Context(), principal)
	if err != nil {
		respondStatisticsError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupStatisticsDTOs(rows))
}

// TopUsers returns the five users with the most tasks. Admin only.
func (h *StatisticsHandler) TopUsers(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	rows, err := h.statsService.TopUsers(c.Request.Context(), principal)
	if err != nil {
		respondStatisticsError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserStatisticsDTOs(rows))
}

func respondStatisticsError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		apierrors.Timeout(c, "")
	case errors.Is(err, services.ErrAdminOnly):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
