package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"crystalos/internal/adapter/http/dto"
	"crystalos/internal/adapter/http/mapper"
	"crystalos/internal/core/domain"
	"crystalos/pkg/apierrors"
)

// DashboardHandler drives the dashboard that SessionMiddleware attached to
// the request.
type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

func (h *DashboardHandler) GetState(c *gin.Context) {
	dashboard, ok := dashboardFrom(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, mapper.ToStateResponse(dashboard.State()))
}

func (h *DashboardHandler) Refresh(c *gin.Context) {
	dashboard, ok := dashboardFrom(c)
	if !ok {
		return
	}

	if err := dashboard.FetchData(c.Request.Context()); err != nil {
		if errors.Is(err, domain.ErrNoActiveUser) {
			writeError(c, http.StatusUnauthorized, apierrors.MsgSessionRequired)
			return
		}
		zap.L().Warn("dashboard refresh failed", zap.Error(err))
		writeError(c, http.StatusBadGateway, apierrors.MsgFailRefresh)
		return
	}

	c.JSON(http.StatusOK, mapper.ToStateResponse(dashboard.State()))
}

func (h *DashboardHandler) CompletionRate(c *gin.Context) {
	dashboard, ok := dashboardFrom(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.CompletionRateResponse{Rate: dashboard.CompletionRate()})
}

func (h *DashboardHandler) CreateTask(c *gin.Context) {
	dashboard, ok := dashboardFrom(c)
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidPayload)
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidPayload)
		return
	}

	task, err := dashboard.AddTask(c.Request.Context(), title)
	if err != nil {
		respondError(c, err, "add_task", apierrors.MsgFailMutation)
		return
	}

	c.JSON(http.StatusCreated, mapper.ToTaskItem(task))
}

func (h *DashboardHandler) ToggleTask(c *gin.Context) {
	dashboard, ok := dashboardFrom(c)
	if !ok {
		return
	}

	task, err := dashboard.ToggleTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "toggle_task", apierrors.MsgFailMutation)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *DashboardHandler) DeleteTask(c *gin.Context) {
	dashboard, ok := dashboardFrom(c)
	if !ok {
		return
	}

	if err := dashboard.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "delete_task", apierrors.MsgFailMutation)
		return
	}

	c.Status(http.StatusNoContent)
}
