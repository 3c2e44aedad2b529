package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crystalos/internal/adapter/http/dto"
	"crystalos/internal/adapter/http/mapper"
	"crystalos/pkg/apierrors"
)

func (h *DashboardHandler) ToggleProject(c *gin.Context) {
	dashboard, ok := dashboardFrom(c)
	if !ok {
		return
	}

	project, err := dashboard.ToggleProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "toggle_project", apierrors.MsgFailMutation)
		return
	}

	c.JSON(http.StatusOK, mapper.ToProjectItem(project))
}

// UpdateProjectProgress clamps the value into [0, 100].
func (h *DashboardHandler) UpdateProjectProgress(c *gin.Context) {
	dashboard, ok := dashboardFrom(c)
	if !ok {
		return
	}

	var req dto.ProjectProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidPayload)
		return
	}

	project, err := dashboard.UpdateProjectProgress(c.Request.Context(), c.Param("id"), *req.Progress)
	if err != nil {
		respondError(c, err, "update_project_progress", apierrors.MsgFailMutation)
		return
	}

	c.JSON(http.StatusOK, mapper.ToProjectItem(project))
}

func (h *DashboardHandler) DeleteProject(c *gin.Context) {
	dashboard, ok := dashboardFrom(c)
	if !ok {
		return
	}

	if err := dashboard.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "delete_project", apierrors.MsgFailMutation)
		return
	}

	c.Status(http.StatusNoContent)
}
