package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crystalos/internal/adapter/http/dto"
	"crystalos/internal/adapter/http/mapper"
	"crystalos/internal/adapter/http/validation"
	"crystalos/pkg/apierrors"
)

func (h *DashboardHandler) CreateTimetableItem(c *gin.Context) {
	dashboard, ok := dashboardFrom(c)
	if !ok {
		return
	}

	var req dto.CreateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidPayload)
		return
	}
	item, err := validation.BuildTimetableItem(req)
	if err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidPayload)
		return
	}

	created, err := dashboard.AddTimetableItem(c.Request.Context(), item)
	if err != nil {
		respondError(c, err, "add_timetable_item", apierrors.MsgFailMutation)
		return
	}

	c.JSON(http.StatusCreated, mapper.ToTimetableItem(created))
}

func (h *DashboardHandler) UpdateTimetableItem(c *gin.Context) {
	dashboard, ok := dashboardFrom(c)
	if !ok {
		return
	}

	var req dto.UpdateTimetableRequest
	raw, ok := bindPatch(c, &req)
	if !ok {
		return
	}
	patch, err := validation.BuildTimetablePatch(req, raw)
	if err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidPayload)
		return
	}

	item, err := dashboard.UpdateTimetableItem(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err, "update_timetable_item", apierrors.MsgFailMutation)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTimetableItem(item))
}

func (h *DashboardHandler) ToggleTimetableItem(c *gin.Context) {
	dashboard, ok := dashboardFrom(c)
	if !ok {
		return
	}

	item, err := dashboard.ToggleTimetableItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "toggle_timetable_item", apierrors.MsgFailMutation)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTimetableItem(item))
}

func (h *DashboardHandler) DeleteTimetableItem(c *gin.Context) {
	dashboard, ok := dashboardFrom(c)
	if !ok {
		return
	}

	if err := dashboard.DeleteTimetableItem(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "delete_timetable_item", apierrors.MsgFailMutation)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *DashboardHandler) TodaysActivities(c *gin.Context) {
	dashboard, ok := dashboardFrom(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, mapper.ToTimetableItems(dashboard.TodaysActivities()))
}
