package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"crystalos/internal/adapter/http/dto"
	"crystalos/internal/adapter/http/mapper"
	"crystalos/internal/adapter/http/validation"
	"crystalos/internal/core/domain"
	"crystalos/pkg/apierrors"
)

func (h *DashboardHandler) CreateHabit(c *gin.Context) {
	dashboard, ok := dashboardFrom(c)
	if !ok {
		return
	}

	var req dto.CreateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidPayload)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidPayload)
		return
	}

	habitType := domain.HabitTypePermanent
	if req.Type != nil {
		habitType = domain.HabitType(*req.Type)
	}

	habit, err := dashboard.AddHabit(c.Request.Context(), name, habitType)
	if err != nil {
		respondError(c, err, "add_habit", apierrors.MsgFailMutation)
		return
	}

	c.JSON(http.StatusCreated, mapper.ToHabitItem(habit))
}

func (h *DashboardHandler) UpdateHabit(c *gin.Context) {
	dashboard, ok := dashboardFrom(c)
	if !ok {
		return
	}

	var req dto.UpdateHabitRequest
	raw, ok := bindPatch(c, &req)
	if !ok {
		return
	}
	patch, err := validation.BuildHabitPatch(req, raw)
	if err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidPayload)
		return
	}

	habit, err := dashboard.UpdateHabit(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err, "update_habit", apierrors.MsgFailMutation)
		return
	}

	c.JSON(http.StatusOK, mapper.ToHabitItem(habit))
}

func (h *DashboardHandler) ToggleHabit(c *gin.Context) {
	dashboard, ok := dashboardFrom(c)
	if !ok {
		return
	}

	habit, err := dashboard.ToggleHabit(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "toggle_habit", apierrors.MsgFailMutation)
		return
	}

	c.JSON(http.StatusOK, mapper.ToHabitItem(habit))
}

func (h *DashboardHandler) DeleteHabit(c *gin.Context) {
	dashboard, ok := dashboardFrom(c)
	if !ok {
		return
	}

	if err := dashboard.DeleteHabit(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "delete_habit", apierrors.MsgFailMutation)
		return
	}

	c.Status(http.StatusNoContent)
}

// SeedHabits backfills thirty days of logs and answers with the reloaded state.
func (h *DashboardHandler) SeedHabits(c *gin.Context) {
	dashboard, ok := dashboardFrom(c)
	if !ok {
		return
	}

	if err := dashboard.SeedHabitData(c.Request.Context()); err != nil {
		respondError(c, err, "seed_habit_data", apierrors.MsgFailSeedHabits)
		return
	}

	c.JSON(http.StatusOK, mapper.ToStateResponse(dashboard.State()))
}
