package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crystalos/internal/adapter/http/dto"
	"crystalos/internal/adapter/http/mapper"
	"crystalos/internal/adapter/http/validation"
	"crystalos/pkg/apierrors"
)

func (h *DashboardHandler) SetTheme(c *gin.Context) {
	dashboard, ok := dashboardFrom(c)
	if !ok {
		return
	}

	var req dto.ThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidPayload)
		return
	}

	dashboard.SetThemeColor(c.Request.Context(), req.Color)
	c.JSON(http.StatusOK, mapper.ToStateResponse(dashboard.State()))
}

func (h *DashboardHandler) ToggleDarkMode(c *gin.Context) {
	dashboard, ok := dashboardFrom(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.DarkModeResponse{IsDarkMode: dashboard.ToggleDarkMode()})
}

func (h *DashboardHandler) UpdateFocus(c *gin.Context) {
	dashboard, ok := dashboardFrom(c)
	if !ok {
		return
	}

	var req dto.FocusRequest
	raw, ok := bindPatch(c, &req)
	if !ok {
		return
	}
	patch, err := validation.BuildFocusPatch(req, raw)
	if err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidPayload)
		return
	}

	c.JSON(http.StatusOK, mapper.ToFocusModeItem(dashboard.UpdateFocusMode(patch)))
}

func (h *DashboardHandler) UpdateAmbient(c *gin.Context) {
	dashboard, ok := dashboardFrom(c)
	if !ok {
		return
	}

	var req dto.AmbientRequest
	raw, ok := bindPatch(c, &req)
	if !ok {
		return
	}
	patch, err := validation.BuildAmbientPatch(req, raw)
	if err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidPayload)
		return
	}

	c.JSON(http.StatusOK, mapper.ToAmbientItem(dashboard.SetAmbient(patch)))
}

// UpdateAISettings never echoes the stored key back.
func (h *DashboardHandler) UpdateAISettings(c *gin.Context) {
	dashboard, ok := dashboardFrom(c)
	if !ok {
		return
	}

	var req dto.AISettingsRequest
	raw, ok := bindPatch(c, &req)
	if !ok {
		return
	}
	settings, err := validation.BuildAISettings(dashboard.AISettings(), req, raw)
	if err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidPayload)
		return
	}

	dashboard.SetAISettings(settings)
	c.JSON(http.StatusOK, mapper.ToAISettingsItem(settings))
}
