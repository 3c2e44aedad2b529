package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"crystalos/internal/adapter/http/middleware"
	"crystalos/internal/core/domain"
	"crystalos/internal/core/ports"
	"crystalos/pkg/apierrors"
)

var knownErrors = []struct {
	err    error
	status int
	msgKey string
}{
	{domain.ErrNoActiveUser, http.StatusUnauthorized, apierrors.MsgSessionRequired},
	{domain.ErrSessionNotFound, http.StatusUnauthorized, apierrors.MsgSessionRequired},
	{domain.ErrSessionExpired, http.StatusUnauthorized, apierrors.MsgSessionExpired},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, apierrors.MsgInvalidCredentials},
	{domain.ErrEmailTaken, http.StatusConflict, apierrors.MsgEmailTaken},
	{domain.ErrTaskNotFound, http.StatusNotFound, apierrors.MsgTaskNotFound},
	{domain.ErrHabitNotFound, http.StatusNotFound, apierrors.MsgHabitNotFound},
	{domain.ErrProjectNotFound, http.StatusNotFound, apierrors.MsgProjectNotFound},
	{domain.ErrTimetableNotFound, http.StatusNotFound, apierrors.MsgTimetableNotFound},
	{domain.ErrNotificationNotFound, http.StatusNotFound, apierrors.MsgNotificationNotFound},
	{domain.ErrInvalidSchedule, http.StatusBadRequest, apierrors.MsgInvalidPayload},
}

func writeError(c *gin.Context, status int, msgKey string) {
	c.JSON(status, apierrors.CreateError(status, msgKey, middleware.GetLang(c)))
}

// respondError maps domain sentinels to their status and falls back to a 500
// carrying fallbackKey.
func respondError(c *gin.Context, err error, op string, fallbackKey string) {
	for _, known := range knownErrors {
		if errors.Is(err, known.err) {
			writeError(c, known.status, known.msgKey)
			return
		}
	}

	zap.L().Error("request failed", zap.String("op", op), zap.Error(err))
	writeError(c, http.StatusInternalServerError, fallbackKey)
}

// bindPatch binds a partial update body and also returns its raw fields so
// absent keys can be told apart from explicit nulls.
func bindPatch(c *gin.Context, req any) (map[string]json.RawMessage, bool) {
	body, err := c.GetRawData()
	if err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidPayload)
		return nil, false
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidPayload)
		return nil, false
	}
	if err := binding.JSON.BindBody(body, req); err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidPayload)
		return nil, false
	}
	return raw, true
}

func dashboardFrom(c *gin.Context) (ports.Dashboard, bool) {
	dashboard, ok := middleware.GetDashboard(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, apierrors.MsgSessionRequired)
		return nil, false
	}
	return dashboard, true
}
