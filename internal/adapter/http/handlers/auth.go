package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"crystalos/internal/adapter/http/dto"
	"crystalos/internal/adapter/http/mapper"
	"crystalos/internal/adapter/http/middleware"
	"crystalos/internal/core/ports"
	"crystalos/pkg/apierrors"
)

type AuthHandler struct {
	sessions ports.SessionService
}

func NewAuthHandler(sessions ports.SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req dto.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidPayload)
		return
	}

	session, err := h.sessions.SignUp(c.Request.Context(), req.Email, req.Password, strings.TrimSpace(req.Username))
	if err != nil {
		respondError(c, err, "sign_up", apierrors.MsgFailSignUp)
		return
	}

	c.JSON(http.StatusCreated, mapper.ToSessionResponse(session))
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req dto.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidPayload)
		return
	}

	session, err := h.sessions.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "sign_in", apierrors.MsgFailSignIn)
		return
	}

	c.JSON(http.StatusOK, mapper.ToSessionResponse(session))
}

// SignOut ends the session of the bearer token. Unknown tokens are accepted.
func (h *AuthHandler) SignOut(c *gin.Context) {
	token := middleware.BearerToken(c)
	if token == "" {
		writeError(c, http.StatusUnauthorized, apierrors.MsgSessionRequired)
		return
	}

	if err := h.sessions.SignOut(c.Request.Context(), token); err != nil {
		respondError(c, err, "sign_out", apierrors.MsgFailSignOut)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Session(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, apierrors.MsgSessionRequired)
		return
	}

	c.JSON(http.StatusOK, mapper.ToSessionResponse(session))
}
