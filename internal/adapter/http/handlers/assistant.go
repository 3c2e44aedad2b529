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

type AssistantHandler struct {
	assistant ports.AssistantService
}

func NewAssistantHandler(assistant ports.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistant: assistant}
}

func (h *AssistantHandler) Advisor(c *gin.Context) {
	report, err := h.assistant.Report(c.Request.Context(), middleware.GetToken(c))
	if err != nil {
		respondError(c, err, "advisor_report", apierrors.MsgFailAssistant)
		return
	}
	c.JSON(http.StatusOK, mapper.ToAdvisorResponse(report))
}

func (h *AssistantHandler) Briefing(c *gin.Context) {
	briefing, err := h.assistant.Briefing(c.Request.Context(), middleware.GetToken(c))
	if err != nil {
		respondError(c, err, "advisor_briefing", apierrors.MsgFailAssistant)
		return
	}
	c.JSON(http.StatusOK, mapper.ToInsightItem(briefing))
}

// GenerateInsight answers with whichever insight won; its provenance says
// whether the remote stage was used.
func (h *AssistantHandler) GenerateInsight(c *gin.Context) {
	insight, _, err := h.assistant.GenerateInsight(c.Request.Context(), middleware.GetToken(c))
	if err != nil {
		respondError(c, err, "generate_insight", apierrors.MsgFailAssistant)
		return
	}
	c.JSON(http.StatusOK, mapper.ToInsightItem(insight))
}

func (h *AssistantHandler) ChatHistory(c *gin.Context) {
	history, err := h.assistant.ChatHistory(c.Request.Context(), middleware.GetToken(c))
	if err != nil {
		respondError(c, err, "chat_history", apierrors.MsgFailAssistant)
		return
	}
	c.JSON(http.StatusOK, mapper.ToChatMessageItems(history))
}

func (h *AssistantHandler) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidPayload)
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidPayload)
		return
	}

	reply, err := h.assistant.Chat(c.Request.Context(), middleware.GetToken(c), message)
	if err != nil {
		respondError(c, err, "chat", apierrors.MsgFailAssistant)
		return
	}
	c.JSON(http.StatusOK, mapper.ToChatMessageItem(reply))
}

// CreateProject generates the research brief before the project is stored.
func (h *AssistantHandler) CreateProject(c *gin.Context) {
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidPayload)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidPayload)
		return
	}

	project, provenance, err := h.assistant.CreateProject(c.Request.Context(), middleware.GetToken(c), name, strings.TrimSpace(req.Description))
	if err != nil {
		respondError(c, err, "create_project", apierrors.MsgFailCreateProject)
		return
	}

	c.JSON(http.StatusCreated, dto.ProjectResponse{
		Project:            mapper.ToProjectItem(project),
		ResearchProvenance: string(provenance),
	})
}
