package tests

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"crystalos/internal/adapter/http/dto"
	"crystalos/internal/adapter/http/handlers"
	"crystalos/internal/core/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func assistantRouter(assistant *assistantServiceMock) *gin.Engine {
	h := handlers.NewAssistantHandler(assistant)
	router := newRouter()
	api := router.Group("/api", withDashboard(new(dashboardMock)))
	api.GET("/advisor", h.Advisor)
	api.GET("/advisor/briefing", h.Briefing)
	api.POST("/insights", h.GenerateInsight)
	api.GET("/chat", h.ChatHistory)
	api.POST("/chat", h.Chat)
	api.POST("/projects", h.CreateProject)
	return router
}

func TestAssistantHandler_Advisor(t *testing.T) {
	assistant := new(assistantServiceMock)
	assistant.On("Report", mock.Anything, "token-1").Return(domain.AdvisorReport{
		Motivation: "Stay sharp.",
		Insights:   []domain.AdvisorInsight{{Title: "Backlog", Message: "Clear two tasks", Type: domain.SeverityWarning}},
		Status:     domain.StatusOptimal,
	}, nil).Once()

	rec := doJSON(t, assistantRouter(assistant), http.MethodGet, "/api/advisor", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[dto.AdvisorResponse](t, rec)
	assert.Equal(t, "Stay sharp.", got.Motivation)
	require.Len(t, got.Insights, 1)
	assert.Equal(t, string(domain.SeverityWarning), got.Insights[0].Type)
	assistant.AssertExpectations(t)
}

func TestAssistantHandler_Briefing(t *testing.T) {
	assistant := new(assistantServiceMock)
	assistant.On("Briefing", mock.Anything, "token-1").Return(domain.Insight{
		Message: "Morning protocol", Mode: domain.ModeLocalEngine, Provenance: domain.ProvenanceLocal,
	}, nil).Once()

	rec := doJSON(t, assistantRouter(assistant), http.MethodGet, "/api/advisor/briefing", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Local Engine", decode[dto.InsightItem](t, rec).Mode)
}

func TestAssistantHandler_GenerateInsight(t *testing.T) {
	assistant := new(assistantServiceMock)
	assistant.On("GenerateInsight", mock.Anything, "token-1").Return(
		domain.Insight{Message: "Push forward", Provenance: domain.ProvenanceRemote},
		domain.ProvenanceRemote,
		nil,
	).Once()

	rec := doJSON(t, assistantRouter(assistant), http.MethodPost, "/api/insights", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[dto.InsightItem](t, rec)
	assert.Equal(t, "Push forward", got.Message)
	assert.Equal(t, "remote", got.Provenance)
}

func TestAssistantHandler_ChatHistory(t *testing.T) {
	assistant := new(assistantServiceMock)
	assistant.On("ChatHistory", mock.Anything, "token-1").Return([]domain.ChatMessage{
		{Role: domain.ChatRoleAI, Text: "Systems online."},
	}, nil).Once()

	rec := doJSON(t, assistantRouter(assistant), http.MethodGet, "/api/chat", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[[]dto.ChatMessageItem](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, "ai", got[0].Role)
}

func TestAssistantHandler_Chat(t *testing.T) {
	assistant := new(assistantServiceMock)
	assistant.On("Chat", mock.Anything, "token-1", "status report").
		Return(domain.ChatMessage{Role: domain.ChatRoleAI, Text: "All systems operational."}, nil).Once()

	router := assistantRouter(assistant)
	rec := doJSON(t, router, http.MethodPost, "/api/chat", `{"message":" status report "}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "All systems operational.", decode[dto.ChatMessageItem](t, rec).Text)

	blank := doJSON(t, router, http.MethodPost, "/api/chat", `{"message":"  "}`)
	requireAPIError(t, blank, http.StatusBadRequest, "The request payload is invalid.")
	assistant.AssertExpectations(t)
}

func TestAssistantHandler_CreateProject(t *testing.T) {
	research := &domain.Research{Domain: domain.ResearchDomainHardware, Brief: "Build plan"}
	assistant := new(assistantServiceMock)
	assistant.On("CreateProject", mock.Anything, "token-1", "Robot arm", "servo build").Return(
		domain.Project{ID: "p1", Name: "Robot arm", Description: "servo build", Research: research, CreatedAt: createdAt},
		domain.ProvenanceLocal,
		nil,
	).Once()

	rec := doJSON(t, assistantRouter(assistant), http.MethodPost, "/api/projects", dto.CreateProjectRequest{
		Name:        "Robot arm",
		Description: "servo build",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	got := decode[dto.ProjectResponse](t, rec)
	assert.Equal(t, "local", got.ResearchProvenance)
	require.NotNil(t, got.Project.Research)
	assert.Equal(t, "hardware", got.Project.Research.Domain)
	assistant.AssertExpectations(t)
}

func TestAssistantHandler_Errors(t *testing.T) {
	assistant := new(assistantServiceMock)
	assistant.On("Report", mock.Anything, "token-1").Return(domain.AdvisorReport{}, domain.ErrSessionExpired).Once()
	assistant.On("Briefing", mock.Anything, "token-1").Return(domain.Insight{}, context.DeadlineExceeded).Once()
	assistant.On("CreateProject", mock.Anything, "token-1", "Rover", "").
		Return(domain.Project{}, domain.Provenance(""), errors.New("db is down")).Once()

	router := assistantRouter(assistant)

	requireAPIError(t, doJSON(t, router, http.MethodGet, "/api/advisor", nil),
		http.StatusUnauthorized, "Your session has expired. Please sign in again.")
	requireAPIError(t, doJSON(t, router, http.MethodGet, "/api/advisor/briefing", nil),
		http.StatusInternalServerError, "The assistant is unavailable.")
	requireAPIError(t, doJSON(t, router, http.MethodPost, "/api/projects", `{"name":"Rover"}`),
		http.StatusInternalServerError, "Could not create the project.")
	assistant.AssertExpectations(t)
}
