package http

import (
	"crystalos/internal/adapter/http/handlers"
	"crystalos/internal/adapter/http/middleware"
	"crystalos/internal/core/ports"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Dashboard *handlers.DashboardHandler
	Assistant *handlers.AssistantHandler
	Stream    *handlers.StreamHandler
}

// RegisterRoutes mounts everything under /api. Health checks skip the API key.
func RegisterRoutes(r *gin.Engine, apiKey string, sessions ports.SessionService, h Handlers) {
	api := r.Group("/api")
	api.Use(middleware.LanguageMiddleware())
	{
		api.GET("/health", h.Health.CheckHealth)
		api.GET("/health/report", h.Health.CheckHealthReport)
	}

	public := api.Group("")
	public.Use(middleware.APIKeyMiddleware(apiKey))
	{
		public.POST("/auth/signup", h.Auth.SignUp)
		public.POST("/auth/signin", h.Auth.SignIn)
		public.POST("/auth/signout", h.Auth.SignOut)
	}

	authed := public.Group("")
	authed.Use(middleware.SessionMiddleware(sessions))
	{
		authed.GET("/auth/session", h.Auth.Session)

		authed.GET("/state", h.Dashboard.GetState)
		authed.POST("/state/refresh", h.Dashboard.Refresh)
		authed.GET("/state/completion-rate", h.Dashboard.CompletionRate)
		authed.GET("/stream", h.Stream.Stream)

		authed.POST("/tasks", h.Dashboard.CreateTask)
		authed.PATCH("/tasks/:id/toggle", h.Dashboard.ToggleTask)
		authed.DELETE("/tasks/:id", h.Dashboard.DeleteTask)

		authed.POST("/habits", h.Dashboard.CreateHabit)
		authed.POST("/habits/seed", h.Dashboard.SeedHabits)
		authed.PATCH("/habits/:id", h.Dashboard.UpdateHabit)
		authed.PATCH("/habits/:id/toggle", h.Dashboard.ToggleHabit)
		authed.DELETE("/habits/:id", h.Dashboard.DeleteHabit)

		authed.POST("/projects", h.Assistant.CreateProject)
		authed.PATCH("/projects/:id/toggle", h.Dashboard.ToggleProject)
		authed.PATCH("/projects/:id/progress", h.Dashboard.UpdateProjectProgress)
		authed.DELETE("/projects/:id", h.Dashboard.DeleteProject)

		authed.POST("/timetable", h.Dashboard.CreateTimetableItem)
		authed.GET("/timetable/today", h.Dashboard.TodaysActivities)
		authed.PATCH("/timetable/:id", h.Dashboard.UpdateTimetableItem)
		authed.PATCH("/timetable/:id/toggle", h.Dashboard.ToggleTimetableItem)
		authed.DELETE("/timetable/:id", h.Dashboard.DeleteTimetableItem)

		authed.POST("/notifications", h.Dashboard.CreateNotification)
		authed.PATCH("/notifications/:id/read", h.Dashboard.MarkNotificationRead)
		authed.DELETE("/notifications/:id", h.Dashboard.DeleteNotification)
		authed.DELETE("/notifications", h.Dashboard.ClearNotifications)

		authed.PUT("/preferences/theme", h.Dashboard.SetTheme)
		authed.POST("/preferences/dark-mode", h.Dashboard.ToggleDarkMode)
		authed.PUT("/preferences/focus", h.Dashboard.UpdateFocus)
		authed.PUT("/preferences/ambient", h.Dashboard.UpdateAmbient)
		authed.PUT("/preferences/ai", h.Dashboard.UpdateAISettings)

		authed.GET("/advisor", h.Assistant.Advisor)
		authed.GET("/advisor/briefing", h.Assistant.Briefing)
		authed.POST("/insights", h.Assistant.GenerateInsight)
		authed.GET("/chat", h.Assistant.ChatHistory)
		authed.POST("/chat", h.Assistant.Chat)
	}
}
