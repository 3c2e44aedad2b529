package main

import (
	"context"

	"crystalos/pkg/translator"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	dbadapter "crystalos/internal/adapter/db"
	"crystalos/internal/adapter/gemini"
	httpadapter "crystalos/internal/adapter/http"
	"crystalos/internal/adapter/http/handlers"
	httpmiddleware "crystalos/internal/adapter/http/middleware"
	"crystalos/internal/adapter/snapshot"
	"crystalos/internal/app/insight"
	"crystalos/internal/app/service"
	"crystalos/internal/config"
	"crystalos/internal/core/domain"
	"crystalos/internal/core/ports"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	// Make zap available to packages that log through zap.L().
	zap.ReplaceGlobals(logger)
	defer func() {
		if err := logger.Sync(); err != nil {
			zap.L().Debug("failed to sync logger", zap.Error(err))
		}
	}()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	translator.InitTranslator(translator.Config{
		TranslationFolder:  cfg.TranslationFolder,
		SupportedLanguages: []string{translator.LanguageEn, translator.LanguageFr},
	})

	db, err := dbadapter.ConnectDB(cfg)
	if err != nil {
		logger.Fatal("failed to connect to gateway", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close gateway connection", zap.Error(err))
		}
	}()
	if err := dbadapter.Migrate(context.Background(), db); err != nil {
		logger.Fatal("failed to apply schema", zap.Error(err))
	}

	broker := dbadapter.NewChangeBroker(logger)
	gateway := dbadapter.NewGateway(db, broker)
	auth := dbadapter.NewAuthService(db, cfg.SessionTTL, logger)
	snapshots := snapshot.New(cfg.SnapshotDir)

	// Sessions can bring their own key later, so the client is always wired.
	insights := insight.NewService(gemini.NewClient(), logger)

	sessions := service.NewSessionService(
		auth,
		gateway,
		func(userID string) ports.SnapshotStore { return snapshots.ForUser(userID) },
		insights,
		service.Config{
			Location:    cfg.Timezone,
			FullRefetch: cfg.RealtimeFullRefetch,
			AI:          domain.AISettings{APIKey: cfg.GeminiAPIKey, UseCloud: cfg.AIUseCloud},
		},
		logger,
	)
	defer sessions.Close()

	r := gin.New()
	r.Use(gin.Recovery(), httpmiddleware.GinZapMiddleware(logger))
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Fatal("invalid trusted proxies", zap.Error(err))
	}

	httpadapter.RegisterRoutes(r, cfg.GatewayAnonKey, sessions, httpadapter.Handlers{
		Health:    handlers.NewHealthHandler(db, sessions),
		Auth:      handlers.NewAuthHandler(sessions),
		Dashboard: handlers.NewDashboardHandler(),
		Assistant: handlers.NewAssistantHandler(sessions),
		Stream:    handlers.NewStreamHandler(nil),
	})

	addr := ":" + cfg.AppPort
	logger.Info("starting server",
		zap.String("addr", addr),
		zap.String("driver", db.DriverName()),
		zap.Bool("ai_cloud", cfg.AIUseCloud && cfg.GeminiAPIKey != ""),
	)
	if err := r.Run(addr); err != nil {
		logger.Fatal("could not start server", zap.Error(err))
	}
}
