package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"pathwise-server/services/guidance-api/internal/config"
	"pathwise-server/services/guidance-api/internal/domain/chat"
	"pathwise-server/services/guidance-api/internal/domain/conversation"
	"pathwise-server/services/guidance-api/internal/infrastructure/agentclient"
	"pathwise-server/services/guidance-api/internal/infrastructure/auth"
	"pathwise-server/services/guidance-api/internal/infrastructure/database"
	"pathwise-server/services/guidance-api/internal/infrastructure/logger"
	"pathwise-server/services/guidance-api/internal/infrastructure/observability"
	conversationrepo "pathwise-server/services/guidance-api/internal/infrastructure/repository/conversation"
	"pathwise-server/services/guidance-api/internal/interfaces/httpserver"
	"pathwise-server/services/guidance-api/internal/webhook"
)

// @title Guidance API
// @version 1.0
// @description Manages career-guidance conversations and proxies chat turns to the agent backend.
// @contact.name Pathwise Team
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	conversationRepository := conversationrepo.NewRepository(db)
	messageRepository := conversationrepo.NewMessageRepository(db)
	conversationService := conversation.NewService(conversationRepository, messageRepository, log)

	agentClient := agentclient.NewClient(cfg.AgentAPIURL, cfg.AgentAPIKey, cfg.AgentTimeout)
	webhookService := webhook.NewHTTPService(cfg.TurnWebhookURL, log)
	chatService := chat.NewService(conversationService, agentClient, webhookService, log)

	httpServer := httpserver.New(cfg, log, conversationService, chatService, agentClient, authValidator)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
