//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"pathwise-server/services/guidance-api/internal/config"
	"pathwise-server/services/guidance-api/internal/domain/agent"
	"pathwise-server/services/guidance-api/internal/domain/chat"
	"pathwise-server/services/guidance-api/internal/domain/conversation"
	"pathwise-server/services/guidance-api/internal/infrastructure/agentclient"
	"pathwise-server/services/guidance-api/internal/infrastructure/auth"
	"pathwise-server/services/guidance-api/internal/infrastructure/database"
	"pathwise-server/services/guidance-api/internal/infrastructure/logger"
	conversationrepo "pathwise-server/services/guidance-api/internal/infrastructure/repository/conversation"
	"pathwise-server/services/guidance-api/internal/interfaces/httpserver"
	"pathwise-server/services/guidance-api/internal/webhook"
)

var guidanceSet = wire.NewSet(
	conversationrepo.NewRepository,
	wire.Bind(new(conversation.Repository), new(*conversationrepo.Repository)),
	conversationrepo.NewMessageRepository,
	wire.Bind(new(conversation.MessageRepository), new(*conversationrepo.MessageRepository)),
	conversation.NewService,
	wire.Bind(new(conversation.Service), new(*conversation.ServiceImpl)),
	newAgentClient,
	wire.Bind(new(agent.Client), new(*agentclient.Client)),
	newWebhookService,
	wire.Bind(new(webhook.Service), new(*webhook.HTTPService)),
	chat.NewService,
	wire.Bind(new(chat.Service), new(*chat.ServiceImpl)),
)

// BuildApplication demonstrates how to assemble the guidance service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		newAuthValidator,
		guidanceSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newAuthValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.Validator, error) {
	return auth.NewValidator(ctx, cfg, log)
}

func newAgentClient(cfg *config.Config) *agentclient.Client {
	return agentclient.NewClient(cfg.AgentAPIURL, cfg.AgentAPIKey, cfg.AgentTimeout)
}

func newWebhookService(cfg *config.Config, log zerolog.Logger) *webhook.HTTPService {
	return webhook.NewHTTPService(cfg.TurnWebhookURL, log)
}
