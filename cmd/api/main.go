package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/hubcrm/accounts-api/internal/api"
	"github.com/hubcrm/accounts-api/internal/infrastructure/config"
	mongodb "github.com/hubcrm/accounts-api/internal/infrastructure/db/mongo"
	redisdb "github.com/hubcrm/accounts-api/internal/infrastructure/db/redis"
	"github.com/hubcrm/accounts-api/internal/infrastructure/mail"
	"github.com/hubcrm/accounts-api/internal/infrastructure/queue"
	"github.com/hubcrm/accounts-api/pkg/logger"
)

// @title           HubCRM Accounts API
// @version         1.0
// @description     Multi-tenant account backend: admin panel user management and public customer registration, with token-based password lifecycle and transactional mail.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	for _, idx := range []interface {
		EnsureIndexes(context.Context) error
	}{
		mongodb.NewAccountRepository(db, mongodb.CollectionUsers),
		mongodb.NewAccountRepository(db, mongodb.CollectionCustomers),
		mongodb.NewTemplateRepository(db),
	} {
		if err := idx.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("index creation failed")
		}
	}

	mailer := mail.NewSMTPMailer(mail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
	}, mongodb.NewTemplateRepository(db), logger.Component("mailer"))

	dispatcher := queue.NewDispatcher(cfg.MailWorkers, mailer, logger.Component("dispatcher"))
	dispatcher.Start(ctx)

	e := api.NewRouter(cfg, db, rdb, dispatcher, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting accounts api")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
