// cmd/api-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"nursing-predictor/internal/advisor"
	"nursing-predictor/internal/common/aws"
	"nursing-predictor/internal/common/config"
	"nursing-predictor/internal/common/database"
	"nursing-predictor/internal/common/logger"
	"nursing-predictor/internal/common/observability"
	"nursing-predictor/internal/leads"
	"nursing-predictor/internal/predictor"
	"nursing-predictor/internal/search"
	"nursing-predictor/internal/server"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")

	zapLog.Info("Starting api server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	// Switch to the configured logger once config is known
	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	obs := observability.New("api-server")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init AWS delivery clients ---
	var sesClient leads.SESService
	var snsClient leads.SNSService
	if cfg.Notifications.Email.Enabled {
		client, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("ses client failed", zap.Error(err))
		}
		sesClient = client
	}
	if cfg.Notifications.SMS.Enabled {
		client, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client failed", zap.Error(err))
		}
		snsClient = client
	}

	// --- Wire services ---
	predSvc := predictor.NewService(predictor.NewConfig(cfg.Predictor), pg.DB, log)

	advCfg := advisor.NewConfig(cfg.Groq, cfg.Advisor)
	advSvc := advisor.NewService(advCfg, predSvc, advisor.NewGenerator(advCfg, log), redis, log)

	notifier := leads.NewNotifier(cfg.Notifications, sesClient, snsClient, log)
	leadSvc := leads.NewService(pg.DB, notifier, log)

	searchSvc := search.NewService(&search.Config{
		Index:      cfg.Database.Elasticsearch.Index,
		Timeout:    3 * time.Second,
		MaxResults: 10,
	}, esClient.Client, log)

	srv := server.New(cfg.Server, server.Services{
		Predictor: predSvc,
		Advisor:   advSvc,
		Leads:     leadSvc,
		Search:    searchSvc,
	}, pg, redis, obs, log)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	case <-sigCh:
		zapLog.Info("Shutdown signal received, draining requests...")
		if err := srv.Shutdown(context.Background()); err != nil {
			zapLog.Error("shutdown error", zap.Error(err))
		}
	}

	zapLog.Info("Api server stopped gracefully")
}
