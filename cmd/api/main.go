package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/rrcordoba/volky/cmd/mainconfig"
	"github.com/rrcordoba/volky/internal/api/router"
	appconfig "github.com/rrcordoba/volky/internal/config"
	"github.com/rrcordoba/volky/internal/conversation"
	"github.com/rrcordoba/volky/internal/events"
	"github.com/rrcordoba/volky/internal/http/handlers"
	"github.com/rrcordoba/volky/internal/leads"
	"github.com/rrcordoba/volky/internal/notify"
	observemetrics "github.com/rrcordoba/volky/internal/observability/metrics"
	"github.com/rrcordoba/volky/internal/sheets"
	"github.com/rrcordoba/volky/internal/whatsapp"
	"github.com/rrcordoba/volky/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting volky API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"leads_backend", cfg.LeadsBackend,
	)

	ctx := context.Background()

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("invalid timezone, using local", "timezone", cfg.Timezone, "error", err)
		location = time.Local
	}

	repo, cleanup, err := buildLeadsRepository(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize lead store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	waClient, err := whatsapp.New(whatsapp.Config{
		BaseURL:       cfg.WhatsAppAPIBaseURL,
		Token:         cfg.WhatsAppToken,
		PhoneNumberID: cfg.WhatsAppPhoneID,
		Timeout:       cfg.SendTimeout,
		MaxRetries:    cfg.SendMaxRetries,
		Logger:        logger.Logger,
	})
	if err != nil {
		logger.Error("failed to initialize whatsapp client", "error", err)
		os.Exit(1)
	}

	var processed *events.ProcessedStore
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient := redis.NewClient(opts)
		defer redisClient.Close()
		processed = events.NewProcessedStore(redisClient, nil)
	} else {
		logger.Warn("redis not configured, webhook dedupe disabled")
	}

	var transcripts *conversation.TranscriptStore
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open transcript database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		transcripts = conversation.NewTranscriptStore(db)
	}

	exporter, err := sheets.New(ctx, sheets.Config{
		SpreadsheetID:   cfg.SheetsSpreadsheetID,
		CredentialsFile: cfg.SheetsCredentialsFile,
	}, logger)
	if err != nil {
		logger.Error("failed to initialize sheets exporter", "error", err)
		os.Exit(1)
	}

	var emailSender notify.EmailSender
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		emailSender = sg
	}
	notifier := notify.NewService(emailSender, cfg.SalesEmail, logger)

	convMetrics := observemetrics.NewConversationMetrics(nil)

	convHandler := conversation.NewHandler(conversation.HandlerConfig{
		Repo:             repo,
		Sender:           waClient,
		Transcripts:      transcripts,
		Exporter:         exporter,
		Notifier:         notifier,
		Metrics:          convMetrics,
		Logger:           logger,
		Location:         location,
		WelcomeStickerID: cfg.MediaMap.ID("sticker", "bienvenida"),
	})

	webhookHandler := handlers.NewWebhookHandler(handlers.WebhookConfig{
		VerifyToken: cfg.WhatsAppVerifyToken,
		Handler:     convHandler,
		Processed:   processed,
		Logger:      logger,
		Metrics:     convMetrics,
	})

	r := router.New(&router.Config{
		Logger:          logger,
		Webhook:         webhookHandler,
		AdminLeads:      handlers.NewAdminLeadsHandler(repo, logger),
		AdminAuthSecret: cfg.AdminJWTSecret,
		MetricsHandler:  promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// buildLeadsRepository selects the lead store backend from configuration.
func buildLeadsRepository(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (leads.Repository, func(), error) {
	noop := func() {}
	switch cfg.LeadsBackend {
	case "memory":
		return leads.NewInMemoryRepository(), noop, nil
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		return leads.NewPostgresRepository(pool), pool.Close, nil
	case "dynamo":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, noop, err
		}
		client := dynamodb.NewFromConfig(awsCfg)
		return leads.NewDynamoRepository(client, cfg.LeadsTable), noop, nil
	default:
		return leads.NewFileRepository(cfg.LeadsPath, logger), noop, nil
	}
}
