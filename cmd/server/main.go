package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cducdev/learn-english/internal/config"
	"github.com/cducdev/learn-english/internal/events"
	"github.com/cducdev/learn-english/internal/generator"
	"github.com/cducdev/learn-english/internal/handlers"
	"github.com/cducdev/learn-english/internal/importer"
	"github.com/cducdev/learn-english/internal/session"
	"github.com/cducdev/learn-english/internal/speech"
	"github.com/cducdev/learn-english/internal/store"
	"github.com/cducdev/learn-english/internal/utils"
	"github.com/cducdev/learn-english/internal/validator"
	"github.com/cducdev/learn-english/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger := utils.NewLogger(cfg.Environment)
	ctx := context.Background()

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	kv, err := store.NewGormKV(db)
	if err != nil {
		logger.Error("Failed to prepare kv table", "error", err)
		os.Exit(1)
	}
	wrongs, err := store.NewWrongItemStore(ctx, kv, logger)
	if err != nil {
		logger.Error("Failed to load wrong items", "error", err)
		os.Exit(1)
	}

	vocabRepo, err := store.NewVocabularyRepository(db)
	if err != nil {
		logger.Error("Failed to prepare vocabulary table", "error", err)
		os.Exit(1)
	}
	if n, err := vocabRepo.SeedFromFile(ctx, cfg.VocabSeedPath); err != nil {
		logger.Warn("Vocabulary seed skipped", "error", err)
	} else if n > 0 {
		logger.Info("Seeded vocabulary", "entries", n)
	}

	// Redis is optional; without it explanations skip the cache.
	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, explanation cache disabled", "error", err)
		redisClient = nil
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := events.NewKafkaPublisher(events.PublisherConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
			Logger:  logger,
		})
		if err != nil {
			logger.Error("Failed to create Kafka publisher", "error", err)
			os.Exit(1)
		}
		publisher = kafkaPublisher
	}
	defer publisher.Close()

	client := generator.NewClient(cfg.GeneratorURL, logger)
	explainer := generator.NewExplanationCache(client, redisClient, logger)
	adapter := speech.NewGoogleAdapter(ctx, cfg.GoogleCredentialsFile, logger)

	manager := handlers.NewHandlerManager(handlers.Dependencies{
		Registry:  session.NewRegistry(logger),
		Generator: client,
		Explainer: explainer,
		Wrongs:    wrongs,
		Vocab:     vocabRepo,
		Speech:    adapter,
		Importer:  importer.New(logger),
		Publisher: publisher,
		Validator: validator.New(),
		Defaults: handlers.SessionDefaults{
			QuestionCount:   cfg.DefaultQuestionCount,
			DurationSeconds: cfg.DefaultDurationSeconds,
		},
		Language: cfg.SpeechLanguage,
	}, logger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))
	manager.SetupRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
	logger.Info("Server stopped")
}
