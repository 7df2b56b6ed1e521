package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"legalinsight-backend/autorag"
	"legalinsight-backend/config"
	"legalinsight-backend/handlers"
	"legalinsight-backend/llm"
	"legalinsight-backend/logger"
	"legalinsight-backend/repository"
	"legalinsight-backend/service"
	"legalinsight-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Postgres is optional; without it history and file records are disabled
	var db *pgxpool.Pool
	if cfg.Database.URL != "" {
		db, err = initPostgres(ctx, cfg.Database.URL)
		if err != nil {
			zl.Fatal("Failed to initialize Postgres", zap.Error(err))
		}
		defer db.Close()
		zl.Info("Postgres connection established")
	} else {
		zl.Warn("database.url not set, query history and file records are disabled")
	}

	store, closeStore, err := initDocumentStore(ctx, cfg)
	if err != nil {
		zl.Fatal("Failed to initialize document store", zap.Error(err))
	}
	defer closeStore()
	zl.Info("Document store initialized", zap.String("backend", cfg.Library.Backend))

	fileStorage, err := storage.NewStorage(ctx, storage.StorageConfig{
		Type:         storage.StorageType(cfg.Storage.Type),
		LocalPath:    cfg.Storage.LocalPath,
		S3Bucket:     cfg.Storage.S3Bucket,
		S3Region:     cfg.Storage.S3Region,
		AWSAccessKey: cfg.Storage.AWSAccessKey,
		AWSSecretKey: cfg.Storage.AWSSecretKey,
	})
	if err != nil {
		zl.Fatal("Failed to initialize storage", zap.Error(err))
	}
	zl.Info("Storage initialized", zap.String("type", cfg.Storage.Type))

	generator, err := llm.NewGeminiGenerator(ctx, cfg.Gemini.APIKey,
		llm.WithModel(cfg.Gemini.Model),
		llm.WithTemperature(cfg.Gemini.Temperature),
		llm.WithMaxPromptChars(cfg.Gemini.MaxPromptChars),
		llm.WithGeneratorLogger(zl),
	)
	if err != nil {
		zl.Fatal("Failed to initialize Gemini", zap.Error(err))
	}
	defer generator.Close()

	ragClient := autorag.NewClient(autorag.Config{
		AccountID: cfg.AutoRAG.AccountID,
		RagID:     cfg.AutoRAG.RagID,
		APIToken:  cfg.AutoRAG.APIToken,
		BaseURL:   cfg.AutoRAG.BaseURL,
		Timeout:   cfg.AutoRAG.Timeout,
	})
	if cfg.Retrieval.GeneralSource == config.GeneralSourceHosted && !ragClient.Configured() {
		zl.Warn("hosted retrieval credentials are missing, general queries will fail until they are set")
	}

	// Initialize services
	caps := llm.NewCapabilities(generator,
		llm.WithLogger(zl),
		llm.WithDefaultJurisdiction(cfg.Retrieval.Jurisdiction),
	)

	insightOpts := []service.InsightServiceOption{
		service.InsightWithAggregator(service.NewAggregator(caps, service.AggregatorWithLogger(zl))),
		service.InsightWithExtractor(service.NewExtractor(caps)),
		service.InsightWithHostedRetriever(ragClient),
		service.InsightWithDocumentStore(store),
		service.InsightWithSequenceTracker(service.NewSequenceTracker()),
		service.InsightWithGeneralSource(cfg.Retrieval.GeneralSource),
		service.InsightWithLogger(zl),
	}
	libraryOpts := []service.LibraryServiceOption{
		service.LibraryWithStorage(fileStorage),
		service.LibraryWithMaxUploadBytes(cfg.Library.MaxUploadBytes),
		service.LibraryWithLogger(zl),
	}

	var history service.HistoryStore
	if db != nil {
		historyRepo := repository.NewHistoryRepository(db)
		history = historyRepo
		insightOpts = append(insightOpts, service.InsightWithHistory(historyRepo))
		libraryOpts = append(libraryOpts, service.LibraryWithFileStore(repository.NewFileRepository(db)))
	}

	insightService := service.NewInsightService(insightOpts...)
	libraryService := service.NewLibraryService(store, libraryOpts...)
	historyService := service.NewHistoryService(history)
	assistantService := service.NewAssistantService(caps)

	// Setup Gin router
	gin.SetMode(cfg.Server.Mode)
	router := handlers.Router{
		Insights:  handlers.NewInsightHandler(insightService, zl),
		Assistant: handlers.NewAssistantHandler(assistantService, zl),
		Library:   handlers.NewLibraryHandler(libraryService, zl),
		History:   handlers.NewHistoryHandler(historyService, zl),
		Logger:    zl,
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("Server shutdown failed", zap.Error(err))
	}
}

func initPostgres(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func initDocumentStore(ctx context.Context, cfg *config.Config) (repository.DocumentStore, func(), error) {
	if strings.ToLower(cfg.Library.Backend) != "redis" {
		return repository.NewMemoryDocumentStore(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, err
	}
	return repository.NewRedisDocumentStore(client), func() { client.Close() }, nil
}
