package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"docinsight/internal/config"
	"docinsight/internal/extractor"
	"docinsight/internal/handler"
	"docinsight/internal/llm"
	"docinsight/internal/llm/claude"
	"docinsight/internal/llm/gemini"
	openaiclient "docinsight/internal/llm/openai"
	"docinsight/internal/logger"
	"docinsight/internal/pipeline"
	"docinsight/internal/port"
	"docinsight/internal/preparer"
	"docinsight/internal/repository/noop"
	"docinsight/internal/repository/postgres"
	"docinsight/internal/router"
	"docinsight/internal/service"
	s3storage "docinsight/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// History persistence is optional
	var db *sqlx.DB
	var recordRepo port.AnalysisRecordRepository = noop.NewAnalysisRecordRepo()
	if cfg.DB.Enabled {
		db, err = postgres.NewDB(&cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		recordRepo = postgres.NewAnalysisRecordRepo(db)
	}

	storage, err := newStorage(cfg)
	if err != nil {
		return err
	}

	resolver, err := newResolver(cfg, zl)
	if err != nil {
		return err
	}

	// Pipeline stages
	registry := extractor.NewRegistry(extractor.Config{
		MaxPDFPages: cfg.Prepare.MaxPDFPages,
		PreviewRows: cfg.Prepare.PreviewRows,
	})
	estimator := preparer.NewEstimator(cfg.Prepare.Encoding, zl)
	pipe := pipeline.New(registry, estimator, zl.Named("pipeline"))

	// Initialize services
	insightSvc := service.NewInsightService(pipe, resolver, storage, recordRepo, service.InsightConfig{
		Policy:        cfg.Prepare.Insights,
		Concurrency:   cfg.Workers.Concurrency,
		MaxFiles:      cfg.Upload.MaxFiles,
		ReportBucket:  cfg.S3.Bucket,
		PresignExpiry: cfg.S3.PresignExpiry,
	}, zl.Named("insights"))
	qualitySvc := service.NewQualityService(pipe, resolver, recordRepo, cfg.Prepare.Quality, zl.Named("quality"))
	categorizeSvc := service.NewCategorizeService(pipe, resolver, recordRepo, service.CategorizeConfig{
		Policy:   cfg.Prepare.Categorize,
		MaxFiles: cfg.Upload.MaxFiles,
	}, zl.Named("categorize"))
	avatarSvc := service.NewAvatarService(resolver, &http.Client{Timeout: 60 * time.Second}, service.AvatarConfig{
		VisionModel: cfg.LLM.VisionModel,
		ImageModel:  cfg.LLM.ImageModel,
	}, zl.Named("avatar"))
	stockSvc := service.NewStockService(resolver, cfg.Prepare.Stock, zl.Named("stock"))
	historySvc := service.NewHistoryService(recordRepo)

	// Initialize handlers
	limits := handler.UploadLimits{MaxFileBytes: cfg.Upload.MaxFileBytes(), MaxFiles: cfg.Upload.MaxFiles}
	var pinger handler.Pinger
	if db != nil {
		pinger = db
	}

	r := router.Setup(
		zl,
		cfg.CORS.AllowedOrigins,
		handler.NewHealthHandler(pinger),
		handler.NewPrepareHandler(pipe, cfg.Prepare.Insights),
		handler.NewInsightHandler(insightSvc, limits),
		handler.NewQualityHandler(qualitySvc, handler.UploadLimits{MaxFileBytes: limits.MaxFileBytes, MaxFiles: 1}),
		handler.NewCategorizeHandler(categorizeSvc, limits),
		handler.NewAvatarHandler(avatarSvc, limits),
		handler.NewStockHandler(stockSvc),
		handler.NewHistoryHandler(historySvc),
	)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server starting",
			zap.String("addr", cfg.Server.Port),
			zap.String("storage", cfg.Storage.Provider),
			zap.Bool("history", cfg.DB.Enabled))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func newStorage(cfg *config.Config) (port.ObjectStorage, error) {
	switch cfg.Storage.Provider {
	case "", "noop":
		return nil, nil
	case "s3":
		client, err := s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.Storage.Provider)
	}
}

func registerProviders() {
	llm.RegisterProvider("openai", func(c *config.ProviderConfig) (port.CompletionClient, error) {
		return openaiclient.NewClient(c), nil
	})
	llm.RegisterProvider("claude", func(c *config.ProviderConfig) (port.CompletionClient, error) {
		return claude.NewClient(c), nil
	})
	llm.RegisterProvider("gemini", func(c *config.ProviderConfig) (port.CompletionClient, error) {
		return gemini.NewClient(c), nil
	})
}

// newResolver builds the server-configured clients, if any provider has a
// key, and the per-request OpenAI client used when callers bring their own.
func newResolver(cfg *config.Config, zl *zap.Logger) (*llm.Resolver, error) {
	registerProviders()

	var completion port.CompletionClient
	var images port.ImageGenerator
	for _, p := range cfg.LLM.Providers() {
		if p.APIKey == "" {
			continue
		}
		if completion == nil {
			chain, err := llm.NewClientChain(&cfg.LLM, llm.WithLogger(zl.Named("llm")))
			if err != nil {
				return nil, fmt.Errorf("failed to initialize llm clients: %w", err)
			}
			completion = chain
		}
		if images == nil && p.Provider == "openai" {
			images = openaiclient.NewClient(p).WithImageModel(cfg.LLM.ImageModel)
		}
	}
	if completion == nil {
		zl.Warn("no llm api key configured; requests must supply api_key")
	}

	primary := cfg.LLM.PrimaryConfig()
	keyedModel := ""
	if primary.Provider == "openai" {
		keyedModel = primary.DefaultModel
	}
	keyed := func(apiKey string) (port.CompletionClient, port.ImageGenerator) {
		c := openaiclient.NewClient(&config.ProviderConfig{
			Provider:     "openai",
			APIKey:       apiKey,
			DefaultModel: keyedModel,
			TimeoutSecs:  primary.TimeoutSecs,
		}).WithImageModel(cfg.LLM.ImageModel)
		return c, c
	}
	return llm.NewResolver(completion, images, keyed), nil
}
