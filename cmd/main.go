package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sagar803/real-estate-dashboard/internal/data/db"
	"github.com/sagar803/real-estate-dashboard/internal/data/repos"
	apphttp "github.com/sagar803/real-estate-dashboard/internal/http"
	"github.com/sagar803/real-estate-dashboard/internal/http/handlers"
	"github.com/sagar803/real-estate-dashboard/internal/ingest"
	"github.com/sagar803/real-estate-dashboard/internal/observability"
	"github.com/sagar803/real-estate-dashboard/internal/platform/envutil"
	"github.com/sagar803/real-estate-dashboard/internal/platform/gcs"
	"github.com/sagar803/real-estate-dashboard/internal/platform/localmedia"
	"github.com/sagar803/real-estate-dashboard/internal/platform/logger"
	"github.com/sagar803/real-estate-dashboard/internal/platform/openai"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Observability
	rootCtx, cancelRoot := context.WithCancel(context.Background())
	defer cancelRoot()
	shutdownOTel := observability.InitOTel(rootCtx, log, observability.OtelConfig{
		ServiceName: "real-estate-dashboard",
		Environment: logMode,
		Version:     os.Getenv("SERVICE_VERSION"),
	})
	if shutdownOTel != nil {
		defer func() { _ = shutdownOTel(context.Background()) }()
	}
	metrics := observability.Init(log)
	metrics.StartServer(rootCtx, log, os.Getenv("METRICS_ADDR"))

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos...")
	builderRepo := repos.NewBuilderRepo(thePG, log)
	chatbotRepo := repos.NewChatbotRepo(thePG, log)
	propertyRepo := repos.NewPropertyRepo(thePG, log)

	// Platform clients
	log.Info("Setting up platform clients...")
	bucketService, err := gcs.NewBucketService(context.Background(), log)
	if err != nil {
		log.Error("Could not init BucketService", "error", err)
		os.Exit(1)
	}
	defer bucketService.Close()

	openaiClient, err := openai.NewClient(log)
	if err != nil {
		log.Error("Could not init OpenAI client", "error", err)
		os.Exit(1)
	}

	mediaTools, err := localmedia.NewTools(log)
	if err != nil {
		log.Error("Could not init media tools", "error", err)
		os.Exit(1)
	}

	// Ingestion pipeline
	log.Info("Setting up ingestion pipeline...")
	mediaStore := ingest.NewBucketMediaStore(bucketService, log)
	audioExtractor := ingest.NewFFmpegAudioExtractor(mediaTools, log)
	transcriber := ingest.NewOpenAITranscriber(openaiClient, log)
	frameSampler := ingest.NewFFmpegFrameSampler(mediaTools, log)
	sceneDescriber := ingest.NewVisionSceneDescriber(openaiClient, log)
	normalizer := ingest.NewFieldNormalizer(openaiClient, log)
	enricher := ingest.NewVideoEnricher(mediaStore, audioExtractor, transcriber, frameSampler, sceneDescriber, log)
	assembler := ingest.NewRecordAssembler(mediaStore, enricher, normalizer, log)
	pipeline := ingest.NewPipeline(assembler, chatbotRepo, propertyRepo, metrics, log)

	// HTTP
	srv := apphttp.NewServer(apphttp.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		UploadHandler:  handlers.NewUploadHandler(log, pipeline),
		ChatbotHandler: handlers.NewChatbotHandler(log, chatbotRepo, propertyRepo),
		BuilderHandler: handlers.NewBuilderHandler(log, builderRepo),
		HealthHandler:  handlers.NewHealthHandler(),
	})

	port := envutil.GetEnv("PORT", "8080", log)
	log.Info("Starting HTTP server", "port", port)
	if err := srv.Run(":" + port); err != nil {
		log.Error("HTTP server exited", "error", err)
		os.Exit(1)
	}
}
