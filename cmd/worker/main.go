// The worker binary runs report generation workflows on its own, so the
// API deployment can scale independently of LLM-bound work.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/starpathlabs/constellation-backend/internal/clients/gcs"
	"github.com/starpathlabs/constellation-backend/internal/clients/openai"
	"github.com/starpathlabs/constellation-backend/internal/data/db"
	"github.com/starpathlabs/constellation-backend/internal/data/repos"
	"github.com/starpathlabs/constellation-backend/internal/jobs/reportrun"
	"github.com/starpathlabs/constellation-backend/internal/jobs/worker"
	"github.com/starpathlabs/constellation-backend/internal/observability"
	"github.com/starpathlabs/constellation-backend/internal/platform/envutil"
	"github.com/starpathlabs/constellation-backend/internal/platform/logger"
	"github.com/starpathlabs/constellation-backend/internal/progression"
	"github.com/starpathlabs/constellation-backend/internal/realtime/bus"
	"github.com/starpathlabs/constellation-backend/internal/reports"
	"github.com/starpathlabs/constellation-backend/internal/starcard"
	"github.com/starpathlabs/constellation-backend/internal/temporalx"
)

func main() {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "constellation-worker",
		Environment: envutil.String("ENVIRONMENT", "development"),
		Version:     envutil.String("SERVICE_VERSION", "dev"),
	})

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	userRepo := repos.NewUserRepo(thePG, log)
	starCardRepo := repos.NewStarCardRepo(thePG, log)
	flowRepo := repos.NewFlowAttributesRepo(thePG, log)
	assessmentRepo := repos.NewAssessmentRepo(thePG, log)
	reflectionRepo := repos.NewReflectionRepo(thePG, log)
	reportRepo := repos.NewReportRepo(thePG, log)
	reportJobRepo := repos.NewReportJobRepo(thePG, log)

	catalog, err := progression.Load()
	if err != nil {
		log.Error("Could not load workshop catalog", "error", err)
		os.Exit(1)
	}

	var eventBus bus.Bus
	if os.Getenv("REDIS_ADDR") != "" {
		eventBus, err = bus.NewRedisBus(log)
		if err != nil {
			log.Error("Could not init Redis bus", "error", err)
			os.Exit(1)
		}
	} else {
		log.Warn("REDIS_ADDR not set; report_ready events will not reach API instances")
		eventBus = bus.NewLocalBus()
	}

	bucketService, err := gcs.NewBucketService(log)
	if err != nil {
		log.Warn("Could not init BucketService; star card uploads disabled", "error", err)
		bucketService = nil
	}
	openaiClient, err := openai.NewClient(log)
	if err != nil {
		log.Error("Could not init OpenAI client", "error", err)
		os.Exit(1)
	}
	renderer, err := starcard.NewRenderer()
	if err != nil {
		log.Error("Could not init star card renderer", "error", err)
		os.Exit(1)
	}
	starCardService := starcard.NewService(userRepo, starCardRepo, flowRepo, bucketService, renderer, log)
	reportService := reports.NewService(
		userRepo, starCardRepo, flowRepo, assessmentRepo, reflectionRepo, reportRepo,
		catalog, openaiClient, starCardService, log,
	)

	temporalClient, err := temporalx.NewClient(log)
	if err != nil {
		log.Error("Could not connect to Temporal", "error", err)
		os.Exit(1)
	}
	if temporalClient == nil {
		log.Error("TEMPORAL_ADDRESS is required for the worker binary")
		os.Exit(1)
	}
	defer temporalClient.Close()

	runner, err := worker.NewRunner(log, temporalClient, &reportrun.Activities{
		Log:     log,
		Jobs:    reportJobRepo,
		Reports: reportService,
		Bus:     eventBus,
	})
	if err != nil {
		log.Error("Could not init Temporal worker", "error", err)
		os.Exit(1)
	}
	if err := runner.Start(ctx); err != nil {
		log.Error("Could not start Temporal worker", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	log.Info("Worker shutting down")
}
