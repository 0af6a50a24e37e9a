package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/starpathlabs/constellation-backend/internal/auth"
	"github.com/starpathlabs/constellation-backend/internal/clients/gcs"
	"github.com/starpathlabs/constellation-backend/internal/clients/imagesearch"
	"github.com/starpathlabs/constellation-backend/internal/clients/openai"
	"github.com/starpathlabs/constellation-backend/internal/coach"
	"github.com/starpathlabs/constellation-backend/internal/data/db"
	"github.com/starpathlabs/constellation-backend/internal/data/repos"
	httpS "github.com/starpathlabs/constellation-backend/internal/http"
	httpH "github.com/starpathlabs/constellation-backend/internal/http/handlers"
	httpMW "github.com/starpathlabs/constellation-backend/internal/http/middleware"
	"github.com/starpathlabs/constellation-backend/internal/jobs/reportrun"
	"github.com/starpathlabs/constellation-backend/internal/jobs/worker"
	"github.com/starpathlabs/constellation-backend/internal/observability"
	"github.com/starpathlabs/constellation-backend/internal/platform/envutil"
	"github.com/starpathlabs/constellation-backend/internal/platform/logger"
	"github.com/starpathlabs/constellation-backend/internal/progression"
	"github.com/starpathlabs/constellation-backend/internal/realtime"
	"github.com/starpathlabs/constellation-backend/internal/realtime/bus"
	"github.com/starpathlabs/constellation-backend/internal/reflection"
	"github.com/starpathlabs/constellation-backend/internal/reports"
	"github.com/starpathlabs/constellation-backend/internal/reset"
	"github.com/starpathlabs/constellation-backend/internal/starcard"
	"github.com/starpathlabs/constellation-backend/internal/temporalx"
	"github.com/starpathlabs/constellation-backend/internal/workshop"
)

func main() {
	logMode := envutil.String("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "constellation-backend",
		Environment: envutil.String("ENVIRONMENT", "development"),
		Version:     envutil.String("SERVICE_VERSION", "dev"),
	})
	if otelShutdown != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	stepDataRepo := repos.NewStepDataRepo(thePG, log)
	statusRepo := repos.NewWorkshopStatusRepo(thePG, log)
	reflectionRepo := repos.NewReflectionRepo(thePG, log)
	assessmentRepo := repos.NewAssessmentRepo(thePG, log)
	starCardRepo := repos.NewStarCardRepo(thePG, log)
	flowRepo := repos.NewFlowAttributesRepo(thePG, log)
	reportRepo := repos.NewReportRepo(thePG, log)
	reportJobRepo := repos.NewReportJobRepo(thePG, log)
	coachRepo := repos.NewCoachRepo(thePG, log)
	noteRepo := repos.NewBetaNoteRepo(thePG, log)

	// Step catalog
	catalog, err := progression.Load()
	if err != nil {
		log.Error("Could not load workshop catalog", "error", err)
		os.Exit(1)
	}

	// Realtime
	hub := realtime.NewHub(log)
	var eventBus bus.Bus
	if os.Getenv("REDIS_ADDR") != "" {
		eventBus, err = bus.NewRedisBus(log)
		if err != nil {
			log.Error("Could not init Redis bus", "error", err)
			os.Exit(1)
		}
	} else {
		log.Warn("REDIS_ADDR not set; using in-process event bus")
		eventBus = bus.NewLocalBus()
	}
	if err := eventBus.StartForwarder(ctx, hub.Dispatch); err != nil {
		log.Error("Could not start bus forwarder", "error", err)
		os.Exit(1)
	}

	// Clients
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
	imageClient, err := imagesearch.NewClient(log)
	if err != nil {
		log.Warn("Could not init image search client; image search disabled", "error", err)
		imageClient = nil
	}

	// Services
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
	reflectionService := reflection.NewService(catalog, reflectionRepo, statusRepo, log)
	workshopService := workshop.NewService(
		stepDataRepo, statusRepo, assessmentRepo, starCardRepo, flowRepo, catalog, eventBus, log,
	)
	coachService := coach.NewService(coachRepo, catalog, openaiClient, log)
	resetService := reset.NewService(
		thePG, userRepo, assessmentRepo, starCardRepo, flowRepo, stepDataRepo,
		reflectionRepo, statusRepo, reportRepo, reportJobRepo, coachRepo, noteRepo, log,
	)
	authService, err := auth.NewService(thePG, userRepo, userTokenRepo, log)
	if err != nil {
		log.Error("Could not init auth service", "error", err)
		os.Exit(1)
	}

	// Temporal (optional; nil client means inline report generation)
	activities := &reportrun.Activities{
		Log:     log,
		Jobs:    reportJobRepo,
		Reports: reportService,
		Bus:     eventBus,
	}
	temporalClient, err := temporalx.NewClient(log)
	if err != nil {
		log.Error("Could not connect to Temporal", "error", err)
		os.Exit(1)
	}
	if temporalClient != nil {
		defer temporalClient.Close()
		if envutil.Bool("TEMPORAL_WORKER_EMBEDDED", true) {
			runner, err := worker.NewRunner(log, temporalClient, activities)
			if err != nil {
				log.Error("Could not init Temporal worker", "error", err)
				os.Exit(1)
			}
			if err := runner.Start(ctx); err != nil {
				log.Error("Could not start Temporal worker", "error", err)
				os.Exit(1)
			}
		}
	}

	// Handlers
	authHandler := httpH.NewAuthHandler(authService)
	workshopHandler := httpH.NewWorkshopHandler(workshopService)
	reflectionHandler := httpH.NewReflectionHandler(reflectionService)
	starCardHandler := httpH.NewStarCardHandler(starCardService)
	reportHandler := httpH.NewReportHandler(
		log, reportJobRepo, reportService, activities, temporalClient, temporalx.LoadConfig().TaskQueue,
	)
	coachHandler := httpH.NewCoachHandler(coachService)
	noteHandler := httpH.NewNoteHandler(noteRepo)
	var imageHandler *httpH.ImageHandler
	if imageClient != nil {
		imageHandler = httpH.NewImageHandler(imageClient)
	}
	eventsHandler := httpH.NewEventsHandler(log, hub)
	adminHandler := httpH.NewAdminHandler(log, resetService, eventBus)

	authMiddleware := httpMW.NewAuthMiddleware(log, authService, authService)

	server := httpS.NewServer(httpS.RouterConfig{
		Log:               log,
		AuthHandler:       authHandler,
		AuthMiddleware:    authMiddleware,
		WorkshopHandler:   workshopHandler,
		ReflectionHandler: reflectionHandler,
		StarCardHandler:   starCardHandler,
		ReportHandler:     reportHandler,
		CoachHandler:      coachHandler,
		NoteHandler:       noteHandler,
		ImageHandler:      imageHandler,
		EventsHandler:     eventsHandler,
		AdminHandler:      adminHandler,
		HealthHandler:     httpH.NewHealthHandler(),
	})

	port := envutil.String("PORT", "8080")
	log.Info("Server listening", "port", port)
	if err := server.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
