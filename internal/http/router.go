package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/starpathlabs/constellation-backend/internal/http/handlers"
	httpMW "github.com/starpathlabs/constellation-backend/internal/http/middleware"
	"github.com/starpathlabs/constellation-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware

	WorkshopHandler   *httpH.WorkshopHandler
	ReflectionHandler *httpH.ReflectionHandler
	StarCardHandler   *httpH.StarCardHandler
	ReportHandler     *httpH.ReportHandler
	CoachHandler      *httpH.CoachHandler
	NoteHandler       *httpH.NoteHandler
	ImageHandler      *httpH.ImageHandler
	EventsHandler     *httpH.EventsHandler
	AdminHandler      *httpH.AdminHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("constellation-backend"))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS())
	r.Use(httpMW.RequestLogger(cfg.Log))

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.AuthHandler != nil {
			api.POST("/auth/register", cfg.AuthHandler.Register)
			api.POST("/auth/login", cfg.AuthHandler.Login)
			api.POST("/auth/refresh", cfg.AuthHandler.Refresh)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.AuthHandler != nil {
			protected.POST("/auth/logout", cfg.AuthHandler.Logout)
		}

		if cfg.WorkshopHandler != nil {
			protected.GET("/navigation/:workshop", cfg.WorkshopHandler.Navigation)
			protected.GET("/workshop-data/step/:workshop/:stepId", cfg.WorkshopHandler.GetStep)
			protected.POST("/workshop-data/step/:workshop/:stepId", cfg.WorkshopHandler.SaveStep)
			protected.POST("/workshop-data/step/:workshop/:stepId/complete", cfg.WorkshopHandler.CompleteStep)
			protected.POST("/workshop-data/assessment", cfg.WorkshopHandler.SubmitAssessment)
		}

		if cfg.ReflectionHandler != nil {
			protected.GET("/reflections/:setId", cfg.ReflectionHandler.GetSet)
			protected.POST("/reflections/:setId/:itemId", cfg.ReflectionHandler.Save)
			protected.POST("/reflections/:setId/:itemId/complete", cfg.ReflectionHandler.Complete)
		}

		if cfg.StarCardHandler != nil {
			protected.GET("/starcard/:userId", cfg.StarCardHandler.GetPNG)
		}

		if cfg.ReportHandler != nil {
			protected.POST("/reports/generate", cfg.ReportHandler.Generate)
			protected.GET("/reports/job/:jobId", cfg.ReportHandler.GetJob)
			protected.GET("/reports/latest", cfg.ReportHandler.Latest)
		}

		if cfg.CoachHandler != nil {
			protected.POST("/coach/message", cfg.CoachHandler.SendMessage)
		}

		if cfg.NoteHandler != nil {
			protected.POST("/notes", cfg.NoteHandler.Submit)
		}

		if cfg.ImageHandler != nil {
			protected.GET("/images/search", cfg.ImageHandler.Search)
		}

		if cfg.EventsHandler != nil {
			protected.GET("/events/stream", cfg.EventsHandler.Stream)
		}
	}

	admin := protected.Group("/admin")
	{
		if cfg.AuthMiddleware != nil {
			admin.Use(cfg.AuthMiddleware.RequireAdmin())
		}
		if cfg.AdminHandler != nil {
			admin.POST("/reset/:userId", cfg.AdminHandler.ResetUser)
		}
	}

	return r
}
