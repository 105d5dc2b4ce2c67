package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/sagar803/real-estate-dashboard/internal/http/handlers"
	httpMW "github.com/sagar803/real-estate-dashboard/internal/http/middleware"
	"github.com/sagar803/real-estate-dashboard/internal/observability"
	"github.com/sagar803/real-estate-dashboard/internal/platform/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics

	UploadHandler  *httpH.UploadHandler
	ChatbotHandler *httpH.ChatbotHandler
	BuilderHandler *httpH.BuilderHandler
	HealthHandler  *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(otelgin.Middleware("real-estate-dashboard"))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS())
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.RequestLogger(cfg.Log))

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.UploadHandler != nil {
			api.POST("/upload/data", cfg.UploadHandler.Upload)
		}
		if cfg.BuilderHandler != nil {
			api.POST("/builder", cfg.BuilderHandler.Upsert)
		}
		if cfg.ChatbotHandler != nil {
			api.GET("/chatbots", cfg.ChatbotHandler.ListByUser)
			api.GET("/settings", cfg.ChatbotHandler.GetSettings)
			api.PATCH("/settings", cfg.ChatbotHandler.UpdateSettings)
			api.GET("/properties", cfg.ChatbotHandler.GetProperties)
		}
	}

	return r
}
