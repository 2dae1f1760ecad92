package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/http/handlers"
	httpMW "github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/http/middleware"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string

	CurriculumHandler *httpH.CurriculumHandler
	StagingHandler    *httpH.StagingHandler
	HealthHandler     *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.RequestLogger(cfg.Log))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	api.Use(httpMW.RequireCaller())
	{
		// Generation
		if cfg.CurriculumHandler != nil {
			api.POST("/generate", cfg.CurriculumHandler.Generate)
			api.POST("/lessons/batch", cfg.CurriculumHandler.RunBatch)
			api.GET("/batches/:id", cfg.CurriculumHandler.GetBatch)
			api.DELETE("/batches/:id", cfg.CurriculumHandler.CancelBatch)
			api.GET("/credits", cfg.CurriculumHandler.GetCredits)
		}

		// Staging
		if cfg.StagingHandler != nil {
			api.GET("/staging", cfg.StagingHandler.GetDocument)
			api.PUT("/staging/header", cfg.StagingHandler.SetHeader)
			api.POST("/staging/archive", cfg.StagingHandler.Archive)
			api.GET("/staging/archives", cfg.StagingHandler.ListArchives)
			api.DELETE("/staging/archives/:index", cfg.StagingHandler.DeleteArchive)
			api.POST("/staging/restore/:index", cfg.StagingHandler.Restore)
			api.POST("/staging/clear", cfg.StagingHandler.Clear)
			api.POST("/staging/repopulate", cfg.StagingHandler.Repopulate)
			api.PATCH("/staging/sections/:section/lessons/:index", cfg.StagingHandler.UpdateLesson)
			api.DELETE("/staging/sections/:section/lessons/:index", cfg.StagingHandler.RemoveLesson)
			api.DELETE("/staging/sections/:section", cfg.StagingHandler.RemoveSection)
		}
	}

	return r
}
