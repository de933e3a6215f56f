package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/smart-classroom/scs-api/api/swagger"
	"github.com/smart-classroom/scs-api/internal/handler"
	"github.com/smart-classroom/scs-api/internal/middleware"
	"github.com/smart-classroom/scs-api/internal/repository"
	"github.com/smart-classroom/scs-api/internal/service"
	"github.com/smart-classroom/scs-api/pkg/cache"
	"github.com/smart-classroom/scs-api/pkg/config"
	"github.com/smart-classroom/scs-api/pkg/database"
	"github.com/smart-classroom/scs-api/pkg/export"
	"github.com/smart-classroom/scs-api/pkg/logger"
	corsmiddleware "github.com/smart-classroom/scs-api/pkg/middleware/cors"
	reqidmiddleware "github.com/smart-classroom/scs-api/pkg/middleware/requestid"
	"github.com/smart-classroom/scs-api/pkg/storage"
)

// @title Smart Classroom Scheduler API
// @version 1.0.0
// @description Constraint-based university timetable generation and catalog management
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Timetable.CacheTTL, logr, cfg.Timetable.CacheEnabled && redisClient != nil)

	courseRepo := repository.NewCourseRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)

	courseSvc := service.NewCourseService(courseRepo, validate, logr)
	facultySvc := service.NewFacultyService(facultyRepo, validate, logr)
	classroomSvc := service.NewClassroomService(classroomRepo, validate, logr)

	timetableSvc := service.NewTimetableService(
		courseRepo, facultyRepo, classroomRepo, timetableRepo, db,
		cacheSvc, metricsSvc, validate, logr,
		service.TimetableServiceConfig{
			DraftTTL:    cfg.Scheduler.DraftTTL,
			MaxAttempts: cfg.Scheduler.MaxAttempts,
			CacheTTL:    cfg.Timetable.CacheTTL,
		},
	)

	exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exportSvc := service.NewExportService(
		timetableRepo, exportStore, signer,
		service.ExportConfig{APIPrefix: cfg.APIPrefix, ResultTTL: cfg.Exports.SignedURLTTL},
		logr, export.NewCSVExporter(), export.NewPDFExporter(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cleanupQueue := exportSvc.StartCleanup(ctx, time.Hour)
	if cleanupQueue != nil {
		defer cleanupQueue.Stop()
	}

	timetableHandler := handler.NewTimetableHandler(timetableSvc, exportSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	facultyHandler := handler.NewFacultyHandler(facultySvc)
	classroomHandler := handler.NewClassroomHandler(classroomSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/status", metricsHandler.Status)

		api.POST("/timetable/generate", timetableHandler.Generate)
		api.POST("/timetable/save", timetableHandler.Save)
		api.GET("/timetable", timetableHandler.List)
		api.POST("/timetable/entries", timetableHandler.AddEntry)
		api.PUT("/timetable/entries/:id", timetableHandler.UpdateEntry)
		api.DELETE("/timetable/entries/:id", timetableHandler.DeleteEntry)
		api.POST("/timetable/conflicts", timetableHandler.Conflicts)
		api.GET("/timetable/export", timetableHandler.Export)
		api.GET("/timetable/export/:token", timetableHandler.Download)

		api.GET("/courses", courseHandler.List)
		api.POST("/courses", courseHandler.Create)
		api.GET("/courses/:id", courseHandler.Get)
		api.PUT("/courses/:id", courseHandler.Update)
		api.DELETE("/courses/:id", courseHandler.Delete)

		api.GET("/faculty", facultyHandler.List)
		api.POST("/faculty", facultyHandler.Create)
		api.GET("/faculty/:id", facultyHandler.Get)
		api.PUT("/faculty/:id", facultyHandler.Update)
		api.DELETE("/faculty/:id", facultyHandler.Delete)

		api.GET("/classrooms", classroomHandler.List)
		api.POST("/classrooms", classroomHandler.Create)
		api.GET("/classrooms/:id", classroomHandler.Get)
		api.PUT("/classrooms/:id", classroomHandler.Update)
		api.DELETE("/classrooms/:id", classroomHandler.Delete)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
