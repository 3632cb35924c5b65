package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/bibash21-creator/result-finder-33/api/swagger"
	"github.com/bibash21-creator/result-finder-33/internal/handler"
	"github.com/bibash21-creator/result-finder-33/internal/middleware"
	"github.com/bibash21-creator/result-finder-33/internal/repository"
	"github.com/bibash21-creator/result-finder-33/internal/service"
	"github.com/bibash21-creator/result-finder-33/pkg/cache"
	"github.com/bibash21-creator/result-finder-33/pkg/config"
	"github.com/bibash21-creator/result-finder-33/pkg/database"
	"github.com/bibash21-creator/result-finder-33/pkg/logger"
	corsmiddleware "github.com/bibash21-creator/result-finder-33/pkg/middleware/cors"
	reqidmiddleware "github.com/bibash21-creator/result-finder-33/pkg/middleware/requestid"
	"github.com/bibash21-creator/result-finder-33/pkg/storage"
)

// @title Student Result Portal API
// @version 1.0.0
// @description Student results portal with roster management and grade aggregation
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

	resultCache := repository.NewResultCacheRepository(nil, logr)
	if cfg.Redis.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, summaries will not be cached", "error", err)
		} else {
			resultCache = repository.NewResultCacheRepository(client, logr)
		}
	}
	defer resultCache.Close()

	students := repository.NewStudentRepository(db)
	settings := repository.NewSettingRepository(db)

	archive, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	authSvc := service.NewAuthService(students, validate, logr, service.AuthConfig{
		TokenSecret:     cfg.JWT.Secret,
		TokenExpiry:     cfg.JWT.Expiration,
		Issuer:          cfg.JWT.Issuer,
		AdminPassword:   cfg.Admin.Password,
		DefaultSemester: cfg.Results.DefaultSemester,
	})
	studentSvc := service.NewStudentService(students, resultCache, validate, logr)
	subjectSvc := service.NewSubjectService(students, resultCache, validate, logr)
	resultSvc := service.NewResultService(students, settings, resultCache, cfg.Results.CacheTTL, metricsSvc, logr)
	publicationSvc := service.NewPublicationService(settings, resultCache, logr)
	imageSvc := service.NewImageService(students, resultCache, cfg.Uploads.MaxImageSizeBytes, logr)
	exportSvc := service.NewExportService(students, archive, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	handler.Register(api, handler.Handlers{
		Auth:        handler.NewAuthHandler(authSvc, metricsSvc),
		Students:    handler.NewStudentHandler(studentSvc),
		Subjects:    handler.NewSubjectHandler(subjectSvc),
		Results:     handler.NewResultHandler(resultSvc),
		Publication: handler.NewPublicationHandler(publicationSvc, metricsSvc),
		Images:      handler.NewImageHandler(imageSvc, cfg.Uploads.MaxImageSizeBytes),
		Exports:     handler.NewExportHandler(exportSvc),
	}, authSvc)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
