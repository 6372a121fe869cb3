package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/matchpoint-id/sports-reg-api/api/swagger"
	"github.com/matchpoint-id/sports-reg-api/internal/handler"
	"github.com/matchpoint-id/sports-reg-api/internal/middleware"
	"github.com/matchpoint-id/sports-reg-api/internal/models"
	"github.com/matchpoint-id/sports-reg-api/internal/repository"
	"github.com/matchpoint-id/sports-reg-api/internal/service"
	"github.com/matchpoint-id/sports-reg-api/pkg/cache"
	"github.com/matchpoint-id/sports-reg-api/pkg/config"
	"github.com/matchpoint-id/sports-reg-api/pkg/database"
	"github.com/matchpoint-id/sports-reg-api/pkg/logger"
	"github.com/matchpoint-id/sports-reg-api/pkg/mail"
	corsmiddleware "github.com/matchpoint-id/sports-reg-api/pkg/middleware/cors"
	reqidmiddleware "github.com/matchpoint-id/sports-reg-api/pkg/middleware/requestid"
	"github.com/matchpoint-id/sports-reg-api/pkg/storage"
)

// @title Sports Registration API
// @version 1.0.0
// @description Bulk student registration for multi-sport events
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, reference cache disabled", "error", err)
		redisClient = nil
	}

	var store storage.Storage
	switch cfg.Storage.Driver {
	case "s3":
		store, err = storage.NewS3Storage(cfg.Storage.S3)
	default:
		store, err = storage.NewLocalStorage(cfg.Storage.LocalDir)
	}
	if err != nil {
		logr.Sugar().Warnw("storage unavailable, import reports disabled", "driver", cfg.Storage.Driver, "error", err)
		store = nil
	}

	var mailer mail.Mailer
	if cfg.Mail.Enabled && cfg.Mail.SendgridKey != "" {
		mailer = mail.NewSendgridMailer(cfg.Mail, logr)
	} else {
		mailer = mail.NewConsoleMailer(logr)
	}

	validate := validator.New()

	studentRepo := repository.NewStudentRepository(db)
	guardianRepo := repository.NewGuardianRepository(db)
	sportRepo := repository.NewSportRepository(db)
	ageCategoryRepo := repository.NewAgeCategoryRepository(db)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(guardianRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	studentSvc := service.NewStudentService(studentRepo, validate, logr)
	sportSvc := service.NewSportService(sportRepo, ageCategoryRepo, redisClient, cfg.Import.ReferenceCacheTTL, metricsSvc, logr)
	importSvc := service.NewImportService(studentRepo, guardianRepo, sportRepo, ageCategoryRepo, mailer, store, cfg.Import.ReportDir, validate, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	sportHandler := handler.NewSportHandler(sportSvc)
	importHandler := handler.NewImportHandler(importSvc, metricsSvc, cfg.Import.MaxFileSizeBytes)

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
	{
		api.POST("/auth/login", authHandler.Login)

		api.GET("/sports", sportHandler.ListSports)
		api.GET("/age-categories", sportHandler.ListAgeCategories)

		protected := api.Group("")
		protected.Use(middleware.JWT(authSvc))
		{
			protected.GET("/students/import-template", importHandler.Template)
			protected.POST("/students/parse", importHandler.Parse)
			protected.POST("/students/bulk-upload", importHandler.BulkUpload)

			protected.GET("/students", studentHandler.List)
			protected.GET("/students/:id", studentHandler.Get)
			protected.POST("/students",
				middleware.RequireRoles(models.RoleParent, models.RoleSchool, models.RoleAdmin),
				studentHandler.Create)
			protected.PUT("/students/:id",
				middleware.RequireRoles(models.RoleSchool, models.RoleAdmin),
				studentHandler.Update)
			protected.DELETE("/students/:id",
				middleware.RequireRoles(models.RoleAdmin),
				studentHandler.Delete)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
