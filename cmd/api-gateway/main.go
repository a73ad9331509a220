package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/mentorhub/mentor-dash-api/api/swagger"
	"github.com/mentorhub/mentor-dash-api/internal/handler"
	"github.com/mentorhub/mentor-dash-api/internal/middleware"
	"github.com/mentorhub/mentor-dash-api/internal/repository"
	"github.com/mentorhub/mentor-dash-api/internal/service"
	"github.com/mentorhub/mentor-dash-api/pkg/cache"
	"github.com/mentorhub/mentor-dash-api/pkg/config"
	"github.com/mentorhub/mentor-dash-api/pkg/database"
	"github.com/mentorhub/mentor-dash-api/pkg/jobs"
	"github.com/mentorhub/mentor-dash-api/pkg/logger"
	corsmiddleware "github.com/mentorhub/mentor-dash-api/pkg/middleware/cors"
	reqidmiddleware "github.com/mentorhub/mentor-dash-api/pkg/middleware/requestid"
)

// @title Mentor Dashboard API
// @version 1.0.0
// @description Backend for the mentor scheduling dashboard
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

	mainDB, err := database.NewPostgres(cfg.MainDB)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect main database", "error", err)
	}
	defer mainDB.Close()

	cohortDB, err := database.NewPostgres(cfg.CohortDB)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect cohort database", "error", err)
	}
	defer cohortDB.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
	}

	metrics := service.NewMetricsService()
	var cacheRepo service.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, logr)

	catalogRepo := repository.NewCohortCatalogRepository(cohortDB)
	sessionRepo := repository.NewSessionRepository(cohortDB)
	mentorRepo := repository.NewMentorRepository(cohortDB)
	attendanceRepo := repository.NewAttendanceRepository(mainDB)

	cutoffLoc := cfg.Attendance.CutoffLocation()

	attendanceSvc := service.NewAttendanceService(mentorRepo, catalogRepo, sessionRepo, attendanceRepo, cacheSvc, metrics, logr, cfg.Attendance)
	rescheduleSvc := service.NewRescheduleService(sessionRepo, cacheSvc, logr, cfg.Reschedule, cutoffLoc)
	scheduleSvc := service.NewScheduleService(catalogRepo, sessionRepo, logr)
	sessionSvc := service.NewSessionService(catalogRepo, sessionRepo, cacheSvc, metrics, logr, cfg.Sessions, cutoffLoc)
	authSvc := service.NewAuthService(mentorRepo, logr, cfg.Auth, cfg.JWT)

	recomputeQueue := jobs.NewQueue("attendance-recompute", attendanceSvc.HandleRecomputeJob, jobs.QueueConfig{
		Workers:    cfg.Attendance.RecomputeWorkers,
		MaxRetries: cfg.Attendance.RecomputeRetries,
		Logger:     logr,
	})
	recomputeQueue.Start(context.Background())
	defer recomputeQueue.Stop()
	attendanceSvc.SetRecomputeQueue(recomputeQueue)

	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc, rescheduleSvc)
	sessionHandler := handler.NewSessionHandler(sessionSvc)
	authHandler := handler.NewAuthHandler(authSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := mainDB.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "main database unreachable"})
			return
		}
		if err := cohortDB.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "cohort database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/mentor-attendance", attendanceHandler.Compute)
		api.GET("/mentor-attendance", attendanceHandler.Leaderboard)
		api.POST("/mentor-attendance/recompute", attendanceHandler.Recompute)
		api.GET("/mentor-attendance/export", attendanceHandler.Export)

		api.GET("/cohorts", scheduleHandler.Cohorts)
		api.GET("/cohort/schedule", scheduleHandler.Schedule)

		api.GET("/mentor/sessions", sessionHandler.Upcoming)
		api.GET("/mentor/session-details", sessionHandler.Details)

		api.POST("/auth/magic-link", authHandler.MagicLink)
		api.GET("/auth/verify", authHandler.Verify)

		protected := api.Group("", middleware.JWT(authSvc))
		{
			protected.PATCH("/cohort/schedule", scheduleHandler.UpdateCell)
			protected.GET("/cohort/schedule/reschedule-options", scheduleHandler.RescheduleOptions)
			protected.POST("/cohort/schedule/reschedule", scheduleHandler.Reschedule)
			protected.POST("/mentor/session-material", sessionHandler.AddMaterial)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
