// Package main is the entry point for the EduTrack API server.
//
// The architecture follows Clean Architecture and DDD:
// - Domain: pure business logic without external dependencies
// - Application: use case orchestration (Commands/Queries)
// - Infrastructure: repository implementations, external clients
// - Interface: HTTP handlers
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/edutrack/edutrack-backend/config"
	"github.com/edutrack/edutrack-backend/internal/application/command"
	"github.com/edutrack/edutrack-backend/internal/application/query"
	"github.com/edutrack/edutrack-backend/internal/domain/report"
	"github.com/edutrack/edutrack-backend/internal/infrastructure/blob"
	"github.com/edutrack/edutrack-backend/internal/infrastructure/identity"
	"github.com/edutrack/edutrack-backend/internal/infrastructure/persistence/postgres"
	"github.com/edutrack/edutrack-backend/internal/infrastructure/persistence/redis"
	httpserver "github.com/edutrack/edutrack-backend/internal/interface/http"
	"github.com/edutrack/edutrack-backend/internal/interface/http/handlers"
	"github.com/edutrack/edutrack-backend/pkg/logger"
	"github.com/edutrack/edutrack-backend/pkg/retry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────

	// .env is for local development; in deployment the variables come from
	// the environment itself.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.App.Debug,
	})
	log.Info("starting EduTrack API server",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.String("timezone", cfg.App.Timezone),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. DATABASE (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")

	var dbConn *postgres.Connection
	err = retry.StartupRetrier().Do(ctx, func(ctx context.Context) error {
		var connErr error
		dbConn, connErr = postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		return connErr
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 4. MIGRATIONS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("running database migrations...")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. REDIS (report cache + shared rate limiter)
	// ─────────────────────────────────────────────────────────────────────────
	var redisCache *redis.Cache
	var reportCache report.Cache
	var invalidator command.ReportInvalidator
	var rateLimiter httpserver.RateLimiter

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")

		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		err = retry.StartupRetrier().Do(ctx, func(ctx context.Context) error {
			var cacheErr error
			redisCache, cacheErr = redis.NewCache(redisCfg)
			return cacheErr
		})
		if err != nil {
			// Reports degrade to per-request computation without Redis.
			log.Warn("failed to connect to Redis, report caching disabled", logger.Err(err))
			redisCache = nil
		} else {
			defer redisCache.Close()
			rc := redis.NewReportCache(redisCache)
			reportCache = rc
			invalidator = rc
			rateLimiter = redis.NewRateLimiter(redisCache, cfg.HTTP.RateLimitPerMinute)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. REPOSITORIES
	// ─────────────────────────────────────────────────────────────────────────
	attendanceRepo := postgres.NewAttendanceRepository(dbConn)
	assignmentRepo := postgres.NewAssignmentRepository(dbConn)
	noteRepo := postgres.NewNoteRepository(dbConn)
	profileRepo := postgres.NewProfileRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. EXTERNAL CLIENTS
	// ─────────────────────────────────────────────────────────────────────────
	blobCfg := blob.DefaultConfig(cfg.Blob.BaseURL, cfg.Blob.Bucket)
	blobCfg.APIKey = cfg.Blob.APIKey
	blobCfg.Timeout = cfg.Blob.Timeout
	blobClient := blob.NewClient(blobCfg, log)

	identityCfg := identity.DefaultConfig(cfg.Identity.BaseURL)
	identityCfg.Timeout = cfg.Identity.Timeout
	identityProvider := identity.NewHTTPProvider(identityCfg, log)

	// ─────────────────────────────────────────────────────────────────────────
	// 8. APPLICATION LAYER
	// ─────────────────────────────────────────────────────────────────────────
	markAttendance := command.NewMarkAttendanceHandler(attendanceRepo, invalidator, log,
		command.MarkAttendanceHandlerConfig{
			Location:            cfg.App.Location,
			GeolocationRequired: cfg.Attendance.GeolocationRequired,
		})
	submitAssignment := command.NewSubmitAssignmentHandler(assignmentRepo, blobClient, invalidator, log)
	notes := command.NewNoteHandler(noteRepo, invalidator, log)

	getAttendance := query.NewGetAttendanceHandler(attendanceRepo)
	getAssignments := query.NewGetAssignmentsHandler(assignmentRepo)
	getNotes := query.NewGetNotesHandler(noteRepo)
	getPerformance := query.NewGetPerformanceHandler(
		attendanceRepo, assignmentRepo, noteRepo, reportCache, log, cfg.App.Location)
	listAllAttendance := query.NewListAllAttendanceHandler(attendanceRepo)
	listAllAssignments := query.NewListAllAssignmentsHandler(assignmentRepo)

	// ─────────────────────────────────────────────────────────────────────────
	// 9. HEALTH CHECKS
	// ─────────────────────────────────────────────────────────────────────────
	health := handlers.NewCompositeHealthChecker(cfg.App.Version)
	health.AddCheck("postgres", handlers.NewPingCheck(dbConn))
	if redisCache != nil {
		health.AddCheck("redis", handlers.NewPingCheck(redisCache))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 10. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	httpCfg := httpserver.DefaultConfig()
	httpCfg.Host = cfg.HTTP.Host
	httpCfg.Port = cfg.HTTP.Port
	httpCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	httpCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	httpCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	httpCfg.MaxUploadBytes = cfg.Blob.MaxUploadBytes
	httpCfg.EnableCORS = cfg.HTTP.EnableCORS
	httpCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpCfg.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute

	server := httpserver.NewServer(httpCfg, httpserver.Dependencies{
		MarkAttendanceHandler:     markAttendance,
		SubmitAssignmentHandler:   submitAssignment,
		NoteHandler:               notes,
		GetAttendanceHandler:      getAttendance,
		GetAssignmentsHandler:     getAssignments,
		GetNotesHandler:           getNotes,
		GetPerformanceHandler:     getPerformance,
		ListAllAttendanceHandler:  listAllAttendance,
		ListAllAssignmentsHandler: listAllAssignments,
		Identity:                  identityProvider,
		Profiles:                  profileRepo,
		Logger:                    log,
		HealthChecker:             health,
		RateLimiter:               rateLimiter,
	})

	errCh := server.StartAsync()

	log.Info("EduTrack API server is running",
		logger.String("address", server.Address()),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 11. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			log.Error("server error", logger.Err(err))
			return err
		}
	}

	log.Info("starting graceful shutdown...",
		logger.String("timeout", cfg.App.ShutdownTimeout.String()),
	)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", logger.Err(err))
		return err
	}

	log.Info("shutdown completed successfully")
	return nil
}
