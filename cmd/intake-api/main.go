package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/talentdesk/intake-api/api/swagger"
	"github.com/talentdesk/intake-api/internal/handler"
	"github.com/talentdesk/intake-api/internal/middleware"
	"github.com/talentdesk/intake-api/internal/models"
	"github.com/talentdesk/intake-api/internal/repository"
	"github.com/talentdesk/intake-api/internal/service"
	"github.com/talentdesk/intake-api/pkg/cache"
	"github.com/talentdesk/intake-api/pkg/config"
	"github.com/talentdesk/intake-api/pkg/database"
	appErrors "github.com/talentdesk/intake-api/pkg/errors"
	"github.com/talentdesk/intake-api/pkg/filecheck"
	"github.com/talentdesk/intake-api/pkg/jobs"
	"github.com/talentdesk/intake-api/pkg/logger"
	corsmiddleware "github.com/talentdesk/intake-api/pkg/middleware/cors"
	reqidmiddleware "github.com/talentdesk/intake-api/pkg/middleware/requestid"
	"github.com/talentdesk/intake-api/pkg/response"
	"github.com/talentdesk/intake-api/pkg/storage"
)

// @title Candidate Intake API
// @version 1.0.0
// @description Public candidate application intake with a reviewer admin surface
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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
	response.ExposeDetails(cfg.Env != config.EnvProduction)
	filecheck.Configure(cfg.Uploads.MaxImageSizeBytes, cfg.Uploads.MaxPDFSizeBytes)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The database dials lazily on first use. Requests arriving before it
	// is reachable get a typed 503 instead of crashing the process.
	connector := database.NewConnector(cfg.Database)
	defer connector.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, file cache disabled", "error", err)
		redisClient = nil
	}

	blobStore, urlSigner, err := buildBlobStore(cfg)
	if err != nil {
		logr.Sugar().Fatalw("failed to init blob store", "error", err)
	}

	cleanupQueue := jobs.NewCleanupQueue(blobStore, jobs.CleanupConfig{
		Workers:    cfg.Cleanup.Workers,
		MaxRetries: cfg.Cleanup.MaxRetries,
		RetryDelay: cfg.Cleanup.RetryDelay,
		Logger:     logr,
	})
	cleanupQueue.Start(ctx)
	defer cleanupQueue.Stop()

	appRepo := repository.NewApplicationRepository(connector)
	fileRepo := repository.NewFileRepository(connector, cfg.Storage.PublicHost)
	userRepo := repository.NewUserRepository(connector)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	submissionSvc := service.NewSubmissionService(appRepo, fileRepo, blobStore, cleanupQueue, nil, logr, metricsSvc, cfg.Storage.FolderPrefix)
	fileSvc := service.NewFileService(fileRepo, cacheRepo, cleanupQueue, logr, metricsSvc, cfg.Files.CacheTTL)
	applicationSvc := service.NewApplicationService(appRepo, logr)
	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		Secret: cfg.JWT.Secret,
		Expiry: cfg.JWT.Expiration,
		Issuer: cfg.JWT.Issuer,
	})

	submissionHandler := handler.NewSubmissionHandler(submissionSvc)
	fileHandler := handler.NewFileHandler(fileSvc)
	applicationHandler := handler.NewApplicationHandler(applicationSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	probes := map[string]handler.ReadinessProbe{
		"database": func(ctx context.Context) error {
			db, err := connector.EnsureConnected()
			if err != nil {
				return err
			}
			return db.PingContext(ctx)
		},
	}
	if redisClient != nil {
		probes["cache"] = func(ctx context.Context) error {
			return cacheRepo.Ping(ctx)
		}
	}
	metricsHandler := handler.NewMetricsHandler(metricsSvc, probes)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.HandleMethodNotAllowed = true
	r.NoMethod(response.MethodNotAllowed)
	r.NoRoute(func(c *gin.Context) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "route not found"))
	})

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	if local, ok := blobStore.(*storage.Local); ok {
		downloadHandler := handler.NewDownloadHandler(local, urlSigner)
		r.GET("/files/download/*object", downloadHandler.Download)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/applications",
		middleware.OriginGuard(cfg.Env, cfg.App.PublicURL),
		submissionHandler.Submit)

	admin := api.Group("/admin")
	admin.POST("/auth/login", authHandler.Login)

	protected := admin.Group("")
	protected.Use(middleware.JWT(authSvc))
	protected.GET("/files", fileHandler.List)
	protected.GET("/files/:id", fileHandler.Get)
	protected.DELETE("/files/:id",
		middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin),
		fileHandler.Delete)
	protected.GET("/applications", applicationHandler.List)
	protected.GET("/applications/export", applicationHandler.Export)
	protected.GET("/applications/:id", applicationHandler.Get)
	protected.PATCH("/applications/:id/status",
		middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleReviewer),
		applicationHandler.UpdateStatus)

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "storage", cfg.Storage.Backend)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

func buildBlobStore(cfg *config.Config) (storage.BlobStore, *storage.URLSigner, error) {
	switch cfg.Storage.Backend {
	case "provider":
		return storage.NewProvider(storage.ProviderConfig{
			BaseURL:        cfg.Storage.BaseURL,
			APIKey:         cfg.Storage.APIKey,
			RequestTimeout: cfg.Storage.RequestTimeout,
		}), nil, nil
	case "local":
		signer := storage.NewURLSigner(cfg.Storage.SignedURLSecret, cfg.Storage.SignedURLTTL)
		local, err := storage.NewLocal(cfg.Storage.LocalDir, cfg.Storage.LocalPublicURL, signer)
		if err != nil {
			return nil, nil, err
		}
		return local, signer, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
