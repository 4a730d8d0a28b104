package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/teambuilder/config"
	"github.com/oksasatya/teambuilder/internal/application"
	"github.com/oksasatya/teambuilder/internal/container"
	"github.com/oksasatya/teambuilder/internal/infrastructure/backend"
	"github.com/oksasatya/teambuilder/internal/interface/middleware"
	"github.com/oksasatya/teambuilder/internal/router"
	"github.com/oksasatya/teambuilder/pkg/helpers"
	"github.com/oksasatya/teambuilder/pkg/metrics"
	"github.com/oksasatya/teambuilder/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// Storage backend (local, memory, postgres, redis, firestore)
	records, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("failed to open storage backend: %v", err)
	}
	defer records.Close()

	// Redis for rate limiting; optional
	rdb, err := helpers.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.WithError(err).Warn("redis unavailable, using in-process rate limits")
		rdb = nil
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	// Elasticsearch project search; optional
	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		logger.Fatalf("failed to init elasticsearch client: %v", err)
	}

	// RabbitMQ celebration events; optional
	var pub *helpers.RabbitPublisher
	if cfg.RabbitMQURL != "" && cfg.NotifySendEnabled {
		pub, err = helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQCelebrationQueue)
		if err != nil {
			logger.Fatalf("failed to connect rabbitmq: %v", err)
		}
		defer pub.Close()
	}

	jwtManager := helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.AccessTTL)

	// Provide infra singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetBackend(records)
	container.SetRedis(rdb)
	container.SetJWT(jwtManager)
	container.SetES(es)
	container.SetRabbitPub(pub)
	container.SetMetrics(metrics.New())

	svc := router.BuildService()
	defer svc.Store.Close()
	if err := svc.Store.Load(ctx); err != nil {
		helpers.LogError(logger, "some records could not be loaded", err, logrus.Fields{"backend": records.Name})
	}
	helpers.LogInfo(logger, "marketplace loaded", logrus.Fields{
		"users":    len(svc.Store.Users()),
		"projects": len(svc.Store.Projects()),
	})
	if es != nil {
		go svc.Search.Reindex(ctx)
	}

	// Scheduled GCS backups
	if cfg.GCSBucket != "" {
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			logger.Fatalf("failed to init GCS client: %v", err)
		}
		defer func() { _ = gcsClient.Close() }()
		container.SetGCS(gcsClient)

		if cfg.BackupCron != "" {
			b := &application.Backup{
				Store:  svc.Store,
				Prefix: cfg.BackupPrefix,
				Logger: logger,
				Upload: func(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
					return helpers.UploadObject(ctx, gcsClient, cfg.GCSBucket, objectPath, contentType, r)
				},
			}
			sched, err := b.Schedule(cfg.BackupCron)
			if err != nil {
				logger.Fatalf("backup schedule: %v", err)
			}
			defer func() { <-sched.Stop().Done() }()
			logger.WithField("cron", cfg.BackupCron).Info("scheduled backups enabled")
		}
	}

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	// CORS
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowOrigins = []string{"http://localhost:5173"}
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}
