package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/glowlab/skinsight/internal/application"
	appanalysis "github.com/glowlab/skinsight/internal/application/analysis"
	"github.com/glowlab/skinsight/internal/application/ratelimit"
	"github.com/glowlab/skinsight/internal/config"
	"github.com/glowlab/skinsight/internal/domain/analysis"
	"github.com/glowlab/skinsight/internal/domain/images"
	"github.com/glowlab/skinsight/internal/domain/vision"
	ailocal "github.com/glowlab/skinsight/internal/infra/ai/local"
	aiopenai "github.com/glowlab/skinsight/internal/infra/ai/openai"
	mysqlp "github.com/glowlab/skinsight/internal/infra/db/mysql"
	postgresp "github.com/glowlab/skinsight/internal/infra/db/postgres"
	"github.com/glowlab/skinsight/internal/infra/httpserver"
	minioStore "github.com/glowlab/skinsight/internal/infra/storage"
	"github.com/glowlab/skinsight/internal/middleware"
)

func main() {
	// .env first so ${VAR} references in config.yaml resolve
	_ = godotenv.Load()

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// connect record + image store, driver selected by config
	var (
		db           *sql.DB
		records      analysis.Repository
		imageRecords images.Repository
	)
	switch cfg.Database.Driver {
	case "mysql":
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		records = mysqlp.NewAnalysisRepository(db)
		imageRecords = mysqlp.NewImageRepository(db)
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		records = postgresp.NewAnalysisRepository(db)
		imageRecords = postgresp.NewImageRepository(db)
	default:
		log.Fatalf("unknown database driver: %q", cfg.Database.Driver)
	}
	defer db.Close()

	// signed-access issuer over the image bucket
	store, err := minioStore.New(ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.BucketName,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
		cfg.Minio.SignedURLTTL.Std(),
	)
	if err != nil {
		log.Fatalf("minio init error: %v", err)
	}

	// vision client, provider selected by config
	var visionClient vision.Client
	switch cfg.AI.Provider {
	case "local":
		visionClient = ailocal.NewClient()
	case "openai":
		visionClient = aiopenai.NewClient(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.Timeout.Std())
	default:
		log.Fatalf("unknown ai provider: %q", cfg.AI.Provider)
	}

	// per-owner rate limiter with background eviction
	limiter := ratelimit.NewLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.Window.Std())
	stopEviction := make(chan struct{})
	go limiter.StartEviction(cfg.RateLimit.Window.Std(), stopEviction)

	svc := &appanalysis.Service{
		Records: records,
		Images:  imageRecords,
		Signer:  store,
		Vision:  visionClient,
		Limiter: limiter,
		Clock:   application.SystemClock{},
	}

	checkers := map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	}
	handler := httpserver.NewRouter(svc, cfg.Auth.APIKeys, checkers, cfg.Server.AllowedOrigins)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // an analysis call awaits the model end to end
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")
	close(stopEviction)

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
