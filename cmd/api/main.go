package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/serplab/rankforensics/internal/application"
	appanalysis "github.com/serplab/rankforensics/internal/application/analysis"
	appchat "github.com/serplab/rankforensics/internal/application/chat"
	"github.com/serplab/rankforensics/internal/config"
	"github.com/serplab/rankforensics/internal/domain/audit"
	"github.com/serplab/rankforensics/internal/infra/ai/openai"
	"github.com/serplab/rankforensics/internal/infra/db/mysql"
	"github.com/serplab/rankforensics/internal/infra/db/postgres"
	"github.com/serplab/rankforensics/internal/infra/evidence"
	"github.com/serplab/rankforensics/internal/infra/httpserver"
	minioStore "github.com/serplab/rankforensics/internal/infra/storage"
	"github.com/serplab/rankforensics/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// connect database, driver per config
	var (
		repo    audit.Repository
		checker middleware.HealthChecker
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		defer db.Close()
		repo = postgres.NewAuditRepository(db)
		checker = &middleware.DatabaseHealthChecker{DB: db}
	default:
		db, err := mysql.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		defer db.Close()
		repo = mysql.NewAuditRepository(db)
		checker = &middleware.DatabaseHealthChecker{DB: db}
	}

	// init transcript archive
	archive, err := minioStore.New(ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.BucketName,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		log.Fatalf("minio init error: %v", err)
	}

	// init evidence providers
	calendar, err := evidence.NewCalendar()
	if err != nil {
		log.Fatalf("algo calendar error: %v", err)
	}
	rank := evidence.NewRankClient(cfg.RankProvider.Endpoint, cfg.RankProvider.APIKey)
	if !rank.Configured() {
		log.Printf("ranking provider not configured; market checks will be skipped")
	}

	// init model client
	model := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)

	// init services
	analysisSvc := &appanalysis.Service{
		Rank:     rank,
		Calendar: calendar,
		Model:    model,
		Audit:    repo,
		Archive:  archive,
		Clock:    application.SystemClock{},
	}
	chatSvc := &appchat.Service{
		Model: model,
		Audit: repo,
		Clock: application.SystemClock{},
	}

	// admission control for the model endpoints
	limiter := middleware.NewFixedWindowLimiter(
		middleware.NewMemoryCounterStore(),
		cfg.RateLimit.Requests,
		time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
	)

	handler := httpserver.NewRouter(httpserver.Deps{
		Analysis: analysisSvc,
		Chat:     chatSvc,
		APIKeys:  cfg.Auth.APIKeys,
		Limiter:  limiter,
		Health:   map[string]middleware.HealthChecker{"database": checker},
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// chat responses stream; give writes room to finish
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
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

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
