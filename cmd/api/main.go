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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/guardtree/guardtree-api/internal/application"
	appanalysis "github.com/guardtree/guardtree-api/internal/application/analysis"
	appauth "github.com/guardtree/guardtree-api/internal/application/auth"
	appcases "github.com/guardtree/guardtree-api/internal/application/cases"
	appforms "github.com/guardtree/guardtree-api/internal/application/forms"
	appusers "github.com/guardtree/guardtree-api/internal/application/users"
	"github.com/guardtree/guardtree-api/internal/config"
	domanalysis "github.com/guardtree/guardtree-api/internal/domain/analysis"
	domcases "github.com/guardtree/guardtree-api/internal/domain/cases"
	domforms "github.com/guardtree/guardtree-api/internal/domain/forms"
	domusers "github.com/guardtree/guardtree-api/internal/domain/users"
	aiclient "github.com/guardtree/guardtree-api/internal/infra/ai/openai"
	"github.com/guardtree/guardtree-api/internal/infra/ai/prompt"
	mysqlp "github.com/guardtree/guardtree-api/internal/infra/db/mysql"
	postgresp "github.com/guardtree/guardtree-api/internal/infra/db/postgres"
	"github.com/guardtree/guardtree-api/internal/infra/httpserver"
	minioStore "github.com/guardtree/guardtree-api/internal/infra/storage"
	"github.com/guardtree/guardtree-api/internal/middleware"
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

	// connect database, driver dipilih dari config
	var (
		db           *sql.DB
		formRepo     domforms.Repository
		analysisRepo domanalysis.Repository
		caseRepo     domcases.Repository
		userRepo     domusers.Repository
	)
	switch cfg.Database.Driver {
	case "mysql":
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		formRepo = mysqlp.NewFormRepository(db)
		analysisRepo = mysqlp.NewAnalysisRepository(db)
		caseRepo = mysqlp.NewCaseRepository(db)
		userRepo = mysqlp.NewUserRepository(db)
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		formRepo = postgresp.NewFormRepository(db)
		analysisRepo = postgresp.NewAnalysisRepository(db)
		caseRepo = postgresp.NewCaseRepository(db)
		userRepo = postgresp.NewUserRepository(db)
	default:
		log.Fatalf("unknown database driver: %q", cfg.Database.Driver)
	}
	defer db.Close()

	// init minio (opsional, untuk arsip raw response)
	var archive domanalysis.Archive
	if cfg.ArchiveEnabled() {
		store, err := minioStore.New(ctx,
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
		archive = store
	}

	// init model client
	model := aiclient.NewClient(cfg.AI.APIKey, cfg.AI.Model)

	// init services
	usersSvc := &appusers.Service{Repo: userRepo}
	casesSvc := &appcases.Service{Repo: caseRepo, Clock: application.SystemClock{}}
	formsSvc := &appforms.Service{Repo: formRepo, Cases: caseRepo, Clock: application.SystemClock{}}
	analysisSvc := &appanalysis.Service{
		Forms:    formRepo,
		Analyses: analysisRepo,
		Model:    model,
		Archive:  archive,
		Prompt:   prompt.BuildAnalysisPrompt,
		Clock:    application.SystemClock{},
	}
	authSvc := &appauth.Service{
		Users:    userRepo,
		Secret:   []byte(cfg.Auth.JWTSecret),
		TokenTTL: cfg.TokenTTL(),
		Clock:    application.SystemClock{},
	}

	// init router
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.JWTAuth(authSvc))
	mux.Use(middleware.RateLimitMiddleware(60, 1))

	mux.Get("/health", middleware.HealthHandler(map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	}))
	mux.Get("/metrics", middleware.MetricsHandler)
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Mount("/", httpserver.NewRouter(authSvc, usersSvc, casesSvc, formsSvc, analysisSvc))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
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
