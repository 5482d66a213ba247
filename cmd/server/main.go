package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/invoice-agent/backend/internal/api"
	"github.com/invoice-agent/backend/internal/config"
	"github.com/invoice-agent/backend/internal/jobs"
	"github.com/invoice-agent/backend/internal/logger"
	"github.com/invoice-agent/backend/internal/ocr"
	"github.com/invoice-agent/backend/internal/product"
	"github.com/invoice-agent/backend/internal/storage"
	"github.com/invoice-agent/backend/internal/store"
	"github.com/invoice-agent/backend/internal/vision"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// .env is optional; real deployments pass environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if Version != "dev" {
		cfg.Version = Version
	}

	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Printf("Failed to create directories: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogsDir, cfg.Debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Log.Sync()

	log := logger.Sugar
	log.Infow("starting", "app", cfg.AppName, "version", cfg.Version, "build_time", BuildTime)

	if err := cfg.Validate(); err != nil {
		log.Fatalw("invalid configuration", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	mongoClient, err := store.Connect(ctx, cfg.Mongo.URI())
	cancel()
	if err != nil {
		log.Fatalw("mongodb connection failed", "host", cfg.Mongo.Host, "error", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			log.Warnw("mongodb disconnect failed", "error", err)
		}
	}()
	db := mongoClient.Database(cfg.Mongo.Database)
	invoices := store.NewInvoices(db)
	extractions := store.NewExtractions(db)

	annotator, err := vision.New(context.Background(), cfg.OCR.CredentialsPath, cfg.OCR.LanguageHints)
	if err != nil {
		log.Fatalw("vision client initialization failed", "error", err)
	}
	defer annotator.Close()

	cache, err := ocr.NewCache(cfg.OCR.CacheDir, time.Duration(cfg.OCR.CacheTTLMinutes)*time.Minute)
	if err != nil {
		log.Fatalw("ocr cache initialization failed", "dir", cfg.OCR.CacheDir, "error", err)
	}
	extractor := ocr.New(annotator, cfg.OCR, cache)

	catalog := product.NewCatalog(cfg.Catalog.ProductsFile)
	if err := catalog.Load(); err != nil {
		log.Warnw("product catalog not loaded, /api/products will retry on demand",
			"file", cfg.Catalog.ProductsFile, "error", err)
	}

	fileStore, err := storage.NewLocalStore(cfg.OCR.UploadDir)
	if err != nil {
		log.Fatalw("upload storage initialization failed", "dir", cfg.OCR.UploadDir, "error", err)
	}

	jobMgr := jobs.NewManager(extractor)

	// Drop finished jobs after an hour so the map stays bounded
	go func() {
		ticker := time.NewTicker(15 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			if n := jobMgr.CleanupOldJobs(time.Hour); n > 0 {
				log.Debugw("cleaned up finished jobs", "count", n)
			}
		}
	}()

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path == "/health" ||
				strings.HasPrefix(path, "/api/ocr/jobs/")
		},
	}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 * 1024,
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/api/ws/")
		},
	}))
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	handlers := api.NewHandlers(&api.Dependencies{
		Extractor:   extractor,
		Extractions: extractions,
		Invoices:    invoices,
		Catalog:     catalog,
		Jobs:        jobMgr,
		Store:       fileStore,
		AppName:     cfg.AppName,
		Version:     cfg.Version,
	})
	api.RegisterRoutes(e, handlers)
	api.RegisterWebSocketRoutes(e, handlers)

	server := &http.Server{
		Addr:         cfg.ServerAddr(),
		Handler:      e,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Infow("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("graceful shutdown failed", "error", err)
	}
}
