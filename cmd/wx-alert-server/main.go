// wx-alert-server exposes point-in-polygon alert lookups over HTTP,
// refreshing the NWS alerts dataset in the background and recording lookup
// history in sqlite.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/mr1hm/go-wx-alerts/internal/api"
	"github.com/mr1hm/go-wx-alerts/internal/config"
	"github.com/mr1hm/go-wx-alerts/internal/dataset"
	"github.com/mr1hm/go-wx-alerts/internal/fetch"
	"github.com/mr1hm/go-wx-alerts/internal/logging"
	"github.com/mr1hm/go-wx-alerts/internal/repository"
	"github.com/mr1hm/go-wx-alerts/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	db, err := repository.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Background persistence of lookup history
	pool := worker.NewPool(cfg.Worker.Count, cfg.Worker.BufferSize, db.Add)
	pool.Start(ctx)

	// Background dataset refresh
	fetcher := fetch.New(cfg.Dataset.URL, cfg.Dataset.FetchTimeout)
	mgr := dataset.NewManager(fetcher, cfg.Dataset.RefreshInterval)
	mgr.Start(ctx)

	// Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // Set to false when using wildcard origins
	}))
	router.Use(api.RateLimitMiddleware(5, 10)) // 5 req/s global limit

	handler := api.NewHandler(mgr, db, pool)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	// Drain in-flight requests before tearing down the pool: handlers still
	// submit lookup records during the shutdown window.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	cancel()
	mgr.Stop()
	pool.Stop()

	slog.Info("shutdown complete")
}
