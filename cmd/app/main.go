package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clawbot69/clawnopoly/internal/cache"
	"github.com/clawbot69/clawnopoly/internal/config"
	"github.com/clawbot69/clawnopoly/internal/db"
	httpServer "github.com/clawbot69/clawnopoly/internal/http"
	"github.com/clawbot69/clawnopoly/internal/http/handlers"
	"github.com/clawbot69/clawnopoly/internal/http/middleware"
	"github.com/clawbot69/clawnopoly/internal/logger"
	"github.com/clawbot69/clawnopoly/internal/service"
	"github.com/clawbot69/clawnopoly/internal/ws"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	store, err := db.OpenStore(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to open database", "error", err)
	}

	rdb, err := cache.Connect(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Warn("redis unavailable, continuing without cache and shared rate limits", "error", err)
	}
	middleware.InitRedisRateLimiter(rdb)

	var snapshots service.SnapshotCache
	var storePinger, cachePinger handlers.Pinger
	if store != nil {
		storePinger = store
	}
	if rdb != nil {
		sc := cache.NewSnapshotCache(rdb)
		snapshots, cachePinger = sc, sc
	}

	recorder := service.NewRecorder(store, snapshots, 0, 0)
	registry := service.NewRegistry(cfg.Rules)
	registry.StartCleanup(ctx, time.Minute, cfg.IdleTTL)

	hub := ws.NewHub()
	games := service.NewGameService(registry, hub, service.NewSeatTokens(cfg.JWTSecret, 0), recorder, cfg.ChaosDelay)

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Metrics(), middleware.CORS(cfg.AllowedOrigin))

	httpServer.RegisterRoutes(r, httpServer.Deps{
		Games:         games,
		Hub:           hub,
		Store:         storePinger,
		Cache:         cachePinger,
		Version:       cfg.AppVersion,
		AllowedOrigin: cfg.AllowedOrigin,
		RateLimit:     cfg.APIRateLimit,
		RateWindow:    cfg.APIRateWindow,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", cfg.AppVersion)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	hub.Shutdown()
	registry.Close()
	recorder.Stop(shutdownCtx)
	if store != nil {
		store.Close()
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server exited")
}
