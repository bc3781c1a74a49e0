package http

import (
	"time"

	"github.com/clawbot69/clawnopoly/internal/http/handlers"
	"github.com/clawbot69/clawnopoly/internal/http/middleware"
	"github.com/clawbot69/clawnopoly/internal/service"
	"github.com/clawbot69/clawnopoly/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is everything the routes need. Store and Cache may be nil.
type Deps struct {
	Games         *service.GameService
	Hub           *ws.Hub
	Store         handlers.Pinger
	Cache         handlers.Pinger
	Version       string
	AllowedOrigin string
	RateLimit     int
	RateWindow    time.Duration
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	h := handlers.NewHandler(d.Games)
	healthHandler := handlers.NewHealthHandler(d.Store, d.Cache, d.Games.Registry(), d.Version)
	if d.Hub != nil {
		healthHandler.WithConnections(d.Hub)
	}

	if d.RateLimit <= 0 {
		d.RateLimit = 60
	}
	if d.RateWindow <= 0 {
		d.RateWindow = time.Minute
	}

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/ws", ws.HandleWS(d.Hub, ws.NewRouter(d.Games, d.Hub), d.AllowedOrigin))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(d.RateLimit, d.RateWindow))
	{
		v1.GET("/board", h.Board)
		v1.GET("/games", h.ListGames)
		v1.POST("/games", h.CreateGame)
		v1.GET("/games/:id", h.GetGame)
		v1.GET("/games/:id/log", h.GetLog)
		v1.DELETE("/games/:id", h.DeleteGame)
	}
}
