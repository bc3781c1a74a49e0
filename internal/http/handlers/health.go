package handlers

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is anything whose availability the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// GameCounter reports how many games are loaded.
type GameCounter interface {
	Len() int
}

// ConnCounter reports open websocket connections.
type ConnCounter interface {
	Connections() int
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	store     Pinger
	cache     Pinger
	games     GameCounter
	conns     ConnCounter
	startTime time.Time
	version   string
}

// NewHealthHandler creates a new health handler. store and cache may be nil
// when the server runs without them.
func NewHealthHandler(store, cache Pinger, games GameCounter, version string) *HealthHandler {
	return &HealthHandler{
		store:     store,
		cache:     cache,
		games:     games,
		startTime: time.Now(),
		version:   version,
	}
}

// WithConnections adds the websocket connection count to readiness.
func (h *HealthHandler) WithConnections(cc ConnCounter) *HealthHandler {
	h.conns = cc
	return h
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version,omitempty"`
	Uptime    string            `json:"uptime,omitempty"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Liveness returns simple alive status (for k8s liveness probe)
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness returns detailed health status (for k8s readiness probe)
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	allHealthy := true

	for name, p := range map[string]Pinger{"database": h.store, "redis": h.cache} {
		switch {
		case p == nil:
			checks[name] = "disabled"
		case p.Ping(ctx) != nil:
			checks[name] = "unhealthy"
			allHealthy = false
		default:
			checks[name] = "healthy"
		}
	}
	if h.games != nil {
		checks["games_loaded"] = strconv.Itoa(h.games.Len())
	}
	if h.conns != nil {
		checks["ws_connections"] = strconv.Itoa(h.conns.Connections())
	}

	// Memory check
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	checks["memory_alloc_mb"] = formatMB(m.Alloc)

	status := "healthy"
	statusCode := http.StatusOK
	if !allHealthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, HealthResponse{
		Status:    status,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

// Health is a combined endpoint for basic health checks
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if h.store == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.version, "database": "disabled"})
		return
	}

	if err := h.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "database unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
	})
}

func formatMB(bytes uint64) string {
	mb := float64(bytes) / 1024 / 1024
	return fmt.Sprintf("%.2f", mb)
}
