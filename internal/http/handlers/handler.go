package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/clawbot69/clawnopoly/internal/game"
	"github.com/clawbot69/clawnopoly/internal/logger"
	"github.com/clawbot69/clawnopoly/internal/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Games *service.GameService
}

func NewHandler(games *service.GameService) *Handler {
	return &Handler{Games: games}
}

// respondError maps service and engine errors onto status codes.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrGameNotFound), errors.Is(err, game.ErrPlayerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidToken):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case game.IsValidation(err):
		status = http.StatusBadRequest
	case game.IsResource(err):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		logger.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// bearerToken returns the token of an "Authorization: Bearer" header.
func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
