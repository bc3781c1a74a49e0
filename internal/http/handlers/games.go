package handlers

import (
	"net/http"
	"strconv"

	"github.com/clawbot69/clawnopoly/internal/domain"

	"github.com/gin-gonic/gin"
)

// ListGames returns lobbies with free seats.
func (h *Handler) ListGames(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"games": h.Games.ListOpenGames(c.Request.Context())})
}

func (h *Handler) CreateGame(c *gin.Context) {
	id, err := h.Games.CreateGame(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"gameId": id})
}

func (h *Handler) GetGame(c *gin.Context) {
	snap, err := h.Games.State(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// GetLog returns the newest entries of the action log. limit defaults to 50
// and is capped at 500.
func (h *Handler) GetLog(c *gin.Context) {
	limit := domain.DefaultLogLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}
	if limit > 500 {
		limit = 500
	}

	logs, err := h.Games.ActionLog(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"log": logs})
}

// DeleteGame needs the seat token of a player of that game.
func (h *Handler) DeleteGame(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
		return
	}
	if err := h.Games.DeleteGame(c.Request.Context(), c.Param("id"), token); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
