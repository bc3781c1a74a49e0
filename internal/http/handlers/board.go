package handlers

import (
	"net/http"

	"github.com/clawbot69/clawnopoly/internal/game"

	"github.com/gin-gonic/gin"
)

type chaosInfo struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Probability float64 `json:"probability"`
}

// Board returns the static board, the rules in force and the chaos table.
func (h *Handler) Board(c *gin.Context) {
	chaos := make([]chaosInfo, 0, len(game.ChaosEvents))
	for _, ev := range game.ChaosEvents {
		chaos = append(chaos, chaosInfo{
			ID:          ev.ID,
			Name:        ev.Name,
			Description: ev.Description,
			Probability: ev.Probability,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"board":       game.Board,
		"rules":       h.Games.Registry().Rules(),
		"chaosEvents": chaos,
	})
}
