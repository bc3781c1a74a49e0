package domain

import (
	"encoding/json"
	"errors"
	"time"
)

var ErrGameNotFound = errors.New("game not found")

// GameRecord is the persisted row of a game. BoardState holds the full
// JSON snapshot of the engine so a finished or evicted game can still be
// served.
type GameRecord struct {
	ID            string          `db:"id" json:"id"`
	Status        string          `db:"status" json:"status"`
	CurrentPlayer int             `db:"current_player" json:"current_player"`
	TurnCount     int             `db:"turn_count" json:"turn_count"`
	BoardState    json.RawMessage `db:"board_state" json:"board_state"`
	Jackpot       int             `db:"jackpot" json:"jackpot"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// PlayerRecord mirrors one seat. Properties is stored as a jsonb array of
// tile ids.
type PlayerRecord struct {
	ID            string `db:"id" json:"id"`
	GameID        string `db:"game_id" json:"game_id"`
	Name          string `db:"name" json:"name"`
	Color         string `db:"color" json:"color"`
	Position      int    `db:"position" json:"position"`
	Money         int    `db:"money" json:"money"`
	InJail        bool   `db:"in_jail" json:"in_jail"`
	JailTurns     int    `db:"jail_turns" json:"jail_turns"`
	JailFreeCards int    `db:"jail_free_cards" json:"jail_free_cards"`
	Properties    []int  `db:"properties" json:"properties"`
	TurnOrder     int    `db:"turn_order" json:"turn_order"`
	Active        bool   `db:"active" json:"active"`
}

type PropertyRecord struct {
	GameID    string `db:"game_id" json:"game_id"`
	TileID    int    `db:"tile_id" json:"tile_id"`
	OwnerID   string `db:"owner_id" json:"owner_id"`
	Houses    int    `db:"houses" json:"houses"`
	Hotel     bool   `db:"hotel" json:"hotel"`
	Mortgaged bool   `db:"mortgaged" json:"mortgaged"`
}
