package domain

import "time"

// ActionLog is one entry of a game's history.
type ActionLog struct {
	ID        int64                  `db:"id" json:"id"`
	GameID    string                 `db:"game_id" json:"game_id"`
	PlayerID  string                 `db:"player_id" json:"player_id,omitempty"`
	Action    string                 `db:"action" json:"action"`
	Details   map[string]interface{} `db:"details" json:"details"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}

// Log actions
const (
	// Lobby
	ActionCreate = "create"
	ActionJoin   = "join"
	ActionStart  = "start"
	ActionLeave  = "leave"

	// Turn
	ActionRoll        = "roll"
	ActionChaos       = "chaos"
	ActionBuyProperty = "buyProperty"
	ActionBuildHouse  = "buildHouse"
	ActionEndTurn     = "endTurn"
	ActionPayJailFine = "payJailFine"
	ActionUseJailCard = "useJailCard"

	// Outcome
	ActionBankrupt = "bankrupt"
	ActionGameEnd  = "gameEnd"
)

const DefaultLogLimit = 50
