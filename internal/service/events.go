package service

import "github.com/clawbot69/clawnopoly/internal/game"

// Event names sent to clients.
const (
	EventGameCreated        = "gameCreated"
	EventJoinedGame         = "joinedGame"
	EventPlayerJoined       = "playerJoined"
	EventGameStarted        = "gameStarted"
	EventDiceRolled         = "diceRolled"
	EventTileAction         = "tileAction"
	EventChaos              = "chaosEvent"
	EventPropertyBought     = "propertyBought"
	EventHouseBuilt         = "houseBuilt"
	EventTurnEnded          = "turnEnded"
	EventJailFinePaid       = "jailFinePaid"
	EventJailCardUsed       = "jailCardUsed"
	EventPlayerLeft         = "playerLeft"
	EventPlayerDisconnected = "playerDisconnected"
	EventBankrupt           = "bankrupt"
	EventGameEnded          = "gameEnded"
	EventState              = "state"
	EventError              = "error"
)

type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Broadcaster delivers events to every connection seated in a game.
type Broadcaster interface {
	Broadcast(gameID string, ev Event)
}

type JoinResult struct {
	GameID string      `json:"gameId"`
	Player game.Player `json:"player"`
	Token  string      `json:"token"`
}

type PlayersPayload struct {
	Players []game.Player `json:"players"`
}

type GameStartedPayload struct {
	Board         [game.BoardSize]game.Tile `json:"board"`
	Players       []game.Player             `json:"players"`
	CurrentPlayer game.Player               `json:"currentPlayer"`
}

type DiceRolledPayload struct {
	PlayerID    string `json:"playerId"`
	Dice        [2]int `json:"dice"`
	Total       int    `json:"total"`
	OldPosition int    `json:"oldPosition"`
	NewPosition int    `json:"newPosition"`
	PassedGo    bool   `json:"passedGo"`
	Balance     int    `json:"balance"`
}

type TileActionPayload struct {
	PlayerID string           `json:"playerId"`
	Tile     game.Tile        `json:"tile"`
	Result   game.TileOutcome `json:"result"`
}

type TurnEndedPayload struct {
	*game.TurnResult
	NextPlayer game.Player `json:"nextPlayer"`
}

type PlayerLeftPayload struct {
	PlayerID string        `json:"playerId"`
	Players  []game.Player `json:"players"`
}

type PlayerPayload struct {
	PlayerID string `json:"playerId"`
}

type BankruptPayload struct {
	PlayerIDs []string `json:"playerIds"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// LobbyInfo describes a game that is still accepting players.
type LobbyInfo struct {
	ID         string   `json:"id"`
	Players    []string `json:"players"`
	MaxPlayers int      `json:"maxPlayers"`
}
