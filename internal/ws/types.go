package ws

// Message is the envelope of every frame in both directions.
type Message struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

const (
	// client -> server
	MsgCreateGame  = "createGame"
	MsgJoinGame    = "joinGame"
	MsgStartGame   = "startGame"
	MsgRollDice    = "rollDice"
	MsgBuyProperty = "buyProperty"
	MsgBuildHouse  = "buildHouse"
	MsgEndTurn     = "endTurn"
	MsgPayJailFine = "payJailFine"
	MsgUseJailCard = "useJailCard"
	MsgLeaveGame   = "leaveGame"
	MsgResume      = "resume"
	MsgGetState    = "getState"
	MsgPing        = "ping"

	// server -> client
	MsgReady = "ready"
	MsgPong  = "pong"
)

type joinGameRequest struct {
	GameID     string `mapstructure:"gameId"`
	PlayerName string `mapstructure:"playerName"`
}

type buildHouseRequest struct {
	TileID int `mapstructure:"tileId"`
}

type resumeRequest struct {
	Token string `mapstructure:"token"`
}

type getStateRequest struct {
	GameID string `mapstructure:"gameId"`
}
