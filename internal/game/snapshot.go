package game

import "sort"

// Snapshot is a detached copy of the game state, safe to hand to other
// goroutines and to serialize.
type Snapshot struct {
	ID                 string      `json:"id"`
	Status             Status      `json:"status"`
	Phase              Phase       `json:"phase,omitempty"`
	Players            []Player    `json:"players"`
	CurrentPlayer      int         `json:"currentPlayer"`
	CurrentPlayerID    string      `json:"currentPlayerId,omitempty"`
	TurnCount          int         `json:"turnCount"`
	Properties         []Ownership `json:"properties"`
	Market             Market      `json:"market"`
	Jackpot            int         `json:"freeParkingJackpot"`
	ChanceRemaining    int         `json:"chanceRemaining"`
	CommunityRemaining int         `json:"communityRemaining"`
	Rules              Rules       `json:"rules"`
	GameOver           *GameOver   `json:"gameOver,omitempty"`
}

func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		ID:                 e.ID,
		Status:             e.status,
		Phase:              e.Phase(),
		Players:            make([]Player, 0, len(e.players)),
		CurrentPlayer:      e.current,
		TurnCount:          e.turnCount,
		Properties:         make([]Ownership, 0, len(e.properties)),
		Market:             e.market,
		Jackpot:            e.jackpot,
		ChanceRemaining:    e.chance.Remaining(),
		CommunityRemaining: e.community.Remaining(),
		Rules:              e.rules,
	}
	for _, p := range e.players {
		s.Players = append(s.Players, p.clone())
	}
	if len(e.players) > 0 {
		s.CurrentPlayerID = e.players[e.current].ID
	}
	for _, o := range e.properties {
		s.Properties = append(s.Properties, *o)
	}
	sort.Slice(s.Properties, func(i, j int) bool {
		return s.Properties[i].TileID < s.Properties[j].TileID
	})
	if e.over != nil {
		over := *e.over
		s.GameOver = &over
	}
	return s
}
