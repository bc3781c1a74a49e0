package game

type OutcomeKind string

const (
	OutcomeNone     OutcomeKind = "none"
	OutcomeGoToJail OutcomeKind = "goToJail"
	OutcomeTax      OutcomeKind = "tax"
	OutcomeCard     OutcomeKind = "card"
	OutcomeParking  OutcomeKind = "parking"
	OutcomeCanBuy   OutcomeKind = "canBuy"
	OutcomeRent     OutcomeKind = "rent"
	OutcomeOwn      OutcomeKind = "own"
)

type CardDraw struct {
	Deck       string        `json:"deck"`
	Card       Card          `json:"card"`
	Reshuffled bool          `json:"reshuffled,omitempty"`
	Effect     EffectOutcome `json:"effect"`
}

// TileOutcome is the result of landing on a tile.
type TileOutcome struct {
	Kind     OutcomeKind `json:"type"`
	TileID   int         `json:"tileId"`
	Amount   int         `json:"amount,omitempty"`
	OwnerID  string      `json:"ownerId,omitempty"`
	RentDice []int       `json:"rentDice,omitempty"`
	Card     *CardDraw   `json:"card,omitempty"`
	Message  string      `json:"message"`
}

type GameOver struct {
	WinnerID   string `json:"winnerId,omitempty"`
	WinnerName string `json:"winnerName,omitempty"`
	Reason     string `json:"reason"`
}

// Settlement is the bankruptcy pass that follows every action.
type Settlement struct {
	Bankrupt []string  `json:"bankrupt,omitempty"`
	GameOver *GameOver `json:"gameOver,omitempty"`
}

type RollResult struct {
	PlayerID    string      `json:"playerId"`
	Dice        [2]int      `json:"dice"`
	Total       int         `json:"total"`
	OldPosition int         `json:"oldPosition"`
	NewPosition int         `json:"newPosition"`
	PassedGo    bool        `json:"passedGo"`
	Tile        Tile        `json:"tile"`
	Outcome     TileOutcome `json:"tileResult"`
	Balance     int         `json:"balance"`
	// Chaos is the event waiting for ResolveChaos, hidden from clients until
	// it resolves.
	Chaos *ChaosEvent `json:"-"`
	Settlement
}

type ChaosResult struct {
	PlayerID string        `json:"playerId"`
	Event    ChaosEvent    `json:"event"`
	Outcome  EffectOutcome `json:"result"`
	Settlement
}

type PurchaseResult struct {
	PlayerID string `json:"playerId"`
	Tile     Tile   `json:"property"`
	Price    int    `json:"price"`
	Balance  int    `json:"balance"`
	Settlement
}

type BuildResult struct {
	PlayerID string `json:"playerId"`
	TileID   int    `json:"tileId"`
	Houses   int    `json:"houses"`
	Hotel    bool   `json:"hotel"`
	Cost     int    `json:"cost"`
	Balance  int    `json:"balance"`
	Settlement
}

type JailResult struct {
	PlayerID       string `json:"playerId"`
	Paid           int    `json:"paid,omitempty"`
	CardsRemaining int    `json:"cardsRemaining"`
	Balance        int    `json:"balance"`
	Jackpot        int    `json:"jackpot"`
	Settlement
}

type TurnResult struct {
	PreviousPlayerID string `json:"previousPlayerId"`
	CurrentPlayerID  string `json:"currentPlayerId"`
	CurrentPlayer    int    `json:"currentPlayer"`
	TurnCount        int    `json:"turnCount"`
	Market           Market `json:"market"`
	Settlement
}
