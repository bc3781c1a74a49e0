package game

import (
	"errors"
	"fmt"
	"testing"
)

// scripted replays fixed values. Dice come from IntN(6)+1, so a scripted 2
// rolls a 3. With no floats left every chaos draw misses.
type scripted struct {
	ints   []int
	floats []float64
}

func (s *scripted) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func (s *scripted) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.99
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scripted) dice(pairs ...int) {
	for _, d := range pairs {
		s.ints = append(s.ints, d-1)
	}
}

func newStartedGame(t *testing.T, players int) (*Engine, *scripted) {
	t.Helper()
	e := NewEngine("TEST0001", DefaultRules(), WithSeed(7))
	for i := 1; i <= players; i++ {
		if _, err := e.AddPlayer(fmt.Sprintf("p%d", i), fmt.Sprintf("Player %d", i)); err != nil {
			t.Fatalf("add player %d: %v", i, err)
		}
	}
	if err := e.Start("p1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	rng := &scripted{}
	e.rng = rng
	return e, rng
}

func give(e *Engine, playerID string, tiles ...int) {
	p := e.find(playerID)
	for _, id := range tiles {
		t := Board[id]
		e.properties[id] = &Ownership{TileID: id, OwnerID: playerID}
		p.Properties = append(p.Properties, PropertyRef{TileID: id, Name: t.Name, Group: t.Group})
	}
}

func TestRollMovesAroundTheRing(t *testing.T) {
	tests := []struct {
		name     string
		start    int
		d1, d2   int
		wantPos  int
		passedGo bool
		money    int
	}{
		{"from go to electric company", 0, 6, 6, 12, false, 1500},
		{"to jail visiting", 5, 2, 3, 10, false, 1500},
		{"wrap onto oriental", 35, 5, 6, 6, true, 1700},
		{"land exactly on go", 36, 1, 3, 0, true, 1700},
		{"from go to vermont", 0, 3, 5, 8, false, 1500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, rng := newStartedGame(t, 2)
			e.players[0].Position = tt.start
			rng.dice(tt.d1, tt.d2)

			res, err := e.RollDice("p1")
			if err != nil {
				t.Fatalf("roll: %v", err)
			}
			if res.NewPosition != tt.wantPos {
				t.Fatalf("position: got %d want %d", res.NewPosition, tt.wantPos)
			}
			if res.NewPosition != (tt.start+tt.d1+tt.d2)%BoardSize {
				t.Fatalf("position does not follow the ring: %d", res.NewPosition)
			}
			if res.PassedGo != tt.passedGo {
				t.Fatalf("passedGo: got %v want %v", res.PassedGo, tt.passedGo)
			}
			if got := e.players[0].Money; got != tt.money {
				t.Fatalf("money: got %d want %d", got, tt.money)
			}
		})
	}
}

func TestScenarioFirstRollLandsOnChance(t *testing.T) {
	e, rng := newStartedGame(t, 2)
	rng.dice(3, 4)

	res, err := e.RollDice("p1")
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	if res.Dice != [2]int{3, 4} || res.OldPosition != 0 || res.NewPosition != 7 {
		t.Fatalf("unexpected roll: %+v", res)
	}
	if res.PassedGo {
		t.Fatalf("no pass-go bonus expected")
	}
	if Board[7].Type != TileChance {
		t.Fatalf("tile 7 should be chance")
	}
	if res.Outcome.Kind != OutcomeCard || res.Outcome.Card == nil {
		t.Fatalf("expected a card draw, got %+v", res.Outcome)
	}
	if res.Outcome.Card.Deck != "chance" {
		t.Fatalf("drew from %s", res.Outcome.Card.Deck)
	}
	if e.chance.Remaining() != len(ChanceCards)-1 {
		t.Fatalf("chance deck should have advanced, remaining %d", e.chance.Remaining())
	}
	p := e.players[0]
	if p.Position != res.Outcome.Card.Effect.NewPosition || p.Money != res.Outcome.Card.Effect.Balance {
		t.Fatalf("card effect not reflected in player: %+v vs %+v", p, res.Outcome.Card.Effect)
	}
	if e.Phase() != PhaseAwaitingEndTurn {
		t.Fatalf("phase: %s", e.Phase())
	}
}

func TestScenarioOrangeMonopolyDoublesBaseRent(t *testing.T) {
	e, rng := newStartedGame(t, 2)
	give(e, "p1", 16, 18, 19)
	e.current = 1
	e.players[1].Position = 12
	rng.dice(2, 2)

	res, err := e.RollDice("p2")
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	if res.Outcome.Kind != OutcomeRent || res.Outcome.Amount != 28 {
		t.Fatalf("expected rent 28, got %+v", res.Outcome)
	}
	if e.players[1].Money != 1472 || e.players[0].Money != 1528 {
		t.Fatalf("rent not transferred: p1=%d p2=%d", e.players[0].Money, e.players[1].Money)
	}
}

func TestScenarioFreeParkingJackpot(t *testing.T) {
	e, rng := newStartedGame(t, 2)

	rng.dice(2, 2)
	res, err := e.RollDice("p1")
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	if res.Outcome.Kind != OutcomeTax || res.Outcome.Amount != 200 {
		t.Fatalf("expected income tax, got %+v", res.Outcome)
	}
	if _, err := e.EndTurn("p1"); err != nil {
		t.Fatalf("end turn: %v", err)
	}

	e.players[1].Position = JailPosition
	e.players[1].InJail = true
	if e.Phase() != PhaseAwaitingJail {
		t.Fatalf("phase: %s", e.Phase())
	}
	if _, err := e.PayJailFine("p2"); err != nil {
		t.Fatalf("pay fine: %v", err)
	}
	if e.Jackpot() != 250 {
		t.Fatalf("jackpot: got %d want 250", e.Jackpot())
	}

	rng.dice(4, 6)
	res, err = e.RollDice("p2")
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	if res.NewPosition != ParkingPosition || res.Outcome.Kind != OutcomeParking || res.Outcome.Amount != 250 {
		t.Fatalf("expected jackpot payout, got %+v", res.Outcome)
	}
	if e.Jackpot() != 0 {
		t.Fatalf("jackpot not reset: %d", e.Jackpot())
	}
	if e.players[1].Money != 1500-50+250 {
		t.Fatalf("p2 money: %d", e.players[1].Money)
	}
}

func TestScenarioBankruptcyDeclaresWinner(t *testing.T) {
	e, rng := newStartedGame(t, 2)
	give(e, "p1", 39)
	give(e, "p2", 1, 3)
	e.current = 1
	e.players[1].Position = 35
	e.players[1].Money = 40
	rng.dice(2, 2)

	res, err := e.RollDice("p2")
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	if res.Outcome.Kind != OutcomeRent || res.Outcome.Amount != 50 {
		t.Fatalf("expected boardwalk rent, got %+v", res.Outcome)
	}
	if len(res.Bankrupt) != 1 || res.Bankrupt[0] != "p2" {
		t.Fatalf("expected p2 bankrupt, got %v", res.Bankrupt)
	}
	p2 := e.players[1]
	if p2.Active || len(p2.Properties) != 0 || p2.Money != -10 {
		t.Fatalf("p2 not retired: %+v", p2)
	}
	for id, o := range e.properties {
		if o.OwnerID == "p2" {
			t.Fatalf("tile %d still owned by bankrupt player", id)
		}
	}
	if res.GameOver == nil || res.GameOver.WinnerID != "p1" {
		t.Fatalf("expected p1 to win, got %+v", res.GameOver)
	}
	if e.Status() != StatusEnded {
		t.Fatalf("status: %s", e.Status())
	}
	if res.Chaos != nil || e.PendingChaos() != nil {
		t.Fatalf("no chaos should follow the final roll")
	}

	if _, err := e.RollDice("p1"); !errors.Is(err, ErrGameEnded) {
		t.Fatalf("expected ErrGameEnded, got %v", err)
	}
	if _, err := e.EndTurn("p1"); !errors.Is(err, ErrGameEnded) {
		t.Fatalf("expected ErrGameEnded, got %v", err)
	}
}

func TestBankruptPlayerLeavesRotation(t *testing.T) {
	e, rng := newStartedGame(t, 3)
	give(e, "p1", 39)
	e.current = 1
	e.players[1].Position = 35
	e.players[1].Money = 50
	rng.dice(2, 2)

	res, err := e.RollDice("p2")
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	if res.GameOver != nil {
		t.Fatalf("game should continue with two players")
	}
	cur, _ := e.CurrentPlayer()
	if cur.ID != "p3" {
		t.Fatalf("turn should pass to p3, got %s", cur.ID)
	}
	if e.Phase() != PhaseAwaitingRoll {
		t.Fatalf("phase: %s", e.Phase())
	}

	rng.dice(1, 2)
	if _, err := e.RollDice("p3"); err != nil {
		t.Fatalf("p3 roll: %v", err)
	}
	turn, err := e.EndTurn("p3")
	if err != nil {
		t.Fatalf("p3 end: %v", err)
	}
	if turn.CurrentPlayerID != "p1" || turn.TurnCount != 2 {
		t.Fatalf("expected wrap to p1 with turn 2, got %+v", turn)
	}

	rng.dice(1, 2)
	if _, err := e.RollDice("p1"); err != nil {
		t.Fatalf("p1 roll: %v", err)
	}
	turn, err = e.EndTurn("p1")
	if err != nil {
		t.Fatalf("p1 end: %v", err)
	}
	if turn.CurrentPlayerID != "p3" {
		t.Fatalf("bankrupt p2 should be skipped, got %s", turn.CurrentPlayerID)
	}
	if _, err := e.RollDice("p2"); !errors.Is(err, ErrPlayerInactive) {
		t.Fatalf("expected ErrPlayerInactive, got %v", err)
	}
}

func TestJailFlow(t *testing.T) {
	e, rng := newStartedGame(t, 2)
	e.players[0].Position = 28
	rng.dice(1, 1)

	res, err := e.RollDice("p1")
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	if res.Outcome.Kind != OutcomeGoToJail {
		t.Fatalf("expected go to jail, got %+v", res.Outcome)
	}
	p1 := e.players[0]
	if p1.Position != JailPosition || !p1.InJail || p1.JailTurns != 0 {
		t.Fatalf("p1 not jailed: %+v", p1)
	}
	if _, err := e.EndTurn("p1"); err != nil {
		t.Fatalf("end turn: %v", err)
	}

	rng.dice(1, 2)
	if _, err := e.RollDice("p2"); err != nil {
		t.Fatalf("p2 roll: %v", err)
	}
	if _, err := e.EndTurn("p2"); err != nil {
		t.Fatalf("p2 end: %v", err)
	}

	if _, err := e.RollDice("p1"); !errors.Is(err, ErrInJail) {
		t.Fatalf("expected ErrInJail, got %v", err)
	}
	if _, err := e.UseJailCard("p1"); !errors.Is(err, ErrNoJailCard) {
		t.Fatalf("expected ErrNoJailCard, got %v", err)
	}
	if _, err := e.EndTurn("p1"); err != nil {
		t.Fatalf("serve turn: %v", err)
	}
	if p1.JailTurns != 1 {
		t.Fatalf("jail turns: %d", p1.JailTurns)
	}

	rng.dice(1, 2)
	if _, err := e.RollDice("p2"); err != nil {
		t.Fatalf("p2 roll: %v", err)
	}
	if _, err := e.EndTurn("p2"); err != nil {
		t.Fatalf("p2 end: %v", err)
	}

	p1.JailFreeCards = 1
	jr, err := e.UseJailCard("p1")
	if err != nil {
		t.Fatalf("use card: %v", err)
	}
	if p1.InJail || jr.CardsRemaining != 0 || p1.JailTurns != 0 {
		t.Fatalf("card did not release: %+v", p1)
	}
	if _, err := e.PayJailFine("p1"); !errors.Is(err, ErrNotInJail) {
		t.Fatalf("expected ErrNotInJail, got %v", err)
	}
	rng.dice(1, 2)
	if _, err := e.RollDice("p1"); err != nil {
		t.Fatalf("roll after release: %v", err)
	}
}

func TestLobbyValidation(t *testing.T) {
	e := NewEngine("LOBBY001", DefaultRules(), WithSeed(1))

	if err := e.Start("nobody"); !errors.Is(err, ErrNotHost) {
		t.Fatalf("expected ErrNotHost, got %v", err)
	}
	if _, err := e.AddPlayer("p1", "  "); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
	if _, err := e.AddPlayer("p1", "Alice"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := e.Start("p1"); !errors.Is(err, ErrNotEnoughPlayers) {
		t.Fatalf("expected ErrNotEnoughPlayers, got %v", err)
	}
	if _, err := e.RollDice("p1"); !errors.Is(err, ErrGameNotActive) {
		t.Fatalf("expected ErrGameNotActive, got %v", err)
	}

	colors := map[string]bool{}
	for i := 2; i <= 6; i++ {
		if _, err := e.AddPlayer(fmt.Sprintf("p%d", i), fmt.Sprintf("P%d", i)); err != nil {
			t.Fatalf("add p%d: %v", i, err)
		}
	}
	for _, p := range e.players {
		if colors[p.Color] {
			t.Fatalf("colour %s assigned twice", p.Color)
		}
		colors[p.Color] = true
	}
	if _, err := e.AddPlayer("p7", "Late"); !errors.Is(err, ErrGameFull) {
		t.Fatalf("expected ErrGameFull, got %v", err)
	}

	if err := e.RemovePlayer("p3"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	p, err := e.AddPlayer("p7", "Late")
	if err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	if p.Color != Palette[2] || p.TurnOrder != 5 {
		t.Fatalf("freed seat not reused: %+v", p)
	}

	if e.TurnCount() != 0 {
		t.Fatalf("lobby turn count: %d", e.TurnCount())
	}
	if err := e.Start("p1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if e.TurnCount() != 1 {
		t.Fatalf("first turn should be 1, got %d", e.TurnCount())
	}
	if err := e.Start("p1"); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("expected ErrAlreadyStarted, got %v", err)
	}
	if _, err := e.AddPlayer("p8", "Later"); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("expected ErrAlreadyStarted, got %v", err)
	}
	if err := e.RemovePlayer("p2"); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("expected ErrAlreadyStarted, got %v", err)
	}
}

func TestTurnValidation(t *testing.T) {
	e, rng := newStartedGame(t, 2)

	if _, err := e.RollDice("p2"); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}
	if _, err := e.RollDice("ghost"); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}
	if _, err := e.EndTurn("p1"); !errors.Is(err, ErrMustRoll) {
		t.Fatalf("expected ErrMustRoll, got %v", err)
	}
	if _, err := e.BuyProperty("p1"); !errors.Is(err, ErrMustRoll) {
		t.Fatalf("expected ErrMustRoll, got %v", err)
	}

	rng.dice(2, 2)
	if _, err := e.RollDice("p1"); err != nil {
		t.Fatalf("roll: %v", err)
	}
	if _, err := e.RollDice("p1"); !errors.Is(err, ErrAlreadyRolled) {
		t.Fatalf("expected ErrAlreadyRolled, got %v", err)
	}
	before := e.players[0].Money
	if _, err := e.BuyProperty("p1"); !errors.Is(err, ErrNotPurchasable) {
		t.Fatalf("expected ErrNotPurchasable on tax tile, got %v", err)
	}
	if e.players[0].Money != before {
		t.Fatalf("failed buy mutated money")
	}
}

func TestBuyProperty(t *testing.T) {
	e, rng := newStartedGame(t, 2)
	rng.dice(2, 3)

	res, err := e.RollDice("p1")
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	if res.Outcome.Kind != OutcomeCanBuy || res.Outcome.Amount != 200 {
		t.Fatalf("expected reading railroad for sale, got %+v", res.Outcome)
	}
	buy, err := e.BuyProperty("p1")
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if buy.Price != 200 || buy.Balance != 1300 {
		t.Fatalf("unexpected purchase: %+v", buy)
	}
	own, ok := e.Ownership(5)
	if !ok || own.OwnerID != "p1" {
		t.Fatalf("ownership not recorded: %+v", own)
	}
	if len(e.players[0].Properties) != 1 || e.players[0].Properties[0].Group != GroupRailroad {
		t.Fatalf("property list: %+v", e.players[0].Properties)
	}
	if _, err := e.BuyProperty("p1"); !errors.Is(err, ErrAlreadyOwned) {
		t.Fatalf("expected ErrAlreadyOwned, got %v", err)
	}
	if _, err := e.EndTurn("p1"); err != nil {
		t.Fatalf("end: %v", err)
	}

	e.players[1].Money = 100
	e.players[1].Position = 34
	rng.dice(1, 2)
	if _, err := e.RollDice("p2"); err != nil {
		t.Fatalf("roll: %v", err)
	}
	if _, err := e.BuyProperty("p2"); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if _, ok := e.Ownership(37); ok {
		t.Fatalf("park place should stay unowned")
	}
}

func TestBuildHouseUpToHotel(t *testing.T) {
	e, rng := newStartedGame(t, 2)
	give(e, "p1", 1)

	if _, err := e.BuildHouse("p1", 1); !errors.Is(err, ErrMustRoll) {
		t.Fatalf("expected ErrMustRoll, got %v", err)
	}

	rng.dice(2, 3)
	if _, err := e.RollDice("p1"); err != nil {
		t.Fatalf("roll: %v", err)
	}

	if _, err := e.BuildHouse("p1", 1); !errors.Is(err, ErrNoMonopoly) {
		t.Fatalf("expected ErrNoMonopoly, got %v", err)
	}
	if _, err := e.BuildHouse("p1", 5); !errors.Is(err, ErrNotBuildable) {
		t.Fatalf("expected ErrNotBuildable, got %v", err)
	}
	if _, err := e.BuildHouse("p1", 3); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	give(e, "p1", 3)

	for level := 1; level <= 5; level++ {
		res, err := e.BuildHouse("p1", 1)
		if err != nil {
			t.Fatalf("level %d: %v", level, err)
		}
		if level < 5 && (res.Houses != level || res.Hotel) {
			t.Fatalf("level %d: %+v", level, res)
		}
		if level == 5 && (res.Houses != 0 || !res.Hotel) {
			t.Fatalf("expected hotel: %+v", res)
		}
	}
	if _, err := e.BuildHouse("p1", 1); !errors.Is(err, ErrFullyImproved) {
		t.Fatalf("expected ErrFullyImproved, got %v", err)
	}
	if e.players[0].Money != 1500-5*50 {
		t.Fatalf("money: %d", e.players[0].Money)
	}
	if got := e.RentFor(1, 0); got != 250 {
		t.Fatalf("hotel rent: got %d want 250", got)
	}
}

func TestBuildHouseWhileJailed(t *testing.T) {
	e, _ := newStartedGame(t, 2)
	give(e, "p1", 1, 3)
	p1 := e.players[0]
	p1.InJail = true
	p1.Position = JailPosition

	if _, err := e.BuildHouse("p1", 1); !errors.Is(err, ErrInJail) {
		t.Fatalf("expected ErrInJail, got %v", err)
	}
	if p1.Money != 1500 || e.properties[1].Houses != 0 {
		t.Fatalf("jailed build mutated state: money %d houses %d", p1.Money, e.properties[1].Houses)
	}
}

func TestSpendingLastDollarIsRejected(t *testing.T) {
	t.Run("buy", func(t *testing.T) {
		e, rng := newStartedGame(t, 2)
		p1 := e.players[0]
		p1.Money = 200
		rng.dice(2, 3)
		if _, err := e.RollDice("p1"); err != nil {
			t.Fatalf("roll: %v", err)
		}
		if _, err := e.BuyProperty("p1"); !errors.Is(err, ErrInsufficientFunds) {
			t.Fatalf("expected ErrInsufficientFunds, got %v", err)
		}
		if _, ok := e.Ownership(5); ok {
			t.Fatalf("railroad should stay unowned")
		}
		if p1.Money != 200 || !p1.Active {
			t.Fatalf("buyer changed: %+v", p1)
		}
	})

	t.Run("build", func(t *testing.T) {
		e, rng := newStartedGame(t, 2)
		give(e, "p1", 1, 3)
		p1 := e.players[0]
		p1.Money = 50
		rng.dice(2, 3)
		if _, err := e.RollDice("p1"); err != nil {
			t.Fatalf("roll: %v", err)
		}
		if _, err := e.BuildHouse("p1", 1); !errors.Is(err, ErrInsufficientFunds) {
			t.Fatalf("expected ErrInsufficientFunds, got %v", err)
		}
		if p1.Money != 50 || !p1.Active || e.properties[1].Houses != 0 {
			t.Fatalf("builder changed: money %d active %v houses %d", p1.Money, p1.Active, e.properties[1].Houses)
		}
	})

	t.Run("jail fine", func(t *testing.T) {
		e, _ := newStartedGame(t, 2)
		p1 := e.players[0]
		p1.InJail = true
		p1.Position = JailPosition
		p1.Money = 50
		jackpot := e.jackpot
		if _, err := e.PayJailFine("p1"); !errors.Is(err, ErrInsufficientFunds) {
			t.Fatalf("expected ErrInsufficientFunds, got %v", err)
		}
		if p1.Money != 50 || !p1.InJail || !p1.Active || e.jackpot != jackpot {
			t.Fatalf("fine changed state: %+v jackpot %d", p1, e.jackpot)
		}
	})
}

func TestChaosBlocksActionsUntilResolved(t *testing.T) {
	e, rng := newStartedGame(t, 2)
	give(e, "p1", 39)
	rng.dice(1, 2)
	rng.floats = []float64{0.0}

	res, err := e.RollDice("p1")
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	if res.Chaos == nil || res.Chaos.ID != "tax_audit" {
		t.Fatalf("expected tax audit pending, got %+v", res.Chaos)
	}
	if _, err := e.EndTurn("p1"); !errors.Is(err, ErrChaosPending) {
		t.Fatalf("expected ErrChaosPending, got %v", err)
	}
	if _, err := e.BuyProperty("p1"); !errors.Is(err, ErrChaosPending) {
		t.Fatalf("expected ErrChaosPending, got %v", err)
	}

	money := e.players[0].Money
	chaos := e.ResolveChaos()
	if chaos == nil || chaos.PlayerID != "p1" {
		t.Fatalf("expected chaos result, got %+v", chaos)
	}
	want := (money + 400) / 10
	if chaos.Outcome.Amount != want || e.players[0].Money != money-want {
		t.Fatalf("tax audit: amount %d money %d", chaos.Outcome.Amount, e.players[0].Money)
	}
	if e.ResolveChaos() != nil {
		t.Fatalf("second resolve should be a no-op")
	}
	if _, err := e.EndTurn("p1"); err != nil {
		t.Fatalf("end after chaos: %v", err)
	}
}

func TestMarketCountersTickOnEndTurn(t *testing.T) {
	e, rng := newStartedGame(t, 2)
	e.market = Market{CrashTurns: 3, BoomTurns: 1}

	rng.dice(1, 2)
	if _, err := e.RollDice("p1"); err != nil {
		t.Fatalf("roll: %v", err)
	}
	turn, err := e.EndTurn("p1")
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if turn.Market != (Market{CrashTurns: 2, BoomTurns: 0}) {
		t.Fatalf("market: %+v", turn.Market)
	}
	if turn.CurrentPlayerID != "p2" || turn.TurnCount != 1 {
		t.Fatalf("turn: %+v", turn)
	}
}

func TestForfeitHandsOverTurnAndEndsGame(t *testing.T) {
	e, _ := newStartedGame(t, 3)
	give(e, "p1", 6, 8)

	res, err := e.Forfeit("p1")
	if err != nil {
		t.Fatalf("forfeit: %v", err)
	}
	if res.CurrentPlayerID != "p2" || res.GameOver != nil {
		t.Fatalf("unexpected forfeit result: %+v", res)
	}
	if _, ok := e.Ownership(6); ok {
		t.Fatalf("forfeited property still owned")
	}

	res, err = e.Forfeit("p3")
	if err != nil {
		t.Fatalf("forfeit p3: %v", err)
	}
	if res.GameOver == nil || res.GameOver.WinnerID != "p2" {
		t.Fatalf("expected p2 to win, got %+v", res.GameOver)
	}
	if _, err := e.Forfeit("p2"); !errors.Is(err, ErrGameEnded) {
		t.Fatalf("expected ErrGameEnded, got %v", err)
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	e, _ := newStartedGame(t, 2)
	give(e, "p1", 1)

	s := e.Snapshot()
	s.Players[0].Properties[0].TileID = 39
	s.Players[0].Money = 0

	if e.players[0].Properties[0].TileID != 1 || e.players[0].Money != 1500 {
		t.Fatalf("snapshot shares memory with the engine")
	}
	if s.Status != StatusActive || s.Phase != PhaseAwaitingRoll || s.CurrentPlayerID != "p1" {
		t.Fatalf("unexpected snapshot: %+v", s)
	}
	if len(s.Properties) != 1 || s.ChanceRemaining != len(ChanceCards) {
		t.Fatalf("unexpected snapshot contents: %+v", s)
	}
}
