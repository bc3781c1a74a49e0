package game

import (
	"strings"
)

type Status string

const (
	StatusWaiting Status = "waiting"
	StatusActive  Status = "active"
	StatusEnded   Status = "ended"
)

type Phase string

const (
	PhaseAwaitingRoll    Phase = "awaitingRoll"
	PhaseAwaitingJail    Phase = "awaitingJail"
	PhaseAwaitingEndTurn Phase = "awaitingEndTurn"
)

type PropertyRef struct {
	TileID int    `json:"id"`
	Name   string `json:"name"`
	Group  Group  `json:"group"`
}

type Player struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Color         string        `json:"color"`
	Position      int           `json:"position"`
	Money         int           `json:"money"`
	InJail        bool          `json:"inJail"`
	JailTurns     int           `json:"jailTurns"`
	JailFreeCards int           `json:"getOutOfJailFree"`
	Properties    []PropertyRef `json:"properties"`
	TurnOrder     int           `json:"turnOrder"`
	Active        bool          `json:"active"`
}

func (p *Player) clone() Player {
	c := *p
	c.Properties = append([]PropertyRef(nil), p.Properties...)
	return c
}

// Ownership is the record of an owned tile. Hotel stands for level 5 and
// is never set together with houses.
type Ownership struct {
	TileID    int    `json:"tileId"`
	OwnerID   string `json:"ownerId"`
	Houses    int    `json:"houses"`
	Hotel     bool   `json:"hotel"`
	Mortgaged bool   `json:"mortgaged"`
}

type Market struct {
	CrashTurns int `json:"crashTurns"`
	BoomTurns  int `json:"boomTurns"`
}

// Engine is the authoritative state of one game. It is not safe for
// concurrent use; callers serialize access per game.
type Engine struct {
	ID string

	rules      Rules
	rng        Random
	status     Status
	players    []*Player
	current    int
	turnCount  int
	properties map[int]*Ownership
	market     Market
	jackpot    int
	chance     *Deck
	community  *Deck

	rolled       bool
	pendingChaos *ChaosEvent
	chaosFor     string
	over         *GameOver
}

func NewEngine(id string, rules Rules, opts ...Option) *Engine {
	e := &Engine{
		ID:         id,
		rules:      rules.withDefaults(),
		rng:        defaultRandom(),
		status:     StatusWaiting,
		properties: make(map[int]*Ownership),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.chance = NewDeck("chance", ChanceCards, e.rng)
	e.community = NewDeck("community", CommunityCards, e.rng)
	return e
}

func (e *Engine) Status() Status { return e.status }
func (e *Engine) Rules() Rules { return e.rules }
func (e *Engine) Jackpot() int { return e.jackpot }
func (e *Engine) Market() Market { return e.market }
func (e *Engine) TurnCount() int { return e.turnCount }
func (e *Engine) PlayerCount() int { return len(e.players) }

func (e *Engine) Player(id string) (Player, bool) {
	p := e.find(id)
	if p == nil {
		return Player{}, false
	}
	return p.clone(), true
}

func (e *Engine) CurrentPlayer() (Player, bool) {
	if len(e.players) == 0 {
		return Player{}, false
	}
	return e.players[e.current].clone(), true
}

func (e *Engine) Ownership(tileID int) (Ownership, bool) {
	o, ok := e.properties[tileID]
	if !ok {
		return Ownership{}, false
	}
	return *o, true
}

func (e *Engine) Phase() Phase {
	if e.status != StatusActive || len(e.players) == 0 {
		return ""
	}
	switch {
	case e.rolled:
		return PhaseAwaitingEndTurn
	case e.players[e.current].InJail:
		return PhaseAwaitingJail
	default:
		return PhaseAwaitingRoll
	}
}

// AddPlayer seats a new player while the game is waiting.
func (e *Engine) AddPlayer(id, name string) (Player, error) {
	switch e.status {
	case StatusEnded:
		return Player{}, ErrGameEnded
	case StatusActive:
		return Player{}, ErrAlreadyStarted
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Player{}, ErrInvalidName
	}
	if len(e.players) >= e.rules.MaxPlayers {
		return Player{}, ErrGameFull
	}

	p := &Player{
		ID:        id,
		Name:      name,
		Color:     e.freeColor(),
		Money:     e.rules.StartingMoney,
		TurnOrder: len(e.players),
		Active:    true,
	}
	e.players = append(e.players, p)
	return p.clone(), nil
}

// RemovePlayer drops a player from a lobby that has not started yet.
func (e *Engine) RemovePlayer(id string) error {
	if e.status != StatusWaiting {
		return ErrAlreadyStarted
	}
	for i, p := range e.players {
		if p.ID != id {
			continue
		}
		e.players = append(e.players[:i], e.players[i+1:]...)
		for j, q := range e.players {
			q.TurnOrder = j
		}
		return nil
	}
	return ErrPlayerNotFound
}

func (e *Engine) Start(playerID string) error {
	switch e.status {
	case StatusEnded:
		return ErrGameEnded
	case StatusActive:
		return ErrAlreadyStarted
	}
	if e.find(playerID) == nil {
		return ErrNotHost
	}
	if len(e.players) < e.rules.MinPlayers {
		return ErrNotEnoughPlayers
	}
	e.status = StatusActive
	e.current = 0
	e.turnCount = 1
	e.rolled = false
	return nil
}

// RollDice moves the current player, resolves the landing tile and selects
// a chaos event. The event stays pending until ResolveChaos is called and
// every other action is refused in the meantime.
func (e *Engine) RollDice(playerID string) (*RollResult, error) {
	p, err := e.turnOf(playerID)
	if err != nil {
		return nil, err
	}
	if p.InJail {
		return nil, ErrInJail
	}
	if e.rolled {
		return nil, ErrAlreadyRolled
	}

	d1, d2 := e.rollDie(), e.rollDie()
	res := &RollResult{
		PlayerID:    p.ID,
		Dice:        [2]int{d1, d2},
		Total:       d1 + d2,
		OldPosition: p.Position,
	}

	newPos := (p.Position + res.Total) % BoardSize
	if newPos < p.Position && p.Position != GoPosition {
		p.Money += e.rules.PassGoBonus
		res.PassedGo = true
	}
	p.Position = newPos
	e.rolled = true

	res.NewPosition = newPos
	res.Tile = Board[newPos]
	res.Outcome = e.resolveTile(p)
	res.Settlement = e.settle()

	if e.status == StatusActive && p.Active {
		if ev := SelectChaos(e.rng.Float64()); ev != nil {
			e.pendingChaos = ev
			e.chaosFor = p.ID
			res.Chaos = ev
		}
	}
	res.Balance = p.Money
	return res, nil
}

// ResolveChaos applies the event selected by the last roll. It returns nil
// when nothing is pending.
func (e *Engine) ResolveChaos() *ChaosResult {
	ev := e.pendingChaos
	if ev == nil {
		return nil
	}
	e.pendingChaos = nil
	p := e.find(e.chaosFor)
	e.chaosFor = ""
	if p == nil || !p.Active || e.status != StatusActive {
		return nil
	}

	res := &ChaosResult{PlayerID: p.ID, Event: *ev}
	res.Outcome = e.applyEffect(p, ev.Effect)
	res.Settlement = e.settle()
	return res
}

func (e *Engine) PendingChaos() *ChaosEvent {
	return e.pendingChaos
}

func (e *Engine) BuyProperty(playerID string) (*PurchaseResult, error) {
	p, err := e.turnOf(playerID)
	if err != nil {
		return nil, err
	}
	if !e.rolled {
		return nil, ErrMustRoll
	}

	tile := Board[p.Position]
	if !tile.Ownable() {
		return nil, ErrNotPurchasable
	}
	if _, owned := e.properties[tile.ID]; owned {
		return nil, ErrAlreadyOwned
	}
	if p.Money <= tile.Price {
		return nil, ErrInsufficientFunds
	}

	p.Money -= tile.Price
	e.properties[tile.ID] = &Ownership{TileID: tile.ID, OwnerID: p.ID}
	p.Properties = append(p.Properties, PropertyRef{TileID: tile.ID, Name: tile.Name, Group: tile.Group})

	res := &PurchaseResult{PlayerID: p.ID, Tile: tile, Price: tile.Price, Balance: p.Money}
	res.Settlement = e.settle()
	return res, nil
}

// BuildHouse adds one improvement level to a property of a completed colour
// group. A fifth level replaces the four houses with a hotel. Voluntary
// spending must leave the player above zero.
func (e *Engine) BuildHouse(playerID string, tileID int) (*BuildResult, error) {
	p, err := e.turnOf(playerID)
	if err != nil {
		return nil, err
	}
	if tileID < 0 || tileID >= BoardSize || Board[tileID].Type != TileProperty {
		return nil, ErrNotBuildable
	}
	if p.InJail {
		return nil, ErrInJail
	}
	if !e.rolled {
		return nil, ErrMustRoll
	}
	tile := Board[tileID]
	own, ok := e.properties[tileID]
	if !ok || own.OwnerID != p.ID {
		return nil, ErrNotOwner
	}
	if !e.hasMonopoly(p.ID, tile.Group) {
		return nil, ErrNoMonopoly
	}
	if own.Hotel {
		return nil, ErrFullyImproved
	}
	if p.Money <= tile.HouseCost {
		return nil, ErrInsufficientFunds
	}

	p.Money -= tile.HouseCost
	if own.Houses == 4 {
		own.Houses = 0
		own.Hotel = true
	} else {
		own.Houses++
	}

	res := &BuildResult{
		PlayerID: p.ID,
		TileID:   tileID,
		Houses:   own.Houses,
		Hotel:    own.Hotel,
		Cost:     tile.HouseCost,
		Balance:  p.Money,
	}
	res.Settlement = e.settle()
	return res, nil
}

func (e *Engine) PayJailFine(playerID string) (*JailResult, error) {
	p, err := e.turnOf(playerID)
	if err != nil {
		return nil, err
	}
	if !p.InJail {
		return nil, ErrNotInJail
	}
	fine := e.rules.JailFine
	if p.Money <= fine {
		return nil, ErrInsufficientFunds
	}

	p.Money -= fine
	e.jackpot += fine
	e.release(p)

	res := &JailResult{
		PlayerID:       p.ID,
		Paid:           fine,
		CardsRemaining: p.JailFreeCards,
		Balance:        p.Money,
		Jackpot:        e.jackpot,
	}
	res.Settlement = e.settle()
	return res, nil
}

func (e *Engine) UseJailCard(playerID string) (*JailResult, error) {
	p, err := e.turnOf(playerID)
	if err != nil {
		return nil, err
	}
	if !p.InJail {
		return nil, ErrNotInJail
	}
	if p.JailFreeCards <= 0 {
		return nil, ErrNoJailCard
	}

	p.JailFreeCards--
	e.release(p)

	return &JailResult{
		PlayerID:       p.ID,
		CardsRemaining: p.JailFreeCards,
		Balance:        p.Money,
		Jackpot:        e.jackpot,
	}, nil
}

// EndTurn passes play to the next active player. A jailed player who has
// not rolled may end the turn in jail, which counts a turn served.
func (e *Engine) EndTurn(playerID string) (*TurnResult, error) {
	p, err := e.turnOf(playerID)
	if err != nil {
		return nil, err
	}
	if !e.rolled {
		if !p.InJail {
			return nil, ErrMustRoll
		}
		p.JailTurns++
	}

	e.advanceTurn()
	res := &TurnResult{PreviousPlayerID: p.ID}
	res.Settlement = e.settle()
	e.fillTurn(res)
	return res, nil
}

// Forfeit retires a player from a running game as if bankrupt.
func (e *Engine) Forfeit(playerID string) (*TurnResult, error) {
	switch e.status {
	case StatusEnded:
		return nil, ErrGameEnded
	case StatusWaiting:
		return nil, ErrGameNotActive
	}
	if e.pendingChaos != nil {
		return nil, ErrChaosPending
	}
	p := e.find(playerID)
	if p == nil {
		return nil, ErrPlayerNotFound
	}
	if !p.Active {
		return nil, ErrPlayerInactive
	}

	prev := e.players[e.current].ID
	e.retire(p)
	res := &TurnResult{PreviousPlayerID: prev}
	res.Bankrupt = []string{p.ID}
	res.GameOver = e.decide()
	e.fillTurn(res)
	return res, nil
}

// CheckGameEnd runs the bankruptcy pass on demand.
func (e *Engine) CheckGameEnd() Settlement {
	return e.settle()
}

func (e *Engine) GameOver() *GameOver {
	return e.over
}

func (e *Engine) fillTurn(res *TurnResult) {
	if len(e.players) > 0 {
		res.CurrentPlayer = e.current
		res.CurrentPlayerID = e.players[e.current].ID
	}
	res.TurnCount = e.turnCount
	res.Market = e.market
}

func (e *Engine) turnOf(playerID string) (*Player, error) {
	switch e.status {
	case StatusEnded:
		return nil, ErrGameEnded
	case StatusWaiting:
		return nil, ErrGameNotActive
	}
	if e.pendingChaos != nil {
		return nil, ErrChaosPending
	}
	p := e.find(playerID)
	if p == nil {
		return nil, ErrPlayerNotFound
	}
	if !p.Active {
		return nil, ErrPlayerInactive
	}
	if e.players[e.current] != p {
		return nil, ErrNotYourTurn
	}
	return p, nil
}

func (e *Engine) resolveTile(p *Player) TileOutcome {
	tile := Board[p.Position]
	out := TileOutcome{Kind: OutcomeNone, TileID: tile.ID}

	switch tile.Type {
	case TileGoToJail:
		e.sendToJail(p)
		out.Kind = OutcomeGoToJail
		out.Message = "Go directly to jail!"

	case TileTax:
		amount := tile.TaxAmount()
		p.Money -= amount
		e.jackpot += amount
		out.Kind = OutcomeTax
		out.Amount = amount
		out.Message = "Paid " + tile.Name + "."

	case TileChance:
		out = e.drawCard(p, e.chance, tile.ID)

	case TileCommunity:
		out = e.drawCard(p, e.community, tile.ID)

	case TileParking:
		if e.jackpot > 0 {
			out.Kind = OutcomeParking
			out.Amount = e.jackpot
			p.Money += e.jackpot
			e.jackpot = 0
			out.Message = "Collected the Free Parking jackpot!"
		}

	case TileProperty, TileRailroad, TileUtility:
		own, ok := e.properties[tile.ID]
		switch {
		case !ok:
			out.Kind = OutcomeCanBuy
			out.Amount = tile.Price
			out.Message = tile.Name + " is for sale."
		case own.OwnerID == p.ID:
			out.Kind = OutcomeOwn
			out.OwnerID = p.ID
		default:
			roll := 0
			if tile.Type == TileUtility {
				d1, d2 := e.rollDie(), e.rollDie()
				out.RentDice = []int{d1, d2}
				roll = d1 + d2
			}
			rent := e.calculateRent(tile, own, roll)
			p.Money -= rent
			if owner := e.find(own.OwnerID); owner != nil {
				owner.Money += rent
			}
			out.Kind = OutcomeRent
			out.Amount = rent
			out.OwnerID = own.OwnerID
			out.Message = "Paid rent for " + tile.Name + "."
		}
	}
	return out
}

func (e *Engine) drawCard(p *Player, deck *Deck, tileID int) TileOutcome {
	card, reshuffled := deck.Draw(e.rng)
	eff := e.applyEffect(p, card.Effect)
	return TileOutcome{
		Kind:    OutcomeCard,
		TileID:  tileID,
		Amount:  eff.Amount,
		Message: card.Text,
		Card: &CardDraw{
			Deck:       deck.Name,
			Card:       card,
			Reshuffled: reshuffled,
			Effect:     eff,
		},
	}
}

// settle marks every active player at or below zero as bankrupt, strips
// their properties and ends the game when at most one player is left.
func (e *Engine) settle() Settlement {
	var s Settlement
	if e.status != StatusActive {
		return s
	}
	for _, p := range e.players {
		if p.Active && p.Money <= 0 {
			e.retire(p)
			s.Bankrupt = append(s.Bankrupt, p.ID)
		}
	}
	if len(s.Bankrupt) > 0 {
		s.GameOver = e.decide()
	}
	return s
}

// decide ends the game if one or no active players remain, otherwise moves
// the turn off a retired current player.
func (e *Engine) decide() *GameOver {
	if e.status != StatusActive {
		return nil
	}
	var alive []*Player
	for _, p := range e.players {
		if p.Active {
			alive = append(alive, p)
		}
	}
	if len(alive) <= 1 {
		e.status = StatusEnded
		e.pendingChaos = nil
		e.chaosFor = ""
		e.rolled = false
		over := &GameOver{Reason: "no players left"}
		if len(alive) == 1 {
			over.WinnerID = alive[0].ID
			over.WinnerName = alive[0].Name
			over.Reason = "last player standing"
		}
		e.over = over
		return over
	}
	if !e.players[e.current].Active {
		e.advanceTurn()
	}
	return nil
}

func (e *Engine) retire(p *Player) {
	p.Active = false
	for _, ref := range p.Properties {
		delete(e.properties, ref.TileID)
	}
	p.Properties = nil
	p.InJail = false
	p.JailTurns = 0
}

func (e *Engine) advanceTurn() {
	if e.market.CrashTurns > 0 {
		e.market.CrashTurns--
	}
	if e.market.BoomTurns > 0 {
		e.market.BoomTurns--
	}
	e.rolled = false

	n := len(e.players)
	idx := e.current
	for i := 0; i < n; i++ {
		idx = (idx + 1) % n
		if idx == 0 {
			e.turnCount++
		}
		if e.players[idx].Active {
			break
		}
	}
	e.current = idx
}

func (e *Engine) sendToJail(p *Player) {
	p.Position = JailPosition
	p.InJail = true
	p.JailTurns = 0
}

func (e *Engine) release(p *Player) {
	p.InJail = false
	p.JailTurns = 0
}

func (e *Engine) rollDie() int {
	return e.rng.IntN(6) + 1
}

func (e *Engine) find(id string) *Player {
	for _, p := range e.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (e *Engine) freeColor() string {
	used := make(map[string]bool, len(e.players))
	for _, p := range e.players {
		used[p.Color] = true
	}
	for _, c := range Palette {
		if !used[c] {
			return c
		}
	}
	return Palette[len(e.players)%len(Palette)]
}

func (e *Engine) netWorth(p *Player) int {
	worth := p.Money
	for _, ref := range p.Properties {
		worth += Board[ref.TileID].Price
	}
	return worth
}

func (e *Engine) improvements(ownerID string) (houses, hotels int) {
	for _, o := range e.properties {
		if o.OwnerID != ownerID {
			continue
		}
		if o.Hotel {
			hotels++
		} else {
			houses += o.Houses
		}
	}
	return houses, hotels
}
