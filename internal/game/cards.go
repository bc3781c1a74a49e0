package game

// Card is a chance or community chest card. The effect is data; the engine
// interprets it.
type Card struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Effect Effect `json:"effect"`
}

var ChanceCards = []Card{
	{ID: "chance_1", Text: "Advance to Go! Collect $200.", Effect: Effect{Kind: EffectMoveTo, Target: GoPosition, CollectGo: true}},
	{ID: "chance_2", Text: "Advance to Illinois Avenue. If you pass Go, collect $200.", Effect: Effect{Kind: EffectMoveTo, Target: 24, CollectGo: true}},
	{ID: "chance_3", Text: "Advance to St. Charles Place. If you pass Go, collect $200.", Effect: Effect{Kind: EffectMoveTo, Target: 11, CollectGo: true}},
	{ID: "chance_4", Text: "Advance to the nearest utility.", Effect: Effect{Kind: EffectMoveToNearest, Targets: Utilities}},
	{ID: "chance_5", Text: "Advance to the nearest railroad.", Effect: Effect{Kind: EffectMoveToNearest, Targets: Railroads}},
	{ID: "chance_6", Text: "Bank pays you dividend of $50.", Effect: Effect{Kind: EffectCollect, Amount: 50}},
	{ID: "chance_7", Text: "Get Out of Jail Free!", Effect: Effect{Kind: EffectJailFree}},
	{ID: "chance_8", Text: "Go Back 3 Spaces.", Effect: Effect{Kind: EffectMoveBy, Steps: -3}},
	{ID: "chance_9", Text: "Go to Jail. Go directly to jail. Do not pass Go, do not collect $200.", Effect: Effect{Kind: EffectGoToJail}},
	{ID: "chance_10", Text: "Make general repairs on all your property. Pay $25 per house, $100 per hotel.", Effect: Effect{Kind: EffectRepairs, PerHouse: 25, PerHotel: 100}},
	{ID: "chance_11", Text: "Speeding fine $15.", Effect: Effect{Kind: EffectPay, Amount: 15}},
	{ID: "chance_12", Text: "Take a trip to Reading Railroad. If you pass Go, collect $200.", Effect: Effect{Kind: EffectMoveTo, Target: 5, CollectGo: true}},
	{ID: "chance_13", Text: "Advance to Boardwalk.", Effect: Effect{Kind: EffectMoveTo, Target: 39}},
	{ID: "chance_14", Text: "You have been elected Chairman of the Board. Pay each player $50.", Effect: Effect{Kind: EffectPayEachPlayer, Amount: 50}},
	{ID: "chance_15", Text: "Your building loan matures. Collect $150.", Effect: Effect{Kind: EffectCollect, Amount: 150}},
}

var CommunityCards = []Card{
	{ID: "chest_1", Text: "Advance to Go! Collect $200.", Effect: Effect{Kind: EffectMoveTo, Target: GoPosition, CollectGo: true}},
	{ID: "chest_2", Text: "Bank error in your favor. Collect $200.", Effect: Effect{Kind: EffectCollect, Amount: 200}},
	{ID: "chest_3", Text: "Doctor's fee. Pay $50.", Effect: Effect{Kind: EffectPay, Amount: 50}},
	{ID: "chest_4", Text: "From sale of stock you get $50.", Effect: Effect{Kind: EffectCollect, Amount: 50}},
	{ID: "chest_5", Text: "Get Out of Jail Free!", Effect: Effect{Kind: EffectJailFree}},
	{ID: "chest_6", Text: "Go to Jail. Go directly to jail. Do not pass Go, do not collect $200.", Effect: Effect{Kind: EffectGoToJail}},
	{ID: "chest_7", Text: "Grand Opera Night. Collect $50 from every player for opening night seats.", Effect: Effect{Kind: EffectCollectFromEach, Amount: 50}},
	{ID: "chest_8", Text: "Holiday Fund matures. Receive $100.", Effect: Effect{Kind: EffectCollect, Amount: 100}},
	{ID: "chest_9", Text: "Income tax refund. Collect $20.", Effect: Effect{Kind: EffectCollect, Amount: 20}},
	{ID: "chest_10", Text: "It's your birthday! Collect $10 from every player.", Effect: Effect{Kind: EffectCollectFromEach, Amount: 10}},
	{ID: "chest_11", Text: "Life insurance matures. Collect $100.", Effect: Effect{Kind: EffectCollect, Amount: 100}},
	{ID: "chest_12", Text: "Pay hospital fees of $100.", Effect: Effect{Kind: EffectPay, Amount: 100}},
	{ID: "chest_13", Text: "Pay school fees of $150.", Effect: Effect{Kind: EffectPay, Amount: 150}},
	{ID: "chest_14", Text: "Receive $25 consultancy fee.", Effect: Effect{Kind: EffectCollect, Amount: 25}},
	{ID: "chest_15", Text: "You are assessed for street repair. Pay $40 per house, $115 per hotel.", Effect: Effect{Kind: EffectRepairs, PerHouse: 40, PerHotel: 115}},
	{ID: "chest_16", Text: "You have won second prize in a beauty contest. Collect $10.", Effect: Effect{Kind: EffectCollect, Amount: 10}},
	{ID: "chest_17", Text: "You inherit $100.", Effect: Effect{Kind: EffectCollect, Amount: 100}},
}

// Deck draws cards front to back through a shuffled order and reshuffles
// the full set once every card has been drawn.
type Deck struct {
	Name  string
	cards []Card
	order []int
	next  int
}

func NewDeck(name string, cards []Card, rng Random) *Deck {
	d := &Deck{Name: name, cards: cards, order: make([]int, len(cards))}
	d.shuffle(rng)
	return d
}

// Draw returns the next card and whether the deck was reshuffled first.
func (d *Deck) Draw(rng Random) (Card, bool) {
	reshuffled := false
	if d.next >= len(d.order) {
		d.shuffle(rng)
		reshuffled = true
	}
	c := d.cards[d.order[d.next]]
	d.next++
	return c, reshuffled
}

func (d *Deck) Remaining() int {
	return len(d.order) - d.next
}

func (d *Deck) Size() int {
	return len(d.cards)
}

func (d *Deck) shuffle(rng Random) {
	for i := range d.order {
		d.order[i] = i
	}
	for i := len(d.order) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d.order[i], d.order[j] = d.order[j], d.order[i]
	}
	d.next = 0
}
