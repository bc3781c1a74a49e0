package game

type Tone string

const (
	TonePositive Tone = "positive"
	ToneNegative Tone = "negative"
	ToneChaos    Tone = "chaos"
)

// ChaosEvent is a one-off random event rolled alongside every dice roll.
// Probabilities are independent and sum to less than one.
type ChaosEvent struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Probability float64 `json:"probability"`
	Tone        Tone    `json:"tone"`
	Effect      Effect  `json:"-"`
}

var ChaosEvents = []ChaosEvent{
	{ID: "tax_audit", Name: "Tax Audit!", Description: "The IRS is after you! Pay 10% of your total net worth.", Probability: 0.08, Tone: ToneNegative,
		Effect: Effect{Kind: EffectNetWorthTax, Percent: 10}},
	{ID: "lottery_win", Name: "Lottery Win!", Description: "You won the lottery! Collect $500!", Probability: 0.06, Tone: TonePositive,
		Effect: Effect{Kind: EffectCollect, Amount: 500}},
	{ID: "market_crash", Name: "Market Crash!", Description: "Property values plummet! All rent is halved for 3 turns.", Probability: 0.05, Tone: ToneNegative,
		Effect: Effect{Kind: EffectMarketCrash, Turns: 3}},
	{ID: "market_boom", Name: "Market Boom!", Description: "Property values soar! All rent is doubled for 2 turns.", Probability: 0.05, Tone: TonePositive,
		Effect: Effect{Kind: EffectMarketBoom, Turns: 2}},
	{ID: "teleport", Name: "Teleport!", Description: "You've been teleported to a random location!", Probability: 0.07, Tone: ToneChaos,
		Effect: Effect{Kind: EffectTeleport}},
	{ID: "double_trouble_bonus", Name: "Double Trouble Bonus!", Description: "Roll again and move double the amount!", Probability: 0.06, Tone: TonePositive,
		Effect: Effect{Kind: EffectDoubleMove, Steps: 2}},
	{ID: "double_trouble_disaster", Name: "Double Trouble Disaster!", Description: "You trip and go backwards! Move back double your roll.", Probability: 0.05, Tone: ToneNegative,
		Effect: Effect{Kind: EffectDoubleMove, Steps: -2}},
	{ID: "forced_trade", Name: "Forced Trade!", Description: "You must trade one random property with another player!", Probability: 0.04, Tone: ToneChaos,
		Effect: Effect{Kind: EffectForcedTrade}},
	{ID: "jail_escape", Name: "Jailbreak!", Description: "Get out of jail free card automatically used if in jail!", Probability: 0.03, Tone: TonePositive,
		Effect: Effect{Kind: EffectJailEscape}},
	{ID: "sudden_death", Name: "Sudden Death!", Description: "Everyone loses 10% of their cash!", Probability: 0.03, Tone: ToneNegative,
		Effect: Effect{Kind: EffectEveryoneLoses, Percent: 10}},
	{ID: "rainbow_bonus", Name: "Rainbow Bonus!", Description: "If you own properties in 3+ different color groups, collect $300!", Probability: 0.05, Tone: TonePositive,
		Effect: Effect{Kind: EffectRainbowBonus, Amount: 300, MinGroups: 3}},
	{ID: "chaos_card_doom", Name: "Chaos Card: DOOM", Description: "The chaos gods frown upon you. Go directly to jail!", Probability: 0.04, Tone: ToneNegative,
		Effect: Effect{Kind: EffectGoToJail}},
	{ID: "chaos_card_blessing", Name: "Chaos Card: Blessing", Description: "The chaos gods smile upon you. Collect $1000!", Probability: 0.02, Tone: TonePositive,
		Effect: Effect{Kind: EffectCollect, Amount: 1000}},
	{ID: "property_tax", Name: "Property Tax Assessment", Description: "Pay $25 per property you own.", Probability: 0.06, Tone: ToneNegative,
		Effect: Effect{Kind: EffectPropertyTax, Amount: 25}},
	{ID: "inheritance", Name: "Unexpected Inheritance", Description: "A distant relative left you $200!", Probability: 0.06, Tone: TonePositive,
		Effect: Effect{Kind: EffectCollect, Amount: 200}},
}

// SelectChaos walks the table accumulating probabilities and returns the
// first event whose running total exceeds draw, or nil when draw lands past
// the total.
func SelectChaos(draw float64) *ChaosEvent {
	cumulative := 0.0
	for i := range ChaosEvents {
		cumulative += ChaosEvents[i].Probability
		if draw < cumulative {
			ev := ChaosEvents[i]
			return &ev
		}
	}
	return nil
}

// ChaosTotal is the probability that any event fires on a roll.
func ChaosTotal() float64 {
	total := 0.0
	for _, ev := range ChaosEvents {
		total += ev.Probability
	}
	return total
}
