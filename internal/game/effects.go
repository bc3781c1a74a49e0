package game

import "fmt"

type EffectKind string

const (
	EffectMoveTo          EffectKind = "moveTo"
	EffectMoveToNearest   EffectKind = "moveToNearest"
	EffectMoveBy          EffectKind = "moveBy"
	EffectCollect         EffectKind = "collect"
	EffectPay             EffectKind = "pay"
	EffectJailFree        EffectKind = "jailFree"
	EffectGoToJail        EffectKind = "goToJail"
	EffectRepairs         EffectKind = "repairs"
	EffectPayEachPlayer   EffectKind = "payEachPlayer"
	EffectCollectFromEach EffectKind = "collectFromEach"
	EffectNetWorthTax     EffectKind = "netWorthTax"
	EffectEveryoneLoses   EffectKind = "everyoneLoses"
	EffectMarketCrash     EffectKind = "marketCrash"
	EffectMarketBoom      EffectKind = "marketBoom"
	EffectTeleport        EffectKind = "teleport"
	EffectDoubleMove      EffectKind = "doubleMove"
	EffectForcedTrade     EffectKind = "forcedTrade"
	EffectJailEscape      EffectKind = "jailEscape"
	EffectRainbowBonus    EffectKind = "rainbowBonus"
	EffectPropertyTax     EffectKind = "propertyTax"
)

// Effect describes a state change by kind and parameters. Which fields
// matter depends on Kind; Steps is a signed multiplier for doubleMove.
type Effect struct {
	Kind      EffectKind `json:"kind"`
	Amount    int        `json:"amount,omitempty"`
	Target    int        `json:"target,omitempty"`
	Targets   []int      `json:"targets,omitempty"`
	Steps     int        `json:"steps,omitempty"`
	PerHouse  int        `json:"perHouse,omitempty"`
	PerHotel  int        `json:"perHotel,omitempty"`
	Percent   int        `json:"percent,omitempty"`
	Turns     int        `json:"turns,omitempty"`
	MinGroups int        `json:"minGroups,omitempty"`
	CollectGo bool       `json:"collectGo,omitempty"`
}

type Trade struct {
	WithPlayerID string `json:"withPlayerId"`
	Gave         int    `json:"gave"`
	Received     int    `json:"received"`
}

// EffectOutcome reports what an applied effect did to the acting player and,
// for collective effects, to everyone else.
type EffectOutcome struct {
	Message     string         `json:"message"`
	Amount      int            `json:"amount,omitempty"`
	OldPosition int            `json:"oldPosition"`
	NewPosition int            `json:"newPosition"`
	PassedGo    bool           `json:"passedGo,omitempty"`
	Dice        []int          `json:"dice,omitempty"`
	Transfers   map[string]int `json:"transfers,omitempty"`
	Trade       *Trade         `json:"trade,omitempty"`
	Balance     int            `json:"balance"`
}

func (e *Engine) applyEffect(p *Player, eff Effect) EffectOutcome {
	out := EffectOutcome{OldPosition: p.Position}

	switch eff.Kind {
	case EffectMoveTo:
		old := p.Position
		p.Position = wrap(eff.Target)
		if eff.CollectGo && p.Position < old {
			e.payPassGo(p, &out)
		}
		out.Message = fmt.Sprintf("Moved to %s.", TileAt(p.Position).Name)

	case EffectMoveToNearest:
		p.Position = nearest(p.Position, eff.Targets)
		out.Message = fmt.Sprintf("Moved to %s.", TileAt(p.Position).Name)

	case EffectMoveBy:
		p.Position = wrap(p.Position + eff.Steps)
		out.Message = fmt.Sprintf("Moved to %s.", TileAt(p.Position).Name)

	case EffectCollect:
		p.Money += eff.Amount
		out.Amount = eff.Amount
		out.Message = fmt.Sprintf("Collected $%d.", eff.Amount)

	case EffectPay:
		p.Money -= eff.Amount
		out.Amount = eff.Amount
		out.Message = fmt.Sprintf("Paid $%d.", eff.Amount)

	case EffectJailFree:
		p.JailFreeCards++
		out.Message = "Received a Get Out of Jail Free card."

	case EffectGoToJail:
		e.sendToJail(p)
		out.Message = "Sent to jail!"

	case EffectRepairs:
		houses, hotels := e.improvements(p.ID)
		cost := houses*eff.PerHouse + hotels*eff.PerHotel
		p.Money -= cost
		out.Amount = cost
		out.Message = fmt.Sprintf("Paid $%d for %d houses and %d hotels.", cost, houses, hotels)

	case EffectPayEachPlayer:
		out.Transfers = make(map[string]int)
		for _, other := range e.players {
			if other.ID == p.ID || !other.Active {
				continue
			}
			p.Money -= eff.Amount
			other.Money += eff.Amount
			out.Transfers[other.ID] = eff.Amount
			out.Amount += eff.Amount
		}
		out.Message = fmt.Sprintf("Paid $%d to the other players.", out.Amount)

	case EffectCollectFromEach:
		out.Transfers = make(map[string]int)
		for _, other := range e.players {
			if other.ID == p.ID || !other.Active {
				continue
			}
			other.Money -= eff.Amount
			p.Money += eff.Amount
			out.Transfers[other.ID] = -eff.Amount
			out.Amount += eff.Amount
		}
		out.Message = fmt.Sprintf("Collected $%d from the other players.", out.Amount)

	case EffectNetWorthTax:
		tax := e.netWorth(p) * eff.Percent / 100
		p.Money = max(0, p.Money-tax)
		out.Amount = tax
		out.Message = fmt.Sprintf("Tax audit! You paid $%d to the IRS.", tax)

	case EffectEveryoneLoses:
		out.Transfers = make(map[string]int)
		for _, q := range e.players {
			if !q.Active {
				continue
			}
			loss := floorPercent(q.Money, eff.Percent)
			q.Money -= loss
			out.Transfers[q.ID] = -loss
		}
		out.Message = fmt.Sprintf("Everyone loses %d%% of their cash!", eff.Percent)

	case EffectMarketCrash:
		e.market.CrashTurns = eff.Turns
		out.Message = fmt.Sprintf("Market crash! All rent is halved for %d turns.", eff.Turns)

	case EffectMarketBoom:
		e.market.BoomTurns = eff.Turns
		out.Message = fmt.Sprintf("Market boom! All rent is doubled for %d turns!", eff.Turns)

	case EffectTeleport:
		old := p.Position
		p.Position = e.rng.IntN(BoardSize)
		if p.Position < old && p.Position != GoPosition {
			e.payPassGo(p, &out)
		}
		out.Message = fmt.Sprintf("Teleported from %d to %d!", old, p.Position)

	case EffectDoubleMove:
		d1, d2 := e.rollDie(), e.rollDie()
		out.Dice = []int{d1, d2}
		old := p.Position
		steps := (d1 + d2) * eff.Steps
		p.Position = wrap(old + steps)
		if steps > 0 && p.Position < old {
			e.payPassGo(p, &out)
		}
		if steps >= 0 {
			out.Message = fmt.Sprintf("Double trouble! Rolled %d x 2 = %d spaces!", d1+d2, steps)
		} else {
			out.Message = fmt.Sprintf("Disaster! You tripped and moved back %d spaces!", -steps)
		}

	case EffectForcedTrade:
		e.forcedTrade(p, &out)

	case EffectJailEscape:
		if p.InJail {
			e.release(p)
			out.Message = "Jailbreak! You escaped from jail for free!"
		} else {
			p.JailFreeCards++
			out.Message = "You found a Get Out of Jail Free card!"
		}

	case EffectRainbowBonus:
		groups := make(map[Group]struct{})
		for _, ref := range p.Properties {
			groups[ref.Group] = struct{}{}
		}
		if len(groups) >= eff.MinGroups {
			p.Money += eff.Amount
			out.Amount = eff.Amount
			out.Message = fmt.Sprintf("Rainbow bonus! You collected $%d for owning %d color groups!", eff.Amount, len(groups))
		} else {
			out.Message = fmt.Sprintf("Rainbow bonus failed - you need properties in %d+ color groups.", eff.MinGroups)
		}

	case EffectPropertyTax:
		tax := len(p.Properties) * eff.Amount
		p.Money = max(0, p.Money-tax)
		out.Amount = tax
		out.Message = fmt.Sprintf("Property tax! Paid $%d for %d properties.", tax, len(p.Properties))

	default:
		out.Message = "Nothing happens."
	}

	out.NewPosition = p.Position
	out.Balance = p.Money
	return out
}

func (e *Engine) payPassGo(p *Player, out *EffectOutcome) {
	p.Money += e.rules.PassGoBonus
	out.PassedGo = true
}

// forcedTrade swaps one random property of p with one random property of a
// random other player. Houses stay with the tile.
func (e *Engine) forcedTrade(p *Player, out *EffectOutcome) {
	var others []*Player
	for _, q := range e.players {
		if q.ID != p.ID && q.Active && len(q.Properties) > 0 {
			others = append(others, q)
		}
	}
	if len(p.Properties) == 0 || len(others) == 0 {
		out.Message = "No trade possible - someone has no properties!"
		return
	}

	other := others[e.rng.IntN(len(others))]
	mi := e.rng.IntN(len(p.Properties))
	ti := e.rng.IntN(len(other.Properties))
	mine, theirs := p.Properties[mi], other.Properties[ti]

	p.Properties[mi] = theirs
	other.Properties[ti] = mine
	e.properties[mine.TileID].OwnerID = other.ID
	e.properties[theirs.TileID].OwnerID = p.ID

	out.Trade = &Trade{WithPlayerID: other.ID, Gave: mine.TileID, Received: theirs.TileID}
	out.Message = fmt.Sprintf("Forced trade! You traded %s for %s with %s!", mine.Name, theirs.Name, other.Name)
}

func nearest(pos int, targets []int) int {
	if len(targets) == 0 {
		return pos
	}
	for _, t := range targets {
		if t > pos {
			return t
		}
	}
	return targets[0]
}

func floorPercent(amount, percent int) int {
	v := amount * percent
	q := v / 100
	if v < 0 && v%100 != 0 {
		q--
	}
	return q
}
