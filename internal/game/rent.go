package game

// calculateRent prices a landing on an owned tile. roll is the dice sum used
// by utilities and ignored otherwise. Crash halves, then boom doubles.
func (e *Engine) calculateRent(tile Tile, own *Ownership, roll int) int {
	rent := 0

	switch tile.Type {
	case TileProperty:
		switch {
		case own.Hotel:
			rent = tile.Rent[len(tile.Rent)-1]
		case own.Houses > 0:
			rent = tile.Rent[min(own.Houses, len(tile.Rent)-1)]
		default:
			rent = tile.Rent[0]
			if e.hasMonopoly(own.OwnerID, tile.Group) && !e.groupImproved(tile.Group) {
				rent *= 2
			}
		}

	case TileRailroad:
		n := e.countOwned(own.OwnerID, GroupRailroad)
		if n < 1 {
			n = 1
		}
		rent = tile.Rent[min(n, len(tile.Rent))-1]

	case TileUtility:
		multiplier := tile.Rent[0]
		if e.countOwned(own.OwnerID, GroupUtility) >= Groups[GroupUtility].Size {
			multiplier = tile.Rent[1]
		}
		rent = roll * multiplier
	}

	if e.market.CrashTurns > 0 {
		rent /= 2
	}
	if e.market.BoomTurns > 0 {
		rent *= 2
	}
	return rent
}

// RentFor reports what landing on tileID would cost right now, using roll
// for utilities. Unowned tiles cost nothing.
func (e *Engine) RentFor(tileID, roll int) int {
	own, ok := e.properties[tileID]
	if !ok {
		return 0
	}
	return e.calculateRent(TileAt(tileID), own, roll)
}

func (e *Engine) hasMonopoly(ownerID string, g Group) bool {
	cfg, ok := Groups[g]
	if !ok {
		return false
	}
	return e.countOwned(ownerID, g) == cfg.Size
}

func (e *Engine) groupImproved(g Group) bool {
	for _, id := range GroupTiles(g) {
		if o, ok := e.properties[id]; ok && (o.Houses > 0 || o.Hotel) {
			return true
		}
	}
	return false
}

func (e *Engine) countOwned(ownerID string, g Group) int {
	n := 0
	for _, id := range GroupTiles(g) {
		if o, ok := e.properties[id]; ok && o.OwnerID == ownerID {
			n++
		}
	}
	return n
}
