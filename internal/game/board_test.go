package game

import "testing"

func TestBoardTopology(t *testing.T) {
	for i, tile := range Board {
		if tile.ID != i {
			t.Fatalf("tile at index %d has id %d", i, tile.ID)
		}
	}

	fixed := map[int]TileType{
		0: TileGo, 10: TileJail, 20: TileParking, 30: TileGoToJail,
		5: TileRailroad, 15: TileRailroad, 25: TileRailroad, 35: TileRailroad,
		12: TileUtility, 28: TileUtility, 4: TileTax, 38: TileTax,
		7: TileChance, 22: TileChance, 36: TileChance,
		2: TileCommunity, 17: TileCommunity, 33: TileCommunity,
	}
	for id, want := range fixed {
		if Board[id].Type != want {
			t.Fatalf("tile %d: got %s want %s", id, Board[id].Type, want)
		}
	}
}

func TestGroupsMatchConfig(t *testing.T) {
	for g, cfg := range Groups {
		if got := len(GroupTiles(g)); got != cfg.Size {
			t.Fatalf("group %s: %d tiles, config says %d", g, got, cfg.Size)
		}
	}
	for _, tile := range Board {
		if tile.Ownable() && tile.Price <= 0 {
			t.Fatalf("ownable tile %d has no price", tile.ID)
		}
		if tile.Type == TileProperty && (len(tile.Rent) != 6 || tile.HouseCost <= 0) {
			t.Fatalf("property %d rent table malformed", tile.ID)
		}
		if !tile.Ownable() && tile.Group != GroupNone {
			t.Fatalf("tile %d is grouped but not ownable", tile.ID)
		}
	}
}

func TestTaxAmounts(t *testing.T) {
	if Board[4].TaxAmount() != 200 || Board[38].TaxAmount() != 100 {
		t.Fatalf("tax amounts: %d %d", Board[4].TaxAmount(), Board[38].TaxAmount())
	}
	if Board[1].TaxAmount() != 0 {
		t.Fatalf("non-tax tile reports tax")
	}
	if TileAt(41).ID != 1 || TileAt(-1).ID != 39 {
		t.Fatalf("TileAt does not wrap")
	}
}
