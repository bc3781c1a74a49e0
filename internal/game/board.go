package game

type TileType string

const (
	TileGo        TileType = "go"
	TileProperty  TileType = "property"
	TileCommunity TileType = "community"
	TileTax       TileType = "tax"
	TileRailroad  TileType = "railroad"
	TileChance    TileType = "chance"
	TileJail      TileType = "jail"
	TileParking   TileType = "parking"
	TileGoToJail  TileType = "goToJail"
	TileUtility   TileType = "utility"
)

type Group string

const (
	GroupNone      Group = ""
	GroupBrown     Group = "brown"
	GroupLightBlue Group = "lightblue"
	GroupPink      Group = "pink"
	GroupOrange    Group = "orange"
	GroupRed       Group = "red"
	GroupYellow    Group = "yellow"
	GroupGreen     Group = "green"
	GroupDarkBlue  Group = "darkblue"
	GroupRailroad  Group = "railroad"
	GroupUtility   Group = "utility"
)

const (
	BoardSize       = 40
	GoPosition      = 0
	JailPosition    = 10
	ParkingPosition = 20
	GoToJailTile    = 30
)

// Tile is one fixed board position. Rent holds the improvement tiers for
// properties, the count progression for railroads, the multipliers for
// utilities and a single amount for tax tiles.
type Tile struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Type      TileType `json:"type"`
	Price     int      `json:"price"`
	Rent      []int    `json:"rent,omitempty"`
	Group     Group    `json:"group,omitempty"`
	HouseCost int      `json:"houseCost,omitempty"`
	Color     string   `json:"color,omitempty"`
}

// Ownable reports whether the tile can carry an ownership record.
func (t Tile) Ownable() bool {
	return t.Type == TileProperty || t.Type == TileRailroad || t.Type == TileUtility
}

// TaxAmount is the fixed charge of a tax tile, 0 for anything else.
func (t Tile) TaxAmount() int {
	if t.Type != TileTax || len(t.Rent) == 0 {
		return 0
	}
	return t.Rent[0]
}

type GroupConfig struct {
	Size           int  `json:"size"`
	Progression    bool `json:"rentProgression,omitempty"`
	RollMultiplier bool `json:"rollMultiplier,omitempty"`
}

var Groups = map[Group]GroupConfig{
	GroupBrown:     {Size: 2},
	GroupLightBlue: {Size: 3},
	GroupPink:      {Size: 3},
	GroupOrange:    {Size: 3},
	GroupRed:       {Size: 3},
	GroupYellow:    {Size: 3},
	GroupGreen:     {Size: 3},
	GroupDarkBlue:  {Size: 2},
	GroupRailroad:  {Size: 4, Progression: true},
	GroupUtility:   {Size: 2, RollMultiplier: true},
}

var (
	Railroads = []int{5, 15, 25, 35}
	Utilities = []int{12, 28}
)

var Board = [BoardSize]Tile{
	{ID: 0, Name: "Go", Type: TileGo},
	{ID: 1, Name: "Mediterranean Avenue", Type: TileProperty, Price: 60, Rent: []int{2, 10, 30, 90, 160, 250}, HouseCost: 50, Color: "#8B4513", Group: GroupBrown},
	{ID: 2, Name: "Community Chest", Type: TileCommunity},
	{ID: 3, Name: "Baltic Avenue", Type: TileProperty, Price: 60, Rent: []int{4, 20, 60, 180, 320, 450}, HouseCost: 50, Color: "#8B4513", Group: GroupBrown},
	{ID: 4, Name: "Income Tax", Type: TileTax, Rent: []int{200}},
	{ID: 5, Name: "Reading Railroad", Type: TileRailroad, Price: 200, Rent: []int{25, 50, 100, 200}, Group: GroupRailroad},
	{ID: 6, Name: "Oriental Avenue", Type: TileProperty, Price: 100, Rent: []int{6, 30, 90, 270, 400, 550}, HouseCost: 50, Color: "#87CEEB", Group: GroupLightBlue},
	{ID: 7, Name: "Chance", Type: TileChance},
	{ID: 8, Name: "Vermont Avenue", Type: TileProperty, Price: 100, Rent: []int{6, 30, 90, 270, 400, 550}, HouseCost: 50, Color: "#87CEEB", Group: GroupLightBlue},
	{ID: 9, Name: "Connecticut Avenue", Type: TileProperty, Price: 120, Rent: []int{8, 40, 100, 300, 450, 600}, HouseCost: 50, Color: "#87CEEB", Group: GroupLightBlue},

	{ID: 10, Name: "Jail / Just Visiting", Type: TileJail},
	{ID: 11, Name: "St. Charles Place", Type: TileProperty, Price: 140, Rent: []int{10, 50, 150, 450, 625, 750}, HouseCost: 100, Color: "#FF69B4", Group: GroupPink},
	{ID: 12, Name: "Electric Company", Type: TileUtility, Price: 150, Rent: []int{4, 10}, Group: GroupUtility},
	{ID: 13, Name: "States Avenue", Type: TileProperty, Price: 140, Rent: []int{10, 50, 150, 450, 625, 750}, HouseCost: 100, Color: "#FF69B4", Group: GroupPink},
	{ID: 14, Name: "Virginia Avenue", Type: TileProperty, Price: 160, Rent: []int{12, 60, 180, 500, 700, 900}, HouseCost: 100, Color: "#FF69B4", Group: GroupPink},
	{ID: 15, Name: "Pennsylvania Railroad", Type: TileRailroad, Price: 200, Rent: []int{25, 50, 100, 200}, Group: GroupRailroad},
	{ID: 16, Name: "St. James Place", Type: TileProperty, Price: 180, Rent: []int{14, 70, 200, 550, 750, 950}, HouseCost: 100, Color: "#FFA500", Group: GroupOrange},
	{ID: 17, Name: "Community Chest", Type: TileCommunity},
	{ID: 18, Name: "Tennessee Avenue", Type: TileProperty, Price: 180, Rent: []int{14, 70, 200, 550, 750, 950}, HouseCost: 100, Color: "#FFA500", Group: GroupOrange},
	{ID: 19, Name: "New York Avenue", Type: TileProperty, Price: 200, Rent: []int{16, 80, 220, 600, 800, 1000}, HouseCost: 100, Color: "#FFA500", Group: GroupOrange},

	{ID: 20, Name: "Free Parking", Type: TileParking},
	{ID: 21, Name: "Kentucky Avenue", Type: TileProperty, Price: 220, Rent: []int{18, 90, 250, 700, 875, 1050}, HouseCost: 150, Color: "#DC143C", Group: GroupRed},
	{ID: 22, Name: "Chance", Type: TileChance},
	{ID: 23, Name: "Indiana Avenue", Type: TileProperty, Price: 220, Rent: []int{18, 90, 250, 700, 875, 1050}, HouseCost: 150, Color: "#DC143C", Group: GroupRed},
	{ID: 24, Name: "Illinois Avenue", Type: TileProperty, Price: 240, Rent: []int{20, 100, 300, 750, 925, 1100}, HouseCost: 150, Color: "#DC143C", Group: GroupRed},
	{ID: 25, Name: "B&O Railroad", Type: TileRailroad, Price: 200, Rent: []int{25, 50, 100, 200}, Group: GroupRailroad},
	{ID: 26, Name: "Atlantic Avenue", Type: TileProperty, Price: 260, Rent: []int{22, 110, 330, 800, 975, 1150}, HouseCost: 150, Color: "#FFD700", Group: GroupYellow},
	{ID: 27, Name: "Ventnor Avenue", Type: TileProperty, Price: 260, Rent: []int{22, 110, 330, 800, 975, 1150}, HouseCost: 150, Color: "#FFD700", Group: GroupYellow},
	{ID: 28, Name: "Water Works", Type: TileUtility, Price: 150, Rent: []int{4, 10}, Group: GroupUtility},
	{ID: 29, Name: "Marvin Gardens", Type: TileProperty, Price: 280, Rent: []int{24, 120, 360, 850, 1025, 1200}, HouseCost: 150, Color: "#FFD700", Group: GroupYellow},

	{ID: 30, Name: "Go To Jail", Type: TileGoToJail},
	{ID: 31, Name: "Pacific Avenue", Type: TileProperty, Price: 300, Rent: []int{26, 130, 390, 900, 1100, 1275}, HouseCost: 200, Color: "#228B22", Group: GroupGreen},
	{ID: 32, Name: "North Carolina Avenue", Type: TileProperty, Price: 300, Rent: []int{26, 130, 390, 900, 1105, 1275}, HouseCost: 200, Color: "#228B22", Group: GroupGreen},
	{ID: 33, Name: "Community Chest", Type: TileCommunity},
	{ID: 34, Name: "Pennsylvania Avenue", Type: TileProperty, Price: 320, Rent: []int{28, 150, 450, 1000, 1200, 1400}, HouseCost: 200, Color: "#228B22", Group: GroupGreen},
	{ID: 35, Name: "Short Line Railroad", Type: TileRailroad, Price: 200, Rent: []int{25, 50, 100, 200}, Group: GroupRailroad},
	{ID: 36, Name: "Chance", Type: TileChance},
	{ID: 37, Name: "Park Place", Type: TileProperty, Price: 350, Rent: []int{35, 175, 500, 1100, 1300, 1500}, HouseCost: 200, Color: "#0000FF", Group: GroupDarkBlue},
	{ID: 38, Name: "Luxury Tax", Type: TileTax, Rent: []int{100}},
	{ID: 39, Name: "Boardwalk", Type: TileProperty, Price: 400, Rent: []int{50, 200, 600, 1400, 1700, 2000}, HouseCost: 200, Color: "#0000FF", Group: GroupDarkBlue},
}

// TileAt returns the tile at a ring position, wrapping out-of-range values.
func TileAt(pos int) Tile {
	return Board[wrap(pos)]
}

// GroupTiles lists the tile ids belonging to g in board order.
func GroupTiles(g Group) []int {
	var ids []int
	for _, t := range Board {
		if g != GroupNone && t.Group == g {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

func wrap(pos int) int {
	pos %= BoardSize
	if pos < 0 {
		pos += BoardSize
	}
	return pos
}
