// Package rank derives a discrete display rank from (level, badge count).
// Ranks are never persisted; they are recomputed on every display.
package rank

// Rank identifiers.
const (
	RankNone     = "NONE"
	RankBronze   = "BRONZE"
	RankSilver   = "SILVER"
	RankGold     = "GOLD"
	RankPlatinum = "PLATINUM"
	RankDiamond  = "DIAMOND"
)

// Info describes a rank tier for display.
type Info struct {
	Rank  string `json:"rank"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// tier couples display info with its entry requirements.
type tier struct {
	info      Info
	minLevel  int
	minBadges int
}

// tiers is evaluated top-down; the highest tier whose level AND badge-count
// requirements both hold wins.
var tiers = []tier{
	{
		info:      Info{Rank: RankDiamond, Name: "Diamond", Icon: "diamond", Color: "from-cyan-300 to-blue-500"},
		minLevel:  20,
		minBadges: 15,
	},
	{
		info:      Info{Rank: RankPlatinum, Name: "Platinum", Icon: "platinum", Color: "from-slate-300 to-slate-500"},
		minLevel:  15,
		minBadges: 12,
	},
	{
		info:      Info{Rank: RankGold, Name: "Gold", Icon: "gold", Color: "from-yellow-300 to-amber-500"},
		minLevel:  10,
		minBadges: 8,
	},
	{
		info:      Info{Rank: RankSilver, Name: "Silver", Icon: "silver", Color: "from-gray-200 to-gray-400"},
		minLevel:  5,
		minBadges: 5,
	},
	{
		info:      Info{Rank: RankBronze, Name: "Bronze", Icon: "bronze", Color: "from-orange-300 to-amber-700"},
		minLevel:  2,
		minBadges: 2,
	},
}

// none is the default rank when no tier qualifies.
var none = Info{Rank: RankNone, Name: "Unranked", Icon: "none", Color: "from-gray-100 to-gray-300"}

// Compute returns the highest tier both requirements qualify for.
func Compute(level, badgeCount int) Info {
	for _, t := range tiers {
		if level >= t.minLevel && badgeCount >= t.minBadges {
			return t.info
		}
	}
	return none
}
