// Package badges provides the static badge catalog, the pure unlock
// evaluator, and the recompute service that journals first unlocks.
package badges

// Category groups badges by theme.
type Category string

// Badge categories.
const (
	CategoryProfile     Category = "PROFILE"
	CategoryReliability Category = "RELIABILITY"
	CategorySocial      Category = "SOCIAL"
	CategoryPerformance Category = "PERFORMANCE"
	CategorySpecial     Category = "SPECIAL"
)

// Rarity indicates how hard a badge is to earn.
type Rarity string

// Badge rarities.
const (
	RarityCommon    Rarity = "COMMON"
	RarityRare      Rarity = "RARE"
	RarityEpic      Rarity = "EPIC"
	RarityLegendary Rarity = "LEGENDARY"
)

// Badge is a catalog entry. The catalog is fixed at compile time and
// immutable at runtime; unlock membership is recomputed from live stats.
// Points are advisory display metadata, not an automatic ledger entry.
type Badge struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Category    Category `json:"category"`
	Rarity      Rarity   `json:"rarity"`
	Condition   string   `json:"condition"`
	Points      int      `json:"points"`
}

// Badge IDs.
const (
	BadgeFirstSteps      = "first-steps"
	BadgeCommunicator    = "communicator"
	BadgeCompleteProfile = "complete-profile"
	BadgeLoyalTenant     = "loyal-tenant"
	BadgeVeteran         = "veteran"
	BadgeSuperTenant     = "super-tenant"
	BadgeFlawless        = "flawless"
	BadgeFiveStars       = "five-stars"
	BadgePunctual        = "punctual"
	BadgeChatty          = "chatty"
	BadgeSocialButterfly = "social-butterfly"
	BadgeLandlordPro     = "landlord-pro"
	BadgeInvestor        = "investor"
	BadgeFiveStarHost    = "five-star-host"
	BadgeEarlyAdopter    = "early-adopter"
	BadgePerfectStreak   = "perfect-streak"
	BadgeAlwaysOnTime    = "always-on-time"
	BadgeResponsive      = "responsive"
)

// catalog is the fixed, ordered list of badge definitions. Evaluation and
// API listings preserve this order.
var catalog = []Badge{
	{
		ID:          BadgeFirstSteps,
		Name:        "First Steps",
		Description: "Completed your profile and joined the community",
		Icon:        "footprints",
		Category:    CategoryProfile,
		Rarity:      RarityCommon,
		Condition:   "Complete your profile",
		Points:      10,
	},
	{
		ID:          BadgeCommunicator,
		Name:        "Communicator",
		Description: "Added a phone number so people can reach you",
		Icon:        "phone",
		Category:    CategoryProfile,
		Rarity:      RarityCommon,
		Condition:   "Add a phone number",
		Points:      10,
	},
	{
		ID:          BadgeCompleteProfile,
		Name:        "Complete Profile",
		Description: "Filled in every profile field",
		Icon:        "id-card",
		Category:    CategoryProfile,
		Rarity:      RarityCommon,
		Condition:   "Fill in phone, address, gender and birth date",
		Points:      25,
	},
	{
		ID:          BadgeLoyalTenant,
		Name:        "Loyal Tenant",
		Description: "Completed a full tenancy",
		Icon:        "home-heart",
		Category:    CategoryReliability,
		Rarity:      RarityCommon,
		Condition:   "Complete at least one lease",
		Points:      25,
	},
	{
		ID:          BadgeVeteran,
		Name:        "Veteran",
		Description: "A member for over a year",
		Icon:        "shield",
		Category:    CategorySpecial,
		Rarity:      RarityRare,
		Condition:   "Be a member for 12 months",
		Points:      50,
	},
	{
		ID:          BadgeSuperTenant,
		Name:        "Super Tenant",
		Description: "Consistently excellent reviews from owners",
		Icon:        "star-badge",
		Category:    CategoryPerformance,
		Rarity:      RarityEpic,
		Condition:   "Average rating of 4.5 or higher across 3+ reviews",
		Points:      75,
	},
	{
		ID:          BadgeFlawless,
		Name:        "Flawless",
		Description: "Full deposit returned three times in a row",
		Icon:        "sparkles",
		Category:    CategoryReliability,
		Rarity:      RarityEpic,
		Condition:   "Get 100% of your deposit back on 3 leases",
		Points:      75,
	},
	{
		ID:          BadgeFiveStars,
		Name:        "Five Stars",
		Description: "A shelf full of near-perfect reviews",
		Icon:        "stars",
		Category:    CategoryPerformance,
		Rarity:      RarityLegendary,
		Condition:   "Receive 5 reviews rated 4.5 or higher",
		Points:      100,
	},
	{
		ID:          BadgePunctual,
		Name:        "Punctual",
		Description: "Rent paid on the dot, every time",
		Icon:        "clock-check",
		Category:    CategoryReliability,
		Rarity:      RarityCommon,
		Condition:   "Record 3 rent payments",
		Points:      25,
	},
	{
		ID:          BadgeChatty,
		Name:        "Chatty",
		Description: "Getting the conversation going",
		Icon:        "chat",
		Category:    CategorySocial,
		Rarity:      RarityCommon,
		Condition:   "Send 10 messages",
		Points:      10,
	},
	{
		ID:          BadgeSocialButterfly,
		Name:        "Social Butterfly",
		Description: "A regular in everyone's inbox",
		Icon:        "butterfly",
		Category:    CategorySocial,
		Rarity:      RarityRare,
		Condition:   "Send 50 messages",
		Points:      50,
	},
	{
		ID:          BadgeLandlordPro,
		Name:        "Landlord Pro",
		Description: "Several listings live at once",
		Icon:        "buildings",
		Category:    CategoryPerformance,
		Rarity:      RarityRare,
		Condition:   "Have 3 active listings",
		Points:      50,
	},
	{
		ID:          BadgeInvestor,
		Name:        "Investor",
		Description: "A growing property portfolio",
		Icon:        "chart-up",
		Category:    CategoryPerformance,
		Rarity:      RarityEpic,
		Condition:   "Own 5 properties",
		Points:      75,
	},
	{
		ID:          BadgeFiveStarHost,
		Name:        "Five Star Host",
		Description: "Guests and tenants love staying with you",
		Icon:        "trophy",
		Category:    CategoryPerformance,
		Rarity:      RarityEpic,
		Condition:   "Average rating of 4.5 or higher across 3+ reviews",
		Points:      75,
	},
	{
		ID:          BadgeEarlyAdopter,
		Name:        "Early Adopter",
		Description: "One of the first hundred members",
		Icon:        "rocket",
		Category:    CategorySpecial,
		Rarity:      RarityLegendary,
		Condition:   "Be among the first 100 signups",
		Points:      100,
	},
	// The three entries below are catalog-only: no unlock rule is defined
	// yet, so the evaluator never satisfies them.
	{
		ID:          BadgePerfectStreak,
		Name:        "Perfect Streak",
		Description: "A spotless run of perfect outcomes",
		Icon:        "flame",
		Category:    CategoryReliability,
		Rarity:      RarityEpic,
		Condition:   "Not yet available",
		Points:      75,
	},
	{
		ID:          BadgeAlwaysOnTime,
		Name:        "Always On Time",
		Description: "Never a day late",
		Icon:        "calendar-check",
		Category:    CategoryReliability,
		Rarity:      RarityRare,
		Condition:   "Not yet available",
		Points:      50,
	},
	{
		ID:          BadgeResponsive,
		Name:        "Responsive",
		Description: "Quick to reply, every time",
		Icon:        "bolt",
		Category:    CategorySocial,
		Rarity:      RarityRare,
		Condition:   "Not yet available",
		Points:      50,
	},
}

// Catalog returns the ordered badge catalog.
func Catalog() []Badge {
	out := make([]Badge, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns a catalog entry by ID.
func Lookup(id string) (Badge, bool) {
	for _, b := range catalog {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}
