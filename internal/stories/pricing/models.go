package pricing

// Daily rates in yen. A set is one suitcase paired with one backpack.
const (
	SuitcaseDailyRate = 800
	BackpackDailyRate = 500
	SetDailyRate      = 1200
)

// Tier is a Flying Pass membership level.
type Tier string

const (
	TierNone     Tier = "NONE"
	TierBlue     Tier = "BLUE"
	TierSilver   Tier = "SILVER"
	TierGold     Tier = "GOLD"
	TierPlatinum Tier = "PLATINUM"
	TierBlack    Tier = "BLACK"
)

// Tiers lists all valid tiers in ascending order.
var Tiers = []Tier{TierNone, TierBlue, TierSilver, TierGold, TierPlatinum, TierBlack}

// fixedDiscounts holds the flat per-order discount for each tier.
// BLACK is absent: it waives the whole base amount instead.
var fixedDiscounts = map[Tier]int{
	TierNone:     0,
	TierBlue:     100,
	TierSilver:   200,
	TierGold:     300,
	TierPlatinum: 400,
}

// Quote is the per-day price breakdown for a bag combination.
type Quote struct {
	SuitcaseQty int
	BackpackQty int
	SetQty      int
	PricePerDay int
}
