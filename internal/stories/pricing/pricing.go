// Package pricing contains the pure order pricing rules: per-day rates,
// the long-stay discount schedule and Flying Pass tier discounts.
package pricing

import (
	"fmt"
	"strings"
)

// NormalizeTier maps a raw tier string onto a known tier, falling back
// to the given default for unknown or empty input.
func NormalizeTier(raw string, fallback Tier) Tier {
	value := Tier(strings.ToUpper(strings.TrimSpace(raw)))
	for _, t := range Tiers {
		if t == value {
			return value
		}
	}
	return fallback
}

// PricePerDay computes the daily rate for a bag combination. Suitcase and
// backpack pairs are billed at the set rate, leftovers at their own rates.
func PricePerDay(suitcaseQty, backpackQty int) (Quote, error) {
	if suitcaseQty < 0 || backpackQty < 0 {
		return Quote{}, fmt.Errorf("baggage quantities cannot be negative")
	}

	setQty := min(suitcaseQty, backpackQty)
	perDay := setQty*SetDailyRate +
		(suitcaseQty-setQty)*SuitcaseDailyRate +
		(backpackQty-setQty)*BackpackDailyRate

	return Quote{
		SuitcaseQty: suitcaseQty,
		BackpackQty: backpackQty,
		SetQty:      setQty,
		PricePerDay: perDay,
	}, nil
}

// DiscountPercent returns the long-stay discount for the expected number
// of storage days, in whole percent.
func DiscountPercent(storageDays int) int {
	switch {
	case storageDays >= 60:
		return 20
	case storageDays >= 30:
		return 15
	case storageDays >= 14:
		return 10
	case storageDays >= 7:
		return 5
	default:
		return 0
	}
}

// BasePrepaid computes the pre-tier prepaid amount: gross stay price with
// the long-stay discount applied, truncated toward zero.
func BasePrepaid(pricePerDay, storageDays int) (percent int, amount int) {
	if pricePerDay < 0 {
		pricePerDay = 0
	}
	if storageDays < 0 {
		storageDays = 0
	}
	percent = DiscountPercent(storageDays)
	amount = pricePerDay * storageDays * (100 - percent) / 100
	return percent, amount
}

// MemberDiscount returns the tier discount for a base prepaid amount.
// BLACK waives the whole base; other tiers grant their fixed discount,
// capped at the base so the result never exceeds it.
func MemberDiscount(base int, tier Tier) int {
	if base < 0 {
		base = 0
	}
	normalized := NormalizeTier(string(tier), TierNone)
	if normalized == TierBlack {
		return base
	}
	return min(base, fixedDiscounts[normalized])
}

// AutoPrepaid is the tier-adjusted prepaid amount.
func AutoPrepaid(base int, tier Tier) int {
	if base < 0 {
		base = 0
	}
	return max(0, base-MemberDiscount(base, tier))
}

// IsOverridden reports whether a displayed amount differs from the
// automatically derived one. Overrides are flagged, never rejected.
func IsOverridden(displayed, base int, tier Tier) bool {
	return displayed != AutoPrepaid(base, tier)
}

// FormatYen renders an amount as "¥ 1,234" with comma-grouped digits.
func FormatYen(amount int) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := fmt.Sprintf("%d", amount)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return "¥ " + sign + b.String()
}
