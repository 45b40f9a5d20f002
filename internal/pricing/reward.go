package pricing

import (
	"math/rand"
	"strings"

	"duomate/internal/domain"
)

// foodKeywords mark order descriptions that tend to be higher value.
var foodKeywords = []string{"biryani", "meal", "food", "pizza", "burger", "canteen"}

// AssignValueTier buckets an order into a coarse value tier from its
// free-text details. Food orders land in high or medium (50/50); anything
// else is high 30% of the time and low otherwise. The tier is decided
// exactly once, at order placement, and persisted on the order so the
// reward shown to couriers never drifts from the reward actually paid.
func AssignValueTier(details string, rng *rand.Rand) domain.ValueTier {
	lower := strings.ToLower(details)
	for _, kw := range foodKeywords {
		if strings.Contains(lower, kw) {
			if rng.Float64() > 0.5 {
				return domain.ValueTierHigh
			}
			return domain.ValueTierMedium
		}
	}
	if rng.Float64() > 0.7 {
		return domain.ValueTierHigh
	}
	return domain.ValueTierLow
}

// RewardFor computes the coin breakdown for delivering an order of the
// given tier. ASAP orders carry a +5 urgency bonus; the on-time bonus is
// always granted since delivery times are not tracked.
func RewardFor(tier domain.ValueTier, orderType domain.DeliveryType) domain.CoinBreakdown {
	base := 10
	switch tier {
	case domain.ValueTierHigh:
		base = 20
	case domain.ValueTierMedium:
		base = 15
	}

	asapBonus := 0
	if orderType == domain.DeliveryTypeASAP {
		asapBonus = 5
	}

	return domain.CoinBreakdown{
		Base:        base,
		ASAPBonus:   asapBonus,
		OnTimeBonus: 5,
	}
}
