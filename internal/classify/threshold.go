// Package classify implements the per-trade classification pipeline:
// threshold escalation, quote-rule direction inference, venue tagging,
// and sweep grouping.
package classify

import (
	"fmt"
	"sort"

	"github.com/DeanFinancials/deanfi-collectors/internal/domain"
)

// ValidateTiers checks that tiers are ordered strictly ascending in both
// size and notional. Called once at startup; malformed tier tables are a
// configuration error, not a per-symbol condition.
func ValidateTiers(tiers []domain.ThresholdTier) error {
	if len(tiers) == 0 {
		return fmt.Errorf("threshold tiers: empty tier table")
	}
	for i, tier := range tiers {
		if tier.MinSize <= 0 || tier.MinNotional <= 0 {
			return fmt.Errorf("threshold tiers: tier %q has non-positive thresholds", tier.Label)
		}
		if tier.Label == "" {
			return fmt.Errorf("threshold tiers: tier %d has empty label", i)
		}
		if i == 0 {
			continue
		}
		prev := tiers[i-1]
		if tier.MinSize <= prev.MinSize || tier.MinNotional <= prev.MinNotional {
			return fmt.Errorf("threshold tiers: tier %q does not strictly exceed tier %q", tier.Label, prev.Label)
		}
	}
	return nil
}

// SelectThreshold walks the tier table from the lowest tier upward and
// returns the first tier whose qualifying trade count is within targetMax,
// along with the qualifying trades. The highest tier is a hard cap: its
// result is returned regardless of count. A count exactly equal to
// targetMax stops the walk.
//
// The multiplier scales tier thresholds before filtering, so mega-cap
// symbols need a proportionally higher bar. Zero trades yields the lowest
// tier and an empty slice.
func SelectThreshold(trades []*domain.Trade, tiers []domain.ThresholdTier, multiplier float64, targetMax int) (domain.ThresholdTier, []*domain.Trade) {
	if multiplier <= 0 {
		multiplier = 1.0
	}

	var (
		tier     domain.ThresholdTier
		retained []*domain.Trade
	)
	for _, tier = range tiers {
		retained = retained[:0]
		for _, t := range trades {
			if tier.Qualifies(t.Size, t.Notional, multiplier) {
				retained = append(retained, t)
			}
		}
		if len(retained) <= targetMax {
			break
		}
	}

	out := make([]*domain.Trade, len(retained))
	copy(out, retained)
	return tier, out
}

// CapRetained truncates a retained trade set to at most hardMax trades,
// keeping the largest by notional. Ordering within the result is notional
// descending. hardMax <= 0 disables the cap.
func CapRetained(trades []*domain.Trade, hardMax int) []*domain.Trade {
	if hardMax <= 0 || len(trades) <= hardMax {
		return trades
	}
	sorted := make([]*domain.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Notional > sorted[j].Notional
	})
	return sorted[:hardMax]
}
