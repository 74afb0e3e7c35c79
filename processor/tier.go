package processor

import "whaleflow/models"

// Tier thresholds in USD. Boundaries are inclusive on the lower edge and
// checked highest first, so the brackets are contiguous and non-overlapping.
const (
	tier100MFloor = 100_000_000
	tier50MFloor  = 50_000_000
	tier10MFloor  = 10_000_000
)

// ClassifyTier maps a USD balance to its wealth tier. Balances below the
// $10M floor classify as TierBelowFloor; callers are expected to have cut at
// the minimum threshold already.
func ClassifyTier(balanceUSD float64) models.Tier {
	switch {
	case balanceUSD >= tier100MFloor:
		return models.Tier100M
	case balanceUSD >= tier50MFloor:
		return models.Tier50M
	case balanceUSD >= tier10MFloor:
		return models.Tier10M
	default:
		return models.TierBelowFloor
	}
}

// RankedTiers is the fixed tier order used for the output summary.
var RankedTiers = []models.Tier{models.Tier100M, models.Tier50M, models.Tier10M}

// SummarizeTiers builds the per-tier count and native/USD totals for the
// output document. All ranked tiers appear in the summary, including empty
// ones.
func SummarizeTiers(whales []models.WhaleRecord, price float64) []models.TierSummary {
	counts := make(map[models.Tier]int)
	totals := make(map[models.Tier]float64)
	for _, w := range whales {
		counts[w.Tier]++
		totals[w.Tier] += w.BalanceBTC
	}

	summary := make([]models.TierSummary, 0, len(RankedTiers))
	for _, tier := range RankedTiers {
		summary = append(summary, models.TierSummary{
			Name:     tier,
			Count:    counts[tier],
			TotalBTC: totals[tier],
			TotalUSD: totals[tier] * price,
		})
	}
	return summary
}
