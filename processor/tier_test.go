package processor

import (
	"testing"

	"whaleflow/models"
)

func TestClassifyTierBoundaries(t *testing.T) {
	cases := []struct {
		balanceUSD float64
		want       models.Tier
	}{
		{250_000_000, models.Tier100M},
		{100_000_000, models.Tier100M},
		{99_999_999.99, models.Tier50M},
		{50_000_000, models.Tier50M},
		{49_999_999.99, models.Tier10M},
		{10_000_000, models.Tier10M},
		{9_999_999.99, models.TierBelowFloor},
		{0, models.TierBelowFloor},
	}
	for _, tc := range cases {
		if got := ClassifyTier(tc.balanceUSD); got != tc.want {
			t.Errorf("ClassifyTier(%v) = %v, want %v", tc.balanceUSD, got, tc.want)
		}
	}
}

func TestSummarizeTiersIncludesEmptyTiers(t *testing.T) {
	price := 100_000.0
	whales := []models.WhaleRecord{
		{Address: "a", BalanceBTC: 2000, BalanceUSD: 200_000_000, Tier: models.Tier100M},
		{Address: "b", BalanceBTC: 1500, BalanceUSD: 150_000_000, Tier: models.Tier100M},
		{Address: "c", BalanceBTC: 150, BalanceUSD: 15_000_000, Tier: models.Tier10M},
	}

	summary := SummarizeTiers(whales, price)
	if len(summary) != 3 {
		t.Fatalf("expected 3 tiers, got %d", len(summary))
	}

	if summary[0].Name != models.Tier100M || summary[0].Count != 2 || summary[0].TotalBTC != 3500 {
		t.Fatalf("top tier wrong: %+v", summary[0])
	}
	if summary[0].TotalUSD != 3500*price {
		t.Fatalf("top tier USD total wrong: %v", summary[0].TotalUSD)
	}
	if summary[1].Name != models.Tier50M || summary[1].Count != 0 {
		t.Fatalf("empty middle tier missing: %+v", summary[1])
	}
	if summary[2].Name != models.Tier10M || summary[2].Count != 1 {
		t.Fatalf("bottom tier wrong: %+v", summary[2])
	}
}
