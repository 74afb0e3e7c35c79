package models

// Tier is a discrete wealth bracket assigned by USD balance at
// classification time.
type Tier string

const (
	Tier100M Tier = "$100M+"
	Tier50M  Tier = "$50M-100M"
	Tier10M  Tier = "$10M-50M"
	// TierBelowFloor marks balances under the minimum USD threshold.
	// Records in this tier never reach the output document.
	TierBelowFloor Tier = "<$10M"
)

// HolderRecord is a raw rich-list entry as delivered by the ledger data
// source. Consumed once per cycle.
type HolderRecord struct {
	Address    string
	BalanceBTC float64
	Label      string
	TxCount    int
}

// WhaleRecord is one ranked holder in the output document. Created fresh
// every cycle; never mutated after assembly. A nil change pointer means no
// comparable historical snapshot was found ("unknown", not zero).
type WhaleRecord struct {
	Address    string   `json:"address"`
	BalanceBTC float64  `json:"balance_btc"`
	BalanceUSD float64  `json:"balance_usd"`
	Tier       Tier     `json:"tier"`
	TxCount    int      `json:"tx_count"`
	Label      string   `json:"label"`
	Change1d   *float64 `json:"change_1d"`
	Change7d   *float64 `json:"change_7d"`
	Change30d  *float64 `json:"change_30d"`
}

// TierSummary aggregates count and totals for one tier.
type TierSummary struct {
	Name     Tier    `json:"name"`
	Count    int     `json:"count"`
	TotalBTC float64 `json:"total_btc"`
	TotalUSD float64 `json:"total_usd"`
}

// Sentiment is the aggregate accumulation/distribution signal derived from
// 1-day balance deltas.
type Sentiment struct {
	Direction      string  `json:"direction"`
	NetChangeBTC1d float64 `json:"net_change_btc_1d"`
	NetChangeUSD1d float64 `json:"net_change_usd_1d"`
	WhalesTracked  int     `json:"whales_tracked"`
}

// LargeTransfer is reserved for the transfer feed consumed by the dashboard.
// The current pipeline does not detect transfers, so the output array stays
// empty, but the document shape keeps the key.
type LargeTransfer struct {
	Address   string  `json:"address"`
	AmountBTC float64 `json:"amount_btc"`
	Direction string  `json:"direction"`
}

// OutputDocument is the full assembled result of one cycle. Regenerated
// wholesale each run; never partially updated.
type OutputDocument struct {
	RunID          string          `json:"run_id"`
	UpdatedAt      string          `json:"updated_at"`
	BTCPrice       float64         `json:"btc_price"`
	TotalWhales    int             `json:"total_whales"`
	Tiers          []TierSummary   `json:"tiers"`
	Sentiment      Sentiment       `json:"sentiment"`
	Whales         []WhaleRecord   `json:"whales"`
	LargeTransfers []LargeTransfer `json:"large_transfers"`
	CexExcluded    int             `json:"cex_excluded"`
	Source         string          `json:"source"`
}
