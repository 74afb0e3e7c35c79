package processor

import "whaleflow/models"

// Sentiment directions.
const (
	DirectionAccumulating = "accumulating"
	DirectionDistributing = "distributing"
	DirectionNeutral      = "neutral"
)

// AggregateSentiment reduces the 1-day deltas of the tracked whales into a
// single net direction and magnitude. Holders with an unknown 1-day delta
// are left out of both the sum and the tracked count; when nothing is
// comparable the direction is neutral. Pure reduction, no side effects.
func AggregateSentiment(whales []models.WhaleRecord, price float64) models.Sentiment {
	netBTC := 0.0
	counted := 0
	for _, w := range whales {
		if w.Change1d == nil {
			continue
		}
		netBTC += *w.Change1d
		counted++
	}

	direction := DirectionNeutral
	if netBTC > 0 {
		direction = DirectionAccumulating
	} else if netBTC < 0 {
		direction = DirectionDistributing
	}

	return models.Sentiment{
		Direction:      direction,
		NetChangeBTC1d: netBTC,
		NetChangeUSD1d: netBTC * price,
		WhalesTracked:  counted,
	}
}
