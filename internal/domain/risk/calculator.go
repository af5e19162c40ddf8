package risk

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Scoring rule tables are pure data so each branch stays auditable in
// isolation.
var riskLevelBaseScores = map[RiskLevel]float64{
	RiskLevelLow:      20.0,
	RiskLevelMedium:   45.0,
	RiskLevelHigh:     70.0,
	RiskLevelCritical: 90.0,
}

var sentimentFactors = map[CrowdSentiment]float64{
	SentimentBullish: -10.0,
	SentimentNeutral: 0.0,
	SentimentBearish: 10.0,
}

// Volatility pulls the score up but saturates at 30 points no matter how
// large the raw index is.
const maxVolatilityPoints = 30.0

// CalculateRiskScore derives the normalized 0-100 score for an entry:
// base score per risk level, capped volatility contribution, sentiment
// adjustment, clamped to [0, 100] and rounded to 2 decimals half away from
// zero. Pure; the same fields always yield the same score.
func CalculateRiskScore(e Entry) float64 {
	score := riskLevelBaseScores[e.RiskLevel]

	volatility := e.VolatilityIndex
	if volatility > maxVolatilityPoints {
		volatility = maxVolatilityPoints
	}
	score += volatility

	if e.CrowdSentiment != nil {
		score += sentimentFactors[*e.CrowdSentiment]
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return round2(score)
}

// CalculateAverageRisk returns the mean of the stored scores rounded to
// 2 decimals. Scores are taken as persisted, never recomputed. An empty
// collection yields 0 by policy, not as an error.
func CalculateAverageRisk(entries []Entry) float64 {
	if len(entries) == 0 {
		return 0.0
	}

	sum := decimal.Zero
	for _, entry := range entries {
		sum = sum.Add(decimal.NewFromFloat(entry.RiskScore))
	}

	avg, _ := sum.Div(decimal.NewFromInt(int64(len(entries)))).Round(2).Float64()
	return avg
}

// FilterByCryptocurrency returns the entries whose cryptocurrency matches
// name case-insensitively, preserving relative order. Exact matching only.
func FilterByCryptocurrency(entries []Entry, name string) []Entry {
	filtered := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if strings.EqualFold(entry.Cryptocurrency, name) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

func round2(value float64) float64 {
	rounded, _ := decimal.NewFromFloat(value).Round(2).Float64()
	return rounded
}
