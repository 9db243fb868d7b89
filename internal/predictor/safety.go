// internal/predictor/safety.go
package predictor

import "nursing-predictor/internal/models"

// SafetyMargin measures how far below the closing rank the candidate sits,
// as a fraction of the closing rank. Zero when the rank equals the cutoff.
func SafetyMargin(rank, closingRank int) float64 {
	if closingRank <= 0 {
		return 0
	}
	return float64(closingRank-rank) / float64(closingRank)
}

// Grade maps a safety margin to an admission chance band using the
// configured thresholds.
func (c *Config) Grade(margin float64) string {
	switch {
	case margin >= c.HighMargin:
		return models.ChanceHigh
	case margin >= c.GoodMargin:
		return models.ChanceGood
	case margin >= c.MediumMargin:
		return models.ChanceMedium
	default:
		return models.ChanceLow
	}
}
