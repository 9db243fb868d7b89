// internal/predictor/config.go
package predictor

import (
	"time"

	"nursing-predictor/internal/common/config"
)

// Config holds the eligibility query policy.
type Config struct {
	DefaultYear  int
	MaxResults   int
	MaxRank      int
	HighMargin   float64
	GoodMargin   float64
	MediumMargin float64
	QueryTimeout time.Duration
}

// NewConfig builds the predictor policy from application configuration.
func NewConfig(cfg config.PredictorConfig) *Config {
	return &Config{
		DefaultYear:  cfg.DefaultYear,
		MaxResults:   cfg.MaxResults,
		MaxRank:      cfg.MaxRank,
		HighMargin:   cfg.HighMargin,
		GoodMargin:   cfg.GoodMargin,
		MediumMargin: cfg.MediumMargin,
		QueryTimeout: config.GetDuration(cfg.QueryTimeout),
	}
}
