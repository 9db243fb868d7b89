// internal/advisor/config.go
package advisor

import (
	"time"

	"nursing-predictor/internal/common/config"
)

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64

	WordLimit  int
	SampleRows int
	CacheTTL   time.Duration
}

// NewConfig builds the advisor policy from application configuration.
func NewConfig(groq config.GroqConfig, adv config.AdvisorConfig) *Config {
	return &Config{
		BaseURL:     groq.BaseURL,
		APIKey:      groq.APIKey,
		Model:       groq.Model,
		Timeout:     config.GetDuration(groq.Timeout),
		MaxTokens:   groq.MaxTokens,
		Temperature: groq.Temperature,
		WordLimit:   adv.WordLimit,
		SampleRows:  adv.SampleRows,
		CacheTTL:    time.Duration(adv.CacheTTL) * time.Second,
	}
}
