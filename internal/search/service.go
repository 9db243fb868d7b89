// internal/search/service.go

// Package search offers typeahead institute lookup backed by Elasticsearch.
// The index carries one document per institute with the fields institute,
// district, and branches.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"nursing-predictor/internal/common/errors"
	"nursing-predictor/internal/common/logger"
	"nursing-predictor/internal/ownership"

	"github.com/elastic/go-elasticsearch/v8"
)

type Config struct {
	Index      string
	Timeout    time.Duration
	MaxResults int
}

// InstituteHit is one search result.
type InstituteHit struct {
	Institute  string   `json:"institute"`
	District   string   `json:"district,omitempty"`
	Branches   []string `json:"branches,omitempty"`
	Government bool     `json:"government"`
	Score      float64  `json:"score"`
}

type Service struct {
	config *Config
	client *elasticsearch.Client
	logger logger.Logger
}

func NewService(config *Config, client *elasticsearch.Client, log logger.Logger) *Service {
	return &Service{
		config: config,
		client: client,
		logger: log.WithFields(map[string]interface{}{"component": "search"}),
	}
}

// Search finds institutes whose name matches the query prefix or fuzzily.
func (s *Service) Search(ctx context.Context, query string) ([]InstituteHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.NewValidationError("query parameter q is required")
	}

	searchCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	body, _ := json.Marshal(map[string]interface{}{
		"size": s.config.MaxResults,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{
					map[string]interface{}{
						"match_phrase_prefix": map[string]interface{}{
							"institute": query,
						},
					},
					map[string]interface{}{
						"match": map[string]interface{}{
							"institute": map[string]interface{}{
								"query":     query,
								"fuzziness": "AUTO",
							},
						},
					},
				},
				"minimum_should_match": 1,
			},
		},
	})

	res, err := s.client.Search(
		s.client.Search.WithContext(searchCtx),
		s.client.Search.WithIndex(s.config.Index),
		s.client.Search.WithBody(strings.NewReader(string(body))),
	)
	if err != nil {
		s.logger.WithError(err).Error("institute search failed", map[string]interface{}{
			"query": query,
		})
		return nil, errors.NewSearchQueryFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.NewSearchQueryFailedError(fmt.Errorf("search status %s", res.Status()))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Score  float64 `json:"_score"`
				Source struct {
					Institute string   `json:"institute"`
					District  string   `json:"district"`
					Branches  []string `json:"branches"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.NewSearchQueryFailedError(fmt.Errorf("decode search response: %w", err))
	}

	hits := make([]InstituteHit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		hits = append(hits, InstituteHit{
			Institute:  h.Source.Institute,
			District:   h.Source.District,
			Branches:   h.Source.Branches,
			Government: ownership.IsGovernment(h.Source.Institute),
			Score:      h.Score,
		})
	}

	return hits, nil
}
