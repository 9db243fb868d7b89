// internal/advisor/service.go

// Package advisor produces a short plain-language explanation of a
// prediction outcome. Generation failures never surface to the caller; a
// deterministic fallback text is returned instead.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	commonerrors "nursing-predictor/internal/common/errors"
	"nursing-predictor/internal/common/logger"
	"nursing-predictor/internal/common/metrics"
	"nursing-predictor/internal/predictor"
)

const (
	ProviderGroq     = "groq"
	ProviderFallback = "fallback"
)

// Cache stores rendered advice keyed by query shape. Satisfied by
// database.RedisClient.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

type Service struct {
	config    *Config
	predictor *predictor.Service
	generator *Generator
	cache     Cache
	logger    logger.Logger
}

func NewService(config *Config, pred *predictor.Service, gen *Generator, cache Cache, log logger.Logger) *Service {
	return &Service{
		config:    config,
		predictor: pred,
		generator: gen,
		cache:     cache,
		logger:    log.WithFields(map[string]interface{}{"component": "advisor"}),
	}
}

// Advise explains a prediction outcome. When the request carries its own
// college rows the advice is built from them and no storage is touched;
// otherwise the prediction is recomputed and its errors propagate unchanged.
// Generation errors are always swallowed into the fallback path.
func (s *Service) Advise(ctx context.Context, req *Request) (*Result, error) {
	var prediction *predictor.Result
	if req.Colleges != nil {
		if err := s.predictor.Validate(&req.Request); err != nil {
			return nil, err
		}
		prediction = &predictor.Result{
			Colleges: req.Colleges,
			Meta:     predictor.Meta{Count: len(req.Colleges)},
		}
	} else {
		var err error
		prediction, err = s.predictor.Predict(ctx, &req.Request)
		if err != nil {
			return nil, err
		}
	}

	cacheKey := s.cacheKey(req)
	if cached := s.cachedResult(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	text, provider := s.generate(ctx, req, prediction)

	result := &Result{
		AIExplanation: truncateWords(text, s.config.WordLimit),
		Meta: Meta{
			Provider:      provider,
			QueryRank:     req.Rank,
			QueryCategory: req.Category,
			CollegesCount: prediction.Meta.Count,
		},
	}

	metrics.AdviceGenerationsTotal.WithLabelValues(provider).Inc()
	s.storeResult(ctx, cacheKey, result)

	return result, nil
}

func (s *Service) generate(ctx context.Context, req *Request, prediction *predictor.Result) (string, string) {
	prompt := s.buildPrompt(&req.Request, prediction)

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.WithError(generationError(err)).Warn("advice generation failed, using fallback", map[string]interface{}{
			"rank":     req.Rank,
			"category": req.Category,
		})
		return s.fallbackAdvice(&req.Request, prediction), ProviderFallback
	}

	return text, ProviderGroq
}

// generationError maps generator sentinels onto the shared error taxonomy so
// fallback causes are logged with their code and retryability.
func generationError(err error) *commonerrors.StandardError {
	if errors.Is(err, ErrGenerationTimeout) {
		return commonerrors.NewGenerationTimeoutError()
	}
	return commonerrors.NewGenerationFailedError(err)
}

// cacheKey covers every request field that changes the advice text. Requests
// carrying their own rows get a distinct key so they never collide with a
// store-computed prediction for the same query shape.
func (s *Service) cacheKey(req *Request) string {
	key := fmt.Sprintf("advice:%d:%s:%s:%s:%s:%d",
		req.Rank, req.Category, req.ExamType, req.Branch, req.CollegeType, req.Year)
	if req.Colleges != nil {
		key = fmt.Sprintf("%s:c%d", key, len(req.Colleges))
	}
	return key
}

func (s *Service) cachedResult(ctx context.Context, key string) *Result {
	if s.cache == nil {
		return nil
	}

	raw, err := s.cache.Get(ctx, key)
	if err != nil || raw == "" {
		metrics.AdviceCacheHits.WithLabelValues("miss").Inc()
		return nil
	}

	var result Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		metrics.AdviceCacheHits.WithLabelValues("miss").Inc()
		return nil
	}

	metrics.AdviceCacheHits.WithLabelValues("hit").Inc()
	return &result
}

// storeResult caches best-effort. A cache write failure only costs a
// regeneration on the next request.
func (s *Service) storeResult(ctx context.Context, key string, result *Result) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), s.config.CacheTTL); err != nil {
		s.logger.WithError(err).Warn("advice cache write failed", map[string]interface{}{
			"key": key,
		})
	}
}
