// Package sideeffect analyzes medicine side-effect reports. The upstream
// model is asked for a strict-JSON triage object; anything that goes wrong
// between the request and a validated result collapses into a deterministic
// keyword-based fallback, so Analyze never fails.
package sideeffect

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/medicare-health/assistant-api/internal/gemini"
	"github.com/medicare-health/assistant-api/internal/model"
	"github.com/medicare-health/assistant-api/pkg/circuitbreaker"
	"github.com/medicare-health/assistant-api/pkg/metrics"
)

const (
	pipeline    = "side_effect"
	temperature = 0.1

	resultTTL = 5 * time.Minute
)

type Service struct {
	llm     gemini.Client
	breaker *circuitbreaker.CircuitBreaker
	metrics *metrics.Metrics
	results *cache.Cache
	timeout time.Duration
}

// NewService builds the analyzer. A nil llm client means no credential is
// configured and every request is served by the fallback.
func NewService(llm gemini.Client, timeout time.Duration, m *metrics.Metrics) *Service {
	return &Service{
		llm: llm,
		breaker: circuitbreaker.New(circuitbreaker.Settings{
			Name:        pipeline,
			MaxFailures: 5,
			Cooldown:    30 * time.Second,
		}),
		metrics: m,
		results: cache.New(resultTTL, 2*resultTTL),
		timeout: timeout,
	}
}

// Analyze returns a triage result for the report, tagged with its
// provenance. It never returns an error: upstream failures of any kind
// produce the fallback result instead.
func (s *Service) Analyze(ctx context.Context, report *model.SymptomReport) model.Output[model.TriageResult] {
	if s.llm == nil {
		return s.fallbackOutput(report)
	}

	prompt := buildPrompt(report)

	// Identical repeat reports skip the upstream call. Only model-sourced
	// results are cached; the fallback is cheap to recompute.
	key := fingerprint(prompt)
	if cached, ok := s.results.Get(key); ok {
		if result, ok := cached.(model.TriageResult); ok {
			return model.Output[model.TriageResult]{Result: result, Source: model.SourceLLM}
		}
	}

	var result model.TriageResult
	err := s.breaker.Execute(func() error {
		var innerErr error
		result, innerErr = s.analyzeWithModel(ctx, prompt)
		return innerErr
	})
	if err != nil {
		log.Warn().Err(err).Str("pipeline", pipeline).Msg("model analysis failed, serving fallback")
		return s.fallbackOutput(report)
	}

	s.results.SetDefault(key, result)
	return model.Output[model.TriageResult]{Result: result, Source: model.SourceLLM}
}

func (s *Service) analyzeWithModel(ctx context.Context, prompt string) (model.TriageResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req := &gemini.GenerateRequest{
		Contents: []gemini.Content{{Parts: []gemini.Part{{Text: prompt}}}},
		GenerationConfig: &gemini.GenerationConfig{
			Temperature:      temperature,
			ResponseMIMEType: "application/json",
		},
	}

	start := time.Now()
	resp, err := s.llm.GenerateContent(ctx, req)
	s.metrics.LLMLatency.WithLabelValues(pipeline).Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.LLMRequests.WithLabelValues(pipeline, "error").Inc()
		return model.TriageResult{}, err
	}

	text, err := gemini.ExtractText(resp)
	if err != nil {
		s.metrics.LLMRequests.WithLabelValues(pipeline, "error").Inc()
		return model.TriageResult{}, err
	}
	parsed, err := gemini.DecodeObject(text)
	if err != nil {
		s.metrics.LLMRequests.WithLabelValues(pipeline, "error").Inc()
		return model.TriageResult{}, err
	}

	s.metrics.LLMRequests.WithLabelValues(pipeline, "success").Inc()
	return normalizeTriage(parsed), nil
}

func (s *Service) fallbackOutput(report *model.SymptomReport) model.Output[model.TriageResult] {
	s.metrics.FallbackServed.WithLabelValues(pipeline).Inc()
	return model.Output[model.TriageResult]{
		Result: fallbackTriage(report),
		Source: model.SourceFallback,
	}
}

func fingerprint(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
