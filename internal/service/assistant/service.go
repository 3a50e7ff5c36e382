// Package assistant answers medication and wellness questions, optionally
// grounded on prescription text or an inline prescription image. Like the
// side-effect analyzer, Chat never fails: upstream trouble of any kind is
// absorbed into a canned keyword-triggered fallback reply.
package assistant

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/medicare-health/assistant-api/internal/gemini"
	"github.com/medicare-health/assistant-api/internal/model"
	"github.com/medicare-health/assistant-api/pkg/circuitbreaker"
	"github.com/medicare-health/assistant-api/pkg/metrics"
)

const (
	pipeline    = "assistant_chat"
	temperature = 0.25
)

type Service struct {
	llm     gemini.Client
	breaker *circuitbreaker.CircuitBreaker
	metrics *metrics.Metrics
	timeout time.Duration
}

// NewService builds the assistant. A nil llm client means no credential is
// configured and every turn gets the fallback reply.
func NewService(llm gemini.Client, timeout time.Duration, m *metrics.Metrics) *Service {
	return &Service{
		llm: llm,
		breaker: circuitbreaker.New(circuitbreaker.Settings{
			Name:        pipeline,
			MaxFailures: 5,
			Cooldown:    30 * time.Second,
		}),
		metrics: m,
		timeout: timeout,
	}
}

// Chat answers one turn, tagged with provenance. Whatever path produced the
// result, image_received reflects the actual input, not the model's claim.
func (s *Service) Chat(ctx context.Context, turn *model.ChatTurn) model.Output[model.ChatResult] {
	if s.llm == nil {
		return s.fallbackOutput(turn)
	}

	var result model.ChatResult
	err := s.breaker.Execute(func() error {
		var innerErr error
		result, innerErr = s.chatWithModel(ctx, turn)
		return innerErr
	})
	if err != nil {
		log.Warn().Err(err).Str("pipeline", pipeline).Msg("model chat failed, serving fallback")
		return s.fallbackOutput(turn)
	}

	result.ImageReceived = turn.HasImage()
	return model.Output[model.ChatResult]{Result: result, Source: model.SourceLLM}
}

func (s *Service) chatWithModel(ctx context.Context, turn *model.ChatTurn) (model.ChatResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	parts := []gemini.Part{{Text: buildPrompt(turn)}}
	if turn.HasImage() {
		parts = append(parts, gemini.Part{
			InlineData: &gemini.InlineData{
				MIMEType: turn.PrescriptionImageMIMEType,
				Data:     turn.PrescriptionImageBase64,
			},
		})
	}

	req := &gemini.GenerateRequest{
		Contents: []gemini.Content{{Parts: parts}},
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
		return model.ChatResult{}, err
	}

	text, err := gemini.ExtractText(resp)
	if err != nil {
		s.metrics.LLMRequests.WithLabelValues(pipeline, "error").Inc()
		return model.ChatResult{}, err
	}
	parsed, err := gemini.DecodeObject(text)
	if err != nil {
		s.metrics.LLMRequests.WithLabelValues(pipeline, "error").Inc()
		return model.ChatResult{}, err
	}

	s.metrics.LLMRequests.WithLabelValues(pipeline, "success").Inc()
	return normalizeChat(parsed), nil
}

func (s *Service) fallbackOutput(turn *model.ChatTurn) model.Output[model.ChatResult] {
	s.metrics.FallbackServed.WithLabelValues(pipeline).Inc()
	return model.Output[model.ChatResult]{
		Result: fallbackChat(turn),
		Source: model.SourceFallback,
	}
}
