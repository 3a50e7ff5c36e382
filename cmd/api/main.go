package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"

	"github.com/medicare-health/assistant-api/internal/config"
	"github.com/medicare-health/assistant-api/internal/gemini"
	"github.com/medicare-health/assistant-api/internal/handler"
	assistantHandler "github.com/medicare-health/assistant-api/internal/handler/assistant"
	sideeffectHandler "github.com/medicare-health/assistant-api/internal/handler/sideeffect"
	voiceHandler "github.com/medicare-health/assistant-api/internal/handler/voice"
	"github.com/medicare-health/assistant-api/internal/middleware"
	"github.com/medicare-health/assistant-api/internal/router"
	assistantService "github.com/medicare-health/assistant-api/internal/service/assistant"
	sideeffectService "github.com/medicare-health/assistant-api/internal/service/sideeffect"
	voiceService "github.com/medicare-health/assistant-api/internal/service/voice"
	"github.com/medicare-health/assistant-api/pkg/metrics"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	registry := prometheus.NewRegistry()
	appMetrics := metrics.New("medicare", registry)

	// Without a model credential the analyzers run fallback-only, which is
	// a supported deployment, not an error.
	var llm gemini.Client
	if cfg.Gemini.Configured() {
		llm = gemini.NewRestClient(gemini.Config{
			APIKey:  cfg.Gemini.APIKey,
			APIBase: cfg.Gemini.APIBase,
			Model:   cfg.Gemini.Model,
			Timeout: cfg.Gemini.Timeout(),
		})
	} else {
		log.Warn().Msg("no model credential configured; analyzers will serve deterministic fallbacks")
	}

	analyzerSvc := sideeffectService.NewService(llm, cfg.Gemini.Timeout(), appMetrics)
	chatSvc := assistantService.NewService(llm, cfg.Gemini.Timeout(), appMetrics)

	var callCreator voiceService.CallCreator
	if cfg.Twilio.Configured() {
		twilioClient := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.Twilio.AccountSID,
			Password: cfg.Twilio.AuthToken,
		})
		twilioClient.SetTimeout(15 * time.Second)
		callCreator = twilioClient.Api
	} else {
		log.Warn().Msg("telephony not configured; reminder call placement will be rejected")
	}
	voiceSvc := voiceService.NewService(cfg.Twilio, callCreator, voiceService.NewCallStore(), appMetrics)

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.Security.AllowedOrigins

	r := router.New(
		router.Config{
			RateLimitEnabled: cfg.RateLimit.Enabled,
			RateLimitRPS:     cfg.RateLimit.RPS,
			RateLimitBurst:   cfg.RateLimit.Burst,
			CORS:             corsConfig,
			RequestTimeout:   time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		},
		registry,
		handler.NewHandler(),
		sideeffectHandler.NewHandler(analyzerSvc),
		assistantHandler.NewHandler(chatSvc),
		voiceHandler.NewHandler(voiceSvc, appMetrics),
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
