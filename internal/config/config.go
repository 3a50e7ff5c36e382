package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Twilio    TwilioConfig    `mapstructure:"twilio"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Security  SecurityConfig  `mapstructure:"security"`
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

type GeminiConfig struct {
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	APIBase        string `mapstructure:"api_base"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Configured reports whether a credential is present. Without one the
// analyzers serve their deterministic fallback for every request.
func (g GeminiConfig) Configured() bool {
	return strings.TrimSpace(g.APIKey) != ""
}

func (g GeminiConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

type TwilioConfig struct {
	AccountSID      string `mapstructure:"account_sid"`
	AuthToken       string `mapstructure:"auth_token"`
	VoiceFromNumber string `mapstructure:"voice_from_number"`
	PublicBaseURL   string `mapstructure:"public_base_url"`
}

// Configured requires credentials, an origin number and a public callback
// base; call placement is refused without all four.
func (t TwilioConfig) Configured() bool {
	return strings.TrimSpace(t.AccountSID) != "" &&
		strings.TrimSpace(t.AuthToken) != "" &&
		strings.TrimSpace(t.VoiceFromNumber) != "" &&
		strings.TrimSpace(t.PublicBaseURL) != ""
}

type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

type SecurityConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeout_seconds", 30)
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.api_base", "https://generativelanguage.googleapis.com")
	v.SetDefault("gemini.timeout_seconds", 20)
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.rps", 25.0)
	v.SetDefault("rate_limit.burst", 50)
	v.SetDefault("security.allowed_origins", []string{"*"})

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// The deployment environment sets these directly, without a file.
	bindings := map[string]string{
		"server.port":              "PORT",
		"gemini.api_key":           "GEMINI_API_KEY",
		"gemini.model":             "GEMINI_MODEL",
		"gemini.api_base":          "GEMINI_API_BASE",
		"gemini.timeout_seconds":   "REQUEST_TIMEOUT_SECONDS",
		"twilio.account_sid":       "TWILIO_ACCOUNT_SID",
		"twilio.auth_token":        "TWILIO_AUTH_TOKEN",
		"twilio.voice_from_number": "TWILIO_VOICE_FROM_NUMBER",
		"twilio.public_base_url":   "PUBLIC_BASE_URL",
		"security.allowed_origins": "ALLOWED_ORIGINS",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	// The config file is optional; env vars alone are a valid deployment.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// ALLOWED_ORIGINS arrives as a comma-separated string from the env.
	if len(config.Security.AllowedOrigins) == 1 && strings.Contains(config.Security.AllowedOrigins[0], ",") {
		parts := strings.Split(config.Security.AllowedOrigins[0], ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
		config.Security.AllowedOrigins = origins
	}
	if len(config.Security.AllowedOrigins) == 0 {
		config.Security.AllowedOrigins = []string{"*"}
	}

	return &config, nil
}
