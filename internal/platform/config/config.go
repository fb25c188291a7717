package config

import (
	"os"
	"time"
)

// Defaults for the verification provider connection.
const (
	DefaultAddr            = ":8080"
	DefaultProviderBaseURL = "https://stationapi.veriff.com"
	DefaultProviderTimeout = 10 * time.Second
	DefaultProviderLang    = "pt"
	DefaultProviderCountry = "BR"
)

// Server captures process level configuration, resolved once at startup.
type Server struct {
	Addr string

	// ProviderAPIKey authenticates outbound session-creation calls. Session
	// creation fails with a config error when it is unset; webhook ingestion
	// and decision queries keep working.
	ProviderAPIKey  string
	ProviderBaseURL string
	ProviderTimeout time.Duration
	ProviderLang    string
	ProviderCountry string

	// WebhookSecret is the shared HMAC secret for webhook signatures. An empty
	// value disables verification entirely (insecure development mode).
	WebhookSecret string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:            envOr("VERIGATE_ADDR", DefaultAddr),
		ProviderAPIKey:  os.Getenv("PROVIDER_API_KEY"),
		ProviderBaseURL: envOr("PROVIDER_BASE_URL", DefaultProviderBaseURL),
		ProviderTimeout: DefaultProviderTimeout,
		ProviderLang:    envOr("PROVIDER_LANG", DefaultProviderLang),
		ProviderCountry: envOr("PROVIDER_COUNTRY", DefaultProviderCountry),
		WebhookSecret:   os.Getenv("WEBHOOK_HMAC_SECRET"),
	}

	if raw := os.Getenv("PROVIDER_TIMEOUT"); raw != "" {
		if duration, err := time.ParseDuration(raw); err == nil {
			cfg.ProviderTimeout = duration
		}
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
