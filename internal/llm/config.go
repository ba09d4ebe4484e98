package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Endpoint is what a backend needs to serve requests.
type Endpoint struct {
	APIKey string

	// Model is a friendly alias ("claude-haiku") or a provider model ID.
	// Empty selects the backend default.
	Model string

	// BaseURL overrides the API root of OpenAI-compatible backends.
	BaseURL string
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// Config selects a backend by name and carries per-backend endpoints.
type Config struct {
	// Provider is a backend name or "mock".
	Provider  string
	Endpoints map[string]Endpoint
	Retry     RetryConfig
}

func DefaultConfig() Config {
	return Config{
		Provider:  backends[0].name,
		Endpoints: map[string]Endpoint{},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
	}
}

func envPrefix(backend string) string {
	return "FIDO_" + strings.ToUpper(backend) + "_"
}

// ConfigFromEnv reads FIDO_LLM_PROVIDER and, for every backend,
// FIDO_<NAME>_API_KEY, FIDO_<NAME>_MODEL and FIDO_<NAME>_BASE_URL.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("FIDO_LLM_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	for _, b := range backends {
		p := envPrefix(b.name)
		ep := Endpoint{
			APIKey:  os.Getenv(p + "API_KEY"),
			Model:   os.Getenv(p + "MODEL"),
			BaseURL: os.Getenv(p + "BASE_URL"),
		}
		if ep != (Endpoint{}) {
			cfg.Endpoints[b.name] = ep
		}
	}
	return cfg
}

// DiscoverConfig selects the first backend, in table order, whose
// conventional key variable (GROQ_API_KEY, GEMINI_API_KEY, ...) is set.
func DiscoverConfig() (Config, bool) {
	for _, b := range backends {
		if k := os.Getenv(b.keyEnv); k != "" {
			cfg := DefaultConfig()
			cfg.Provider = b.name
			cfg.Endpoints[b.name] = Endpoint{APIKey: k}
			return cfg, true
		}
	}
	return Config{}, false
}

// Validate checks that the selected backend exists and has a key.
func (c Config) Validate() error {
	if c.Provider == "mock" {
		return nil
	}
	if _, ok := lookupBackend(c.Provider); !ok {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.Endpoints[c.Provider].APIKey == "" {
		return fmt.Errorf("%sAPI_KEY is required for the %s provider", envPrefix(c.Provider), c.Provider)
	}
	return nil
}
