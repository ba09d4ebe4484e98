package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/abhisek/fido/internal/store"
)

// NewProvider opens the configured backend behind the standard middleware:
// caller → retry → logging → backend.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, error) {
	base, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return WithRetry(WithLogging(base, cfg.Provider, eventRepo), cfg.Retry), nil
}

func openBackend(ctx context.Context, cfg Config) (Provider, error) {
	if cfg.Provider == "mock" {
		return newOfflineMock(), nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b, _ := lookupBackend(cfg.Provider)
	p, err := b.open(ctx, b.resolve(cfg.Endpoints[b.name]))
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", b.name, err)
	}
	return p, nil
}

// NewProviderFromEnv builds a provider from FIDO_* variables. When no
// provider is named explicitly it falls back to the first standard API key
// found by DiscoverConfig.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo) (Provider, error) {
	cfg := ConfigFromEnv()
	if os.Getenv("FIDO_LLM_PROVIDER") == "" {
		if discovered, ok := DiscoverConfig(); ok {
			cfg = discovered
		}
	}
	return NewProvider(ctx, cfg, eventRepo)
}
