package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/quizlens/internal/store"
)

// NewProvider builds the configured provider and wraps it as
//
//	caller → retry → purpose defaults → logging → vendor
//
// so each attempt is logged with the request it actually sent. The "mock"
// provider gets the same chain and answers with fixtures.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, error) {
	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		base = NewMockProvider()
	case ProviderNone, "":
		return nil, ErrDisabled
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}
	return Chain(base, cfg.Retry, eventRepo), nil
}

// Chain applies the decorators NewProvider uses to base. A nil repo
// discards request events.
func Chain(base Provider, retry RetryConfig, eventRepo store.EventRepo) Provider {
	if eventRepo == nil {
		eventRepo = store.NopEventRepo{}
	}
	return WithRetry(WithPurposeDefaults(WithLogging(base, eventRepo)), retry)
}

// NewProviderFromEnv resolves configuration from the environment, validates
// it and builds the provider.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo) (Provider, error) {
	cfg := ResolveConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return NewProvider(ctx, cfg, eventRepo)
}
