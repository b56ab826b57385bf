package llm

import (
	"context"
	"fmt"
)

// NewProvider creates a Provider from configuration, wrapped with request
// logging and, when more than one attempt is configured, retry. The default
// is a single attempt: failures surface to the caller unchanged.
func NewProvider(ctx context.Context, cfg Config) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → retry → logging → base
	wrapped := WithLogging(base)
	if cfg.Retry.MaxAttempts > 1 {
		wrapped = WithRetry(wrapped, cfg.Retry)
	}
	return wrapped, nil
}
