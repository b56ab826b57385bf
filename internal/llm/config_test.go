package llm

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Provider != "openai" {
		t.Errorf("default provider = %q, want openai", cfg.Provider)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Errorf("default openai model = %q", cfg.OpenAI.Model)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("default timeout = %v", cfg.Timeout)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("METANOTES_LLM_PROVIDER", "anthropic")
	t.Setenv("METANOTES_ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("METANOTES_ANTHROPIC_MODEL", "claude-sonnet")
	t.Setenv("METANOTES_OPENAI_BASE_URL", "https://api.deepseek.com/v1")

	cfg := ConfigFromEnv()

	if cfg.Provider != "anthropic" {
		t.Errorf("provider = %q, want anthropic", cfg.Provider)
	}
	if cfg.Anthropic.APIKey != "sk-test" {
		t.Errorf("anthropic key = %q", cfg.Anthropic.APIKey)
	}
	if cfg.Anthropic.Model != "claude-sonnet" {
		t.Errorf("anthropic model = %q", cfg.Anthropic.Model)
	}
	if cfg.OpenAI.BaseURL != "https://api.deepseek.com/v1" {
		t.Errorf("openai base url = %q", cfg.OpenAI.BaseURL)
	}
	// Unset values keep their defaults.
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Errorf("openai model = %q, want default", cfg.OpenAI.Model)
	}
	if cfg.Retry.MaxAttempts != 1 {
		t.Errorf("retry attempts = %d, want 1 by default", cfg.Retry.MaxAttempts)
	}
}

func TestConfigFromEnv_RetryAttempts(t *testing.T) {
	t.Setenv("METANOTES_LLM_RETRY_ATTEMPTS", "3")

	cfg := ConfigFromEnv()
	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("retry attempts = %d, want 3", cfg.Retry.MaxAttempts)
	}
}

func TestDiscoverConfig(t *testing.T) {
	clear := func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "")
		t.Setenv("ANTHROPIC_API_KEY", "")
		t.Setenv("GEMINI_API_KEY", "")
		t.Setenv("OPENROUTER_API_KEY", "")
	}

	t.Run("none set", func(t *testing.T) {
		clear(t)
		if _, ok := DiscoverConfig(); ok {
			t.Error("expected discovery to fail with no keys set")
		}
	})

	t.Run("openai wins over anthropic", func(t *testing.T) {
		clear(t)
		t.Setenv("OPENAI_API_KEY", "sk-openai")
		t.Setenv("ANTHROPIC_API_KEY", "sk-anthropic")

		cfg, ok := DiscoverConfig()
		if !ok {
			t.Fatal("expected discovery to succeed")
		}
		if cfg.Provider != "openai" {
			t.Errorf("provider = %q, want openai", cfg.Provider)
		}
		if cfg.OpenAI.APIKey != "sk-openai" {
			t.Errorf("key = %q", cfg.OpenAI.APIKey)
		}
	})

	t.Run("openrouter last", func(t *testing.T) {
		clear(t)
		t.Setenv("OPENROUTER_API_KEY", "sk-or")

		cfg, ok := DiscoverConfig()
		if !ok {
			t.Fatal("expected discovery to succeed")
		}
		if cfg.Provider != "openrouter" {
			t.Errorf("provider = %q, want openrouter", cfg.Provider)
		}
	})
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"openai with key", Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "k"}}, false},
		{"openai without key", Config{Provider: "openai"}, true},
		{"anthropic without key", Config{Provider: "anthropic"}, true},
		{"gemini without key", Config{Provider: "gemini"}, true},
		{"openrouter without key", Config{Provider: "openrouter"}, true},
		{"mock needs no key", Config{Provider: "mock"}, false},
		{"unknown provider", Config{Provider: "llama-stack"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected an error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
