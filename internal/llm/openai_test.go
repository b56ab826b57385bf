package llm

import (
	"errors"
	"net/http"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func TestResolveModel(t *testing.T) {
	models := map[string]string{
		"mini": "gpt-4o-mini",
	}

	if got := resolveModel("mini", models); got != "gpt-4o-mini" {
		t.Errorf("resolveModel(mini) = %q", got)
	}
	// Names outside the map pass through as direct model IDs.
	if got := resolveModel("ft:gpt-4o:custom", models); got != "ft:gpt-4o:custom" {
		t.Errorf("resolveModel passthrough = %q", got)
	}
}

func TestNewOpenAIProviderRequiresKey(t *testing.T) {
	if _, err := NewOpenAIProvider(OpenAIConfig{Model: "gpt-4o-mini"}); err == nil {
		t.Fatal("expected an error without an API key")
	}
}

func TestMapOpenAIStopReason(t *testing.T) {
	if got := mapOpenAIStopReason(openai.FinishReasonLength); got != "max_tokens" {
		t.Errorf("length reason = %q", got)
	}
	if got := mapOpenAIStopReason(openai.FinishReasonStop); got != "end" {
		t.Errorf("stop reason = %q", got)
	}
}

func TestMapOpenAIError(t *testing.T) {
	cases := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"401", http.StatusUnauthorized, func(err error) bool {
			var e *ErrAuthFailed
			return errors.As(err, &e)
		}},
		{"403", http.StatusForbidden, func(err error) bool {
			var e *ErrAuthFailed
			return errors.As(err, &e)
		}},
		{"402", http.StatusPaymentRequired, func(err error) bool {
			var e *ErrInsufficientCredits
			return errors.As(err, &e)
		}},
		{"429", http.StatusTooManyRequests, func(err error) bool {
			var e *ErrRateLimit
			return errors.As(err, &e)
		}},
		{"500", http.StatusInternalServerError, func(err error) bool {
			var e *ErrProviderUnavailable
			return errors.As(err, &e)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mapped := mapOpenAIError(&openai.APIError{HTTPStatusCode: tc.status})
			if !tc.check(mapped) {
				t.Errorf("status %d mapped to %T", tc.status, mapped)
			}
		})
	}

	t.Run("plain error", func(t *testing.T) {
		mapped := mapOpenAIError(errors.New("connection refused"))
		var e *ErrProviderUnavailable
		if !errors.As(mapped, &e) {
			t.Errorf("plain error mapped to %T", mapped)
		}
	})
}
