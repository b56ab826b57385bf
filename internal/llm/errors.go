package llm

import (
	"encoding/json"
	"fmt"
	"time"
)

// ErrAuthFailed indicates the provider rejected our credentials (401/403).
// Surfaces to the caller as a configuration problem, not a user error.
type ErrAuthFailed struct {
	Err error
}

func (e *ErrAuthFailed) Error() string {
	return fmt.Sprintf("provider authentication failed: %v", e.Err)
}

func (e *ErrAuthFailed) Unwrap() error { return e.Err }

// ErrInsufficientCredits indicates the provider account is out of balance (402).
type ErrInsufficientCredits struct {
	Err error
}

func (e *ErrInsufficientCredits) Error() string {
	return fmt.Sprintf("insufficient provider credits: %v", e.Err)
}

func (e *ErrInsufficientCredits) Unwrap() error { return e.Err }

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the model returned content that does not
// conform to the requested schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid model response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates a structured response was truncated at the
// MaxTokens ceiling. The partial content cannot be valid JSON.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "model response truncated: max tokens exceeded"
}

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("completion provider unavailable: %v", e.Err)
	}
	return "completion provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }
