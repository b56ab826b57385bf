package llm

import (
	"context"
	"encoding/json"
)

// Provider is the core abstraction for the completion endpoint.
// Every pipeline stage is a single-turn call: one system prompt, one
// block of user content, one completion back.
type Provider interface {
	// Complete sends a single-turn prompt and returns the completion.
	// When the request carries a Schema, the provider uses its native
	// structured-output mechanism and the response Content is the
	// validated JSON. Otherwise Content is the trimmed raw text.
	Complete(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the completion endpoint.
type Request struct {
	// System is the system prompt. Sets the model's role and constraints.
	System string

	// User is the user content: raw notes, labeled stage outputs, or a
	// serialized answered-question set, depending on the stage.
	User string

	// Schema is the JSON Schema the response must conform to.
	// Nil for the prose stages; set for quiz generation and evaluation.
	Schema *Schema

	// MaxTokens is the per-stage output ceiling.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64
}

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies this schema (tool name for Anthropic, schema name
	// for OpenAI). Kebab-case, e.g. "quiz-questions".
	Name string

	// Description is sent to the model to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Content is the generated output. With a Schema in the request this
	// is the validated JSON object; without one it is the raw text of the
	// top completion choice, trimmed.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens".
	StopReason string
}

// Text returns the response content as a plain string.
func (r *Response) Text() string {
	return string(r.Content)
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
