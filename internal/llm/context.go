package llm

import "context"

type contextKey string

const (
	stageKey     contextKey = "llm_stage"
	requestIDKey contextKey = "llm_request_id"
)

// WithStage attaches a stage label to the context for request logging.
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, stageKey, stage)
}

// StageFrom extracts the stage label from the context.
func StageFrom(ctx context.Context) string {
	if v, ok := ctx.Value(stageKey).(string); ok {
		return v
	}
	return "unknown"
}

// WithRequestID attaches a correlation id to the context. All stage calls
// made for the same pipeline invocation share one id in the logs.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFrom extracts the correlation id from the context.
func RequestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}
