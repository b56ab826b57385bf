package llm

import (
	"context"
	"fmt"
	"log"
	"time"
)

// LoggingProvider is a decorator that records every completion round trip:
// stage label, correlation id, latency, token usage, estimated cost.
type LoggingProvider struct {
	inner Provider
}

// WithLogging wraps a Provider with request logging.
func WithLogging(p Provider) Provider {
	return &LoggingProvider{inner: p}
}

func (l *LoggingProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	stage := StageFrom(ctx)
	reqID := RequestIDFrom(ctx)

	resp, err := l.inner.Complete(ctx, req)

	latency := time.Since(start).Round(time.Millisecond)

	if err != nil {
		log.Printf("llm req=%s stage=%s model=%s latency=%s error=%v",
			reqID, stage, l.inner.ModelID(), latency, err)
		return nil, err
	}

	cost := ""
	if c := LookupCost(resp.Model); c != nil {
		cost = fmt.Sprintf(" cost=$%.6f", c.Cost(resp.Usage.InputTokens, resp.Usage.OutputTokens))
	}

	log.Printf("llm req=%s stage=%s model=%s latency=%s in=%d out=%d stop=%s%s",
		reqID, stage, resp.Model, latency,
		resp.Usage.InputTokens, resp.Usage.OutputTokens, resp.StopReason, cost)

	return resp, nil
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
