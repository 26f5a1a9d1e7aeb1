package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"docinsight/internal/domain"
	"docinsight/internal/port"
)

// circuitState tracks rate-limit backoff for a single provider.
type circuitState struct {
	mu      sync.RWMutex
	resetAt time.Time // zero value = closed (healthy)
}

func (c *circuitState) isOpenWithReset(now time.Time) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resetAt, !c.resetAt.IsZero() && now.Before(c.resetAt)
}

func (c *circuitState) open(resetAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAt = resetAt
}

// modelFamilies maps model name prefixes to the provider that serves them.
var modelFamilies = []struct{ prefix, provider string }{
	{"gpt-", "openai"},
	{"chatgpt-", "openai"},
	{"o1", "openai"},
	{"o3", "openai"},
	{"o4", "openai"},
	{"claude-", "claude"},
	{"gemini-", "gemini"},
}

// ModelProvider returns the provider that serves model, or "" when the name
// belongs to no known family.
func ModelProvider(model string) string {
	m := strings.ToLower(strings.TrimSpace(model))
	for _, f := range modelFamilies {
		if strings.HasPrefix(m, f.prefix) {
			return f.provider
		}
	}
	return ""
}

// FallbackOption configures a FallbackClient.
type FallbackOption func(*FallbackClient)

// WithLogger sets the logger used for skip and failure messages.
func WithLogger(log *zap.Logger) FallbackOption {
	return func(f *FallbackClient) { f.log = log }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) FallbackOption {
	return func(f *FallbackClient) { f.now = now }
}

// FallbackClient tries clients in order, skipping those with open circuits.
// Each provider gets exactly one attempt per call. A model override is only
// sent to the provider it belongs to; the others use their default model. An
// override of unknown family is treated as belonging to the first provider.
// It implements port.CompletionClient.
type FallbackClient struct {
	clients  []port.CompletionClient
	circuits []*circuitState
	names    []string
	log      *zap.Logger
	now      func() time.Time
}

// NewFallbackClient creates a FallbackClient from an ordered list of clients and their names.
func NewFallbackClient(clients []port.CompletionClient, names []string, opts ...FallbackOption) *FallbackClient {
	circuits := make([]*circuitState, len(clients))
	for i := range circuits {
		circuits[i] = &circuitState{}
	}
	f := &FallbackClient{
		clients:  clients,
		circuits: circuits,
		names:    names,
		log:      zap.NewNop(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

func (f *FallbackClient) Complete(ctx context.Context, req port.CompletionRequest) (*port.CompletionResponse, error) {
	now := f.now()
	var lastErr error
	allRateLimited := true
	var earliestReset time.Time
	target := f.overrideTarget(req.Model)

	for i, c := range f.clients {
		if resetAt, open := f.circuits[i].isOpenWithReset(now); open {
			f.log.Debug("skipping provider, circuit open",
				zap.String("provider", f.names[i]), zap.Time("reset_at", resetAt))
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
			continue
		}

		attempt := req
		if attempt.Model != "" && f.names[i] != target {
			f.log.Debug("dropping model override for provider",
				zap.String("provider", f.names[i]), zap.String("model", attempt.Model))
			attempt.Model = ""
		}

		out, err := c.Complete(ctx, attempt)
		if err == nil {
			return out, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		f.log.Warn("provider failed", zap.String("provider", f.names[i]), zap.Error(err))
		lastErr = err

		var rlErr *RateLimitError
		if errors.As(err, &rlErr) {
			resetAt := now.Add(rlErr.RetryAfter)
			f.circuits[i].open(resetAt)
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
		} else {
			allRateLimited = false
		}
	}

	if lastErr == nil || allRateLimited {
		retryAfter := earliestReset.Sub(now)
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		return nil, NewRateLimitError("all", errors.New("all providers rate limited"), int(retryAfter.Seconds()))
	}

	return nil, fmt.Errorf("%w: all providers failed: %w", domain.ErrLLMUnavailable, lastErr)
}

func (f *FallbackClient) overrideTarget(model string) string {
	if model == "" {
		return ""
	}
	if p := ModelProvider(model); p != "" {
		return p
	}
	if len(f.names) > 0 {
		return f.names[0]
	}
	return ""
}
