package llm

import (
	"strings"

	"docinsight/internal/domain"
	"docinsight/internal/port"
)

// KeyedClientFunc builds one-off clients for a caller-supplied API key.
type KeyedClientFunc func(apiKey string) (port.CompletionClient, port.ImageGenerator)

// Resolver picks the client for a request: a caller-supplied API key wins,
// otherwise the server-configured clients are used. It implements port.ClientResolver.
type Resolver struct {
	completion port.CompletionClient
	images     port.ImageGenerator
	keyed      KeyedClientFunc
}

// NewResolver creates a Resolver. completion and images may be nil when the
// server has no configured key; keyed may be nil to disallow per-request keys.
func NewResolver(completion port.CompletionClient, images port.ImageGenerator, keyed KeyedClientFunc) *Resolver {
	return &Resolver{completion: completion, images: images, keyed: keyed}
}

func (r *Resolver) Completion(apiKey string) (port.CompletionClient, error) {
	if key := strings.TrimSpace(apiKey); key != "" && r.keyed != nil {
		c, _ := r.keyed(key)
		return c, nil
	}
	if r.completion == nil {
		return nil, domain.ErrMissingAPIKey
	}
	return r.completion, nil
}

func (r *Resolver) Images(apiKey string) (port.ImageGenerator, error) {
	if key := strings.TrimSpace(apiKey); key != "" && r.keyed != nil {
		_, g := r.keyed(key)
		return g, nil
	}
	if r.images == nil {
		return nil, domain.ErrMissingAPIKey
	}
	return r.images, nil
}
