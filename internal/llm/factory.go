package llm

import (
	"fmt"

	"docinsight/internal/config"
	"docinsight/internal/port"
)

// ProviderFactory is a function that creates a CompletionClient from a provider config.
type ProviderFactory func(cfg *config.ProviderConfig) (port.CompletionClient, error)

// registry of provider factories, populated via RegisterProvider at startup.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewClient creates a CompletionClient from a provider config using the registered factory.
func NewClient(cfg *config.ProviderConfig) (port.CompletionClient, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// NewClientChain builds one client per configured provider. A single provider
// is returned as-is; several are wrapped in a FallbackClient in config order.
func NewClientChain(cfg *config.LLMConfig, opts ...FallbackOption) (port.CompletionClient, error) {
	provs := cfg.Providers()
	clients := make([]port.CompletionClient, 0, len(provs))
	names := make([]string, 0, len(provs))
	for _, p := range provs {
		c, err := NewClient(p)
		if err != nil {
			return nil, fmt.Errorf("creating %s client: %w", p.Provider, err)
		}
		clients = append(clients, c)
		names = append(names, p.Provider)
	}
	if len(clients) == 1 {
		return clients[0], nil
	}
	return NewFallbackClient(clients, names, opts...), nil
}
