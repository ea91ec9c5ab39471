package llm

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"github.com/nikhilbhutani/geniechat/internal/config"
)

type gateway struct {
	providers       map[string]Provider
	defaultProvider string
}

// NewGateway registers a provider for every backend the configuration can
// reach. Groq is always registered so a missing key surfaces as a provider
// error on the call instead of at startup.
func NewGateway(cfg config.LLMConfig) Gateway {
	g := &gateway{
		providers:       make(map[string]Provider),
		defaultProvider: cfg.DefaultProvider,
	}

	g.Register(NewOpenAIProvider("groq", cfg.GroqKey, cfg.GroqBaseURL, GroqModels()))
	if cfg.AnthropicKey != "" {
		g.Register(NewAnthropicProvider(cfg.AnthropicKey))
	}
	if cfg.OllamaURL != "" {
		g.Register(NewOllamaProvider(cfg.OllamaURL))
	}

	return g
}

// NewStaticGateway builds a gateway over an explicit provider set.
func NewStaticGateway(defaultProvider string, providers ...Provider) Gateway {
	g := &gateway{
		providers:       make(map[string]Provider, len(providers)),
		defaultProvider: defaultProvider,
	}
	for _, p := range providers {
		g.Register(p)
	}
	return g
}

func (g *gateway) Register(p Provider) {
	g.providers[p.Name()] = p
}

func (g *gateway) Provider(name string) (Provider, error) {
	p, ok := g.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %q not configured", name)
	}
	return p, nil
}

func (g *gateway) Providers() []string {
	names := make([]string, 0, len(g.providers))
	for name := range g.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// resolve picks the explicit provider, else one that lists the model, else
// the default.
func (g *gateway) resolve(req ChatRequest) string {
	if req.Provider != "" {
		return req.Provider
	}
	for _, name := range g.Providers() {
		if slices.Contains(g.providers[name].Models(), req.Model) {
			return name
		}
	}
	return g.defaultProvider
}

func (g *gateway) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	providerName := g.resolve(req)

	p, err := g.Provider(providerName)
	if err != nil {
		return nil, err
	}

	resp, err := p.ChatCompletion(ctx, req)
	if err != nil {
		slog.Warn("chat completion failed", "provider", providerName, "model", req.Model, "error", err)
		return nil, err
	}

	slog.Debug("chat completion",
		"provider", providerName,
		"model", req.Model,
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens,
		"cost_usd", resp.CostUSD,
		"latency_ms", resp.LatencyMs,
	)
	return resp, nil
}

func (g *gateway) ListModels() []ModelInfo {
	var models []ModelInfo
	for _, name := range g.Providers() {
		for _, m := range g.providers[name].Models() {
			models = append(models, ModelInfo{Provider: name, Model: m})
		}
	}
	return models
}
