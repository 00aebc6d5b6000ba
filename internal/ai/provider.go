package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnavailable marks a backend that is not configured or cannot be reached.
var ErrUnavailable = errors.New("ai backend unavailable")

// IAIProvider produces raw text completions. The caller owns all parsing of
// the returned text.
type IAIProvider interface {
	Name() string
	Generate(ctx context.Context, model string, prompt string) (string, error)
}

// IEmbedProvider converts texts into embedding vectors. Implementations must
// return one entry per input, in input order. Entries are the raw
// JSON-decoded backend values; shapes differ per backend and are coerced
// later by the normalizer.
type IEmbedProvider interface {
	Name() string
	Embed(ctx context.Context, model string, texts []string) ([]interface{}, error)
}

type IGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type IEmbedder interface {
	Embed(ctx context.Context, texts []string) ([]interface{}, error)
	ModelName() string
	Dimension() int
}

type generator struct {
	provider IAIProvider
	model    string
	timeout  time.Duration
}

func NewGenerator(p IAIProvider, model string, timeout time.Duration) IGenerator {
	return &generator{provider: p, model: model, timeout: timeout}
}

func (g *generator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	return g.provider.Generate(ctx, g.model, prompt)
}

type embedder struct {
	provider  IEmbedProvider
	model     string
	dimension int
	timeout   time.Duration
}

// NewEmbedder binds a provider to a model. dimension is the declared vector
// size of the model, or 0 when unknown (the collection is probed instead).
func NewEmbedder(p IEmbedProvider, model string, dimension int, timeout time.Duration) IEmbedder {
	return &embedder{provider: p, model: model, dimension: dimension, timeout: timeout}
}

func (e *embedder) Embed(ctx context.Context, texts []string) ([]interface{}, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	return e.provider.Embed(ctx, e.model, texts)
}

func (e *embedder) ModelName() string {
	return e.model
}

func (e *embedder) Dimension() int {
	return e.dimension
}

type ProviderFactory func(args interface{}) (IAIProvider, error)
type EmbedFactory func(args interface{}) (IEmbedProvider, error)

var (
	registry      = map[string]ProviderFactory{}
	embedRegistry = map[string]EmbedFactory{}
)

func Register(name string, factory ProviderFactory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registry[key] = factory
}

func RegisterEmbed(name string, factory EmbedFactory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	embedRegistry[key] = factory
}

func NewProvider(name string, args interface{}) (IAIProvider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("ai.provider is required")
	}
	factory := registry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported ai provider: %s", name)
	}
	return factory(args)
}

func NewEmbedProvider(name string, args interface{}) (IEmbedProvider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("ai.embed_provider is required")
	}
	factory := embedRegistry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported embed provider: %s", name)
	}
	return factory(args)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("ai provider config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode ai provider config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode ai provider config: %w", err)
	}
	return nil
}
