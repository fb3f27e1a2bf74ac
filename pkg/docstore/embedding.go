package docstore

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog"
)

// EmbeddingProvider generates vector embeddings from text
type EmbeddingProvider interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// OpenAIProvider implements EmbeddingProvider for OpenAI
type OpenAIProvider struct {
	client    openai.Client
	model     string
	dimension int
}

// NewOpenAIProvider creates a new OpenAI embedding provider
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = string(openai.EmbeddingModelTextEmbedding3Small)
	}

	dimension := 1536 // text-embedding-3-small / ada-002
	if model == string(openai.EmbeddingModelTextEmbedding3Large) {
		dimension = 3072
	}

	return &OpenAIProvider{
		client:    openai.NewClient(option.WithAPIKey(apiKey)),
		model:     model,
		dimension: dimension,
	}
}

func (p *OpenAIProvider) Dimension() int {
	return p.dimension
}

func (p *OpenAIProvider) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	response, err := p.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: openai.EmbeddingModel(p.model),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call OpenAI embeddings API: %w", err)
	}

	if len(response.Data) == 0 {
		return nil, fmt.Errorf("OpenAI embeddings API returned no data")
	}

	embedding := make([]float32, len(response.Data[0].Embedding))
	for i, v := range response.Data[0].Embedding {
		embedding[i] = float32(v)
	}

	return embedding, nil
}

const (
	// defaultMaxEmbedChars bounds the text submitted to the provider.
	defaultMaxEmbedChars = 8000

	// defaultEmbedTimeout bounds a single provider call.
	defaultEmbedTimeout = 30 * time.Second
)

// Gateway wraps an EmbeddingProvider and normalizes every failure mode
// (no provider configured, network error, rate limit) to "no embedding
// available". Embedding is best-effort throughout the store.
type Gateway struct {
	provider EmbeddingProvider
	maxChars int
	timeout  time.Duration
	logger   zerolog.Logger
}

// GatewayConfig holds embedding gateway configuration
type GatewayConfig struct {
	Provider EmbeddingProvider // Optional, if nil embedding is disabled
	MaxChars int
	Timeout  time.Duration
	Logger   zerolog.Logger
}

// NewGateway creates a new embedding gateway
func NewGateway(cfg GatewayConfig) *Gateway {
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = defaultMaxEmbedChars
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultEmbedTimeout
	}

	return &Gateway{
		provider: cfg.Provider,
		maxChars: cfg.MaxChars,
		timeout:  cfg.Timeout,
		logger:   cfg.Logger,
	}
}

// Enabled reports whether an embedding provider is configured.
func (g *Gateway) Enabled() bool {
	return g.provider != nil
}

// Dimension returns the provider's embedding dimensionality, or 0 when
// no provider is configured.
func (g *Gateway) Dimension() int {
	if g.provider == nil {
		return 0
	}
	return g.provider.Dimension()
}

// Embed returns an embedding for text, or ok=false when none is
// available. Input is truncated to the configured maximum before
// submission.
func (g *Gateway) Embed(ctx context.Context, text string) ([]float32, bool) {
	if g.provider == nil {
		return nil, false
	}

	if len(text) > g.maxChars {
		text = text[:g.maxChars]
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	embedding, err := g.provider.GenerateEmbedding(ctx, text)
	if err != nil {
		g.logger.Warn().Err(err).Msg("Embedding unavailable")
		return nil, false
	}

	return embedding, true
}
