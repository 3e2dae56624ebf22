package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/Abraxas-365/jmloader/embedding"
	"github.com/sashabaranov/go-openai"
)

type OpenAIEmbedder struct {
	client  *openai.Client
	options *embedding.EmbeddingOptions
}

// DefaultOptions returns the default options for OpenAI embeddings
func DefaultOptions() *embedding.EmbeddingOptions {
	return &embedding.EmbeddingOptions{
		Model:     string(openai.SmallEmbedding3),
		BatchSize: 100,
		Normalize: true,
	}
}

// NewOpenAIEmbedder creates a new OpenAI embedder with the given API key and options
func NewOpenAIEmbedder(apiKey string, opts ...embedding.Option) *OpenAIEmbedder {
	return NewOpenAIEmbedderWithConfig(openai.DefaultConfig(apiKey), opts...)
}

// NewOpenAIEmbedderWithConfig allows a custom base URL or HTTP client,
// e.g. for Azure or OpenAI-compatible gateways.
func NewOpenAIEmbedderWithConfig(config openai.ClientConfig, opts ...embedding.Option) *OpenAIEmbedder {
	return &OpenAIEmbedder{
		client:  openai.NewClientWithConfig(config),
		options: DefaultOptions().Apply(opts...),
	}
}

// EmbedDocuments implements the Embedder interface
func (e *OpenAIEmbedder) EmbedDocuments(ctx context.Context, documents []string) ([][]float32, error) {
	if len(documents) == 0 {
		return nil, embedding.ErrEmptyInput("EmbedDocuments")
	}

	vectors := make([][]float32, 0, len(documents))
	for start := 0; start < len(documents); start += e.options.BatchSize {
		end := min(start+e.options.BatchSize, len(documents))
		batch, err := e.embed(ctx, "EmbedDocuments", documents[start:end])
		if err != nil {
			return nil, fmt.Errorf("batch %d: %w", start/e.options.BatchSize, err)
		}
		vectors = append(vectors, batch...)
	}

	return vectors, nil
}

// EmbedQuery implements the Embedder interface
func (e *OpenAIEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, embedding.ErrEmptyInput("EmbedQuery")
	}

	vectors, err := e.embed(ctx, "EmbedQuery", []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (e *OpenAIEmbedder) embed(ctx context.Context, op string, input []string) ([][]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      input,
		Model:      openai.EmbeddingModel(e.options.Model),
		Dimensions: e.options.Dimensions,
	})
	if err != nil {
		return nil, e.handleError(op, err)
	}

	if len(resp.Data) != len(input) {
		return nil, embedding.NewEmbeddingError(op, nil, embedding.ErrCodeAPIError,
			fmt.Sprintf("expected %d embeddings, got %d", len(input), len(resp.Data)))
	}

	// the API does not promise response order
	sort.Slice(resp.Data, func(i, j int) bool { return resp.Data[i].Index < resp.Data[j].Index })

	vectors := make([][]float32, len(resp.Data))
	for i, item := range resp.Data {
		vectors[i] = item.Embedding
		if e.options.Normalize {
			embedding.Normalize(vectors[i])
		}
	}
	return vectors, nil
}

// handleError converts OpenAI API errors to embedding errors
func (e *OpenAIEmbedder) handleError(op string, err error) error {
	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) {
		return embedding.NewEmbeddingError(op, err, embedding.ErrCodeInternal, "request failed")
	}

	switch apiErr.HTTPStatusCode {
	case http.StatusBadRequest:
		return embedding.NewEmbeddingError(op, err, embedding.ErrCodeInvalidInput, apiErr.Message)
	case http.StatusUnauthorized:
		return embedding.NewEmbeddingError(op, err, embedding.ErrCodeUnauthorized, "invalid API key")
	case http.StatusTooManyRequests:
		return embedding.NewEmbeddingError(op, err, embedding.ErrCodeRateLimitExceeded, "rate limit exceeded for embedding requests")
	case http.StatusInternalServerError, http.StatusServiceUnavailable:
		return embedding.NewEmbeddingError(op, err, embedding.ErrCodeModelNotAvailable, "OpenAI API server error")
	default:
		return embedding.NewEmbeddingError(op, err, embedding.ErrCodeAPIError, "OpenAI API error: "+apiErr.Message)
	}
}
