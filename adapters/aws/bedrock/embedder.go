package bedrock

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Abraxas-365/jmloader/embedding"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"
	"github.com/aws/smithy-go/ptr"
)

// EmbeddingModelID represents available Bedrock embedding models
type EmbeddingModelID string

const (
	TitanEmbedTextV1 EmbeddingModelID = "amazon.titan-embed-text-v1"
	TitanEmbedTextV2 EmbeddingModelID = "amazon.titan-embed-text-v2:0"
)

// InvokeModelAPI is the part of *bedrockruntime.Client the embedder uses.
type InvokeModelAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

type BedrockEmbedder struct {
	client  InvokeModelAPI
	options *embedding.EmbeddingOptions
}

type titanRequest struct {
	InputText  string `json:"inputText"`
	Dimensions int    `json:"dimensions,omitempty"`
	Normalize  bool   `json:"normalize,omitempty"`
}

type titanResponse struct {
	Embedding           []float32 `json:"embedding"`
	InputTextTokenCount int       `json:"inputTextTokenCount"`
}

// NewBedrockEmbedder defaults to Titan Text Embeddings V2.
func NewBedrockEmbedder(client InvokeModelAPI, opts ...embedding.Option) *BedrockEmbedder {
	options := (&embedding.EmbeddingOptions{
		Model:     string(TitanEmbedTextV2),
		BatchSize: 1,
		Normalize: true,
	}).Apply(opts...)

	return &BedrockEmbedder{
		client:  client,
		options: options,
	}
}

// EmbedDocuments implements the Embedder interface. Titan embeds one text
// per request, so documents are sent sequentially.
func (b *BedrockEmbedder) EmbedDocuments(ctx context.Context, documents []string) ([][]float32, error) {
	if len(documents) == 0 {
		return nil, embedding.ErrEmptyInput("EmbedDocuments")
	}

	vectors := make([][]float32, len(documents))
	for i, text := range documents {
		vector, err := b.invoke(ctx, "EmbedDocuments", text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vector
	}
	return vectors, nil
}

// EmbedQuery implements the Embedder interface
func (b *BedrockEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, embedding.ErrEmptyInput("EmbedQuery")
	}
	return b.invoke(ctx, "EmbedQuery", text)
}

func (b *BedrockEmbedder) invoke(ctx context.Context, op, text string) ([]float32, error) {
	req := titanRequest{InputText: text}
	// v1 accepts only inputText
	if EmbeddingModelID(b.options.Model) != TitanEmbedTextV1 {
		req.Dimensions = b.options.Dimensions
		req.Normalize = b.options.Normalize
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, embedding.NewEmbeddingError(op, err, embedding.ErrCodeInternal, "failed to marshal request")
	}

	output, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     ptr.String(b.options.Model),
		Body:        body,
		ContentType: ptr.String("application/json"),
		Accept:      ptr.String("application/json"),
	})
	if err != nil {
		return nil, handleError(op, err)
	}

	var resp titanResponse
	if err := json.Unmarshal(output.Body, &resp); err != nil {
		return nil, embedding.NewEmbeddingError(op, err, embedding.ErrCodeAPIError, "failed to unmarshal response")
	}
	if len(resp.Embedding) == 0 {
		return nil, embedding.NewEmbeddingError(op, nil, embedding.ErrCodeAPIError, "no embedding returned from model")
	}

	if b.options.Normalize && EmbeddingModelID(b.options.Model) == TitanEmbedTextV1 {
		embedding.Normalize(resp.Embedding)
	}
	return resp.Embedding, nil
}

func handleError(op string, err error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return embedding.NewEmbeddingError(op, err, embedding.ErrCodeInternal, "request failed")
	}

	switch apiErr.ErrorCode() {
	case "ValidationException":
		return embedding.NewEmbeddingError(op, err, embedding.ErrCodeInvalidInput, apiErr.ErrorMessage())
	case "AccessDeniedException", "UnrecognizedClientException":
		return embedding.NewEmbeddingError(op, err, embedding.ErrCodeUnauthorized, apiErr.ErrorMessage())
	case "ThrottlingException", "ServiceQuotaExceededException":
		return embedding.NewEmbeddingError(op, err, embedding.ErrCodeRateLimitExceeded, "rate limit exceeded for embedding requests")
	case "ResourceNotFoundException", "ModelNotReadyException", "ModelTimeoutException":
		return embedding.NewEmbeddingError(op, err, embedding.ErrCodeModelNotAvailable, apiErr.ErrorMessage())
	default:
		return embedding.NewEmbeddingError(op, err, embedding.ErrCodeAPIError, "Bedrock API error: "+apiErr.ErrorMessage())
	}
}
