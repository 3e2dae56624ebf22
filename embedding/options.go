package embedding

// EmbeddingOptions represents configuration options for embedding operations
type EmbeddingOptions struct {
	// Model specifies which embedding model to use
	Model string

	// BatchSize is the maximum number of documents sent in one request
	BatchSize int

	// Dimensions requests a specific output size from models that support it (0 = model default)
	Dimensions int

	// Normalize scales every returned vector to unit length
	Normalize bool
}

// Option is a function type to modify EmbeddingOptions
type Option func(*EmbeddingOptions)

// Apply runs opts over o and returns it.
func (o *EmbeddingOptions) Apply(opts ...Option) *EmbeddingOptions {
	for _, opt := range opts {
		opt(o)
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 1
	}
	return o
}

// WithModel sets the embedding model
func WithModel(model string) Option {
	return func(o *EmbeddingOptions) {
		o.Model = model
	}
}

// WithBatchSize sets the batch size for document embedding
func WithBatchSize(size int) Option {
	return func(o *EmbeddingOptions) {
		o.BatchSize = size
	}
}

// WithDimensions sets the requested vector size
func WithDimensions(dimensions int) Option {
	return func(o *EmbeddingOptions) {
		o.Dimensions = dimensions
	}
}

// WithNormalization sets whether to normalize vectors
func WithNormalization(normalize bool) Option {
	return func(o *EmbeddingOptions) {
		o.Normalize = normalize
	}
}
