package kb

import (
	"context"
	"fmt"

	"github.com/Abraxas-365/jmloader/datasource"
	"github.com/Abraxas-365/jmloader/document"
	"github.com/Abraxas-365/jmloader/embedding"
	"github.com/Abraxas-365/jmloader/vectorstore"
	"go.uber.org/zap"
)

// SourceKey is the metadata key documents are grouped by when re-ingested
const SourceKey = "source"

// KnowledgeBase indexes documents from data sources into a vector store
type KnowledgeBase struct {
	vStore   *vectorstore.VectorStore
	splitter document.Splitter
	opts     *Options
	logger   *zap.Logger
}

// New creates a KnowledgeBase. splitter may be nil to index documents whole.
func New(
	embedder embedding.Embedder,
	store vectorstore.Store,
	splitter document.Splitter,
	opts ...Option,
) *KnowledgeBase {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	return &KnowledgeBase{
		vStore: vectorstore.New(
			store,
			embedder,
			vectorstore.WithScoreThreshold(options.ScoreThreshold),
			vectorstore.WithFilters(options.Filters),
		),
		splitter: splitter,
		opts:     options,
		logger:   options.Logger.With(zap.String("component", "kb")),
	}
}

func (kb *KnowledgeBase) InitStore(ctx context.Context, forceRecreate bool) error {
	return kb.vStore.Init(ctx, forceRecreate)
}

// Ingest loads ds and replaces everything previously stored for the same
// sources with the new chunks. It returns the number of chunks added.
func (kb *KnowledgeBase) Ingest(ctx context.Context, ds datasource.DataSource, opts ...datasource.Option) (int, error) {
	docs, err := ds.Load(ctx, opts...)
	if err != nil {
		return 0, fmt.Errorf("load: %w", err)
	}
	if len(docs) == 0 {
		kb.logger.Info("nothing to ingest")
		return 0, nil
	}

	chunks := docs
	if kb.splitter != nil {
		chunks, err = document.SplitDocuments(kb.splitter, docs)
		if err != nil {
			return 0, err
		}
	}

	var filters []vectorstore.Filter
	for _, source := range sources(docs) {
		filters = append(filters, vectorstore.Filter{SourceKey: source})
	}

	if err := kb.vStore.Replace(ctx, filters, chunks); err != nil {
		return 0, err
	}

	kb.logger.Info("ingested documents",
		zap.Int("documents", len(docs)),
		zap.Int("chunks", len(chunks)))
	return len(chunks), nil
}

// SimilaritySearch returns up to limit documents (TopK when limit <= 0)
func (kb *KnowledgeBase) SimilaritySearch(
	ctx context.Context,
	query string,
	limit int,
	filter vectorstore.Filter,
) ([]vectorstore.Document, error) {
	if limit <= 0 {
		limit = kb.opts.TopK
	}
	return kb.vStore.SimilaritySearch(ctx, query, limit, filter)
}

// sources lists distinct non-empty source values in first-seen order
func sources(docs []document.Document) []string {
	seen := make(map[string]bool)
	var out []string
	for _, doc := range docs {
		source, _ := doc.Metadata[SourceKey].(string)
		if source == "" || seen[source] {
			continue
		}
		seen[source] = true
		out = append(out, source)
	}
	return out
}
