package vectorstore

import (
	"context"

	"github.com/Abraxas-365/jmloader/document"
	"github.com/Abraxas-365/jmloader/embedding"
)

// Filter matches documents whose metadata equals every key/value pair
type Filter map[string]interface{}

// Document is a stored document plus its similarity score
type Document struct {
	PageContent string                 `json:"page_content"`
	Metadata    map[string]interface{} `json:"metadata"`
	Score       float32                `json:"score"`
}

// ToDocument drops the score
func (d Document) ToDocument() document.Document {
	return document.Document{
		PageContent: d.PageContent,
		Metadata:    d.Metadata,
	}
}

func FromDocument(doc document.Document) Document {
	return Document{
		PageContent: doc.PageContent,
		Metadata:    doc.Metadata,
	}
}

// Store interface defines the operations that any vector database adapter must implement
type Store interface {
	// AddDocuments stores docs with their precomputed vectors (same length, same order)
	AddDocuments(ctx context.Context, docs []Document, vectors [][]float32) error

	// SimilaritySearch returns at most limit documents ordered by descending score
	SimilaritySearch(ctx context.Context, vector []float32, limit int, filter Filter) ([]Document, error)

	// Delete removes documents matching filter
	Delete(ctx context.Context, filter Filter) error
}

// Initializer is implemented by stores that need schema setup.
type Initializer interface {
	InitDB(ctx context.Context, forceRecreate bool) error
}

// Replacer is implemented by stores that can delete and insert in one
// atomic step.
type Replacer interface {
	Replace(ctx context.Context, filters []Filter, docs []Document, vectors [][]float32) error
}

// VectorStore combines a Store with the Embedder that feeds it
type VectorStore struct {
	store    Store
	embedder embedding.Embedder
	opts     *Options
}

func New(store Store, embedder embedding.Embedder, opts ...Option) *VectorStore {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	return &VectorStore{
		store:    store,
		embedder: embedder,
		opts:     options,
	}
}

// Init prepares the underlying store if it needs it
func (vs *VectorStore) Init(ctx context.Context, forceRecreate bool) error {
	initer, ok := vs.store.(Initializer)
	if !ok {
		return nil
	}
	if err := initer.InitDB(ctx, forceRecreate); err != nil {
		return NewInitFailedError(storeName(vs.store), err)
	}
	return nil
}

// AddDocuments embeds the page content of docs and stores them
func (vs *VectorStore) AddDocuments(ctx context.Context, docs []document.Document) error {
	if len(docs) == 0 {
		return nil
	}

	vsDocs, vectors, err := vs.embed(ctx, docs)
	if err != nil {
		return err
	}

	if err := vs.store.AddDocuments(ctx, vsDocs, vectors); err != nil {
		return NewAddFailedError(storeName(vs.store), err)
	}
	return nil
}

// Replace removes every document matching any of filters and stores docs in
// their place. Embedding happens first, so an embedding failure leaves the
// store untouched. Stores implementing Replacer swap atomically.
func (vs *VectorStore) Replace(ctx context.Context, filters []Filter, docs []document.Document) error {
	var vsDocs []Document
	var vectors [][]float32
	if len(docs) > 0 {
		var err error
		if vsDocs, vectors, err = vs.embed(ctx, docs); err != nil {
			return err
		}
	}

	if r, ok := vs.store.(Replacer); ok {
		if err := r.Replace(ctx, filters, vsDocs, vectors); err != nil {
			return NewReplaceFailedError(storeName(vs.store), err)
		}
		return nil
	}

	for _, filter := range filters {
		if err := vs.Delete(ctx, filter); err != nil {
			return err
		}
	}
	if len(vsDocs) == 0 {
		return nil
	}
	if err := vs.store.AddDocuments(ctx, vsDocs, vectors); err != nil {
		return NewAddFailedError(storeName(vs.store), err)
	}
	return nil
}

func (vs *VectorStore) embed(ctx context.Context, docs []document.Document) ([]Document, [][]float32, error) {
	texts := make([]string, len(docs))
	vsDocs := make([]Document, len(docs))
	for i, doc := range docs {
		texts[i] = doc.PageContent
		vsDocs[i] = FromDocument(doc)
	}

	vectors, err := vs.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, nil, NewEmbeddingFailedError(storeName(vs.store), err)
	}
	if len(vectors) != len(docs) {
		return nil, nil, NewAddFailedError(storeName(vs.store), errVectorCount(len(docs), len(vectors)))
	}
	return vsDocs, vectors, nil
}

// SimilaritySearch embeds query and searches with the default filters merged under filter
func (vs *VectorStore) SimilaritySearch(ctx context.Context, query string, limit int, filter Filter) ([]Document, error) {
	vector, err := vs.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, NewEmbeddingFailedError(storeName(vs.store), err)
	}

	merged := make(Filter, len(vs.opts.Filters)+len(filter))
	for k, v := range vs.opts.Filters {
		merged[k] = v
	}
	for k, v := range filter {
		merged[k] = v
	}

	found, err := vs.store.SimilaritySearch(ctx, vector, limit, merged)
	if err != nil {
		return nil, NewSearchFailedError(storeName(vs.store), err)
	}

	docs := make([]Document, 0, len(found))
	for _, doc := range found {
		if vs.opts.ScoreThreshold <= 0 || doc.Score >= vs.opts.ScoreThreshold {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// Delete removes documents from the store
func (vs *VectorStore) Delete(ctx context.Context, filter Filter) error {
	if err := vs.store.Delete(ctx, filter); err != nil {
		return NewDeleteFailedError(storeName(vs.store), err)
	}
	return nil
}
