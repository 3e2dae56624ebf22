package vectorstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Abraxas-365/jmloader/adapters/inmemory"
	"github.com/Abraxas-365/jmloader/document"
	"github.com/Abraxas-365/jmloader/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type axisEmbedder struct {
	err error
}

var axes = map[string][]float32{
	"north": {0, 1},
	"east":  {1, 0},
	"ne":    {1, 1},
}

func (e axisEmbedder) EmbedDocuments(_ context.Context, docs []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(docs))
	for i, d := range docs {
		out[i] = axes[d]
	}
	return out, nil
}

func (e axisEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	return axes[text], nil
}

func TestVectorStore(t *testing.T) {
	ctx := context.Background()
	vs := vectorstore.New(inmemory.NewVectorStore(), axisEmbedder{},
		vectorstore.WithScoreThreshold(0.5),
		vectorstore.WithFilters(vectorstore.Filter{"source": "a.json"}),
	)
	require.NoError(t, vs.Init(ctx, false))

	require.NoError(t, vs.AddDocuments(ctx, []document.Document{
		{PageContent: "north", Metadata: map[string]interface{}{"source": "a.json"}},
		{PageContent: "east", Metadata: map[string]interface{}{"source": "a.json"}},
		{PageContent: "ne", Metadata: map[string]interface{}{"source": "b.json"}},
	}))
	require.NoError(t, vs.AddDocuments(ctx, nil))

	// default filter keeps b.json out, threshold drops east
	found, err := vs.SimilaritySearch(ctx, "north", 10, nil)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "north", found[0].ToDocument().PageContent)

	// query filter overrides the default one
	found, err = vs.SimilaritySearch(ctx, "north", 10, vectorstore.Filter{"source": "b.json"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "ne", found[0].PageContent)

	require.NoError(t, vs.Delete(ctx, vectorstore.Filter{"source": "a.json"}))
	found, err = vs.SimilaritySearch(ctx, "north", 10, nil)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestVectorStore_EmbeddingError(t *testing.T) {
	vs := vectorstore.New(inmemory.NewVectorStore(), axisEmbedder{err: errors.New("quota")})

	err := vs.AddDocuments(context.Background(), []document.Document{{PageContent: "north"}})
	var vsErr *vectorstore.VectorStoreError
	require.ErrorAs(t, err, &vsErr)
	assert.Equal(t, vectorstore.ErrCodeEmbeddingFailed, vsErr.Code)

	_, err = vs.SimilaritySearch(context.Background(), "north", 1, nil)
	require.ErrorAs(t, err, &vsErr)
	assert.Equal(t, vectorstore.ErrCodeEmbeddingFailed, vsErr.Code)
}

// plainStore hides the in-memory Replace so the delete-then-add path runs.
type plainStore struct {
	inner *inmemory.VectorStore
}

func (p plainStore) AddDocuments(ctx context.Context, docs []vectorstore.Document, vectors [][]float32) error {
	return p.inner.AddDocuments(ctx, docs, vectors)
}

func (p plainStore) SimilaritySearch(ctx context.Context, vector []float32, limit int, filter vectorstore.Filter) ([]vectorstore.Document, error) {
	return p.inner.SimilaritySearch(ctx, vector, limit, filter)
}

func (p plainStore) Delete(ctx context.Context, filter vectorstore.Filter) error {
	return p.inner.Delete(ctx, filter)
}

func TestVectorStore_Replace(t *testing.T) {
	stores := map[string]func(*inmemory.VectorStore) vectorstore.Store{
		"replacer":        func(s *inmemory.VectorStore) vectorstore.Store { return s },
		"delete-then-add": func(s *inmemory.VectorStore) vectorstore.Store { return plainStore{s} },
	}

	for name, wrap := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			inner := inmemory.NewVectorStore()
			vs := vectorstore.New(wrap(inner), axisEmbedder{})

			require.NoError(t, vs.AddDocuments(ctx, []document.Document{
				{PageContent: "north", Metadata: map[string]interface{}{"source": "a.json"}},
				{PageContent: "east", Metadata: map[string]interface{}{"source": "a.json"}},
				{PageContent: "ne", Metadata: map[string]interface{}{"source": "b.json"}},
			}))

			filters := []vectorstore.Filter{{"source": "a.json"}}
			require.NoError(t, vs.Replace(ctx, filters, []document.Document{
				{PageContent: "east", Metadata: map[string]interface{}{"source": "a.json"}},
			}))
			assert.Equal(t, 2, inner.Len())

			// failed embedding leaves the store untouched
			failing := vectorstore.New(wrap(inner), axisEmbedder{err: errors.New("quota")})
			err := failing.Replace(ctx, filters, []document.Document{
				{PageContent: "north", Metadata: map[string]interface{}{"source": "a.json"}},
			})
			var vsErr *vectorstore.VectorStoreError
			require.ErrorAs(t, err, &vsErr)
			assert.Equal(t, vectorstore.ErrCodeEmbeddingFailed, vsErr.Code)
			assert.Equal(t, 2, inner.Len())

			// no documents only deletes
			require.NoError(t, vs.Replace(ctx, filters, nil))
			assert.Equal(t, 1, inner.Len())
		})
	}
}
