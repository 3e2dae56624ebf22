package inmemory

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/Abraxas-365/jmloader/storage"
	"github.com/Abraxas-365/jmloader/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorStore(t *testing.T) {
	ctx := context.Background()
	store := NewVectorStore()

	docs := []vectorstore.Document{
		{PageContent: "x axis", Metadata: map[string]interface{}{"source": "a.json", "seq_num": 1}},
		{PageContent: "y axis", Metadata: map[string]interface{}{"source": "a.json", "seq_num": 2}},
		{PageContent: "diagonal", Metadata: map[string]interface{}{"source": "b.json", "seq_num": 1}},
	}
	vectors := [][]float32{{1, 0}, {0, 1}, {1, 1}}
	require.NoError(t, store.AddDocuments(ctx, docs, vectors))
	assert.Equal(t, 3, store.Len())

	assert.Error(t, store.AddDocuments(ctx, docs, vectors[:1]))

	found, err := store.SimilaritySearch(ctx, []float32{1, 0}, 2, nil)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "x axis", found[0].PageContent)
	assert.InDelta(t, 1.0, found[0].Score, 1e-6)
	assert.Equal(t, "diagonal", found[1].PageContent)

	// values compare by text form
	found, err = store.SimilaritySearch(ctx, []float32{1, 0}, 10, vectorstore.Filter{"seq_num": "2"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "y axis", found[0].PageContent)

	require.NoError(t, store.Delete(ctx, vectorstore.Filter{"source": "a.json"}))
	assert.Equal(t, 1, store.Len())

	assert.Error(t, store.Replace(ctx, nil, docs, vectors[:2]))
	assert.Equal(t, 1, store.Len())

	require.NoError(t, store.Replace(ctx,
		[]vectorstore.Filter{{"source": "b.json"}, {"source": "c.json"}},
		docs[:2], vectors[:2]))
	assert.Equal(t, 2, store.Len())
	found, err = store.SimilaritySearch(ctx, []float32{1, 1}, 10, vectorstore.Filter{"source": "b.json"})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestDataStore(t *testing.T) {
	ctx := context.Background()
	store := NewDataStore()

	require.NoError(t, store.Put(ctx, "exports/a.jsonl", strings.NewReader("line\n"), storage.WithContentType("application/x-ndjson")))
	require.NoError(t, store.Put(ctx, "other/b", strings.NewReader("b")))
	assert.Error(t, store.Put(ctx, "", strings.NewReader("x")))

	exists, err := store.Exists(ctx, "exports/a.jsonl")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "application/x-ndjson", store.ContentType("exports/a.jsonl"))

	body, err := store.Get(ctx, "exports/a.jsonl")
	require.NoError(t, err)
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "line\n", string(data))

	infos, err := store.List(ctx, "exports/")
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, int64(5), infos[0].Size)

	require.NoError(t, store.Delete(ctx, "exports/a.jsonl"))
	_, err = store.Get(ctx, "exports/a.jsonl")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
