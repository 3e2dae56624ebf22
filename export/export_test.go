package export

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/Abraxas-365/jmloader/adapters/inmemory"
	"github.com/Abraxas-365/jmloader/document"
	"github.com/Abraxas-365/jmloader/storage"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var docs = []document.Document{
	{PageContent: "hello <b>", Metadata: map[string]interface{}{"source": "data.json", "seq_num": 1}},
	{PageContent: "", Metadata: map[string]interface{}{"source": "data.json", "seq_num": 2}},
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewDataStore()
	exporter := New(store)

	key, err := exporter.Export(ctx, "out/docs.jsonl", docs)
	require.NoError(t, err)
	assert.Equal(t, "out/docs.jsonl", key)
	assert.Equal(t, ContentType, store.ContentType(key))

	body, err := store.Get(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(body)
	require.NoError(t, err)

	var got []document.Document
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		var doc document.Document
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &doc))
		got = append(got, doc)
	}
	require.Len(t, got, 2)
	assert.Equal(t, "hello <b>", got[0].PageContent)
	assert.Equal(t, float64(2), got[1].Metadata["seq_num"])
	assert.Contains(t, string(data), "<b>")
}

func TestExport_GeneratedKey(t *testing.T) {
	store := inmemory.NewDataStore()
	exporter := New(store, WithPrefix("runs"))

	key, err := exporter.Export(context.Background(), "", docs)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "runs/"))
	assert.True(t, strings.HasSuffix(key, ".jsonl"))

	other, err := exporter.Export(context.Background(), "", docs)
	require.NoError(t, err)
	assert.NotEqual(t, key, other)
}

type brokenStore struct{ storage.DataStore }

func (brokenStore) Put(context.Context, string, io.Reader, ...storage.PutOption) error {
	return errors.New("disk full")
}

func TestExport_PutError(t *testing.T) {
	_, err := New(brokenStore{}).Export(context.Background(), "k", docs)
	assert.EqualError(t, err, "disk full")
}

func TestEncode_Empty(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestExport_Gzip(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewDataStore()

	key, err := New(store, WithGzip(true)).Export(ctx, "docs.jsonl.gz", docs)
	require.NoError(t, err)
	assert.Equal(t, "gzip", store.ContentEncoding(key))
	assert.Equal(t, ContentType, store.ContentType(key))

	body, err := store.Get(ctx, key)
	require.NoError(t, err)
	zr, err := gzip.NewReader(body)
	require.NoError(t, err)
	plain, err := io.ReadAll(zr)
	require.NoError(t, err)

	want, err := Encode(docs)
	require.NoError(t, err)
	assert.Equal(t, want, plain)
}
