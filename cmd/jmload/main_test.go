package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{"items":[
	{"text":"alpha","tags":["a","b"],"lang":"en"},
	{"text":"beta","tags":["c"],"lang":"es"},
	{"text":"gamma","tags":[],"lang":"en"}
]}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

type printed struct {
	PageContent string                 `json:"page_content"`
	Metadata    map[string]interface{} `json:"metadata"`
}

func decode(t *testing.T, out string) []printed {
	t.Helper()
	var docs []printed
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	return docs
}

func TestLoadCommand(t *testing.T) {
	file := writeFile(t, "data.json", sample)

	out, err := run(t, "load", file, "items[]",
		"--content-key", "text",
		"--metadata-field", "tags",
		"--list-to-string",
		"--max-items", "2")
	require.NoError(t, err)

	docs := decode(t, out)
	require.Len(t, docs, 2)
	assert.Equal(t, "alpha", docs[0].PageContent)
	assert.Equal(t, "a, b", docs[0].Metadata["tags"])
	assert.Equal(t, float64(1), docs[0].Metadata["seq_num"])
	assert.Equal(t, "beta", docs[1].PageContent)
	assert.Equal(t, "c", docs[1].Metadata["tags"])
}

func TestLoadCommandUsesConfig(t *testing.T) {
	file := writeFile(t, "data.json", sample)
	cfg := writeFile(t, "jmload.yaml", `
loader:
  content_key: lang
  metadata_fields: [text]
  max_items: 1
`)

	out, err := run(t, "--config", cfg, "load", file, "items[]")
	require.NoError(t, err)

	docs := decode(t, out)
	require.Len(t, docs, 1)
	assert.Equal(t, "en", docs[0].PageContent)
	assert.Equal(t, "alpha", docs[0].Metadata["text"])
}

func TestFlagsOverrideConfig(t *testing.T) {
	file := writeFile(t, "data.json", sample)
	cfg := writeFile(t, "jmload.yaml", `
loader:
  content_key: lang
  max_items: 1
`)

	out, err := run(t, "--config", cfg, "load", file, "items[]", "--content-key", "text", "--max-items", "0")
	require.NoError(t, err)

	docs := decode(t, out)
	require.Len(t, docs, 3)
	assert.Equal(t, "gamma", docs[2].PageContent)
}

func TestLoadCommandEmptyContentKey(t *testing.T) {
	file := writeFile(t, "data.json", `[{"": "empty-key text", "text": "other"}]`)

	out, err := run(t, "load", file, "@", "--content-key", "")
	require.NoError(t, err)
	docs := decode(t, out)
	require.Len(t, docs, 1)
	assert.Equal(t, "empty-key text", docs[0].PageContent)

	cfg := writeFile(t, "jmload.yaml", "loader:\n  content_key: \"\"\n")
	out, err = run(t, "--config", cfg, "load", file, "@")
	require.NoError(t, err)
	docs = decode(t, out)
	require.Len(t, docs, 1)
	assert.Equal(t, "empty-key text", docs[0].PageContent)

	// no key anywhere: the whole record is the content
	_, err = run(t, "load", file, "@")
	assert.Error(t, err)
}

func TestLoadCommandEmptyResult(t *testing.T) {
	file := writeFile(t, "data.json", `{"items":[]}`)

	out, err := run(t, "load", file, "items")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestLoadCommandErrors(t *testing.T) {
	file := writeFile(t, "data.json", sample)

	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"load", filepath.Join(t.TempDir(), "nope.json"), "items"}},
		{"bad query", []string{"load", file, "items[?"}},
		{"non-string content", []string{"load", file, "items[].tags"}},
		{"wrong arg count", []string{"load", file}},
		{"missing config", []string{"--config", filepath.Join(t.TempDir(), "nope.yaml"), "load", file, "items"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestExportRequiresBucket(t *testing.T) {
	file := writeFile(t, "data.json", sample)

	_, err := run(t, "export", file, "items[].text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--bucket")
}

func TestIngestRequiresDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	file := writeFile(t, "data.json", sample)

	_, err := run(t, "ingest", file, "items[].text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestReadConfig(t *testing.T) {
	path := writeFile(t, "jmload.yaml", `
loader:
  text_content: false
export:
  bucket: docs
  presign: 15m
ingest:
  embedder: bedrock
  dimension: 1024
`)

	cfg, err := readConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Loader.TextContent)
	assert.False(t, *cfg.Loader.TextContent)
	assert.Equal(t, "docs", cfg.Export.Bucket)
	assert.Equal(t, "15m0s", cfg.Export.Presign.String())
	assert.Equal(t, "bedrock", cfg.Ingest.Embedder)
	assert.Equal(t, 1024, cfg.Ingest.Dimension)

	empty, err := readConfig("")
	require.NoError(t, err)
	assert.Nil(t, empty.Loader.TextContent)
}
