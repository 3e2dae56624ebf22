// Package export writes loaded documents to object storage as JSON Lines.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/Abraxas-365/jmloader/document"
	"github.com/Abraxas-365/jmloader/storage"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"
)

const ContentType = "application/x-ndjson"

// Exporter writes document batches into a DataStore
type Exporter struct {
	store  storage.DataStore
	prefix string
	gzip   bool
	logger *zap.Logger
}

type Option func(*Exporter)

// WithPrefix sets the key prefix used when Export is called without a key
func WithPrefix(prefix string) Option {
	return func(e *Exporter) {
		e.prefix = prefix
	}
}

// WithGzip compresses the body and stores it with Content-Encoding gzip
func WithGzip(enabled bool) Option {
	return func(e *Exporter) {
		e.gzip = enabled
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(e *Exporter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func New(store storage.DataStore, opts ...Option) *Exporter {
	e := &Exporter{
		store:  store,
		prefix: "exports",
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(zap.String("component", "export"))
	return e
}

// Export stores docs one JSON object per line under key and returns the key
// used. An empty key becomes <prefix>/<uuid>.jsonl.
func (e *Exporter) Export(ctx context.Context, key string, docs []document.Document) (string, error) {
	if key == "" {
		key = path.Join(e.prefix, uuid.NewString()+".jsonl")
	}

	body, err := Encode(docs)
	if err != nil {
		return "", err
	}

	putOpts := []storage.PutOption{
		storage.WithContentType(ContentType),
		storage.WithMetadata(map[string]string{"documents": fmt.Sprint(len(docs))}),
	}
	if e.gzip {
		if body, err = compress(body); err != nil {
			return "", err
		}
		putOpts = append(putOpts, storage.WithContentEncoding("gzip"))
	}

	if err := e.store.Put(ctx, key, bytes.NewReader(body), putOpts...); err != nil {
		return "", err
	}

	e.logger.Info("exported documents",
		zap.String("key", key),
		zap.Int("documents", len(docs)),
		zap.Int("bytes", len(body)),
		zap.Bool("gzip", e.gzip))
	return key, nil
}

// Encode renders docs as JSON Lines
func Encode(docs []document.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for i, doc := range docs {
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encode document %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

func compress(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(body); err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	return buf.Bytes(), nil
}
