package storage

import (
	"context"
	"io"
	"time"
)

// ObjectInfo represents metadata about a stored object
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
	ETag         string
}

// DataStore represents a generic interface for object storage operations
type DataStore interface {
	Put(ctx context.Context, key string, data io.Reader, options ...PutOption) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// Presigner is implemented by stores that can hand out temporary download URLs
type Presigner interface {
	GetPresignedGetURL(ctx context.Context, key string, expires time.Duration) (PresignedURL, error)
}

// PresignedURL represents a presigned URL with its associated metadata
type PresignedURL struct {
	URL     string
	Method  string
	Headers map[string]string
}

// PutOption allows customizing Put operations
type PutOption func(*PutOptions)

// PutOptions contains configuration for Put operations
type PutOptions struct {
	ContentType     string
	ContentEncoding string
	Metadata        map[string]string
}

// NewPutOptions applies options over the zero PutOptions
func NewPutOptions(options ...PutOption) *PutOptions {
	opts := &PutOptions{}
	for _, opt := range options {
		opt(opts)
	}
	return opts
}

// WithContentType sets the content type for the object
func WithContentType(contentType string) PutOption {
	return func(o *PutOptions) {
		o.ContentType = contentType
	}
}

// WithContentEncoding sets the Content-Encoding header for the object
func WithContentEncoding(contentEncoding string) PutOption {
	return func(o *PutOptions) {
		o.ContentEncoding = contentEncoding
	}
}

// WithMetadata sets additional metadata for the object
func WithMetadata(metadata map[string]string) PutOption {
	return func(o *PutOptions) {
		o.Metadata = metadata
	}
}
