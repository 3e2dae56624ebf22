package jsonloader

import "go.uber.org/zap"

// MetadataFunc builds the metadata of one document from the matched record
// and the base metadata ({"source", "seq_num"}). It may mutate and return
// metadata or return a new map. record belongs to the loader's parsed file
// and must not be modified; copy nested values before storing them.
type MetadataFunc func(record interface{}, metadata map[string]interface{}) map[string]interface{}

// Options contains configuration for a Loader
type Options struct {
	// ContentKey names the record field used as page content. Nil means
	// the whole record; "" is the empty-named field.
	ContentKey *string
	// MetadataFunc rewrites the base metadata of every document.
	MetadataFunc MetadataFunc
	// TextContent requires the content value to be a JSON string.
	TextContent bool
	Logger      *zap.Logger
}

// Option is a function type to modify Options
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		TextContent: true,
		Logger:      zap.NewNop(),
	}
}

// WithContentKey sets the record field used as page content
func WithContentKey(key string) Option {
	return func(o *Options) {
		o.ContentKey = &key
	}
}

// WithMetadataFunc sets the metadata transform
func WithMetadataFunc(fn MetadataFunc) Option {
	return func(o *Options) {
		o.MetadataFunc = fn
	}
}

// WithTextContent sets whether content must be a JSON string
func WithTextContent(required bool) Option {
	return func(o *Options) {
		o.TextContent = required
	}
}

// WithLogger sets the logger; nil keeps the no-op logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}
