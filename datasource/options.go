package datasource

// LoadOptions represents options for loading documents
type LoadOptions struct {
	// Filter is a function that determines whether to keep a document.
	// It sees the final metadata of the document.
	Filter func(metadata map[string]interface{}) bool
	// MaxItems is the maximum number of documents to return (0 for no limit)
	MaxItems int
}

// Option is a function type to modify LoadOptions
type Option func(*LoadOptions)

// NewLoadOptions applies opts over the zero LoadOptions.
func NewLoadOptions(opts ...Option) *LoadOptions {
	options := &LoadOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithFilter sets a filter function for documents
func WithFilter(filter func(metadata map[string]interface{}) bool) Option {
	return func(o *LoadOptions) {
		o.Filter = filter
	}
}

// WithMaxItems sets the maximum number of items to load
func WithMaxItems(max int) Option {
	return func(o *LoadOptions) {
		o.MaxItems = max
	}
}

// Full reports whether n documents already reach MaxItems.
func (o *LoadOptions) Full(n int) bool {
	return o.MaxItems > 0 && n >= o.MaxItems
}

// Keep reports whether a document with the given metadata passes Filter.
func (o *LoadOptions) Keep(metadata map[string]interface{}) bool {
	return o.Filter == nil || o.Filter(metadata)
}
