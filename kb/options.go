package kb

import (
	"github.com/Abraxas-365/jmloader/vectorstore"
	"go.uber.org/zap"
)

// Options contains configuration for the knowledge base
type Options struct {
	ScoreThreshold float32
	Filters        vectorstore.Filter
	TopK           int
	Logger         *zap.Logger
}

// Option is a function type to modify Options
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		TopK:   4,
		Logger: zap.NewNop(),
	}
}

// WithScoreThreshold sets the minimum similarity score threshold
func WithScoreThreshold(threshold float32) Option {
	return func(o *Options) {
		o.ScoreThreshold = threshold
	}
}

// WithFilters sets default filters for queries
func WithFilters(filters vectorstore.Filter) Option {
	return func(o *Options) {
		o.Filters = filters
	}
}

// WithTopK sets the number of documents returned when a search passes no limit
func WithTopK(k int) Option {
	return func(o *Options) {
		o.TopK = k
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}
