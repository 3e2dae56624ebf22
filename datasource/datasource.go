package datasource

import (
	"context"

	"github.com/Abraxas-365/jmloader/document"
)

// DataSource represents a source of documents
type DataSource interface {
	// Load loads documents from the source
	Load(ctx context.Context, opts ...Option) ([]document.Document, error)
}
