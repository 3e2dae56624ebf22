// Package jsonloader extracts documents from a JSON file using a JMESPath
// expression to locate the records.
package jsonloader

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/Abraxas-365/jmloader/datasource"
	"github.com/Abraxas-365/jmloader/document"
	"github.com/jmespath/go-jmespath"
	"go.uber.org/zap"
)

// Metadata keys set on every document before MetadataFunc runs.
const (
	SourceKey = "source"
	SeqNumKey = "seq_num"
)

// Loader holds a compiled query and the parsed file it is evaluated against.
// Both are fixed at construction; Load never touches the filesystem.
type Loader struct {
	filePath string
	query    *jmespath.JMESPath
	data     interface{}
	opts     *Options
	logger   *zap.Logger
}

var _ datasource.DataSource = (*Loader)(nil)

// New compiles query and parses the JSON file at filePath.
func New(filePath, query string, opts ...Option) (*Loader, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	compiled, err := jmespath.Compile(query)
	if err != nil {
		return nil, newError(filePath, "New", ErrQueryCompile.Code, "invalid jmespath expression "+query, err)
	}

	data, err := readJSON(filePath)
	if err != nil {
		return nil, err
	}

	logger := options.Logger.With(zap.String("component", "jsonloader"), zap.String("file", filePath))
	logger.Debug("parsed json file", zap.String("query", query))

	return &Loader{
		filePath: filePath,
		query:    compiled,
		data:     data,
		opts:     options,
		logger:   logger,
	}, nil
}

// FilePath returns the path the loader was built from.
func (l *Loader) FilePath() string {
	return l.filePath
}

var errTrailingData = errors.New("unexpected data after top-level value")

func readJSON(filePath string) (interface{}, error) {
	f, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, newError(filePath, "New", ErrFileNotFound.Code, "file does not exist", err)
		}
		return nil, newError(filePath, "New", ErrNotReadable.Code, "failed to open file", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.UseNumber()
	var data interface{}
	if err := dec.Decode(&data); err != nil {
		return nil, decodeError(filePath, err)
	}
	// a second value (or garbage) after the document is not valid JSON
	var extra interface{}
	if err := dec.Decode(&extra); err != io.EOF {
		if err == nil {
			err = errTrailingData
		}
		return nil, decodeError(filePath, err)
	}

	return normalizeNumbers(data), nil
}

func decodeError(filePath string, err error) error {
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &syntaxErr),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, errTrailingData):
		return newError(filePath, "New", ErrMalformedJSON.Code, "file is not valid json", err)
	default:
		return newError(filePath, "New", ErrNotReadable.Code, "failed to read file", err)
	}
}

// Load evaluates the query and turns every record of the resulting array
// into a document. Any failure aborts the whole call.
func (l *Loader) Load(ctx context.Context, opts ...datasource.Option) ([]document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	options := datasource.NewLoadOptions(opts...)

	records, err := l.records()
	if err != nil {
		return nil, err
	}

	docs := make([]document.Document, 0, len(records))
	for i, record := range records {
		if options.Full(len(docs)) {
			break
		}

		seqNum := i + 1
		metadata := map[string]interface{}{
			SourceKey: l.filePath,
			SeqNumKey: seqNum,
		}
		if l.opts.MetadataFunc != nil {
			metadata = l.opts.MetadataFunc(record, metadata)
			if metadata == nil {
				metadata = map[string]interface{}{}
			}
		}
		if !options.Keep(metadata) {
			continue
		}

		text, err := l.pageContent(record, seqNum)
		if err != nil {
			return nil, err
		}

		docs = append(docs, document.Document{
			PageContent: text,
			Metadata:    metadata,
		})
	}

	l.logger.Debug("loaded documents", zap.Int("records", len(records)), zap.Int("documents", len(docs)))
	return docs, nil
}

// LoadAndSplit loads the documents and splits them with splitter.
func (l *Loader) LoadAndSplit(ctx context.Context, splitter document.Splitter, opts ...datasource.Option) ([]document.Document, error) {
	docs, err := l.Load(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return document.SplitDocuments(splitter, docs)
}

func (l *Loader) records() ([]interface{}, error) {
	result, err := l.query.Search(l.data)
	if err != nil {
		return nil, newError(l.filePath, "Load", ErrQueryEvaluation.Code, "failed to evaluate query", err)
	}
	records, ok := result.([]interface{})
	if !ok {
		return nil, newError(l.filePath, "Load", ErrQueryEvaluation.Code,
			"query result is "+jsonType(result)+", expected array", nil)
	}
	return records, nil
}

func (l *Loader) pageContent(record interface{}, seqNum int) (string, error) {
	content := record
	if l.opts.ContentKey != nil {
		content = nil
		if obj, ok := record.(map[string]interface{}); ok {
			content = obj[*l.opts.ContentKey]
		}
	}

	if _, isString := content.(string); l.opts.TextContent && !isString {
		cerr := &ContentTypeError{SeqNum: seqNum, Type: jsonType(content)}
		return "", newError(l.filePath, "Load", ErrContentType.Code, ErrContentType.Message, cerr)
	}
	return contentString(content), nil
}
