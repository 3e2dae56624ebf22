package pgvectore

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Abraxas-365/jmloader/vectorstore"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// Distance represents the distance calculation method
type Distance string

const (
	Cosine       Distance = "cosine"
	Euclidean    Distance = "euclidean"
	InnerProduct Distance = "inner_product"
)

// IsValid checks if the distance metric is valid
func (d Distance) IsValid() bool {
	switch d {
	case Cosine, Euclidean, InnerProduct:
		return true
	default:
		return false
	}
}

// operator returns the pgvector operator and index operator class
func (d Distance) operator() (string, string) {
	switch d {
	case Euclidean:
		return "<->", "vector_l2_ops"
	case InnerProduct:
		return "<#>", "vector_ip_ops"
	default:
		return "<=>", "vector_cosine_ops"
	}
}

// scoreExpr turns a distance into a "higher is closer" score
func (d Distance) scoreExpr() string {
	op, _ := d.operator()
	switch d {
	case InnerProduct:
		return fmt.Sprintf("(embedding %s $1::vector) * -1", op)
	case Euclidean:
		return fmt.Sprintf("1 / (1 + (embedding %s $1::vector))", op)
	default:
		return fmt.Sprintf("1 - (embedding %s $1::vector)", op)
	}
}

type Options struct {
	TableName string
	Dimension int
	Distance  Distance
}

type PGVectorStore struct {
	pool      *pgxpool.Pool
	table     string // quoted
	tableName string
	dimension int
	distance  Distance
}

var (
	_ vectorstore.Store       = (*PGVectorStore)(nil)
	_ vectorstore.Initializer = (*PGVectorStore)(nil)
	_ vectorstore.Replacer    = (*PGVectorStore)(nil)
)

func NewPGVectorStore(ctx context.Context, connString string, opts Options) (*PGVectorStore, error) {
	if opts.Distance == "" {
		opts.Distance = Cosine
	}
	if !opts.Distance.IsValid() {
		return nil, fmt.Errorf("invalid distance metric: %s", opts.Distance)
	}
	if opts.TableName == "" {
		return nil, fmt.Errorf("table name is required")
	}
	if opts.Dimension <= 0 {
		return nil, fmt.Errorf("invalid dimension: %d", opts.Dimension)
	}

	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("error parsing connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("error creating connection pool: %w", err)
	}

	return &PGVectorStore{
		pool:      pool,
		table:     pq.QuoteIdentifier(opts.TableName),
		tableName: opts.TableName,
		dimension: opts.Dimension,
		distance:  opts.Distance,
	}, nil
}

// InitDB creates the extension, table and ivfflat index
func (p *PGVectorStore) InitDB(ctx context.Context, forceRecreate bool) error {
	if _, err := p.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("error creating vector extension: %w", err)
	}

	if forceRecreate {
		if _, err := p.pool.Exec(ctx, "DROP TABLE IF EXISTS "+p.table); err != nil {
			return fmt.Errorf("error dropping table: %w", err)
		}
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id SERIAL PRIMARY KEY,
			content TEXT NOT NULL,
			metadata JSONB,
			embedding vector(%d),
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)
	`, p.table, p.dimension)
	if _, err := p.pool.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("error creating table: %w", err)
	}

	_, opClass := p.distance.operator()
	createIndex := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s
		ON %s
		USING ivfflat (embedding %s)
		WITH (lists = 100)
	`, pq.QuoteIdentifier(p.tableName+"_embedding_idx"), p.table, opClass)
	if _, err := p.pool.Exec(ctx, createIndex); err != nil {
		return fmt.Errorf("error creating index: %w", err)
	}

	return nil
}

func (p *PGVectorStore) AddDocuments(ctx context.Context, docs []vectorstore.Document, vectors [][]float32) error {
	batch, err := p.insertBatch(docs, vectors)
	if err != nil {
		return err
	}

	results := p.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := range docs {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("error inserting document %d: %w", i, err)
		}
	}
	return nil
}

// Replace deletes rows matching any filter and inserts docs in one transaction
func (p *PGVectorStore) Replace(ctx context.Context, filters []vectorstore.Filter, docs []vectorstore.Document, vectors [][]float32) error {
	batch, err := p.insertBatch(docs, vectors)
	if err != nil {
		return err
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, filter := range filters {
		where, args := whereClause(filter, 1)
		if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s %s", p.table, where), args...); err != nil {
			return fmt.Errorf("error deleting documents: %w", err)
		}
	}

	if len(docs) > 0 {
		results := tx.SendBatch(ctx, batch)
		for i := range docs {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("error inserting document %d: %w", i, err)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("error inserting documents: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

func (p *PGVectorStore) insertBatch(docs []vectorstore.Document, vectors [][]float32) (*pgx.Batch, error) {
	if len(docs) != len(vectors) {
		return nil, fmt.Errorf("got %d documents and %d vectors", len(docs), len(vectors))
	}

	insert := fmt.Sprintf(`INSERT INTO %s (content, metadata, embedding) VALUES ($1, $2, $3::vector)`, p.table)

	batch := &pgx.Batch{}
	for i, doc := range docs {
		if len(vectors[i]) != p.dimension {
			return nil, fmt.Errorf("document %d: vector has %d dimensions, table expects %d", i, len(vectors[i]), p.dimension)
		}
		batch.Queue(insert, doc.PageContent, doc.Metadata, formatVector(vectors[i]))
	}
	return batch, nil
}

func (p *PGVectorStore) SimilaritySearch(ctx context.Context, vector []float32, limit int, filter vectorstore.Filter) ([]vectorstore.Document, error) {
	op, _ := p.distance.operator()
	where, filterArgs := whereClause(filter, 3)
	args := append([]interface{}{formatVector(vector), limit}, filterArgs...)

	query := fmt.Sprintf(`
		SELECT content, metadata, %s AS similarity
		FROM %s
		%s
		ORDER BY embedding %s $1::vector
		LIMIT $2
	`, p.distance.scoreExpr(), p.table, where, op)

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing similarity search: %w", err)
	}
	defer rows.Close()

	var docs []vectorstore.Document
	for rows.Next() {
		var doc vectorstore.Document
		if err := rows.Scan(&doc.PageContent, &doc.Metadata, &doc.Score); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return docs, nil
}

func (p *PGVectorStore) Delete(ctx context.Context, filter vectorstore.Filter) error {
	where, args := whereClause(filter, 1)
	if _, err := p.pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s %s", p.table, where), args...); err != nil {
		return fmt.Errorf("error deleting documents: %w", err)
	}
	return nil
}

// Close closes the database connection pool
func (p *PGVectorStore) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// whereClause matches metadata keys by text value. Keys are quoted as
// literals, values are bound starting at placeholder $first.
func whereClause(filter vectorstore.Filter, first int) (string, []interface{}) {
	if len(filter) == 0 {
		return "", nil
	}

	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	// stable SQL text for the same filter
	sort.Strings(keys)

	conditions := make([]string, len(keys))
	args := make([]interface{}, len(keys))
	for i, k := range keys {
		conditions[i] = fmt.Sprintf("metadata->>%s = $%d", pq.QuoteLiteral(k), first+i)
		args[i] = fmt.Sprint(filter[k])
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// formatVector renders a pgvector literal
func formatVector(vector []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range vector {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
