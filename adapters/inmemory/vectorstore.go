package inmemory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/Abraxas-365/jmloader/vectorstore"
)

type entry struct {
	doc    vectorstore.Document
	vector []float32
}

// VectorStore implements vectorstore.Store with brute-force cosine similarity
type VectorStore struct {
	entries []entry
	mu      sync.RWMutex
}

var _ vectorstore.Replacer = (*VectorStore)(nil)

func NewVectorStore() *VectorStore {
	return &VectorStore{}
}

func (s *VectorStore) AddDocuments(ctx context.Context, docs []vectorstore.Document, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return fmt.Errorf("got %d documents and %d vectors", len(docs), len(vectors))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, doc := range docs {
		s.entries = append(s.entries, entry{doc: doc, vector: vectors[i]})
	}
	return nil
}

func (s *VectorStore) SimilaritySearch(ctx context.Context, vector []float32, limit int, filter vectorstore.Filter) ([]vectorstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []vectorstore.Document
	for _, e := range s.entries {
		if !matches(e.doc.Metadata, filter) {
			continue
		}
		doc := e.doc
		doc.Score = cosine(vector, e.vector)
		docs = append(docs, doc)
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].Score > docs[j].Score
	})

	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

func (s *VectorStore) Delete(ctx context.Context, filter vectorstore.Filter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	for _, e := range s.entries {
		if !matches(e.doc.Metadata, filter) {
			kept = append(kept, e)
		}
	}
	s.entries = kept
	return nil
}

// Replace drops entries matching any filter and appends docs under one lock.
func (s *VectorStore) Replace(ctx context.Context, filters []vectorstore.Filter, docs []vectorstore.Document, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return fmt.Errorf("got %d documents and %d vectors", len(docs), len(vectors))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	for _, e := range s.entries {
		if !matchesAny(e.doc.Metadata, filters) {
			kept = append(kept, e)
		}
	}
	s.entries = kept
	for i, doc := range docs {
		s.entries = append(s.entries, entry{doc: doc, vector: vectors[i]})
	}
	return nil
}

// Len returns the number of stored documents
func (s *VectorStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// matches compares values by their text form, like metadata->>'key' does in postgres.
func matches(metadata map[string]interface{}, filter vectorstore.Filter) bool {
	for k, want := range filter {
		got, exists := metadata[k]
		if !exists || fmt.Sprint(got) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}

func matchesAny(metadata map[string]interface{}, filters []vectorstore.Filter) bool {
	for _, filter := range filters {
		if matches(metadata, filter) {
			return true
		}
	}
	return false
}

func cosine(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
