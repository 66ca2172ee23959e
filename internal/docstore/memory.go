package docstore

import (
	"context"
	"sort"
	"sync"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/shared"
)

// Memory is an in-process Store used by tests and local tooling. It mirrors
// the Postgres implementation's semantics, including id stamping on Put.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{collections: make(map[string]map[string]Document)}
}

// GetByID fetches a single document.
func (s *Memory) GetByID(ctx context.Context, collection, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return cloneDocument(doc), nil
}

// QueryByField returns all documents whose field equals value.
func (s *Memory) QueryByField(ctx context.Context, collection, field, value string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []Document
	for _, id := range sortedIDs(s.collections[collection]) {
		doc := s.collections[collection][id]
		if doc.String(field) == value {
			docs = append(docs, cloneDocument(doc))
		}
	}
	return docs, nil
}

// List returns every document in a collection.
func (s *Memory) List(ctx context.Context, collection string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []Document
	for _, id := range sortedIDs(s.collections[collection]) {
		docs = append(docs, cloneDocument(s.collections[collection][id]))
	}
	return docs, nil
}

// Put upserts a document.
func (s *Memory) Put(ctx context.Context, collection, id string, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]Document)
	}
	stamped := cloneDocument(doc)
	stamped["id"] = id
	s.collections[collection][id] = stamped
	return nil
}

// Delete removes a document. Deleting a missing document is not an error.
func (s *Memory) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections[collection], id)
	return nil
}

func sortedIDs(docs map[string]Document) []string {
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func cloneDocument(doc Document) Document {
	clone := make(Document, len(doc))
	for k, v := range doc {
		clone[k] = v
	}
	return clone
}

var _ Store = (*Memory)(nil)
