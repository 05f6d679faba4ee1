package store

import (
	"context"
	"maps"
	"sync"

	"github.com/google/uuid"
)

// MemStore is an in-memory DocumentStore used in tests and local development.
// It mirrors the hosted backends' semantics: opaque IDs, no ordering
// guarantees, no transactions.
type MemStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any
}

var _ DocumentStore = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		collections: make(map[string]map[string]map[string]any),
	}
}

func (m *MemStore) List(ctx context.Context, collectionPath string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]Document, 0, len(m.collections[collectionPath]))
	for id, fields := range m.collections[collectionPath] {
		docs = append(docs, Document{ID: id, Fields: maps.Clone(fields)})
	}
	return docs, nil
}

func (m *MemStore) Get(ctx context.Context, docPath string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	collectionPath, id := splitDocPath(docPath)

	m.mu.RLock()
	defer m.mu.RUnlock()

	fields, ok := m.collections[collectionPath][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: id, Fields: maps.Clone(fields)}, nil
}

func (m *MemStore) Add(ctx context.Context, collectionPath string, fields map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := uuid.New().String()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.collections[collectionPath] == nil {
		m.collections[collectionPath] = make(map[string]map[string]any)
	}
	m.collections[collectionPath][id] = maps.Clone(fields)
	return id, nil
}

func (m *MemStore) Set(ctx context.Context, docPath string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	collectionPath, id := splitDocPath(docPath)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.collections[collectionPath] == nil {
		m.collections[collectionPath] = make(map[string]map[string]any)
	}
	m.collections[collectionPath][id] = maps.Clone(fields)
	return nil
}

func (m *MemStore) Delete(ctx context.Context, docPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	collectionPath, id := splitDocPath(docPath)

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.collections[collectionPath], id)
	return nil
}
