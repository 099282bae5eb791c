package store

import (
	"context"
	"maps"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Memory implements Store on process-local maps. It backs tests and local
// runs, and mirrors the adapter semantics: insertion-ordered listings,
// merge-on-set, conditional create, atomic increments.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]*memCollection
	writes      int
}

type memCollection struct {
	order []string
	docs  map[string]map[string]any
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{collections: make(map[string]*memCollection)}
}

// Writes reports the number of mutating operations performed. Tests use it to
// assert that a code path wrote nothing.
func (m *Memory) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

func collectionKey(parts ...string) string {
	return strings.Join(parts, "/")
}

func (m *Memory) coll(key string) *memCollection {
	c, ok := m.collections[key]
	if !ok {
		c = &memCollection{docs: make(map[string]map[string]any)}
		m.collections[key] = c
	}
	return c
}

func (m *Memory) ListUnder(_ context.Context, tenant, collection string) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.collections[collectionKey(tenant, collection)]
	if !ok {
		return nil, nil
	}

	docs := make([]Document, 0, len(c.order))
	for _, id := range c.order {
		data := make(map[string]any, len(c.docs[id]))
		maps.Copy(data, c.docs[id])
		docs = append(docs, Document{ID: id, Data: data})
	}
	return docs, nil
}

func (m *Memory) SetMerge(_ context.Context, tenant, collection, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.coll(collectionKey(tenant, collection))
	doc, ok := c.docs[id]
	if !ok {
		doc = make(map[string]any)
		c.docs[id] = doc
		c.order = append(c.order, id)
	}
	maps.Copy(doc, fields)
	m.writes++
	return nil
}

func (m *Memory) AppendChild(_ context.Context, tenant, collection, id, subcollection string, fields map[string]any) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	childID := uuid.NewString()
	c := m.coll(collectionKey(tenant, collection, id, subcollection))
	data := make(map[string]any, len(fields))
	maps.Copy(data, fields)
	c.docs[childID] = data
	c.order = append(c.order, childID)
	m.writes++
	return childID, nil
}

func (m *Memory) AtomicIncrement(_ context.Context, tenant, collection, id, field string, delta int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.coll(collectionKey(tenant, collection))
	doc, ok := c.docs[id]
	if !ok {
		doc = make(map[string]any)
		c.docs[id] = doc
		c.order = append(c.order, id)
	}

	current, _ := toInt64(doc[field])
	doc[field] = current + delta
	m.writes++
	return nil
}

func (m *Memory) Create(_ context.Context, tenant, collection string, fields map[string]any) (string, error) {
	id := uuid.NewString()
	if err := m.createWithID(tenant, collection, id, fields); err != nil {
		return "", err
	}
	return id, nil
}

func (m *Memory) CreateIfAbsent(_ context.Context, tenant, collection, id string, fields map[string]any) error {
	return m.createWithID(tenant, collection, id, fields)
}

func (m *Memory) createWithID(tenant, collection, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.coll(collectionKey(tenant, collection))
	if _, exists := c.docs[id]; exists {
		return ErrAlreadyExists
	}

	data := make(map[string]any, len(fields))
	maps.Copy(data, fields)
	c.docs[id] = data
	c.order = append(c.order, id)
	m.writes++
	return nil
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
