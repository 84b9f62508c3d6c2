// database/memory_store.go
package database

import (
	"context"
	"sort"
	"sync"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/models"
)

// MemoryStore is a process-local store for development and tests. Items pass
// through the same document mapping as MongoStore.
type MemoryStore struct {
	notifier
	mu   sync.RWMutex
	docs map[string]registryDocument
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]registryDocument)}
}

func (s *MemoryStore) ListAll(ctx context.Context) ([]models.RegistryItem, error) {
	s.mu.RLock()
	items := make([]models.RegistryItem, 0, len(s.docs))
	for _, doc := range s.docs {
		items = append(items, fromDocument(doc))
	}
	s.mu.RUnlock()

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *MemoryStore) Insert(ctx context.Context, item models.RegistryItem) error {
	doc, err := toDocument(item)
	if err != nil {
		return err
	}
	s.mu.Lock()
	if _, ok := s.docs[item.ID]; ok {
		s.mu.Unlock()
		return ErrDuplicate
	}
	s.docs[item.ID] = doc
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, item models.RegistryItem) error {
	doc, err := toDocument(item)
	if err != nil {
		return err
	}
	s.mu.Lock()
	if _, ok := s.docs[item.ID]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.docs[item.ID] = doc
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.docs[id]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.docs, id)
	s.mu.Unlock()
	s.notify()
	return nil
}
