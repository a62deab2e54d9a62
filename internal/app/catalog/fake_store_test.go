package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

// fakeStore is an in-memory document collection with failure switches
type fakeStore struct {
	mu        sync.Mutex
	docs      []interfaces.Document
	nextID    int
	failList  bool
	failWrite bool
	lists     int
}

func (s *fakeStore) List(ctx context.Context, collection string) ([]interfaces.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	if s.failList {
		return nil, fmt.Errorf("%w: offline", domain.ErrStoreConnectivity)
	}
	out := make([]interfaces.Document, 0, len(s.docs))
	for _, d := range s.docs {
		fields := make(map[string]any, len(d.Fields))
		for k, v := range d.Fields {
			fields[k] = v
		}
		out = append(out, interfaces.Document{ID: d.ID, Fields: fields})
	}
	return out, nil
}

func (s *fakeStore) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite {
		return "", fmt.Errorf("%w: rejected", domain.ErrStoreWrite)
	}
	s.nextID++
	id := fmt.Sprintf("doc-%d", s.nextID)
	s.docs = append(s.docs, interfaces.Document{ID: id, Fields: fields})
	return id, nil
}

func (s *fakeStore) Update(ctx context.Context, collection, id string, patch map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite {
		return fmt.Errorf("%w: rejected", domain.ErrStoreWrite)
	}
	for i := range s.docs {
		if s.docs[i].ID == id {
			for k, v := range patch {
				s.docs[i].Fields[k] = v
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s not found", domain.ErrStoreWrite, id)
}

func (s *fakeStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite {
		return fmt.Errorf("%w: rejected", domain.ErrStoreWrite)
	}
	for i := range s.docs {
		if s.docs[i].ID == id {
			s.docs = append(s.docs[:i], s.docs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *fakeStore) seed(id string, fields map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, interfaces.Document{ID: id, Fields: fields})
}

func (s *fakeStore) listCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lists
}
