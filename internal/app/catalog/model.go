package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

// FilterAll shows every non-empty category
const FilterAll = "all"

// State holds the current product snapshot and the active catalog filter.
// It is owned by the top-level service and handed to the presenters.
type State struct {
	mu       sync.RWMutex
	products []domain.Product
	filter   string
	applied  uint64
}

func NewState() *State {
	return &State{filter: FilterAll}
}

// Snapshot returns a copy of the loaded products in store order
func (s *State) Snapshot() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *State) Filter() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// SetFilter accepts "all" or a registry category key
func (s *State) SetFilter(filter string) error {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		filter = FilterAll
	}
	if filter != FilterAll && !domain.Category(filter).Valid() {
		return fmt.Errorf("%w: unknown category filter %q", domain.ErrValidation, filter)
	}
	s.mu.Lock()
	s.filter = filter
	s.mu.Unlock()
	return nil
}

// replace swaps the snapshot unless a newer load already landed
func (s *State) replace(seq uint64, products []domain.Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.applied {
		return false
	}
	s.products = products
	s.applied = seq
	return true
}

func (s *State) find(id string) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// Model is the canonical product set, refreshed only through Reconcile
type Model struct {
	store      interfaces.CatalogStore
	collection string
	state      *State
	logger     logger.Logger

	seqMu sync.Mutex
	seq   uint64
}

func NewModel(store interfaces.CatalogStore, collection string, state *State, logger logger.Logger) *Model {
	return &Model{
		store:      store,
		collection: collection,
		state:      state,
		logger:     logger,
	}
}

func (m *Model) State() *State {
	return m.state
}

// Load fetches the whole collection and replaces the snapshot atomically.
// On failure the previous snapshot stays in place.
func (m *Model) Load(ctx context.Context) ([]domain.Product, error) {
	seq := m.nextSeq()

	docs, err := m.store.List(ctx, m.collection)
	if err != nil {
		m.logger.Error("catalog_load_failed", "Failed to load catalog, keeping previous snapshot", "", map[string]interface{}{
			"collection": m.collection,
		}, err)
		return nil, err
	}

	products := make([]domain.Product, 0, len(docs))
	for _, d := range docs {
		p, err := decodeProduct(d)
		if err != nil {
			m.logger.Error("document_decode_partial", "Malformed product document kept with defaults, out of stock", "", map[string]interface{}{
				"id": d.ID,
			}, err)
		}
		products = append(products, p)
	}

	if !m.state.replace(seq, products) {
		m.logger.Debug("catalog_load_superseded", "Newer catalog load already applied", "", map[string]interface{}{
			"seq": seq,
		})
		return m.state.Snapshot(), nil
	}

	m.logger.Debug("catalog_loaded", fmt.Sprintf("Loaded %d products", len(products)), "", map[string]interface{}{
		"collection": m.collection,
		"count":      len(products),
	})
	return products, nil
}

// Reconcile is the only path that refreshes the canonical product set
func (m *Model) Reconcile(ctx context.Context) error {
	_, err := m.Load(ctx)
	return err
}

func (m *Model) FindByID(id string) (domain.Product, bool) {
	return m.state.find(id)
}

func (m *Model) nextSeq() uint64 {
	m.seqMu.Lock()
	defer m.seqMu.Unlock()
	m.seq++
	return m.seq
}
