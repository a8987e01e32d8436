package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Apurer/grocery-store-client/internal/domains/items/domain"
	"github.com/Apurer/grocery-store-client/internal/domains/items/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory item store with the same semantics as the remote one.
// It backs the local store stub and the application tests.
type Repository struct {
	mu    sync.RWMutex
	items map[string]domain.Item
	order []string
	newID func() string
}

func NewRepository() *Repository {
	return &Repository{
		items: map[string]domain.Item{},
		newID: func() string { return strings.ReplaceAll(uuid.NewString(), "-", "")[:24] },
	}
}

// WithIDGenerator overrides id assignment for deterministic tests.
func (r *Repository) WithIDGenerator(next func() string) {
	if next != nil {
		r.newID = next
	}
}

// Seed inserts items as-is, assigning ids to the ones without.
func (r *Repository) Seed(items ...domain.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range items {
		if item.ID == "" {
			item.ID = r.newID()
		}
		if _, ok := r.items[item.ID]; !ok {
			r.order = append(r.order, item.ID)
		}
		r.items[item.ID] = item
	}
}

// Len reports how many items are stored.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func (r *Repository) List(_ context.Context) ([]domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]domain.Item, 0, len(r.order))
	for _, id := range r.order {
		list = append(list, r.items[id])
	}
	return list, nil
}

func (r *Repository) Create(_ context.Context, fields domain.Fields) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.newID()
	r.items[id] = fields.WithID(id)
	r.order = append(r.order, id)
	return id, nil
}

func (r *Repository) Update(_ context.Context, id string, fields domain.Fields) error {
	if id == "" {
		return domain.ErrEmptyID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ports.ErrNotFound
	}
	r.items[id] = fields.WithID(id)
	return nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	if id == "" {
		return domain.ErrEmptyID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.items, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// AdjustQuantity applies ±1 without clamping; a negative stock is the caller's policy problem.
func (r *Repository) AdjustQuantity(_ context.Context, id string, direction domain.Direction) error {
	if id == "" {
		return domain.ErrEmptyID
	}
	if !direction.Valid() {
		return domain.ErrInvalidDirection
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return ports.ErrNotFound
	}
	if direction == domain.Increment {
		item.Quantity++
	} else {
		item.Quantity--
	}
	r.items[id] = item
	return nil
}
