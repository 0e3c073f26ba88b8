package repository

import (
	"context"
	"time"

	"items-backend/internal/domain"
)

// FakeItemRepository is an in-memory implementation of domain.ItemRepository
// for tests and local development. It is wired in place of the PostgreSQL
// repository when the application runs in test mode.
//
// Known limitations, both deliberate:
//   - Not thread-safe. Tests are expected to be single-writer; the fake has
//     no locking around its map.
//   - Create silently overwrites on ID collision, whereas the PostgreSQL
//     repository raises a uniqueness violation. The divergence is kept
//     as-is; service-generated UUIDs never collide in practice.
type FakeItemRepository struct {
	items map[string]domain.Item
	order []string // IDs in insertion order, backing List's deterministic ordering
}

// NewFakeItemRepository creates an empty in-memory repository. Construct one
// per test run and inject it explicitly; there is no package-level singleton.
func NewFakeItemRepository() *FakeItemRepository {
	return &FakeItemRepository{
		items: make(map[string]domain.Item),
	}
}

// Get returns the item with the given ID, or (nil, nil) if absent.
func (r *FakeItemRepository) Get(_ context.Context, id string) (*domain.Item, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

// List returns items in insertion order within the [skip, skip+limit) window.
func (r *FakeItemRepository) List(_ context.Context, skip, limit int) ([]*domain.Item, error) {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(r.order) || limit <= 0 {
		return nil, nil
	}
	end := skip + limit
	if end > len(r.order) {
		end = len(r.order)
	}

	items := make([]*domain.Item, 0, end-skip)
	for _, id := range r.order[skip:end] {
		item := r.items[id]
		items = append(items, &item)
	}
	return items, nil
}

// Count returns the total number of stored items.
func (r *FakeItemRepository) Count(_ context.Context) (int, error) {
	return len(r.items), nil
}

// Create stores a new item under the given ID with fresh timestamps.
// An existing item under the same ID is overwritten in place.
func (r *FakeItemRepository) Create(_ context.Context, id string, data *domain.CreateItemRequest) (*domain.Item, error) {
	now := time.Now().UTC()
	item := domain.Item{
		ID:          id,
		Name:        data.Name,
		Description: data.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, exists := r.items[id]; !exists {
		r.order = append(r.order, id)
	}
	r.items[id] = item
	return &item, nil
}

// Update applies only the supplied fields and refreshes updated_at.
// Returns (nil, nil) if the ID is unknown.
func (r *FakeItemRepository) Update(_ context.Context, id string, data *domain.UpdateItemRequest) (*domain.Item, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}

	if data.Name != nil {
		item.Name = *data.Name
	}
	if data.Description != nil {
		item.Description = data.Description
	}
	if data.IsActive != nil {
		item.IsActive = *data.IsActive
	}

	now := time.Now().UTC()
	if !now.After(item.UpdatedAt) {
		// Coarse clocks can hand back the same instant twice; updated_at
		// must strictly increase on every mutation.
		now = item.UpdatedAt.Add(time.Nanosecond)
	}
	item.UpdatedAt = now

	r.items[id] = item
	return &item, nil
}

// Delete removes the item. Returns true if something was removed.
func (r *FakeItemRepository) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// --- Test helpers ---

// Seed loads items directly into the store, preserving their timestamps.
func (r *FakeItemRepository) Seed(items []*domain.Item) {
	for _, item := range items {
		if _, exists := r.items[item.ID]; !exists {
			r.order = append(r.order, item.ID)
		}
		r.items[item.ID] = *item
	}
}

// Clear removes all items, for test teardown.
func (r *FakeItemRepository) Clear() {
	r.items = make(map[string]domain.Item)
	r.order = nil
}
