package service

import (
	"context"
	"fmt"

	"items-backend/internal/domain"
	"items-backend/internal/realtime"

	"github.com/google/uuid"
)

const (
	defaultListLimit = 100
	maxListLimit     = 100
)

type itemService struct {
	repo domain.ItemRepository
	hub  *realtime.Hub // optional; nil disables event broadcasting
}

// NewItemService creates a new ItemService. The hub may be nil, in which
// case item events are not broadcast.
func NewItemService(repo domain.ItemRepository, hub *realtime.Hub) domain.ItemService {
	return &itemService{
		repo: repo,
		hub:  hub,
	}
}

// GetItem retrieves an item by its ID, escalating absence to NotFound.
func (s *itemService) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get item '%s': %w", id, err)
	}
	if item == nil {
		return nil, domain.NewNotFound("Item", id)
	}
	return item, nil
}

// ListItems retrieves a pagination window of items. Skip and limit are
// clamped to safe bounds.
func (s *itemService) ListItems(ctx context.Context, skip, limit int) ([]*domain.Item, error) {
	skip, limit = normalizePagination(skip, limit)

	items, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list items: %w", err)
	}
	return items, nil
}

// CountItems returns the total item count.
func (s *itemService) CountItems(ctx context.Context) (int, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("service: failed to count items: %w", err)
	}
	return total, nil
}

// CreateItem generates a fresh identifier and stores the item under it.
// IDs are random 128-bit UUIDs; collision probability is negligible.
func (s *itemService) CreateItem(ctx context.Context, req *domain.CreateItemRequest) (*domain.Item, error) {
	id := uuid.NewString()

	item, err := s.repo.Create(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("service: failed to create item: %w", err)
	}

	s.broadcast(domain.ItemCreatedAction, item.ID, item)
	return item, nil
}

// UpdateItem applies a partial update, escalating absence to NotFound.
func (s *itemService) UpdateItem(ctx context.Context, id string, req *domain.UpdateItemRequest) (*domain.Item, error) {
	item, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("service: failed to update item '%s': %w", id, err)
	}
	if item == nil {
		return nil, domain.NewNotFound("Item", id)
	}

	s.broadcast(domain.ItemUpdatedAction, item.ID, item)
	return item, nil
}

// DeleteItem removes an item, escalating absence to NotFound.
func (s *itemService) DeleteItem(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("service: failed to delete item '%s': %w", id, err)
	}
	if !deleted {
		return domain.NewNotFound("Item", id)
	}

	s.broadcast(domain.ItemDeletedAction, id, nil)
	return nil
}

func (s *itemService) broadcast(action domain.ItemEventAction, id string, item *domain.Item) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastItemEvent(domain.ItemEventPayload{
		Action: action,
		ID:     id,
		Item:   item,
	})
}

// normalizePagination clamps skip/limit to safe defaults.
func normalizePagination(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	} else if limit > maxListLimit {
		limit = maxListLimit
	}
	return skip, limit
}
