package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Item is the internal representation of a stored item, used by services
// and repositories. It is serialized as-is in API responses.
type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateItemRequest is the payload for creating a new item.
// The ID is never client-supplied; the service generates it.
type CreateItemRequest struct {
	Name        string  `json:"name" validate:"required,notblank,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// UpdateItemRequest is the payload for partially updating an item.
// A nil pointer means "leave this field untouched"; partial-update payloads
// omit unset fields entirely rather than sending nulls for them.
type UpdateItemRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,notblank,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// PriceQuote is the result of a pricing calculation.
type PriceQuote struct {
	BasePrice       decimal.Decimal `json:"base_price"`
	Quantity        int             `json:"quantity"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Total           decimal.Decimal `json:"total"`
}

// ItemRepository abstracts item persistence. Two implementations exist: a
// PostgreSQL-backed repository and an in-memory fake used in test mode.
// Both must produce behaviorally identical results for identical operation
// sequences, modulo list ordering and the fake's overwrite-on-collision
// behavior (see the fake's documentation).
type ItemRepository interface {
	// Get returns the item with the given ID, or (nil, nil) if it does not
	// exist. Absence is not an error at this layer; the service decides
	// whether to escalate.
	Get(ctx context.Context, id string) (*Item, error)

	// List returns items with pagination. Ordering is stable and
	// deterministic for a fixed store state, but implementation-defined.
	List(ctx context.Context, skip, limit int) ([]*Item, error)

	// Count returns the total number of items irrespective of pagination.
	Count(ctx context.Context) (int, error)

	// Create stores a new item under the given ID.
	Create(ctx context.Context, id string, data *CreateItemRequest) (*Item, error)

	// Update mutates only the supplied fields and refreshes updated_at.
	// Returns (nil, nil) if the ID is unknown.
	Update(ctx context.Context, id string, data *UpdateItemRequest) (*Item, error)

	// Delete removes an item. Returns true if something was removed,
	// false if the ID was unknown.
	Delete(ctx context.Context, id string) (bool, error)
}

// ItemService orchestrates repository calls and enforces existence
// invariants, translating storage-level absence into NotFound errors.
type ItemService interface {
	GetItem(ctx context.Context, id string) (*Item, error)
	ListItems(ctx context.Context, skip, limit int) ([]*Item, error)
	CountItems(ctx context.Context) (int, error)
	CreateItem(ctx context.Context, req *CreateItemRequest) (*Item, error)
	UpdateItem(ctx context.Context, id string, req *UpdateItemRequest) (*Item, error)
	DeleteItem(ctx context.Context, id string) error
}

// PricingService exposes the pure pricing rules (bulk discount tiers and
// exact-decimal price calculation) as a quote operation.
type PricingService interface {
	QuoteItemPrice(ctx context.Context, basePrice decimal.Decimal, quantity int) (*PriceQuote, error)
}

// --- WebSocket message types ---

// ItemEventAction identifies what happened to an item.
type ItemEventAction string

const (
	ItemCreatedAction ItemEventAction = "created"
	ItemUpdatedAction ItemEventAction = "updated"
	ItemDeletedAction ItemEventAction = "deleted"

	ItemEventMessageType = "ITEM_EVENT"
)

// ItemEventPayload is broadcast to WebSocket clients on item mutations.
// Item is nil for deletions.
type ItemEventPayload struct {
	Action ItemEventAction `json:"action"`
	ID     string          `json:"id"`
	Item   *Item           `json:"item,omitempty"`
}

// WebSocketMessage is the envelope for all WebSocket broadcasts.
type WebSocketMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}
