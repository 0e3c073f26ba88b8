package repository

import (
	"context"
	"testing"

	"items-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }
func boolptr(b bool) *bool    { return &b }

// observedItem is the order-independent view of an item used for
// cross-variant comparison. Timestamps are excluded: only their invariants
// are asserted, not their values.
type observedItem struct {
	Name        string
	Description string
	IsActive    bool
}

func observe(item *domain.Item) observedItem {
	o := observedItem{Name: item.Name, IsActive: item.IsActive}
	if item.Description != nil {
		o.Description = *item.Description
	}
	return o
}

// runRepositorySequence drives a fixed sequence of operations with
// non-colliding IDs against a repository and asserts the observable
// outcomes. Both variants must pass it unchanged: the in-memory fake
// standing in for PostgreSQL depends on this equivalence. List ordering is
// implementation-defined, so results are compared as sets.
func runRepositorySequence(t *testing.T, repo domain.ItemRepository) {
	t.Helper()
	ctx := context.Background()

	// Create three items.
	a, err := repo.Create(ctx, "seq-a", &domain.CreateItemRequest{Name: "alpha"})
	require.NoError(t, err)
	require.Equal(t, "seq-a", a.ID)
	require.True(t, a.IsActive)
	require.False(t, a.CreatedAt.IsZero())
	require.False(t, a.UpdatedAt.Before(a.CreatedAt))

	_, err = repo.Create(ctx, "seq-b", &domain.CreateItemRequest{Name: "beta", Description: strptr("second")})
	require.NoError(t, err)
	_, err = repo.Create(ctx, "seq-c", &domain.CreateItemRequest{Name: "gamma"})
	require.NoError(t, err)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	// Round-trip: fetching right after create yields the same fields.
	got, err := repo.Get(ctx, "seq-a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, observe(a), observe(got))

	// Absence is a soft nil, never an error.
	got, err = repo.Get(ctx, "seq-missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Partial update touches only the supplied field.
	updated, err := repo.Update(ctx, "seq-b", &domain.UpdateItemRequest{Name: strptr("beta-2")})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "beta-2", updated.Name)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "second", *updated.Description)
	assert.True(t, updated.IsActive)

	// Updating an unknown ID is a soft nil.
	updated, err = repo.Update(ctx, "seq-missing", &domain.UpdateItemRequest{Name: strptr("nope")})
	require.NoError(t, err)
	assert.Nil(t, updated)

	// Delete is idempotent in outcome: true, then false.
	deleted, err := repo.Delete(ctx, "seq-c")
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = repo.Delete(ctx, "seq-c")
	require.NoError(t, err)
	assert.False(t, deleted)

	// Final observable state, compared as a set keyed by ID.
	items, err := repo.List(ctx, 0, 100)
	require.NoError(t, err)

	byID := make(map[string]observedItem, len(items))
	for _, item := range items {
		byID[item.ID] = observe(item)
	}
	assert.Equal(t, map[string]observedItem{
		"seq-a": {Name: "alpha", IsActive: true},
		"seq-b": {Name: "beta-2", Description: "second", IsActive: true},
	}, byID)

	total, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}
