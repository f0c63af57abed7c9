package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestListingKeysCoversAllViews(t *testing.T) {
	keys := ListingKeys([]string{"p1", "p2"}, []string{"c1"})

	assert.Contains(t, keys, KeyCategoryList)
	assert.Contains(t, keys, KeyProductList)
	assert.Contains(t, keys, KeyFeaturedProducts)
	assert.Contains(t, keys, ProductDetailKey("p1"))
	assert.Contains(t, keys, ProductDetailKey("p2"))
	assert.Contains(t, keys, CategoryProductsKey("c1"))
	assert.Len(t, keys, 6)
}

func TestListingKeysNoIDs(t *testing.T) {
	keys := ListingKeys(nil, nil)
	assert.Equal(t, []string{KeyCategoryList, KeyProductList, KeyFeaturedProducts}, keys)
}

func TestMemorySetGetDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	_, ok := m.Get(ctx, KeyProductList)
	assert.False(t, ok)

	assert.NoError(t, m.Set(ctx, KeyProductList, []byte(`{"products":[]}`), time.Minute))
	val, ok := m.Get(ctx, KeyProductList)
	assert.True(t, ok)
	assert.Equal(t, []byte(`{"products":[]}`), val)

	assert.NoError(t, m.Delete(ctx, KeyProductList))
	_, ok = m.Get(ctx, KeyProductList)
	assert.False(t, ok)
}

func TestMemoryDeleteMultipleKeys(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	keys := ListingKeys([]string{"p1"}, []string{"c1"})
	for _, key := range keys {
		m.Set(ctx, key, []byte("cached"), time.Minute)
	}

	assert.NoError(t, m.Delete(ctx, keys...))
	for _, key := range keys {
		_, ok := m.Get(ctx, key)
		assert.False(t, ok, "key %q should be gone", key)
	}
}
