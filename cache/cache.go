// Package cache provides the listing cache that fronts the public catalog
// reads, plus the registry of keys those reads are stored under.
package cache

import (
	"context"
	"time"
)

// DefaultTTL bounds how stale a listing can get when an invalidation misses a
// key. Overridable through config.
const DefaultTTL = 300 * time.Second

// Cache is a plain key-value store with TTL. No pattern delete is assumed;
// invalidation enumerates keys explicitly via ListingKeys.
type Cache interface {
	// Get returns the cached value and whether it was present. Backend
	// failures are reported as a miss.
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Fixed keys for the denormalized read views.
const (
	KeyCategoryList     = "category_list_cache_key"
	KeyProductList      = "product_list"
	KeyFeaturedProducts = "featured_products"
)

// ProductDetailKey is the key for a single product's detail view.
func ProductDetailKey(productID string) string {
	return "product_detail_" + productID
}

// CategoryProductsKey is the key for the product listing of one category.
func CategoryProductsKey(categoryID string) string {
	return "category_products_" + categoryID
}

// ListingKeys enumerates every key whose cached view could be affected by a
// catalog write: the fixed listing keys plus the per-entity keys derived from
// the given ids. Callers performing a delete must pass the ids observed before
// the delete, since the key space is derived from entity ids.
func ListingKeys(productIDs, categoryIDs []string) []string {
	keys := make([]string, 0, 3+len(productIDs)+len(categoryIDs))
	keys = append(keys, KeyCategoryList, KeyProductList, KeyFeaturedProducts)
	for _, id := range categoryIDs {
		keys = append(keys, CategoryProductsKey(id))
	}
	for _, id := range productIDs {
		keys = append(keys, ProductDetailKey(id))
	}
	return keys
}
