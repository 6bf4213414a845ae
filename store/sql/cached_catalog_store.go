package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/goliatone/go-accounts/core"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

const catalogCacheKeyPrefix = "go-accounts::catalog::v1"

// CachedCatalogStore memoizes rating-key lookups. Catalog rows only change
// on library scans, so lookups from watch-data aggregation are served from
// cache and invalidated wholesale after a scan.
type CachedCatalogStore struct {
	base  core.CatalogStore
	cache repositorycache.CacheService
}

func NewCachedCatalogStore(base core.CatalogStore, cacheService repositorycache.CacheService) (*CachedCatalogStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base catalog store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: catalog cache service is required")
	}
	return &CachedCatalogStore{base: base, cache: cacheService}, nil
}

// CatalogCacheKey returns the deterministic cache key contract for a
// rating-key lookup: go-accounts::catalog::v1::<key>::<key>... with keys
// normalized, deduplicated, sorted, and URL-path escaped.
func CatalogCacheKey(keys []string) (string, error) {
	normalized := normalizeRatingKeys(keys)
	if len(normalized) == 0 {
		return "", fmt.Errorf("sqlstore: at least one rating key is required")
	}
	segments := make([]string, len(normalized))
	for i, key := range normalized {
		segments[i] = url.PathEscape(key)
	}
	return strings.Join(append([]string{catalogCacheKeyPrefix}, segments...), "::"), nil
}

func (s *CachedCatalogStore) FindByRatingKeys(ctx context.Context, keys []string) ([]core.MediaCatalogItem, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return nil, fmt.Errorf("sqlstore: cached catalog store is not configured")
	}
	normalized := normalizeRatingKeys(keys)
	if len(normalized) == 0 {
		return []core.MediaCatalogItem{}, nil
	}
	cacheKey, err := CatalogCacheKey(normalized)
	if err != nil {
		return nil, err
	}

	items, err := repositorycache.GetOrFetch(ctx, s.cache, cacheKey, func(ctx context.Context) ([]core.MediaCatalogItem, error) {
		fetched, fetchErr := s.base.FindByRatingKeys(ctx, normalized)
		if fetchErr != nil {
			return nil, fetchErr
		}
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]core.MediaCatalogItem(nil), items...), nil
}

// Invalidate drops the cached lookup for the given keys. Call it after a
// library scan rewrites catalog rows.
func (s *CachedCatalogStore) Invalidate(ctx context.Context, keys []string) error {
	if s == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached catalog store is not configured")
	}
	cacheKey, err := CatalogCacheKey(keys)
	if err != nil {
		return err
	}
	return s.cache.Delete(ctx, cacheKey)
}

func normalizeRatingKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	normalized := make([]string, 0, len(keys))
	for _, key := range keys {
		trimmed := strings.TrimSpace(key)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		normalized = append(normalized, trimmed)
	}
	sort.Strings(normalized)
	return normalized
}

var _ core.CatalogStore = (*CachedCatalogStore)(nil)
