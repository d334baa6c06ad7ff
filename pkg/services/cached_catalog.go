package services

import (
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"image-catalog/pkg/models"
)

const categoriesKey = "categories"

// CachedCatalog memoises listings of another Catalog for a short TTL.
// Only successful resolutions are cached. Returned values are shared
// between callers and must not be modified.
type CachedCatalog struct {
	next  Catalog
	cache *cache.Cache
}

// NewCachedCatalog wraps next with an in-memory cache expiring after ttl
func NewCachedCatalog(next Catalog, ttl time.Duration) *CachedCatalog {
	return &CachedCatalog{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

// WithCache wraps catalog in a CachedCatalog when ttl is positive
func WithCache(catalog Catalog, ttl time.Duration) Catalog {
	if ttl <= 0 {
		return catalog
	}
	return NewCachedCatalog(catalog, ttl)
}

// ListCategories returns the cached home listing, computing it on a miss
func (c *CachedCatalog) ListCategories() []models.Category {
	if cached, found := c.cache.Get(categoriesKey); found {
		return cached.([]models.Category)
	}

	categories := c.next.ListCategories()
	c.cache.SetDefault(categoriesKey, categories)
	return categories
}

// Resolve returns the cached directory listing, computing it on a miss
func (c *CachedCatalog) Resolve(segments []string) (*models.DirectoryContent, error) {
	key := "dir:" + strings.Join(segments, "\x00")
	if cached, found := c.cache.Get(key); found {
		return cached.(*models.DirectoryContent), nil
	}

	content, err := c.next.Resolve(segments)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(key, content)
	return content, nil
}

// Flush drops every cached listing
func (c *CachedCatalog) Flush() {
	c.cache.Flush()
}
