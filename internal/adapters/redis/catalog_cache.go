package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/tausif4802/ggp-backend/internal/domain"
	pkglog "github.com/tausif4802/ggp-backend/pkg/log"
)

const (
	keyCategories     = "catalog:categories"
	keyCategoryPrefix = "catalog:category:"
)

// CatalogCache stores the category list and per-category views (with packages).
type CatalogCache struct {
	list     *ViewCache[[]domain.Category]
	category *ViewCache[domain.CategoryDetail]
}

func NewCatalogCache(client *goredis.Client, ttl time.Duration, logger pkglog.Logger) *CatalogCache {
	return &CatalogCache{
		list:     NewViewCache[[]domain.Category](client, ttl, logger),
		category: NewViewCache[domain.CategoryDetail](client, ttl, logger),
	}
}

func (c *CatalogCache) Categories(ctx context.Context) ([]domain.Category, bool) {
	v, ok := c.list.Get(ctx, keyCategories)
	if !ok {
		return nil, false
	}
	return *v, true
}

func (c *CatalogCache) SetCategories(ctx context.Context, categories []domain.Category) {
	c.list.Set(ctx, keyCategories, &categories)
}

func (c *CatalogCache) Category(ctx context.Context, id string) (*domain.CategoryDetail, bool) {
	return c.category.Get(ctx, keyCategoryPrefix+id)
}

func (c *CatalogCache) SetCategory(ctx context.Context, category *domain.CategoryDetail) {
	c.category.Set(ctx, keyCategoryPrefix+category.ID, category)
}

// Invalidate drops the category list and the given category views.
func (c *CatalogCache) Invalidate(ctx context.Context, categoryIDs ...string) {
	keys := []string{keyCategories}
	for _, id := range categoryIDs {
		keys = append(keys, keyCategoryPrefix+id)
	}
	c.list.Delete(ctx, keys...)
}
