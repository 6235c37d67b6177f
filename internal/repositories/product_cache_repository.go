package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"katalog/internal/models"

	"github.com/redis/go-redis/v9"
)

const defaultCachePrefix = "product:"

// CachedProductRepository puts a Redis read-through cache in front of another
// ProductRepository. Only single-product lookups are cached; writes go to the
// backing repository first and then evict the cached entry.
type CachedProductRepository struct {
	next   ProductRepository
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewCachedProductRepository wraps next with a cache. Prefix may be empty.
func NewCachedProductRepository(next ProductRepository, client *redis.Client, prefix string, ttl time.Duration) *CachedProductRepository {
	if prefix == "" {
		prefix = defaultCachePrefix
	}
	return &CachedProductRepository{next: next, client: client, prefix: prefix, ttl: ttl}
}

func (r *CachedProductRepository) key(id string) string {
	return r.prefix + id
}

// GetAll is never cached.
func (r *CachedProductRepository) GetAll(ctx context.Context, page PageRequest) ([]models.Product, int64, error) {
	return r.next.GetAll(ctx, page)
}

// GetByID serves from the cache when possible and fills it on a miss.
// Cache failures degrade to the backing repository.
func (r *CachedProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	b, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err == nil {
		var product models.Product
		if err := json.Unmarshal(b, &product); err == nil {
			return &product, nil
		}
		log.Printf("Discarding unreadable cache entry for product %s", id)
	} else if !errors.Is(err, redis.Nil) {
		log.Printf("Product cache read failed for %s: %v", id, err)
	}

	product, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, product)
	return product, nil
}

// Save writes through to the backing repository and evicts the cached copy.
func (r *CachedProductRepository) Save(ctx context.Context, product *models.Product) (*models.Product, error) {
	saved, err := r.next.Save(ctx, product)
	if err != nil {
		return nil, err
	}
	r.evict(ctx, saved.ID)
	return saved, nil
}

// Delete removes the product from the backing repository and the cache.
func (r *CachedProductRepository) Delete(ctx context.Context, id string) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}

func (r *CachedProductRepository) store(ctx context.Context, product *models.Product) {
	b, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, r.key(product.ID), b, r.ttl).Err(); err != nil {
		log.Printf("Product cache write failed for %s: %v", product.ID, err)
	}
}

func (r *CachedProductRepository) evict(ctx context.Context, id string) {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		log.Printf("Product cache eviction failed for %s: %v", id, err)
	}
}
