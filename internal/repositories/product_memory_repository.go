package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"katalog/internal/models"

	"github.com/google/uuid"
)

// InMemoryProductRepository is a map-backed implementation of ProductRepository.
type InMemoryProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewInMemoryProductRepository creates a new, empty InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: make(map[string]models.Product),
	}
}

// GetAll returns one page of products ordered by ID, and the total count.
func (r *InMemoryProductRepository) GetAll(_ context.Context, page PageRequest) ([]models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.products))
	for id := range r.products {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	total := int64(len(ids))
	start := page.Offset()
	if start > len(ids) {
		start = len(ids)
	}
	end := len(ids)
	if page.Size > 0 && start+page.Size < end {
		end = start + page.Size
	}

	productList := make([]models.Product, 0, end-start)
	for _, id := range ids[start:end] {
		productList = append(productList, r.products[id].Clone())
	}
	return productList, total, nil
}

// GetByID returns a product by its ID.
func (r *InMemoryProductRepository) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s: %w", id, ErrProductNotFound)
	}
	c := product.Clone()
	return &c, nil
}

// Save stores the product, generating an ID if it has none.
func (r *InMemoryProductRepository) Save(_ context.Context, product *models.Product) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.products[product.ID] = product.Clone()
	return product, nil
}

// Delete removes a product by its ID.
func (r *InMemoryProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("product with ID %s: %w", id, ErrProductNotFound)
	}
	delete(r.products, id)
	return nil
}
