package repositories

import (
	"context"
	"errors"

	"katalog/internal/models"
)

// ErrProductNotFound is returned (wrapped) when no product has the requested ID.
var ErrProductNotFound = errors.New("product not found")

// PageRequest selects one zero-based page of a listing.
type PageRequest struct {
	Page int
	Size int
}

// Offset returns the number of rows to skip.
func (p PageRequest) Offset() int {
	if p.Page < 0 || p.Size <= 0 {
		return 0
	}
	return p.Page * p.Size
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(ctx context.Context, page PageRequest) ([]models.Product, int64, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	// Save inserts or replaces the product, assigning an ID when it has none,
	// and returns the stored value.
	Save(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}
