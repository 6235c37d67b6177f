package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"katalog/internal/metrics"
	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/validation"
	"katalog/pkg/rabbitmq"
)

// ValidationError is returned by the save operations when a product breaks
// one or more field rules. Nothing is persisted when it is returned.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("product validation failed: %s", e.Violations)
}

// EventPublisher is the broker capability ProductService notifies after writes.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// ProductEvent is the message published after a product is saved or deleted.
type ProductEvent struct {
	Type       string          `json:"type"`
	ProductID  string          `json:"productId"`
	Product    *models.Product `json:"product,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	validator *validation.Validator
	publisher EventPublisher
}

// NewProductService creates a new ProductService. publisher may be nil, in
// which case no events are emitted.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher) *ProductService {
	return &ProductService{
		repo:      repo,
		validator: validation.New(),
		publisher: publisher,
	}
}

// ValidateProduct reports every rule the product breaks without persisting it.
func (s *ProductService) ValidateProduct(product *models.Product) validation.Violations {
	return s.validator.Validate(product)
}

// SaveProduct validates the product and, when it is valid, stores it with a
// single repository call. The repository's result and errors are returned as is.
func (s *ProductService) SaveProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if violations := s.validator.Validate(product); len(violations) > 0 {
		metrics.ProductSaves.WithLabelValues(metrics.OutcomeRejected).Inc()
		for _, v := range violations {
			metrics.ProductViolations.WithLabelValues(v.Field, string(v.Kind)).Inc()
		}
		return nil, &ValidationError{Violations: violations}
	}

	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		metrics.ProductSaves.WithLabelValues(metrics.OutcomeFailed).Inc()
		return nil, err
	}
	metrics.ProductSaves.WithLabelValues(metrics.OutcomeSaved).Inc()

	s.publish(rabbitmq.RoutingKeyProductSaved, ProductEvent{
		Type:       rabbitmq.RoutingKeyProductSaved,
		ProductID:  saved.ID,
		Product:    saved,
		OccurredAt: time.Now().UTC(),
	})
	return saved, nil
}

// UpdateProduct replaces the product stored under id.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, product *models.Product) (*models.Product, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	product.ID = id
	return s.SaveProduct(ctx, product)
}

// PartialUpdateProduct applies the non-nil fields of patch to the stored
// product, then validates and saves the result.
func (s *ProductService) PartialUpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.ApplyTo(existing)
	existing.ID = id
	return s.SaveProduct(ctx, existing)
}

// GetAllProducts retrieves one page of products and the total count.
func (s *ProductService) GetAllProducts(ctx context.Context, page repositories.PageRequest) ([]models.Product, int64, error) {
	return s.repo.GetAll(ctx, page)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(rabbitmq.RoutingKeyProductDeleted, ProductEvent{
		Type:       rabbitmq.RoutingKeyProductDeleted,
		ProductID:  id,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

// publish is best effort: the write has already happened, so failures are
// logged and counted but never returned.
func (s *ProductService) publish(routingKey string, event ProductEvent) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal %s event for product %s: %v", routingKey, event.ProductID, err)
		return
	}
	if err := s.publisher.Publish(rabbitmq.ProductExchange, routingKey, body); err != nil {
		metrics.EventsPublished.WithLabelValues(routingKey, "error").Inc()
		log.Printf("Warning: failed to publish %s event for product %s: %v", routingKey, event.ProductID, err)
		return
	}
	metrics.EventsPublished.WithLabelValues(routingKey, "ok").Inc()
}
