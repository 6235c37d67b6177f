package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/services"

	"github.com/gofiber/fiber/v2"
)

const maxPageSize = 200

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service         *services.ProductService
	defaultPageSize int
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, defaultPageSize int) *ProductHandler {
	if defaultPageSize <= 0 {
		defaultPageSize = 20
	}
	return &ProductHandler{
		service:         service,
		defaultPageSize: defaultPageSize,
	}
}

// RegisterRoutes registers the product routes on the given router.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Post("/validate", h.HandleValidateProduct)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Patch("/:id", h.HandlePartialUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts returns one page of products. The total is sent in X-Total-Count.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	page, err := h.pageRequest(c)
	if err != nil {
		return badRequest(c, "Invalid paging parameters", err)
	}

	products, total, err := h.service.GetAllProducts(c.UserContext(), page)
	if err != nil {
		log.Printf("Error getting products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}
	c.Set("X-Total-Count", strconv.FormatInt(total, 10))
	return c.JSON(products)
}

// HandleGetProductByID returns a single product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id := c.Params("id")
	product, err := h.service.GetProductByID(c.UserContext(), id)
	if err != nil {
		return h.writeError(c, err, "Could not retrieve product")
	}
	return c.JSON(product)
}

// HandleCreateProduct validates and stores a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		log.Printf("Error parsing product request body: %v", err)
		return badRequest(c, "Invalid request body", err)
	}
	if product.ID != "" {
		return badRequest(c, "A new product cannot already have an ID", nil)
	}

	created, err := h.service.SaveProduct(c.UserContext(), &product)
	if err != nil {
		return h.writeError(c, err, "Could not create product")
	}
	c.Location(fmt.Sprintf("/api/v1/products/%s", created.ID))
	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleUpdateProduct replaces an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		log.Printf("Error parsing product update body: %v", err)
		return badRequest(c, "Invalid request body", err)
	}
	if product.ID != "" && product.ID != id {
		return badRequest(c, "Product ID in body does not match the URL", nil)
	}

	updated, err := h.service.UpdateProduct(c.UserContext(), id, &product)
	if err != nil {
		return h.writeError(c, err, "Could not update product")
	}
	return c.JSON(updated)
}

// HandlePartialUpdateProduct changes only the fields present in the body.
func (h *ProductHandler) HandlePartialUpdateProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	var patch models.ProductPatch
	if err := c.BodyParser(&patch); err != nil {
		log.Printf("Error parsing product patch body: %v", err)
		return badRequest(c, "Invalid request body", err)
	}

	updated, err := h.service.PartialUpdateProduct(c.UserContext(), id, patch)
	if err != nil {
		return h.writeError(c, err, "Could not update product")
	}
	return c.JSON(updated)
}

// HandleDeleteProduct removes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return h.writeError(c, err, "Could not delete product")
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Product %s deleted successfully", id),
	})
}

// HandleValidateProduct reports the violations of a candidate product without storing it.
func (h *ProductHandler) HandleValidateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	violations := h.service.ValidateProduct(&product)
	return c.JSON(fiber.Map{
		"valid":  len(violations) == 0,
		"errors": violations,
	})
}

func (h *ProductHandler) pageRequest(c *fiber.Ctx) (repositories.PageRequest, error) {
	page := repositories.PageRequest{Page: 0, Size: h.defaultPageSize}
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return page, fmt.Errorf("page must be a non-negative integer, got %q", raw)
		}
		page.Page = n
	}
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxPageSize {
			return page, fmt.Errorf("size must be between 1 and %d, got %q", maxPageSize, raw)
		}
		page.Size = n
	}
	return page, nil
}

func (h *ProductHandler) writeError(c *fiber.Ctx, err error, message string) error {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return validationFailed(c, validationErr.Violations)
	case errors.Is(err, repositories.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Product with ID %s not found", c.Params("id")),
		})
	default:
		log.Printf("%s: %v", message, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	}
}
