package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus is the availability state of a product.
type ProductStatus string

const (
	StatusInStock      ProductStatus = "IN_STOCK"
	StatusOutOfStock   ProductStatus = "OUT_OF_STOCK"
	StatusPreorder     ProductStatus = "PREORDER"
	StatusDiscontinued ProductStatus = "DISCONTINUED"
)

// ProductStatuses lists every known status, in declaration order.
var ProductStatuses = []ProductStatus{StatusInStock, StatusOutOfStock, StatusPreorder, StatusDiscontinued}

// IsValid reports whether s is one of the known statuses.
func (s ProductStatus) IsValid() bool {
	for _, known := range ProductStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Product represents a product in the catalog.
// Optional fields are pointers so that "absent" and "zero" stay distinguishable.
type Product struct {
	ID              string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title           string           `json:"title" gorm:"type:varchar(100);not null" validate:"required,min=3,max=100"`
	Keywords        *string          `json:"keywords,omitempty" gorm:"type:varchar(200)" validate:"omitempty,max=200"`
	Description     *string          `json:"description,omitempty" gorm:"type:text" validate:"omitempty,min=50"`
	Rating          *int             `json:"rating,omitempty" validate:"omitempty,min=1,max=10"`
	Price           *decimal.Decimal `json:"price" gorm:"type:decimal(21,2);not null" validate:"required,decimal_min=1,decimal_max=9999,decimal_places=2"`
	QuantityInStock *int             `json:"quantityInStock" gorm:"not null" validate:"required,gte=0"`
	Status          ProductStatus    `json:"status" gorm:"type:varchar(20);not null" validate:"required,oneof=IN_STOCK OUT_OF_STOCK PREORDER DISCONTINUED"`
	Weight          *float64         `json:"weight,omitempty" validate:"omitempty,gte=0"`
	Dimensions      *string          `json:"dimensions,omitempty" gorm:"type:varchar(50)" validate:"omitempty,max=50"`
	DateAdded       *time.Time       `json:"dateAdded" gorm:"not null" validate:"required"`
	DateModified    *time.Time       `json:"dateModified,omitempty"`
}

// ProductPatch carries the fields of a partial update. Nil fields, which
// includes fields sent as JSON null, are left untouched, so a patch cannot
// clear an optional field. Use a full update for that.
type ProductPatch struct {
	Title           *string          `json:"title"`
	Keywords        *string          `json:"keywords"`
	Description     *string          `json:"description"`
	Rating          *int             `json:"rating"`
	Price           *decimal.Decimal `json:"price"`
	QuantityInStock *int             `json:"quantityInStock"`
	Status          *ProductStatus   `json:"status"`
	Weight          *float64         `json:"weight"`
	Dimensions      *string          `json:"dimensions"`
	DateAdded       *time.Time       `json:"dateAdded"`
	DateModified    *time.Time       `json:"dateModified"`
}

// ApplyTo copies every non-nil field of the patch onto p.
func (patch ProductPatch) ApplyTo(p *Product) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Keywords != nil {
		p.Keywords = patch.Keywords
	}
	if patch.Description != nil {
		p.Description = patch.Description
	}
	if patch.Rating != nil {
		p.Rating = patch.Rating
	}
	if patch.Price != nil {
		p.Price = patch.Price
	}
	if patch.QuantityInStock != nil {
		p.QuantityInStock = patch.QuantityInStock
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Weight != nil {
		p.Weight = patch.Weight
	}
	if patch.Dimensions != nil {
		p.Dimensions = patch.Dimensions
	}
	if patch.DateAdded != nil {
		p.DateAdded = patch.DateAdded
	}
	if patch.DateModified != nil {
		p.DateModified = patch.DateModified
	}
}

// Clone returns a copy of p that shares no pointers with it.
func (p Product) Clone() Product {
	c := p
	c.Keywords = clonePtr(p.Keywords)
	c.Description = clonePtr(p.Description)
	c.Rating = clonePtr(p.Rating)
	c.Price = clonePtr(p.Price)
	c.QuantityInStock = clonePtr(p.QuantityInStock)
	c.Weight = clonePtr(p.Weight)
	c.Dimensions = clonePtr(p.Dimensions)
	c.DateAdded = clonePtr(p.DateAdded)
	c.DateModified = clonePtr(p.DateModified)
	return c
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
