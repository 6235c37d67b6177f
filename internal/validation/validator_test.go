package validation_test

import (
	"strings"
	"sync"
	"testing"
	"time"

	"katalog/internal/models"
	"katalog/internal/validation"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// baseValid returns a product sitting on the lower bounds of every rule.
func baseValid() *models.Product {
	now := time.Now()
	return &models.Product{
		Title:           "ABC",
		Description:     ptr(strings.Repeat("D", 50)),
		Rating:          ptr(1),
		Price:           ptr(decimal.RequireFromString("1.00")),
		QuantityInStock: ptr(0),
		Status:          models.StatusInStock,
		Weight:          ptr(0.0),
		Dimensions:      ptr("10x10x10 cm"),
		DateAdded:       &now,
	}
}

func only(field string, kind validation.ConstraintKind) validation.Violations {
	return validation.Violations{{Field: field, Kind: kind}}
}

func TestValidate_LowerBoundsValid(t *testing.T) {
	v := validation.New()
	assert.Empty(t, v.Validate(baseValid()))
}

func TestValidate_UpperBoundsValid(t *testing.T) {
	v := validation.New()
	p := baseValid()
	p.Title = strings.Repeat("X", 100)
	p.Keywords = ptr(strings.Repeat("K", 200))
	p.Rating = ptr(10)
	p.Price = ptr(decimal.RequireFromString("9999"))
	p.QuantityInStock = ptr(1)
	p.Status = models.StatusPreorder
	p.Dimensions = ptr(strings.Repeat("D", 50))

	assert.Empty(t, v.Validate(p))
}

func TestValidate_OptionalFieldsAbsent(t *testing.T) {
	v := validation.New()
	p := baseValid()
	p.Keywords = nil
	p.Description = nil
	p.Rating = nil
	p.Weight = nil
	p.Dimensions = nil
	p.DateModified = nil

	assert.Empty(t, v.Validate(p))
}

func TestValidate_FieldRules(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name   string
		mutate func(p *models.Product)
		want   validation.Violations
	}{
		{"title too short", func(p *models.Product) { p.Title = "AB" }, only("title", validation.KindSize)},
		{"title too long", func(p *models.Product) { p.Title = strings.Repeat("X", 101) }, only("title", validation.KindSize)},
		{"title absent", func(p *models.Product) { p.Title = "" }, only("title", validation.KindRequired)},
		{"title counts characters", func(p *models.Product) { p.Title = "ééé" }, validation.Violations{}},
		{"keywords too long", func(p *models.Product) { p.Keywords = ptr(strings.Repeat("K", 201)) }, only("keywords", validation.KindSize)},
		{"description too short", func(p *models.Product) { p.Description = ptr(strings.Repeat("D", 49)) }, only("description", validation.KindSize)},
		{"description present but empty", func(p *models.Product) { p.Description = ptr("") }, only("description", validation.KindSize)},
		{"description long", func(p *models.Product) { p.Description = ptr(strings.Repeat("D", 5000)) }, validation.Violations{}},
		{"rating below", func(p *models.Product) { p.Rating = ptr(0) }, only("rating", validation.KindRange)},
		{"rating above", func(p *models.Product) { p.Rating = ptr(11) }, only("rating", validation.KindRange)},
		{"price below", func(p *models.Product) { p.Price = ptr(decimal.RequireFromString("0.99")) }, only("price", validation.KindRange)},
		{"price above", func(p *models.Product) { p.Price = ptr(decimal.RequireFromString("10000")) }, only("price", validation.KindRange)},
		{"price zero", func(p *models.Product) { p.Price = ptr(decimal.Zero) }, only("price", validation.KindRange)},
		{"price just above", func(p *models.Product) { p.Price = ptr(decimal.RequireFromString("9999.0000000000000001")) }, only("price", validation.KindRange)},
		{"price just below", func(p *models.Product) { p.Price = ptr(decimal.RequireFromString("0.99999999999999999999")) }, only("price", validation.KindRange)},
		{"price one cent above", func(p *models.Product) { p.Price = ptr(decimal.RequireFromString("9999.01")) }, only("price", validation.KindRange)},
		{"price too precise", func(p *models.Product) { p.Price = ptr(decimal.RequireFromString("1.005")) }, only("price", validation.KindRange)},
		{"price trailing zeros", func(p *models.Product) { p.Price = ptr(decimal.RequireFromString("1.5000")) }, validation.Violations{}},
		{"price absent", func(p *models.Product) { p.Price = nil }, only("price", validation.KindRequired)},
		{"quantity negative", func(p *models.Product) { p.QuantityInStock = ptr(-1) }, only("quantityInStock", validation.KindRange)},
		{"quantity absent", func(p *models.Product) { p.QuantityInStock = nil }, only("quantityInStock", validation.KindRequired)},
		{"status absent", func(p *models.Product) { p.Status = "" }, only("status", validation.KindRequired)},
		{"status unknown", func(p *models.Product) { p.Status = "ON_SALE" }, only("status", validation.KindInvalidEnum)},
		{"weight negative", func(p *models.Product) { p.Weight = ptr(-0.01) }, only("weight", validation.KindRange)},
		{"dimensions too long", func(p *models.Product) { p.Dimensions = ptr(strings.Repeat("D", 51)) }, only("dimensions", validation.KindSize)},
		{"date added absent", func(p *models.Product) { p.DateAdded = nil }, only("dateAdded", validation.KindRequired)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := baseValid()
			tt.mutate(p)
			assert.Equal(t, tt.want, v.Validate(p))
		})
	}
}

func TestValidate_EveryStatusAccepted(t *testing.T) {
	v := validation.New()
	for _, status := range models.ProductStatuses {
		p := baseValid()
		p.Status = status
		assert.Empty(t, v.Validate(p), "status %s", status)
	}
}

func TestValidate_DatesNotCrossChecked(t *testing.T) {
	v := validation.New()
	p := baseValid()
	earlier := p.DateAdded.Add(-48 * time.Hour)
	p.DateModified = &earlier

	assert.Empty(t, v.Validate(p))

	p.DateAdded = nil
	assert.Equal(t, only("dateAdded", validation.KindRequired), v.Validate(p))
}

func TestValidate_CollectsAllViolationsInOrder(t *testing.T) {
	v := validation.New()
	p := baseValid()
	p.Title = "AB"
	p.Price = nil
	p.Status = "BOGUS"

	got := v.Validate(p)
	assert.Equal(t, validation.Violations{
		{Field: "price", Kind: validation.KindRequired},
		{Field: "status", Kind: validation.KindInvalidEnum},
		{Field: "title", Kind: validation.KindSize},
	}, got)
	assert.Equal(t, []string{"price", "status", "title"}, got.Fields())
	assert.True(t, got.Has("title"))
	assert.False(t, got.Has("rating"))
	assert.Equal(t, "price: required, status: invalidEnum, title: size", got.String())
}

func TestValidate_Idempotent(t *testing.T) {
	v := validation.New()
	p := baseValid()
	p.Rating = ptr(42)
	p.Keywords = ptr(strings.Repeat("K", 300))

	first := v.Validate(p)
	second := v.Validate(p)
	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestValidate_NeverFails(t *testing.T) {
	v := validation.New()

	assert.Equal(t, only("record", validation.KindRequired), v.Validate(nil))
	var nilProduct *models.Product
	assert.Equal(t, only("record", validation.KindRequired), v.Validate(nilProduct))
	assert.Equal(t, only("record", validation.KindRequired), v.Validate(42))
}

func TestValidate_ConcurrentUse(t *testing.T) {
	v := validation.New()
	p := baseValid()
	p.Title = "AB"

	var wg sync.WaitGroup
	results := make([]validation.Violations, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = v.Validate(p)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		require.Equal(t, only("title", validation.KindSize), got)
	}
}
