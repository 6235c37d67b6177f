package repositories_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"katalog/internal/models"
	"katalog/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func ptr[T any](v T) *T { return &v }

func newProduct(title string) *models.Product {
	added := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &models.Product{
		Title:           title,
		Price:           ptr(decimal.RequireFromString("19.99")),
		QuantityInStock: ptr(3),
		Status:          models.StatusInStock,
		Dimensions:      ptr("10x10x10 cm"),
		DateAdded:       &added,
	}
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}))
	return db
}

// exerciseRepository runs the contract every ProductRepository must honour.
func exerciseRepository(t *testing.T, repo repositories.ProductRepository) {
	ctx := context.Background()

	created, err := repo.Save(ctx, newProduct("Keyboard"))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	_, err = uuid.Parse(created.ID)
	assert.NoError(t, err)

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keyboard", fetched.Title)
	assert.True(t, fetched.Price.Equal(decimal.RequireFromString("19.99")))
	assert.Equal(t, 3, *fetched.QuantityInStock)
	assert.True(t, fetched.DateAdded.Equal(*created.DateAdded))
	assert.Nil(t, fetched.Keywords)

	// Saving with an existing ID replaces the stored product and keeps the ID.
	fetched.Title = "Mechanical Keyboard"
	fetched.Dimensions = nil
	updated, err := repo.Save(ctx, fetched)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	refetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mechanical Keyboard", refetched.Title)
	assert.Nil(t, refetched.Dimensions)

	// A caller-chosen ID is preserved.
	preset := newProduct("Mouse")
	preset.ID = "00000000-0000-0000-0000-000000000001"
	saved, err := repo.Save(ctx, preset)
	require.NoError(t, err)
	assert.Equal(t, preset.ID, saved.ID)

	for _, title := range []string{"Monitor", "Webcam", "Headset"} {
		_, err := repo.Save(ctx, newProduct(title))
		require.NoError(t, err)
	}

	all, total, err := repo.GetAll(ctx, repositories.PageRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, all, 5)

	first, total, err := repo.GetAll(ctx, repositories.PageRequest{Page: 0, Size: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, first, 2)
	assert.Equal(t, preset.ID, first[0].ID)

	last, _, err := repo.GetAll(ctx, repositories.PageRequest{Page: 2, Size: 2})
	require.NoError(t, err)
	assert.Len(t, last, 1)

	beyond, _, err := repo.GetAll(ctx, repositories.PageRequest{Page: 9, Size: 2})
	require.NoError(t, err)
	assert.Empty(t, beyond)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)

	err = repo.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
}

func TestInMemoryProductRepository(t *testing.T) {
	exerciseRepository(t, repositories.NewInMemoryProductRepository())
}

func TestInMemoryProductRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewInMemoryProductRepository()

	p := newProduct("Lamp")
	_, err := repo.Save(ctx, p)
	require.NoError(t, err)

	*p.QuantityInStock = 99
	fetched, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, *fetched.QuantityInStock)
}

func TestGORMProductRepository(t *testing.T) {
	exerciseRepository(t, repositories.NewGORMProductRepository(openTestDB(t)))
}

func TestGORMProductRepository_PriceRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMProductRepository(openTestDB(t))

	for _, price := range []string{"1", "1.5", "1.05", "1234.56", "9999.00"} {
		t.Run(price, func(t *testing.T) {
			p := newProduct("Priced")
			p.Price = ptr(decimal.RequireFromString(price))

			saved, err := repo.Save(ctx, p)
			require.NoError(t, err)

			fetched, err := repo.GetByID(ctx, saved.ID)
			require.NoError(t, err)
			require.NotNil(t, fetched.Price)
			assert.True(t, fetched.Price.Equal(*saved.Price), "stored %s, returned %s", fetched.Price, saved.Price)
		})
	}
}

func TestPageRequest_Offset(t *testing.T) {
	assert.Equal(t, 0, repositories.PageRequest{}.Offset())
	assert.Equal(t, 0, repositories.PageRequest{Page: -1, Size: 10}.Offset())
	assert.Equal(t, 30, repositories.PageRequest{Page: 3, Size: 10}.Offset())
}
