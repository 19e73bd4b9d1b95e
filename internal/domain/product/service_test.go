// internal/domain/product/service_test.go
package product

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Category{}, &Product{}))

	return NewService(db, nil)
}

func seedProduct(t *testing.T, s *Service, name, price string, stock int, categoryID *string, active bool) *Product {
	t.Helper()

	prod := &Product{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		Unit:          "kg",
		CategoryID:    categoryID,
		IsActive:      active,
	}
	require.NoError(t, s.db.Create(prod).Error)
	return prod
}

func TestListProductsFiltersInactive(t *testing.T) {
	svc := newTestService(t)
	seedProduct(t, svc, "Apples", "1.50", 10, nil, true)
	seedProduct(t, svc, "Bananas", "0.80", 10, nil, false)

	products, err := svc.ListProducts(&ListRequest{})

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Apples", products[0].Name)
}

func TestListProductsByCategory(t *testing.T) {
	svc := newTestService(t)
	category, err := svc.CreateCategory(&CreateCategoryRequest{Name: "Fruits"})
	require.NoError(t, err)

	seedProduct(t, svc, "Apples", "1.50", 10, &category.ID, true)
	seedProduct(t, svc, "Milk", "0.99", 5, nil, true)

	products, err := svc.ListProducts(&ListRequest{CategoryID: category.ID})

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Apples", products[0].Name)
}

func TestListProductsSearchIsCaseInsensitive(t *testing.T) {
	svc := newTestService(t)
	seedProduct(t, svc, "Green Apples", "1.50", 10, nil, true)
	seedProduct(t, svc, "Milk", "0.99", 5, nil, true)

	products, err := svc.ListProducts(&ListRequest{Search: "APPLE"})

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Green Apples", products[0].Name)
}

func TestListProductsOrderedByName(t *testing.T) {
	svc := newTestService(t)
	seedProduct(t, svc, "Zucchini", "2.00", 3, nil, true)
	seedProduct(t, svc, "Apples", "1.50", 10, nil, true)

	products, err := svc.ListProducts(&ListRequest{})

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Apples", products[0].Name)
	assert.Equal(t, "Zucchini", products[1].Name)
}

func TestGetProductRejectsInactive(t *testing.T) {
	svc := newTestService(t)
	prod := seedProduct(t, svc, "Apples", "1.50", 10, nil, false)

	_, err := svc.GetProduct(prod.ID)

	assert.Error(t, err)
}

func TestUpdateProductPartial(t *testing.T) {
	svc := newTestService(t)
	prod := seedProduct(t, svc, "Apples", "1.50", 10, nil, true)

	newPrice := decimal.RequireFromString("1.75")
	updated, err := svc.UpdateProduct(prod.ID, &UpdateProductRequest{Price: &newPrice})

	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(newPrice))
	assert.Equal(t, "Apples", updated.Name)
	assert.Equal(t, 10, updated.StockQuantity)
}

func TestUpdateStock(t *testing.T) {
	svc := newTestService(t)
	prod := seedProduct(t, svc, "Apples", "1.50", 10, nil, true)

	updated, err := svc.UpdateStock(prod.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.StockQuantity)
	assert.False(t, updated.IsInStock())

	_, err = svc.UpdateStock(prod.ID, -1)
	assert.Error(t, err)
}

func TestDeleteProductSoftDeletes(t *testing.T) {
	svc := newTestService(t)
	prod := seedProduct(t, svc, "Apples", "1.50", 10, nil, true)

	require.NoError(t, svc.DeleteProduct(prod.ID))

	products, err := svc.ListProducts(&ListRequest{})
	require.NoError(t, err)
	assert.Empty(t, products)

	assert.Error(t, svc.DeleteProduct("missing"))
}
