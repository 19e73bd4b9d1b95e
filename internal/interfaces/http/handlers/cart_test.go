package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/grocery-backend/internal/config"
	"github.com/your-org/grocery-backend/internal/domain/cart"
	"github.com/your-org/grocery-backend/internal/domain/product"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type memoryCartRepository struct {
	slots map[string][]cart.LineItem
}

func newMemoryCartRepository() *memoryCartRepository {
	return &memoryCartRepository{slots: make(map[string][]cart.LineItem)}
}

func (m *memoryCartRepository) Load(_ context.Context, slot string) ([]cart.LineItem, error) {
	return m.slots[slot], nil
}

func (m *memoryCartRepository) Save(_ context.Context, slot string, items []cart.LineItem) error {
	m.slots[slot] = items
	return nil
}

func (m *memoryCartRepository) Clear(_ context.Context, slot string) error {
	delete(m.slots, slot)
	return nil
}

func newCartTestRouter(t *testing.T) (*gin.Engine, *gorm.DB, *memoryCartRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&product.Category{}, &product.Product{}))

	cfg := &config.Config{}
	cfg.App.Environment = "test"
	cfg.Cart.KeyPrefix = "cart:session:"
	cfg.Cart.TTL = 30 * 24 * time.Hour

	repo := newMemoryCartRepository()
	handler := NewCartHandler(db, repo, cfg)

	router := gin.New()
	router.GET("/cart", handler.GetCart)
	router.POST("/cart/items", handler.AddItem)
	router.PUT("/cart/items/:id", handler.UpdateQuantity)
	router.DELETE("/cart/items/:id", handler.RemoveItem)
	router.DELETE("/cart", handler.ClearCart)

	return router, db, repo
}

func seedCatalogProduct(t *testing.T, db *gorm.DB, name, price string, stock int) product.Product {
	t.Helper()
	prod := product.Product{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		Unit:          "kg",
		IsActive:      true,
	}
	require.NoError(t, db.Create(&prod).Error)
	return prod
}

func performCartRequest(router *gin.Engine, method, path, session string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Cart-Session", session)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeCartState(t *testing.T, recorder *httptest.ResponseRecorder) cart.State {
	t.Helper()
	var envelope struct {
		Data cart.State `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestGetCartStartsEmpty(t *testing.T) {
	router, _, _ := newCartTestRouter(t)

	recorder := performCartRequest(router, http.MethodGet, "/cart", "session-a", nil)

	require.Equal(t, http.StatusOK, recorder.Code)
	state := decodeCartState(t, recorder)
	assert.Empty(t, state.Items)
	assert.Equal(t, 0, state.ItemCount)
	assert.True(t, state.Total.IsZero())
}

func TestAddItemCopiesCatalogSnapshot(t *testing.T) {
	router, db, repo := newCartTestRouter(t)
	prod := seedCatalogProduct(t, db, "Tomatoes", "2.50", 5)

	recorder := performCartRequest(router, http.MethodPost, "/cart/items", "session-a", gin.H{
		"product_id": prod.ID,
	})

	require.Equal(t, http.StatusOK, recorder.Code)
	state := decodeCartState(t, recorder)
	require.Len(t, state.Items, 1)
	assert.Equal(t, prod.ID, state.Items[0].ID)
	assert.Equal(t, "Tomatoes", state.Items[0].Name)
	assert.Equal(t, 1, state.Items[0].Quantity)
	assert.Equal(t, 5, state.Items[0].StockQuantity)
	assert.True(t, decimal.RequireFromString("2.50").Equal(state.Total))

	// The slot holds the persisted line items
	assert.Len(t, repo.slots["session-a"], 1)
}

func TestAddItemUnknownProduct(t *testing.T) {
	router, _, _ := newCartTestRouter(t)

	recorder := performCartRequest(router, http.MethodPost, "/cart/items", "session-a", gin.H{
		"product_id": "11111111-1111-1111-1111-111111111111",
	})

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestAddItemOutOfStock(t *testing.T) {
	router, db, _ := newCartTestRouter(t)
	prod := seedCatalogProduct(t, db, "Saffron", "9.99", 0)

	recorder := performCartRequest(router, http.MethodPost, "/cart/items", "session-a", gin.H{
		"product_id": prod.ID,
	})

	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestCartSessionsAreIsolated(t *testing.T) {
	router, db, _ := newCartTestRouter(t)
	prod := seedCatalogProduct(t, db, "Apples", "3.20", 10)

	performCartRequest(router, http.MethodPost, "/cart/items", "session-a", gin.H{
		"product_id": prod.ID,
	})

	recorder := performCartRequest(router, http.MethodGet, "/cart", "session-b", nil)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, decodeCartState(t, recorder).Items)
}

func TestUpdateQuantityAndRemoveFlow(t *testing.T) {
	router, db, _ := newCartTestRouter(t)
	prod := seedCatalogProduct(t, db, "Bananas", "1.10", 4)

	performCartRequest(router, http.MethodPost, "/cart/items", "session-a", gin.H{
		"product_id": prod.ID,
	})

	// Raise above the stock ceiling; the store clamps to 4
	recorder := performCartRequest(router, http.MethodPut, fmt.Sprintf("/cart/items/%s", prod.ID), "session-a", gin.H{
		"quantity": 9,
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	state := decodeCartState(t, recorder)
	require.Len(t, state.Items, 1)
	assert.Equal(t, 4, state.Items[0].Quantity)

	// Zero quantity removes the line
	recorder = performCartRequest(router, http.MethodPut, fmt.Sprintf("/cart/items/%s", prod.ID), "session-a", gin.H{
		"quantity": 0,
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, decodeCartState(t, recorder).Items)
}

func TestClearCartDeletesSlot(t *testing.T) {
	router, db, repo := newCartTestRouter(t)
	prod := seedCatalogProduct(t, db, "Eggs", "2.40", 6)

	performCartRequest(router, http.MethodPost, "/cart/items", "session-a", gin.H{
		"product_id": prod.ID,
	})
	require.Contains(t, repo.slots, "session-a")

	recorder := performCartRequest(router, http.MethodDelete, "/cart", "session-a", nil)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, decodeCartState(t, recorder).Items)
	assert.NotContains(t, repo.slots, "session-a")
}

func TestCartPersistsAcrossRequests(t *testing.T) {
	router, db, _ := newCartTestRouter(t)
	prod := seedCatalogProduct(t, db, "Milk", "0.99", 8)

	for i := 0; i < 3; i++ {
		performCartRequest(router, http.MethodPost, "/cart/items", "session-a", gin.H{
			"product_id": prod.ID,
		})
	}

	recorder := performCartRequest(router, http.MethodGet, "/cart", "session-a", nil)

	require.Equal(t, http.StatusOK, recorder.Code)
	state := decodeCartState(t, recorder)
	require.Len(t, state.Items, 1)
	assert.Equal(t, 3, state.Items[0].Quantity)
	assert.Equal(t, 3, state.ItemCount)
	assert.True(t, decimal.RequireFromString("2.97").Equal(state.Total))
}
